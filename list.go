package optdec

// listState is the list traversal state of a session. A nil listState means
// no list is open; the four variants below are the phases of
// [Session.BeginList] / [Session.NextElement] iteration. Only the matching
// variant carries data: the queue under traversal and, during range
// expansion, the interval counters.
type listState interface {
	listVariant()
}

// listStarted: the list is open, no element surfaced yet.
type listStarted struct {
	q *occQueue
}

// listInProgress: the queue head is the element currently being decoded.
type listInProgress struct {
	q *occQueue
}

// signedRange: one occurrence is being expanded into a signed interval.
// next is the element most recently yielded, limit the last one to yield.
type signedRange struct {
	q           *occQueue
	next, limit int64
}

// unsignedRange: like signedRange, with unsigned bounds.
type unsignedRange struct {
	q           *occQueue
	next, limit uint64
}

func (*listStarted) listVariant()    {}
func (*listInProgress) listVariant() {}
func (*signedRange) listVariant()    {}
func (*unsignedRange) listVariant()  {}

// BeginList opens iteration over the occurrences of name. Lists cannot
// nest. A name with no unconsumed occurrence fails with
// [MissingParameterError]. After a successful BeginList the caller
// alternates [Session.NextElement] and scalar decodes until NextElement
// reports exhaustion, then calls [Session.EndList].
func (s *Session) BeginList(name string) error {
	if s.list != nil {
		panic("optdec: BeginList inside an open list")
	}
	q, ok := s.lookup(name)
	if !ok {
		return MissingParameterError{Name: name}
	}
	s.list = &listStarted{q: q}
	return nil
}

// NextElement advances the open list and reports whether an element is
// ready to be decoded. The first call surfaces the queue head; every later
// call retires the element just decoded and surfaces the next occurrence,
// or the next value of an active range expansion. Once it returns false
// the list is exhausted and only [Session.EndList] may follow.
func (s *Session) NextElement() bool {
	switch st := s.list.(type) {
	case *listStarted:
		s.list = &listInProgress{q: st.q}
		return true

	case *signedRange:
		if st.next < st.limit {
			st.next++
			return true
		}
		// Interval done. Retire the occurrence that carried it.
		s.list = &listInProgress{q: st.q}
		return s.retire(st.q)

	case *unsignedRange:
		if st.next < st.limit {
			st.next++
			return true
		}
		s.list = &listInProgress{q: st.q}
		return s.retire(st.q)

	case *listInProgress:
		return s.retire(st.q)
	}

	panic("optdec: NextElement without an open list")
}

// retire pops the queue head, dropping the name from the index when its
// last occurrence goes. Reports whether another occurrence is ready.
func (s *Session) retire(q *occQueue) bool {
	if q.empty() {
		panic("optdec: NextElement after list exhaustion")
	}
	opt := q.pop()
	if q.empty() {
		delete(s.unprocessed, opt.Name)
		return false
	}
	return true
}

// EndList closes the open list. Occurrences the iteration never reached
// stay unconsumed and surface as leftovers in [Session.EndStruct].
func (s *Session) EndList() {
	if s.list == nil {
		panic("optdec: EndList without an open list")
	}
	s.list = nil
}
