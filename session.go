package optdec

// Session is one decode pass over one [Options] set. A schema-aware caller
// drives it in strict order: BeginStruct opens the (outermost) struct decode,
// scalar and list operations consume occurrences, EndStruct verifies that
// nothing was left over.
//
// A session is single-use and strictly sequential: create it, run exactly one
// decode, discard it. It has no internal synchronization and must not be
// shared across goroutines. Misuse of the call protocol (nesting lists,
// querying presence mid-list, list operations without an open list) is a
// programming error and panics; data problems are returned as
// [MissingParameterError], [InvalidParameterError] or
// [InvalidParameterValueError] values.
type Session struct {
	src *Options

	// depth of nested BeginStruct calls. Only the outermost pair builds and
	// tears down the index; nested structs share the flat namespace.
	depth int

	// unprocessed maps each option name to its not-yet-consumed occurrences.
	// A name is present if and only if at least one occurrence remains:
	// queues are dropped the moment they drain, so presence means non-empty.
	unprocessed map[string]*occQueue

	// list is the active list traversal, nil while no list is open.
	list listState
}

// occQueue holds the ordered occurrences sharing one option name. The head
// is the occurrence list decoding consumes next; the tail is the occurrence
// scalar lookups outside lists observe (last one wins).
type occQueue struct {
	occs []Opt
}

func (q *occQueue) push(o Opt)  { q.occs = append(q.occs, o) }
func (q *occQueue) head() Opt   { return q.occs[0] }
func (q *occQueue) tail() Opt   { return q.occs[len(q.occs)-1] }
func (q *occQueue) empty() bool { return len(q.occs) == 0 }

func (q *occQueue) pop() Opt {
	o := q.occs[0]
	q.occs = q.occs[1:]
	return o
}

// NewSession creates a session over src. The src is read-only to the session
// and remains owned by the caller.
func NewSession(src *Options) *Session {
	return &Session{src: src}
}

// BeginStruct opens a struct decode. The outermost call builds the index of
// unconsumed occurrences from the source, with a non-empty [Options.ID]
// injected as a synthetic occurrence named "id". Nested calls only track
// depth; the enclosing flat namespace is shared.
func (s *Session) BeginStruct() {
	s.depth++
	if s.depth > 1 {
		return
	}

	s.unprocessed = make(map[string]*occQueue, s.src.Len())
	for opt := range s.src.All() {
		s.insert(opt)
	}
	if s.src.ID != "" {
		s.insert(Opt{Name: "id", Value: s.src.ID, HasValue: true})
	}
}

func (s *Session) insert(opt Opt) {
	q := s.unprocessed[opt.Name]
	if q == nil {
		q = &occQueue{}
		s.unprocessed[opt.Name] = q
	}
	q.push(opt)
}

// EndStruct closes a struct decode. Closing the outermost struct fails with
// [InvalidParameterError] if any occurrence was never consumed; the reported
// name is the first remaining one in source order, with the synthetic
// identifier entry ordered last. Afterwards the index is gone and the
// session is spent.
//
// EndStruct must not be called while a list is open.
func (s *Session) EndStruct() error {
	if s.depth == 0 {
		panic("optdec: EndStruct without matching BeginStruct")
	}
	if s.list != nil {
		panic("optdec: EndStruct with an open list")
	}

	s.depth--
	if s.depth > 0 {
		return nil
	}

	remaining := len(s.unprocessed) > 0
	var leftover string
	if remaining {
		leftover = "id"
		for opt := range s.src.All() {
			if _, ok := s.unprocessed[opt.Name]; ok {
				leftover = opt.Name
				break
			}
		}
	}

	s.unprocessed = nil
	if remaining {
		return InvalidParameterError{Name: leftover}
	}
	return nil
}

// HasField reports whether name still has an unconsumed occurrence. It never
// consumes. Presence is a struct-level query: calling it while a list is
// open is a programming error.
func (s *Session) HasField(name string) bool {
	if s.list != nil {
		panic("optdec: HasField with an open list")
	}
	_, ok := s.lookup(name)
	return ok
}

// lookup finds the queue of unconsumed occurrences of name, if any. Valid
// only between the outermost BeginStruct and EndStruct.
func (s *Session) lookup(name string) (*occQueue, bool) {
	if s.depth == 0 {
		panic("optdec: no struct decode in progress")
	}
	q, ok := s.unprocessed[name]
	return q, ok
}
