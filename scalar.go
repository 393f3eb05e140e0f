package optdec

import (
	"slices"
	"strings"
)

// lookupScalar resolves the occurrence a scalar decode of name observes.
// Outside a list that is the newest occurrence of name, so a repeated
// non-list option is shadowed by its last occurrence and the whole name is
// consumed together with it. Inside a list it is the element surfaced by
// [Session.NextElement].
func (s *Session) lookupScalar(name string) (Opt, error) {
	switch st := s.list.(type) {
	case nil:
		q, ok := s.lookup(name)
		if !ok {
			return Opt{}, MissingParameterError{Name: name}
		}
		return q.tail(), nil
	case *listInProgress:
		return st.q.head(), nil
	case *listStarted:
		panic("optdec: scalar decode before NextElement")
	default:
		panic("optdec: mismatched decode during range expansion")
	}
}

// processed marks name fully consumed. List elements are not marked here:
// their consumption is the queue pop in [Session.NextElement].
func (s *Session) processed(name string) {
	if s.list == nil {
		delete(s.unprocessed, name)
	}
}

// DecodeString decodes name as a string. An occurrence without a value
// (bare flag syntax) decodes as the empty string.
func (s *Session) DecodeString(name string) (string, error) {
	opt, err := s.lookupScalar(name)
	if err != nil {
		return "", err
	}
	s.processed(name)
	return opt.val(), nil
}

// DecodeBool decodes name as a boolean. An occurrence without a value is
// true; otherwise the value must be one of on, yes, y, off, no or n,
// matched exactly.
func (s *Session) DecodeBool(name string) (bool, error) {
	opt, err := s.lookupScalar(name)
	if err != nil {
		return false, err
	}

	val := true
	if opt.HasValue {
		switch opt.Value {
		case "on", "yes", "y":
			val = true
		case "off", "no", "n":
			val = false
		default:
			return false, InvalidParameterValueError{Name: opt.Name, Expected: "on|yes|y|off|no|n"}
		}
	}

	s.processed(name)
	return val, nil
}

// DecodeEnum decodes name as one of the accepted tags, matched exactly and
// case-sensitively. The occurrence is consumed even when no tag matches;
// the mismatch is still reported.
func (s *Session) DecodeEnum(name string, accepted []string) (string, error) {
	str, err := s.DecodeString(name)
	if err != nil {
		return "", err
	}
	if !slices.Contains(accepted, str) {
		return "", InvalidParameterValueError{Name: name, Expected: strings.Join(accepted, "|")}
	}
	return str, nil
}
