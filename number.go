package optdec

import "math"

// RangeMax caps how many elements a single range occurrence may expand
// into. A list value like "0-429496729" would otherwise turn one option
// into a practically unbounded element stream.
const RangeMax = 65536

// DecodeInt64 decodes name as a signed 64-bit integer.
//
// Inside a list, a value of the form "lower-upper" (both bounds signed,
// lower <= upper, span at most [RangeMax]) starts a range expansion: the
// current and following elements yield lower, lower+1, ... upper, all from
// the one occurrence. Outside a list the range form is rejected.
func (s *Session) DecodeInt64(name string) (int64, error) {
	if st, ok := s.list.(*signedRange); ok {
		return st.next, nil
	}

	opt, err := s.lookupScalar(name)
	if err != nil {
		return 0, err
	}

	val, rest, ok := scanInt64(opt.val())
	if ok {
		if rest == "" {
			s.processed(name)
			return val, nil
		}
		if st, inList := s.list.(*listInProgress); inList && rest[0] == '-' {
			lim, ok := parseInt64(rest[1:])
			if ok && val <= lim &&
				(val > math.MaxInt64-RangeMax || lim < val+RangeMax) {
				// The occurrence stays queued until the interval is
				// walked; NextElement retires it at next == limit.
				s.list = &signedRange{q: st.q, next: val, limit: lim}
				return val, nil
			}
		}
	}

	expected := "an int64 value"
	if s.list != nil {
		expected = "an int64 value or range"
	}
	return 0, InvalidParameterValueError{Name: opt.Name, Expected: expected}
}

// DecodeUint64 decodes name as an unsigned 64-bit integer. The range form
// mirrors [Session.DecodeInt64] with unsigned bounds; since the grammar has
// no sign, a "-" after the first number is always the range separator.
func (s *Session) DecodeUint64(name string) (uint64, error) {
	if st, ok := s.list.(*unsignedRange); ok {
		return st.next, nil
	}

	opt, err := s.lookupScalar(name)
	if err != nil {
		return 0, err
	}

	val, rest, ok := scanUint64(opt.val())
	if ok {
		if rest == "" {
			s.processed(name)
			return val, nil
		}
		if st, inList := s.list.(*listInProgress); inList && rest[0] == '-' {
			lim, ok := parseUint64(rest[1:])
			if ok && val <= lim && lim-val < RangeMax {
				s.list = &unsignedRange{q: st.q, next: val, limit: lim}
				return val, nil
			}
		}
	}

	expected := "a uint64 value"
	if s.list != nil {
		expected = "a uint64 value or range"
	}
	return 0, InvalidParameterValueError{Name: opt.Name, Expected: expected}
}

// scanInt64 scans a leading signed integer off s: an optional sign
// followed by a decimal, octal ("0") or hex ("0x") literal. It returns the
// value, the unscanned remainder, and whether a leading integer was found
// at all. Overflow fails the scan.
func scanInt64(s string) (int64, string, bool) {
	digits := s
	neg := false
	if len(digits) > 0 && (digits[0] == '+' || digits[0] == '-') {
		neg = digits[0] == '-'
		digits = digits[1:]
	}

	lit, base, rest := intLiteral(digits)
	if lit == "" {
		return 0, s, false
	}

	// Accumulate in the negative domain, which is one wider than the
	// positive one, so math.MinInt64 itself scans cleanly.
	var val int64
	for i := 0; i < len(lit); i++ {
		d := int64(digitVal(lit[i]))
		if val < (math.MinInt64+d)/int64(base) {
			return 0, s, false
		}
		val = val*int64(base) - d
	}
	if !neg {
		if val == math.MinInt64 {
			return 0, s, false
		}
		val = -val
	}
	return val, rest, true
}

// scanUint64 is scanInt64 without the sign: the unsigned grammar has none.
func scanUint64(s string) (uint64, string, bool) {
	lit, base, rest := intLiteral(s)
	if lit == "" {
		return 0, s, false
	}

	var val uint64
	for i := 0; i < len(lit); i++ {
		d := uint64(digitVal(lit[i]))
		if val > (math.MaxUint64-d)/uint64(base) {
			return 0, s, false
		}
		val = val*uint64(base) + d
	}
	return val, rest, true
}

// parseInt64 requires scanInt64 to consume s entirely.
func parseInt64(s string) (int64, bool) {
	val, rest, ok := scanInt64(s)
	return val, ok && rest == ""
}

// parseUint64 requires scanUint64 to consume s entirely.
func parseUint64(s string) (uint64, bool) {
	val, rest, ok := scanUint64(s)
	return val, ok && rest == ""
}

// intLiteral splits the leading digit run off s, choosing the base the way
// C's strtol does with base 0: "0x" or "0X" followed by a hex digit is
// hexadecimal, a leading "0" is octal, anything else decimal. A "0x" with
// no hex digit after it scans as the literal "0" with the "x" left over.
func intLiteral(s string) (lit string, base int, rest string) {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') && isHexDigit(s[2]) {
		n := 3
		for n < len(s) && isHexDigit(s[n]) {
			n++
		}
		return s[2:n], 16, s[n:]
	}

	if len(s) > 0 && s[0] == '0' {
		n := 1
		for n < len(s) && s[n] >= '0' && s[n] <= '7' {
			n++
		}
		return s[:n], 8, s[n:]
	}

	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return s[:n], 10, s[n:]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// digitVal assumes c was vetted by isDigit or isHexDigit.
func digitVal(c byte) int {
	switch {
	case c <= '9':
		return int(c - '0')
	case c >= 'a':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}
