package optdec

import (
	"math"
	"strconv"
)

// Size is a byte count. Struct fields of this type decode through
// [Session.DecodeSize], so option values may use human-scale size syntax
// such as "512", "64k" or "1.5G".
type Size uint64

// DecodeSize decodes name as a byte count: a decimal integer or fraction
// followed by an optional binary-multiplier suffix (b, k, m, g, t, p or e,
// case-insensitive; bytes when absent). A fraction needs a multiplier to
// scale it to whole bytes, and the result is truncated to an integer.
// Ranges are not supported for sizes.
func (s *Session) DecodeSize(name string) (Size, error) {
	opt, err := s.lookupScalar(name)
	if err != nil {
		return 0, err
	}

	val, ok := parseSize(opt.val())
	if !ok {
		return 0, InvalidParameterValueError{
			Name:     opt.Name,
			Expected: "a size value representable as a non-negative 64-bit integer",
		}
	}

	s.processed(name)
	return val, nil
}

// sizeLimit is the first size a signed 64-bit byte count cannot hold.
const sizeLimit = float64(1 << 63)

func parseSize(s string) (Size, bool) {
	lit, rest := floatLiteral(s)
	if lit == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, false
	}

	mul := 1.0
	if rest != "" {
		if m, ok := multiplier(rest[0]); ok {
			mul = m
			rest = rest[1:]
		}
	}
	if rest != "" {
		return 0, false
	}
	// A fractional byte count is only meaningful scaled by a multiplier,
	// and "b" does not count as one.
	if mul == 1 && val != math.Trunc(val) {
		return 0, false
	}
	if val*mul >= sizeLimit {
		return 0, false
	}
	return Size(val * mul), true
}

func multiplier(c byte) (float64, bool) {
	switch c {
	case 'b', 'B':
		return 1, true
	case 'k', 'K':
		return 1 << 10, true
	case 'm', 'M':
		return 1 << 20, true
	case 'g', 'G':
		return 1 << 30, true
	case 't', 'T':
		return 1 << 40, true
	case 'p', 'P':
		return 1 << 50, true
	case 'e', 'E':
		return 1 << 60, true
	}
	return 0, false
}

// floatLiteral splits the leading "digits", "digits.digits" or ".digits"
// run off s. An empty lit means no literal was found.
func floatLiteral(s string) (lit, rest string) {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	intDigits := n

	fracDigits := 0
	if n < len(s) && s[n] == '.' {
		n++
		for n < len(s) && isDigit(s[n]) {
			n++
			fracDigits++
		}
	}

	if intDigits == 0 && fracDigits == 0 {
		return "", s
	}
	return s[:n], s[n:]
}
