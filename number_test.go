package optdec

import (
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func TestScanInt64(t *testing.T) {
	cases := []struct {
		in   string
		val  int64
		rest string
		ok   bool
	}{
		{"0", 0, "", true},
		{"12", 12, "", true},
		{"-12", -12, "", true},
		{"+12", 12, "", true},
		{"010", 8, "", true},
		{"08", 0, "8", true},
		{"0x1f", 31, "", true},
		{"0X1F", 31, "", true},
		{"-0x10", -16, "", true},
		{"0x", 0, "x", true},
		{"0xg", 0, "xg", true},
		{"3-7", 3, "-7", true},
		{"12k", 12, "k", true},
		{"9223372036854775807", math.MaxInt64, "", true},
		{"-9223372036854775808", math.MinInt64, "", true},
		{"9223372036854775808", 0, "9223372036854775808", false},
		{"-9223372036854775809", 0, "-9223372036854775809", false},
		{"", 0, "", false},
		{"-", 0, "-", false},
		{"x", 0, "x", false},
		{" 5", 0, " 5", false},
	}

	for _, c := range cases {
		val, rest, ok := scanInt64(c.in)
		require.Equal(t, ok, c.ok, "input %q", c.in)
		require.Equal(t, val, c.val, "input %q", c.in)
		require.Equal(t, rest, c.rest, "input %q", c.in)
	}
}

func TestScanUint64(t *testing.T) {
	cases := []struct {
		in   string
		val  uint64
		rest string
		ok   bool
	}{
		{"0", 0, "", true},
		{"12", 12, "", true},
		{"0x1f", 31, "", true},
		{"017", 15, "", true},
		{"5-3", 5, "-3", true},
		{"18446744073709551615", math.MaxUint64, "", true},
		{"18446744073709551616", 0, "18446744073709551616", false},
		{"-1", 0, "-1", false},
		{"+1", 0, "+1", false},
		{"", 0, "", false},
	}

	for _, c := range cases {
		val, rest, ok := scanUint64(c.in)
		require.Equal(t, ok, c.ok, "input %q", c.in)
		require.Equal(t, val, c.val, "input %q", c.in)
		require.Equal(t, rest, c.rest, "input %q", c.in)
	}
}

func decodeInt64List(t *testing.T, input, name string) ([]int64, error) {
	t.Helper()

	opts, err := Parse(input)
	require.NoError(t, err)

	sess := NewSession(opts)
	sess.BeginStruct()
	require.NoError(t, sess.BeginList(name))

	var values []int64
	for sess.NextElement() {
		value, err := sess.DecodeInt64(name)
		if err != nil {
			sess.EndList()
			return nil, err
		}
		values = append(values, value)
	}

	sess.EndList()
	return values, sess.EndStruct()
}

func decodeUint64List(t *testing.T, input, name string) ([]uint64, error) {
	t.Helper()

	opts, err := Parse(input)
	require.NoError(t, err)

	sess := NewSession(opts)
	sess.BeginStruct()
	require.NoError(t, sess.BeginList(name))

	var values []uint64
	for sess.NextElement() {
		value, err := sess.DecodeUint64(name)
		if err != nil {
			sess.EndList()
			return nil, err
		}
		values = append(values, value)
	}

	sess.EndList()
	return values, sess.EndStruct()
}

func TestRangeExpansion(t *testing.T) {
	values, err := decodeInt64List(t, "nums=3-7", "nums")
	require.NoError(t, err)
	require.Equal(t, values, []int64{3, 4, 5, 6, 7})
}

func TestRangeSingleElement(t *testing.T) {
	values, err := decodeInt64List(t, "nums=5-5", "nums")
	require.NoError(t, err)
	require.Equal(t, values, []int64{5})
}

func TestRangeNegativeBounds(t *testing.T) {
	values, err := decodeInt64List(t, "nums=-3--1", "nums")
	require.NoError(t, err)
	require.Equal(t, values, []int64{-3, -2, -1})

	values, err = decodeInt64List(t, "nums=-2-1", "nums")
	require.NoError(t, err)
	require.Equal(t, values, []int64{-2, -1, 0, 1})
}

func TestRangeHexBounds(t *testing.T) {
	values, err := decodeUint64List(t, "nums=0x10-0x12", "nums")
	require.NoError(t, err)
	require.Equal(t, values, []uint64{16, 17, 18})
}

func TestRangeMixedWithScalars(t *testing.T) {
	values, err := decodeUint64List(t, "nums=1,nums=5-7,nums=9", "nums")
	require.NoError(t, err)
	require.Equal(t, values, []uint64{1, 5, 6, 7, 9})
}

func TestRangeReversedBounds(t *testing.T) {
	_, err := decodeUint64List(t, "count=5-3", "count")
	require.ErrorIs(t, err, InvalidParameterValueError{Name: "count", Expected: "a uint64 value or range"})

	_, err = decodeInt64List(t, "count=5-3", "count")
	require.ErrorIs(t, err, InvalidParameterValueError{Name: "count", Expected: "an int64 value or range"})
}

func TestRangeSpanAtCap(t *testing.T) {
	values, err := decodeUint64List(t, "nums=0-65535", "nums")
	require.NoError(t, err)
	require.Len(t, values, RangeMax)
	require.Equal(t, values[0], uint64(0))
	require.Equal(t, values[len(values)-1], uint64(65535))

	signed, err := decodeInt64List(t, "nums=-1-65534", "nums")
	require.NoError(t, err)
	require.Len(t, signed, RangeMax)
	require.Equal(t, signed[0], int64(-1))
	require.Equal(t, signed[len(signed)-1], int64(65534))
}

func TestRangeSpanOverCap(t *testing.T) {
	_, err := decodeUint64List(t, "nums=0-65536", "nums")
	require.ErrorIs(t, err, InvalidParameterValueError{Name: "nums", Expected: "a uint64 value or range"})

	_, err = decodeInt64List(t, "nums=0-65536", "nums")
	require.ErrorIs(t, err, InvalidParameterValueError{Name: "nums", Expected: "an int64 value or range"})
}

func TestRangeNearSignedMax(t *testing.T) {
	// the span check must not overflow when the lower bound sits close to
	// the top of the signed domain
	values, err := decodeInt64List(t, "nums=9223372036854775800-9223372036854775807", "nums")
	require.NoError(t, err)
	require.Equal(t, values, []int64{
		math.MaxInt64 - 7, math.MaxInt64 - 6, math.MaxInt64 - 5, math.MaxInt64 - 4,
		math.MaxInt64 - 3, math.MaxInt64 - 2, math.MaxInt64 - 1, math.MaxInt64,
	})
}

func TestRangeNearUnsignedMax(t *testing.T) {
	values, err := decodeUint64List(t, "nums=18446744073709551613-18446744073709551615", "nums")
	require.NoError(t, err)
	require.Equal(t, values, []uint64{math.MaxUint64 - 2, math.MaxUint64 - 1, math.MaxUint64})
}

func TestRangeRejectedOutsideList(t *testing.T) {
	opts, err := Parse("nums=3-7")
	require.NoError(t, err)

	sess := NewSession(opts)
	sess.BeginStruct()

	_, err = sess.DecodeInt64("nums")
	require.ErrorIs(t, err, InvalidParameterValueError{Name: "nums", Expected: "an int64 value"})
	require.EqualError(t, err, `parameter "nums" expects an int64 value`)
}

func TestRangeMalformed(t *testing.T) {
	for _, input := range []string{"3-", "3-7x", "3--7", "-3", "x-7", "3-x"} {
		var opts Options
		opts.Add("nums", input)

		sess := NewSession(&opts)
		sess.BeginStruct()
		require.NoError(t, sess.BeginList("nums"))
		require.True(t, sess.NextElement())

		_, err := sess.DecodeUint64("nums")
		require.ErrorIs(t, err,
			InvalidParameterValueError{Name: "nums", Expected: "a uint64 value or range"},
			"input %q", input)
		sess.EndList()
	}
}

func TestDecodeInt64Scalar(t *testing.T) {
	cases := map[string]int64{
		"0":    0,
		"42":   42,
		"-42":  -42,
		"0x2a": 42,
		"052":  42,
	}

	for input, expected := range cases {
		var opts Options
		opts.Add("n", input)

		sess := NewSession(&opts)
		sess.BeginStruct()

		value, err := sess.DecodeInt64("n")
		require.NoError(t, err, "input %q", input)
		require.Equal(t, value, expected, "input %q", input)
		require.NoError(t, sess.EndStruct())
	}
}

func TestDecodeInt64Invalid(t *testing.T) {
	for _, input := range []string{"", "x", "08", "12x", " 12", "3-7"} {
		var opts Options
		opts.Add("n", input)

		sess := NewSession(&opts)
		sess.BeginStruct()

		_, err := sess.DecodeInt64("n")
		require.ErrorIs(t, err,
			InvalidParameterValueError{Name: "n", Expected: "an int64 value"},
			"input %q", input)
	}
}

func TestDecodeUint64RejectsSign(t *testing.T) {
	for _, input := range []string{"-1", "+1"} {
		var opts Options
		opts.Add("n", input)

		sess := NewSession(&opts)
		sess.BeginStruct()

		_, err := sess.DecodeUint64("n")
		require.ErrorIs(t, err,
			InvalidParameterValueError{Name: "n", Expected: "a uint64 value"},
			"input %q", input)
	}
}

func TestDecodeValuelessNumber(t *testing.T) {
	var opts Options
	opts.AddFlag("n")

	sess := NewSession(&opts)
	sess.BeginStruct()

	_, err := sess.DecodeInt64("n")
	require.ErrorIs(t, err, InvalidParameterValueError{Name: "n", Expected: "an int64 value"})
}
