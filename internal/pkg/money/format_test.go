package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"0", "0"},
		{"7", "7"},
		{"999", "999"},
		{"1000", "1.000"},
		{"123456", "123.456"},
		{"1234567", "1.234.567"},
		{"-1234567", "-1.234.567"},
		{"-1", "-1"},
		{"1499.5", "1.500"},
		{"1499.49", "1.499"},
		{"-0.4", "0"},
	}
	for _, c := range cases {
		got := Format(decimal.RequireFromString(c.input))
		if got != c.want {
			t.Errorf("Format(%s) = %q, want %q", c.input, got, c.want)
		}
	}
}

func TestFormatPtr(t *testing.T) {
	assert.Equal(t, "0", FormatPtr(nil))

	v := decimal.NewFromInt(2500000)
	assert.Equal(t, "2.500.000", FormatPtr(&v))
}

func TestParse(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", "0"},
		{"   ", "0"},
		{"1.234.567", "1234567"},
		{"-1.000", "-1000"},
		{"abc", "0"},
		{"12a", "0"},
		{"500", "500"},
	}
	for _, c := range cases {
		got := Parse(c.input)
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("Parse(%q) = %s, want %s", c.input, got, c.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, v := range []int64{0, -1, 999, 1000, 1234567, -1234567} {
		x := decimal.NewFromInt(v)
		assert.True(t, Parse(Format(x)).Equal(x.Round(0)), "round trip of %d", v)
	}

	fractional := decimal.RequireFromString("2500.75")
	assert.True(t, Parse(Format(fractional)).Equal(decimal.NewFromInt(2501)))
}
