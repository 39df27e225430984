package agenda

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func unescape(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

func TestEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain title", "plain title"},
		{"Tracking issue for `*_mut`", "Tracking issue for \\`\\*\\_mut\\`"},
		{"[RFC] Vec<T>::foo -> bar", "\\[RFC\\] Vec\\<T\\>::foo \\-\\> bar"},
		{`C:\path`, `C:\\path`},
		{"", ""},
		{"ünïcödé_ok", "ünïcödé\\_ok"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.input))
		})
	}
}

func TestEscape_RoundTrip(t *testing.T) {
	inputs := []string{
		"_ * \\ [ ] - < > `",
		"\\\\already\\escaped\\",
		"mixed `code` and *emphasis* and [links](x)",
		"->>--<<__**``",
		"no specials at all",
	}

	for _, in := range inputs {
		assert.Equal(t, in, unescape(Escape(in)), "round trip of %q", in)
	}
}
