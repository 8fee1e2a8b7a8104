package reading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bold markers", "*bold* text", "bold text"},
		{"underscores", "_emphasis_ kept", "emphasis kept"},
		{"heading and list markers", "# Title\n- item\n+ item", " Title\n item\n item"},
		{"links", "[link](http://example.com)", "linkhttp://example.com"},
		{"backticks and braces", "`code` {block}", "code block"},
		{"exclamation", "wow!", "wow"},
		{"clean text untouched", "a plain sentence, with commas.", "a plain sentence, with commas."},
		{"non-ascii passes through", "Гороскоп для Льва: звёзды благосклонны", "Гороскоп для Льва: звёзды благосклонны"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitize_NeverLeavesStripSet(t *testing.T) {
	out := Sanitize("a`b*c_d{e}f[g]h(i)j#k+l-m!n")
	assert.Equal(t, "abcdefghijklmn", out)
}

func TestSanitize_Pure(t *testing.T) {
	in := "*same* input"
	assert.Equal(t, Sanitize(in), Sanitize(in))
}
