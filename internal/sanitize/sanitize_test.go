package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "ascii only text unchanged",
			input: "MJENJACNICA d.o.o. 123-456",
			want:  "MJENJACNICA d.o.o. 123-456",
		},
		{
			name:  "all ten letters",
			input: "ČčĆćĐđŠšŽž",
			want:  "&#x010C;&#x010D;&#x0106;&#x0107;&#x0110;&#x0111;&#x0160;&#x0161;&#x017D;&#x017E;",
		},
		{
			name:  "mixed text",
			input: "Šemsudin Đulić",
			want:  "&#x0160;emsudin &#x0110;uli&#x0107;",
		},
		{
			name:  "other diacritics untouched",
			input: "Ärger über",
			want:  "Ärger über",
		},
		{
			name:  "ampersand untouched",
			input: "A&B",
			want:  "A&B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

// Sanitizing twice must never re-encode the ampersand sequences produced by
// the first pass.
func TestTextIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain ascii",
		"ČčĆćĐđŠšŽž",
		"Šemsudin Đulić",
		"already &#x0160; encoded",
	}

	for _, input := range inputs {
		once := Text(input)
		assert.Equal(t, once, Text(once), "input %q", input)
	}
}
