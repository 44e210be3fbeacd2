package textfilter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "trims whitespace", input: "  Ada  ", expected: "Ada"},
		{name: "collapses inner whitespace", input: "Ada \t  Lovelace", expected: "Ada Lovelace"},
		{name: "title-cases lowercase names", input: "tester", expected: "Tester"},
		{name: "keeps deliberate casing", input: "McKay", expected: "McKay"},
		{name: "drops control characters", input: "Ad\x00a\x07", expected: "Ada"},
		{name: "whitespace only", input: " \n\t ", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeName(tt.input))
		})
	}
}

func TestSanitizeName_Truncates(t *testing.T) {
	long := strings.Repeat("Wolf", 20)
	got := SanitizeName(long)
	assert.Len(t, []rune(got), MaxNameLength)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "I suspect Marco.", SanitizeText("  I suspect Marco.\x00 "))
	assert.Equal(t, "line one\nline two", SanitizeText("line one\nline two"))
	assert.Equal(t, "", SanitizeText("   "))
	assert.Len(t, []rune(SanitizeText(strings.Repeat("a", MaxTextLength+50))), MaxTextLength)
}
