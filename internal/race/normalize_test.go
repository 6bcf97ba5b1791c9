package race

import "testing"

func TestNormalizeUnescapesNewlines(t *testing.T) {
	got := Normalize(`def add(a, b):\n    return a + b`)
	want := "def add(a, b):\n    return a + b"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNormalizeCollapsesLineBreaks(t *testing.T) {
	got := Normalize("ab\r\ncd\ref")
	if got != "ab\ncd\nef" {
		t.Fatalf("expected collapsed line breaks, got %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"plain text",
		"ab\ncd",
		`line\nbreak`,
		"mixed\r\nbreaks\rhere",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}
