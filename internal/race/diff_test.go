package race

import "testing"

func TestCompareExactMatch(t *testing.T) {
	d := Compare([]rune("ab\ncd"), []rune("ab\ncd"))
	if d.Errors != 0 {
		t.Fatalf("expected zero errors, got %d", d.Errors)
	}
	for i, c := range d.Classes {
		if c != ClassCorrect {
			t.Fatalf("position %d: expected correct, got %v", i, c)
		}
	}
}

func TestCompareClassifications(t *testing.T) {
	d := Compare([]rune("abcd"), []rune("ax"))
	want := []CharClass{ClassCorrect, ClassIncorrect, ClassPending, ClassPending}
	if len(d.Classes) != len(want) {
		t.Fatalf("expected %d positions, got %d", len(want), len(d.Classes))
	}
	for i := range want {
		if d.Classes[i] != want[i] {
			t.Fatalf("position %d: expected %v, got %v", i, want[i], d.Classes[i])
		}
	}
	if d.Errors != 1 {
		t.Fatalf("expected 1 error, got %d", d.Errors)
	}
}

func TestCompareOverflowCountsEachExtraRune(t *testing.T) {
	target := []rune("0123456789")
	input := []rune("0123456789xy")
	d := Compare(target, input)
	if d.Errors < 2 {
		t.Fatalf("expected at least 2 errors for 2 extra runes, got %d", d.Errors)
	}
	if len(d.Classes) != 12 {
		t.Fatalf("expected 12 positions, got %d", len(d.Classes))
	}
	for i := 10; i < 12; i++ {
		if d.Classes[i] != ClassIncorrect {
			t.Fatalf("overflow position %d: expected incorrect, got %v", i, d.Classes[i])
		}
	}
}

func TestCompareEmptyInput(t *testing.T) {
	d := Compare([]rune("abc"), nil)
	if d.Errors != 0 {
		t.Fatalf("expected zero errors, got %d", d.Errors)
	}
	for i, c := range d.Classes {
		if c != ClassPending {
			t.Fatalf("position %d: expected pending, got %v", i, c)
		}
	}
}
