package race

// CharClass classifies one position of the diff between target and input.
type CharClass int

// Position classifications.
const (
	ClassCorrect CharClass = iota
	ClassIncorrect
	ClassPending
)

// Diff holds the per-position classification of the current input against
// the target, plus the total error count.
type Diff struct {
	Classes []CharClass
	Errors  int
}

// Compare classifies every position up to the longer of target and input.
// A position is correct when both sides hold the same rune, incorrect when
// the typed rune differs or runs past the target, and pending when not yet
// typed. Every rune typed beyond the target counts as one error. The whole
// diff is recomputed on each call; inputs are snippet-sized, so a full scan
// beats incremental bookkeeping.
func Compare(target, input []rune) Diff {
	n := len(target)
	if len(input) > n {
		n = len(input)
	}
	d := Diff{Classes: make([]CharClass, n)}
	for i := 0; i < n; i++ {
		switch {
		case i >= len(input):
			d.Classes[i] = ClassPending
		case i < len(target) && input[i] == target[i]:
			d.Classes[i] = ClassCorrect
		default:
			d.Classes[i] = ClassIncorrect
			d.Errors++
		}
	}
	return d
}
