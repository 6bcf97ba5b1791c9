package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/coderacer/internal/race"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
	isBreak bool
}

// buildStyledRunes styles every target position by its diff class, plus any
// overflow the input ran past the target. Mistyped spaces and newlines get
// visible markers so the error can be seen at all.
func buildStyledRunes(targetRunes, inputRunes []rune, diff race.Diff, cursorIndex int) []styledRune {
	out := make([]styledRune, 0, len(diff.Classes))
	for i, class := range diff.Classes {
		var target rune
		if i < len(targetRunes) {
			target = targetRunes[i]
		}

		style := pendingStyle
		displayed := string(target)
		switch class {
		case race.ClassCorrect:
			style = correctStyle
		case race.ClassIncorrect:
			style = incorrectStyle
			switch {
			case i >= len(targetRunes):
				// Overflow keeps the typed rune visible.
				displayed = string(printable(inputRunes[i]))
			case target == ' ':
				displayed = "•"
			case target == '\n':
				displayed = "⏎"
			}
		}
		if target == '\t' {
			displayed = "  "
		}
		if i == cursorIndex && class == race.ClassPending {
			style = style.Underline(true)
		}

		item := styledRune{
			s:       style.Render(displayed),
			width:   runewidth.StringWidth(displayed),
			isSpace: target == ' ',
			isBreak: target == '\n',
		}
		if item.isBreak && class != race.ClassIncorrect {
			item.s = ""
			item.width = 0
		}
		out = append(out, item)
	}
	return out
}

func printable(r rune) rune {
	switch r {
	case ' ':
		return '•'
	case '\n':
		return '⏎'
	case '\t':
		return '→'
	}
	return r
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
		if item.isBreak {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// wrapStyledRunes soft-wraps at width, breaking on the last space when one
// exists. Hard newlines in the snippet always end the line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	flush := func() {
		out.WriteString(renderStyledRunes(line))
		out.WriteRune('\n')
		line = line[:0]
		lineWidth = 0
		lastSpaceIdx = -1
	}

	for i := 0; i < len(runes); {
		item := runes[i]
		if item.isBreak {
			line = append(line, styledRune{s: item.s, width: item.width})
			flush()
			i++
			continue
		}
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				head := line[:lastSpaceIdx]
				tail := append([]styledRune{}, line[lastSpaceIdx+1:]...)
				out.WriteString(renderStyledRunes(head))
				out.WriteRune('\n')
				line = tail
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				flush()
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
