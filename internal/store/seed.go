package store

import (
	"context"

	"github.com/verte-zerg/coderacer/internal/model"
)

// Bundled snippet set. Code uses the literal "\n" escape for line breaks,
// matching the wire format snippets are served in; the client normalizer
// unescapes it before comparison.
var defaultSnippets = []model.Snippet{
	{
		Title:      "Hello World",
		Code:       `console.log('Hello, World!');`,
		Language:   "javascript",
		Difficulty: "easy",
	},
	{
		Title:      "Array Sum",
		Code:       `const sum = arr.reduce((a, b) => a + b, 0);`,
		Language:   "javascript",
		Difficulty: "easy",
	},
	{
		Title:      "Debounce",
		Code:       `function debounce(fn, ms) {\n  let t;\n  return (...args) => {\n    clearTimeout(t);\n    t = setTimeout(() => fn(...args), ms);\n  };\n}`,
		Language:   "javascript",
		Difficulty: "hard",
	},
	{
		Title:      "List Comprehension",
		Code:       `squares = [x * x for x in range(10)]`,
		Language:   "python",
		Difficulty: "easy",
	},
	{
		Title:      "Fibonacci",
		Code:       `def fib(n):\n    a, b = 0, 1\n    for _ in range(n):\n        a, b = b, a + b\n    return a`,
		Language:   "python",
		Difficulty: "medium",
	},
	{
		Title:      "Dict Invert",
		Code:       `inverted = {v: k for k, v in mapping.items()}`,
		Language:   "python",
		Difficulty: "medium",
	},
	{
		Title:      "Error Check",
		Code:       `if err != nil {\n\treturn fmt.Errorf("open config: %w", err)\n}`,
		Language:   "go",
		Difficulty: "easy",
	},
	{
		Title:      "Goroutine Fan-In",
		Code:       `out := make(chan int)\nfor _, ch := range inputs {\n\tgo func(c <-chan int) {\n\t\tfor v := range c {\n\t\t\tout <- v\n\t\t}\n\t}(ch)\n}`,
		Language:   "go",
		Difficulty: "hard",
	},
	{
		Title:      "String Reverse",
		Code:       `runes := []rune(s)\nfor i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {\n\trunes[i], runes[j] = runes[j], runes[i]\n}`,
		Language:   "go",
		Difficulty: "medium",
	},
	{
		Title:      "Stream Filter",
		Code:       `List<String> upper = names.stream()\n    .filter(n -> n.length() > 3)\n    .map(String::toUpperCase)\n    .collect(Collectors.toList());`,
		Language:   "java",
		Difficulty: "medium",
	},
	{
		Title:      "Vector Sum",
		Code:       `let total: i32 = numbers.iter().sum();`,
		Language:   "rust",
		Difficulty: "easy",
	},
	{
		Title:      "Match Option",
		Code:       `match value {\n    Some(v) => println!("{}", v),\n    None => println!("empty"),\n}`,
		Language:   "rust",
		Difficulty: "medium",
	},
}

// Seed inserts the bundled snippets. Existing snippets are kept unless
// force is set, in which case the bundle is inserted regardless.
func (s *Store) Seed(ctx context.Context, force bool) (int, error) {
	if !force {
		count, err := s.CountSnippets(ctx)
		if err != nil {
			return 0, err
		}
		if count > 0 {
			return 0, nil
		}
	}
	inserted := 0
	for _, sn := range defaultSnippets {
		if _, err := s.InsertSnippet(ctx, sn); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
