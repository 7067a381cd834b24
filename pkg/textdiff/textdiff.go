// Package textdiff renders line diffs between two serializations of a
// document, as printed by convert --check when a round trip is unstable.
package textdiff

import (
	"fmt"
	"strings"
)

// Kind tells whether a line is shared, only in the before text, or only in
// the after text.
type Kind int

const (
	Same Kind = iota
	Removed
	Added
)

// Line is one line of a hunk.
type Line struct {
	Kind Kind
	Text string
}

// Hunk is a run of changes with the shared lines around it.
// Start fields are 1-based.
type Hunk struct {
	BeforeStart, BeforeCount int
	AfterStart, AfterCount   int
	Lines                    []Line
}

// Result is the difference between two texts.
type Result struct {
	Name    string
	Hunks   []Hunk
	Added   int
	Removed int
}

// context is the number of shared lines kept around each change.
const context = 3

// Compare diffs before against after. The result has no hunks when the
// texts hold the same lines.
func Compare(name, before, after string) *Result {
	result := &Result{Name: name}

	ops := script(lines(before), lines(after))
	for _, op := range ops {
		switch op.Kind {
		case Added:
			result.Added++
		case Removed:
			result.Removed++
		}
	}
	if result.Added == 0 && result.Removed == 0 {
		return result
	}

	result.Hunks = hunks(ops)
	return result
}

// Changed reports whether the texts differ.
func (r *Result) Changed() bool {
	return r != nil && len(r.Hunks) > 0
}

// Unified formats the result as a unified diff. The before side is labelled
// "serialized" and the after side "reparsed".
func (r *Result) Unified() string {
	if !r.Changed() {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s (serialized)\n", r.Name)
	fmt.Fprintf(&b, "+++ %s (reparsed)\n", r.Name)
	for _, hunk := range r.Hunks {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n",
			hunk.BeforeStart, hunk.BeforeCount, hunk.AfterStart, hunk.AfterCount)
		for _, line := range hunk.Lines {
			b.WriteString(line.Kind.prefix())
			b.WriteString(line.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (k Kind) prefix() string {
	switch k {
	case Added:
		return "+"
	case Removed:
		return "-"
	default:
		return " "
	}
}

// lines splits s into lines. A single trailing newline does not start a
// new line.
func lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// script walks the longest common subsequence table of before and after,
// emitting removals ahead of additions inside a change.
func script(before, after []string) []Line {
	n, m := len(before), len(after)

	// lcs[i][j] is the LCS length of before[i:] and after[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if before[i] == after[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]Line, 0, n+m)
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && before[i] == after[j]:
			ops = append(ops, Line{Same, before[i]})
			i++
			j++
		case j == m || (i < n && lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, Line{Removed, before[i]})
			i++
		default:
			ops = append(ops, Line{Added, after[j]})
			j++
		}
	}
	return ops
}

// hunks groups ops into hunks. Changes separated by no more than twice the
// context share a hunk.
func hunks(ops []Line) []Hunk {
	type span struct{ start, end int }

	var spans []span
	for idx, op := range ops {
		if op.Kind == Same {
			continue
		}
		if len(spans) > 0 && idx-spans[len(spans)-1].end <= 2*context {
			spans[len(spans)-1].end = idx + 1
			continue
		}
		spans = append(spans, span{idx, idx + 1})
	}

	out := make([]Hunk, 0, len(spans))
	for _, sp := range spans {
		start := max(sp.start-context, 0)
		end := min(sp.end+context, len(ops))

		hunk := Hunk{BeforeStart: 1, AfterStart: 1}
		for _, op := range ops[:start] {
			if op.Kind != Added {
				hunk.BeforeStart++
			}
			if op.Kind != Removed {
				hunk.AfterStart++
			}
		}
		for _, op := range ops[start:end] {
			if op.Kind != Added {
				hunk.BeforeCount++
			}
			if op.Kind != Removed {
				hunk.AfterCount++
			}
			hunk.Lines = append(hunk.Lines, op)
		}
		out = append(out, hunk)
	}
	return out
}
