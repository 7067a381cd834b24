package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/mdinbox/pkg/docmodel"
	"github.com/yaklabco/mdinbox/pkg/transform"
)

// scanMode limits what the inline scanner may produce.
type scanMode uint8

const (
	// scanRuns produces formatted text runs only.
	scanRuns scanMode = iota

	// scanInline also applies inline text-match rules (links).
	scanInline

	// scanBlocks also applies text-match rules that produce block nodes (images).
	scanBlocks
)

// inlineScanner turns inline markdown into nodes.
//
// The text is scanned left to right. Backslash escapes, code spans and
// [[name]] tokens are skipped. At every trigger character the text-match rules registered for it
// are tested against the span since the last boundary; a match flushes the
// preceding text and emits the rule's node. Remaining text is then parsed for
// format markers.
type inlineScanner struct {
	formats  []transform.FormatMarker
	matchers []transform.TextMatcher
	ctx      *transform.ImportContext
}

func newInlineScanner(registry *transform.Registry) *inlineScanner {
	s := &inlineScanner{
		matchers: registry.Matchers(),
	}
	for _, marker := range registry.Formats() {
		if marker.Format() == docmodel.FormatCode {
			continue
		}
		s.formats = append(s.formats, marker)
	}
	s.ctx = &transform.ImportContext{
		Inline: func(text string) []*docmodel.Node { return s.scan(text, scanInline) },
		Runs:   func(text string) []*docmodel.Node { return s.scan(text, scanRuns) },
	}
	return s
}

func (s *inlineScanner) scan(src string, mode scanMode) []*docmodel.Node {
	if mode == scanRuns || len(s.matchers) == 0 {
		return s.runs(src, docmodel.FormatNone)
	}

	var out []*docmodel.Node
	boundary := 0
	for i := 0; i < len(src); {
		switch src[i] {
		case '\\':
			i = min(i+2, len(src))
			continue
		case '`':
			i = skipCodeSpan(src, i)
			continue
		case '[':
			if n := transform.CrossRefLen(src[i:]); n > 0 {
				i += n
				continue
			}
		}

		r, size := utf8.DecodeRuneInString(src[i:])
		end := i + size
		if node, start, ok := s.match(src[boundary:end], r, mode); ok {
			out = append(out, s.runs(src[boundary:boundary+start], docmodel.FormatNone)...)
			out = append(out, node)
			boundary = end
		}
		i = end
	}

	return append(out, s.runs(src[boundary:], docmodel.FormatNone)...)
}

// match tries every text-match rule registered for trigger, in registry order.
func (s *inlineScanner) match(span string, trigger rune, mode scanMode) (*docmodel.Node, int, bool) {
	for _, matcher := range s.matchers {
		if matcher.Trigger() != trigger {
			continue
		}
		if matcher.Type().Has(transform.TypeElement) && mode != scanBlocks {
			continue
		}
		m, ok := matcher.Match(span)
		if !ok || m.End != len(span) {
			continue
		}
		if node := matcher.Replace(m, s.ctx); node != nil {
			return node, m.Start, true
		}
	}
	return nil, 0, false
}

// runs parses escapes, code spans and format markers into text runs.
func (s *inlineScanner) runs(text string, base docmodel.Format) []*docmodel.Node {
	var out []*docmodel.Node
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			out = append(out, docmodel.NewText(buf.String(), base))
			buf.Reset()
		}
	}

	for i := 0; i < len(text); {
		c := text[i]

		if c == '\\' && i+1 < len(text) && transform.IsEscapable(text[i+1]) {
			buf.WriteByte(text[i+1])
			i += 2
			continue
		}

		if c == '[' {
			if n := transform.CrossRefLen(text[i:]); n > 0 {
				buf.WriteString(text[i : i+n])
				i += n
				continue
			}
		}

		if c == '`' {
			n := runLength(text[i:], '`')
			if end := findCodeClose(text, i+n, n); end >= 0 {
				flush()
				out = append(out, docmodel.NewText(stripCodePadding(text[i+n:end]), base.With(docmodel.FormatCode)))
				i = end + n
				continue
			}
			buf.WriteString(text[i : i+n])
			i += n
			continue
		}

		if format, tagLen, closeAt, ok := s.openFormat(text, i); ok {
			flush()
			out = append(out, s.runs(text[i+tagLen:closeAt], base.With(format))...)
			i = closeAt + tagLen
			continue
		}

		buf.WriteByte(c)
		i++
	}

	flush()
	return out
}

// openFormat checks whether a format marker opens at i and has a closing
// marker with non-empty content between them. A marker directly preceded by
// an unescaped copy of its own character is part of a longer run and does
// not open.
func (s *inlineScanner) openFormat(text string, i int) (docmodel.Format, int, int, bool) {
	for _, marker := range s.formats {
		for _, tag := range marker.ImportTags() {
			if !strings.HasPrefix(text[i:], tag) {
				continue
			}
			if i > 0 && text[i-1] == tag[0] && !transform.Escaped(text, i-1) {
				continue
			}
			from := i + len(tag)
			if closeAt := findClose(text, from, tag); closeAt > from {
				return marker.Format(), len(tag), closeAt, true
			}
		}
	}
	return 0, 0, 0, false
}

// findClose returns the offset of the closing tag, skipping escapes and code
// spans. A candidate directly followed by the tag's own character is skipped.
func findClose(text string, from int, tag string) int {
	for j := from; j < len(text); {
		switch text[j] {
		case '\\':
			j += 2
			continue
		case '`':
			j = skipCodeSpan(text, j)
			continue
		case '[':
			if n := transform.CrossRefLen(text[j:]); n > 0 {
				j += n
				continue
			}
		}

		if strings.HasPrefix(text[j:], tag) {
			after := j + len(tag)
			if after >= len(text) || text[after] != tag[0] {
				return j
			}
		}
		j++
	}
	return -1
}

// skipCodeSpan returns the offset just past the code span opening at i, or
// past the backtick run when it is never closed.
func skipCodeSpan(text string, i int) int {
	n := runLength(text[i:], '`')
	if end := findCodeClose(text, i+n, n); end >= 0 {
		return end + n
	}
	return i + n
}

// findCodeClose finds a backtick run of exactly n starting at or after from.
func findCodeClose(text string, from, n int) int {
	for j := from; j < len(text); {
		if text[j] != '`' {
			j++
			continue
		}
		run := runLength(text[j:], '`')
		if run == n {
			return j
		}
		j += run
	}
	return -1
}

func runLength(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

// stripCodePadding removes one space from each side when both are present
// and the content is not only spaces.
func stripCodePadding(content string) string {
	if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' &&
		strings.Trim(content, " ") != "" {
		return content[1 : len(content)-1]
	}
	return content
}
