package transform

import (
	"regexp"
	"strings"
)

// crossRefPattern matches a well-formed [[name]] token at the start of a string.
//
//nolint:gochecknoglobals // Compiled once.
var crossRefPattern = regexp.MustCompile(`^\[\[[^\[\]\n]+\]\]`)

// CrossRefLen returns the length of the [[name]] token at the start of text,
// or 0. A token followed by "(" is not one. Tokens are copied verbatim in both
// directions.
func CrossRefLen(text string) int {
	tok := crossRefPattern.FindString(text)
	if tok == "" || (len(tok) < len(text) && text[len(tok)] == '(') {
		return 0
	}
	return len(tok)
}

// EscapeText escapes markdown punctuation so text survives a round trip as
// literal characters. lineStart reports whether text begins a line; block
// markers are then escaped too. A well-formed [[name]] token is left as is
// unless it is followed by "(".
func EscapeText(text string, lineStart bool) string {
	var sb strings.Builder
	sb.Grow(len(text) + len(text)/8)

	atLineStart := lineStart
	for i := 0; i < len(text); i++ {
		c := text[i]

		if atLineStart {
			switch {
			case c == ' ' || c == '\t':
				sb.WriteByte(c)
				continue
			case isBlockMarker(c):
				sb.WriteByte('\\')
			case isDigit(c):
				n := digitRun(text[i:])
				if n <= 9 && i+n < len(text) && (text[i+n] == '.' || text[i+n] == ')') {
					sb.WriteString(text[i : i+n])
					sb.WriteByte('\\')
					sb.WriteByte(text[i+n])
					i += n
					atLineStart = false
					continue
				}
			}
			atLineStart = false
		}

		if c == '[' {
			if n := CrossRefLen(text[i:]); n > 0 {
				sb.WriteString(text[i : i+n])
				i += n - 1
				continue
			}
		}

		if c == '\n' {
			atLineStart = true
		}
		if isInlinePunct(c) {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}

	return sb.String()
}

// CodeSpan renders content as an inline code span. The fence is one backtick
// longer than the longest backtick run in content.
func CodeSpan(content string) string {
	fence := strings.Repeat("`", longestRun(content, '`')+1)
	if needsCodePadding(content) {
		content = " " + content + " "
	}
	return fence + content + fence
}

// CodeFence returns a backtick fence for a fenced code block body.
func CodeFence(body string) string {
	return strings.Repeat("`", max(3, longestRun(body, '`')+1))
}

func needsCodePadding(content string) bool {
	if content == "" {
		return false
	}
	if content[0] == '`' || content[len(content)-1] == '`' {
		return true
	}
	return content[0] == ' ' && content[len(content)-1] == ' ' && strings.TrimLeft(content, " ") != ""
}

func longestRun(s string, c byte) int {
	best, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			best = max(best, cur)
			continue
		}
		cur = 0
	}
	return best
}

func isInlinePunct(c byte) bool {
	switch c {
	case '\\', '*', '_', '~', '`', '[', ']':
		return true
	default:
		return false
	}
}

func isBlockMarker(c byte) bool {
	switch c {
	case '#', '>', '-', '+', '=', '<', '|':
		return true
	default:
		return false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func digitRun(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

// IsEscapable reports whether c may follow a backslash escape (ASCII punctuation).
func IsEscapable(c byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c) >= 0
}
