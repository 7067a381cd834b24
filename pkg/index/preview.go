package index

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/unicode/norm"
)

// Preview placeholders.
const (
	PlaceholderEmpty       = "No content"
	PlaceholderUnavailable = "Preview unavailable"
)

// DefaultPreviewLength is the preview size in characters.
const DefaultPreviewLength = 100

// PreviewState tells how an entry's preview was derived.
type PreviewState int

// Preview states.
const (
	// PreviewReady means the preview holds document text.
	PreviewReady PreviewState = iota

	// PreviewEmpty means nothing survived stripping.
	PreviewEmpty

	// PreviewUnavailable means the content could not be fetched.
	PreviewUnavailable
)

// String returns the state name.
func (s PreviewState) String() string {
	switch s {
	case PreviewReady:
		return "ready"
	case PreviewEmpty:
		return "empty"
	case PreviewUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// markerRule replaces a markdown construct with its visible text.
type markerRule struct {
	pattern *regexp.Regexp
	repl    string
}

//nolint:gochecknoglobals // Compiled once.
var (
	markerRules = []markerRule{
		{regexp.MustCompile("(?m)^[ \t]*(```|~~~).*$"), ""},
		{regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+`), ""},
		{regexp.MustCompile(`(?m)^[ \t]{0,3}>[ \t]?`), ""},
		{regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`), "$1"},
		{regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`), "$1"},
		{regexp.MustCompile("`+([^`]*)`+"), "$1"},
		{regexp.MustCompile(`\*\*(.+?)\*\*`), "$1"},
		{regexp.MustCompile(`__(.+?)__`), "$1"},
		{regexp.MustCompile(`~~(.+?)~~`), "$1"},
		{regexp.MustCompile(`\*(.+?)\*`), "$1"},
		{regexp.MustCompile(`(^|[^\pL\pN_])_([^_]+)_`), "$1$2"},
		// Unpaired leftovers, then backslash escapes.
		{regexp.MustCompile("(^|[^\\\\])([*`]+|~~)"), "$1"},
		{regexp.MustCompile(`\\([[:punct:]])`), "$1"},
	}
	lineBreaks = regexp.MustCompile(`[ \t]*(\r?\n)+[ \t]*`)
	headingRe  = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+(.+?)[ \t#]*$`)
)

type frontMatter struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

// Preview derives a title and a plain-text preview of at most limit
// characters from markdown content. Front matter is dropped; its title, or
// else the first heading, becomes the title.
func Preview(content string, limit int) (string, string, PreviewState) {
	if limit <= 0 {
		limit = DefaultPreviewLength
	}

	var meta frontMatter
	body, err := frontmatter.Parse(strings.NewReader(content), &meta)
	if err != nil {
		// Malformed front matter is previewed as text.
		body = []byte(content)
		meta = frontMatter{}
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		if m := headingRe.FindSubmatch(body); m != nil {
			title = strings.TrimSpace(stripMarkers(string(m[1])))
		}
	}

	text := stripMarkers(string(bytes.TrimSpace(body)))
	text = lineBreaks.ReplaceAllString(text, " ")
	text = norm.NFC.String(strings.TrimSpace(text))
	if text == "" {
		return title, PlaceholderEmpty, PreviewEmpty
	}
	return title, truncate(text, limit), PreviewReady
}

func stripMarkers(text string) string {
	for _, rule := range markerRules {
		text = rule.pattern.ReplaceAllString(text, rule.repl)
	}
	return text
}

// truncate keeps the first limit runes.
func truncate(text string, limit int) string {
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}
