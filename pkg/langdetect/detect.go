// Package langdetect guesses the info string of a code block from its body
// (and optionally its file name) using go-enry.
package langdetect

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Unknown is returned when no language can be determined. Code blocks then
// carry no info string.
const Unknown = ""

// classifierCandidates limits the enry classifier to languages people paste
// into notes.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Dockerfile",
}

// rule is a cheap textual signal checked before the classifier.
type rule struct {
	lang  string
	match func(body, trimmed string) bool
}

//nolint:gochecknoglobals // Read-only lookup table.
var rules = []rule{
	{"go", func(_, trimmed string) bool {
		return strings.HasPrefix(trimmed, "package ") || strings.Contains(trimmed, "func main() {")
	}},
	{"python", func(body, _ string) bool {
		return (strings.Contains(body, "def ") && strings.Contains(body, "):")) ||
			strings.Contains(body, "__name__") ||
			strings.HasPrefix(strings.TrimSpace(body), "from ") && strings.Contains(body, " import ")
	}},
	{"html", func(_, trimmed string) bool {
		lower := strings.ToLower(trimmed)
		return strings.HasPrefix(lower, "<!doctype html") || strings.Contains(lower, "<html")
	}},
	{"json", func(_, trimmed string) bool {
		return (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) &&
			strings.Contains(trimmed, `":`)
	}},
	{"dockerfile", func(body, trimmed string) bool {
		return strings.HasPrefix(trimmed, "FROM ") && strings.Contains(body, "\nRUN ")
	}},
	{"sql", func(_, trimmed string) bool {
		upper := strings.ToUpper(trimmed)
		for _, kw := range []string{"SELECT ", "INSERT INTO ", "UPDATE ", "DELETE FROM ", "CREATE TABLE "} {
			if strings.HasPrefix(upper, kw) {
				return true
			}
		}
		return false
	}},
	{"rust", func(body, _ string) bool {
		return strings.Contains(body, "fn main()") || strings.Contains(body, "let mut ")
	}},
	{"javascript", func(body, _ string) bool {
		return strings.Contains(body, "console.log") ||
			(strings.Contains(body, "=>") && strings.Contains(body, "const "))
	}},
}

// Detect returns a fence info string for body, or Unknown.
func Detect(body string) string {
	return DetectFile("", body)
}

// DetectFile is like Detect but consults the file name first.
func DetectFile(filename, body string) string {
	if filename != "" {
		if lang, safe := enry.GetLanguageByExtension(filepath.Base(filename)); safe {
			return fenceTag(lang)
		}
		if lang, safe := enry.GetLanguageByFilename(filepath.Base(filename)); safe {
			return fenceTag(lang)
		}
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return Unknown
	}

	if lang, safe := enry.GetLanguageByShebang([]byte(body)); safe {
		return fenceTag(lang)
	}

	for _, r := range rules {
		if r.match(body, trimmed) {
			return r.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier([]byte(body), classifierCandidates); safe && lang != "" {
		return fenceTag(lang)
	}
	return Unknown
}

// fenceTag converts an enry language name to a markdown fence tag.
func fenceTag(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "C++":
		return "cpp"
	case "C#":
		return "csharp"
	}
	return strings.ReplaceAll(strings.ToLower(lang), " ", "-")
}
