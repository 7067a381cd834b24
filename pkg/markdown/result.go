// Package markdown converts between docmodel documents and markdown text.
//
// The Serializer walks a document and asks the transformer registry to render
// each node. The Parser segments markdown into blocks with goldmark, offers
// each block to the registry's element rules, and scans inline text with a
// trigger-driven scanner. Parsing never fails: constructs the model cannot
// represent degrade to literal text and are reported as warnings.
package markdown

import (
	"github.com/yaklabco/mdinbox/pkg/docmodel"
)

// WarningType classifies a parse warning.
type WarningType string

// Warning types.
const (
	// WarningParseDegraded marks a construct that was kept as literal text.
	WarningParseDegraded WarningType = "parse_degraded"
)

// Warning describes a non-fatal parse condition.
type Warning struct {
	Type WarningType

	// Construct is the goldmark node kind that was degraded (e.g., "ThematicBreak").
	Construct string

	// Line is the 1-based source line, or 0 when unknown.
	Line int

	Message string
}

// Result is the outcome of parsing markdown.
type Result struct {
	Document *docmodel.Document
	Warnings []Warning
}

// Degraded reports whether any construct was kept as literal text.
func (r Result) Degraded() bool {
	for _, w := range r.Warnings {
		if w.Type == WarningParseDegraded {
			return true
		}
	}
	return false
}
