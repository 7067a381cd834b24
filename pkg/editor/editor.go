// Package editor holds the live document of an editing session and exposes
// the operations an editing surface performs on it.
//
// All mutation and serialization go through the Editor's mutex, so a
// serialize never observes a half-applied edit. While locked (a remote save
// is in flight) user edits fail with ErrReadOnly.
package editor

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/pkg/docmodel"
	"github.com/yaklabco/mdinbox/pkg/markdown"
	"github.com/yaklabco/mdinbox/pkg/transform"
)

// ErrReadOnly is returned by edits while the editor is locked.
var ErrReadOnly = errors.New("editor is read-only")

// Handle is the set of callbacks an editing surface needs from the core.
type Handle interface {
	// SerializeNow renders the current document as markdown.
	SerializeNow() string

	// Clear empties the document.
	Clear()

	// InsertLiteral inserts text at the caret as a plain text run.
	InsertLiteral(text string) error

	// Focus moves input focus to the editing surface.
	Focus()
}

// Option configures an Editor.
type Option func(*Editor)

// WithRegistry sets the transformer registry. The default is transform.Default().
func WithRegistry(registry *transform.Registry) Option {
	return func(e *Editor) {
		if registry != nil {
			e.registry = registry
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// Editor owns a document and serializes access to it.
type Editor struct {
	mu       sync.Mutex
	doc      *docmodel.Document
	locked   bool
	focused  bool
	revision uint64

	// literal is the run added by the last InsertLiteral. Typed text never
	// extends it, so it is never re-scanned.
	literal *docmodel.Node

	registry   *transform.Registry
	serializer *markdown.Serializer
	parser     *markdown.Parser
	logger     *log.Logger

	// closers holds the last character of every format marker; typing one
	// may complete a span.
	closers map[rune]bool
	// triggers holds the text-match trigger characters.
	triggers map[rune]bool
}

var _ Handle = (*Editor)(nil)

// New creates an editor over an empty document.
func New(opts ...Option) *Editor {
	e := &Editor{
		doc:      docmodel.NewDocument(),
		registry: transform.Default(),
		closers:  make(map[rune]bool),
		triggers: make(map[rune]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrDefault(e.logger)
	e.serializer = markdown.NewSerializer(e.registry)
	e.parser = markdown.NewParser(e.registry)

	for _, marker := range e.registry.Formats() {
		for _, tag := range marker.ImportTags() {
			if tag == "" {
				continue
			}
			e.closers[rune(tag[len(tag)-1])] = true
		}
	}
	for _, r := range e.registry.Triggers() {
		e.triggers[r] = true
	}
	return e
}

// SerializeNow renders the current document as markdown.
func (e *Editor) SerializeNow() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.serializer.Serialize(e.doc)
}

// Clear empties the document. It is allowed while locked: clearing is the
// post-save reset performed under the save lock.
func (e *Editor) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Clear()
	e.literal = nil
	e.revision++
}

// Focus marks the editing surface as focused.
func (e *Editor) Focus() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focused = true
}

// Focused reports whether Focus has been called.
func (e *Editor) Focused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focused
}

// Lock makes the editor read-only.
func (e *Editor) Lock() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.locked = true
	e.focused = false
}

// Unlock makes the editor editable again.
func (e *Editor) Unlock() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.locked = false
}

// Locked reports whether the editor is read-only.
func (e *Editor) Locked() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locked
}

// IsEmpty reports whether the document has no content.
func (e *Editor) IsEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.IsEmpty()
}

// Revision returns a counter incremented by every mutation.
func (e *Editor) Revision() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.revision
}

// Snapshot returns a deep copy of the document.
func (e *Editor) Snapshot() *docmodel.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Load replaces the document with parsed markdown.
func (e *Editor) Load(source string) (markdown.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		return markdown.Result{}, ErrReadOnly
	}
	return e.loadLocked(source), nil
}

// LoadIfEmpty loads markdown only when the document is empty. It reports
// whether the document was replaced.
func (e *Editor) LoadIfEmpty(source string) (bool, markdown.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		return false, markdown.Result{}, ErrReadOnly
	}
	if !e.doc.IsEmpty() || strings.TrimSpace(source) == "" {
		return false, markdown.Result{}, nil
	}
	return true, e.loadLocked(source), nil
}

func (e *Editor) loadLocked(source string) markdown.Result {
	res := e.parser.Parse(source)
	if res.Degraded() {
		e.logger.Warn("markdown kept as literal text", logging.FieldWarnings, len(res.Warnings))
	}
	e.doc = res.Document
	e.literal = nil
	e.revision++
	return res
}

// Update runs fn with the document under the editor lock.
func (e *Editor) Update(fn func(doc *docmodel.Document) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.locked {
		return ErrReadOnly
	}
	if err := fn(e.doc); err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	e.revision++
	return nil
}

// View runs fn with the document under the editor lock. fn must not
// modify the document.
func (e *Editor) View(fn func(doc *docmodel.Document)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.doc)
}
