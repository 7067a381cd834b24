// Package session wires an editing session together: the editor handle, the
// draft autosaver, the remote sync client and the document index.
//
// A session hydrates the draft once at Start, autosaves until Close, and
// publishes through Publish, which locks the editor for the duration of the
// save and resets the document and the draft when the save succeeds.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/pkg/config"
	"github.com/yaklabco/mdinbox/pkg/editor"
	"github.com/yaklabco/mdinbox/pkg/index"
	"github.com/yaklabco/mdinbox/pkg/persist"
	"github.com/yaklabco/mdinbox/pkg/remotesync"
)

// ErrEmptyDocument is returned when publishing a document with no content.
var ErrEmptyDocument = errors.New("nothing to publish: document is empty")

// Option configures a Session.
type Option func(*Session)

// WithSlot sets the draft slot. The default is a file slot at the
// configured draft path.
func WithSlot(slot persist.Slot) Option {
	return func(s *Session) {
		s.slot = slot
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithSyncOptions passes options to the sync client.
func WithSyncOptions(opts ...remotesync.Option) Option {
	return func(s *Session) {
		s.syncOpts = append(s.syncOpts, opts...)
	}
}

// WithIndexOptions passes options to the index lister.
func WithIndexOptions(opts ...index.Option) Option {
	return func(s *Session) {
		s.indexOpts = append(s.indexOpts, opts...)
	}
}

// WithEditorOptions passes options to the editor.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(s *Session) {
		s.editorOpts = append(s.editorOpts, opts...)
	}
}

// Session is one editing session.
type Session struct {
	cfg    *config.Config
	logger *log.Logger
	slot   persist.Slot

	editorOpts []editor.Option
	syncOpts   []remotesync.Option
	indexOpts  []index.Option

	editor    *editor.Editor
	autosaver *persist.Autosaver
	sync      *remotesync.Client
	index     *index.Lister

	closeOnce sync.Once
	closeErr  error
}

// New creates a session for cfg.
func New(cfg *config.Config, opts ...Option) *Session {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	s := &Session{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrDefault(s.logger)
	if s.slot == nil {
		s.slot = persist.NewFileSlot(cfg.DraftPath)
	}

	s.editor = editor.New(append([]editor.Option{editor.WithLogger(s.logger)}, s.editorOpts...)...)
	s.autosaver = persist.NewAutosaver(s.editor, s.slot,
		persist.WithInterval(cfg.AutosaveInterval),
		persist.WithLogger(s.logger))
	s.sync = remotesync.New(cfg, append([]remotesync.Option{
		remotesync.WithLogger(s.logger),
		remotesync.OnLock(s.lock),
		remotesync.OnUnlock(s.unlock),
	}, s.syncOpts...)...)
	s.index = index.New(cfg, append([]index.Option{index.WithLogger(s.logger)}, s.indexOpts...)...)

	return s
}

// Editor returns the editor handle.
func (s *Session) Editor() *editor.Editor {
	return s.editor
}

// Autosaver returns the draft autosaver.
func (s *Session) Autosaver() *persist.Autosaver {
	return s.autosaver
}

// Index returns the document lister.
func (s *Session) Index() *index.Lister {
	return s.index
}

// Sync returns the sync client.
func (s *Session) Sync() *remotesync.Client {
	return s.sync
}

// Config returns the session configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Start restores the draft into the empty document and starts autosaving.
// It reports whether a draft was restored. A failed restore is returned
// but autosaving starts regardless.
func (s *Session) Start(ctx context.Context) (bool, error) {
	restored, err := s.autosaver.Hydrate(ctx)
	s.autosaver.Start(ctx)
	if err != nil {
		return false, err
	}
	if restored {
		s.logger.Info("draft restored", logging.FieldBlocks, s.editor.Snapshot().Len())
	}
	return restored, nil
}

// Publish saves the document remotely.
//
// The editor is read-only and autosave is suspended while the save is in
// flight. When the remote accepts the file, the document is cleared and the
// draft discarded. A publish requested while another is in flight returns
// remotesync.OutcomeDropped.
func (s *Session) Publish(ctx context.Context) (remotesync.Result, error) {
	if strings.TrimSpace(s.editor.SerializeNow()) == "" {
		return remotesync.Result{}, ErrEmptyDocument
	}

	result, err := s.sync.Submit(ctx, s.editor.SerializeNow, func(remotesync.Result) {
		s.editor.Clear()
		if err := s.autosaver.Discard(ctx); err != nil {
			s.logger.Warn("draft not cleared", logging.FieldError, err)
		}
	})
	if err != nil {
		return result, fmt.Errorf("publish: %w", err)
	}

	s.logger.Debug("publish finished",
		logging.FieldOutcome, result.Outcome.String(),
		logging.FieldPath, result.Path)
	return result, nil
}

// InsertCrossRef inserts the cross-reference token of entry at the caret.
func (s *Session) InsertCrossRef(entry index.Entry) error {
	return s.editor.InsertLiteral(index.CrossRef(entry))
}

// Flush writes the current document to the draft slot now.
func (s *Session) Flush(ctx context.Context) error {
	return s.autosaver.Tick(ctx)
}

// Close stops autosaving and writes the draft one last time. It is safe to
// call more than once.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.autosaver.Stop()
		s.closeErr = s.autosaver.Tick(ctx)
	})
	return s.closeErr
}

func (s *Session) lock() {
	s.editor.Lock()
	s.autosaver.SetState(persist.StateSavingLocked)
}

func (s *Session) unlock() {
	s.autosaver.SetState(persist.StateIdle)
	s.editor.Unlock()
	s.editor.Focus()
}
