package persist

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/pkg/markdown"
)

// DefaultInterval is the autosave cadence.
const DefaultInterval = time.Second

// State is the autosaver's state.
type State int32

// States.
const (
	// StateIdle saves on every tick.
	StateIdle State = iota

	// StateSavingLocked mirrors a remote save in flight: the document is
	// read-only and ticks are skipped.
	StateSavingLocked
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSavingLocked:
		return "saving-locked"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Document is the live document the autosaver persists.
type Document interface {
	// SerializeNow renders the document as markdown.
	SerializeNow() string

	// LoadIfEmpty replaces an empty document with parsed markdown.
	LoadIfEmpty(source string) (bool, markdown.Result, error)
}

// Option configures an Autosaver.
type Option func(*Autosaver)

// WithInterval sets the tick interval. Non-positive values are ignored.
func WithInterval(interval time.Duration) Option {
	return func(a *Autosaver) {
		if interval > 0 {
			a.interval = interval
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(a *Autosaver) {
		a.logger = logger
	}
}

// Autosaver periodically writes the document into a Slot. Empty documents
// clear the slot so a stale draft is never restored.
type Autosaver struct {
	doc      Document
	slot     Slot
	interval time.Duration
	logger   *log.Logger

	state atomic.Int32

	// discards counts Discard calls; a tick that serialized before a
	// discard must not store its stale content.
	discards atomic.Uint64

	mu        sync.Mutex
	last      string
	lastKnown bool

	hydrateOnce sync.Once
	restored    bool
	hydrateErr  error

	// unread is set while the slot holds a draft that failed to load; an
	// empty document must not clear it.
	unread atomic.Bool

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewAutosaver creates an autosaver for doc writing into slot.
func NewAutosaver(doc Document, slot Slot, opts ...Option) *Autosaver {
	a := &Autosaver{
		doc:      doc,
		slot:     slot,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrDefault(a.logger)
	return a
}

// State returns the current state.
func (a *Autosaver) State() State {
	return State(a.state.Load())
}

// SetState switches between idle and saving-locked.
func (a *Autosaver) SetState(state State) {
	prev := State(a.state.Swap(int32(state)))
	if prev != state {
		a.logger.Debug("autosave state changed", logging.FieldState, state.String())
	}
}

// Interval returns the tick interval.
func (a *Autosaver) Interval() time.Duration {
	return a.interval
}

// Hydrate restores the slot into the document once. It never runs twice and
// never replaces content already present. It reports whether it restored.
func (a *Autosaver) Hydrate(ctx context.Context) (bool, error) {
	a.hydrateOnce.Do(func() {
		a.restored, a.hydrateErr = a.hydrate(ctx)
		a.unread.Store(a.hydrateErr != nil)
	})
	return a.restored, a.hydrateErr
}

func (a *Autosaver) hydrate(ctx context.Context) (bool, error) {
	cached, err := a.slot.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("hydrate: %w", err)
	}
	if cached == "" {
		return false, nil
	}

	restored, res, err := a.doc.LoadIfEmpty(cached)
	if err != nil {
		return false, fmt.Errorf("hydrate: %w", err)
	}
	a.logger.Debug("hydrate", logging.FieldRestored, restored,
		logging.FieldBytes, len(cached), logging.FieldWarnings, len(res.Warnings))
	return restored, nil
}

// Tick persists the document once. Content identical to the last write is
// not rewritten. Ticks are skipped while saving-locked. After a failed
// Hydrate an empty document leaves the slot alone until content is stored.
func (a *Autosaver) Tick(ctx context.Context) error {
	if a.State() == StateSavingLocked {
		return nil
	}

	generation := a.discards.Load()
	content := a.doc.SerializeNow()

	a.mu.Lock()
	defer a.mu.Unlock()

	if generation != a.discards.Load() {
		return nil
	}
	if a.lastKnown && content == a.last {
		return nil
	}

	switch {
	case content == "" && a.unread.Load():
		a.logger.Debug("unread draft kept")
	case content == "":
		if err := a.slot.Clear(ctx); err != nil {
			return fmt.Errorf("autosave: %w", err)
		}
	default:
		if err := a.slot.Store(ctx, content); err != nil {
			return fmt.Errorf("autosave: %w", err)
		}
		a.unread.Store(false)
	}

	a.logger.Debug("autosaved", logging.FieldBytes, len(content))
	a.last = content
	a.lastKnown = true
	return nil
}

// Discard clears the slot and records the empty document as saved. It is
// the post-publish reset and runs regardless of state.
func (a *Autosaver) Discard(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.discards.Add(1)
	if err := a.slot.Clear(ctx); err != nil {
		return fmt.Errorf("discard draft: %w", err)
	}
	a.unread.Store(false)
	a.last = ""
	a.lastKnown = true
	return nil
}

// Start hydrates and then runs the tick loop until Stop or ctx is done.
// Only the first call has an effect.
func (a *Autosaver) Start(ctx context.Context) {
	a.startOnce.Do(func() {
		if _, err := a.Hydrate(ctx); err != nil {
			a.logger.Warn("draft not restored", logging.FieldError, err)
		}

		loopCtx, cancel := context.WithCancel(ctx)
		a.cancel = cancel
		a.done = make(chan struct{})

		a.logger.Debug("autosave started", logging.FieldInterval, a.interval)
		go a.run(loopCtx)
	})
}

func (a *Autosaver) run(ctx context.Context) {
	defer close(a.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.Tick(ctx); err != nil {
				// Retried on the next tick.
				a.logger.Warn("autosave failed", logging.FieldError, err)
			}
		}
	}
}

// Stop ends the tick loop and waits for it to exit. It is safe to call
// more than once, and before Start.
func (a *Autosaver) Stop() {
	a.stopOnce.Do(func() {
		// Block a later Start.
		a.startOnce.Do(func() {})
		if a.cancel == nil {
			return
		}
		a.cancel()
		<-a.done
		a.logger.Debug("autosave stopped")
	})
}
