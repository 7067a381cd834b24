// Package remotesync saves serialized documents to the remote content API
// as new files named after the save time.
//
// At most one save is in flight per Client. A save requested while another
// is running is dropped, not queued.
package remotesync

import (
	"context"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/pkg/config"
	"github.com/yaklabco/mdinbox/pkg/remote"
)

// timestampLayout names saved files: YYYYMMDDHHMMSS.
const timestampLayout = "20060102150405"

// Outcome is the result of a save request.
type Outcome int

// Outcomes.
const (
	// OutcomeSaved means the remote accepted the file.
	OutcomeSaved Outcome = iota + 1

	// OutcomeDropped means another save was in flight; nothing was sent.
	OutcomeDropped
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeDropped:
		return "dropped"
	default:
		return "failed"
	}
}

// Result describes a completed save request.
type Result struct {
	Outcome Outcome
	Path    string
	Bytes   int
}

// ContentAPI is the part of the remote client used for saving.
type ContentAPI interface {
	CreateFile(ctx context.Context, path, message, content string) error
}

// Option configures a Client.
type Option func(*Client)

// WithClock sets the time source used to name files.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithAPI replaces the remote client built from the configuration.
func WithAPI(api ContentAPI) Option {
	return func(c *Client) {
		c.api = api
	}
}

// WithRemoteOptions passes options to the remote client built from the
// configuration.
func WithRemoteOptions(opts ...remote.Option) Option {
	return func(c *Client) {
		c.remoteOpts = append(c.remoteOpts, opts...)
	}
}

// OnLock registers a hook run when a save takes the in-flight lock.
func OnLock(fn func()) Option {
	return func(c *Client) {
		if fn != nil {
			c.onLock = append(c.onLock, fn)
		}
	}
}

// OnUnlock registers a hook run when a save releases the in-flight lock.
func OnUnlock(fn func()) Option {
	return func(c *Client) {
		if fn != nil {
			c.onUnlock = append(c.onUnlock, fn)
		}
	}
}

// Client saves documents to the configured folder.
type Client struct {
	cfg        *config.Config
	api        ContentAPI
	remoteOpts []remote.Option
	now        func() time.Time
	logger     *log.Logger
	onLock     []func()
	onUnlock   []func()
	inFlight   atomic.Bool
}

// New creates a client for cfg. The configuration is read on every save, so
// a missing token or repository is reported by Save, not here.
func New(cfg *config.Config, opts ...Option) *Client {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	c := &Client{
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDefault(c.logger)

	if c.api == nil {
		remoteOpts := []remote.Option{
			remote.WithBaseURL(cfg.APIURL),
			remote.WithTimeout(cfg.Timeout),
			remote.WithLogger(c.logger),
		}
		c.api = remote.NewClient(cfg.Repository, cfg.Token, append(remoteOpts, c.remoteOpts...)...)
	}
	return c
}

// InFlight reports whether a save is running.
func (c *Client) InFlight() bool {
	return c.inFlight.Load()
}

// Save sends content as a new file.
//
// It returns OutcomeDropped without a request when another save is in
// flight. Failures are categorised errors: remote.IsNotConfigured,
// remote.IsRemoteRejected and remote.IsTransport tell them apart.
func (c *Client) Save(ctx context.Context, content string) (Outcome, error) {
	result, err := c.Submit(ctx, func() string { return content }, nil)
	return result.Outcome, err
}

// Submit is Save with the content produced after the lock is taken.
// serialize runs after the OnLock hooks; onSaved, if set, runs after a
// successful save and before the OnUnlock hooks.
func (c *Client) Submit(ctx context.Context, serialize func() string, onSaved func(Result)) (Result, error) {
	if !c.cfg.RemoteConfigured() {
		return Result{}, remote.NotConfigured("save document")
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		c.logger.Debug("save dropped", logging.FieldOutcome, OutcomeDropped.String())
		return Result{Outcome: OutcomeDropped}, nil
	}
	defer c.unlock()
	for _, fn := range c.onLock {
		fn()
	}

	content := serialize()
	filePath := BuildPath(c.cfg.Folder, c.now())
	message := "Add document " + path.Base(filePath)

	start := time.Now()
	if err := c.api.CreateFile(ctx, filePath, message, Encode(content)); err != nil {
		c.logger.Warn("save failed",
			logging.FieldPath, filePath,
			logging.FieldError, err)
		return Result{Path: filePath}, remote.ClassifyWrite(err, "save document")
	}

	result := Result{Outcome: OutcomeSaved, Path: filePath, Bytes: len(content)}
	c.logger.Info("document saved",
		logging.FieldPath, filePath,
		logging.FieldRepo, c.cfg.Repository,
		logging.FieldBytes, result.Bytes,
		logging.FieldDuration, time.Since(start))

	if onSaved != nil {
		onSaved(result)
	}
	return result, nil
}

func (c *Client) unlock() {
	for _, fn := range c.onUnlock {
		fn()
	}
	c.inFlight.Store(false)
}

// BuildPath returns {folder}/{YYYYMMDDHHMMSS}.md. One leading '/' of folder is
// dropped; an empty folder yields the bare file name. The timestamp is taken
// in now's location.
func BuildPath(folder string, now time.Time) string {
	name := now.Format(timestampLayout) + ".md"
	folder = strings.TrimSuffix(config.NormalizeFolder(folder), "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// Encode base64-encodes the UTF-8 bytes of content.
func Encode(content string) string {
	return remote.EncodeContent(content)
}

// Decode reverses Encode. Line breaks in payload are ignored.
func Decode(payload string) (string, error) {
	return remote.DecodeContent(payload)
}
