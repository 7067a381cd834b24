// Package index lists the documents saved in the remote folder and derives
// searchable previews for them.
package index

import (
	"context"
	"errors"
	"iter"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"

	"github.com/yaklabco/mdinbox/internal/logging"
	"github.com/yaklabco/mdinbox/pkg/config"
	"github.com/yaklabco/mdinbox/pkg/remote"
)

// MarkdownExt is the extension of listed documents.
const MarkdownExt = ".md"

// Entry is a listed document.
type Entry struct {
	Name         string       `json:"name"`
	Path         string       `json:"path"`
	Title        string       `json:"title,omitempty"`
	Preview      string       `json:"preview"`
	PreviewState PreviewState `json:"-"`
}

// ContentAPI is the part of the remote client used for listing.
type ContentAPI interface {
	ListDirectory(ctx context.Context, path string) ([]remote.Item, error)
	GetFile(ctx context.Context, path string) (*remote.File, error)
}

// Option configures a Lister.
type Option func(*Lister)

// WithAPI replaces the remote client built from the configuration.
func WithAPI(api ContentAPI) Option {
	return func(l *Lister) {
		l.api = api
	}
}

// WithRemoteOptions passes options to the remote client built from the
// configuration.
func WithRemoteOptions(opts ...remote.Option) Option {
	return func(l *Lister) {
		l.remoteOpts = append(l.remoteOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Lister) {
		l.logger = logger
	}
}

// Lister lists documents of the configured folder.
type Lister struct {
	cfg        *config.Config
	api        ContentAPI
	remoteOpts []remote.Option
	logger     *log.Logger
}

// New creates a lister for cfg.
func New(cfg *config.Config, opts ...Option) *Lister {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	l := &Lister{cfg: cfg}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = logging.OrDefault(l.logger)

	if l.api == nil {
		remoteOpts := []remote.Option{
			remote.WithBaseURL(cfg.APIURL),
			remote.WithTimeout(cfg.Timeout),
			remote.WithLogger(l.logger),
		}
		l.api = remote.NewClient(cfg.Repository, cfg.Token, append(remoteOpts, l.remoteOpts...)...)
	}
	return l
}

// ListDocuments returns the folder's markdown files, newest name first.
//
// The sequence is lazy: the folder is listed when iteration starts and each
// file is fetched as its entry is reached. Nothing is cached between
// iterations. A missing folder yields no entries. A file that cannot be
// fetched yields an entry with the unavailable placeholder; only listing
// failures are yielded as errors, and they end the sequence.
func (l *Lister) ListDocuments(ctx context.Context) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		if !l.cfg.RemoteConfigured() {
			yield(Entry{}, remote.NotConfigured("list documents"))
			return
		}

		folder := l.cfg.NormalizedFolder()
		items, err := l.api.ListDirectory(ctx, folder)
		if err != nil {
			if errors.Is(err, remote.ErrNotFound) {
				l.logger.Debug("folder not found", logging.FieldFolder, folder)
				return
			}
			yield(Entry{}, remote.Classify(err, "list documents"))
			return
		}

		docs := Documents(items)
		l.logger.Debug("folder listed",
			logging.FieldFolder, folder,
			logging.FieldEntries, len(docs))

		for _, item := range docs {
			if err := ctx.Err(); err != nil {
				yield(Entry{}, err)
				return
			}
			if !yield(l.entry(ctx, item), nil) {
				return
			}
		}
	}
}

// Collect drains ListDocuments.
func (l *Lister) Collect(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	for entry, err := range l.ListDocuments(ctx) {
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (l *Lister) entry(ctx context.Context, item remote.Item) Entry {
	entry := Entry{Name: item.Name, Path: item.Path}

	content, err := l.fetch(ctx, item.Path)
	if err != nil {
		l.logger.Warn("preview unavailable",
			logging.FieldPath, item.Path,
			logging.FieldError, err)
		entry.Preview = PlaceholderUnavailable
		entry.PreviewState = PreviewUnavailable
		return entry
	}

	entry.Title, entry.Preview, entry.PreviewState = Preview(content, l.cfg.PreviewLength)
	return entry
}

func (l *Lister) fetch(ctx context.Context, path string) (string, error) {
	file, err := l.api.GetFile(ctx, path)
	if err != nil {
		return "", err
	}
	return file.Text()
}

// Documents keeps the markdown files of a listing, sorted by name
// descending. Saved files are named by timestamp, so the newest comes first.
func Documents(items []remote.Item) []remote.Item {
	docs := make([]remote.Item, 0, len(items))
	for _, item := range items {
		if item.IsFile() && strings.HasSuffix(item.Name, MarkdownExt) {
			docs = append(docs, item)
		}
	}
	slices.SortStableFunc(docs, func(a, b remote.Item) int {
		return strings.Compare(b.Name, a.Name)
	})
	return docs
}

// Search keeps the entries whose name, title or preview contains query,
// ignoring case. Order is preserved. An empty query keeps everything.
func Search(entries []Entry, query string) []Entry {
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}

	fold := cases.Fold()
	needle := fold.String(query)

	var out []Entry
	for _, entry := range entries {
		for _, field := range []string{entry.Name, entry.Title, entry.Preview} {
			if strings.Contains(fold.String(field), needle) {
				out = append(out, entry)
				break
			}
		}
	}
	return out
}

// Find returns the entry whose name, with or without the extension,
// equals name.
func Find(entries []Entry, name string) (Entry, bool) {
	for _, entry := range entries {
		if entry.Name == name || strings.TrimSuffix(entry.Name, MarkdownExt) == name {
			return entry, true
		}
	}
	return Entry{}, false
}

// CrossRef returns the cross-reference token for entry: [[name]] without
// the extension. It is inserted into the document as plain text.
func CrossRef(entry Entry) string {
	return "[[" + strings.TrimSuffix(entry.Name, MarkdownExt) + "]]"
}
