// Package runner checks many markdown files for round-trip stability
// concurrently.
package runner

// Options controls file discovery and concurrency.
type Options struct {
	// Paths are files or directories to check. Empty means the working
	// directory.
	Paths []string

	// WorkingDir resolves relative Paths. Empty means the process working
	// directory.
	WorkingDir string

	// Extensions are the lowercase file extensions treated as markdown.
	// Empty means DefaultExtensions.
	Extensions []string

	// Exclude holds glob patterns, relative to WorkingDir, for files and
	// directories to skip.
	Exclude []string

	// FollowSymlinks walks into symlinked directories.
	FollowSymlinks bool

	// Jobs is the number of concurrent workers. 0 or less means NumCPU.
	Jobs int
}

// DefaultExtensions returns the markdown file extensions checked by default.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) paths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
