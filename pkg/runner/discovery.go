package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover returns the sorted absolute paths of the markdown files under
// opts.Paths. Hidden files and directories, and files whose name starts
// with an underscore, are skipped unless named directly.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	exclude, err := compileExcludes(opts.Exclude)
	if err != nil {
		return nil, err
	}

	d := &discoverer{
		workDir:    workDir,
		extensions: opts.extensions(),
		exclude:    exclude,
		follow:     opts.FollowSymlinks,
		seen:       make(map[string]struct{}),
	}

	for _, input := range opts.paths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if info.IsDir() {
			if err := d.walk(ctx, path); err != nil {
				return nil, err
			}
			continue
		}
		if d.hasExtension(path) && !d.excluded(path, false) {
			d.add(path)
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

type discoverer struct {
	workDir    string
	extensions []string
	exclude    []glob.Glob
	follow     bool
	seen       map[string]struct{}
	files      []string
}

func (d *discoverer) add(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		name := entry.Name()
		if entry.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || d.excluded(path, true)) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !d.follow {
					return nil
				}
				// Walk the target; WalkDir does not descend through a symlinked root.
				return d.walk(ctx, target)
			}
		}

		if d.hasExtension(path) && !d.excluded(path, false) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (d *discoverer) hasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.ContainsFunc(d.extensions, func(e string) bool {
		return strings.ToLower(e) == ext
	})
}

// excluded matches path, relative to the working directory, against the
// exclude patterns. Patterns without a slash also match the base name.
func (d *discoverer) excluded(path string, dir bool) bool {
	if len(d.exclude) == 0 {
		return false
	}

	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, g := range d.exclude {
		if g.Match(rel) || g.Match(base) || (dir && g.Match(rel+"/")) {
			return true
		}
	}
	return false
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		return os.Getwd()
	}
	return filepath.Abs(workDir)
}
