// Package persist keeps the editing session's document in a single durable
// local slot so a draft survives restarts.
package persist

import (
	"context"
	"fmt"
	"sync"

	"github.com/yaklabco/mdinbox/pkg/fsutil"
)

// Slot is a single string-valued durable key. An absent slot and an empty
// one both mean "no draft".
type Slot interface {
	// Load returns the stored draft, or "" when there is none.
	Load(ctx context.Context) (string, error)

	// Store overwrites the slot.
	Store(ctx context.Context, content string) error

	// Clear removes the slot entirely.
	Clear(ctx context.Context) error
}

// FileSlot stores the draft in a file. Clearing removes the file.
type FileSlot struct {
	path string
}

var _ Slot = (*FileSlot)(nil)

// NewFileSlot creates a slot backed by the file at path.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Path returns the backing file path.
func (s *FileSlot) Path() string {
	return s.path
}

// Load reads the draft file.
func (s *FileSlot) Load(ctx context.Context) (string, error) {
	data, ok, err := fsutil.ReadIfExists(ctx, s.path)
	if err != nil {
		return "", fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return "", nil
	}
	return string(data), nil
}

// Store writes the draft atomically. The file is private to the user.
func (s *FileSlot) Store(ctx context.Context, content string) error {
	if _, err := fsutil.WriteAtomicIfChanged(ctx, s.path, []byte(content), fsutil.PrivateFileMode); err != nil {
		return fmt.Errorf("store draft: %w", err)
	}
	return nil
}

// Clear removes the draft file.
func (s *FileSlot) Clear(ctx context.Context) error {
	if _, err := fsutil.RemoveIfExists(ctx, s.path); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

// Exists reports whether the draft file is present.
func (s *FileSlot) Exists(ctx context.Context) (bool, error) {
	_, ok, err := fsutil.ReadIfExists(ctx, s.path)
	return ok, err
}

// MemorySlot keeps the draft in memory.
type MemorySlot struct {
	mu      sync.Mutex
	value   string
	present bool
	writes  int
}

var _ Slot = (*MemorySlot)(nil)

// NewMemorySlot creates an absent in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// Load returns the stored value.
func (s *MemorySlot) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

// Store sets the value.
func (s *MemorySlot) Store(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = content
	s.present = true
	s.writes++
	return nil
}

// Clear removes the value.
func (s *MemorySlot) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	s.present = false
	return nil
}

// Present reports whether the slot holds a value.
func (s *MemorySlot) Present() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.present
}

// Writes returns the number of Store calls.
func (s *MemorySlot) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
