package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/nathoo/storyseed/engine/save"
	"github.com/nathoo/storyseed/types"
)

// FileStore keeps one JSON file per slot in a directory.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating save dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Save(_ context.Context, name string, s *types.Session) error {
	data, err := encode(name, s)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return atomicWrite(f.filePath(name), data, 0o644)
}

func (f *FileStore) Load(_ context.Context, name string) (*types.Session, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	f.mu.RLock()
	data, err := os.ReadFile(f.filePath(name))
	f.mu.RUnlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return save.Load(data)
}

// List returns slots sorted by name. Unreadable files are skipped.
func (f *FileStore) List(_ context.Context) ([]Slot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("reading save dir: %w", err)
	}
	slots := []Slot{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(f.dir, e.Name()))
		if err != nil {
			continue
		}
		slot, err := slotFor(name, data)
		if err != nil {
			continue
		}
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Name < slots[j].Name })
	return slots, nil
}

func (f *FileStore) Delete(_ context.Context, name string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.filePath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return &NotFoundError{Name: name}
	}
	return err
}

func (f *FileStore) filePath(name string) string {
	return filepath.Join(f.dir, name+".json")
}

// atomicWrite writes data to a temp file then renames it over path, so an
// interrupted save never leaves a truncated slot.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
