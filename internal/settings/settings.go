// Package settings persists small process-wide flags such as the seed marker.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	// SeededKey marks that the first-run import has completed.
	SeededKey = "seeded_v1"
	// SeedingKey is set while an import is under way, so rows left by an
	// interrupted pass do not count as local data on the next launch.
	SeedingKey = "seeding_v1"
)

// Store reads and writes boolean flags.
type Store interface {
	Bool(key string) (bool, error)
	SetBool(key string, value bool) error
}

// File keeps flags in a TOML document on disk.
type File struct {
	path string
	mu   sync.Mutex
}

func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("settings path is empty")
	}
	return &File{path: path}, nil
}

// Bool returns false for missing keys and for a missing file.
func (f *File) Bool(key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return false, err
	}
	v, _ := values[key].(bool)
	return v, nil
}

func (f *File) SetBool(key string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

func (f *File) read() (map[string]any, error) {
	values := make(map[string]any)
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", f.path, err)
	}
	return values, nil
}

// write replaces the file via rename so a crash never leaves half a document.
func (f *File) write(values map[string]any) error {
	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir %q: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.toml")
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.Mutex
	values map[string]bool
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]bool)}
}

func (m *Memory) Bool(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *Memory) SetBool(key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
