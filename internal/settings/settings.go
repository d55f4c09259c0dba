// Package settings persists small key-value state between scaffkit sessions:
// how often each generator was run and cached update-check results.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

const (
	// AppName scopes the default store location.
	AppName = "scaffkit"
	// FileName is the settings file inside the state directory.
	FileName = "settings.toml"

	// KeyGeneratorRunCount maps package name -> number of runs.
	KeyGeneratorRunCount = "generatorRunCount"
	// KeyUpdateCheck maps package name -> cached update-check result.
	KeyUpdateCheck = "updateCheck"
)

// Store is a flat key-value store whose values may be nested tables.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any) error
	Delete(key string) error
	All() map[string]any
	Clear() error
	Path() string
}

// DefaultValues returns a fresh copy of the default settings shape.
func DefaultValues() map[string]any {
	return map[string]any{
		KeyGeneratorRunCount: map[string]any{},
	}
}

// DefaultDir returns the per-user state directory for scaffkit.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// FileStore keeps settings in memory and writes them to a TOML file on every
// mutation. A FileStore with an empty path never touches the filesystem.
type FileStore struct {
	path     string
	defaults map[string]any
	data     map[string]any
}

// Open loads the store at path, creating nothing until the first write.
// Keys missing from the file are filled from defaults.
func Open(path string, defaults map[string]any) (*FileStore, error) {
	s := &FileStore{
		path:     path,
		defaults: cloneMap(defaults),
		data:     cloneMap(defaults),
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	stored := make(map[string]any)
	if err := toml.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	for k, v := range stored {
		s.data[k] = v
	}
	return s, nil
}

// OpenDefault opens the store in DefaultDir with DefaultValues.
func OpenDefault() (*FileStore, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(dir, FileName), DefaultValues())
}

// NewMemory returns a store that is never persisted.
func NewMemory(defaults map[string]any) *FileStore {
	return &FileStore{
		defaults: cloneMap(defaults),
		data:     cloneMap(defaults),
	}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(key string) (any, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *FileStore) Set(key string, value any) error {
	s.data[key] = value
	return s.save()
}

func (s *FileStore) Delete(key string) error {
	delete(s.data, key)
	return s.save()
}

// All returns a copy of every stored value.
func (s *FileStore) All() map[string]any {
	return cloneMap(s.data)
}

// Keys returns the stored keys in sorted order.
func (s *FileStore) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clear resets the store to its defaults.
func (s *FileStore) Clear() error {
	s.data = cloneMap(s.defaults)
	return s.save()
}

func (s *FileStore) save() error {
	if s.path == "" {
		return nil
	}
	raw, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(s.path), err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}
