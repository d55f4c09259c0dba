// Package pkgmeta locates and parses the package descriptor (package.json)
// that a generator ships with.
package pkgmeta

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DescriptorFile is the file name searched for when walking upward.
const DescriptorFile = "package.json"

var (
	// ErrNotFound means no descriptor exists in the directory or any parent.
	ErrNotFound = errors.New("package descriptor not found")
	// ErrInvalidDescriptor means a descriptor exists but cannot be used.
	ErrInvalidDescriptor = errors.New("invalid package descriptor")
)

// Descriptor is the subset of package.json fields scaffkit cares about.
type Descriptor struct {
	Name        string   `json:"name" yaml:"name"`
	Version     string   `json:"version" yaml:"version"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Homepage    string   `json:"homepage,omitempty" yaml:"homepage,omitempty"`

	// Dir is the directory holding the descriptor file.
	Dir string `json:"dir" yaml:"dir"`
}

// Reader finds the descriptor nearest to a directory.
type Reader interface {
	FindUp(dir string) (Descriptor, error)
}

// FileReader reads descriptors from the local filesystem.
type FileReader struct{}

// NewReader returns a filesystem-backed Reader.
func NewReader() FileReader { return FileReader{} }

// FindUp checks dir and then each parent for a descriptor file and parses the
// first one found. It returns ErrNotFound when the filesystem root is reached.
func (FileReader) FindUp(dir string) (Descriptor, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	for {
		candidate := filepath.Join(abs, DescriptorFile)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return Load(candidate)
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return Descriptor{}, fmt.Errorf("failed to stat %s: %w", candidate, err)
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return Descriptor{}, ErrNotFound
		}
		abs = parent
	}
}

// Load parses a single descriptor file.
func Load(path string) (Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var d Descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %s: %v", ErrInvalidDescriptor, path, err)
	}
	if d.Name == "" {
		return Descriptor{}, fmt.Errorf("%w: %s: missing name", ErrInvalidDescriptor, path)
	}
	d.Dir = filepath.Dir(path)
	return d, nil
}
