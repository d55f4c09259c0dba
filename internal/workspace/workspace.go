package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tldr-it-stepankutaj/scaffkit/internal/settings"
)

// GeneratorsDir holds generators installed for the current user only.
const GeneratorsDir = "generators"

// Handle implements app.WorkspaceHandle for the scaffkit state directory.
type Handle struct {
	Root string
}

// Path joins workspace root with provided parts.
func (h Handle) Path(parts ...string) string {
	all := append([]string{h.Root}, parts...)
	return filepath.Join(all...)
}

// SettingsPath is the location of the settings file.
func (h Handle) SettingsPath() string {
	return h.Path(settings.FileName)
}

// GeneratorsPath is the per-user generator lookup path.
func (h Handle) GeneratorsPath() string {
	return h.Path(GeneratorsDir)
}

// Ensure creates the state directory structure if missing.
func Ensure(root string) (Handle, error) {
	h := Handle{Root: root}
	dirs := []string{
		root,
		filepath.Join(root, GeneratorsDir),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return h, fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}
	return h, nil
}
