package pkgmeta

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindUp_WalksToNearestDescriptor(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "generator-webapp")
	writeFile(t, filepath.Join(pkgDir, DescriptorFile), `{
		"name": "generator-webapp",
		"version": "1.4.0",
		"description": "Scaffold a web app",
		"keywords": ["yeoman-generator"]
	}`)
	entryDir := filepath.Join(pkgDir, "generators", "app")
	if err := os.MkdirAll(entryDir, 0o755); err != nil {
		t.Fatal(err)
	}

	d, err := NewReader().FindUp(entryDir)
	if err != nil {
		t.Fatalf("FindUp() error: %v", err)
	}
	if d.Name != "generator-webapp" || d.Version != "1.4.0" {
		t.Errorf("FindUp() = %s@%s, want generator-webapp@1.4.0", d.Name, d.Version)
	}
	if d.Dir != pkgDir {
		t.Errorf("Dir = %q, want %q", d.Dir, pkgDir)
	}
	if len(d.Keywords) != 1 || d.Keywords[0] != "yeoman-generator" {
		t.Errorf("Keywords = %v", d.Keywords)
	}
}

func TestFindUp_PrefersClosest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, DescriptorFile), `{"name":"outer","version":"1.0.0"}`)
	inner := filepath.Join(root, "inner")
	writeFile(t, filepath.Join(inner, DescriptorFile), `{"name":"inner","version":"2.0.0"}`)

	d, err := NewReader().FindUp(filepath.Join(inner, "lib"))
	if err != nil {
		t.Fatalf("FindUp() error: %v", err)
	}
	if d.Name != "inner" {
		t.Errorf("Name = %q, want inner", d.Name)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"name": `},
		{"missing name", `{"version": "1.0.0"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DescriptorFile)
			writeFile(t, path, tt.content)

			_, err := Load(path)
			if !errors.Is(err, ErrInvalidDescriptor) {
				t.Fatalf("Load() error = %v, want ErrInvalidDescriptor", err)
			}
		})
	}
}
