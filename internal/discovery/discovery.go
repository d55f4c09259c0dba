// Package discovery finds generator packages installed under a set of lookup
// paths and derives their namespaces.
//
// A generator package is a directory named generator-<name> (optionally
// inside an @scope directory). Each sub-directory of <pkg>/generators, or of
// the package root, holding an index.* entry file is a sub-generator with the
// namespace <name>:<subdir>, e.g. generator-webapp/generators/app/index.js is
// webapp:app.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// PackagePrefix marks a directory as a generator package.
	PackagePrefix = "generator-"
	// GeneratorsDir is the conventional home of sub-generators in a package.
	GeneratorsDir = "generators"
	// EntryBase is the base name (without extension) of a sub-generator entry.
	EntryBase = "index"
)

// Meta locates one discovered sub-generator.
type Meta struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	// Resolved is the absolute path of the entry file.
	Resolved string `json:"resolved" yaml:"resolved"`
	// PackagePath is the absolute path of the generator package directory.
	PackagePath string `json:"packagePath" yaml:"packagePath"`
}

// Environment exposes the generators known at the time of the call.
type Environment interface {
	GeneratorsMeta() map[string]Meta
}

// FSEnvironment discovers generators on the local filesystem.
type FSEnvironment struct {
	lookupPaths []string
	meta        map[string]Meta
	logger      *log.Logger
}

// Option configures an FSEnvironment.
type Option func(*FSEnvironment)

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(e *FSEnvironment) { e.logger = l }
}

// NewFSEnvironment creates an environment searching lookupPaths in order.
// Nothing is discovered until Lookup is called.
func NewFSEnvironment(lookupPaths []string, opts ...Option) *FSEnvironment {
	e := &FSEnvironment{
		lookupPaths: append([]string(nil), lookupPaths...),
		meta:        make(map[string]Meta),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// LookupPaths returns the configured search paths.
func (e *FSEnvironment) LookupPaths() []string {
	return append([]string(nil), e.lookupPaths...)
}

// GeneratorsMeta returns a copy of the last lookup result.
func (e *FSEnvironment) GeneratorsMeta() map[string]Meta {
	out := make(map[string]Meta, len(e.meta))
	for k, v := range e.meta {
		out[k] = v
	}
	return out
}

// PackagePaths returns the distinct package directories of the last lookup.
func (e *FSEnvironment) PackagePaths() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range e.meta {
		if _, ok := seen[m.PackagePath]; ok {
			continue
		}
		seen[m.PackagePath] = struct{}{}
		out = append(out, m.PackagePath)
	}
	sort.Strings(out)
	return out
}

// Lookup rescans every lookup path and replaces the known generators. A
// namespace found in an earlier lookup path shadows later ones. Missing lookup
// paths are ignored.
func (e *FSEnvironment) Lookup(ctx context.Context) error {
	found := make(map[string]Meta)

	for _, root := range e.lookupPaths {
		if err := ctx.Err(); err != nil {
			return err
		}
		pkgs, err := packageDirs(root)
		if err != nil {
			return err
		}
		for _, pkg := range pkgs {
			if err := e.registerPackage(found, pkg); err != nil {
				return err
			}
		}
	}

	e.meta = found
	e.logger.Debug("lookup finished", "generators", len(found), "paths", len(e.lookupPaths))
	return nil
}

func (e *FSEnvironment) registerPackage(found map[string]Meta, pkg packageDir) error {
	for _, base := range []string{filepath.Join(pkg.path, GeneratorsDir), pkg.path} {
		subs, err := readDirs(base)
		if err != nil {
			return err
		}
		for _, sub := range subs {
			if sub == GeneratorsDir || sub == "node_modules" || strings.HasPrefix(sub, ".") {
				continue
			}
			entry, err := entryFile(filepath.Join(base, sub))
			if err != nil {
				return err
			}
			if entry == "" {
				continue
			}
			ns := pkg.namespace + ":" + sub
			if prev, ok := found[ns]; ok {
				e.logger.Debug("namespace shadowed", "namespace", ns, "kept", prev.Resolved, "ignored", entry)
				continue
			}
			found[ns] = Meta{Namespace: ns, Resolved: entry, PackagePath: pkg.path}
		}
	}
	return nil
}

type packageDir struct {
	path      string
	namespace string
}

// packageDirs lists generator packages directly under root, including those in
// @scope directories.
func packageDirs(root string) ([]packageDir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve lookup path %s: %w", root, err)
	}
	names, err := readDirs(abs)
	if err != nil {
		return nil, err
	}

	var out []packageDir
	for _, name := range names {
		switch {
		case strings.HasPrefix(name, "@"):
			scoped, err := readDirs(filepath.Join(abs, name))
			if err != nil {
				return nil, err
			}
			for _, inner := range scoped {
				if ns, ok := NamespaceOf(inner); ok {
					out = append(out, packageDir{
						path:      filepath.Join(abs, name, inner),
						namespace: name + "/" + ns,
					})
				}
			}
		default:
			if ns, ok := NamespaceOf(name); ok {
				out = append(out, packageDir{path: filepath.Join(abs, name), namespace: ns})
			}
		}
	}
	return out, nil
}

// NamespaceOf returns the namespace prefix for a package directory name, and
// false when the name is not a generator package.
func NamespaceOf(dirName string) (string, bool) {
	ns, ok := strings.CutPrefix(dirName, PackagePrefix)
	if !ok || ns == "" {
		return "", false
	}
	return ns, true
}

// readDirs returns the sorted names of directories (following symlinks) in
// dir. A missing dir yields no names.
func readDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			out = append(out, entry.Name())
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(dir, entry.Name())); err == nil && info.IsDir() {
				out = append(out, entry.Name())
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// entryFile returns the first index.* regular file in dir, or "".
func entryFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.TrimSuffix(name, filepath.Ext(name)) == EntryBase {
			return filepath.Join(dir, name), nil
		}
	}
	return "", nil
}
