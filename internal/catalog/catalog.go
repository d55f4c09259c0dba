// Package catalog keeps the set of top-level generators the user can pick
// from, keyed by package name and enriched with display and update data.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tldr-it-stepankutaj/scaffkit/internal/discovery"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/display"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/pkgmeta"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/update"
)

// Record is a package descriptor enriched for presentation.
type Record struct {
	pkgmeta.Descriptor `yaml:",inline"`

	Namespace       string       `json:"namespace" yaml:"namespace"`
	Resolved        string       `json:"resolved" yaml:"resolved"`
	AppGenerator    bool         `json:"appGenerator" yaml:"appGenerator"`
	PrettyName      string       `json:"prettyName" yaml:"prettyName"`
	Update          *update.Info `json:"update,omitempty" yaml:"update,omitempty"`
	UpdateAvailable bool         `json:"updateAvailable" yaml:"updateAvailable"`
}

// Catalog maps package name to Record. Generators is replaced as a whole by
// every successful Rebuild and must not be mutated by callers.
type Catalog struct {
	Generators map[string]*Record

	env     discovery.Environment
	reader  pkgmeta.Reader
	checker update.Checker
	logger  *log.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithReader overrides the package descriptor reader.
func WithReader(r pkgmeta.Reader) Option {
	return func(c *Catalog) { c.reader = r }
}

// WithChecker overrides the update checker.
func WithChecker(u update.Checker) Option {
	return func(c *Catalog) { c.checker = u }
}

// WithLogger sets the logger for rebuild diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// New creates an empty catalog over env. Without options it reads descriptors
// from disk and never reports updates.
func New(env discovery.Environment, opts ...Option) *Catalog {
	c := &Catalog{
		Generators: make(map[string]*Record),
		env:        env,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.reader == nil {
		c.reader = pkgmeta.NewReader()
	}
	if c.checker == nil {
		c.checker = update.Disabled{}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// IsAppNamespace reports whether namespace names a top-level generator.
func IsAppNamespace(namespace string) bool {
	return strings.HasSuffix(namespace, ":app") || strings.HasSuffix(namespace, ":all")
}

// Rebuild recomputes the catalog from the environment's current snapshot.
// Entries are processed in namespace order. Sub-generators and entries without
// a package descriptor are skipped. When two namespaces resolve to the same
// package the later one wins.
//
// The new catalog is swapped in only when every entry was processed; on error
// the previous Generators map is left untouched.
func (c *Catalog) Rebuild(ctx context.Context) error {
	meta := c.env.GeneratorsMeta()
	keys := make([]string, 0, len(meta))
	for ns := range meta {
		keys = append(keys, ns)
	}
	sort.Strings(keys)

	next := make(map[string]*Record, len(keys))
	for _, ns := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := c.resolve(ctx, meta[ns])
		if err != nil {
			return err
		}
		if rec == nil {
			continue
		}
		if prev, ok := next[rec.Name]; ok {
			c.logger.Warn("duplicate generator package, keeping last",
				"package", rec.Name, "replaced", prev.Namespace, "namespace", rec.Namespace)
		}
		next[rec.Name] = rec
	}

	c.Generators = next
	c.logger.Debug("catalog rebuilt", "generators", len(next))
	return nil
}

// resolve returns nil for entries that do not belong in the catalog.
func (c *Catalog) resolve(ctx context.Context, m discovery.Meta) (*Record, error) {
	if !IsAppNamespace(m.Namespace) {
		return nil, nil
	}

	desc, err := c.reader.FindUp(filepath.Dir(m.Resolved))
	if errors.Is(err, pkgmeta.ErrNotFound) {
		c.logger.Debug("no package descriptor, skipping", "namespace", m.Namespace)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading package descriptor for %s: %w", m.Namespace, err)
	}

	rec := &Record{
		Descriptor:   desc,
		Namespace:    m.Namespace,
		Resolved:     m.Resolved,
		AppGenerator: true,
		PrettyName:   display.PrettyName(m.Namespace),
	}

	info, err := c.checker.Check(ctx, desc.Name, desc.Version)
	if err != nil {
		c.logger.Debug("update check failed", "package", desc.Name, "err", err)
	}
	rec.Update = info
	if info != nil && desc.Version != info.Latest {
		rec.UpdateAvailable = true
	}
	return rec, nil
}

// Sorted returns the records ordered by pretty name, then package name.
func (c *Catalog) Sorted() []*Record {
	out := make([]*Record, 0, len(c.Generators))
	for _, r := range c.Generators {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PrettyName != out[j].PrettyName {
			return out[i].PrettyName < out[j].PrettyName
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Outdated returns the records with an update available, sorted.
func (c *Catalog) Outdated() []*Record {
	var out []*Record
	for _, r := range c.Sorted() {
		if r.UpdateAvailable {
			out = append(out, r)
		}
	}
	return out
}
