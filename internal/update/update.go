// Package update answers whether a newer release of an installed generator
// package has been published.
package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"

	"github.com/tldr-it-stepankutaj/scaffkit/internal/settings"
)

// DefaultInterval is how long a registry answer is reused.
const DefaultInterval = 24 * time.Hour

var (
	// ErrInvalidVersion indicates a version string is not valid semver.
	ErrInvalidVersion = errors.New("invalid semantic version")
)

type (
	// Info describes a published release newer than the installed one.
	Info struct {
		Name    string `json:"name" yaml:"name"`
		Current string `json:"current" yaml:"current"`
		Latest  string `json:"latest" yaml:"latest"`
		// Type is major, minor, patch or prerelease.
		Type string `json:"type" yaml:"type"`
	}

	// Checker compares an installed version against the published one. It
	// returns nil Info when the installed version is current.
	Checker interface {
		Check(ctx context.Context, name, version string) (*Info, error)
	}

	// Disabled never reports updates.
	Disabled struct{}

	// RegistryChecker asks a package registry for the latest version and
	// caches the answer in the settings store.
	RegistryChecker struct {
		registry *RegistryClient
		store    settings.Store
		interval time.Duration
		now      func() time.Time
		logger   *log.Logger
	}

	// Option configures a RegistryChecker during construction.
	Option func(*RegistryChecker)
)

func (Disabled) Check(context.Context, string, string) (*Info, error) { return nil, nil }

// WithRegistryClient overrides the default RegistryClient.
func WithRegistryClient(c *RegistryClient) Option {
	return func(rc *RegistryChecker) { rc.registry = c }
}

// WithInterval sets how long cached answers stay fresh. Zero disables caching.
func WithInterval(d time.Duration) Option {
	return func(rc *RegistryChecker) { rc.interval = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(rc *RegistryChecker) { rc.now = now }
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(rc *RegistryChecker) { rc.logger = l }
}

// NewRegistryChecker creates a checker caching into store.
func NewRegistryChecker(store settings.Store, opts ...Option) *RegistryChecker {
	rc := &RegistryChecker{
		store:    store,
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(rc)
	}
	if rc.registry == nil {
		rc.registry = NewRegistryClient()
	}
	if rc.logger == nil {
		rc.logger = log.New(io.Discard)
	}
	return rc
}

// Check returns update info for name when the registry knows a version newer
// than version.
func (rc *RegistryChecker) Check(ctx context.Context, name, version string) (*Info, error) {
	latest, err := rc.latest(ctx, name)
	if err != nil {
		return nil, err
	}
	return Compare(name, version, latest)
}

func (rc *RegistryChecker) latest(ctx context.Context, name string) (string, error) {
	cache := settings.Table(rc.store, settings.KeyUpdateCheck)
	if entry, ok := cache[name].(map[string]any); ok && rc.interval > 0 {
		latest, _ := entry["latest"].(string)
		checkedAt, _ := entry["checkedAt"].(time.Time)
		if latest != "" && rc.now().Sub(checkedAt) < rc.interval {
			rc.logger.Debug("update cache hit", "package", name, "latest", latest)
			return latest, nil
		}
	}

	latest, err := rc.registry.Latest(ctx, name)
	if err != nil {
		return "", err
	}

	cache[name] = map[string]any{
		"latest":    latest,
		"checkedAt": rc.now().UTC(),
	}
	if err := rc.store.Set(settings.KeyUpdateCheck, cache); err != nil {
		rc.logger.Debug("caching update check failed", "package", name, "err", err)
	}
	return latest, nil
}

// Compare classifies latest against current. It returns nil when latest is
// not newer.
func Compare(name, current, latest string) (*Info, error) {
	cur, err := normalizeVersion(current)
	if err != nil {
		return nil, fmt.Errorf("current version of %s: %w", name, err)
	}
	lat, err := normalizeVersion(latest)
	if err != nil {
		return nil, fmt.Errorf("latest version of %s: %w", name, err)
	}
	if semver.Compare(lat, cur) <= 0 {
		return nil, nil
	}

	return &Info{
		Name:    name,
		Current: current,
		Latest:  latest,
		Type:    diffType(cur, lat),
	}, nil
}

func diffType(cur, lat string) string {
	switch {
	case semver.Major(cur) != semver.Major(lat):
		return "major"
	case semver.MajorMinor(cur) != semver.MajorMinor(lat):
		return "minor"
	case semver.Canonical(stripPre(cur)) != semver.Canonical(stripPre(lat)):
		return "patch"
	default:
		return "prerelease"
	}
}

func stripPre(v string) string {
	if pre := semver.Prerelease(v); pre != "" {
		return strings.TrimSuffix(semver.Canonical(v), pre)
	}
	return v
}

// normalizeVersion ensures a leading "v" and validates the result.
func normalizeVersion(v string) (string, error) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, strings.TrimPrefix(v, "v"))
	}
	return v, nil
}
