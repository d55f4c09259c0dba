package scaffkit

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tldr-it-stepankutaj/scaffkit/internal/pkgmeta"
	"github.com/tldr-it-stepankutaj/scaffkit/internal/settings"
	"github.com/tldr-it-stepankutaj/scaffkit/pkg/version"
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

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")
	if !strings.Contains(out, version.String()) {
		t.Fatalf("output = %q, want %q", out, version.String())
	}
}

func TestListCommand(t *testing.T) {
	lookup := t.TempDir()
	pkg := filepath.Join(lookup, "generator-webapp")
	writeFile(t, filepath.Join(pkg, "package.json"), `{"name": "generator-webapp", "version": "1.0.0"}`)
	writeFile(t, filepath.Join(pkg, "generators", "app", "index.js"), "")
	writeFile(t, filepath.Join(pkg, "generators", "route", "index.js"), "")

	common := []string{
		"--state-dir", t.TempDir(),
		"--lookup-path", lookup,
		"--no-update-check",
	}

	out := execute(t, append([]string{"list", "--format", "json", "--all=false"}, common...)...)
	for _, want := range []string{`"name": "generator-webapp"`, `"prettyName": "Webapp"`, `"namespace": "webapp:app"`} {
		if !strings.Contains(out, want) {
			t.Errorf("json output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "webapp:route") {
		t.Errorf("sub-generator listed without --all:\n%s", out)
	}

	out = execute(t, "list", "--format", "table", "--all")
	for _, want := range []string{"NAMESPACE", "webapp:route", "Webapp"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %s:\n%s", want, out)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	state := t.TempDir()
	store, err := settings.Open(filepath.Join(state, settings.FileName), settings.DefaultValues())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"generator-webapp", "generator-node"} {
		if _, err := settings.IncrementRunCount(store, name); err != nil {
			t.Fatal(err)
		}
	}

	out := execute(t, "config", "show", "--state-dir", state)
	if !strings.Contains(out, "generator-webapp") {
		t.Fatalf("config show output missing stored generator:\n%s", out)
	}

	execute(t, "config", "clear", "generator-webapp", "--state-dir", state)
	reopened, err := settings.Open(filepath.Join(state, settings.FileName), settings.DefaultValues())
	if err != nil {
		t.Fatal(err)
	}
	counts := settings.RunCounts(reopened)
	if _, ok := counts["generator-webapp"]; ok || counts["generator-node"] != 1 {
		t.Fatalf("run counts after clear = %v", counts)
	}
}

func TestWatchCommand_InitialRebuildFailureReturns(t *testing.T) {
	lookup := t.TempDir()
	writeFile(t, filepath.Join(lookup, "generator-broken", "package.json"), `{"name": `)
	writeFile(t, filepath.Join(lookup, "generator-broken", "generators", "app", "index.js"), "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"watch", "--state-dir", t.TempDir(), "--lookup-path", lookup, "--no-update-check"})

	done := make(chan error, 1)
	go func() { done <- rootCmd.ExecuteContext(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, pkgmeta.ErrInvalidDescriptor) {
			t.Fatalf("watch error = %v, want %v", err, pkgmeta.ErrInvalidDescriptor)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after its first rebuild failed")
	}
}

// resetLookupPaths forgets --lookup-path values left by earlier commands.
func resetLookupPaths(t *testing.T) {
	t.Helper()
	f := rootCmd.PersistentFlags().Lookup("lookup-path")
	if err := f.Value.(interface{ Replace([]string) error }).Replace(nil); err != nil {
		t.Fatal(err)
	}
	f.Changed = false
}

func TestLoadConfig_DefaultLookupPathsFollowStateDir(t *testing.T) {
	resetLookupPaths(t)
	t.Cleanup(func() { resetLookupPaths(t) })

	for _, state := range []string{t.TempDir(), t.TempDir()} {
		if err := rootCmd.PersistentFlags().Set("state-dir", state); err != nil {
			t.Fatal(err)
		}
		cfg, err := loadConfig()
		if err != nil {
			t.Fatalf("loadConfig() error: %v", err)
		}
		want := []string{"node_modules", filepath.Join(state, "generators")}
		if strings.Join(cfg.LookupPaths, ",") != strings.Join(want, ",") {
			t.Errorf("LookupPaths = %v, want %v", cfg.LookupPaths, want)
		}
	}
}
