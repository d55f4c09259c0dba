package discovery

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("// entry\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func namespaces(meta map[string]Meta) []string {
	out := make([]string, 0, len(meta))
	for ns := range meta {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

func TestLookup_DerivesNamespaces(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "generator-webapp", "generators", "app", "index.js"))
	touch(t, filepath.Join(root, "generator-webapp", "generators", "helper", "index.js"))
	touch(t, filepath.Join(root, "generator-legacy", "all", "index.js"))
	touch(t, filepath.Join(root, "@acme", "generator-api", "generators", "app", "index.ts"))
	touch(t, filepath.Join(root, "not-a-generator", "app", "index.js"))
	touch(t, filepath.Join(root, "generator-empty", "generators", "app", "README.md"))

	env := NewFSEnvironment([]string{root, filepath.Join(root, "missing")})
	if err := env.Lookup(context.Background()); err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}

	got := namespaces(env.GeneratorsMeta())
	want := []string{"@acme/api:app", "legacy:all", "webapp:app", "webapp:helper"}
	if len(got) != len(want) {
		t.Fatalf("namespaces = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("namespaces = %v, want %v", got, want)
		}
	}

	m := env.GeneratorsMeta()["webapp:app"]
	wantResolved := filepath.Join(root, "generator-webapp", "generators", "app", "index.js")
	if m.Resolved != wantResolved {
		t.Errorf("Resolved = %q, want %q", m.Resolved, wantResolved)
	}
	if m.PackagePath != filepath.Join(root, "generator-webapp") {
		t.Errorf("PackagePath = %q", m.PackagePath)
	}
}

func TestLookup_EarlierPathShadowsLater(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	touch(t, filepath.Join(first, "generator-webapp", "app", "index.js"))
	touch(t, filepath.Join(second, "generator-webapp", "app", "index.js"))

	env := NewFSEnvironment([]string{first, second})
	if err := env.Lookup(context.Background()); err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}

	m := env.GeneratorsMeta()["webapp:app"]
	if filepath.Dir(filepath.Dir(m.Resolved)) != filepath.Join(first, "generator-webapp") {
		t.Errorf("Resolved = %q, want entry under first lookup path", m.Resolved)
	}
}

func TestLookup_ReplacesPreviousSnapshot(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "generator-webapp", "app", "index.js"))

	env := NewFSEnvironment([]string{root})
	if err := env.Lookup(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(filepath.Join(root, "generator-webapp")); err != nil {
		t.Fatal(err)
	}
	if err := env.Lookup(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := env.GeneratorsMeta(); len(got) != 0 {
		t.Fatalf("GeneratorsMeta() = %v, want empty", got)
	}
}

func TestLookup_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := NewFSEnvironment([]string{t.TempDir()})
	if err := env.Lookup(ctx); err == nil {
		t.Fatal("Lookup() with cancelled context returned nil error")
	}
}

func TestNamespaceOf(t *testing.T) {
	tests := []struct {
		dir    string
		want   string
		wantOK bool
	}{
		{"generator-webapp", "webapp", true},
		{"generator-", "", false},
		{"webapp", "", false},
	}
	for _, tt := range tests {
		got, ok := NamespaceOf(tt.dir)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NamespaceOf(%q) = %q, %v; want %q, %v", tt.dir, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestWatcher_NotifiesOnNewPackage(t *testing.T) {
	root := t.TempDir()

	w, err := NewWatcher(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	if err := w.Sync([]string{root, filepath.Join(root, "missing")}); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	w.Start()
	defer w.Stop()

	touch(t, filepath.Join(root, "generator-new", "app", "index.js"))

	select {
	case <-w.Changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification within 5s")
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewWatcher(0)
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() without Start did not return")
	}
	if _, ok := <-w.Changes; ok {
		t.Fatal("Changes still open after Stop()")
	}
}

func TestWatcher_NotifiesWhenMissingPathAppears(t *testing.T) {
	root := t.TempDir()
	lookup := filepath.Join(root, "node_modules")

	w, err := NewWatcher(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	if err := w.Sync([]string{lookup}); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	w.Start()
	defer w.Stop()

	if err := os.Mkdir(lookup, 0o755); err != nil {
		t.Fatal(err)
	}
	select {
	case <-w.Changes:
	case <-time.After(5 * time.Second):
		t.Fatal("creating a missing lookup path was not reported")
	}

	if err := w.Sync([]string{lookup}); err != nil {
		t.Fatalf("Sync() after creation error: %v", err)
	}
	touch(t, filepath.Join(lookup, "generator-new", "app", "index.js"))
	select {
	case <-w.Changes:
	case <-time.After(5 * time.Second):
		t.Fatal("new package under the created lookup path was not reported")
	}
}

func TestWatchTarget(t *testing.T) {
	root := t.TempDir()
	got, err := watchTarget(filepath.Join(root, "a", "b"))
	if err != nil {
		t.Fatalf("watchTarget() error: %v", err)
	}
	if want, _ := filepath.Abs(root); got != want {
		t.Errorf("watchTarget() = %q, want %q", got, want)
	}
}
