package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestNew_NonPositiveDebounce_AppliesDefault(t *testing.T) {
	w, err := New(t.TempDir(), 0, func(context.Context) {})
	require.NoError(t, err)
	defer w.Close()

	require.Equal(t, 500*time.Millisecond, w.debounce)
}

func TestRelevant_FiltersEvents(t *testing.T) {
	w, err := New(t.TempDir(), time.Millisecond, func(context.Context) {})
	require.NoError(t, err)
	defer w.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"markdown write", fsnotify.Event{Name: "docs/intro.md", Op: fsnotify.Write}, true},
		{"directory create", fsnotify.Event{Name: "docs/newsection", Op: fsnotify.Create}, true},
		{"chmod ignored", fsnotify.Event{Name: "docs/intro.md", Op: fsnotify.Chmod}, false},
		{"dotfile ignored", fsnotify.Event{Name: "docs/.intro.md.swp", Op: fsnotify.Write}, false},
		{"other extension ignored", fsnotify.Event{Name: "docs/logo.png", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestStart_MarkdownChange_TriggersDebouncedRebuild(t *testing.T) {
	root := t.TempDir()
	rebuilds := make(chan struct{}, 8)

	w, err := New(root, 50*time.Millisecond, func(context.Context) {
		rebuilds <- struct{}{}
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Give the watcher time to register the root directory.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "intro.md"), []byte("# Intro\n"), 0o644))

	select {
	case <-rebuilds:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a rebuild after a markdown change")
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}
