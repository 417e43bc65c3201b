package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestStagedName(t *testing.T) {
	tests := []struct {
		original string
		ext      string
	}{
		{"leaf.JPG", ".jpg"},
		{"photo.png", ".png"},
		{"../../etc/passwd.png", ".png"},
		{"no-extension", ""},
		{"weird.ex$t", ""},
		{"", ""},
	}

	for _, tt := range tests {
		name := stagedName(tt.original)
		if !strings.HasSuffix(name, tt.ext) {
			t.Errorf("stagedName(%q) = %q, expected extension %q", tt.original, name, tt.ext)
		}
		if strings.ContainsAny(name, `/\`) {
			t.Errorf("stagedName(%q) = %q contains a path separator", tt.original, name)
		}
		if len(strings.TrimSuffix(name, tt.ext)) != 36 {
			t.Errorf("stagedName(%q) = %q, expected a UUID base name", tt.original, name)
		}
	}
}

func TestLocalStorage_StageOpenRelease(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if store.Backend() != "local" {
		t.Errorf("Expected local backend, got %s", store.Backend())
	}

	ctx := context.Background()
	staged, err := store.Stage(ctx, "leaf.png", []byte("image-bytes"))
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}

	rc, err := staged.Open(ctx)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "image-bytes" {
		t.Errorf("Expected staged content, got %q", data)
	}

	if err := staged.Release(ctx); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := staged.Release(ctx); err != nil {
		t.Errorf("Second release should be a no-op, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected empty staging dir, found %d entries", len(entries))
	}
}

func TestLocalStorage_ReleaseWithCancelledContext(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewLocalStorage(dir)

	staged, err := store.Stage(context.Background(), "a.jpg", []byte("x"))
	if err != nil {
		t.Fatalf("Stage failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := staged.Release(ctx); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, staged.Name())); !os.IsNotExist(err) {
		t.Error("Expected staged file to be removed")
	}
}

func TestLocalStorage_ConcurrentUniqueNames(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewLocalStorage(dir)

	const n = 50
	names := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			staged, err := store.Stage(context.Background(), "same-name.png", []byte("x"))
			if err != nil {
				t.Errorf("Stage failed: %v", err)
				return
			}
			names <- staged.Name()
		}()
	}
	wg.Wait()
	close(names)

	seen := make(map[string]bool)
	for name := range names {
		if seen[name] {
			t.Errorf("Duplicate staged name %s", name)
		}
		seen[name] = true
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != n {
		t.Errorf("Expected %d staged files, got %d", n, len(entries))
	}
}

func TestLocalStorage_StageCancelled(t *testing.T) {
	store, _ := NewLocalStorage(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Stage(ctx, "a.png", []byte("x")); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
