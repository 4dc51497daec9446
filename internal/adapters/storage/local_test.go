package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mess-feedback/internal/config"
)

func TestLocalStoragePutAndDelete(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStorage(root)
	ctx := context.Background()

	if err := store.EnsureBucket(ctx); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	key := UploadsPrefix + "/1700000000000-abcd1234-plate.jpg"
	if err := store.Put(ctx, key, strings.NewReader("jpeg"), 4, "image/jpeg"); err != nil {
		t.Fatalf("put: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "uploads", "1700000000000-abcd1234-plate.jpg"))
	if err != nil || string(data) != "jpeg" {
		t.Fatalf("file not written: %v %q", err, data)
	}
	if got := store.URL(key); got != "/uploads/1700000000000-abcd1234-plate.jpg" {
		t.Fatalf("unexpected url %s", got)
	}

	if err := store.Put(ctx, key, strings.NewReader("other"), 5, "image/jpeg"); err == nil {
		t.Fatal("expected existing file not to be overwritten")
	}
	if data, _ := os.ReadFile(filepath.Join(root, "uploads", "1700000000000-abcd1234-plate.jpg")); string(data) != "jpeg" {
		t.Fatalf("existing file changed to %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("deleting a missing file: %v", err)
	}
}

// cancelOnRead cancels its context while the body is being copied
type cancelOnRead struct {
	cancel context.CancelFunc
	body   io.Reader
}

func (r *cancelOnRead) Read(p []byte) (int, error) {
	r.cancel()
	return r.body.Read(p)
}

func TestLocalStorageCancelledPutLeavesNoFile(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStorage(root)
	target := filepath.Join(root, "uploads", "1700000000000-abcd1234-plate.jpg")
	key := UploadsPrefix + "/1700000000000-abcd1234-plate.jpg"

	done, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Put(done, key, strings.NewReader("jpeg"), 4, "image/jpeg"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("expected nothing written for a cancelled context")
	}

	ctx, cancel := context.WithCancel(context.Background())
	body := &cancelOnRead{cancel: cancel, body: strings.NewReader("jpeg")}
	if err := store.Put(ctx, key, body, 4, "image/jpeg"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatal("expected the partially stored file to be removed")
	}
}

func TestLocalStorageStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStorage(filepath.Join(root, "public"))
	ctx := context.Background()

	if err := store.Put(ctx, "../../escape.txt", strings.NewReader("x"), 1, "text/plain"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escape.txt")); !os.IsNotExist(err) {
		t.Fatal("file escaped the storage root")
	}
	if _, err := os.Stat(filepath.Join(root, "public", "escape.txt")); err != nil {
		t.Fatalf("expected file inside root: %v", err)
	}

	if err := store.Put(ctx, "/", strings.NewReader("x"), 1, "text/plain"); err == nil {
		t.Fatal("expected empty key to be rejected")
	}
}

func TestNewSelectsBackend(t *testing.T) {
	if _, err := New(configFor("ftp")); err == nil {
		t.Fatal("expected unknown backend to fail")
	}
	s, err := New(configFor(""))
	if err != nil {
		t.Fatalf("default backend: %v", err)
	}
	if _, ok := s.(*LocalStorage); !ok {
		t.Fatalf("expected local storage by default, got %T", s)
	}
}

func configFor(backend string) config.StorageConfig {
	return config.StorageConfig{Backend: backend, Root: "public"}
}
