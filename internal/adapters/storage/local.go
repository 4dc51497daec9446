package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage stores objects as files below a public root directory
type LocalStorage struct {
	root string
}

// NewLocalStorage creates a local storage rooted at dir
func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{root: dir}
}

// Root returns the directory files are written to
func (l *LocalStorage) Root() string {
	return l.root
}

// EnsureBucket creates the root directory
func (l *LocalStorage) EnsureBucket(ctx context.Context) error {
	return os.MkdirAll(l.root, 0o755)
}

// Put writes r to key. An existing file is never overwritten, and a failed
// or cancelled write leaves no file behind.
func (l *LocalStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return err
	}
	if err := ctx.Err(); err != nil {
		os.Remove(target)
		return err
	}
	return nil
}

// Delete removes key; a missing file is not an error
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	target, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// URL returns the public path the file is served under
func (l *LocalStorage) URL(key string) string {
	return "/" + strings.TrimPrefix(path.Clean("/"+key), "/")
}

func (l *LocalStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", errors.New("empty object key")
	}
	return filepath.Join(l.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
