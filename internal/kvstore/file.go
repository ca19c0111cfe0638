package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	dirPerm  = 0o755
	filePerm = 0o600
)

// FileStore keeps every key in its own file under a directory.
// Writes go to a temporary file first and are renamed into place, so a
// crash mid-write leaves the previous value intact.
type FileStore struct {
	fs  afero.Fs
	dir string
	log *slog.Logger
}

// NewFileStore creates the directory if needed and returns a FileStore rooted at it.
func NewFileStore(fsys afero.Fs, dir string, log *slog.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store directory is required")
	}

	if err := fsys.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return &FileStore{fs: fsys, dir: dir, log: log}, nil
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	path := f.path(key)
	f.log.DebugContext(ctx, "Reading value from file", "key", key, "path", path)

	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read value file: %w", err)
	}

	return data, nil
}

func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	path := f.path(key)
	f.log.DebugContext(ctx, "Writing value to file", "key", key, "path", path, "bytes", len(value))

	tmp, err := afero.TempFile(f.fs, f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err = f.fs.Chmod(tmpName, filePerm); err != nil {
		f.log.WarnContext(ctx, "Could not restrict value file permissions", "path", tmpName, "error", err)
	}

	if err = f.fs.Rename(tmpName, path); err != nil {
		_ = f.fs.Remove(tmpName)
		return fmt.Errorf("failed to move value file into place: %w", err)
	}

	return nil
}

// path maps a key to a file name; escaping keeps keys from leaving the directory.
func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}
