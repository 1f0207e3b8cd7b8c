package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Saver is the persistence boundary for encoded cells. dest is a directory for
// the local saver and a container for the blob store.
type Saver interface {
	Prepare(ctx context.Context, dest string) error
	Put(ctx context.Context, dest, name string, data []byte, contentType string) (string, error)
}

// LocalSaver writes cells below a directory on disk
type LocalSaver struct {
	perm os.FileMode
}

// NewLocalSaver creates a saver writing files with mode 0644
func NewLocalSaver() *LocalSaver {
	return &LocalSaver{perm: 0o644}
}

// Prepare creates dir and its parents
func (s *LocalSaver) Prepare(_ context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Put writes data to dir/name and returns the file path
func (s *LocalSaver) Put(ctx context.Context, dir, name string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, s.perm); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", p, err)
	}
	return p, nil
}
