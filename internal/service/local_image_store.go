package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/storelane/catalog_api/internal/config"
)

// LocalImageStore moves uploaded images into a publicly served directory.
// It is the fallback when no remote image host credentials are configured.
type LocalImageStore struct {
	dir        string
	publicPath string
}

// NewLocalImageStore creates the store and ensures the uploads directory
// exists.
func NewLocalImageStore(cfg *config.UploadConfig) (*LocalImageStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalImageStore{dir: cfg.Dir, publicPath: cfg.PublicPath}, nil
}

// Store moves the temporary file into the uploads directory under a
// timestamp-derived name and returns the public URL path.
func (s *LocalImageStore) Store(ctx context.Context, tempPath string) (string, error) {
	ext := filepath.Ext(tempPath)
	fileName := fmt.Sprintf("image-%d%s", time.Now().UnixMilli(), ext)
	destPath := filepath.Join(s.dir, fileName)

	if err := moveFile(tempPath, destPath); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	log.Debug().Str("file", fileName).Msg("image stored locally")
	return path.Join(s.publicPath, fileName), nil
}

// moveFile renames src to dst, falling back to copy+delete when the rename
// crosses filesystem boundaries (EXDEV).
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	_ = os.Remove(src)
	return nil
}
