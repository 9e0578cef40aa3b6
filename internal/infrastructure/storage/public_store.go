package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// PublicStore writes deployed files under a directory that the HTTP server
// exposes as static assets. Anything placed under <base>/file/... becomes
// reachable at the matching /file/... path.
type PublicStore struct {
	basePath string
	log      zerolog.Logger
}

// NewPublicStore creates the store rooted at basePath, creating it if absent.
func NewPublicStore(basePath string, log zerolog.Logger) (*PublicStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, fmt.Errorf("public storage path is empty")
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create public storage directory: %w", err)
	}

	logger := log.With().Str("component", "public-store").Logger()
	logger.Info().Str("path", basePath).Msg("public storage initialized")

	return &PublicStore{basePath: basePath, log: logger}, nil
}

// Root returns the directory the HTTP layer should serve statically.
func (s *PublicStore) Root() string {
	return s.basePath
}

// WriteFile stores data at the given slash-separated relative key, creating
// intermediate directories as needed. Keys that resolve outside the storage
// root are refused.
func (s *PublicStore) WriteFile(ctx context.Context, key string, data []byte) error {
	clean := path.Clean(key)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("storage key escapes the public root: %q", key)
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(clean))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	s.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("file written to public storage")
	return nil
}

// Exists reports whether the key is present.
func (s *PublicStore) Exists(key string) bool {
	_, err := os.Stat(filepath.Join(s.basePath, filepath.FromSlash(key)))
	return err == nil
}

// AbsPath resolves a key to its absolute filesystem path.
func (s *PublicStore) AbsPath(key string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(key))
}

// PruneOlderThan deletes stored files whose modification time is older than
// the given age and returns how many were removed. Deployed links are
// short-lived; the retention janitor calls this on a schedule.
func (s *PublicStore) PruneOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	removed := 0

	err := filepath.Walk(filepath.Join(s.basePath, "file"), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if info.IsDir() || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("failed to remove expired file")
			return nil
		}
		removed++
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return removed, err
	}
	return removed, nil
}

// Health checks that the storage directory is writable.
func (s *PublicStore) Health(ctx context.Context) error {
	testFile := filepath.Join(s.basePath, ".health_check")
	if err := os.WriteFile(testFile, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("storage directory not writable: %w", err)
	}
	_ = os.Remove(testFile)
	return nil
}
