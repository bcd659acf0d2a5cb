// Package storage provides blob storage for uploaded contract files.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var whitespaceRx = regexp.MustCompile(`\s+`)

// BlobStore stores binary content and returns an opaque locator
type BlobStore interface {
	Store(ctx context.Context, content []byte, suggestedName string) (string, error)
	Open(ctx context.Context, locator string) ([]byte, error)
}

// LocalStore keeps blobs on the local filesystem under a base directory.
// Locators look like "/uploads/1714412345678-Contract_2025.pdf".
type LocalStore struct {
	baseDir   string
	urlPrefix string
}

// NewLocalStore creates a local blob store rooted at baseDir
func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{
		baseDir:   baseDir,
		urlPrefix: "/uploads",
	}
}

// BuildLocator constructs a collision-resistant locator from a timestamp
// and the sanitized file name
func BuildLocator(prefix, name string, at time.Time) string {
	sanitized := whitespaceRx.ReplaceAllString(filepath.Base(name), "_")
	return fmt.Sprintf("%s/%d-%s", prefix, at.UnixMilli(), sanitized)
}

// Store writes content to disk and returns its locator. The base directory
// is created on demand.
func (s *LocalStore) Store(ctx context.Context, content []byte, suggestedName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	locator := BuildLocator(s.urlPrefix, suggestedName, time.Now())
	path := s.pathFor(locator)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}

	return locator, nil
}

// Open reads back the content behind a locator
func (s *LocalStore) Open(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(locator, s.urlPrefix+"/") {
		return nil, fmt.Errorf("unknown locator: %s", locator)
	}

	return os.ReadFile(s.pathFor(locator))
}

func (s *LocalStore) pathFor(locator string) string {
	// filepath.Base guards against path traversal in locators
	return filepath.Join(s.baseDir, filepath.Base(locator))
}
