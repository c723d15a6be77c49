// Package storage persists generated export files on the local filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ilcdb/record-management/internal/application/port"
)

// LocalFileStorage writes files under a managed base directory, refusing
// paths that escape it.
type LocalFileStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalFileStorage creates a LocalFileStorage rooted at baseDir.
func NewLocalFileStorage(baseDir string, logger *zap.Logger) *LocalFileStorage {
	return &LocalFileStorage{baseDir: baseDir, logger: logger}
}

// Save writes content at relPath under the base directory, creating parent
// directories as needed, and returns the full path.
func (s *LocalFileStorage) Save(relPath string, content []byte) (string, error) {
	fullPath, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write file", zap.String("path", fullPath), zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("File saved", zap.String("path", fullPath), zap.Int("bytes", len(content)))
	return fullPath, nil
}

// resolve joins relPath onto the base directory and rejects traversal.
func (s *LocalFileStorage) resolve(relPath string) (string, error) {
	cleaned := filepath.Clean(relPath)
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("path escapes storage directory: %s", relPath)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

// Verify interface compliance
var _ port.FileStorage = (*LocalFileStorage)(nil)
