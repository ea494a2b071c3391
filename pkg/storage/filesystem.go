package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReportStore keeps rendered report files on local disk under one base
// directory. Paths handed to it are relative; anything that would escape the
// base directory is rejected.
type ReportStore struct {
	baseDir string
}

// NewReportStore ensures the base directory exists and returns a handle.
func NewReportStore(baseDir string) (*ReportStore, error) {
	if baseDir == "" {
		baseDir = "./data/reports"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	return &ReportStore{baseDir: baseDir}, nil
}

// Save writes data under the relative path and returns the cleaned path.
func (s *ReportStore) Save(relPath string, data []byte) (string, error) {
	path, clean, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report file: %w", err)
	}
	return clean, nil
}

// SaveStream copies reader content into the target file.
func (s *ReportStore) SaveStream(relPath string, r io.Reader) (string, error) {
	path, clean, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare report directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write report stream: %w", err)
	}
	return clean, nil
}

// Open returns a read-only handle for a stored report file.
func (s *ReportStore) Open(relPath string) (*os.File, error) {
	path, _, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report file: %w", err)
	}
	return file, nil
}

// Delete removes a stored report file if present.
func (s *ReportStore) Delete(relPath string) error {
	path, _, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete report file: %w", err)
	}
	return nil
}

// CleanupOlderThan removes report files older than the TTL and returns the
// deleted relative paths.
func (s *ReportStore) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	deleted := make([]string, 0)
	err := filepath.WalkDir(s.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			rel = path
		}
		deleted = append(deleted, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cleanup reports: %w", err)
	}
	return deleted, nil
}

func (s *ReportStore) resolve(relPath string) (abs, clean string, err error) {
	if relPath == "" || filepath.IsAbs(relPath) {
		return "", "", fmt.Errorf("invalid report path %q", relPath)
	}
	clean = filepath.ToSlash(filepath.Clean(relPath))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", "", fmt.Errorf("invalid report path %q", relPath)
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), clean, nil
}
