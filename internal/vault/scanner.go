package vault

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Scanner walks directories and finds markdown files
type Scanner struct {
	ignorePatterns   []string
	continueOnErrors bool
	parseErrors      []ParseError
}

// ParseError represents a file parsing error
type ParseError struct {
	Path  string
	Error error
}

// ScannerOption configures a Scanner
type ScannerOption func(*Scanner)

// WithIgnorePatterns sets ignore patterns for the scanner
func WithIgnorePatterns(patterns []string) ScannerOption {
	return func(s *Scanner) {
		s.ignorePatterns = patterns
	}
}

// WithContinueOnErrors configures the scanner to continue on parsing errors
func WithContinueOnErrors() ScannerOption {
	return func(s *Scanner) {
		s.continueOnErrors = true
	}
}

// NewScanner creates a new scanner with optional configuration
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		ignorePatterns: []string{},
		parseErrors:    []ParseError{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ParseErrors returns the parsing errors skipped during the last walk
func (s *Scanner) ParseErrors() []ParseError {
	return s.parseErrors
}

// Walk scans a directory tree and returns all markdown files. The walk stops
// early when ctx is cancelled.
func (s *Scanner) Walk(ctx context.Context, root string) ([]*File, error) {
	var files []*File
	s.parseErrors = []ParseError{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if relPath != "." && s.Ignored(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		f, err := LoadFile(path, relPath)
		if err != nil {
			if s.continueOnErrors {
				s.parseErrors = append(s.parseErrors, ParseError{
					Path:  relPath,
					Error: err,
				})
				return nil
			}
			return fmt.Errorf("loading %s: %w", path, err)
		}

		files = append(files, f)
		return nil
	})

	return files, err
}

// Ignored reports whether a vault-relative path matches an ignore pattern
func (s *Scanner) Ignored(path string) bool {
	path = filepath.ToSlash(path)
	for _, pattern := range s.ignorePatterns {
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}

		// "dir/*" also ignores everything below dir
		if strings.HasSuffix(pattern, "/*") {
			prefix := strings.TrimSuffix(pattern, "/*")
			if strings.HasPrefix(path, prefix+"/") || path == prefix {
				return true
			}
		}
	}
	return false
}
