package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage handles the output directory for downloaded documents
type Storage struct {
	baseDir string
}

// New creates a new Storage instance rooted at baseDir
func New(baseDir string) (*Storage, error) {
	if baseDir == "" {
		baseDir = "."
	}

	// Expand ~ to home directory
	if strings.HasPrefix(baseDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		baseDir = filepath.Join(home, baseDir[2:])
	}

	// Create base directory if it doesn't exist
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Storage{
		baseDir: baseDir,
	}, nil
}

// BaseDir returns the resolved output directory
func (s *Storage) BaseDir() string {
	return s.baseDir
}

// EnsureDir creates the directory for a form if it doesn't exist yet.
// Calling it for an existing directory is not an error.
func (s *Storage) EnsureDir(formSlug string) (string, error) {
	if err := checkName(formSlug); err != nil {
		return "", fmt.Errorf("invalid form slug: %w", err)
	}

	dir := filepath.Join(s.baseDir, formSlug)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating form directory: %w", err)
	}
	return dir, nil
}

// Path returns the location a file would be written to
func (s *Storage) Path(formSlug, filename string) string {
	return filepath.Join(s.baseDir, formSlug, filename)
}

// Save writes the content of r to <base>/<formSlug>/<filename>, replacing any
// existing file. The content goes to a temporary file renamed into place once
// fully written, so a failed copy leaves no partial file behind. It returns the
// written path and the number of bytes copied.
func (s *Storage) Save(formSlug, filename string, r io.Reader) (string, int64, error) {
	if err := checkName(filename); err != nil {
		return "", 0, fmt.Errorf("invalid file name: %w", err)
	}
	dir, err := s.EnsureDir(formSlug)
	if err != nil {
		return "", 0, err
	}

	tmp, err := os.CreateTemp(dir, "."+filename+".*.part")
	if err != nil {
		return "", 0, fmt.Errorf("creating file: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()        // nolint:errcheck
		os.Remove(tmpPath) // nolint:errcheck
		return "", n, fmt.Errorf("writing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath) // nolint:errcheck
		return "", n, fmt.Errorf("closing file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath) // nolint:errcheck
		return "", n, fmt.Errorf("setting file mode: %w", err)
	}

	path := s.Path(formSlug, filename)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath) // nolint:errcheck
		return "", n, fmt.Errorf("moving file into place: %w", err)
	}

	return path, n, nil
}

// checkName rejects names that would escape their parent directory
func checkName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%q is not a usable name", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q contains a path separator", name)
	}
	return nil
}
