package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/flytam/filenamify"
	"github.com/google/uuid"
	"igfetch/pkg/errors"
)

// Manager writes downloaded media into the output directory
type Manager struct {
	outputDir string
}

// NewManager creates a new storage manager, creating outputDir if needed
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeFilesystem, err, "failed to create output directory")
	}

	return &Manager{outputDir: outputDir}, nil
}

// SafeFilename strips characters that are not valid in a file name. Media
// filenames are built from a remote shortcode, so they are never trusted as a
// path.
func SafeFilename(name string) (string, error) {
	safe, err := filenamify.Filenamify(name, filenamify.Options{})
	if err != nil {
		return "", errors.Wrap(errors.ErrorTypeFilesystem, err, fmt.Sprintf("invalid file name %q", name))
	}
	return safe, nil
}

// Path returns where filename would be saved
func (m *Manager) Path(filename string) (string, error) {
	safe, err := SafeFilename(filename)
	if err != nil {
		return "", err
	}
	return filepath.Join(m.outputDir, safe), nil
}

// Save writes r to filename in the output directory and returns the written
// path. An existing file is replaced.
func (m *Manager) Save(r io.Reader, filename string) (string, error) {
	path, err := m.Path(filename)
	if err != nil {
		return "", err
	}

	// Create temporary file next to the target so the rename stays on one
	// filesystem
	tempFile := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	out, err := os.Create(tempFile)
	if err != nil {
		return "", errors.Wrap(errors.ErrorTypeFilesystem, err, "failed to create temporary file")
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", errors.Wrap(errors.ErrorTypeFilesystem, err, "failed to write media data")
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return "", errors.Wrap(errors.ErrorTypeFilesystem, closeErr, "failed to close file")
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return "", errors.Wrap(errors.ErrorTypeFilesystem, err, "failed to rename temporary file")
	}

	return path, nil
}
