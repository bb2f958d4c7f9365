// Package store gives the tooling a narrow view of the filesystem: read a
// location, overwrite it, check that it exists. Production code runs on the OS
// filesystem; tests run on an in-memory one.
package store

import (
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ballotbox/votekit/pkg/constants"
	"github.com/ballotbox/votekit/pkg/errors"
)

// Store reads and writes named locations.
type Store struct {
	fs afero.Fs
}

// New returns a Store backed by fs. A nil fs means the OS filesystem.
func New(fs afero.Fs) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{fs: fs}
}

// NewOS returns a Store on the OS filesystem.
func NewOS() *Store {
	return New(afero.NewOsFs())
}

// NewMemory returns a Store on an empty in-memory filesystem.
func NewMemory() *Store {
	return New(afero.NewMemMapFs())
}

// Fs exposes the underlying filesystem.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Read returns the contents of location. A missing or unreadable location
// is reported as a NotFoundError naming resource.
func (s *Store) Read(resource, location string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, location)
	if err != nil {
		return nil, errors.NewNotFoundError(resource, location, err)
	}
	return data, nil
}

// Exists reports whether location exists as a regular file.
func (s *Store) Exists(location string) bool {
	info, err := s.fs.Stat(location)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Write replaces the contents of location, creating parent directories.
// Every failure is a WriteError.
func (s *Store) Write(location string, data []byte) error {
	if dir := filepath.Dir(location); dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.NewWriteError(location, err)
		}
	}
	if err := afero.WriteFile(s.fs, location, data, fs.FileMode(constants.FilePermissions)); err != nil {
		return errors.NewWriteError(location, err)
	}
	return nil
}
