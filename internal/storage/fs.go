package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MaxSubmissionBytes bounds how much of a submission is read.
const MaxSubmissionBytes = 4 << 20

type FSStore struct{ base string }

func NewFSStore(base string) *FSStore {
	if base == "" {
		base = "."
	}
	return &FSStore{base: base}
}

func (s *FSStore) Get(key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, errors.New("empty key")
	}
	return os.Open(s.path(key))
}

// ReadText reads the artifact at key as text.
func (s *FSStore) ReadText(key string) (string, error) {
	rc, err := s.Get(key)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, MaxSubmissionBytes+1))
	if err != nil {
		return "", err
	}
	if len(b) > MaxSubmissionBytes {
		return "", fmt.Errorf("%s: larger than %d bytes", key, MaxSubmissionBytes)
	}
	return string(b), nil
}

func (s *FSStore) path(key string) string {
	if filepath.IsAbs(key) {
		return filepath.Clean(key)
	}
	return filepath.Join(s.base, filepath.Clean(key))
}
