package source

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// LocalFile reads identifiers from a document on disk.
type LocalFile struct {
	Path string
}

func NewLocalFile(path string) *LocalFile {
	return &LocalFile{Path: path}
}

func (l *LocalFile) String() string { return "local file " + l.Path }

func (l *LocalFile) FetchIdentifiers(ctx context.Context) ([]string, error) {
	if l.Path == "" {
		return nil, ErrSourceUnavailable
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSourceUnavailable
		}
		return nil, fmt.Errorf("read %s: %w", l.Path, err)
	}
	ids, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.Path, err)
	}
	return ids, nil
}
