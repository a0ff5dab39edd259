// Package store provides sources of model files for the viewport.
package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/Faultbox/modelview/pkg/formats"
)

var (
	// ErrNotFound is returned when a model id does not exist.
	ErrNotFound = errors.New("model not found")
	// ErrTransfer is returned when model bytes could not be retrieved intact.
	ErrTransfer = errors.New("transfer failed")
	// ErrInvalidFormat is returned when a file name has no supported extension.
	ErrInvalidFormat = errors.New("invalid file format")
)

// ID identifies a model within a Store.
type ID string

// Metadata describes a stored model. Format is the declared file format as
// stored; consumers match it case-insensitively.
type Metadata struct {
	ID     ID
	Name   string
	Format string
}

// Store resolves model ids to metadata and raw bytes.
type Store interface {
	Metadata(ctx context.Context, id ID) (Metadata, error)
	Bytes(ctx context.Context, id ID) ([]byte, error)
}

// Lister is implemented by stores that can enumerate their models.
type Lister interface {
	List(ctx context.Context) ([]Metadata, error)
}

// formatOf returns the lower-cased extension of name when it names a
// supported format.
func formatOf(name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if _, err := formats.ParseFormat(ext); err != nil {
		return "", ErrInvalidFormat
	}
	return ext, nil
}
