package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Files is a Store over the local filesystem. Ids are file paths.
type Files struct {
	// Paths are the files and directories List enumerates.
	Paths []string
}

// NewFiles creates a Files store listing the given files and directories.
func NewFiles(paths ...string) *Files {
	return &Files{Paths: paths}
}

func (f *Files) Metadata(ctx context.Context, id ID) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	info, err := os.Stat(string(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Metadata{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Metadata{}, fmt.Errorf("%w: %w", ErrTransfer, err)
	}
	if info.IsDir() {
		return Metadata{}, fmt.Errorf("%w: %s is a directory", ErrNotFound, id)
	}

	name := filepath.Base(string(id))
	return Metadata{
		ID:     id,
		Name:   strings.TrimSuffix(name, filepath.Ext(name)),
		Format: strings.TrimPrefix(filepath.Ext(name), "."),
	}, nil
}

func (f *Files) Bytes(ctx context.Context, id ID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(string(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %w", ErrTransfer, err)
	}
	return data, nil
}

// List returns metadata for every configured file and every supported model
// file under the configured directories, sorted by path.
func (f *Files) List(ctx context.Context) ([]Metadata, error) {
	var ids []ID
	for _, p := range f.Paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			ids = append(ids, ID(p))
			continue
		}
		found, err := Scan(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, found...)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	list := make([]Metadata, 0, len(ids))
	for i, id := range ids {
		if i > 0 && ids[i-1] == id {
			continue
		}
		meta, err := f.Metadata(ctx, id)
		if err != nil {
			return nil, err
		}
		list = append(list, meta)
	}
	return list, nil
}

// Scan walks dir and returns the paths of supported model files, sorted.
func Scan(dir string) ([]ID, error) {
	var ids []ID
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, err := formatOf(path); err == nil {
			ids = append(ids, ID(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
