package store

import (
	"context"
	"strings"
)

// LocalPrefix marks ids that name a local file rather than a remote model.
const LocalPrefix = "file:"

// LocalID returns the id of a local file for use with WithLocal.
func LocalID(path string) ID {
	return ID(LocalPrefix + path)
}

// WithLocal routes ids carrying LocalPrefix to the local file system and
// everything else to remote. It lets dropped or opened files load while the
// viewer browses a remote catalog.
func WithLocal(remote Store) Store {
	return &local{remote: remote, files: NewFiles()}
}

type local struct {
	remote Store
	files  *Files
}

func (l *local) route(id ID) (Store, ID) {
	if path, ok := strings.CutPrefix(string(id), LocalPrefix); ok {
		return l.files, ID(path)
	}
	return l.remote, id
}

func (l *local) Metadata(ctx context.Context, id ID) (Metadata, error) {
	s, rid := l.route(id)
	meta, err := s.Metadata(ctx, rid)
	if err != nil {
		return meta, err
	}
	meta.ID = id
	return meta, nil
}

func (l *local) Bytes(ctx context.Context, id ID) ([]byte, error) {
	s, rid := l.route(id)
	return s.Bytes(ctx, rid)
}

// List lists the remote models when the remote store can enumerate them.
func (l *local) List(ctx context.Context) ([]Metadata, error) {
	if lister, ok := l.remote.(Lister); ok {
		return lister.List(ctx)
	}
	return nil, nil
}
