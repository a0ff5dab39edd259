package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWithLocal_Routes(t *testing.T) {
	ctx := context.Background()
	remote := NewMemory()
	rm, err := remote.Put("remote.obj", "", []byte("remote"))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "part.stl")
	if err := os.WriteFile(path, []byte("local"), 0644); err != nil {
		t.Fatal(err)
	}

	s := WithLocal(remote)

	meta, err := s.Metadata(ctx, LocalID(path))
	if err != nil {
		t.Fatalf("local Metadata failed: %v", err)
	}
	if meta.ID != LocalID(path) || meta.Format != "stl" {
		t.Errorf("local metadata = %+v", meta)
	}
	data, err := s.Bytes(ctx, LocalID(path))
	if err != nil || string(data) != "local" {
		t.Errorf("local Bytes = %q, %v", data, err)
	}

	data, err = s.Bytes(ctx, rm.ID)
	if err != nil || string(data) != "remote" {
		t.Errorf("remote Bytes = %q, %v", data, err)
	}

	if _, err := s.Metadata(ctx, LocalID(filepath.Join(t.TempDir(), "missing.stl"))); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing local file error = %v, want ErrNotFound", err)
	}
}

func TestWithLocal_ListsRemote(t *testing.T) {
	remote := NewMemory()
	remote.Put("a.stl", "", nil)

	list, err := WithLocal(remote).(Lister).List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("got %d models, want 1", len(list))
	}
}
