package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemory_Put(t *testing.T) {
	m := NewMemory()

	tests := []struct {
		file     string
		name     string
		wantName string
		wantFmt  string
		wantErr  bool
	}{
		{"bracket.stl", "", "bracket.stl", "stl", false},
		{"Bracket.STL", "Bracket", "Bracket", "stl", false},
		{"chair.obj", "Chair", "Chair", "obj", false},
		{"scene.gltf", "", "", "", true},
		{"noext", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			meta, err := m.Put(tt.file, tt.name, []byte("data"))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFormat) {
					t.Errorf("Put(%q) error = %v, want ErrInvalidFormat", tt.file, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Put(%q) failed: %v", tt.file, err)
			}
			if meta.Name != tt.wantName || meta.Format != tt.wantFmt {
				t.Errorf("Put(%q) = %+v, want name %q format %q", tt.file, meta, tt.wantName, tt.wantFmt)
			}
		})
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	data := []byte("solid x\nendsolid x\n")
	meta, err := m.Put("x.stl", "", data)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := m.Metadata(ctx, meta.ID)
	if err != nil || got != meta {
		t.Fatalf("Metadata = %+v, %v; want %+v", got, err, meta)
	}

	b, err := m.Bytes(ctx, meta.ID)
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if string(b) != string(data) {
		t.Errorf("Bytes = %q, want %q", b, data)
	}

	// Stored data is a copy.
	data[0] = 'X'
	b[1] = 'X'
	again, _ := m.Bytes(ctx, meta.ID)
	if again[0] != 's' || again[1] != 'o' {
		t.Errorf("store shares buffers with callers: %q", again)
	}
}

func TestMemory_NotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Metadata(ctx, "7"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Metadata error = %v, want ErrNotFound", err)
	}
	if _, err := m.Bytes(ctx, "7"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Bytes error = %v, want ErrNotFound", err)
	}

	meta, _ := m.Put("a.obj", "", nil)
	m.Delete(meta.ID)
	if _, err := m.Metadata(ctx, meta.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Metadata after Delete error = %v, want ErrNotFound", err)
	}
}

func TestMemory_ListOrderAndRaw(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	a, _ := m.Put("a.stl", "", nil)
	raw := m.PutRaw(Metadata{Name: "legacy", Format: "PLY"}, nil)
	c, _ := m.Put("c.obj", "", nil)

	list, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []ID{a.ID, raw.ID, c.ID}
	if len(list) != len(want) {
		t.Fatalf("List returned %d models, want %d", len(list), len(want))
	}
	for i, meta := range list {
		if meta.ID != want[i] {
			t.Errorf("List[%d] = %s, want %s", i, meta.ID, want[i])
		}
	}
	if list[1].Format != "PLY" {
		t.Errorf("raw format = %q, want PLY", list[1].Format)
	}
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemory()
	meta, _ := m.Put("a.stl", "", nil)
	if _, err := m.Bytes(ctx, meta.ID); !errors.Is(err, context.Canceled) {
		t.Errorf("Bytes error = %v, want context.Canceled", err)
	}
}
