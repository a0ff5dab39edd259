package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// Memory is an in-memory Store. Ids are assigned sequentially.
type Memory struct {
	mu     sync.RWMutex
	nextID int
	models map[ID]memoryModel
	order  []ID
}

type memoryModel struct {
	meta Metadata
	data []byte
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{models: make(map[ID]memoryModel)}
}

// Put stores data under a new id. The format is taken from the extension of
// fileName and must be stl or obj; name defaults to fileName when empty.
func (m *Memory) Put(fileName, name string, data []byte) (Metadata, error) {
	format, err := formatOf(fileName)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: %q", err, fileName)
	}
	if name == "" {
		name = fileName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	meta := Metadata{ID: ID(strconv.Itoa(m.nextID)), Name: name, Format: format}
	m.models[meta.ID] = memoryModel{meta: meta, data: append([]byte(nil), data...)}
	m.order = append(m.order, meta.ID)
	return meta, nil
}

// PutRaw stores data with explicit metadata, bypassing format validation.
// The id in meta is replaced by a new one.
func (m *Memory) PutRaw(meta Metadata, data []byte) Metadata {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	meta.ID = ID(strconv.Itoa(m.nextID))
	m.models[meta.ID] = memoryModel{meta: meta, data: append([]byte(nil), data...)}
	m.order = append(m.order, meta.ID)
	return meta
}

// Delete removes a model. Deleting an unknown id is a no-op.
func (m *Memory) Delete(id ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.models[id]; !ok {
		return
	}
	delete(m.models, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Memory) Metadata(ctx context.Context, id ID) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	model, ok := m.models[id]
	if !ok {
		return Metadata{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return model.meta, nil
}

func (m *Memory) Bytes(ctx context.Context, id ID) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	model, ok := m.models[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return append([]byte(nil), model.data...), nil
}

// List returns all models in insertion order.
func (m *Memory) List(ctx context.Context) ([]Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]Metadata, 0, len(m.order))
	for _, id := range m.order {
		list = append(list, m.models[id].meta)
	}
	return list, nil
}
