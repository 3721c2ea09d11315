package emulator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	ports "model-platform-sdk/internal/core/ports/output"
)

type memoryStore struct {
	mu    sync.RWMutex
	kinds map[string]*memoryKind
}

type memoryKind struct {
	order []string
	docs  map[string][]byte
}

var _ ports.RecordStore = (*memoryStore)(nil)

// NewMemoryStore returns a RecordStore that keeps JSON documents in process memory.
func NewMemoryStore() ports.RecordStore {
	return &memoryStore{kinds: make(map[string]*memoryKind)}
}

func (s *memoryStore) kind(name string) *memoryKind {
	k, ok := s.kinds[name]
	if !ok {
		k = &memoryKind{docs: make(map[string][]byte)}
		s.kinds[name] = k
	}
	return k
}

func (s *memoryStore) Insert(_ context.Context, kind, id string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.kind(kind)
	if _, ok := k.docs[id]; ok {
		return ports.ErrRecordExists
	}
	k.order = append(k.order, id)
	k.docs[id] = raw
	return nil
}

func (s *memoryStore) Put(_ context.Context, kind, id string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.kind(kind)
	if _, ok := k.docs[id]; !ok {
		k.order = append(k.order, id)
	}
	k.docs[id] = raw
	return nil
}

func (s *memoryStore) Get(_ context.Context, kind, id string, v any) error {
	s.mu.RLock()
	k, ok := s.kinds[kind]
	var raw []byte
	if ok {
		raw, ok = k.docs[id]
	}
	s.mu.RUnlock()

	if !ok {
		return ports.ErrRecordNotFound
	}
	return json.Unmarshal(raw, v)
}

func (s *memoryStore) Delete(_ context.Context, kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.kinds[kind]
	if !ok {
		return ports.ErrRecordNotFound
	}
	if _, ok := k.docs[id]; !ok {
		return ports.ErrRecordNotFound
	}
	delete(k.docs, id)
	for i, existing := range k.order {
		if existing == id {
			k.order = append(k.order[:i], k.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memoryStore) List(ctx context.Context, kind string, fn func(raw []byte) error) error {
	s.mu.RLock()
	var docs [][]byte
	if k, ok := s.kinds[kind]; ok {
		docs = make([][]byte, 0, len(k.order))
		for _, id := range k.order {
			docs = append(docs, k.docs[id])
		}
	}
	s.mu.RUnlock()

	for _, raw := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(raw); err != nil {
			return err
		}
	}
	return nil
}
