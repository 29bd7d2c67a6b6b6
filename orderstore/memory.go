package orderstore

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/Automattic/newspack-ads-sub000/errortypes"
)

// MemoryStore is an in-process Store for tests and single-node deployments
// without a database.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[int64][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[int64][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, orderID int64) (OrderConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok := s.blobs[orderID]
	if !ok {
		return OrderConfig{}, &errortypes.NotFound{
			ID:       strconv.FormatInt(orderID, 10),
			DataType: "Order config",
		}
	}

	var cfg OrderConfig
	if err := json.Unmarshal(blob, &cfg); err != nil {
		return OrderConfig{}, err
	}
	return cfg, nil
}

func (s *MemoryStore) MergeUpdate(ctx context.Context, orderID int64, patch Patch) (OrderConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, cfg, err := mergeBlob(orderID, s.blobs[orderID], patch)
	if err != nil {
		return OrderConfig{}, err
	}
	s.blobs[orderID] = merged
	return cfg, nil
}
