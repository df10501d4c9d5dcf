package asset

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"tubely/upload-api/internal/domain/video"
)

// InMemoryRepository is the ledger used without a database. Entries keep
// insertion order.
type InMemoryRepository struct {
	mu     sync.RWMutex
	assets []video.Asset
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Record(ctx context.Context, a *video.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets = append(r.assets, *a)
	return nil
}

func (r *InMemoryRepository) ListByVideo(ctx context.Context, videoID uuid.UUID) ([]*video.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*video.Asset, 0)
	for i := range r.assets {
		if r.assets[i].VideoID == videoID {
			a := r.assets[i]
			out = append(out, &a)
		}
	}
	return out, nil
}
