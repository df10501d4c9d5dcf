package video

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	domain "tubely/upload-api/internal/domain/video"
	"tubely/upload-api/internal/utils/platformerrors"
)

// InMemoryRepository keeps records in process memory. It backs the service when
// no database DSN is configured and follows the same version rules as postgres.
type InMemoryRepository struct {
	mu     sync.RWMutex
	videos map[uuid.UUID]domain.Video
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{videos: make(map[uuid.UUID]domain.Video)}
}

func (r *InMemoryRepository) Create(ctx context.Context, v *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.videos[v.ID]; exists {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
			"video already exists", nil, "0e6c2a9d-4f1b-4b73-8d5e-a3c7f1b9e024")
	}
	r.videos[v.ID] = clone(*v)
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"video not found", nil, "c8f4a2d1-7e3b-4c96-a0d5-1b9e6f2c7a84",
			map[string]any{"video_id": id.String()})
	}
	out := clone(v)
	return &out, nil
}

func (r *InMemoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	videos := make([]*domain.Video, 0)
	for _, v := range r.videos {
		if v.UserID == userID {
			out := clone(v)
			videos = append(videos, &out)
		}
	}
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].CreatedAt.After(videos[j].CreatedAt)
	})
	return videos, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, v *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.videos[v.ID]
	if !ok {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
			"video not found", nil, "c8f4a2d1-7e3b-4c96-a0d5-1b9e6f2c7a84",
			map[string]any{"video_id": v.ID.String()})
	}
	if stored.Version != v.Version {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
			"video was modified by another request", domain.ErrVersionConflict, "3b8e0c5f-a1d7-4926-8f4c-7e2a9d6b1c05",
			map[string]any{"video_id": v.ID.String(), "version": v.Version})
	}
	v.Version++
	updated := clone(*v)
	updated.UserID = stored.UserID
	updated.CreatedAt = stored.CreatedAt
	r.videos[v.ID] = updated
	return nil
}

func clone(v domain.Video) domain.Video {
	if v.ThumbnailURL != nil {
		s := *v.ThumbnailURL
		v.ThumbnailURL = &s
	}
	if v.VideoURL != nil {
		s := *v.VideoURL
		v.VideoURL = &s
	}
	return v
}
