package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/sunr3d/photo-archive/internal/interfaces/infra"
	"github.com/sunr3d/photo-archive/models"
)

var _ infra.StreamRegistry = (*inmemRegistry)(nil)

type inmemRegistry struct {
	logger  *zap.Logger
	streams map[string]models.ActiveStream
	mu      sync.RWMutex
}

func New(log *zap.Logger) infra.StreamRegistry {
	return &inmemRegistry{
		logger:  log,
		streams: make(map[string]models.ActiveStream),
	}
}

func (r *inmemRegistry) Register(ctx context.Context, stream *models.ActiveStream) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if stream == nil {
		return ErrStreamNil
	}

	if stream.ID == "" {
		return ErrStreamIDEmpty
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.streams[stream.ID]; exists {
		return ErrStreamExists
	}

	r.streams[stream.ID] = *stream
	r.logger.Debug("загрузка зарегистрирована",
		zap.String("archive_id", stream.ID),
		zap.String("name", stream.Name),
		zap.Int("pid", stream.Pid),
		zap.Int("active", len(r.streams)),
	)

	return nil
}

func (r *inmemRegistry) Unregister(ctx context.Context, id string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if id == "" {
		return ErrStreamIDEmpty
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.streams[id]; !exists {
		return ErrStreamNotFound
	}

	delete(r.streams, id)
	r.logger.Debug("загрузка снята с учета",
		zap.String("archive_id", id),
		zap.Int("active", len(r.streams)),
	)

	return nil
}

func (r *inmemRegistry) List(ctx context.Context) ([]models.ActiveStream, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	streams := make([]models.ActiveStream, 0, len(r.streams))
	for _, s := range r.streams {
		streams = append(streams, s)
	}
	sort.Slice(streams, func(i, j int) bool {
		return streams[i].StartedAt.Before(streams[j].StartedAt)
	})

	return streams, nil
}

func (r *inmemRegistry) Count(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.streams), nil
}
