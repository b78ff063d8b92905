package views

import (
	"context"
	"fmt"
	"log/slog"
)

// FallbackStore serves from a local store whenever the primary store fails.
type FallbackStore struct {
	primary  Store
	fallback Store
}

func NewFallbackStore(primary, fallback Store) *FallbackStore {
	return &FallbackStore{primary: primary, fallback: fallback}
}

func (s *FallbackStore) Get(ctx context.Context, id string) (int64, error) {
	count, err := s.primary.Get(ctx, id)
	if err == nil {
		return count, nil
	}
	s.warn("get", err)
	count, fbErr := s.fallback.Get(ctx, id)
	if fbErr != nil {
		return 0, fmt.Errorf("fallback.Get() > %w (primary error: %v)", fbErr, err)
	}
	return count, nil
}

func (s *FallbackStore) All(ctx context.Context) (map[string]int64, error) {
	counts, err := s.primary.All(ctx)
	if err == nil {
		return counts, nil
	}
	s.warn("all", err)
	counts, fbErr := s.fallback.All(ctx)
	if fbErr != nil {
		return nil, fmt.Errorf("fallback.All() > %w (primary error: %v)", fbErr, err)
	}
	return counts, nil
}

func (s *FallbackStore) Increment(ctx context.Context, id string) (int64, error) {
	count, err := s.primary.Increment(ctx, id)
	if err == nil {
		return count, nil
	}
	s.warn("increment", err)
	count, fbErr := s.fallback.Increment(ctx, id)
	if fbErr != nil {
		return 0, fmt.Errorf("fallback.Increment() > %w (primary error: %v)", fbErr, err)
	}
	return count, nil
}

func (s *FallbackStore) warn(op string, err error) {
	slog.Default().Warn("views store failed, using local fallback",
		slog.String("op", op),
		slog.Any("error", err),
	)
}
