package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"estate_listing/internal/domain"
)

// SeedService loads catalog properties into the primary store and keeps the
// derived views (cache, search index) in step.
type SeedService struct {
	repo  domain.CatalogWriter
	cache domain.Cache       // optional
	index domain.SearchIndex // optional
}

func NewSeedService(r domain.CatalogWriter, cache domain.Cache, index domain.SearchIndex) *SeedService {
	return &SeedService{repo: r, cache: cache, index: index}
}

// SeedProperty upserts one property and evicts its detail cache entry.
// Search entries are left to expire by TTL.
func (s *SeedService) SeedProperty(ctx context.Context, p domain.Property) error {
	if err := s.repo.UpsertProperty(ctx, p); err != nil {
		return fmt.Errorf("upsert property %s: %w", p.ID, err)
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, propertyKey(p.ID)); err != nil {
			log.Warn().Err(err).Str("property_id", p.ID).Msg("cache evict failed")
		}
	}
	return nil
}

func (s *SeedService) SeedUser(ctx context.Context, u domain.User) error {
	if err := s.repo.UpsertUser(ctx, u); err != nil {
		return fmt.Errorf("upsert user %s: %w", u.ID, err)
	}
	return nil
}

// IndexAll pushes the full set to the search index, if one is configured.
func (s *SeedService) IndexAll(ctx context.Context, ps []domain.Property) error {
	if s.index == nil || len(ps) == 0 {
		return nil
	}
	if err := s.index.IndexProperties(ctx, ps); err != nil {
		return fmt.Errorf("index properties: %w", err)
	}
	log.Info().Int("count", len(ps)).Msg("search index updated")
	return nil
}
