package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"estate_listing/internal/adapters/observability"
	"estate_listing/internal/domain"
	"estate_listing/internal/listing"
)

type QueryService struct {
	catalog  domain.PropertyReader
	activity domain.ActivityRepository
	cache    domain.Cache // nil disables caching
	cacheTTL time.Duration
}

func NewQueryService(catalog domain.PropertyReader, activity domain.ActivityRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{catalog: catalog, activity: activity, cache: c, cacheTTL: ttl}
}

// SearchProperties runs the listing query engine over the current catalog.
func (s *QueryService) SearchProperties(ctx context.Context, f domain.FilterSpec, sort domain.SortKey) (domain.SearchResult, error) {
	key, kerr := searchKey(f, sort)
	if kerr != nil {
		log.Warn().Err(kerr).Msg("search not cacheable")
	}
	var out domain.SearchResult
	if kerr == nil && s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	ps, err := s.catalog.ListProperties(ctx)
	if err != nil {
		return domain.SearchResult{}, unavailable("list properties", err)
	}
	items := listing.Query(ps, f, sort)
	out = domain.SearchResult{Items: items, Total: len(items)}
	observability.ObserveSearch(out.Total)

	if kerr == nil {
		s.cacheSet(ctx, key, out)
	}
	return out, nil
}

func (s *QueryService) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	key := propertyKey(id)
	var p domain.Property
	if s.cacheGet(ctx, key, &p) {
		return p, nil
	}
	p, err := s.catalog.GetProperty(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Property{}, err
		}
		return domain.Property{}, unavailable("get property", err)
	}
	s.cacheSet(ctx, key, p)
	return p, nil
}

func (s *QueryService) FeaturedProperties(ctx context.Context) ([]domain.Property, error) {
	ps, err := s.catalog.ListProperties(ctx)
	if err != nil {
		return nil, unavailable("list properties", err)
	}
	return listing.Featured(ps), nil
}

func (s *QueryService) SavedProperties(ctx context.Context, userID string) ([]domain.Property, error) {
	ids, err := s.activity.ListSaved(ctx, userID)
	if err != nil {
		return nil, unavailable("list saved", err)
	}
	ps, err := s.catalog.ListProperties(ctx)
	if err != nil {
		return nil, unavailable("list properties", err)
	}
	return listing.ByIDs(ps, ids), nil
}

/********** dashboards **********/

func (s *QueryService) BuyerDashboard(ctx context.Context, userID string) (domain.BuyerDashboard, error) {
	u, err := s.activity.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.BuyerDashboard{}, err
		}
		return domain.BuyerDashboard{}, unavailable("get user", err)
	}
	saved, err := s.SavedProperties(ctx, userID)
	if err != nil {
		return domain.BuyerDashboard{}, err
	}
	inq, err := s.activity.ListInquiriesByUser(ctx, userID)
	if err != nil {
		return domain.BuyerDashboard{}, unavailable("list inquiries", err)
	}
	return domain.BuyerDashboard{User: u, Saved: saved, Inquiries: inq}, nil
}

func (s *QueryService) SellerDashboard(ctx context.Context, agentID string) (domain.SellerDashboard, error) {
	ps, err := s.catalog.ListProperties(ctx)
	if err != nil {
		return domain.SellerDashboard{}, unavailable("list properties", err)
	}
	own := listing.Sort(listing.ByAgent(ps, agentID), domain.SortNewest)

	d := domain.SellerDashboard{AgentID: agentID, Listings: own, ActiveListings: len(own)}
	ids := make([]string, 0, len(own))
	for _, p := range own {
		d.TotalViews += p.Views
		ids = append(ids, p.ID)
	}
	d.Inquiries, err = s.activity.ListInquiriesByProperties(ctx, ids)
	if err != nil {
		return domain.SellerDashboard{}, unavailable("list inquiries", err)
	}
	return d, nil
}

const topViewedLimit = 5

// AdminDashboard summarizes the catalog; status filters the submission
// list and may be empty for all.
func (s *QueryService) AdminDashboard(ctx context.Context, status domain.SubmissionStatus) (domain.AdminDashboard, error) {
	ps, err := s.catalog.ListProperties(ctx)
	if err != nil {
		return domain.AdminDashboard{}, unavailable("list properties", err)
	}

	d := domain.AdminDashboard{
		TotalProperties: len(ps),
		ByType:          map[domain.ListingKind]int{},
		ByPropertyType:  map[domain.PropertyType]int{},
	}
	for _, p := range ps {
		d.ByType[p.Type]++
		d.ByPropertyType[p.PropertyType]++
		d.TotalViews += p.Views
		if p.IsFeatured {
			d.Featured++
		}
	}
	top := listing.Sort(ps, domain.SortViews)
	d.TopViewed = top[:min(topViewedLimit, len(top))]

	if d.TotalUsers, err = s.activity.CountUsers(ctx); err != nil {
		return domain.AdminDashboard{}, unavailable("count users", err)
	}
	if d.Submissions, err = s.activity.ListSubmissions(ctx, status); err != nil {
		return domain.AdminDashboard{}, unavailable("list submissions", err)
	}
	pending, err := s.activity.ListSubmissions(ctx, domain.SubmissionPending)
	if err != nil {
		return domain.AdminDashboard{}, unavailable("list submissions", err)
	}
	d.PendingReview = len(pending)
	return d, nil
}

/********** cache helpers **********/

func (s *QueryService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	return ok
}

func (s *QueryService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func propertyKey(id string) string { return "property:" + id }

// searchKey hashes the normalized spec so equivalent queries share an entry.
func searchKey(f domain.FilterSpec, sort domain.SortKey) (string, error) {
	b, err := json.Marshal(struct {
		F domain.FilterSpec
		S domain.SortKey
	}{listing.Normalize(f), sort})
	if err != nil {
		return "", fmt.Errorf("search cache key: %w", err)
	}
	sum := sha1.Sum(b)
	return "search:" + hex.EncodeToString(sum[:]), nil
}

func unavailable(op string, err error) error {
	if errors.Is(err, domain.ErrUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrUnavailable, err)
}
