package query

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/platform/logger"
)

const (
	defaultNearbyRadiusKm = 10.0
	defaultNearbyLimit    = 20
	maxNearbyCandidates   = 200
)

// Cache is an optional read-through cache consulted by FindByID. Mutation
// paths are responsible for invalidation, so a hit is always a live listing.
type Cache interface {
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
}

// Engine composes filter compilation, the soft-delete clause, pagination and
// proximity search into the three read operations the service exposes. It is
// stateless: every call issues independent reads against the gateway, and
// gateway errors propagate unchanged.
type Engine struct {
	gw    Gateway
	raw   RawQuerier // non-nil only when the raw-id strategy is active
	live  LiveClause
	cache Cache // may be nil
	log   *logger.Logger
}

// NewEngine resolves the soft-delete strategy once from the gateway's
// capabilities. Document backends get the absent-or-null OR clause; backends
// that cannot express it through their predicate language must provide the
// RawQuerier escape hatch.
func NewEngine(gw Gateway, cache Cache, log *logger.Logger) (*Engine, error) {
	e := &Engine{gw: gw, cache: cache, log: log}
	switch gw.Kind() {
	case KindRelational:
		e.live = LiveNull
	case KindDocument:
		if gw.SupportsNullOrAbsentPredicate() {
			e.live = LiveNullOrAbsent
		} else {
			raw, ok := gw.(RawQuerier)
			if !ok {
				return nil, fmt.Errorf("document gateway without null-or-absent predicate support must implement RawQuerier")
			}
			e.raw = raw
			e.live = LiveAny
		}
	default:
		return nil, fmt.Errorf("unknown backend kind %d", gw.Kind())
	}
	return e, nil
}

// List compiles the filters, applies the soft-delete clause and returns one
// page of listings with pagination metadata. The data and count queries run
// concurrently.
func (e *Engine) List(ctx context.Context, opts ListOptions) (PaginatedResult[domain.Listing], error) {
	p, fo, err := opts.compile()
	if err != nil {
		return PaginatedResult[domain.Listing]{}, err
	}
	page := fo.Skip/fo.Take + 1

	if e.raw != nil {
		return e.listRaw(ctx, p, fo, page)
	}
	p.Live = e.live

	var (
		data  []domain.Listing
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = e.gw.FindMany(gctx, p, fo)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = e.gw.Count(gctx, p)
		return err
	})
	if err := g.Wait(); err != nil {
		e.log.Error("Engine.List: read failed", "error", err.Error())
		return PaginatedResult[domain.Listing]{}, err
	}
	if data == nil {
		data = []domain.Listing{}
	}
	return PaginatedResult[domain.Listing]{Data: data, Meta: Paginate(total, page, fo.Take)}, nil
}

// listRaw is the escape-hatch variant of List: matching ids come from the
// backend's raw query layer, then are re-fetched through FindMany so that
// relation loading is not duplicated.
func (e *Engine) listRaw(ctx context.Context, p Predicate, fo FindOptions, page int) (PaginatedResult[domain.Listing], error) {
	var (
		ids   []string
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ids, err = e.raw.LiveIDs(gctx, p, fo)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = e.raw.LiveCount(gctx, p)
		return err
	})
	if err := g.Wait(); err != nil {
		e.log.Error("Engine.List: raw read failed", "error", err.Error())
		return PaginatedResult[domain.Listing]{}, err
	}

	data, err := e.fetchByIDs(ctx, ids, fo.IncludeRelations)
	if err != nil {
		return PaginatedResult[domain.Listing]{}, err
	}
	return PaginatedResult[domain.Listing]{Data: data, Meta: Paginate(total, page, fo.Take)}, nil
}

// fetchByIDs re-fetches raw-query ids through the standard gateway and
// restores the raw query's ordering. An id that cannot be correlated back to
// a typed record is a hard failure, not a silent drop.
func (e *Engine) fetchByIDs(ctx context.Context, ids []string, includeRelations bool) ([]domain.Listing, error) {
	if len(ids) == 0 {
		return []domain.Listing{}, nil
	}
	rows, err := e.gw.FindMany(ctx, Predicate{IDs: ids}, FindOptions{
		Take:             len(ids),
		IncludeRelations: includeRelations,
	})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Listing, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	data := make([]domain.Listing, 0, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: id %q from raw query has no typed record", domain.ErrInconsistentSchema, id)
		}
		data = append(data, row)
	}
	return data, nil
}

// FindByID returns the listing or ErrNotFound. A soft-deleted listing is not
// found, for both backend kinds.
func (e *Engine) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty listing id", domain.ErrInvalidArgument)
	}

	if e.cache != nil {
		cached, err := e.cache.GetListing(ctx, id)
		if err != nil {
			e.log.Warn("Engine.FindByID: cache read failed", "listing_id", id, "error", err.Error())
		} else if cached != nil {
			return cached, nil
		}
	}

	var listing *domain.Listing
	if e.raw != nil {
		// The single-record case needs no raw round-trip: fetch by id and
		// check the soft-delete mark on the typed record itself.
		row, err := e.gw.FindFirst(ctx, Predicate{ID: id})
		if err != nil {
			return nil, err
		}
		if row != nil && row.Live() {
			listing = row
		}
	} else {
		row, err := e.gw.FindFirst(ctx, Predicate{ID: id, Live: e.live})
		if err != nil {
			return nil, err
		}
		listing = row
	}
	if listing == nil {
		return nil, fmt.Errorf("%w: id %q", domain.ErrNotFound, id)
	}

	if e.cache != nil {
		if err := e.cache.SetListing(ctx, listing); err != nil {
			e.log.Warn("Engine.FindByID: cache write failed", "listing_id", id, "error", err.Error())
		}
	}
	return listing, nil
}

// Nearby returns up to limit active listings within radiusKm of the point,
// ordered by ascending great-circle distance. Candidates come from a cheap
// bounding-box prefilter and are refined with the haversine formula.
//
// The returned meta counts only the refined result window, not every listing
// inside the radius: no second counting query is issued.
func (e *Engine) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) (PaginatedResult[domain.NearbyListing], error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return PaginatedResult[domain.NearbyListing]{}, err
	}
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm < 0 {
		return PaginatedResult[domain.NearbyListing]{}, fmt.Errorf("%w: radius %v km", domain.ErrInvalidArgument, radiusKm)
	}
	if limit < 0 {
		return PaginatedResult[domain.NearbyListing]{}, fmt.Errorf("%w: limit %d", domain.ErrInvalidArgument, limit)
	}
	if radiusKm == 0 {
		radiusKm = defaultNearbyRadiusKm
	}
	if limit == 0 {
		limit = defaultNearbyLimit
	}

	box := boundingBox(lat, lng, radiusKm)
	p := Predicate{Status: domain.StatusActive, Box: &box}
	fetch := limit * 3
	if fetch > maxNearbyCandidates {
		fetch = maxNearbyCandidates
	}
	fo := FindOptions{Take: fetch, IncludeRelations: true}

	var rows []domain.Listing
	if e.raw != nil {
		ids, err := e.raw.LiveIDs(ctx, p, fo)
		if err != nil {
			e.log.Error("Engine.Nearby: raw prefilter failed", "error", err.Error())
			return PaginatedResult[domain.NearbyListing]{}, err
		}
		rows, err = e.fetchByIDs(ctx, ids, fo.IncludeRelations)
		if err != nil {
			return PaginatedResult[domain.NearbyListing]{}, err
		}
	} else {
		p.Live = e.live
		var err error
		rows, err = e.gw.FindMany(ctx, p, fo)
		if err != nil {
			e.log.Error("Engine.Nearby: prefilter failed", "error", err.Error())
			return PaginatedResult[domain.NearbyListing]{}, err
		}
	}

	// Refine: the box is a superset of the circle, so candidates beyond the
	// radius (box corners) are dropped here.
	candidates := make([]domain.NearbyListing, 0, len(rows))
	for _, row := range rows {
		d := HaversineKm(lat, lng, row.Latitude, row.Longitude)
		if d > radiusKm {
			continue
		}
		candidates = append(candidates, domain.NearbyListing{Listing: row, DistanceKm: d})
	}
	// Stable sort: fetch order is preserved on exact distance ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DistanceKm < candidates[j].DistanceKm
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return PaginatedResult[domain.NearbyListing]{
		Data: candidates,
		Meta: Paginate(int64(len(candidates)), 1, limit),
	}, nil
}

// ListingStats holds per-status listing counts over live records.
type ListingStats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Pending int64 `json:"pending"`
	Sold    int64 `json:"sold"`
	Rented  int64 `json:"rented"`
}

// Stats counts live listings overall and per status. The five counts run
// concurrently.
func (e *Engine) Stats(ctx context.Context) (ListingStats, error) {
	var stats ListingStats
	counts := []struct {
		status domain.ListingStatus
		dst    *int64
	}{
		{"", &stats.Total},
		{domain.StatusActive, &stats.Active},
		{domain.StatusPendingApproval, &stats.Pending},
		{domain.StatusSold, &stats.Sold},
		{domain.StatusRented, &stats.Rented},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range counts {
		c := c
		g.Go(func() error {
			p := Predicate{Status: c.status}
			var (
				n   int64
				err error
			)
			if e.raw != nil {
				n, err = e.raw.LiveCount(gctx, p)
			} else {
				p.Live = e.live
				n, err = e.gw.Count(gctx, p)
			}
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.log.Error("Engine.Stats: count failed", "error", err.Error())
		return ListingStats{}, err
	}
	return stats, nil
}

func validateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v", domain.ErrInvalidArgument, lat)
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude %v", domain.ErrInvalidArgument, lng)
	}
	return nil
}
