package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/platform/logger"
)

// fakeRecord is a stored listing plus its physical deleted-mark state. In a
// document store a record written before soft deletion existed has no
// deletedAt field at all; deletedAbsent models that third state.
type fakeRecord struct {
	listing       domain.Listing
	deletedAbsent bool
}

type fakeGateway struct {
	kind     BackendKind
	supports bool
	records  []fakeRecord

	captured []Predicate
	failWith error
}

func (f *fakeGateway) Kind() BackendKind { return f.kind }

func (f *fakeGateway) SupportsNullOrAbsentPredicate() bool { return f.supports }

func (f *fakeGateway) matches(rec fakeRecord, p Predicate) bool {
	l := rec.listing
	switch p.Live {
	case LiveNull:
		// Strict null equality: a record without the field does not match.
		if rec.deletedAbsent || l.DeletedAt != nil {
			return false
		}
	case LiveNullOrAbsent:
		if l.DeletedAt != nil {
			return false
		}
	}
	if p.ID != "" && l.ID != p.ID {
		return false
	}
	if len(p.IDs) > 0 {
		found := false
		for _, id := range p.IDs {
			if id == l.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if p.City != "" && l.City != p.City {
		return false
	}
	if p.Status != "" && l.Status != p.Status {
		return false
	}
	if p.Bedrooms != nil && (l.Bedrooms == nil || *l.Bedrooms != *p.Bedrooms) {
		return false
	}
	if p.Price != nil {
		if p.Price.Min != nil && l.Price < *p.Price.Min {
			return false
		}
		if p.Price.Max != nil && l.Price > *p.Price.Max {
			return false
		}
	}
	if p.Box != nil {
		if l.Latitude < p.Box.MinLat || l.Latitude > p.Box.MaxLat ||
			l.Longitude < p.Box.MinLng || l.Longitude > p.Box.MaxLng {
			return false
		}
	}
	return true
}

func (f *fakeGateway) filter(p Predicate) []domain.Listing {
	var out []domain.Listing
	for _, rec := range f.records {
		if f.matches(rec, p) {
			out = append(out, rec.listing)
		}
	}
	return out
}

func (f *fakeGateway) FindMany(_ context.Context, p Predicate, fo FindOptions) ([]domain.Listing, error) {
	f.captured = append(f.captured, p)
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := f.filter(p)

	if fo.Sort != nil {
		field, asc := fo.Sort.Field, fo.Sort.Direction == "asc"
		sort.SliceStable(out, func(i, j int) bool {
			var less bool
			switch field {
			case "price":
				less = out[i].Price < out[j].Price
			default:
				less = out[i].CreatedAt.Before(out[j].CreatedAt)
			}
			if asc {
				return less
			}
			return !less
		})
	}
	if fo.Skip > 0 {
		if fo.Skip >= len(out) {
			out = nil
		} else {
			out = out[fo.Skip:]
		}
	}
	if fo.Take > 0 && len(out) > fo.Take {
		out = out[:fo.Take]
	}
	return out, nil
}

func (f *fakeGateway) Count(_ context.Context, p Predicate) (int64, error) {
	f.captured = append(f.captured, p)
	if f.failWith != nil {
		return 0, f.failWith
	}
	return int64(len(f.filter(p))), nil
}

func (f *fakeGateway) FindFirst(_ context.Context, p Predicate) (*domain.Listing, error) {
	f.captured = append(f.captured, p)
	if f.failWith != nil {
		return nil, f.failWith
	}
	rows := f.filter(p)
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// fakeRawGateway is a document backend whose predicate language cannot
// express the absent-or-null clause, so it serves raw id queries instead.
type fakeRawGateway struct {
	fakeGateway
	extraIDs []string // appended to LiveIDs results to simulate drift
}

func (f *fakeRawGateway) liveFilter(p Predicate) []domain.Listing {
	p.Live = LiveNullOrAbsent
	return f.filter(p)
}

func (f *fakeRawGateway) LiveIDs(_ context.Context, p Predicate, fo FindOptions) ([]string, error) {
	rows := f.liveFilter(p)
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	ids = append(ids, f.extraIDs...)
	if fo.Take > 0 && len(ids) > fo.Take {
		ids = ids[:fo.Take]
	}
	return ids, nil
}

func (f *fakeRawGateway) LiveCount(_ context.Context, p Predicate) (int64, error) {
	return int64(len(f.liveFilter(p)) + len(f.extraIDs)), nil
}

func quietLogger() *logger.Logger {
	return logger.NewWithConfig(&logger.Config{Level: "error", Format: "text"})
}

func ts(offsetMinutes int) time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(offsetMinutes) * time.Minute)
}

func deletedAt() *time.Time {
	t := ts(999)
	return &t
}

// mixedRecords is one live record per physical deleted-mark state plus one
// deleted record, same in every other respect.
func mixedRecords() []fakeRecord {
	return []fakeRecord{
		{listing: domain.Listing{ID: "null-field", City: "Bangalore", Status: domain.StatusActive, CreatedAt: ts(1)}},
		{listing: domain.Listing{ID: "absent-field", City: "Bangalore", Status: domain.StatusActive, CreatedAt: ts(2)}, deletedAbsent: true},
		{listing: domain.Listing{ID: "deleted", City: "Bangalore", Status: domain.StatusActive, CreatedAt: ts(3), DeletedAt: deletedAt()}},
	}
}

func newDocumentEngine(t *testing.T, records []fakeRecord) (*Engine, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{kind: KindDocument, supports: true, records: records}
	e, err := NewEngine(gw, nil, quietLogger())
	require.NoError(t, err)
	return e, gw
}

func newRelationalEngine(t *testing.T, records []fakeRecord) (*Engine, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{kind: KindRelational, records: records}
	e, err := NewEngine(gw, nil, quietLogger())
	require.NoError(t, err)
	return e, gw
}

func newRawEngine(t *testing.T, records []fakeRecord) (*Engine, *fakeRawGateway) {
	t.Helper()
	gw := &fakeRawGateway{fakeGateway: fakeGateway{kind: KindDocument, supports: false, records: records}}
	e, err := NewEngine(gw, nil, quietLogger())
	require.NoError(t, err)
	return e, gw
}

func TestNewEngineStrategySelection(t *testing.T) {
	e, _ := newRelationalEngine(t, nil)
	assert.Equal(t, LiveNull, e.live)
	assert.Nil(t, e.raw)

	e, _ = newDocumentEngine(t, nil)
	assert.Equal(t, LiveNullOrAbsent, e.live)
	assert.Nil(t, e.raw)

	e, _ = newRawEngine(t, nil)
	assert.Equal(t, LiveAny, e.live)
	assert.NotNil(t, e.raw)
}

func TestNewEngineRejectsUnqueryableDocumentBackend(t *testing.T) {
	gw := &fakeGateway{kind: KindDocument, supports: false}
	_, err := NewEngine(gw, nil, quietLogger())
	assert.Error(t, err)
}

// Soft-deleted records disappear from List on every backend kind, and legacy
// document records without the deleted mark still count as live.
func TestListExcludesSoftDeleted(t *testing.T) {
	t.Run("document", func(t *testing.T) {
		e, _ := newDocumentEngine(t, mixedRecords())
		res, err := e.List(context.Background(), ListOptions{})
		require.NoError(t, err)

		require.Len(t, res.Data, 2)
		ids := []string{res.Data[0].ID, res.Data[1].ID}
		assert.ElementsMatch(t, []string{"null-field", "absent-field"}, ids)
		assert.Equal(t, int64(2), res.Meta.Total)
	})

	t.Run("raw document", func(t *testing.T) {
		e, _ := newRawEngine(t, mixedRecords())
		res, err := e.List(context.Background(), ListOptions{})
		require.NoError(t, err)

		require.Len(t, res.Data, 2)
		assert.Equal(t, int64(2), res.Meta.Total)
	})

	t.Run("relational", func(t *testing.T) {
		// Relational rows always carry the column.
		records := []fakeRecord{
			{listing: domain.Listing{ID: "live", Status: domain.StatusActive, CreatedAt: ts(1)}},
			{listing: domain.Listing{ID: "gone", Status: domain.StatusActive, CreatedAt: ts(2), DeletedAt: deletedAt()}},
		}
		e, _ := newRelationalEngine(t, records)
		res, err := e.List(context.Background(), ListOptions{})
		require.NoError(t, err)

		require.Len(t, res.Data, 1)
		assert.Equal(t, "live", res.Data[0].ID)
		assert.Equal(t, int64(1), res.Meta.Total)
	})
}

// Every predicate the engine sends to a non-raw gateway must carry the live
// clause; a missing clause would silently resurrect deleted listings.
func TestListAlwaysAppliesLiveClause(t *testing.T) {
	e, gw := newDocumentEngine(t, mixedRecords())
	_, err := e.List(context.Background(), ListOptions{City: "Bangalore"})
	require.NoError(t, err)

	require.NotEmpty(t, gw.captured)
	for _, p := range gw.captured {
		assert.Equal(t, LiveNullOrAbsent, p.Live)
	}

	re, rgw := newRelationalEngine(t, nil)
	_, err = re.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	for _, p := range rgw.captured {
		assert.Equal(t, LiveNull, p.Live)
	}
}

func TestListPagination(t *testing.T) {
	// 12 active Bangalore listings, 3 in another city, 2 soft-deleted.
	var records []fakeRecord
	for i := 0; i < 12; i++ {
		records = append(records, fakeRecord{listing: domain.Listing{
			ID: fmt.Sprintf("blr-%02d", i), City: "Bangalore", Status: domain.StatusActive, CreatedAt: ts(i),
		}})
	}
	for i := 0; i < 3; i++ {
		records = append(records, fakeRecord{listing: domain.Listing{
			ID: fmt.Sprintf("chn-%d", i), City: "Chennai", Status: domain.StatusActive, CreatedAt: ts(100 + i),
		}})
	}
	for i := 0; i < 2; i++ {
		records = append(records, fakeRecord{listing: domain.Listing{
			ID: fmt.Sprintf("del-%d", i), City: "Bangalore", Status: domain.StatusActive, CreatedAt: ts(200 + i), DeletedAt: deletedAt(),
		}})
	}

	e, _ := newDocumentEngine(t, records)
	res, err := e.List(context.Background(), ListOptions{City: "Bangalore", Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, res.Data, 10)
	assert.Equal(t, PaginationMeta{
		Total: 12, Page: 1, Limit: 10, TotalPages: 2, HasNext: true, HasPrev: false,
	}, res.Meta)

	res, err = e.List(context.Background(), ListOptions{City: "Bangalore", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, res.Data, 2)
	assert.True(t, res.Meta.HasPrev)
	assert.False(t, res.Meta.HasNext)
}

func TestListSortsByRequestedField(t *testing.T) {
	records := []fakeRecord{
		{listing: domain.Listing{ID: "mid", Price: 200, CreatedAt: ts(1)}},
		{listing: domain.Listing{ID: "cheap", Price: 100, CreatedAt: ts(2)}},
		{listing: domain.Listing{ID: "dear", Price: 300, CreatedAt: ts(3)}},
	}
	e, _ := newDocumentEngine(t, records)

	res, err := e.List(context.Background(), ListOptions{SortBy: "price", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, res.Data, 3)
	assert.Equal(t, "cheap", res.Data[0].ID)
	assert.Equal(t, "dear", res.Data[2].ID)
}

func TestListEmptyResultIsNotAnError(t *testing.T) {
	e, _ := newDocumentEngine(t, nil)
	res, err := e.List(context.Background(), ListOptions{City: "Atlantis"})
	require.NoError(t, err)

	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, int64(0), res.Meta.Total)
	assert.Equal(t, int64(0), res.Meta.TotalPages)
}

func TestListPropagatesBackendErrors(t *testing.T) {
	gw := &fakeGateway{kind: KindDocument, supports: true, failWith: fmt.Errorf("%w: down", domain.ErrBackendUnavailable)}
	e, err := NewEngine(gw, nil, quietLogger())
	require.NoError(t, err)

	_, err = e.List(context.Background(), ListOptions{})
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestListRawPreservesIDOrder(t *testing.T) {
	records := []fakeRecord{
		{listing: domain.Listing{ID: "a", CreatedAt: ts(1)}},
		{listing: domain.Listing{ID: "b", CreatedAt: ts(2)}},
		{listing: domain.Listing{ID: "c", CreatedAt: ts(3)}},
	}
	e, _ := newRawEngine(t, records)

	res, err := e.List(context.Background(), ListOptions{SortBy: "createdAt", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, res.Data, 3)
	assert.Equal(t, int64(3), res.Meta.Total)
}

func TestListRawInconsistentSchema(t *testing.T) {
	e, gw := newRawEngine(t, []fakeRecord{
		{listing: domain.Listing{ID: "a", CreatedAt: ts(1)}},
	})
	gw.extraIDs = []string{"phantom"}

	_, err := e.List(context.Background(), ListOptions{})
	assert.ErrorIs(t, err, domain.ErrInconsistentSchema)
}

func TestFindByID(t *testing.T) {
	for _, kind := range []string{"document", "relational", "raw"} {
		t.Run(kind, func(t *testing.T) {
			records := mixedRecords()
			if kind == "relational" {
				// No absent state on relational backends.
				records = []fakeRecord{records[0], records[2]}
			}

			var e *Engine
			switch kind {
			case "document":
				e, _ = newDocumentEngine(t, records)
			case "relational":
				e, _ = newRelationalEngine(t, records)
			case "raw":
				e, _ = newRawEngine(t, records)
			}

			got, err := e.FindByID(context.Background(), "null-field")
			require.NoError(t, err)
			assert.Equal(t, "null-field", got.ID)

			// Soft-deleted listings read as not found.
			_, err = e.FindByID(context.Background(), "deleted")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			_, err = e.FindByID(context.Background(), "no-such-id")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			_, err = e.FindByID(context.Background(), "")
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestFindByIDLegacyDocumentRecord(t *testing.T) {
	e, _ := newDocumentEngine(t, mixedRecords())
	got, err := e.FindByID(context.Background(), "absent-field")
	require.NoError(t, err)
	assert.Equal(t, "absent-field", got.ID)
}

type fakeCache struct {
	store  map[string]*domain.Listing
	getErr error
	setErr error
	gets   int
	sets   int
}

func (f *fakeCache) GetListing(_ context.Context, id string) (*domain.Listing, error) {
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.store[id], nil
}

func (f *fakeCache) SetListing(_ context.Context, l *domain.Listing) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.store[l.ID] = l
	return nil
}

func TestFindByIDCache(t *testing.T) {
	gw := &fakeGateway{kind: KindDocument, supports: true, records: mixedRecords()}
	c := &fakeCache{store: map[string]*domain.Listing{}}
	e, err := NewEngine(gw, c, quietLogger())
	require.NoError(t, err)

	got, err := e.FindByID(context.Background(), "null-field")
	require.NoError(t, err)
	assert.Equal(t, 1, c.gets)
	assert.Equal(t, 1, c.sets)

	// Second read is served from cache without touching the gateway.
	before := len(gw.captured)
	got2, err := e.FindByID(context.Background(), "null-field")
	require.NoError(t, err)
	assert.Equal(t, got.ID, got2.ID)
	assert.Equal(t, before, len(gw.captured))
}

func TestFindByIDCacheFailuresAreNonFatal(t *testing.T) {
	gw := &fakeGateway{kind: KindDocument, supports: true, records: mixedRecords()}
	c := &fakeCache{store: map[string]*domain.Listing{}, getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	e, err := NewEngine(gw, c, quietLogger())
	require.NoError(t, err)

	got, err := e.FindByID(context.Background(), "null-field")
	require.NoError(t, err)
	assert.Equal(t, "null-field", got.ID)
}

// nearbyRecords places active listings at known distances due north of the
// query point (1 degree of latitude is ~111.19 km on the R=6371 sphere).
func nearbyRecords() []fakeRecord {
	base := 12.9716
	lng := 77.5946
	at := func(km float64) float64 { return base + km/111.19 }
	return []fakeRecord{
		{listing: domain.Listing{ID: "2km", Status: domain.StatusActive, Latitude: at(2), Longitude: lng, CreatedAt: ts(1)}},
		{listing: domain.Listing{ID: "5km", Status: domain.StatusActive, Latitude: at(5), Longitude: lng, CreatedAt: ts(2)}},
		{listing: domain.Listing{ID: "9km", Status: domain.StatusActive, Latitude: at(9), Longitude: lng, CreatedAt: ts(3)}},
		{listing: domain.Listing{ID: "15km", Status: domain.StatusActive, Latitude: at(15), Longitude: lng, CreatedAt: ts(4)}},
		{listing: domain.Listing{ID: "draft-3km", Status: domain.StatusDraft, Latitude: at(3), Longitude: lng, CreatedAt: ts(5)}},
		{listing: domain.Listing{ID: "deleted-4km", Status: domain.StatusActive, Latitude: at(4), Longitude: lng, CreatedAt: ts(6), DeletedAt: deletedAt()}},
	}
}

func TestNearby(t *testing.T) {
	e, _ := newDocumentEngine(t, nearbyRecords())

	res, err := e.Nearby(context.Background(), 12.9716, 77.5946, 10, 20)
	require.NoError(t, err)

	require.Len(t, res.Data, 3)
	assert.Equal(t, "2km", res.Data[0].ID)
	assert.Equal(t, "5km", res.Data[1].ID)
	assert.Equal(t, "9km", res.Data[2].ID)

	// Distances ride along and increase monotonically.
	assert.InDelta(t, 2, res.Data[0].DistanceKm, 0.1)
	assert.InDelta(t, 9, res.Data[2].DistanceKm, 0.1)

	assert.Equal(t, int64(3), res.Meta.Total)
	assert.Equal(t, 1, res.Meta.Page)
	assert.Equal(t, 20, res.Meta.Limit)
}

// A listing inside the bounding box but outside the circle is dropped.
func TestNearbyExcludesBeyondRadius(t *testing.T) {
	// Box corner: ~7km north and ~7km east is inside the 10km box but
	// ~9.9km away; 9km north 9km east is inside the box but ~12.7km away.
	lat, lng := 12.9716, 77.5946
	kmLat := 111.19
	kmLng := 111.19 * 0.9744 // cos(12.97 deg)
	records := []fakeRecord{
		{listing: domain.Listing{ID: "corner-in", Status: domain.StatusActive, Latitude: lat + 6.5/kmLat, Longitude: lng + 6.5/kmLng, CreatedAt: ts(1)}},
		{listing: domain.Listing{ID: "corner-out", Status: domain.StatusActive, Latitude: lat + 9.0/kmLat, Longitude: lng + 9.0/kmLng, CreatedAt: ts(2)}},
	}
	e, _ := newDocumentEngine(t, records)

	res, err := e.Nearby(context.Background(), lat, lng, 10, 20)
	require.NoError(t, err)

	require.Len(t, res.Data, 1)
	assert.Equal(t, "corner-in", res.Data[0].ID)
	assert.LessOrEqual(t, res.Data[0].DistanceKm, 10.0)
}

func TestNearbyLimit(t *testing.T) {
	e, _ := newDocumentEngine(t, nearbyRecords())

	res, err := e.Nearby(context.Background(), 12.9716, 77.5946, 10, 2)
	require.NoError(t, err)

	require.Len(t, res.Data, 2)
	assert.Equal(t, "2km", res.Data[0].ID)
	assert.Equal(t, "5km", res.Data[1].ID)
	assert.Equal(t, int64(2), res.Meta.Total)
}

func TestNearbyDefaults(t *testing.T) {
	e, _ := newDocumentEngine(t, nearbyRecords())

	// Zero radius and limit mean 10km / 20 results.
	res, err := e.Nearby(context.Background(), 12.9716, 77.5946, 0, 0)
	require.NoError(t, err)
	assert.Len(t, res.Data, 3)
	assert.Equal(t, 20, res.Meta.Limit)
}

func TestNearbyEmptyAreaSucceeds(t *testing.T) {
	e, _ := newDocumentEngine(t, nil)

	res, err := e.Nearby(context.Background(), 0, 0, 10, 20)
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Equal(t, int64(0), res.Meta.Total)
}

func TestNearbyValidation(t *testing.T) {
	e, _ := newDocumentEngine(t, nil)

	cases := []struct {
		name     string
		lat, lng float64
		radius   float64
		limit    int
	}{
		{"latitude too big", 91, 0, 10, 20},
		{"latitude too small", -91, 0, 10, 20},
		{"longitude too big", 0, 181, 10, 20},
		{"longitude too small", 0, -181, 10, 20},
		{"negative radius", 0, 0, -1, 20},
		{"negative limit", 0, 0, 10, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Nearby(context.Background(), tc.lat, tc.lng, tc.radius, tc.limit)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestNearbyRawStrategy(t *testing.T) {
	e, _ := newRawEngine(t, nearbyRecords())

	res, err := e.Nearby(context.Background(), 12.9716, 77.5946, 10, 20)
	require.NoError(t, err)

	require.Len(t, res.Data, 3)
	assert.Equal(t, "2km", res.Data[0].ID)
}

func statsRecords() []fakeRecord {
	mk := func(id string, status domain.ListingStatus, deleted bool) fakeRecord {
		l := domain.Listing{ID: id, Status: status, CreatedAt: ts(1)}
		if deleted {
			l.DeletedAt = deletedAt()
		}
		return fakeRecord{listing: l}
	}
	return []fakeRecord{
		mk("a1", domain.StatusActive, false),
		mk("a2", domain.StatusActive, false),
		mk("p1", domain.StatusPendingApproval, false),
		mk("s1", domain.StatusSold, false),
		mk("r1", domain.StatusRented, false),
		mk("r2", domain.StatusRented, false),
		mk("d1", domain.StatusDraft, false),
		mk("gone", domain.StatusActive, true),
	}
}

func TestStats(t *testing.T) {
	want := ListingStats{Total: 7, Active: 2, Pending: 1, Sold: 1, Rented: 2}

	t.Run("document", func(t *testing.T) {
		e, _ := newDocumentEngine(t, statsRecords())
		got, err := e.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("relational", func(t *testing.T) {
		e, _ := newRelationalEngine(t, statsRecords())
		got, err := e.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("raw document", func(t *testing.T) {
		e, _ := newRawEngine(t, statsRecords())
		got, err := e.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestStatsPropagatesErrors(t *testing.T) {
	gw := &fakeGateway{kind: KindRelational, failWith: fmt.Errorf("%w: down", domain.ErrBackendUnavailable)}
	e, err := NewEngine(gw, nil, quietLogger())
	require.NoError(t, err)

	_, err = e.Stats(context.Background())
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}
