package query

import "github.com/propstack/listing-service/internal/listing/domain"

// BackendKind tells the engine which soft-delete semantics a gateway has.
// It is resolved once at engine construction, never per request.
type BackendKind int

const (
	// KindDocument stores records whose unset fields are genuinely absent.
	KindDocument BackendKind = iota
	// KindRelational stores rows where every column exists, defaulting to NULL.
	KindRelational
)

func (k BackendKind) String() string {
	if k == KindRelational {
		return "relational"
	}
	return "document"
}

// LiveClause selects how "not soft-deleted" is expressed in a predicate.
type LiveClause int

const (
	// LiveAny applies no deletedAt condition. Used when liveness has already
	// been decided elsewhere, e.g. re-fetching ids produced by a raw query.
	LiveAny LiveClause = iota
	// LiveNull matches records whose deletedAt equals null. Exact on
	// relational backends; under-counts on document backends where the field
	// may be absent.
	LiveNull
	// LiveNullOrAbsent matches records whose deletedAt is absent OR null,
	// expressed as a single OR condition.
	LiveNullOrAbsent
)

// Range is a closed numeric interval with optional bounds. Both bounds live
// in one predicate so minPrice and maxPrice can be supplied together.
type Range struct {
	Min *float64
	Max *float64
}

// GeoBox is a rectangular latitude/longitude window used to prefilter
// proximity-search candidates.
type GeoBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Predicate is the backend-agnostic filter set a gateway compiles into its
// own query language. Zero-valued fields do not participate: an empty string
// and an unset filter are the same condition, and boolean filters are
// pointers so that "filter on false" is distinct from "no filter".
type Predicate struct {
	ID           string
	IDs          []string
	Search       string
	City         string
	Locality     string
	ListingType  domain.ListingType
	PropertyType domain.PropertyType
	Status       domain.ListingStatus
	Price        *Range
	Bedrooms     *int
	OwnerID      string
	ProjectID    string
	IsFeatured   *bool
	IsVerified   *bool
	Box          *GeoBox
	Live         LiveClause
}

type OrderBy struct {
	Field     string
	Direction string // "asc" or "desc"
}

// FindOptions carries paging, ordering and relation loading for a read.
type FindOptions struct {
	Skip             int
	Take             int
	Sort             *OrderBy
	IncludeRelations bool
}
