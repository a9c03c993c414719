package query

import (
	"context"

	"github.com/propstack/listing-service/internal/listing/domain"
)

// Gateway is the read contract the engine needs from a persistence store.
// Implementations translate Predicate into their native query language and
// must honor every populated field, including the Live clause.
type Gateway interface {
	// Kind reports the backend's soft-delete semantics.
	Kind() BackendKind

	// SupportsNullOrAbsentPredicate reports whether the backend's standard
	// predicate language can express "field absent OR null" as one condition.
	// Gateways that return false must also implement RawQuerier.
	SupportsNullOrAbsentPredicate() bool

	FindMany(ctx context.Context, p Predicate, opts FindOptions) ([]domain.Listing, error)
	Count(ctx context.Context, p Predicate) (int64, error)
	FindFirst(ctx context.Context, p Predicate) (*domain.Listing, error)
}

// RawQuerier is the escape hatch for document backends whose predicate
// language cannot express the absent-or-null soft-delete match. It returns
// only ids; the engine re-fetches them through FindMany so relation loading
// stays in one place.
type RawQuerier interface {
	LiveIDs(ctx context.Context, p Predicate, opts FindOptions) ([]string, error)
	LiveCount(ctx context.Context, p Predicate) (int64, error)
}
