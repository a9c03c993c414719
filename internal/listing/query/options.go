package query

import (
	"fmt"

	"github.com/propstack/listing-service/internal/listing/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	defaultSortField = "createdAt"
	sortAsc          = "asc"
	sortDesc         = "desc"
)

// sortFields is the whitelist of listing attributes a caller may sort by.
// An unknown field falls back to createdAt instead of reaching the backend
// and failing there with an opaque error.
var sortFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"price":     true,
	"views":     true,
	"clicks":    true,
	"title":     true,
	"bedrooms":  true,
	"area":      true,
}

// ListOptions is the filter request for List. Every field is optional:
// string filters treat "" as unset, numeric and boolean filters use pointers
// so a provided zero value still filters.
type ListOptions struct {
	Search       string
	City         string
	Locality     string
	ListingType  domain.ListingType
	PropertyType domain.PropertyType
	Status       domain.ListingStatus
	MinPrice     *float64
	MaxPrice     *float64
	Bedrooms     *int
	OwnerID      string
	ProjectID    string
	IsFeatured   *bool
	IsVerified   *bool

	Page      int // 0 means default (1); negative is rejected
	Limit     int // 0 means default (10); negative is rejected
	SortBy    string
	SortOrder string
}

// compile turns the filter request into a predicate plus paging. Only
// present, non-empty values participate; min/max price merge into a single
// range predicate.
func (o ListOptions) compile() (Predicate, FindOptions, error) {
	page := o.Page
	limit := o.Limit
	if page < 0 {
		return Predicate{}, FindOptions{}, fmt.Errorf("%w: page must be positive, got %d", domain.ErrInvalidArgument, page)
	}
	if limit < 0 {
		return Predicate{}, FindOptions{}, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidArgument, limit)
	}
	if page == 0 {
		page = defaultPage
	}
	if limit == 0 {
		limit = defaultLimit
	}

	p := Predicate{
		Search:       o.Search,
		City:         o.City,
		Locality:     o.Locality,
		ListingType:  o.ListingType,
		PropertyType: o.PropertyType,
		Status:       o.Status,
		Bedrooms:     o.Bedrooms,
		OwnerID:      o.OwnerID,
		ProjectID:    o.ProjectID,
		IsFeatured:   o.IsFeatured,
		IsVerified:   o.IsVerified,
	}
	if o.MinPrice != nil || o.MaxPrice != nil {
		p.Price = &Range{Min: o.MinPrice, Max: o.MaxPrice}
	}

	sortBy := o.SortBy
	if !sortFields[sortBy] {
		sortBy = defaultSortField
	}
	order := sortDesc
	if o.SortOrder == sortAsc {
		order = sortAsc
	}

	opts := FindOptions{
		Skip:             (page - 1) * limit,
		Take:             limit,
		Sort:             &OrderBy{Field: sortBy, Direction: order},
		IncludeRelations: true,
	}
	return p, opts, nil
}
