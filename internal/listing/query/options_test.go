package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propstack/listing-service/internal/listing/domain"
)

func TestCompileDefaults(t *testing.T) {
	p, fo, err := ListOptions{}.compile()
	require.NoError(t, err)

	assert.Equal(t, Predicate{}, p)
	assert.Equal(t, 0, fo.Skip)
	assert.Equal(t, 10, fo.Take)
	require.NotNil(t, fo.Sort)
	assert.Equal(t, "createdAt", fo.Sort.Field)
	assert.Equal(t, "desc", fo.Sort.Direction)
	assert.True(t, fo.IncludeRelations)
}

func TestCompilePaging(t *testing.T) {
	_, fo, err := ListOptions{Page: 3, Limit: 20}.compile()
	require.NoError(t, err)
	assert.Equal(t, 40, fo.Skip)
	assert.Equal(t, 20, fo.Take)
}

func TestCompileRejectsNegativePaging(t *testing.T) {
	_, _, err := ListOptions{Page: -1}.compile()
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, _, err = ListOptions{Limit: -5}.compile()
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

// An omitted filter and an explicitly empty one compile to the same
// predicate, so both hit identical backend queries.
func TestCompileEmptyEqualsOmitted(t *testing.T) {
	explicit, _, err := ListOptions{Search: "", City: "", Status: ""}.compile()
	require.NoError(t, err)
	omitted, _, err := ListOptions{}.compile()
	require.NoError(t, err)

	assert.Equal(t, omitted, explicit)
}

func TestCompilePriceRange(t *testing.T) {
	min, max := 100.0, 500.0

	p, _, err := ListOptions{MinPrice: &min, MaxPrice: &max}.compile()
	require.NoError(t, err)
	require.NotNil(t, p.Price)
	require.NotNil(t, p.Price.Min)
	require.NotNil(t, p.Price.Max)
	assert.Equal(t, 100.0, *p.Price.Min)
	assert.Equal(t, 500.0, *p.Price.Max)

	p, _, err = ListOptions{MinPrice: &min}.compile()
	require.NoError(t, err)
	require.NotNil(t, p.Price)
	assert.Nil(t, p.Price.Max)

	p, _, err = ListOptions{}.compile()
	require.NoError(t, err)
	assert.Nil(t, p.Price)
}

func TestCompileBoolPointers(t *testing.T) {
	featured := false

	p, _, err := ListOptions{IsFeatured: &featured}.compile()
	require.NoError(t, err)
	require.NotNil(t, p.IsFeatured, "explicit false must still filter")
	assert.False(t, *p.IsFeatured)

	p, _, err = ListOptions{}.compile()
	require.NoError(t, err)
	assert.Nil(t, p.IsFeatured)
}

func TestCompileZeroBedroomsFilters(t *testing.T) {
	zero := 0
	p, _, err := ListOptions{Bedrooms: &zero}.compile()
	require.NoError(t, err)
	require.NotNil(t, p.Bedrooms)
	assert.Equal(t, 0, *p.Bedrooms)
}

func TestCompileSort(t *testing.T) {
	_, fo, err := ListOptions{SortBy: "price", SortOrder: "asc"}.compile()
	require.NoError(t, err)
	assert.Equal(t, "price", fo.Sort.Field)
	assert.Equal(t, "asc", fo.Sort.Direction)

	// Unknown fields and directions fall back instead of erroring.
	_, fo, err = ListOptions{SortBy: "deletedAt", SortOrder: "sideways"}.compile()
	require.NoError(t, err)
	assert.Equal(t, "createdAt", fo.Sort.Field)
	assert.Equal(t, "desc", fo.Sort.Direction)
}

func TestCompileCarriesFilters(t *testing.T) {
	bedrooms := 3
	opts := ListOptions{
		Search:       "garden",
		City:         "Bangalore",
		Locality:     "Koramangala",
		ListingType:  domain.TypeSale,
		PropertyType: domain.PropertyVilla,
		Status:       domain.StatusActive,
		Bedrooms:     &bedrooms,
		OwnerID:      "owner-1",
		ProjectID:    "proj-1",
	}

	p, _, err := opts.compile()
	require.NoError(t, err)
	assert.Equal(t, "garden", p.Search)
	assert.Equal(t, "Bangalore", p.City)
	assert.Equal(t, "Koramangala", p.Locality)
	assert.Equal(t, domain.TypeSale, p.ListingType)
	assert.Equal(t, domain.PropertyVilla, p.PropertyType)
	assert.Equal(t, domain.StatusActive, p.Status)
	assert.Equal(t, "owner-1", p.OwnerID)
	assert.Equal(t, "proj-1", p.ProjectID)
}
