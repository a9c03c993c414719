package http

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/listing/query"
)

// Query parameters are parsed strictly: a present but malformed value is a
// client error, never silently ignored. NaN and infinities are rejected
// here so they cannot reach the geo math.

func intParam(c *gin.Context, name string) (int, bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parameter %q must be an integer", name)
	}
	return v, true, nil
}

func floatParam(c *gin.Context, name string) (float64, bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("parameter %q must be a finite number", name)
	}
	return v, true, nil
}

func boolParam(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("parameter %q must be a boolean", name)
	}
	return &v, nil
}

func parseListOptions(c *gin.Context) (query.ListOptions, error) {
	opts := query.ListOptions{
		Search:       c.Query("search"),
		City:         c.Query("city"),
		Locality:     c.Query("locality"),
		ListingType:  domain.ListingType(c.Query("listingType")),
		PropertyType: domain.PropertyType(c.Query("propertyType")),
		Status:       domain.ListingStatus(c.Query("status")),
		OwnerID:      c.Query("ownerId"),
		ProjectID:    c.Query("projectId"),
		SortBy:       c.Query("sortBy"),
		SortOrder:    c.Query("sortOrder"),
	}

	if v, ok, err := floatParam(c, "minPrice"); err != nil {
		return opts, err
	} else if ok {
		opts.MinPrice = &v
	}
	if v, ok, err := floatParam(c, "maxPrice"); err != nil {
		return opts, err
	} else if ok {
		opts.MaxPrice = &v
	}
	if v, ok, err := intParam(c, "bedrooms"); err != nil {
		return opts, err
	} else if ok {
		opts.Bedrooms = &v
	}

	var err error
	if opts.IsFeatured, err = boolParam(c, "isFeatured"); err != nil {
		return opts, err
	}
	if opts.IsVerified, err = boolParam(c, "isVerified"); err != nil {
		return opts, err
	}

	if v, _, err := intParam(c, "page"); err != nil {
		return opts, err
	} else {
		opts.Page = v
	}
	if v, _, err := intParam(c, "limit"); err != nil {
		return opts, err
	} else {
		opts.Limit = v
	}
	return opts, nil
}

type nearbyParams struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
	Limit    int
}

func parseNearbyParams(c *gin.Context) (nearbyParams, error) {
	var p nearbyParams

	lat, ok, err := floatParam(c, "lat")
	if err != nil {
		return p, err
	}
	if !ok {
		return p, fmt.Errorf("parameter %q is required", "lat")
	}
	lng, ok, err := floatParam(c, "lng")
	if err != nil {
		return p, err
	}
	if !ok {
		return p, fmt.Errorf("parameter %q is required", "lng")
	}
	p.Lat, p.Lng = lat, lng

	if v, ok, err := floatParam(c, "radius"); err != nil {
		return p, err
	} else if ok {
		p.RadiusKm = v
	}
	if v, _, err := intParam(c, "limit"); err != nil {
		return p, err
	} else {
		p.Limit = v
	}
	return p, nil
}
