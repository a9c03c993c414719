package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/propstack/listing-service/internal/adapter/http/middleware"
	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/listing/query"
	"github.com/propstack/listing-service/internal/listing/usecase"
)

// QueryService is the read side exposed over HTTP. *query.Engine satisfies
// it.
type QueryService interface {
	List(ctx context.Context, opts query.ListOptions) (query.PaginatedResult[domain.Listing], error)
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) (query.PaginatedResult[domain.NearbyListing], error)
	Stats(ctx context.Context) (query.ListingStats, error)
}

// MutationService is the write side. *usecase.ListingUsecase satisfies it.
type MutationService interface {
	CreateListing(ctx context.Context, userID string, in usecase.CreateListingInput) (*domain.Listing, error)
	UpdateListing(ctx context.Context, id, userID string, in usecase.UpdateListingInput) (*domain.Listing, error)
	UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) (*domain.Listing, error)
	DeleteListing(ctx context.Context, id, userID string) error
}

// PhotoService is the gallery upload path. *usecase.PhotoUsecase satisfies
// it. May be nil when no object storage is configured.
type PhotoService interface {
	AddPhoto(ctx context.Context, listingID, userID, fileName string, data []byte) (*domain.Listing, error)
}

type Handler struct {
	queries   QueryService
	mutations MutationService
	photos    PhotoService
}

func NewHandler(queries QueryService, mutations MutationService, photos PhotoService) *Handler {
	return &Handler{queries: queries, mutations: mutations, photos: photos}
}

func (h *Handler) Register(r gin.IRouter, jwtSecret string) {
	listings := r.Group("/listings")
	{
		listings.GET("", h.list)
		listings.GET("/nearby", h.nearby)
		listings.GET("/stats", h.stats)
		listings.GET("/:id", h.get)

		authed := listings.Group("", middleware.Auth(jwtSecret))
		{
			authed.POST("", h.create)
			authed.PATCH("/:id", h.update)
			authed.PATCH("/:id/status", h.updateStatus)
			authed.DELETE("/:id", h.delete)
			authed.POST("/:id/photos", h.addPhoto)
		}
	}
}

// writeError maps domain sentinels to HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrBackendUnavailable), errors.Is(err, domain.ErrInconsistentSchema):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage backend unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (h *Handler) list(c *gin.Context) {
	opts, err := parseListOptions(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.queries.List(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) get(c *gin.Context) {
	listing, err := h.queries.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *Handler) nearby(c *gin.Context) {
	p, err := parseNearbyParams(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.queries.Nearby(c.Request.Context(), p.Lat, p.Lng, p.RadiusKm, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.queries.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type createListingRequest struct {
	Title        string                   `json:"title"`
	Description  string                   `json:"description"`
	Price        float64                  `json:"price"`
	ListingType  domain.ListingType       `json:"listingType"`
	PropertyType domain.PropertyType      `json:"propertyType"`
	Condition    domain.PropertyCondition `json:"condition"`
	Bedrooms     *int                     `json:"bedrooms"`
	Bathrooms    *int                     `json:"bathrooms"`
	Balconies    *int                     `json:"balconies"`
	Floor        *int                     `json:"floor"`
	TotalFloors  *int                     `json:"totalFloors"`
	Area         *float64                 `json:"area"`
	CarpetArea   *float64                 `json:"carpetArea"`
	BuiltUpArea  *float64                 `json:"builtUpArea"`
	Furnishing   domain.FurnishingType    `json:"furnishing"`
	Facing       string                   `json:"facing"`
	City         string                   `json:"city"`
	Locality     string                   `json:"locality"`
	State        string                   `json:"state"`
	Pincode      string                   `json:"pincode"`
	Latitude     float64                  `json:"latitude"`
	Longitude    float64                  `json:"longitude"`
	ProjectID    *string                  `json:"projectId"`
	Amenities    []domain.Amenity         `json:"amenities"`
}

func (h *Handler) create(c *gin.Context) {
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	listing, err := h.mutations.CreateListing(c.Request.Context(), middleware.UserID(c), usecase.CreateListingInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		ListingType:  req.ListingType,
		PropertyType: req.PropertyType,
		Condition:    req.Condition,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Balconies:    req.Balconies,
		Floor:        req.Floor,
		TotalFloors:  req.TotalFloors,
		Area:         req.Area,
		CarpetArea:   req.CarpetArea,
		BuiltUpArea:  req.BuiltUpArea,
		Furnishing:   req.Furnishing,
		Facing:       req.Facing,
		City:         req.City,
		Locality:     req.Locality,
		State:        req.State,
		Pincode:      req.Pincode,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ProjectID:    req.ProjectID,
		Amenities:    req.Amenities,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

type updateListingRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Price       *float64               `json:"price"`
	Bedrooms    *int                   `json:"bedrooms"`
	Bathrooms   *int                   `json:"bathrooms"`
	Balconies   *int                   `json:"balconies"`
	Floor       *int                   `json:"floor"`
	TotalFloors *int                   `json:"totalFloors"`
	Area        *float64               `json:"area"`
	CarpetArea  *float64               `json:"carpetArea"`
	BuiltUpArea *float64               `json:"builtUpArea"`
	Furnishing  *domain.FurnishingType `json:"furnishing"`
	Facing      *string                `json:"facing"`
	Locality    *string                `json:"locality"`
	Pincode     *string                `json:"pincode"`
	Latitude    *float64               `json:"latitude"`
	Longitude   *float64               `json:"longitude"`
	IsFeatured  *bool                  `json:"isFeatured"`
	Amenities   []domain.Amenity       `json:"amenities"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	listing, err := h.mutations.UpdateListing(c.Request.Context(), c.Param("id"), middleware.UserID(c), usecase.UpdateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Balconies:   req.Balconies,
		Floor:       req.Floor,
		TotalFloors: req.TotalFloors,
		Area:        req.Area,
		CarpetArea:  req.CarpetArea,
		BuiltUpArea: req.BuiltUpArea,
		Furnishing:  req.Furnishing,
		Facing:      req.Facing,
		Locality:    req.Locality,
		Pincode:     req.Pincode,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsFeatured:  req.IsFeatured,
		Amenities:   req.Amenities,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

type updateStatusRequest struct {
	Status domain.ListingStatus `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	listing, err := h.mutations.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.mutations.DeleteListing(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) addPhoto(c *gin.Context) {
	if h.photos == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "photo storage is not configured"})
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"photo\" is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}

	listing, err := h.photos.AddPhoto(c.Request.Context(), c.Param("id"), middleware.UserID(c), header.Filename, data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}
