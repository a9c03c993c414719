package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/platform/logger"
)

// ListingReader resolves a single live listing. The query engine satisfies
// it; mutations read through it so ownership checks see the same soft-delete
// rules as every other read.
type ListingReader interface {
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
}

// EventPublisher emits lifecycle events after successful mutations.
type EventPublisher interface {
	ListingCreated(l *domain.Listing) error
	ListingUpdated(l *domain.Listing) error
	ListingDeleted(id, ownerID string) error
	ListingStatusChanged(l *domain.Listing, old domain.ListingStatus) error
}

// CacheInvalidator drops a cached listing snapshot after a mutation.
type CacheInvalidator interface {
	DeleteListing(ctx context.Context, id string) error
}

// StatusMailer notifies the owner when moderation lands on a final state.
type StatusMailer interface {
	SendStatusChanged(toEmail, listingTitle, status string) error
}

type ListingUsecase struct {
	repo      domain.ListingRepository
	users     domain.UserRepository
	reader    ListingReader
	publisher EventPublisher
	cache     CacheInvalidator
	mailer    StatusMailer
	log       *logger.Logger
}

// NewListingUsecase wires the mutation side. publisher, cache and mailer are
// optional; nil disables the corresponding side effect.
func NewListingUsecase(
	repo domain.ListingRepository,
	users domain.UserRepository,
	reader ListingReader,
	publisher EventPublisher,
	cache CacheInvalidator,
	mailer StatusMailer,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:      repo,
		users:     users,
		reader:    reader,
		publisher: publisher,
		cache:     cache,
		mailer:    mailer,
		log:       log,
	}
}

type CreateListingInput struct {
	Title        string
	Description  string
	Price        float64
	ListingType  domain.ListingType
	PropertyType domain.PropertyType
	Condition    domain.PropertyCondition
	Bedrooms     *int
	Bathrooms    *int
	Balconies    *int
	Floor        *int
	TotalFloors  *int
	Area         *float64
	CarpetArea   *float64
	BuiltUpArea  *float64
	Furnishing   domain.FurnishingType
	Facing       string
	City         string
	Locality     string
	State        string
	Pincode      string
	Latitude     float64
	Longitude    float64
	ProjectID    *string
	Amenities    []domain.Amenity
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// makeSlug lowercases the title, collapses every non-alphanumeric run into a
// hyphen and appends a millisecond timestamp to keep slugs unique.
func makeSlug(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return fmt.Sprintf("%s-%d", s, time.Now().UnixMilli())
}

func (in *CreateListingInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	if in.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", domain.ErrInvalidArgument)
	}
	if !in.ListingType.Valid() {
		return fmt.Errorf("%w: unknown listing type %q", domain.ErrInvalidArgument, in.ListingType)
	}
	if !in.PropertyType.Valid() {
		return fmt.Errorf("%w: unknown property type %q", domain.ErrInvalidArgument, in.PropertyType)
	}
	if in.City == "" {
		return fmt.Errorf("%w: city is required", domain.ErrInvalidArgument)
	}
	return nil
}

// CreateListing stores a new draft owned by userID.
func (uc *ListingUsecase) CreateListing(ctx context.Context, userID string, in CreateListingInput) (*domain.Listing, error) {
	uc.log.Info("ListingUsecase.CreateListing", "user_id", userID, "title", in.Title)

	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", domain.ErrInvalidArgument)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	listing := &domain.Listing{
		Slug:         makeSlug(in.Title),
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Price:        in.Price,
		ListingType:  in.ListingType,
		PropertyType: in.PropertyType,
		Condition:    in.Condition,
		Status:       domain.StatusDraft,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		Balconies:    in.Balconies,
		Floor:        in.Floor,
		TotalFloors:  in.TotalFloors,
		Area:         in.Area,
		CarpetArea:   in.CarpetArea,
		BuiltUpArea:  in.BuiltUpArea,
		Furnishing:   in.Furnishing,
		Facing:       in.Facing,
		City:         in.City,
		Locality:     in.Locality,
		State:        in.State,
		Pincode:      in.Pincode,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		OwnerID:      userID,
		ProjectID:    in.ProjectID,
		Amenities:    in.Amenities,
	}
	if in.Area != nil && *in.Area > 0 {
		pps := in.Price / *in.Area
		listing.PricePerSqft = &pps
	}

	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.log.Error("ListingUsecase.CreateListing: create failed", "user_id", userID, "error", err.Error())
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.ListingCreated(listing); err != nil {
			uc.log.Warn("ListingUsecase.CreateListing: publish failed", "listing_id", listing.ID, "error", err.Error())
		}
	}
	return listing, nil
}

type UpdateListingInput struct {
	Title       *string
	Description *string
	Price       *float64
	Bedrooms    *int
	Bathrooms   *int
	Balconies   *int
	Floor       *int
	TotalFloors *int
	Area        *float64
	CarpetArea  *float64
	BuiltUpArea *float64
	Furnishing  *domain.FurnishingType
	Facing      *string
	Locality    *string
	Pincode     *string
	Latitude    *float64
	Longitude   *float64
	IsFeatured  *bool
	Amenities   []domain.Amenity
}

// UpdateListing applies the provided fields. Only the owner may update.
func (uc *ListingUsecase) UpdateListing(ctx context.Context, id, userID string, in UpdateListingInput) (*domain.Listing, error) {
	uc.log.Info("ListingUsecase.UpdateListing", "listing_id", id, "user_id", userID)

	listing, err := uc.reader.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != userID {
		uc.log.Warn("ListingUsecase.UpdateListing: forbidden",
			"listing_id", id, "owner_id", listing.OwnerID, "user_id", userID)
		return nil, fmt.Errorf("%w: listing %q belongs to another user", domain.ErrForbidden, id)
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidArgument)
		}
		listing.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		listing.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be positive", domain.ErrInvalidArgument)
		}
		listing.Price = *in.Price
	}
	if in.Bedrooms != nil {
		listing.Bedrooms = in.Bedrooms
	}
	if in.Bathrooms != nil {
		listing.Bathrooms = in.Bathrooms
	}
	if in.Balconies != nil {
		listing.Balconies = in.Balconies
	}
	if in.Floor != nil {
		listing.Floor = in.Floor
	}
	if in.TotalFloors != nil {
		listing.TotalFloors = in.TotalFloors
	}
	if in.Area != nil {
		listing.Area = in.Area
	}
	if in.CarpetArea != nil {
		listing.CarpetArea = in.CarpetArea
	}
	if in.BuiltUpArea != nil {
		listing.BuiltUpArea = in.BuiltUpArea
	}
	if in.Furnishing != nil {
		listing.Furnishing = *in.Furnishing
	}
	if in.Facing != nil {
		listing.Facing = *in.Facing
	}
	if in.Locality != nil {
		listing.Locality = *in.Locality
	}
	if in.Pincode != nil {
		listing.Pincode = *in.Pincode
	}
	if in.Latitude != nil {
		listing.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		listing.Longitude = *in.Longitude
	}
	if in.IsFeatured != nil {
		listing.IsFeatured = *in.IsFeatured
	}
	if in.Amenities != nil {
		listing.Amenities = in.Amenities
	}
	if listing.Area != nil && *listing.Area > 0 {
		pps := listing.Price / *listing.Area
		listing.PricePerSqft = &pps
	}

	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.log.Error("ListingUsecase.UpdateListing: update failed", "listing_id", id, "error", err.Error())
		return nil, err
	}
	uc.invalidate(ctx, id)

	if uc.publisher != nil {
		if err := uc.publisher.ListingUpdated(listing); err != nil {
			uc.log.Warn("ListingUsecase.UpdateListing: publish failed", "listing_id", id, "error", err.Error())
		}
	}
	return listing, nil
}

// UpdateStatus moves a listing to a new moderation state and notifies the
// owner by email when it becomes visible or gets rejected. Mail and event
// failures are logged, never surfaced.
func (uc *ListingUsecase) UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) (*domain.Listing, error) {
	uc.log.Info("ListingUsecase.UpdateStatus", "listing_id", id, "status", string(status))

	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, status)
	}

	listing, err := uc.reader.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	old := listing.Status

	if err := uc.repo.UpdateStatus(ctx, id, status); err != nil {
		uc.log.Error("ListingUsecase.UpdateStatus: update failed", "listing_id", id, "error", err.Error())
		return nil, err
	}
	listing.Status = status
	uc.invalidate(ctx, id)

	if uc.publisher != nil {
		if err := uc.publisher.ListingStatusChanged(listing, old); err != nil {
			uc.log.Warn("ListingUsecase.UpdateStatus: publish failed", "listing_id", id, "error", err.Error())
		}
	}
	if uc.mailer != nil && (status == domain.StatusActive || status == domain.StatusRejected) {
		uc.notifyOwner(ctx, listing)
	}
	return listing, nil
}

func (uc *ListingUsecase) notifyOwner(ctx context.Context, listing *domain.Listing) {
	owner, err := uc.users.FindByID(ctx, listing.OwnerID)
	if err != nil {
		uc.log.Warn("ListingUsecase: owner lookup for mail failed",
			"listing_id", listing.ID, "owner_id", listing.OwnerID, "error", err.Error())
		return
	}
	if owner.Email == "" {
		return
	}
	if err := uc.mailer.SendStatusChanged(owner.Email, listing.Title, string(listing.Status)); err != nil {
		uc.log.Warn("ListingUsecase: status mail failed",
			"listing_id", listing.ID, "error", err.Error())
	}
}

// DeleteListing soft-deletes. Only the owner may delete; the record stays in
// storage and disappears from every read path.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, id, userID string) error {
	uc.log.Info("ListingUsecase.DeleteListing", "listing_id", id, "user_id", userID)

	listing, err := uc.reader.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.OwnerID != userID {
		return fmt.Errorf("%w: listing %q belongs to another user", domain.ErrForbidden, id)
	}

	if err := uc.repo.SoftDelete(ctx, id); err != nil {
		uc.log.Error("ListingUsecase.DeleteListing: soft delete failed", "listing_id", id, "error", err.Error())
		return err
	}
	uc.invalidate(ctx, id)

	if uc.publisher != nil {
		if err := uc.publisher.ListingDeleted(id, listing.OwnerID); err != nil {
			uc.log.Warn("ListingUsecase.DeleteListing: publish failed", "listing_id", id, "error", err.Error())
		}
	}
	return nil
}

func (uc *ListingUsecase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteListing(ctx, id); err != nil {
		uc.log.Warn("ListingUsecase: cache invalidation failed", "listing_id", id, "error", err.Error())
	}
}
