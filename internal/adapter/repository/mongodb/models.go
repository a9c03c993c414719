package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/propstack/listing-service/internal/listing/domain"
)

// listingDocument is the storage shape of a listing. deletedAt carries
// omitempty on purpose: a listing that was never deleted has no deletedAt
// field at all, which is exactly the document-backend condition the read
// paths must tolerate.
type listingDocument struct {
	ID           primitive.ObjectID       `bson:"_id,omitempty"`
	Slug         string                   `bson:"slug"`
	Title        string                   `bson:"title"`
	Description  string                   `bson:"description"`
	Price        float64                  `bson:"price"`
	PricePerSqft *float64                 `bson:"pricePerSqft,omitempty"`
	ListingType  domain.ListingType       `bson:"listingType"`
	PropertyType domain.PropertyType      `bson:"propertyType"`
	Condition    domain.PropertyCondition `bson:"condition,omitempty"`
	Status       domain.ListingStatus     `bson:"status"`
	Bedrooms     *int                     `bson:"bedrooms,omitempty"`
	Bathrooms    *int                     `bson:"bathrooms,omitempty"`
	Balconies    *int                     `bson:"balconies,omitempty"`
	Floor        *int                     `bson:"floor,omitempty"`
	TotalFloors  *int                     `bson:"totalFloors,omitempty"`
	Area         *float64                 `bson:"area,omitempty"`
	CarpetArea   *float64                 `bson:"carpetArea,omitempty"`
	BuiltUpArea  *float64                 `bson:"builtUpArea,omitempty"`
	Furnishing   domain.FurnishingType    `bson:"furnishing,omitempty"`
	Facing       string                   `bson:"facing,omitempty"`
	City         string                   `bson:"city"`
	Locality     string                   `bson:"locality"`
	State        string                   `bson:"state"`
	Pincode      string                   `bson:"pincode,omitempty"`
	Latitude     float64                  `bson:"latitude"`
	Longitude    float64                  `bson:"longitude"`
	IsVerified   bool                     `bson:"isVerified"`
	IsFeatured   bool                     `bson:"isFeatured"`
	BoostExpiry  *time.Time               `bson:"boostExpiry,omitempty"`
	Views        int64                    `bson:"views"`
	Clicks       int64                    `bson:"clicks"`
	OwnerID      string                   `bson:"ownerId"`
	ProjectID    *string                  `bson:"projectId,omitempty"`
	Images       []imageDocument          `bson:"images,omitempty"`
	AmenityIDs   []string                 `bson:"amenityIds,omitempty"`
	DeletedAt    *time.Time               `bson:"deletedAt,omitempty"`
	CreatedAt    time.Time                `bson:"createdAt"`
	UpdatedAt    time.Time                `bson:"updatedAt"`
}

type imageDocument struct {
	URL       string `bson:"url"`
	IsPrimary bool   `bson:"isPrimary"`
	Order     int    `bson:"order"`
}

type userDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
	Phone string             `bson:"phone,omitempty"`
	Role  string             `bson:"role,omitempty"`
}

type projectDocument struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
	City string             `bson:"city,omitempty"`
}

type amenityDocument struct {
	ID       primitive.ObjectID     `bson:"_id"`
	Name     string                 `bson:"name"`
	Category domain.AmenityCategory `bson:"category,omitempty"`
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}

	docID := primitive.NilObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid listing id %q: %w", l.ID, err)
		}
	}

	doc := &listingDocument{
		ID:           docID,
		Slug:         l.Slug,
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price,
		PricePerSqft: l.PricePerSqft,
		ListingType:  l.ListingType,
		PropertyType: l.PropertyType,
		Condition:    l.Condition,
		Status:       l.Status,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		Balconies:    l.Balconies,
		Floor:        l.Floor,
		TotalFloors:  l.TotalFloors,
		Area:         l.Area,
		CarpetArea:   l.CarpetArea,
		BuiltUpArea:  l.BuiltUpArea,
		Furnishing:   l.Furnishing,
		Facing:       l.Facing,
		City:         l.City,
		Locality:     l.Locality,
		State:        l.State,
		Pincode:      l.Pincode,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		IsVerified:   l.IsVerified,
		IsFeatured:   l.IsFeatured,
		BoostExpiry:  l.BoostExpiry,
		Views:        l.Views,
		Clicks:       l.Clicks,
		OwnerID:      l.OwnerID,
		ProjectID:    l.ProjectID,
		DeletedAt:    l.DeletedAt,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	for _, img := range l.Images {
		doc.Images = append(doc.Images, imageDocument{URL: img.URL, IsPrimary: img.IsPrimary, Order: img.Order})
	}
	for _, a := range l.Amenities {
		doc.AmenityIDs = append(doc.AmenityIDs, a.ID)
	}
	return doc, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	l := &domain.Listing{
		ID:           d.ID.Hex(),
		Slug:         d.Slug,
		Title:        d.Title,
		Description:  d.Description,
		Price:        d.Price,
		PricePerSqft: d.PricePerSqft,
		ListingType:  d.ListingType,
		PropertyType: d.PropertyType,
		Condition:    d.Condition,
		Status:       d.Status,
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		Balconies:    d.Balconies,
		Floor:        d.Floor,
		TotalFloors:  d.TotalFloors,
		Area:         d.Area,
		CarpetArea:   d.CarpetArea,
		BuiltUpArea:  d.BuiltUpArea,
		Furnishing:   d.Furnishing,
		Facing:       d.Facing,
		City:         d.City,
		Locality:     d.Locality,
		State:        d.State,
		Pincode:      d.Pincode,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		IsVerified:   d.IsVerified,
		IsFeatured:   d.IsFeatured,
		BoostExpiry:  d.BoostExpiry,
		Views:        d.Views,
		Clicks:       d.Clicks,
		OwnerID:      d.OwnerID,
		ProjectID:    d.ProjectID,
		DeletedAt:    d.DeletedAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	for _, img := range d.Images {
		l.Images = append(l.Images, domain.ListingImage{URL: img.URL, IsPrimary: img.IsPrimary, Order: img.Order})
	}
	for _, id := range d.AmenityIDs {
		l.Amenities = append(l.Amenities, domain.Amenity{ID: id})
	}
	return l
}

func toDomainUser(d *userDocument) *domain.User {
	if d == nil {
		return nil
	}
	return &domain.User{
		ID:    d.ID.Hex(),
		Name:  d.Name,
		Email: d.Email,
		Phone: d.Phone,
		Role:  d.Role,
	}
}
