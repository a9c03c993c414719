package domain

import "time"

type ListingType string

const (
	TypeSale  ListingType = "SALE"
	TypeRent  ListingType = "RENT"
	TypeLease ListingType = "LEASE"
)

func (t ListingType) Valid() bool {
	switch t {
	case TypeSale, TypeRent, TypeLease:
		return true
	}
	return false
}

type PropertyType string

const (
	PropertyApartment          PropertyType = "APARTMENT"
	PropertyIndependentHouse   PropertyType = "INDEPENDENT_HOUSE"
	PropertyVilla              PropertyType = "VILLA"
	PropertyStudioApartment    PropertyType = "STUDIO_APARTMENT"
	PropertyPenthouse          PropertyType = "PENTHOUSE"
	PropertyBuilderFloor       PropertyType = "BUILDER_FLOOR"
	PropertyOfficeSpace        PropertyType = "OFFICE_SPACE"
	PropertyShop               PropertyType = "SHOP"
	PropertyShowroom           PropertyType = "SHOWROOM"
	PropertyWarehouse          PropertyType = "WAREHOUSE"
	PropertyIndustrialBuilding PropertyType = "INDUSTRIAL_BUILDING"
	PropertyCoWorking          PropertyType = "CO_WORKING"
	PropertyResidentialPlot    PropertyType = "RESIDENTIAL_PLOT"
	PropertyCommercialPlot     PropertyType = "COMMERCIAL_PLOT"
	PropertyAgriculturalLand   PropertyType = "AGRICULTURAL_LAND"
	PropertyPG                 PropertyType = "PG"
	PropertyHostel             PropertyType = "HOSTEL"
)

func (p PropertyType) Valid() bool {
	switch p {
	case PropertyApartment, PropertyIndependentHouse, PropertyVilla,
		PropertyStudioApartment, PropertyPenthouse, PropertyBuilderFloor,
		PropertyOfficeSpace, PropertyShop, PropertyShowroom, PropertyWarehouse,
		PropertyIndustrialBuilding, PropertyCoWorking, PropertyResidentialPlot,
		PropertyCommercialPlot, PropertyAgriculturalLand, PropertyPG,
		PropertyHostel:
		return true
	}
	return false
}

type ListingStatus string

const (
	StatusDraft           ListingStatus = "DRAFT"
	StatusPendingApproval ListingStatus = "PENDING_APPROVAL"
	StatusActive          ListingStatus = "ACTIVE"
	StatusUnderReview     ListingStatus = "UNDER_REVIEW"
	StatusSold            ListingStatus = "SOLD"
	StatusRented          ListingStatus = "RENTED"
	StatusExpired         ListingStatus = "EXPIRED"
	StatusRejected        ListingStatus = "REJECTED"
	StatusBlocked         ListingStatus = "BLOCKED"
	StatusArchived        ListingStatus = "ARCHIVED"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusActive, StatusUnderReview,
		StatusSold, StatusRented, StatusExpired, StatusRejected, StatusBlocked,
		StatusArchived:
		return true
	}
	return false
}

type PropertyCondition string

const (
	ConditionNew               PropertyCondition = "NEW"
	ConditionResale            PropertyCondition = "RESALE"
	ConditionUnderConstruction PropertyCondition = "UNDER_CONSTRUCTION"
	ConditionReadyToMove       PropertyCondition = "READY_TO_MOVE"
)

type FurnishingType string

const (
	Unfurnished    FurnishingType = "UNFURNISHED"
	SemiFurnished  FurnishingType = "SEMI_FURNISHED"
	FullyFurnished FurnishingType = "FULLY_FURNISHED"
)

// Listing is a property advertisement. DeletedAt marks soft deletion: the
// record stays in storage and is filtered out of every read path.
type Listing struct {
	ID           string            `json:"id"`
	Slug         string            `json:"slug"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Price        float64           `json:"price"`
	PricePerSqft *float64          `json:"pricePerSqft,omitempty"`
	ListingType  ListingType       `json:"listingType"`
	PropertyType PropertyType      `json:"propertyType"`
	Condition    PropertyCondition `json:"condition,omitempty"`
	Status       ListingStatus     `json:"status"`
	Bedrooms     *int              `json:"bedrooms,omitempty"`
	Bathrooms    *int              `json:"bathrooms,omitempty"`
	Balconies    *int              `json:"balconies,omitempty"`
	Floor        *int              `json:"floor,omitempty"`
	TotalFloors  *int              `json:"totalFloors,omitempty"`
	Area         *float64          `json:"area,omitempty"`
	CarpetArea   *float64          `json:"carpetArea,omitempty"`
	BuiltUpArea  *float64          `json:"builtUpArea,omitempty"`
	Furnishing   FurnishingType    `json:"furnishing,omitempty"`
	Facing       string            `json:"facing,omitempty"`
	City         string            `json:"city"`
	Locality     string            `json:"locality"`
	State        string            `json:"state"`
	Pincode      string            `json:"pincode,omitempty"`
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
	IsVerified   bool              `json:"isVerified"`
	IsFeatured   bool              `json:"isFeatured"`
	BoostExpiry  *time.Time        `json:"boostExpiry,omitempty"`
	Views        int64             `json:"views"`
	Clicks       int64             `json:"clicks"`
	OwnerID      string            `json:"ownerId"`
	Owner        *User             `json:"owner,omitempty"`
	ProjectID    *string           `json:"projectId,omitempty"`
	Project      *Project          `json:"project,omitempty"`
	Images       []ListingImage    `json:"images,omitempty"`
	Amenities    []Amenity         `json:"amenities,omitempty"`
	DeletedAt    *time.Time        `json:"deletedAt,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// Live reports whether the listing has not been soft-deleted.
func (l *Listing) Live() bool {
	return l.DeletedAt == nil
}

// NearbyListing is a listing annotated with its great-circle distance from a
// proximity-search origin.
type NearbyListing struct {
	Listing
	DistanceKm float64 `json:"distanceKm"`
}

type ListingImage struct {
	ID        string `json:"id,omitempty"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"isPrimary"`
	Order     int    `json:"order"`
}

type AmenityCategory string

const (
	AmenityBasic       AmenityCategory = "BASIC"
	AmenitySecurity    AmenityCategory = "SECURITY"
	AmenityLifestyle   AmenityCategory = "LIFESTYLE"
	AmenitySports      AmenityCategory = "SPORTS"
	AmenityPowerBackup AmenityCategory = "POWER_BACKUP"
	AmenityWaterSupply AmenityCategory = "WATER_SUPPLY"
)

type Amenity struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category AmenityCategory `json:"category,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}
