package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/listing/query"
	"github.com/propstack/listing-service/internal/platform/logger"
)

// errBadID marks a syntactically invalid object id. Reads treat it as
// "no such record" rather than a backend failure.
var errBadID = errors.New("invalid object id")

// ListingRepository is the document-kind persistence adapter. It implements
// both the query gateway (reads) and the domain write repository over a
// single listings collection, with users/projects/amenities collections used
// for relation loading.
type ListingRepository struct {
	listings  *mongo.Collection
	users     *mongo.Collection
	projects  *mongo.Collection
	amenities *mongo.Collection
	log       *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		listings:  db.Collection("listings"),
		users:     db.Collection("users"),
		projects:  db.Collection("projects"),
		amenities: db.Collection("amenities"),
		log:       log,
	}
}

func (r *ListingRepository) Kind() query.BackendKind { return query.KindDocument }

// SupportsNullOrAbsentPredicate is true: the driver's predicate language can
// express {$or: [{deletedAt: {$exists: false}}, {deletedAt: null}]} directly,
// so the aggregation escape hatch is not needed for this adapter.
func (r *ListingRepository) SupportsNullOrAbsentPredicate() bool { return true }

// compileFilter translates the backend-agnostic predicate into a bson filter.
// Zero-valued predicate fields produce no clause.
func compileFilter(p query.Predicate) (bson.M, error) {
	clauses := make([]bson.M, 0, 8)

	if p.ID != "" {
		oid, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errBadID, p.ID)
		}
		clauses = append(clauses, bson.M{"_id": oid})
	}
	if len(p.IDs) > 0 {
		oids := make([]primitive.ObjectID, 0, len(p.IDs))
		for _, id := range p.IDs {
			oid, err := primitive.ObjectIDFromHex(id)
			if err != nil {
				return nil, fmt.Errorf("%w: raw id %q is not an object id", domain.ErrInconsistentSchema, id)
			}
			oids = append(oids, oid)
		}
		clauses = append(clauses, bson.M{"_id": bson.M{"$in": oids}})
	}

	if p.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(p.Search), Options: "i"}
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"title": rx},
			{"city": rx},
			{"locality": rx},
		}})
	}
	if p.City != "" {
		clauses = append(clauses, bson.M{"city": p.City})
	}
	if p.Locality != "" {
		clauses = append(clauses, bson.M{"locality": p.Locality})
	}
	if p.ListingType != "" {
		clauses = append(clauses, bson.M{"listingType": p.ListingType})
	}
	if p.PropertyType != "" {
		clauses = append(clauses, bson.M{"propertyType": p.PropertyType})
	}
	if p.Status != "" {
		clauses = append(clauses, bson.M{"status": p.Status})
	}
	if p.Price != nil {
		rng := bson.M{}
		if p.Price.Min != nil {
			rng["$gte"] = *p.Price.Min
		}
		if p.Price.Max != nil {
			rng["$lte"] = *p.Price.Max
		}
		clauses = append(clauses, bson.M{"price": rng})
	}
	if p.Bedrooms != nil {
		clauses = append(clauses, bson.M{"bedrooms": *p.Bedrooms})
	}
	if p.OwnerID != "" {
		clauses = append(clauses, bson.M{"ownerId": p.OwnerID})
	}
	if p.ProjectID != "" {
		clauses = append(clauses, bson.M{"projectId": p.ProjectID})
	}
	if p.IsFeatured != nil {
		clauses = append(clauses, bson.M{"isFeatured": *p.IsFeatured})
	}
	if p.IsVerified != nil {
		clauses = append(clauses, bson.M{"isVerified": *p.IsVerified})
	}
	if p.Box != nil {
		clauses = append(clauses,
			bson.M{"latitude": bson.M{"$gte": p.Box.MinLat, "$lte": p.Box.MaxLat}},
			bson.M{"longitude": bson.M{"$gte": p.Box.MinLng, "$lte": p.Box.MaxLng}},
		)
	}

	switch p.Live {
	case query.LiveNull:
		clauses = append(clauses, bson.M{"deletedAt": nil})
	case query.LiveNullOrAbsent:
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"deletedAt": bson.M{"$exists": false}},
			{"deletedAt": nil},
		}})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}, nil
	case 1:
		return clauses[0], nil
	default:
		return bson.M{"$and": clauses}, nil
	}
}

func sortDoc(sort *query.OrderBy) bson.D {
	if sort == nil {
		return nil
	}
	dir := -1
	if sort.Direction == "asc" {
		dir = 1
	}
	return bson.D{{Key: sort.Field, Value: dir}}
}

func (r *ListingRepository) FindMany(ctx context.Context, p query.Predicate, fo query.FindOptions) ([]domain.Listing, error) {
	filter, err := compileFilter(p)
	if err != nil {
		if errors.Is(err, errBadID) {
			return []domain.Listing{}, nil
		}
		return nil, err
	}

	opts := options.Find()
	if sd := sortDoc(fo.Sort); sd != nil {
		opts.SetSort(sd)
	}
	if fo.Skip > 0 {
		opts.SetSkip(int64(fo.Skip))
	}
	if fo.Take > 0 {
		opts.SetLimit(int64(fo.Take))
	}

	cursor, err := r.listings.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find listings: %v", domain.ErrBackendUnavailable, err)
	}
	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode listings: %v", domain.ErrBackendUnavailable, err)
	}

	out := make([]domain.Listing, 0, len(docs))
	for i := range docs {
		out = append(out, *toDomainListing(&docs[i]))
	}
	if fo.IncludeRelations {
		if err := r.hydrate(ctx, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *ListingRepository) Count(ctx context.Context, p query.Predicate) (int64, error) {
	filter, err := compileFilter(p)
	if err != nil {
		if errors.Is(err, errBadID) {
			return 0, nil
		}
		return 0, err
	}
	n, err := r.listings.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%w: count listings: %v", domain.ErrBackendUnavailable, err)
	}
	return n, nil
}

func (r *ListingRepository) FindFirst(ctx context.Context, p query.Predicate) (*domain.Listing, error) {
	filter, err := compileFilter(p)
	if err != nil {
		if errors.Is(err, errBadID) {
			return nil, nil
		}
		return nil, err
	}

	var doc listingDocument
	err = r.listings.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find listing: %v", domain.ErrBackendUnavailable, err)
	}

	listing := toDomainListing(&doc)
	one := []domain.Listing{*listing}
	if err := r.hydrate(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// hydrate batch-loads owners, projects and amenity names for a page of
// listings.
func (r *ListingRepository) hydrate(ctx context.Context, listings []domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	ownerIDs := make([]primitive.ObjectID, 0, len(listings))
	projectIDs := make([]primitive.ObjectID, 0)
	amenityIDs := make([]primitive.ObjectID, 0)
	seen := map[string]bool{}
	collect := func(dst *[]primitive.ObjectID, id string) {
		if id == "" || seen[id] {
			return
		}
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return
		}
		seen[id] = true
		*dst = append(*dst, oid)
	}
	for i := range listings {
		collect(&ownerIDs, listings[i].OwnerID)
		if listings[i].ProjectID != nil {
			collect(&projectIDs, *listings[i].ProjectID)
		}
		for _, a := range listings[i].Amenities {
			collect(&amenityIDs, a.ID)
		}
	}

	users := map[string]*domain.User{}
	if len(ownerIDs) > 0 {
		cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ownerIDs}})
		if err != nil {
			return fmt.Errorf("%w: load owners: %v", domain.ErrBackendUnavailable, err)
		}
		var docs []userDocument
		if err := cursor.All(ctx, &docs); err != nil {
			return fmt.Errorf("%w: decode owners: %v", domain.ErrBackendUnavailable, err)
		}
		for i := range docs {
			users[docs[i].ID.Hex()] = toDomainUser(&docs[i])
		}
	}

	projects := map[string]*domain.Project{}
	if len(projectIDs) > 0 {
		cursor, err := r.projects.Find(ctx, bson.M{"_id": bson.M{"$in": projectIDs}})
		if err != nil {
			return fmt.Errorf("%w: load projects: %v", domain.ErrBackendUnavailable, err)
		}
		var docs []projectDocument
		if err := cursor.All(ctx, &docs); err != nil {
			return fmt.Errorf("%w: decode projects: %v", domain.ErrBackendUnavailable, err)
		}
		for i := range docs {
			projects[docs[i].ID.Hex()] = &domain.Project{ID: docs[i].ID.Hex(), Name: docs[i].Name, City: docs[i].City}
		}
	}

	amenities := map[string]domain.Amenity{}
	if len(amenityIDs) > 0 {
		cursor, err := r.amenities.Find(ctx, bson.M{"_id": bson.M{"$in": amenityIDs}})
		if err != nil {
			return fmt.Errorf("%w: load amenities: %v", domain.ErrBackendUnavailable, err)
		}
		var docs []amenityDocument
		if err := cursor.All(ctx, &docs); err != nil {
			return fmt.Errorf("%w: decode amenities: %v", domain.ErrBackendUnavailable, err)
		}
		for _, d := range docs {
			amenities[d.ID.Hex()] = domain.Amenity{ID: d.ID.Hex(), Name: d.Name, Category: d.Category}
		}
	}

	for i := range listings {
		listings[i].Owner = users[listings[i].OwnerID]
		if listings[i].ProjectID != nil {
			listings[i].Project = projects[*listings[i].ProjectID]
		}
		for j, a := range listings[i].Amenities {
			if full, ok := amenities[a.ID]; ok {
				listings[i].Amenities[j] = full
			}
		}
	}
	return nil
}

// Create inserts a new listing and fills in its generated id and timestamps.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	now := time.Now().UTC()
	listing.ID = primitive.NewObjectID().Hex()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	if _, err := r.listings.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: insert listing: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	listing.UpdatedAt = time.Now().UTC()
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	res, err := r.listings.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("%w: update listing: %v", domain.ErrBackendUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: id %q", domain.ErrNotFound, listing.ID)
	}
	return nil
}

func (r *ListingRepository) UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: id %q", domain.ErrNotFound, id)
	}
	res, err := r.listings.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("%w: update listing status: %v", domain.ErrBackendUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: id %q", domain.ErrNotFound, id)
	}
	return nil
}

// SoftDelete writes the deletedAt mark; the document is never removed.
func (r *ListingRepository) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: id %q", domain.ErrNotFound, id)
	}
	now := time.Now().UTC()
	res, err := r.listings.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"deletedAt": now,
		"updatedAt": now,
	}})
	if err != nil {
		return fmt.Errorf("%w: soft-delete listing: %v", domain.ErrBackendUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: id %q", domain.ErrNotFound, id)
	}
	return nil
}
