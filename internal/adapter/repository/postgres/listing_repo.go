package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/listing/query"
	"github.com/propstack/listing-service/internal/platform/logger"
)

// ListingRepository is the relational-kind persistence adapter over
// database/sql with the pgx driver. Every column always exists here, so the
// soft-delete clause is plain "deleted_at IS NULL" for both live-clause
// forms.
type ListingRepository struct {
	db  *sql.DB
	log *logger.Logger
}

func NewListingRepository(db *sql.DB, log *logger.Logger) *ListingRepository {
	return &ListingRepository{db: db, log: log}
}

func (r *ListingRepository) Kind() query.BackendKind { return query.KindRelational }

// SupportsNullOrAbsentPredicate is false: a relational row has no "absent"
// field state, IS NULL is already exact. The engine selects the LiveNull
// strategy from Kind, so this is never consulted for strategy selection.
func (r *ListingRepository) SupportsNullOrAbsentPredicate() bool { return false }

const listingColumns = `id, slug, title, description, price, price_per_sqft,
	listing_type, property_type, condition, status,
	bedrooms, bathrooms, balconies, floor, total_floors,
	area, carpet_area, built_up_area, furnishing, facing,
	city, locality, state, pincode, latitude, longitude,
	is_verified, is_featured, boost_expiry, views, clicks,
	owner_id, project_id, deleted_at, created_at, updated_at`

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"price":     "price",
	"views":     "views",
	"clicks":    "clicks",
	"title":     "title",
	"bedrooms":  "bedrooms",
	"area":      "area",
}

// whereBuilder accumulates SQL conditions and their positional arguments.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

func (b *whereBuilder) bind(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *whereBuilder) add(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *whereBuilder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

func compileWhere(p query.Predicate) *whereBuilder {
	b := &whereBuilder{}

	if p.ID != "" {
		b.add("id = " + b.bind(p.ID))
	}
	if len(p.IDs) > 0 {
		b.add("id = ANY(" + b.bind(p.IDs) + ")")
	}
	if p.Search != "" {
		pattern := "%" + p.Search + "%"
		b.add("(title ILIKE " + b.bind(pattern) + " OR city ILIKE " + b.bind(pattern) + " OR locality ILIKE " + b.bind(pattern) + ")")
	}
	if p.City != "" {
		b.add("city = " + b.bind(p.City))
	}
	if p.Locality != "" {
		b.add("locality = " + b.bind(p.Locality))
	}
	if p.ListingType != "" {
		b.add("listing_type = " + b.bind(string(p.ListingType)))
	}
	if p.PropertyType != "" {
		b.add("property_type = " + b.bind(string(p.PropertyType)))
	}
	if p.Status != "" {
		b.add("status = " + b.bind(string(p.Status)))
	}
	if p.Price != nil {
		switch {
		case p.Price.Min != nil && p.Price.Max != nil:
			b.add("(price >= " + b.bind(*p.Price.Min) + " AND price <= " + b.bind(*p.Price.Max) + ")")
		case p.Price.Min != nil:
			b.add("price >= " + b.bind(*p.Price.Min))
		case p.Price.Max != nil:
			b.add("price <= " + b.bind(*p.Price.Max))
		}
	}
	if p.Bedrooms != nil {
		b.add("bedrooms = " + b.bind(*p.Bedrooms))
	}
	if p.OwnerID != "" {
		b.add("owner_id = " + b.bind(p.OwnerID))
	}
	if p.ProjectID != "" {
		b.add("project_id = " + b.bind(p.ProjectID))
	}
	if p.IsFeatured != nil {
		b.add("is_featured = " + b.bind(*p.IsFeatured))
	}
	if p.IsVerified != nil {
		b.add("is_verified = " + b.bind(*p.IsVerified))
	}
	if p.Box != nil {
		b.add("latitude BETWEEN " + b.bind(p.Box.MinLat) + " AND " + b.bind(p.Box.MaxLat))
		b.add("longitude BETWEEN " + b.bind(p.Box.MinLng) + " AND " + b.bind(p.Box.MaxLng))
	}
	if p.Live != query.LiveAny {
		// Absent and null are the same condition in a relational row.
		b.add("deleted_at IS NULL")
	}
	return b
}

func scanListing(rows interface{ Scan(...interface{}) error }) (*domain.Listing, error) {
	var l domain.Listing
	err := rows.Scan(
		&l.ID, &l.Slug, &l.Title, &l.Description, &l.Price, &l.PricePerSqft,
		&l.ListingType, &l.PropertyType, &l.Condition, &l.Status,
		&l.Bedrooms, &l.Bathrooms, &l.Balconies, &l.Floor, &l.TotalFloors,
		&l.Area, &l.CarpetArea, &l.BuiltUpArea, &l.Furnishing, &l.Facing,
		&l.City, &l.Locality, &l.State, &l.Pincode, &l.Latitude, &l.Longitude,
		&l.IsVerified, &l.IsFeatured, &l.BoostExpiry, &l.Views, &l.Clicks,
		&l.OwnerID, &l.ProjectID, &l.DeletedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ListingRepository) FindMany(ctx context.Context, p query.Predicate, fo query.FindOptions) ([]domain.Listing, error) {
	b := compileWhere(p)
	q := "SELECT " + listingColumns + " FROM listings" + b.clause()

	sortCol := "created_at"
	dir := "DESC"
	if fo.Sort != nil {
		if col, ok := sortColumns[fo.Sort.Field]; ok {
			sortCol = col
		}
		if fo.Sort.Direction == "asc" {
			dir = "ASC"
		}
	}
	q += " ORDER BY " + sortCol + " " + dir
	if fo.Take > 0 {
		q += " LIMIT " + b.bind(fo.Take)
	}
	if fo.Skip > 0 {
		q += " OFFSET " + b.bind(fo.Skip)
	}

	rows, err := r.db.QueryContext(ctx, q, b.args...)
	if err != nil {
		return nil, fmt.Errorf("%w: select listings: %v", domain.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan listing: %v", domain.ErrBackendUnavailable, err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate listings: %v", domain.ErrBackendUnavailable, err)
	}

	if fo.IncludeRelations {
		if err := r.hydrate(ctx, out); err != nil {
			return nil, err
		}
	}
	if out == nil {
		out = []domain.Listing{}
	}
	return out, nil
}

func (r *ListingRepository) Count(ctx context.Context, p query.Predicate) (int64, error) {
	b := compileWhere(p)
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings"+b.clause(), b.args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: count listings: %v", domain.ErrBackendUnavailable, err)
	}
	return n, nil
}

func (r *ListingRepository) FindFirst(ctx context.Context, p query.Predicate) (*domain.Listing, error) {
	b := compileWhere(p)
	q := "SELECT " + listingColumns + " FROM listings" + b.clause() + " LIMIT 1"

	l, err := scanListing(r.db.QueryRowContext(ctx, q, b.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select listing: %v", domain.ErrBackendUnavailable, err)
	}

	one := []domain.Listing{*l}
	if err := r.hydrate(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// hydrate batch-loads images, amenities, owners and projects for a page of
// listings with one query per relation.
func (r *ListingRepository) hydrate(ctx context.Context, listings []domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	index := make(map[string]int, len(listings))
	ids := make([]string, 0, len(listings))
	ownerIDs := make([]string, 0, len(listings))
	projectIDs := make([]string, 0)
	ownerSeen := map[string]bool{}
	for i := range listings {
		index[listings[i].ID] = i
		ids = append(ids, listings[i].ID)
		if !ownerSeen[listings[i].OwnerID] {
			ownerSeen[listings[i].OwnerID] = true
			ownerIDs = append(ownerIDs, listings[i].OwnerID)
		}
		if listings[i].ProjectID != nil {
			projectIDs = append(projectIDs, *listings[i].ProjectID)
		}
	}

	imgRows, err := r.db.QueryContext(ctx,
		`SELECT listing_id, id, url, is_primary, position FROM listing_images
		 WHERE listing_id = ANY($1) ORDER BY position ASC`, ids)
	if err != nil {
		return fmt.Errorf("%w: select listing images: %v", domain.ErrBackendUnavailable, err)
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var listingID string
		var img domain.ListingImage
		if err := imgRows.Scan(&listingID, &img.ID, &img.URL, &img.IsPrimary, &img.Order); err != nil {
			return fmt.Errorf("%w: scan listing image: %v", domain.ErrBackendUnavailable, err)
		}
		if i, ok := index[listingID]; ok {
			listings[i].Images = append(listings[i].Images, img)
		}
	}
	if err := imgRows.Err(); err != nil {
		return fmt.Errorf("%w: iterate listing images: %v", domain.ErrBackendUnavailable, err)
	}

	amRows, err := r.db.QueryContext(ctx,
		`SELECT la.listing_id, a.id, a.name, a.category
		 FROM listing_amenities la JOIN amenities a ON a.id = la.amenity_id
		 WHERE la.listing_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("%w: select listing amenities: %v", domain.ErrBackendUnavailable, err)
	}
	defer amRows.Close()
	for amRows.Next() {
		var listingID string
		var a domain.Amenity
		if err := amRows.Scan(&listingID, &a.ID, &a.Name, &a.Category); err != nil {
			return fmt.Errorf("%w: scan amenity: %v", domain.ErrBackendUnavailable, err)
		}
		if i, ok := index[listingID]; ok {
			listings[i].Amenities = append(listings[i].Amenities, a)
		}
	}
	if err := amRows.Err(); err != nil {
		return fmt.Errorf("%w: iterate amenities: %v", domain.ErrBackendUnavailable, err)
	}

	users := map[string]*domain.User{}
	userRows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, phone, role FROM users WHERE id = ANY($1)`, ownerIDs)
	if err != nil {
		return fmt.Errorf("%w: select owners: %v", domain.ErrBackendUnavailable, err)
	}
	defer userRows.Close()
	for userRows.Next() {
		var u domain.User
		if err := userRows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role); err != nil {
			return fmt.Errorf("%w: scan owner: %v", domain.ErrBackendUnavailable, err)
		}
		users[u.ID] = &u
	}
	if err := userRows.Err(); err != nil {
		return fmt.Errorf("%w: iterate owners: %v", domain.ErrBackendUnavailable, err)
	}

	projects := map[string]*domain.Project{}
	if len(projectIDs) > 0 {
		projRows, err := r.db.QueryContext(ctx,
			`SELECT id, name, city FROM projects WHERE id = ANY($1)`, projectIDs)
		if err != nil {
			return fmt.Errorf("%w: select projects: %v", domain.ErrBackendUnavailable, err)
		}
		defer projRows.Close()
		for projRows.Next() {
			var p domain.Project
			if err := projRows.Scan(&p.ID, &p.Name, &p.City); err != nil {
				return fmt.Errorf("%w: scan project: %v", domain.ErrBackendUnavailable, err)
			}
			projects[p.ID] = &p
		}
		if err := projRows.Err(); err != nil {
			return fmt.Errorf("%w: iterate projects: %v", domain.ErrBackendUnavailable, err)
		}
	}

	for i := range listings {
		listings[i].Owner = users[listings[i].OwnerID]
		if listings[i].ProjectID != nil {
			listings[i].Project = projects[*listings[i].ProjectID]
		}
	}
	return nil
}

func (r *ListingRepository) Create(ctx context.Context, l *domain.Listing) error {
	now := time.Now().UTC()
	l.ID = uuid.NewString()
	l.CreatedAt = now
	l.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", domain.ErrBackendUnavailable, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO listings (`+listingColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
		         $19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,$36)`,
		l.ID, l.Slug, l.Title, l.Description, l.Price, l.PricePerSqft,
		string(l.ListingType), string(l.PropertyType), string(l.Condition), string(l.Status),
		l.Bedrooms, l.Bathrooms, l.Balconies, l.Floor, l.TotalFloors,
		l.Area, l.CarpetArea, l.BuiltUpArea, string(l.Furnishing), l.Facing,
		l.City, l.Locality, l.State, l.Pincode, l.Latitude, l.Longitude,
		l.IsVerified, l.IsFeatured, l.BoostExpiry, l.Views, l.Clicks,
		l.OwnerID, l.ProjectID, l.DeletedAt, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: insert listing: %v", domain.ErrBackendUnavailable, err)
	}

	if err := replaceRelations(ctx, tx, l); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

func (r *ListingRepository) Update(ctx context.Context, l *domain.Listing) error {
	l.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", domain.ErrBackendUnavailable, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE listings SET
		    slug=$2, title=$3, description=$4, price=$5, price_per_sqft=$6,
		    listing_type=$7, property_type=$8, condition=$9, status=$10,
		    bedrooms=$11, bathrooms=$12, balconies=$13, floor=$14, total_floors=$15,
		    area=$16, carpet_area=$17, built_up_area=$18, furnishing=$19, facing=$20,
		    city=$21, locality=$22, state=$23, pincode=$24, latitude=$25, longitude=$26,
		    is_verified=$27, is_featured=$28, boost_expiry=$29, views=$30, clicks=$31,
		    project_id=$32, updated_at=$33
		 WHERE id=$1`,
		l.ID, l.Slug, l.Title, l.Description, l.Price, l.PricePerSqft,
		string(l.ListingType), string(l.PropertyType), string(l.Condition), string(l.Status),
		l.Bedrooms, l.Bathrooms, l.Balconies, l.Floor, l.TotalFloors,
		l.Area, l.CarpetArea, l.BuiltUpArea, string(l.Furnishing), l.Facing,
		l.City, l.Locality, l.State, l.Pincode, l.Latitude, l.Longitude,
		l.IsVerified, l.IsFeatured, l.BoostExpiry, l.Views, l.Clicks,
		l.ProjectID, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: update listing: %v", domain.ErrBackendUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %q", domain.ErrNotFound, l.ID)
	}

	if err := replaceRelations(ctx, tx, l); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}

func replaceRelations(ctx context.Context, tx *sql.Tx, l *domain.Listing) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM listing_images WHERE listing_id=$1`, l.ID); err != nil {
		return fmt.Errorf("%w: clear listing images: %v", domain.ErrBackendUnavailable, err)
	}
	for i := range l.Images {
		img := &l.Images[i]
		if img.ID == "" {
			img.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO listing_images (id, listing_id, url, is_primary, position)
			 VALUES ($1,$2,$3,$4,$5)`,
			img.ID, l.ID, img.URL, img.IsPrimary, img.Order)
		if err != nil {
			return fmt.Errorf("%w: insert listing image: %v", domain.ErrBackendUnavailable, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM listing_amenities WHERE listing_id=$1`, l.ID); err != nil {
		return fmt.Errorf("%w: clear listing amenities: %v", domain.ErrBackendUnavailable, err)
	}
	for _, a := range l.Amenities {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO listing_amenities (listing_id, amenity_id) VALUES ($1,$2)`,
			l.ID, a.ID)
		if err != nil {
			return fmt.Errorf("%w: insert listing amenity: %v", domain.ErrBackendUnavailable, err)
		}
	}
	return nil
}

func (r *ListingRepository) UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE listings SET status=$2, updated_at=$3 WHERE id=$1`,
		id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: update listing status: %v", domain.ErrBackendUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %q", domain.ErrNotFound, id)
	}
	return nil
}

// SoftDelete writes the deleted_at mark; the row is never removed.
func (r *ListingRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE listings SET deleted_at=$2, updated_at=$2 WHERE id=$1`, id, now)
	if err != nil {
		return fmt.Errorf("%w: soft-delete listing: %v", domain.ErrBackendUnavailable, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %q", domain.ErrNotFound, id)
	}
	return nil
}
