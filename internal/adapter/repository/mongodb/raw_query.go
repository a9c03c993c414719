package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/listing/query"
)

// Raw-query escape hatch for deployments whose predicate layer cannot express
// the absent-or-null soft-delete match. The pipeline yields only matching
// ids; callers re-fetch them through FindMany so relation loading is not
// duplicated here.

func (r *ListingRepository) LiveIDs(ctx context.Context, p query.Predicate, fo query.FindOptions) ([]string, error) {
	p.Live = query.LiveNullOrAbsent
	match, err := compileFilter(p)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
	}
	if sd := sortDoc(fo.Sort); sd != nil {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sd}})
	}
	if fo.Skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64(fo.Skip)}})
	}
	if fo.Take > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(fo.Take)}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.M{"_id": 1}}})

	cursor, err := r.listings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate listing ids: %v", domain.ErrBackendUnavailable, err)
	}
	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode listing ids: %v", domain.ErrBackendUnavailable, err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID.Hex())
	}
	return ids, nil
}

func (r *ListingRepository) LiveCount(ctx context.Context, p query.Predicate) (int64, error) {
	p.Live = query.LiveNullOrAbsent
	match, err := compileFilter(p)
	if err != nil {
		return 0, err
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$count", Value: "n"}},
	}
	cursor, err := r.listings.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("%w: aggregate listing count: %v", domain.ErrBackendUnavailable, err)
	}
	var rows []struct {
		N int64 `bson:"n"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("%w: decode listing count: %v", domain.ErrBackendUnavailable, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].N, nil
}
