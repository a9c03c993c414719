package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/platform/logger"
)

type UserRepository struct {
	collection *mongo.Collection
	log        *logger.Logger
}

func NewUserRepository(db *mongo.Database, log *logger.Logger) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
		log:        log,
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: user id %q", domain.ErrNotFound, id)
	}

	var doc userDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: user id %q", domain.ErrNotFound, id)
	}
	if err != nil {
		r.log.Error("UserRepository.FindByID: query failed", "user_id", id, "error", err.Error())
		return nil, fmt.Errorf("%w: find user: %v", domain.ErrBackendUnavailable, err)
	}
	return toDomainUser(&doc), nil
}
