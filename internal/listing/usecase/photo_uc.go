package usecase

import (
	"context"
	"fmt"

	"github.com/propstack/listing-service/internal/listing/domain"
	"github.com/propstack/listing-service/internal/platform/logger"
)

// 10 MiB is enough for any reasonable listing photo.
const maxPhotoBytes = 10 << 20

// PhotoStorage uploads raw image bytes and returns a public URL.
type PhotoStorage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

type PhotoUsecase struct {
	repo    domain.ListingRepository
	reader  ListingReader
	storage PhotoStorage
	cache   CacheInvalidator
	log     *logger.Logger
}

func NewPhotoUsecase(repo domain.ListingRepository, reader ListingReader, storage PhotoStorage, cache CacheInvalidator, log *logger.Logger) *PhotoUsecase {
	return &PhotoUsecase{repo: repo, reader: reader, storage: storage, cache: cache, log: log}
}

// AddPhoto uploads the image and appends it to the listing's gallery. The
// first photo becomes the primary one.
func (uc *PhotoUsecase) AddPhoto(ctx context.Context, listingID, userID, fileName string, data []byte) (*domain.Listing, error) {
	uc.log.Info("PhotoUsecase.AddPhoto", "listing_id", listingID, "user_id", userID, "file", fileName, "bytes", len(data))

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty photo payload", domain.ErrInvalidArgument)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("%w: photo exceeds %d bytes", domain.ErrInvalidArgument, maxPhotoBytes)
	}

	listing, err := uc.reader.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.OwnerID != userID {
		return nil, fmt.Errorf("%w: listing %q belongs to another user", domain.ErrForbidden, listingID)
	}

	url, err := uc.storage.Upload(ctx, fileName, data)
	if err != nil {
		uc.log.Error("PhotoUsecase.AddPhoto: upload failed", "listing_id", listingID, "error", err.Error())
		return nil, err
	}

	listing.Images = append(listing.Images, domain.ListingImage{
		URL:       url,
		IsPrimary: len(listing.Images) == 0,
		Order:     len(listing.Images),
	})
	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.log.Error("PhotoUsecase.AddPhoto: persist failed", "listing_id", listingID, "error", err.Error())
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.DeleteListing(ctx, listingID); err != nil {
			uc.log.Warn("PhotoUsecase.AddPhoto: cache invalidation failed", "listing_id", listingID, "error", err.Error())
		}
	}
	return listing, nil
}
