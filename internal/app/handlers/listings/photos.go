package listings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/uow"
	"stayhub/internal/infra/storage/s3"
)

const uploadPhotoKey = "listings.photos.upload"

type UploadPhotoCommand struct {
	OwnerID     string
	ListingID   string
	FileName    string
	ContentType string
	Body        io.Reader
}

func (c UploadPhotoCommand) Key() string { return uploadPhotoKey }

type UploadPhotoResult struct {
	ListingID string   `json:"listing_id"`
	Photos    []string `json:"photos"`
}

type UploadPhotoHandler struct {
	Logger     *slog.Logger
	Photos     s3.PhotoStore
	UoWFactory uow.UoWFactory
}

func (h *UploadPhotoHandler) Handle(ctx context.Context, cmd UploadPhotoCommand) (*UploadPhotoResult, error) {
	if h.Photos == nil {
		return nil, errors.New("photo store unavailable")
	}
	if cmd.Body == nil {
		return nil, s3.ErrPhotoRequired
	}

	return mutate(ctx, h.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) (*UploadPhotoResult, error) {
		listing, err := loadOwned(ctx, unit, cmd.ListingID, cmd.OwnerID)
		if err != nil {
			return nil, err
		}

		publicURL, err := h.Photos.StoreListingPhoto(ctx, cmd.ListingID, s3.Photo{
			FileName:    cmd.FileName,
			ContentType: cmd.ContentType,
			Body:        cmd.Body,
		})
		if err != nil {
			return nil, fmt.Errorf("store photo: %w", err)
		}

		listing.AddPhoto(publicURL, time.Now())
		if err := unit.Listings().Save(ctx, listing); err != nil {
			return nil, err
		}

		if h.Logger != nil {
			h.Logger.Info("listing photo added", "listing_id", listing.ID, "owner_id", cmd.OwnerID, "url", publicURL)
		}

		return &UploadPhotoResult{
			ListingID: string(listing.ID),
			Photos:    append([]string(nil), listing.Photos...),
		}, nil
	})
}

var _ commands.Handler[UploadPhotoCommand, *UploadPhotoResult] = (*UploadPhotoHandler)(nil)
