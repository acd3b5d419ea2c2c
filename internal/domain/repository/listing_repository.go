package repository

import (
	"context"

	"foodlink/internal/domain/entity"
)

// ListingRepository is the read side of the listing catalog; the chat core
// only resolves listings when establishing a room.
type ListingRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
}
