package usecase

import (
	"context"

	"foodlink/internal/domain/entity"
	"foodlink/internal/domain/repository"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
}

func NewListingUseCase(listingRepo repository.ListingRepository) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
	}
}

func (uc *ListingUseCase) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}
