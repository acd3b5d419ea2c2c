package usecase

import (
	"context"
	"time"

	"github.com/samber/lo"

	"foodlink/internal/domain/entity"
	"foodlink/internal/domain/repository"
	"foodlink/pkg/errors"
	"foodlink/pkg/logger"
)

type RatingUseCase struct {
	roomRepo repository.ChatRoomRepository
	userRepo repository.UserRepository
	carbon   CarbonEstimator
}

func NewRatingUseCase(
	roomRepo repository.ChatRoomRepository,
	userRepo repository.UserRepository,
	carbon CarbonEstimator,
) *RatingUseCase {
	return &RatingUseCase{
		roomRepo: roomRepo,
		userRepo: userRepo,
		carbon:   carbon,
	}
}

type RatingResult struct {
	RoomID          string  `json:"room_id"`
	TargetID        string  `json:"target_id"`
	Rating          int     `json:"rating"`
	CarbonFootprint int     `json:"carbon_footprint"`
	TargetAverage   float64 `json:"target_average_rating"`
}

// SubmitRating records stars against the counterpart of the rater in the
// room, after the room's appointment date has passed. One carbon quantity is
// generated for the exchange and both participants' profiles absorb the same
// entry, keyed by room id, so resubmitting for the same room overwrites
// instead of duplicating. Each profile update is an atomic read-verify-write;
// derived averageRating/carbonFootprint are recomputed from the full ratings
// map inside the transform, never incremented.
func (uc *RatingUseCase) SubmitRating(ctx context.Context, raterID, roomID string, stars int) (*RatingResult, error) {
	room, err := uc.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(raterID) {
		return nil, errors.Forbidden("You are not a participant in this chat room", nil)
	}

	if stars < 1 || stars > 5 {
		return nil, errors.InvalidRating("Rating must be between 1 and 5 stars")
	}

	if room.AppointmentDate == nil {
		return nil, errors.NotYetEligible("No appointment date has been set for this exchange")
	}
	if room.AppointmentDate.After(time.Now()) {
		return nil, errors.NotYetEligible("The appointment date has not passed yet")
	}

	targetID, ok := room.Counterpart(raterID)
	if !ok {
		return nil, errors.NotFound("Chat partner", nil)
	}

	carbon := uc.carbon.Estimate()
	entry := entity.RatingEntry{
		Rating:          stars,
		CarbonFootprint: carbon,
	}

	var targetAverage float64
	apply := func(user *entity.User) error {
		if user.Ratings == nil {
			user.Ratings = make(map[string]entity.RatingEntry)
		}
		user.Ratings[roomID] = entry

		entries := lo.Values(user.Ratings)
		user.AverageRating = float64(lo.SumBy(entries, func(e entity.RatingEntry) int {
			return e.Rating
		})) / float64(len(entries))
		user.CarbonFootprint = lo.SumBy(entries, func(e entity.RatingEntry) int {
			return e.CarbonFootprint
		})

		if user.ID == targetID {
			targetAverage = user.AverageRating
		}
		return nil
	}

	if err := uc.userRepo.ApplyRatings(ctx, targetID, apply); err != nil {
		logger.Error("SubmitRating: failed to update target %s for room %s: %v", targetID, roomID, err)
		return nil, err
	}

	// The rater's own footprint is credited for the same event. Their update
	// is independent of the target's, so a failure here leaves the target's
	// committed entry in place and a retry is idempotent per room.
	if err := uc.userRepo.ApplyRatings(ctx, raterID, apply); err != nil {
		logger.Error("SubmitRating: failed to update rater %s for room %s: %v", raterID, roomID, err)
		return nil, err
	}

	logger.Info("SubmitRating: room %s rated %d stars by %s, %dg carbon credited", roomID, stars, raterID, carbon)

	return &RatingResult{
		RoomID:          roomID,
		TargetID:        targetID,
		Rating:          stars,
		CarbonFootprint: carbon,
		TargetAverage:   targetAverage,
	}, nil
}
