package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodlink/internal/domain/entity"
	"foodlink/pkg/errors"
)

func pastDate() *time.Time {
	d := time.Now().Add(-24 * time.Hour)
	return &d
}

func futureDate() *time.Time {
	d := time.Now().Add(24 * time.Hour)
	return &d
}

func seedRoom(repo *fakeRoomRepo, id string, appointment *time.Time, members ...string) *entity.ChatRoom {
	room := &entity.ChatRoom{
		ID:              id,
		Members:         make(map[string]bool, len(members)),
		AppointmentDate: appointment,
		CreatedAt:       time.Now().UTC(),
	}
	for _, m := range members {
		room.Members[m] = true
	}
	repo.rooms[id] = room
	return room
}

func newRatingFixture(t *testing.T, carbon int) (*RatingUseCase, *fakeRoomRepo, *fakeUserRepo) {
	t.Helper()

	userRepo := newFakeUserRepo(
		&entity.User{ID: "alice", Username: "alice"},
		&entity.User{ID: "bob", Username: "bob"},
	)
	roomRepo := newFakeRoomRepo()

	uc := NewRatingUseCase(roomRepo, userRepo, fixedCarbon{grams: carbon})
	return uc, roomRepo, userRepo
}

func TestSubmitRatingUpdatesBothProfiles(t *testing.T) {
	uc, roomRepo, userRepo := newRatingFixture(t, 30)
	ctx := context.Background()
	seedRoom(roomRepo, "room-1", pastDate(), "alice", "bob")

	result, err := uc.SubmitRating(ctx, "alice", "room-1", 4)
	require.NoError(t, err)
	assert.Equal(t, "bob", result.TargetID)
	assert.Equal(t, 4, result.Rating)
	assert.Equal(t, 30, result.CarbonFootprint)
	assert.Equal(t, 4.0, result.TargetAverage)

	bob, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 4.0, bob.AverageRating)
	assert.Equal(t, 30, bob.CarbonFootprint)
	assert.Equal(t, entity.RatingEntry{Rating: 4, CarbonFootprint: 30}, bob.Ratings["room-1"])

	// The rater is credited the same carbon quantity for the exchange.
	alice, err := userRepo.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 30, alice.CarbonFootprint)
	assert.Equal(t, entity.RatingEntry{Rating: 4, CarbonFootprint: 30}, alice.Ratings["room-1"])
}

func TestSubmitRatingAveragesAcrossRooms(t *testing.T) {
	uc, roomRepo, userRepo := newRatingFixture(t, 10)
	ctx := context.Background()

	require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "carol", Username: "carol"}))
	seedRoom(roomRepo, "room-1", pastDate(), "alice", "bob")
	seedRoom(roomRepo, "room-2", pastDate(), "carol", "bob")

	_, err := uc.SubmitRating(ctx, "alice", "room-1", 5)
	require.NoError(t, err)
	_, err = uc.SubmitRating(ctx, "carol", "room-2", 2)
	require.NoError(t, err)

	bob, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bob.Ratings, 2)
	assert.InDelta(t, 3.5, bob.AverageRating, 1e-9)
	assert.Equal(t, 20, bob.CarbonFootprint)
}

func TestSubmitRatingSameRoomOverwrites(t *testing.T) {
	uc, roomRepo, userRepo := newRatingFixture(t, 25)
	ctx := context.Background()
	seedRoom(roomRepo, "room-1", pastDate(), "alice", "bob")

	_, err := uc.SubmitRating(ctx, "alice", "room-1", 2)
	require.NoError(t, err)
	_, err = uc.SubmitRating(ctx, "alice", "room-1", 5)
	require.NoError(t, err)

	bob, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bob.Ratings, 1, "re-rating the same exchange overwrites, never duplicates")
	assert.Equal(t, 5.0, bob.AverageRating)
	assert.Equal(t, 25, bob.CarbonFootprint)
}

func TestSubmitRatingStarsOutOfRange(t *testing.T) {
	uc, roomRepo, userRepo := newRatingFixture(t, 10)
	ctx := context.Background()
	seedRoom(roomRepo, "room-1", pastDate(), "alice", "bob")

	for _, stars := range []int{0, -1, 6, 100} {
		_, err := uc.SubmitRating(ctx, "alice", "room-1", stars)
		assert.True(t, errors.Is(err, "INVALID_RATING"), "stars=%d", stars)
	}

	bob, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bob.Ratings)
	assert.Zero(t, bob.AverageRating)
	assert.Zero(t, bob.CarbonFootprint)
	assert.Zero(t, userRepo.applyCalls)
}

func TestSubmitRatingEligibilityGate(t *testing.T) {
	uc, roomRepo, userRepo := newRatingFixture(t, 10)
	ctx := context.Background()

	seedRoom(roomRepo, "no-appointment", nil, "alice", "bob")
	seedRoom(roomRepo, "future-appointment", futureDate(), "alice", "bob")

	_, err := uc.SubmitRating(ctx, "alice", "no-appointment", 5)
	assert.True(t, errors.Is(err, "NOT_YET_ELIGIBLE"))

	_, err = uc.SubmitRating(ctx, "alice", "future-appointment", 5)
	assert.True(t, errors.Is(err, "NOT_YET_ELIGIBLE"))

	assert.Zero(t, userRepo.applyCalls, "an ineligible rating must not touch any profile")
}

func TestSubmitRatingRequiresMembership(t *testing.T) {
	uc, roomRepo, userRepo := newRatingFixture(t, 10)
	ctx := context.Background()
	seedRoom(roomRepo, "room-1", pastDate(), "alice", "bob")

	// Membership is checked before the star range, so an outsider learns
	// nothing about the payload rules.
	_, err := uc.SubmitRating(ctx, "mallory", "room-1", 99)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	_, err = uc.SubmitRating(ctx, "alice", "no-such-room", 5)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	assert.Zero(t, userRepo.applyCalls)
}

func TestSubmitRatingConcurrentRoomsNoLostUpdate(t *testing.T) {
	const raters = 8

	uc, roomRepo, userRepo := newRatingFixture(t, 10)
	ctx := context.Background()

	for i := 0; i < raters; i++ {
		raterID := fmt.Sprintf("rater-%d", i)
		require.NoError(t, userRepo.Create(ctx, &entity.User{ID: raterID}))
		seedRoom(roomRepo, fmt.Sprintf("room-%d", i), pastDate(), raterID, "bob")
	}

	var wg sync.WaitGroup
	errs := make([]error, raters)
	for i := 0; i < raters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.SubmitRating(ctx, fmt.Sprintf("rater-%d", i), fmt.Sprintf("room-%d", i), 3)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "rater-%d", i)
	}

	bob, err := userRepo.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bob.Ratings, raters, "every concurrent rating must survive")
	assert.Equal(t, 3.0, bob.AverageRating)
	assert.Equal(t, raters*10, bob.CarbonFootprint)
}

func TestRandomCarbonEstimatorRange(t *testing.T) {
	estimator := NewRandomCarbonEstimator()

	for i := 0; i < 200; i++ {
		got := estimator.Estimate()
		require.GreaterOrEqual(t, got, 1)
		require.LessOrEqual(t, got, 50)
	}
}
