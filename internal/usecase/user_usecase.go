package usecase

import (
	"context"
	"strings"
	"time"

	"foodlink/internal/domain/entity"
	"foodlink/internal/domain/repository"
	"foodlink/pkg/errors"
	"foodlink/pkg/logger"
)

// identityProvider resolves account data held by the identity platform
// rather than the profile store.
type identityProvider interface {
	GetUserEmail(ctx context.Context, uid string) (string, error)
}

type UserUseCase struct {
	userRepo repository.UserRepository
	identity identityProvider
}

func NewUserUseCase(userRepo repository.UserRepository, identity identityProvider) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		identity: identity,
	}
}

type ProfileResponse struct {
	*entity.User
	RatingsCount int `json:"ratings_count"`
}

// GetProfile returns another user's public profile.
func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		User:         user,
		RatingsCount: len(user.Ratings),
	}, nil
}

// GetOwnProfile returns the caller's profile, creating it from the identity
// platform on first contact. Sign-up happens on the identity platform alone,
// so the profile document may not exist yet when the first authenticated
// request arrives.
func (uc *UserUseCase) GetOwnProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err == nil {
		return &ProfileResponse{
			User:         user,
			RatingsCount: len(user.Ratings),
		}, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	email, err := uc.identity.GetUserEmail(ctx, userID)
	if err != nil {
		logger.Warn("GetOwnProfile: no identity record for %s: %v", userID, err)
		return nil, errors.NotFound("User", err)
	}

	now := time.Now().UTC()
	user = &entity.User{
		ID:        userID,
		Email:     email,
		Username:  usernameFromEmail(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		logger.Error("GetOwnProfile: failed to bootstrap profile for %s: %v", userID, err)
		return nil, err
	}
	logger.Info("GetOwnProfile: bootstrapped profile for %s", userID)

	return &ProfileResponse{User: user}, nil
}

func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
