package repository

import (
	"context"

	"foodlink/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// ApplyRatings runs transform against the user's profile as an atomic
	// read-verify-write. The committed profile always reflects every
	// previously committed ratings entry; concurrent writers retry rather
	// than clobber each other.
	ApplyRatings(ctx context.Context, userID string, transform func(user *entity.User) error) error
}
