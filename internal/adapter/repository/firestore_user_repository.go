package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"foodlink/internal/domain/entity"
	"foodlink/internal/domain/repository"
	"foodlink/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Unavailable("Failed to create user", err)
	}

	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", nil)
		}
		return nil, errors.Unavailable("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

// ApplyRatings runs transform inside a Firestore transaction. The read is
// verified at commit time, so a concurrent writer forces a retry against the
// fresh profile instead of being clobbered.
func (r *firestoreUserRepository) ApplyRatings(ctx context.Context, userID string, transform func(user *entity.User) error) error {
	ref := r.client.Collection("users").Doc(userID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("User", nil)
			}
			return err
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return errors.Internal("Failed to parse user data", err)
		}
		user.ID = doc.Ref.ID

		if err := transform(&user); err != nil {
			return err
		}

		user.UpdatedAt = time.Now().UTC()
		return tx.Set(ref, &user)
	})
	if err != nil {
		if errors.Is(err, "NOT_FOUND") || errors.Is(err, "INTERNAL_ERROR") {
			return err
		}
		return errors.Unavailable("Failed to update user ratings", err)
	}

	return nil
}
