package repository

import (
	"context"
	"time"

	"foodlink/internal/domain/entity"
)

type ChatRoomRepository interface {
	// GetOrCreate stores room under its derived id unless a room with that id
	// already exists, in which case the existing room is returned untouched.
	// The created flag reports which happened. The check-then-create must be
	// atomic so concurrent first contact converges on one document.
	GetOrCreate(ctx context.Context, room *entity.ChatRoom) (*entity.ChatRoom, bool, error)
	GetByID(ctx context.Context, id string) (*entity.ChatRoom, error)
	// SetLastMessage refreshes the denormalized last-message cache on a room.
	SetLastMessage(ctx context.Context, roomID, text string, at time.Time) error
	// SetAppointment writes the appointment date, last write wins.
	SetAppointment(ctx context.Context, roomID string, date time.Time) error
	ListByMember(ctx context.Context, userID string) ([]*entity.ChatRoom, error)
	// ListenByMember delivers the member's room list ordered by last message
	// time descending, re-delivered on every change until ctx is cancelled.
	ListenByMember(ctx context.Context, userID string) (<-chan []*entity.ChatRoom, error)
	Delete(ctx context.Context, id string) error
}
