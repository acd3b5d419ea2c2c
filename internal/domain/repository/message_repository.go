package repository

import (
	"context"

	"foodlink/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// ListByRoom returns all messages of a room ascending by (timestamp, id).
	ListByRoom(ctx context.Context, roomID string) ([]*entity.Message, error)
	// Listen delivers the full ordered history first, then a re-ordered
	// snapshot on every change, until ctx is cancelled. The channel is closed
	// when delivery stops.
	Listen(ctx context.Context, roomID string) (<-chan []*entity.Message, error)
	// DeleteByRoom removes every message of a room (room deletion cascade).
	DeleteByRoom(ctx context.Context, roomID string) error
}
