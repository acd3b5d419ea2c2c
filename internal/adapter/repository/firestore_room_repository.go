package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"foodlink/internal/domain/entity"
	"foodlink/internal/domain/repository"
	"foodlink/pkg/errors"
)

type firestoreRoomRepository struct {
	client *firestore.Client
}

func NewFirestoreRoomRepository(client *firestore.Client) repository.ChatRoomRepository {
	return &firestoreRoomRepository{
		client: client,
	}
}

func (r *firestoreRoomRepository) GetOrCreate(ctx context.Context, room *entity.ChatRoom) (*entity.ChatRoom, bool, error) {
	ref := r.client.Collection("chats").Doc(room.ID)

	var existing entity.ChatRoom
	created := false

	// Transactional check-then-create so two users opening the same chat at
	// the same moment converge on one document.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err == nil {
			created = false
			return doc.DataTo(&existing)
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		created = true
		return tx.Set(ref, room)
	})
	if err != nil {
		return nil, false, errors.Unavailable("Failed to create chat room", err)
	}

	if !created {
		return &existing, false, nil
	}
	return room, true, nil
}

func (r *firestoreRoomRepository) GetByID(ctx context.Context, id string) (*entity.ChatRoom, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat room", nil)
		}
		return nil, errors.Unavailable("Failed to get chat room", err)
	}

	var room entity.ChatRoom
	if err := doc.DataTo(&room); err != nil {
		return nil, errors.Internal("Failed to parse chat room data", err)
	}

	return &room, nil
}

func (r *firestoreRoomRepository) SetLastMessage(ctx context.Context, roomID, text string, at time.Time) error {
	_, err := r.client.Collection("chats").Doc(roomID).Set(ctx, map[string]interface{}{
		"lastMessage":   text,
		"lastMessageAt": at,
		"updatedAt":     time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return errors.Unavailable("Failed to refresh last message cache", err)
	}

	return nil
}

func (r *firestoreRoomRepository) SetAppointment(ctx context.Context, roomID string, date time.Time) error {
	_, err := r.client.Collection("chats").Doc(roomID).Set(ctx, map[string]interface{}{
		"appointmentDate": date,
		"updatedAt":       time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return errors.Unavailable("Failed to set appointment date", err)
	}

	return nil
}

func (r *firestoreRoomRepository) ListByMember(ctx context.Context, userID string) ([]*entity.ChatRoom, error) {
	query := r.memberQuery(userID)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching rooms for user %s: %v", userID, err)
		return nil, errors.Unavailable("Failed to fetch chat rooms", err)
	}

	return roomsFromDocs(docs), nil
}

func (r *firestoreRoomRepository) ListenByMember(ctx context.Context, userID string) (<-chan []*entity.ChatRoom, error) {
	snapshots := r.memberQuery(userID).Snapshots(ctx)
	ch := make(chan []*entity.ChatRoom, 1)

	go func() {
		defer close(ch)
		defer snapshots.Stop()

		for {
			snapshot, err := snapshots.Next()
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("Room listener for user %s stopped: %v", userID, err)
				}
				return
			}

			docs, err := snapshot.Documents.GetAll()
			if err != nil {
				log.Printf("Room listener for user %s failed to read snapshot: %v", userID, err)
				return
			}

			select {
			case ch <- roomsFromDocs(docs):
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func (r *firestoreRoomRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("chats").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Unavailable("Failed to delete chat room", err)
	}

	return nil
}

func (r *firestoreRoomRepository) memberQuery(userID string) firestore.Query {
	return r.client.Collection("chats").
		Where("members."+userID, "==", true).
		OrderBy("lastMessageAt", firestore.Desc)
}

func roomsFromDocs(docs []*firestore.DocumentSnapshot) []*entity.ChatRoom {
	var rooms []*entity.ChatRoom
	for _, doc := range docs {
		var room entity.ChatRoom
		if err := doc.DataTo(&room); err != nil {
			log.Printf("Skipping malformed chat room %s: %v", doc.Ref.ID, err)
			continue
		}
		rooms = append(rooms, &room)
	}
	return rooms
}
