package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"foodlink/internal/domain/entity"
	"foodlink/internal/domain/repository"
	"foodlink/pkg/errors"
)

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}

	_, err := r.messages(message.RoomID).Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Unavailable("Failed to store message", err)
	}

	return nil
}

func (r *firestoreMessageRepository) ListByRoom(ctx context.Context, roomID string) ([]*entity.Message, error) {
	docs, err := r.messages(roomID).OrderBy("timestamp", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		log.Printf("Firestore error while fetching messages for room %s: %v", roomID, err)
		return nil, errors.Unavailable("Failed to fetch messages", err)
	}

	return messagesFromDocs(docs), nil
}

func (r *firestoreMessageRepository) Listen(ctx context.Context, roomID string) (<-chan []*entity.Message, error) {
	snapshots := r.messages(roomID).OrderBy("timestamp", firestore.Asc).Snapshots(ctx)
	ch := make(chan []*entity.Message, 1)

	go func() {
		defer close(ch)
		defer snapshots.Stop()

		for {
			snapshot, err := snapshots.Next()
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("Message listener for room %s stopped: %v", roomID, err)
				}
				return
			}

			docs, err := snapshot.Documents.GetAll()
			if err != nil {
				log.Printf("Message listener for room %s failed to read snapshot: %v", roomID, err)
				return
			}

			select {
			case ch <- messagesFromDocs(docs):
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func (r *firestoreMessageRepository) DeleteByRoom(ctx context.Context, roomID string) error {
	iter := r.messages(roomID).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Unavailable("Failed to iterate messages for deletion", err)
		}

		if _, err := doc.Ref.Delete(ctx); err != nil {
			return errors.Unavailable("Failed to delete message", err)
		}
	}

	return nil
}

func (r *firestoreMessageRepository) messages(roomID string) *firestore.CollectionRef {
	return r.client.Collection("chats").Doc(roomID).Collection("messages")
}

func messagesFromDocs(docs []*firestore.DocumentSnapshot) []*entity.Message {
	var messages []*entity.Message
	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Skipping malformed message %s: %v", doc.Ref.ID, err)
			continue
		}
		messages = append(messages, &message)
	}

	// Firestore orders by timestamp; equal timestamps get a stable id
	// tie-break so every subscriber renders the same sequence.
	entity.SortMessages(messages)
	return messages
}
