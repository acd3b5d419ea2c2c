package entity

import "time"

// Listing is a marketplace post offering a surplus ingredient. The chat core
// only reads it to denormalize title/owner onto a room.
type Listing struct {
	ID          string    `json:"id" firestore:"id"`
	OwnerID     string    `json:"owner_id" firestore:"ownerId"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}
