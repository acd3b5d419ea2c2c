package entity

import "time"

// ChatRoom is the unit of one-to-one conversation between two users about
// (optionally) one listing. Its id is derived from the member pair and the
// listing, so the same pair always lands in the same room.
type ChatRoom struct {
	ID              string          `json:"id" firestore:"id"`
	Members         map[string]bool `json:"members" firestore:"members"`
	ListingID       string          `json:"listing_id,omitempty" firestore:"listingId,omitempty"`
	ListingTitle    string          `json:"listing_title,omitempty" firestore:"listingTitle,omitempty"`
	LastMessage     string          `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt   time.Time       `json:"last_message_at" firestore:"lastMessageAt"`
	AppointmentDate *time.Time      `json:"appointment_date,omitempty" firestore:"appointmentDate,omitempty"`
	CreatedAt       time.Time       `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time       `json:"updated_at" firestore:"updatedAt"`
}

func (r *ChatRoom) HasMember(userID string) bool {
	return r.Members[userID]
}

// Counterpart returns the member that is not userID. A room holds exactly
// two members; ok is false when userID is absent or the room is malformed.
func (r *ChatRoom) Counterpart(userID string) (string, bool) {
	if !r.Members[userID] || len(r.Members) != 2 {
		return "", false
	}
	for id := range r.Members {
		if id != userID {
			return id, true
		}
	}
	return "", false
}
