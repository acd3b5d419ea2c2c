package entity

import (
	"sort"
	"time"
)

// Message is immutable once created and owned by its room; it is removed
// only when the room is deleted.
type Message struct {
	ID        string    `json:"id" firestore:"id"`
	RoomID    string    `json:"room_id" firestore:"roomId"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Text      string    `json:"text" firestore:"text"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}

// SortMessages orders messages ascending by timestamp, ties broken by id so
// repeated deliveries of the same set render identically.
func SortMessages(messages []*Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].Timestamp.Equal(messages[j].Timestamp) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
}
