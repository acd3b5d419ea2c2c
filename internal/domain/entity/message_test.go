package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortMessages(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	messages := []*Message{
		{ID: "c", Timestamp: base.Add(2 * time.Second)},
		{ID: "b", Timestamp: base},
		{ID: "a", Timestamp: base},
		{ID: "d", Timestamp: base.Add(time.Second)},
	}

	SortMessages(messages)

	got := make([]string, len(messages))
	for i, m := range messages {
		got[i] = m.ID
	}
	// Ascending by timestamp, equal timestamps broken by id.
	assert.Equal(t, []string{"a", "b", "d", "c"}, got)

	// Re-sorting an already ordered slice changes nothing.
	SortMessages(messages)
	for i, m := range messages {
		assert.Equal(t, got[i], m.ID)
	}
}

func TestCounterpart(t *testing.T) {
	room := &ChatRoom{
		ID:      "listing-1_alice_bob",
		Members: map[string]bool{"alice": true, "bob": true},
	}

	other, ok := room.Counterpart("alice")
	assert.True(t, ok)
	assert.Equal(t, "bob", other)

	other, ok = room.Counterpart("bob")
	assert.True(t, ok)
	assert.Equal(t, "alice", other)

	_, ok = room.Counterpart("mallory")
	assert.False(t, ok)
}
