package entity

import "time"

// RatingEntry records one completed exchange: the stars the user received
// and the carbon savings attributed to the exchange, in grams.
type RatingEntry struct {
	Rating          int `json:"rating" firestore:"rating"`
	CarbonFootprint int `json:"carbon_footprint" firestore:"carbonFootprint"`
}

// User holds the profile fields the chat and rating core touches.
//
// Ratings is keyed by room id so a repeated rating for the same exchange
// overwrites instead of duplicating. AverageRating and CarbonFootprint are
// caches derived from Ratings; they are recomputed from the full map on
// every change, never incremented.
type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`

	Ratings         map[string]RatingEntry `json:"ratings,omitempty" firestore:"ratings,omitempty"`
	AverageRating   float64                `json:"average_rating" firestore:"averageRating"`
	CarbonFootprint int                    `json:"carbon_footprint" firestore:"carbonFootprint"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
