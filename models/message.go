package models

import "time"

// Message is a direct chat message between two users. Messages live in
// Cassandra, so ids are time UUID strings and user references are the hex
// form of the Mongo user id.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}
