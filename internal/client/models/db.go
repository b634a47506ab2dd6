// Package models defines the client-side chat entities stored in the local
// database and the backup records they are exported as.
package models

import "time"

// Message is a single chat message.
type Message struct {
	// ID is the globally unique message id.
	ID string

	// ConversationID groups messages of one chat.
	ConversationID string

	// SenderID is the id of the authoring user.
	SenderID string

	// Content is the plain text body.
	Content string

	// CreatedAt is the send time in UTC.
	CreatedAt time.Time

	// EditedAt is set when the message was edited, nil otherwise.
	EditedAt *time.Time

	// Deleted marks a message removed by its sender.
	Deleted bool
}

// Like is a user's reaction to a message. (MessageID, UserID) is unique.
type Like struct {
	MessageID string
	UserID    string
	CreatedAt time.Time
}

// User is a known contact or the account owner.
type User struct {
	ID     string
	Handle string
	Name   string
	Email  string
}
