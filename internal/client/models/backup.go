package models

import (
	"fmt"
	"time"
)

// MessageBackup is the exported form of a Message, one JSON line per record.
type MessageBackup struct {
	ID             string  `json:"id"`
	ConversationID string  `json:"conversationId"`
	SenderUserID   string  `json:"senderUserId"`
	Time           string  `json:"time"`
	Content        string  `json:"content"`
	EditTime       *string `json:"editTime,omitempty"`
	Deleted        bool    `json:"deleted,omitempty"`
}

type LikeBackup struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
	Time      string `json:"time"`
}

type UserBackup struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return t.UTC(), nil
}

func MessageToBackup(m Message) MessageBackup {
	b := MessageBackup{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderUserID:   m.SenderID,
		Time:           formatTime(m.CreatedAt),
		Content:        m.Content,
		Deleted:        m.Deleted,
	}
	if m.EditedAt != nil {
		s := formatTime(*m.EditedAt)
		b.EditTime = &s
	}
	return b
}

func MessageFromBackup(b MessageBackup) (Message, error) {
	created, err := parseTime("time", b.Time)
	if err != nil {
		return Message{}, fmt.Errorf("message %s: %w", b.ID, err)
	}
	m := Message{
		ID:             b.ID,
		ConversationID: b.ConversationID,
		SenderID:       b.SenderUserID,
		CreatedAt:      created,
		Content:        b.Content,
		Deleted:        b.Deleted,
	}
	if b.EditTime != nil {
		edited, err := parseTime("editTime", *b.EditTime)
		if err != nil {
			return Message{}, fmt.Errorf("message %s: %w", b.ID, err)
		}
		m.EditedAt = &edited
	}
	return m, nil
}

func LikeToBackup(l Like) LikeBackup {
	return LikeBackup{MessageID: l.MessageID, UserID: l.UserID, Time: formatTime(l.CreatedAt)}
}

func LikeFromBackup(b LikeBackup) (Like, error) {
	created, err := parseTime("time", b.Time)
	if err != nil {
		return Like{}, fmt.Errorf("like %s/%s: %w", b.MessageID, b.UserID, err)
	}
	return Like{MessageID: b.MessageID, UserID: b.UserID, CreatedAt: created}, nil
}

func UserToBackup(u User) UserBackup {
	return UserBackup{ID: u.ID, Handle: u.Handle, Name: u.Name, Email: u.Email}
}

func UserFromBackup(b UserBackup) (User, error) {
	return User{ID: b.ID, Handle: b.Handle, Name: b.Name, Email: b.Email}, nil
}
