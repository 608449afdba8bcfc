package domain

import (
	"fmt"
	"strings"
	"time"
)

type MessageKind string

const (
	MessageDirect MessageKind = "direct"
	MessageGroup  MessageKind = "group"
)

// Message is an immutable direct or group communication. Exactly one of the
// recipient and the group is set.
type Message struct {
	ID            int64     `json:"id"`
	SenderID      string    `json:"sender_id"`
	SenderName    string    `json:"sender_name"`
	RecipientID   string    `json:"recipient_id,omitempty"`
	RecipientName string    `json:"recipient_name,omitempty"`
	GroupID       string    `json:"group_id,omitempty"`
	GroupName     string    `json:"group_name,omitempty"`
	Content       string    `json:"content"`
	SentAt        time.Time `json:"sent_at"`
}

// NewDirectMessage addresses content from sender to a single recipient.
func NewDirectMessage(id int64, sender, recipient *User, content string, at time.Time) (*Message, error) {
	if sender == nil {
		return nil, ErrMissingUser
	}
	if recipient == nil {
		return nil, ErrMissingRecipient
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	return &Message{
		ID:            id,
		SenderID:      sender.ID,
		SenderName:    sender.Name,
		RecipientID:   recipient.ID,
		RecipientName: recipient.Name,
		Content:       content,
		SentAt:        at,
	}, nil
}

// NewGroupMessage tags content with a group. Membership of the sender is
// checked by the caller against the store.
func NewGroupMessage(id int64, sender *User, group *StudyGroup, content string, at time.Time) (*Message, error) {
	if sender == nil {
		return nil, ErrMissingUser
	}
	if !group.Valid() {
		return nil, ErrMissingGroup
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	return &Message{
		ID:         id,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		GroupID:    group.ID,
		GroupName:  group.Name,
		Content:    content,
		SentAt:     at,
	}, nil
}

func (m *Message) Kind() MessageKind {
	if m.GroupID != "" {
		return MessageGroup
	}
	return MessageDirect
}

func (m *Message) String() string {
	ts := m.SentAt.Format(time.DateTime)
	if m.Kind() == MessageGroup {
		return fmt.Sprintf("[%s] %s -> Group '%s': %s", ts, m.SenderName, m.GroupName, m.Content)
	}
	return fmt.Sprintf("[%s] %s -> %s: %s", ts, m.SenderName, m.RecipientName, m.Content)
}
