// Package types defines the advisor's data model: chat messages and the
// structured recommendation payload extracted from model replies.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is a single conversation turn. Messages are immutable once
// appended to a session; the ordered sequence forms the conversation.
type ChatMessage struct {
	ID        string                  `json:"id"`
	Role      Role                    `json:"role"`
	Text      string                  `json:"text"`
	Timestamp time.Time               `json:"timestamp"`
	Metadata  *RecommendationMetadata `json:"metadata,omitempty"`
}

// NewUserMessage creates a user turn with a fresh ID.
func NewUserMessage(text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewModelMessage creates a model turn with a fresh ID.
func NewModelMessage(text string, md *RecommendationMetadata) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      RoleModel,
		Text:      text,
		Timestamp: time.Now(),
		Metadata:  md,
	}
}
