package domain

import (
	"context"
	"time"
)

type Conversation struct {
	ID            string    `json:"id"`
	GroupTitle    string    `json:"groupTitle"`
	MemberIDs     []string  `json:"members"`
	LastMessage   string    `json:"lastMessage,omitempty"`
	LastMessageID string    `json:"lastMessageId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"sender"`
	Text           string    `json:"text,omitempty"`
	Images         []Image   `json:"images,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ConversationRepository interface {
	Create(conversation *Conversation) (*Conversation, error)
	GetByID(id string) (*Conversation, error)
	GetByGroupTitle(groupTitle string) (*Conversation, error)
	ListByMember(memberID string) ([]Conversation, error)
	UpdateLastMessage(id, lastMessage, lastMessageID string) (*Conversation, error)
}

type MessageRepository interface {
	Create(message *Message) (*Message, error)
	ListByConversation(conversationID string) ([]Message, error)
}

type SendMessageInput struct {
	ConversationID string
	SenderID       string
	Text           string
	Images         []string
}

type ChatUseCase interface {
	CreateOrGetConversation(groupTitle, userID, sellerID string) (*Conversation, bool, error)
	ListConversationsByMember(memberID string) ([]Conversation, error)
	UpdateLastMessage(conversationID, lastMessage, lastMessageID string) (*Conversation, error)
	SendMessage(ctx context.Context, input SendMessageInput) (*Message, error)
	ListMessages(conversationID string) ([]Message, error)
}
