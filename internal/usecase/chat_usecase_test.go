package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace_api/internal/domain"
)

type fakeConversationRepo struct {
	conversations map[string]*domain.Conversation
	nextID        int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: map[string]*domain.Conversation{}}
}

func (r *fakeConversationRepo) Create(conversation *domain.Conversation) (*domain.Conversation, error) {
	for _, existing := range r.conversations {
		if existing.GroupTitle == conversation.GroupTitle {
			return nil, fmt.Errorf("%w: conversation already exists", domain.ErrBadRequest)
		}
	}
	r.nextID++
	conversation.ID = fmt.Sprintf("conv-%d", r.nextID)
	conversation.CreatedAt = time.Now()
	r.conversations[conversation.ID] = conversation
	return conversation, nil
}

func (r *fakeConversationRepo) GetByID(id string) (*domain.Conversation, error) {
	conversation, ok := r.conversations[id]
	if !ok {
		return nil, fmt.Errorf("%w: conversation not found", domain.ErrNotFound)
	}
	return conversation, nil
}

func (r *fakeConversationRepo) GetByGroupTitle(groupTitle string) (*domain.Conversation, error) {
	for _, conversation := range r.conversations {
		if conversation.GroupTitle == groupTitle {
			return conversation, nil
		}
	}
	return nil, fmt.Errorf("%w: conversation not found", domain.ErrNotFound)
}

func (r *fakeConversationRepo) ListByMember(memberID string) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	for _, conversation := range r.conversations {
		for _, member := range conversation.MemberIDs {
			if member == memberID {
				conversations = append(conversations, *conversation)
				break
			}
		}
	}
	return conversations, nil
}

func (r *fakeConversationRepo) UpdateLastMessage(id, lastMessage, lastMessageID string) (*domain.Conversation, error) {
	conversation, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	conversation.LastMessage = lastMessage
	conversation.LastMessageID = lastMessageID
	return conversation, nil
}

type fakeMessageRepo struct {
	messages []domain.Message
}

func (r *fakeMessageRepo) Create(message *domain.Message) (*domain.Message, error) {
	message.ID = fmt.Sprintf("msg-%d", len(r.messages)+1)
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, *message)
	return message, nil
}

func (r *fakeMessageRepo) ListByConversation(conversationID string) ([]domain.Message, error) {
	var messages []domain.Message
	for _, message := range r.messages {
		if message.ConversationID == conversationID {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

func newChatFixture() (domain.ChatUseCase, *fakeConversationRepo, *fakeMessageRepo) {
	conversations := newFakeConversationRepo()
	messages := &fakeMessageRepo{}
	return NewChatUseCase(conversations, messages, &fakeMedia{}, testLogger()), conversations, messages
}

func TestCreateOrGetConversation(t *testing.T) {
	uc, _, _ := newChatFixture()

	first, created, err := uc.CreateOrGetConversation("user-1:shop-1", "user-1", "shop-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.ElementsMatch(t, []string{"user-1", "shop-1"}, first.MemberIDs)

	second, created, err := uc.CreateOrGetConversation("user-1:shop-1", "user-1", "shop-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestSendMessageRequiresContent(t *testing.T) {
	uc, _, _ := newChatFixture()
	conversation, _, err := uc.CreateOrGetConversation("user-1:shop-1", "user-1", "shop-1")
	require.NoError(t, err)

	_, err = uc.SendMessage(context.Background(), domain.SendMessageInput{
		ConversationID: conversation.ID,
		SenderID:       "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	message, err := uc.SendMessage(context.Background(), domain.SendMessageInput{
		ConversationID: conversation.ID,
		SenderID:       "user-1",
		Text:           "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", message.Text)

	withImage, err := uc.SendMessage(context.Background(), domain.SendMessageInput{
		ConversationID: conversation.ID,
		SenderID:       "user-1",
		Images:         []string{"pic"},
	})
	require.NoError(t, err)
	assert.Len(t, withImage.Images, 1)
}

func TestSendMessageUnknownConversation(t *testing.T) {
	uc, _, _ := newChatFixture()

	_, err := uc.SendMessage(context.Background(), domain.SendMessageInput{
		ConversationID: "missing",
		SenderID:       "user-1",
		Text:           "hello",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListConversationsByMember(t *testing.T) {
	uc, _, _ := newChatFixture()

	_, _, err := uc.CreateOrGetConversation("user-1:shop-1", "user-1", "shop-1")
	require.NoError(t, err)
	_, _, err = uc.CreateOrGetConversation("user-2:shop-1", "user-2", "shop-1")
	require.NoError(t, err)

	forShop, err := uc.ListConversationsByMember("shop-1")
	require.NoError(t, err)
	assert.Len(t, forShop, 2)

	forUser, err := uc.ListConversationsByMember("user-1")
	require.NoError(t, err)
	assert.Len(t, forUser, 1)
}
