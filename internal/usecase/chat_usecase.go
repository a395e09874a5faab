package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"marketplace_api/internal/clients"
	"marketplace_api/internal/domain"
)

var _ domain.ChatUseCase = (*chatUseCase)(nil)

type chatUseCase struct {
	conversationRepo domain.ConversationRepository
	messageRepo      domain.MessageRepository
	media            clients.MediaClient
	log              *logrus.Logger
}

func NewChatUseCase(conversationRepo domain.ConversationRepository, messageRepo domain.MessageRepository, media clients.MediaClient, logger *logrus.Logger) domain.ChatUseCase {
	return &chatUseCase{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		media:            media,
		log:              logger,
	}
}

// CreateOrGetConversation returns the conversation for a buyer/seller pair,
// keyed by group title, creating it on first contact. The bool reports
// whether a new conversation was created.
func (uc *chatUseCase) CreateOrGetConversation(groupTitle, userID, sellerID string) (*domain.Conversation, bool, error) {
	if groupTitle == "" || userID == "" || sellerID == "" {
		return nil, false, fmt.Errorf("%w: please provide group title and both members", domain.ErrBadRequest)
	}

	existing, err := uc.conversationRepo.GetByGroupTitle(groupTitle)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	created, err := uc.conversationRepo.Create(&domain.Conversation{
		GroupTitle: groupTitle,
		MemberIDs:  []string{userID, sellerID},
	})
	if err != nil {
		// Lost the race to a concurrent first message; fetch the winner.
		if errors.Is(err, domain.ErrBadRequest) {
			if existing, getErr := uc.conversationRepo.GetByGroupTitle(groupTitle); getErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}

	uc.log.Infof("Use Case: Created conversation %s between %s and %s", created.ID, userID, sellerID)
	return created, true, nil
}

func (uc *chatUseCase) ListConversationsByMember(memberID string) ([]domain.Conversation, error) {
	return uc.conversationRepo.ListByMember(memberID)
}

func (uc *chatUseCase) UpdateLastMessage(conversationID, lastMessage, lastMessageID string) (*domain.Conversation, error) {
	return uc.conversationRepo.UpdateLastMessage(conversationID, lastMessage, lastMessageID)
}

func (uc *chatUseCase) SendMessage(ctx context.Context, input domain.SendMessageInput) (*domain.Message, error) {
	if input.Text == "" && len(input.Images) == 0 {
		return nil, fmt.Errorf("%w: message needs text or an image", domain.ErrBadRequest)
	}
	if _, err := uc.conversationRepo.GetByID(input.ConversationID); err != nil {
		return nil, err
	}

	images, err := uc.media.UploadMany(ctx, input.Images, clients.FolderMessages)
	if err != nil {
		return nil, err
	}

	message, err := uc.messageRepo.Create(&domain.Message{
		ConversationID: input.ConversationID,
		SenderID:       input.SenderID,
		Text:           input.Text,
		Images:         images,
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

func (uc *chatUseCase) ListMessages(conversationID string) ([]domain.Message, error) {
	return uc.messageRepo.ListByConversation(conversationID)
}
