package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
)

type postgresConversationRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresConversationRepository(db *sql.DB, logger *logrus.Logger) domain.ConversationRepository {
	return &postgresConversationRepository{db: db, log: logger}
}

const conversationColumns = `id, group_title, member_ids, last_message, last_message_id, created_at, updated_at`

func (r *postgresConversationRepository) Create(conversation *domain.Conversation) (*domain.Conversation, error) {
	if conversation.ID == "" {
		conversation.ID = uuid.NewString()
	}

	query := `
        INSERT INTO conversations (id, group_title, member_ids)
        VALUES ($1, $2, $3)
        RETURNING created_at, updated_at`
	err := r.db.QueryRow(query, conversation.ID, conversation.GroupTitle, pq.Array(conversation.MemberIDs)).
		Scan(&conversation.CreatedAt, &conversation.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("%w: conversation already exists", domain.ErrBadRequest)
		}
		r.log.Errorf("Repository: failed to create conversation %q: %v", conversation.GroupTitle, err)
		return nil, fmt.Errorf("could not create conversation: %w", err)
	}
	return conversation, nil
}

func scanConversation(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Conversation, error) {
	conversation := &domain.Conversation{}
	err := scanner.Scan(
		&conversation.ID,
		&conversation.GroupTitle,
		pq.Array(&conversation.MemberIDs),
		&conversation.LastMessage,
		&conversation.LastMessageID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return conversation, nil
}

func (r *postgresConversationRepository) GetByID(id string) (*domain.Conversation, error) {
	conversation, err := scanConversation(r.db.QueryRow(`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: conversation not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to get conversation %s: %v", id, err)
		return nil, fmt.Errorf("could not retrieve conversation: %w", err)
	}
	return conversation, nil
}

func (r *postgresConversationRepository) GetByGroupTitle(groupTitle string) (*domain.Conversation, error) {
	conversation, err := scanConversation(r.db.QueryRow(`SELECT `+conversationColumns+` FROM conversations WHERE group_title = $1`, groupTitle))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: conversation not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to get conversation %q: %v", groupTitle, err)
		return nil, fmt.Errorf("could not retrieve conversation: %w", err)
	}
	return conversation, nil
}

func (r *postgresConversationRepository) ListByMember(memberID string) ([]domain.Conversation, error) {
	rows, err := r.db.Query(`
        SELECT `+conversationColumns+` FROM conversations
        WHERE $1 = ANY(member_ids)
        ORDER BY updated_at DESC, created_at DESC`, memberID)
	if err != nil {
		r.log.Errorf("Repository: failed to list conversations for member %s: %v", memberID, err)
		return nil, fmt.Errorf("could not retrieve conversations: %w", err)
	}
	defer rows.Close()

	var conversations []domain.Conversation
	for rows.Next() {
		conversation, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}
		conversations = append(conversations, *conversation)
	}
	return conversations, rows.Err()
}

func (r *postgresConversationRepository) UpdateLastMessage(id, lastMessage, lastMessageID string) (*domain.Conversation, error) {
	res, err := r.db.Exec(`
        UPDATE conversations SET last_message = $1, last_message_id = $2, updated_at = now()
        WHERE id = $3`, lastMessage, lastMessageID, id)
	if err != nil {
		r.log.Errorf("Repository: failed to update last message for conversation %s: %v", id, err)
		return nil, fmt.Errorf("could not update conversation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: conversation not found", domain.ErrNotFound)
	}
	return r.GetByID(id)
}

type postgresMessageRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresMessageRepository(db *sql.DB, logger *logrus.Logger) domain.MessageRepository {
	return &postgresMessageRepository{db: db, log: logger}
}

func (r *postgresMessageRepository) Create(message *domain.Message) (*domain.Message, error) {
	images, err := jsonbValue(message.Images)
	if err != nil {
		return nil, err
	}
	if message.ID == "" {
		message.ID = uuid.NewString()
	}

	query := `
        INSERT INTO messages (id, conversation_id, sender_id, text, images)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`
	err = r.db.QueryRow(query, message.ID, message.ConversationID, message.SenderID, message.Text, images).
		Scan(&message.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, fmt.Errorf("%w: conversation not found", domain.ErrNotFound)
		}
		r.log.Errorf("Repository: failed to create message in conversation %s: %v", message.ConversationID, err)
		return nil, fmt.Errorf("could not create message: %w", err)
	}
	return message, nil
}

func (r *postgresMessageRepository) ListByConversation(conversationID string) ([]domain.Message, error) {
	rows, err := r.db.Query(`
        SELECT id, conversation_id, sender_id, text, images, created_at
        FROM messages WHERE conversation_id = $1 ORDER BY created_at`, conversationID)
	if err != nil {
		r.log.Errorf("Repository: failed to list messages for conversation %s: %v", conversationID, err)
		return nil, fmt.Errorf("could not retrieve messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var message domain.Message
		var images []byte
		if err := rows.Scan(&message.ID, &message.ConversationID, &message.SenderID, &message.Text, &images, &message.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		if err := scanJSONB(images, &message.Images); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}
