package delivery

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
	"marketplace_api/internal/middleware"
)

type ChatHandler struct {
	useCase domain.ChatUseCase
	log     *logrus.Logger
}

func NewChatHandler(uc domain.ChatUseCase, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{useCase: uc, log: logger}
}

func (h *ChatHandler) RegisterRoutes(router gin.IRouter, authenticated, seller gin.HandlerFunc) {
	conversations := router.Group("/conversations")
	{
		conversations.POST("", authenticated, h.CreateOrGetConversation)
		conversations.GET("/user", authenticated, h.ListUserConversations)
		conversations.GET("/seller", seller, h.ListSellerConversations)
		conversations.PUT("/:id/last-message", authenticated, h.UpdateLastMessage)
	}

	messages := router.Group("/messages")
	{
		messages.POST("", authenticated, h.SendMessage)
		messages.GET("/:conversationId", authenticated, h.ListMessages)
	}
}

func (h *ChatHandler) CreateOrGetConversation(c *gin.Context) {
	var body struct {
		GroupTitle string `json:"groupTitle"`
		UserID     string `json:"userId"`
		SellerID   string `json:"sellerId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	conversation, created, err := h.useCase.CreateOrGetConversation(body.GroupTitle, body.UserID, body.SellerID)
	if err != nil {
		FromError(c, err)
		return
	}
	if created {
		Created(c, "Conversation created successfully", conversation)
		return
	}
	Success(c, "Conversation loaded successfully", conversation)
}

func (h *ChatHandler) ListUserConversations(c *gin.Context) {
	h.listConversations(c, middleware.UserFrom(c).ID)
}

func (h *ChatHandler) ListSellerConversations(c *gin.Context) {
	h.listConversations(c, middleware.SellerFrom(c).ID)
}

func (h *ChatHandler) listConversations(c *gin.Context, memberID string) {
	conversations, err := h.useCase.ListConversationsByMember(memberID)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Conversations loaded successfully", conversations)
}

func (h *ChatHandler) UpdateLastMessage(c *gin.Context) {
	var body struct {
		LastMessage   string `json:"lastMessage"`
		LastMessageID string `json:"lastMessageId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	conversation, err := h.useCase.UpdateLastMessage(c.Param("id"), body.LastMessage, body.LastMessageID)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Conversation updated successfully", conversation)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var body struct {
		ConversationID string   `json:"conversationId"`
		Text           string   `json:"text"`
		Images         []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.useCase.SendMessage(c.Request.Context(), domain.SendMessageInput{
		ConversationID: body.ConversationID,
		SenderID:       middleware.UserFrom(c).ID,
		Text:           body.Text,
		Images:         body.Images,
	})
	if err != nil {
		FromError(c, err)
		return
	}
	Created(c, "Message sent successfully", message)
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	messages, err := h.useCase.ListMessages(c.Param("conversationId"))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Messages loaded successfully", messages)
}
