package delivery

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/clients"
)

// PaymentHandler fronts the card-processing API directly; there is no
// payment state of our own to keep.
type PaymentHandler struct {
	payments       clients.PaymentClient
	publishableKey string
	log            *logrus.Logger
}

func NewPaymentHandler(payments clients.PaymentClient, publishableKey string, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments:       payments,
		publishableKey: publishableKey,
		log:            logger,
	}
}

func (h *PaymentHandler) RegisterRoutes(router gin.IRouter, authenticated gin.HandlerFunc) {
	payments := router.Group("/payments")
	{
		payments.GET("/key", authenticated, h.PublishableKey)
		payments.POST("/intent", authenticated, h.CreateIntent)
		payments.GET("/intent/:id", authenticated, h.RetrieveIntent)
	}
}

func (h *PaymentHandler) PublishableKey(c *gin.Context) {
	Success(c, "Publishable key loaded successfully", gin.H{"key": h.publishableKey})
}

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}
	if body.Amount <= 0 {
		BadRequest(c, "Amount must be positive")
		return
	}

	intent, err := h.payments.CreateIntent(c.Request.Context(), body.Amount, "usd", map[string]string{"company": "Marketplace"})
	if err != nil {
		h.log.Errorf("Handler: Failed to create payment intent: %v", err)
		FromError(c, err)
		return
	}
	Created(c, "Payment intent created successfully", intent)
}

func (h *PaymentHandler) RetrieveIntent(c *gin.Context) {
	intent, err := h.payments.RetrieveIntent(c.Request.Context(), c.Param("id"))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Payment intent loaded successfully", intent)
}
