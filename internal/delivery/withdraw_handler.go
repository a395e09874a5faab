package delivery

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
	"marketplace_api/internal/middleware"
)

type WithdrawHandler struct {
	useCase domain.WithdrawUseCase
	log     *logrus.Logger
}

func NewWithdrawHandler(uc domain.WithdrawUseCase, logger *logrus.Logger) *WithdrawHandler {
	return &WithdrawHandler{useCase: uc, log: logger}
}

func (h *WithdrawHandler) RegisterRoutes(router gin.IRouter, authenticated, seller, admin gin.HandlerFunc) {
	withdraws := router.Group("/withdraws")
	{
		withdraws.POST("", seller, h.Create)
		withdraws.GET("/admin", authenticated, admin, h.ListAll)
		withdraws.PUT("/admin/:id", authenticated, admin, h.Approve)
	}
}

func (h *WithdrawHandler) Create(c *gin.Context) {
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	shop := middleware.SellerFrom(c)
	withdraw, err := h.useCase.Create(shop, body.Amount)
	if err != nil {
		h.log.Warnf("Handler: Withdraw request failed for shop %s: %v", shop.ID, err)
		FromError(c, err)
		return
	}
	Created(c, "Withdraw request created successfully", withdraw)
}

func (h *WithdrawHandler) ListAll(c *gin.Context) {
	withdraws, err := h.useCase.ListAll()
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Withdraw requests loaded successfully", withdraws)
}

func (h *WithdrawHandler) Approve(c *gin.Context) {
	var body struct {
		SellerID string `json:"sellerId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	withdraw, err := h.useCase.Approve(c.Param("id"), body.SellerID)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Withdraw request approved successfully", withdraw)
}
