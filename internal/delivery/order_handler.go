package delivery

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
	"marketplace_api/internal/middleware"
)

type OrderHandler struct {
	useCase domain.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc domain.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{useCase: uc, log: logger}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter, authenticated, seller, admin gin.HandlerFunc) {
	orders := router.Group("/orders")
	{
		orders.POST("", authenticated, h.Create)
		orders.GET("/user", authenticated, h.ListByUser)
		orders.GET("/shop", seller, h.ListByShop)
		orders.PUT("/:id/status", seller, h.UpdateStatus)
		orders.PUT("/:id/refund", authenticated, h.RequestRefund)
		orders.PUT("/:id/refund-success", seller, h.RefundSuccess)
		orders.GET("/admin", authenticated, admin, h.ListAll)
	}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var body struct {
		Cart            []domain.CartItem      `json:"cart"`
		ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
		TotalPrice      float64                `json:"totalPrice"`
		PaymentInfo     domain.PaymentInfo     `json:"paymentInfo"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	user := middleware.UserFrom(c)
	orders, err := h.useCase.Create(user.ID, domain.CreateOrderInput{
		Cart:            body.Cart,
		ShippingAddress: body.ShippingAddress,
		TotalPrice:      body.TotalPrice,
		PaymentInfo:     body.PaymentInfo,
	})
	if err != nil {
		h.log.Warnf("Handler: Order creation failed for user %s: %v", user.ID, err)
		FromError(c, err)
		return
	}
	Created(c, "Order placed successfully", orders)
}

func (h *OrderHandler) ListByUser(c *gin.Context) {
	orders, err := h.useCase.ListByUser(middleware.UserFrom(c).ID)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Orders loaded successfully", orders)
}

func (h *OrderHandler) ListByShop(c *gin.Context) {
	orders, err := h.useCase.ListByShop(middleware.SellerFrom(c).ID)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Orders loaded successfully", orders)
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.useCase.ListAll()
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Orders loaded successfully", orders)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.useCase.UpdateStatus(middleware.SellerFrom(c).ID, c.Param("id"), domain.OrderStatus(body.Status))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Order status updated successfully", order)
}

func (h *OrderHandler) RequestRefund(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.useCase.RequestRefund(middleware.UserFrom(c).ID, c.Param("id"), domain.OrderStatus(body.Status))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Refund requested successfully", order)
}

func (h *OrderHandler) RefundSuccess(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.useCase.RefundSuccess(middleware.SellerFrom(c).ID, c.Param("id"), domain.OrderStatus(body.Status))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Refund completed successfully", order)
}
