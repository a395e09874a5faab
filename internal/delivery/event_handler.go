package delivery

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
	"marketplace_api/internal/middleware"
)

type EventHandler struct {
	useCase domain.EventUseCase
	log     *logrus.Logger
}

func NewEventHandler(uc domain.EventUseCase, logger *logrus.Logger) *EventHandler {
	return &EventHandler{useCase: uc, log: logger}
}

func (h *EventHandler) RegisterRoutes(router gin.IRouter, authenticated, seller, admin gin.HandlerFunc) {
	events := router.Group("/events")
	{
		events.GET("", h.ListAll)
		events.GET("/shop/:shopId", h.ListByShop)
		events.POST("", seller, h.Create)
		events.DELETE("/:id", seller, h.Delete)
		events.GET("/admin", authenticated, admin, h.ListAll)
	}
}

func (h *EventHandler) Create(c *gin.Context) {
	var body struct {
		Name          string    `json:"name"`
		Description   string    `json:"description"`
		Category      string    `json:"category"`
		StartDate     time.Time `json:"startDate"`
		FinishDate    time.Time `json:"finishDate"`
		OriginalPrice float64   `json:"originalPrice"`
		DiscountPrice float64   `json:"discountPrice"`
		Stock         int       `json:"stock"`
		Images        []string  `json:"images"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.useCase.Create(c.Request.Context(), domain.CreateEventInput{
		ShopID:        middleware.SellerFrom(c).ID,
		Name:          body.Name,
		Description:   body.Description,
		Category:      body.Category,
		StartDate:     body.StartDate,
		FinishDate:    body.FinishDate,
		OriginalPrice: body.OriginalPrice,
		DiscountPrice: body.DiscountPrice,
		Stock:         body.Stock,
		Images:        body.Images,
	})
	if err != nil {
		h.log.Warnf("Handler: Event creation failed: %v", err)
		FromError(c, err)
		return
	}
	Created(c, "Event created successfully", event)
}

func (h *EventHandler) ListAll(c *gin.Context) {
	events, err := h.useCase.ListAll()
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Events loaded successfully", events)
}

func (h *EventHandler) ListByShop(c *gin.Context) {
	events, err := h.useCase.ListByShop(c.Param("shopId"))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Events loaded successfully", events)
}

func (h *EventHandler) Delete(c *gin.Context) {
	err := h.useCase.Delete(c.Request.Context(), middleware.SellerFrom(c).ID, c.Param("id"))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Event deleted successfully", nil)
}
