package delivery

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
	"marketplace_api/internal/middleware"
)

type CouponHandler struct {
	useCase domain.CouponUseCase
	log     *logrus.Logger
}

func NewCouponHandler(uc domain.CouponUseCase, logger *logrus.Logger) *CouponHandler {
	return &CouponHandler{useCase: uc, log: logger}
}

func (h *CouponHandler) RegisterRoutes(router gin.IRouter, seller gin.HandlerFunc) {
	coupons := router.Group("/coupons")
	{
		coupons.POST("", seller, h.Create)
		coupons.GET("/shop", seller, h.ListByShop)
		coupons.GET("/value/:name", h.GetByName)
		coupons.DELETE("/:id", seller, h.Delete)
	}
}

func (h *CouponHandler) Create(c *gin.Context) {
	var body struct {
		Name            string  `json:"name"`
		Value           float64 `json:"value"`
		MinAmount       float64 `json:"minAmount"`
		MaxAmount       float64 `json:"maxAmount"`
		SelectedProduct string  `json:"selectedProduct"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	coupon, err := h.useCase.Create(middleware.SellerFrom(c).ID, &domain.Coupon{
		Name:            body.Name,
		Value:           body.Value,
		MinAmount:       body.MinAmount,
		MaxAmount:       body.MaxAmount,
		SelectedProduct: body.SelectedProduct,
	})
	if err != nil {
		h.log.Warnf("Handler: Coupon creation failed: %v", err)
		FromError(c, err)
		return
	}
	Created(c, "Coupon created successfully", coupon)
}

func (h *CouponHandler) ListByShop(c *gin.Context) {
	coupons, err := h.useCase.ListByShop(middleware.SellerFrom(c).ID)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Coupons loaded successfully", coupons)
}

func (h *CouponHandler) GetByName(c *gin.Context) {
	coupon, err := h.useCase.GetByName(c.Param("name"))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Coupon loaded successfully", coupon)
}

func (h *CouponHandler) Delete(c *gin.Context) {
	coupon, err := h.useCase.Delete(middleware.SellerFrom(c).ID, c.Param("id"))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Coupon deleted successfully", coupon)
}
