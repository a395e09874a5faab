package delivery

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
	"marketplace_api/internal/middleware"
)

type ProductHandler struct {
	useCase domain.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc domain.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{useCase: uc, log: logger}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter, authenticated, seller, admin gin.HandlerFunc) {
	products := router.Group("/products")
	{
		products.GET("", h.ListAll)
		products.GET("/shop/:shopId", h.ListByShop)
		products.POST("", seller, h.Create)
		products.DELETE("/:id", seller, h.Delete)
		products.PUT("/review", authenticated, h.Review)
		products.GET("/admin", authenticated, admin, h.ListAll)
	}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var body struct {
		Name          string   `json:"name"`
		Description   string   `json:"description"`
		Category      string   `json:"category"`
		Tags          string   `json:"tags"`
		OriginalPrice float64  `json:"originalPrice"`
		DiscountPrice float64  `json:"discountPrice"`
		Stock         int      `json:"stock"`
		Images        []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.useCase.Create(c.Request.Context(), domain.CreateProductInput{
		ShopID:        middleware.SellerFrom(c).ID,
		Name:          body.Name,
		Description:   body.Description,
		Category:      body.Category,
		Tags:          body.Tags,
		OriginalPrice: body.OriginalPrice,
		DiscountPrice: body.DiscountPrice,
		Stock:         body.Stock,
		Images:        body.Images,
	})
	if err != nil {
		h.log.Warnf("Handler: Product creation failed: %v", err)
		FromError(c, err)
		return
	}
	Created(c, "Product created successfully", product)
}

func (h *ProductHandler) ListAll(c *gin.Context) {
	products, err := h.useCase.ListAll()
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Products loaded successfully", products)
}

func (h *ProductHandler) ListByShop(c *gin.Context) {
	products, err := h.useCase.ListByShop(c.Param("shopId"))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Products loaded successfully", products)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	err := h.useCase.Delete(c.Request.Context(), middleware.SellerFrom(c).ID, c.Param("id"))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Product deleted successfully", nil)
}

func (h *ProductHandler) Review(c *gin.Context) {
	var body struct {
		ProductID string `json:"productId"`
		OrderID   string `json:"orderId"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.useCase.Review(middleware.UserFrom(c), domain.ReviewInput{
		ProductID: body.ProductID,
		OrderID:   body.OrderID,
		Rating:    body.Rating,
		Comment:   body.Comment,
	})
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Review submitted successfully", product)
}
