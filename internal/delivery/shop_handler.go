package delivery

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
	"marketplace_api/internal/middleware"
)

type ShopHandler struct {
	useCase domain.ShopUseCase
	log     *logrus.Logger
}

func NewShopHandler(uc domain.ShopUseCase, logger *logrus.Logger) *ShopHandler {
	return &ShopHandler{useCase: uc, log: logger}
}

func (h *ShopHandler) RegisterRoutes(router gin.IRouter, authenticated, seller, admin gin.HandlerFunc) {
	shops := router.Group("/shops")
	{
		shops.POST("/signup", h.Signup)
		shops.POST("/activation", h.Activate)
		shops.POST("/login", h.Login)
		shops.GET("/me", seller, h.Me)
		shops.GET("/logout", seller, h.Logout)
		shops.GET("/info/:id", h.GetByID)
		shops.PUT("/info", seller, h.UpdateInfo)
		shops.PUT("/avatar", seller, h.UpdateAvatar)
		shops.PUT("/withdraw-method", seller, h.SetWithdrawMethod)
		shops.DELETE("/withdraw-method", seller, h.DeleteWithdrawMethod)
		shops.GET("/admin", authenticated, admin, h.ListAll)
		shops.DELETE("/admin/:id", authenticated, admin, h.Delete)
	}
}

func (h *ShopHandler) Signup(c *gin.Context) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Avatar   string `json:"avatar"`
		Address  string `json:"address"`
		Phone    string `json:"phoneNumber"`
		ZipCode  string `json:"zipCode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	err := h.useCase.Signup(c.Request.Context(), domain.ShopSignupInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Avatar:   body.Avatar,
		Address:  body.Address,
		Phone:    body.Phone,
		ZipCode:  body.ZipCode,
	})
	if err != nil {
		h.log.Warnf("Handler: Shop signup failed for %s: %v", body.Email, err)
		FromError(c, err)
		return
	}
	Created(c, "Please check your email to activate your shop", gin.H{"email": body.Email})
}

func (h *ShopHandler) Activate(c *gin.Context) {
	var body struct {
		ActivationToken string `json:"activation_token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	shop, session, err := h.useCase.Activate(body.ActivationToken)
	if err != nil {
		FromError(c, err)
		return
	}

	middleware.SetSessionCookie(c, middleware.CookieSeller, session)
	Created(c, "Shop activated successfully", shop)
}

func (h *ShopHandler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	shop, session, err := h.useCase.Login(body.Email, body.Password)
	if err != nil {
		h.log.Warnf("Handler: Shop login failed for %s: %v", body.Email, err)
		FromError(c, err)
		return
	}

	middleware.SetSessionCookie(c, middleware.CookieSeller, session)
	Success(c, "Logged in successfully", shop)
}

func (h *ShopHandler) Me(c *gin.Context) {
	Success(c, "Shop loaded successfully", middleware.SellerFrom(c))
}

func (h *ShopHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, middleware.CookieSeller)
	Success(c, "Logged out successfully", nil)
}

func (h *ShopHandler) GetByID(c *gin.Context) {
	shop, err := h.useCase.GetByID(c.Param("id"))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Shop loaded successfully", shop)
}

func (h *ShopHandler) UpdateInfo(c *gin.Context) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Address     string `json:"address"`
		Phone       string `json:"phoneNumber"`
		ZipCode     string `json:"zipCode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	shop, err := h.useCase.UpdateInfo(middleware.SellerFrom(c).ID, body.Name, body.Description, body.Address, body.Phone, body.ZipCode)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Shop info updated successfully", shop)
}

func (h *ShopHandler) UpdateAvatar(c *gin.Context) {
	var body struct {
		Avatar string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	shop, err := h.useCase.UpdateAvatar(c.Request.Context(), middleware.SellerFrom(c).ID, body.Avatar)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Avatar updated successfully", shop)
}

func (h *ShopHandler) SetWithdrawMethod(c *gin.Context) {
	var body domain.WithdrawMethod
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	shop, err := h.useCase.SetWithdrawMethod(middleware.SellerFrom(c).ID, &body)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Withdraw method added successfully", shop)
}

func (h *ShopHandler) DeleteWithdrawMethod(c *gin.Context) {
	shop, err := h.useCase.DeleteWithdrawMethod(middleware.SellerFrom(c).ID)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Withdraw method deleted successfully", shop)
}

func (h *ShopHandler) ListAll(c *gin.Context) {
	shops, err := h.useCase.ListAll()
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Shops loaded successfully", shops)
}

func (h *ShopHandler) Delete(c *gin.Context) {
	if err := h.useCase.Delete(c.Param("id")); err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Shop deleted successfully", nil)
}
