package delivery

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
	"marketplace_api/internal/middleware"
)

type UserHandler struct {
	useCase domain.UserUseCase
	log     *logrus.Logger
}

func NewUserHandler(uc domain.UserUseCase, logger *logrus.Logger) *UserHandler {
	return &UserHandler{useCase: uc, log: logger}
}

func (h *UserHandler) RegisterRoutes(router gin.IRouter, authenticated, admin gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.POST("/signup", h.Signup)
		users.POST("/activation", h.Activate)
		users.POST("/login", h.Login)
		users.GET("/me", authenticated, h.Me)
		users.GET("/logout", authenticated, h.Logout)
		users.PUT("/info", authenticated, h.UpdateInfo)
		users.PUT("/avatar", authenticated, h.UpdateAvatar)
		users.PUT("/addresses", authenticated, h.AddAddress)
		users.DELETE("/addresses/:id", authenticated, h.DeleteAddress)
		users.GET("/admin", authenticated, admin, h.ListAll)
		users.DELETE("/admin/:id", authenticated, admin, h.Delete)
	}
}

func (h *UserHandler) Signup(c *gin.Context) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Avatar   string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	err := h.useCase.Signup(c.Request.Context(), domain.SignupInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Avatar:   body.Avatar,
	})
	if err != nil {
		h.log.Warnf("Handler: Signup failed for %s: %v", body.Email, err)
		FromError(c, err)
		return
	}
	Created(c, "Please check your email to activate your account", gin.H{"email": body.Email})
}

func (h *UserHandler) Activate(c *gin.Context) {
	var body struct {
		ActivationToken string `json:"activation_token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	user, session, err := h.useCase.Activate(body.ActivationToken)
	if err != nil {
		FromError(c, err)
		return
	}

	middleware.SetSessionCookie(c, middleware.CookieUser, session)
	Created(c, "Account activated successfully", user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	user, session, err := h.useCase.Login(body.Email, body.Password)
	if err != nil {
		h.log.Warnf("Handler: Login failed for %s: %v", body.Email, err)
		FromError(c, err)
		return
	}

	middleware.SetSessionCookie(c, middleware.CookieUser, session)
	Success(c, "Logged in successfully", user)
}

func (h *UserHandler) Me(c *gin.Context) {
	Success(c, "User loaded successfully", middleware.UserFrom(c))
}

func (h *UserHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, middleware.CookieUser)
	Success(c, "Logged out successfully", nil)
}

func (h *UserHandler) UpdateInfo(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Phone    string `json:"phoneNumber"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.useCase.UpdateInfo(body.Email, body.Password, body.Name, body.Phone)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "User info updated successfully", user)
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	var body struct {
		Avatar string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.useCase.UpdateAvatar(c.Request.Context(), middleware.UserFrom(c).ID, body.Avatar)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Avatar updated successfully", user)
}

func (h *UserHandler) AddAddress(c *gin.Context) {
	var body domain.Address
	if err := c.ShouldBindJSON(&body); err != nil {
		BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.useCase.AddAddress(middleware.UserFrom(c).ID, body)
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Address added successfully", user)
}

func (h *UserHandler) DeleteAddress(c *gin.Context) {
	user, err := h.useCase.DeleteAddress(middleware.UserFrom(c).ID, c.Param("id"))
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Address deleted successfully", user)
}

func (h *UserHandler) ListAll(c *gin.Context) {
	users, err := h.useCase.ListAll()
	if err != nil {
		FromError(c, err)
		return
	}
	Success(c, "Users loaded successfully", users)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.useCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		FromError(c, err)
		return
	}
	Success(c, "User deleted successfully", nil)
}
