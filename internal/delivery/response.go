package delivery

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace_api/internal/domain"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Data: data, Message: message})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Data: data, Message: message})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Message: message})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{Message: message})
}

func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Response{Message: message})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{Message: message})
}

func InternalServerError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Response{Message: message})
}

// FromError maps a domain sentinel to its status code and strips the sentinel
// prefix from the client-facing message. Unrecognized errors become a generic
// 500 so internals never leak.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		BadRequest(c, userMessage(err, domain.ErrBadRequest))
	case errors.Is(err, domain.ErrUnauthorized):
		Unauthorized(c, userMessage(err, domain.ErrUnauthorized))
	case errors.Is(err, domain.ErrForbidden):
		Forbidden(c, userMessage(err, domain.ErrForbidden))
	case errors.Is(err, domain.ErrNotFound):
		NotFound(c, userMessage(err, domain.ErrNotFound))
	default:
		InternalServerError(c, "Internal server error")
	}
}

func userMessage(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error())
	return strings.TrimPrefix(msg, ": ")
}
