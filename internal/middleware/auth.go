package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
	"marketplace_api/internal/token"
)

// Context keys for the loaded principals.
const (
	CtxUser   = "user"
	CtxSeller = "seller"
)

const (
	CookieUser   = "auth_token"
	CookieSeller = "seller_token"
)

// Authenticated requires a valid buyer session cookie and loads the account
// into the context.
func Authenticated(tokens *token.Manager, users domain.UserUseCase, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(CookieUser)
		if err != nil || cookie == "" {
			log.Warnf("Middleware: Missing %s cookie for %s", CookieUser, c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please login to continue"})
			return
		}

		userID, err := tokens.VerifySession(cookie, token.KindUser)
		if err != nil {
			log.Warnf("Middleware: Invalid session token for %s: %v", c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please login to continue"})
			return
		}

		user, err := users.GetByID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please login to continue"})
			return
		}

		c.Set(CtxUser, user)
		c.Next()
	}
}

// Seller requires a valid seller session cookie and loads the shop into the
// context.
func Seller(tokens *token.Manager, shops domain.ShopUseCase, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(CookieSeller)
		if err != nil || cookie == "" {
			log.Warnf("Middleware: Missing %s cookie for %s", CookieSeller, c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please login to continue"})
			return
		}

		shopID, err := tokens.VerifySession(cookie, token.KindShop)
		if err != nil {
			log.Warnf("Middleware: Invalid seller token for %s: %v", c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please login to continue"})
			return
		}

		shop, err := shops.GetByID(shopID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please login to continue"})
			return
		}

		c.Set(CtxSeller, shop)
		c.Next()
	}
}

// Authorized gates a route behind user roles. It must run after
// Authenticated.
func Authorized(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := UserFrom(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please login to continue"})
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You are not allowed to access this resource"})
	}
}

func UserFrom(c *gin.Context) *domain.User {
	value, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	user, _ := value.(*domain.User)
	return user
}

func SellerFrom(c *gin.Context) *domain.Shop {
	value, ok := c.Get(CtxSeller)
	if !ok {
		return nil
	}
	shop, _ := value.(*domain.Shop)
	return shop
}

// SetSessionCookie writes a 90-day session cookie for cross-site storefront
// requests.
func SetSessionCookie(c *gin.Context, name, value string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, int(token.SessionTTL.Seconds()), "/", "", true, true)
}

func ClearSessionCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, "", -1, "/", "", true, true)
}
