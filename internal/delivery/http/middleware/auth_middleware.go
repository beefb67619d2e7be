package middleware

import (
	"strings"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const AccessTokenCookie = "accessToken"

// AuthMiddleware resolves the caller from a Bearer token or the accessToken cookie,
// loads the user and attaches the principal to the request.
func AuthMiddleware(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// 1. Authorization header
		if header := c.GetHeader("Authorization"); header != "" {
			if !strings.HasPrefix(header, "Bearer ") {
				abortWith(c, apperror.Unauthorized("Authorization header must use the Bearer scheme"))
				return
			}
			tokenString = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		} else if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
			// 2. Cookie
			tokenString = cookie
		}

		if tokenString == "" {
			abortWith(c, apperror.Unauthorized("Authorization header or accessToken cookie required"))
			return
		}

		user, err := authUC.Authenticate(c, tokenString)
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), user.Email)
		c.Set(string(domain.KeyUserRole), user.Role)
		c.Set(string(domain.KeyPrincipal), user.Principal())

		c.Next()
	}
}

// PrincipalFrom returns the principal attached by AuthMiddleware.
func PrincipalFrom(c *gin.Context) domain.Principal {
	if v, ok := c.Get(string(domain.KeyPrincipal)); ok {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return domain.Principal{}
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
