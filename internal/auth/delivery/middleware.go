package delivery

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/linq-app/linq-backend/internal/auth/usecase"
	"github.com/linq-app/linq-backend/pkg/apperror"
	"github.com/linq-app/linq-backend/pkg/response"
)

func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Fail(c, apperror.Unauthorized("Authorization header required"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Fail(c, apperror.Unauthorized("Invalid authorization header format"))
			c.Abort()
			return
		}

		user, err := authUsecase.ValidateToken(parts[1])
		if err != nil {
			response.Fail(c, apperror.Unauthorized("Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Next()
	}
}
