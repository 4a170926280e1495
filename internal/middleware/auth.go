package middleware

import (
	"fmt"
	"strings"

	"anoa.com/recipemarket/internal/entity"
	userRepo "anoa.com/recipemarket/internal/modules/user/repository"
	"anoa.com/recipemarket/pkg/apperror"
	"anoa.com/recipemarket/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type AuthMiddleware struct {
	userRepo userRepo.UserRepository
	secret   []byte
}

func NewAuthMiddleware(userRepo userRepo.UserRepository, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		secret:   []byte(secret),
	}
}

// RequireAuth validates the bearer token and stores its subject as
// "user_id".
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return m.authenticate(false)
}

// RequireAuthWS is RequireAuth for websocket upgrades. Browsers cannot set
// headers on the upgrade request, so the token may also come from the
// "token" query parameter. Mount it on the upgrade route only.
func (m *AuthMiddleware) RequireAuthWS() gin.HandlerFunc {
	return m.authenticate(true)
}

func (m *AuthMiddleware) authenticate(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if parts := strings.Split(c.GetHeader("Authorization"), " "); len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
		if tokenString == "" && allowQuery {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			abort(c, apperror.Unauthorized("authorization required"))
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			abort(c, apperror.Unauthorized("invalid or expired token"))
			return
		}

		c.Set("user_id", claims.Subject)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := response.GetUserID(c)
		if err != nil {
			abort(c, err)
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			abort(c, apperror.Unauthorized("user not found"))
			return
		}

		if user.Role != entity.RoleAdmin {
			abort(c, apperror.Forbidden("admin access required"))
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	response.ResponseError(c, err)
	c.Abort()
}
