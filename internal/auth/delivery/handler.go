package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authdomain "github.com/linq-app/linq-backend/internal/auth/domain"
	authdto "github.com/linq-app/linq-backend/internal/auth/dto"
	"github.com/linq-app/linq-backend/internal/auth/usecase"
	"github.com/linq-app/linq-backend/pkg/apperror"
	"github.com/linq-app/linq-backend/pkg/response"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation(err.Error()))
		return
	}

	tokens, err := h.authUsecase.Register(&req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusCreated, tokens)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation(err.Error()))
		return
	}

	tokens, err := h.authUsecase.Login(&req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, tokens)
}

// KakaoSignIn handles POST /api/auth/kakao
func (h *AuthHandler) KakaoSignIn(c *gin.Context) {
	var req authdto.KakaoSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("access_token is required"))
		return
	}

	tokens, err := h.authUsecase.KakaoSignIn(req.AccessToken)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, tokens)
}

// RefreshToken handles POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("refresh_token is required"))
		return
	}

	tokens, err := h.authUsecase.RefreshToken(req.RefreshToken)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, tokens)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperror.Validation("refresh_token is required"))
		return
	}

	if err := h.authUsecase.Logout(req.RefreshToken); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"logged_out": true})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	v, exists := c.Get("user")
	user, ok := v.(*authdomain.User)
	if !exists || !ok {
		response.Fail(c, apperror.Unauthorized("User not found in context"))
		return
	}
	response.OK(c, http.StatusOK, gin.H{"user": user})
}
