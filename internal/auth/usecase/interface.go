package usecase

import (
	authdomain "github.com/linq-app/linq-backend/internal/auth/domain"
	authdto "github.com/linq-app/linq-backend/internal/auth/dto"
)

type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	KakaoSignIn(accessToken string) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(tokenString string) (*authdomain.User, error)
}
