package usecase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authdomain "github.com/linq-app/linq-backend/internal/auth/domain"
	authdto "github.com/linq-app/linq-backend/internal/auth/dto"
	"github.com/linq-app/linq-backend/internal/auth/repository"
	"github.com/linq-app/linq-backend/pkg/apperror"
	"github.com/linq-app/linq-backend/pkg/config"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo  repository.UserRepository
	config    *config.Config
	kakaoHTTP *http.Client
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		config:    cfg,
		kakaoHTTP: &http.Client{Timeout: 5 * time.Second},
	}
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, apperror.Database("Failed to look up user")
	}

	if user == nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	if user.Provider != "email" {
		return nil, apperror.Unauthorized("Please use Kakao Sign-In for this account")
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	return u.generateTokens(user)
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, apperror.Database("Failed to look up user")
	}

	if existing != nil {
		return nil, apperror.New(apperror.CodeDuplicateError, "Email already registered", http.StatusConflict)
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal("Failed to hash password")
	}

	user := &authdomain.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Provider: "email",
	}

	if err := u.userRepo.Create(user); err != nil {
		return nil, apperror.Database("Failed to create user")
	}

	return u.generateTokens(user)
}

// kakaoUserInfo is the answer from Kakao's /v2/user/me endpoint.
type kakaoUserInfo struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"properties"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

func (u *authUsecase) KakaoSignIn(accessToken string) (*authdto.TokenResponse, error) {
	info, err := u.fetchKakaoUserInfo(accessToken)
	if err != nil {
		return nil, err
	}

	kakaoID := strconv.FormatInt(info.ID, 10)
	email := info.KakaoAccount.Email
	if email == "" {
		// Kakao may withhold the email; synthesize a stable stand-in.
		email = fmt.Sprintf("kakao_%s@linq.app", kakaoID)
	}
	avatar := info.Properties.ProfileImage
	if avatar == "" {
		avatar = info.KakaoAccount.Profile.ProfileImageURL
	}

	user, err := u.userRepo.FindByKakaoID(kakaoID)
	if err != nil {
		return nil, apperror.Database("Failed to look up user")
	}

	if user == nil {
		user = &authdomain.User{
			Email:     email,
			Name:      info.Properties.Nickname,
			AvatarURL: avatar,
			Provider:  "kakao",
			KakaoID:   kakaoID,
		}
		if err := u.userRepo.Create(user); err != nil {
			return nil, apperror.Database("Failed to create user")
		}
	} else {
		user.Name = info.Properties.Nickname
		user.AvatarURL = avatar
		if err := u.userRepo.Update(user); err != nil {
			return nil, apperror.Database("Failed to update user")
		}
	}

	return u.generateTokens(user)
}

func (u *authUsecase) fetchKakaoUserInfo(accessToken string) (*kakaoUserInfo, error) {
	req, err := http.NewRequest(http.MethodGet, u.config.KakaoAPIBaseURL+"/v2/user/me", nil)
	if err != nil {
		return nil, apperror.Internal("Failed to build Kakao request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := u.kakaoHTTP.Do(req)
	if err != nil {
		return nil, apperror.New(apperror.CodeKakaoAuthFailed, "Failed to verify Kakao token", http.StatusUnauthorized)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.New(apperror.CodeKakaoAuthFailed,
			fmt.Sprintf("Kakao API error: %d", resp.StatusCode), http.StatusUnauthorized)
	}

	var info kakaoUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, apperror.New(apperror.CodeKakaoAuthFailed, "Failed to decode Kakao user info", http.StatusUnauthorized)
	}

	if info.ID == 0 || info.Properties.Nickname == "" {
		return nil, apperror.New(apperror.CodeKakaoAuthFailed, "Incomplete user data from Kakao", http.StatusUnauthorized)
	}

	return &info, nil
}

func (u *authUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, apperror.New(apperror.CodeInvalidToken, "Invalid refresh token", http.StatusUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.New(apperror.CodeInvalidToken, "Invalid token claims", http.StatusUnauthorized)
	}

	// A refresh token must still be on record; logout revokes it.
	storedToken, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.Database("Failed to look up refresh token")
	}

	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, apperror.New(apperror.CodeInvalidToken, "Refresh token expired", http.StatusUnauthorized)
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, apperror.New(apperror.CodeInvalidToken, "Invalid token claims", http.StatusUnauthorized)
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperror.Database("Failed to look up user")
	}

	if user == nil {
		return nil, apperror.Unauthorized("User not found")
	}

	// Rotate: drop the old token so it cannot be replayed.
	if err := u.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return nil, apperror.Database("Failed to rotate refresh token")
	}

	return u.generateTokens(user)
}

func (u *authUsecase) Logout(refreshToken string) error {
	return u.userRepo.DeleteRefreshToken(refreshToken)
}

func (u *authUsecase) generateTokens(user *authdomain.User) (*authdto.TokenResponse, error) {
	accessToken, err := u.generateAccessToken(user)
	if err != nil {
		return nil, apperror.Internal("Failed to sign access token")
	}

	refreshToken, err := u.generateRefreshToken(user)
	if err != nil {
		return nil, apperror.Internal("Failed to sign refresh token")
	}

	refreshTokenEntity := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.config.JWTRefreshExpiry),
	}
	if err := u.userRepo.SaveRefreshToken(refreshTokenEntity); err != nil {
		return nil, apperror.Database("Failed to store refresh token")
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) generateRefreshToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"exp":      time.Now().Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, apperror.New(apperror.CodeInvalidToken, "Invalid token", http.StatusUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.New(apperror.CodeInvalidToken, "Invalid token claims", http.StatusUnauthorized)
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, apperror.New(apperror.CodeInvalidToken, "Invalid token claims", http.StatusUnauthorized)
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperror.Database("Failed to look up user")
	}

	if user == nil {
		return nil, apperror.Unauthorized("User not found")
	}

	return user, nil
}
