package usecase

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdomain "github.com/linq-app/linq-backend/internal/auth/domain"
	authdto "github.com/linq-app/linq-backend/internal/auth/dto"
	"github.com/linq-app/linq-backend/internal/auth/repository"
	"github.com/linq-app/linq-backend/pkg/apperror"
	"github.com/linq-app/linq-backend/pkg/config"
)

type fakeUserRepo struct {
	users  map[string]*authdomain.User // by ID
	tokens map[string]*authdomain.RefreshToken
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*authdomain.User),
		tokens: make(map[string]*authdomain.RefreshToken),
	}
}

func (r *fakeUserRepo) Create(user *authdomain.User) error {
	r.nextID++
	if user.ID == "" {
		user.ID = time.Now().Format("150405.000000000") + "-" + string(rune('a'+r.nextID))
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByKakaoID(kakaoID string) (*authdomain.User, error) {
	for _, u := range r.users {
		if u.Provider == "kakao" && u.KakaoID == kakaoID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(user *authdomain.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SaveRefreshToken(token *authdomain.RefreshToken) error {
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return r.tokens[token], nil
}

func (r *fakeUserRepo) DeleteRefreshToken(token string) error {
	delete(r.tokens, token)
	return nil
}

func testConfig(kakaoURL string) *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
		KakaoAPIBaseURL:  kakaoURL,
	}
}

func mustCode(t *testing.T, err error, want apperror.Code) {
	t.Helper()
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.Error, got %T: %v", err, err)
	}
	if appErr.Code != want {
		t.Fatalf("expected code %s, got %s", want, appErr.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, testConfig(""))

	req := &authdto.RegisterRequest{Email: "a@b.com", Password: "secret1", Name: "민준"}
	tokens, err := uc.Register(req)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if tokens.User.Password == req.Password {
		t.Fatal("password stored in plaintext")
	}
	if !repository.CheckPasswordHash("secret1", tokens.User.Password) {
		t.Fatal("stored hash does not match password")
	}

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := uc.Register(req)
		mustCode(t, err, apperror.CodeDuplicateError)
	})

	t.Run("login with correct password", func(t *testing.T) {
		got, err := uc.Login(&authdto.LoginRequest{Email: "a@b.com", Password: "secret1"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if got.User.ID != tokens.User.ID {
			t.Errorf("logged in as %s, want %s", got.User.ID, tokens.User.ID)
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, err := uc.Login(&authdto.LoginRequest{Email: "a@b.com", Password: "wrong66"})
		mustCode(t, err, apperror.CodeUnauthorized)
	})

	t.Run("login with unknown email", func(t *testing.T) {
		_, err := uc.Login(&authdto.LoginRequest{Email: "no@b.com", Password: "secret1"})
		mustCode(t, err, apperror.CodeUnauthorized)
	})

	t.Run("kakao account cannot use password login", func(t *testing.T) {
		repo.Create(&authdomain.User{Email: "k@b.com", Provider: "kakao", KakaoID: "42"})
		_, err := uc.Login(&authdto.LoginRequest{Email: "k@b.com", Password: "secret1"})
		mustCode(t, err, apperror.CodeUnauthorized)
	})
}

func TestKakaoSignIn(t *testing.T) {
	t.Run("creates a new user from kakao profile", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v2/user/me" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer kakao-token" {
				t.Errorf("unexpected auth header %q", got)
			}
			w.Write([]byte(`{"id":12345,"properties":{"nickname":"민준","profile_image":"http://img"},"kakao_account":{"email":"mj@kakao.com"}}`))
		}))
		defer server.Close()

		repo := newFakeUserRepo()
		uc := NewAuthUsecase(repo, testConfig(server.URL))

		tokens, err := uc.KakaoSignIn("kakao-token")
		if err != nil {
			t.Fatalf("KakaoSignIn: %v", err)
		}
		if tokens.User.Provider != "kakao" || tokens.User.KakaoID != "12345" {
			t.Errorf("unexpected user %+v", tokens.User)
		}
		if tokens.User.Email != "mj@kakao.com" || tokens.User.Name != "민준" {
			t.Errorf("profile not copied: %+v", tokens.User)
		}
	})

	t.Run("missing email is synthesized from the kakao id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":777,"properties":{"nickname":"지우"},"kakao_account":{}}`))
		}))
		defer server.Close()

		uc := NewAuthUsecase(newFakeUserRepo(), testConfig(server.URL))
		tokens, err := uc.KakaoSignIn("kakao-token")
		if err != nil {
			t.Fatalf("KakaoSignIn: %v", err)
		}
		if tokens.User.Email != "kakao_777@linq.app" {
			t.Errorf("unexpected synthesized email %q", tokens.User.Email)
		}
	})

	t.Run("repeat sign-in updates the existing user", func(t *testing.T) {
		nickname := "민준"
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":12345,"properties":{"nickname":"` + nickname + `"},"kakao_account":{"email":"mj@kakao.com"}}`))
		}))
		defer server.Close()

		repo := newFakeUserRepo()
		uc := NewAuthUsecase(repo, testConfig(server.URL))

		first, err := uc.KakaoSignIn("kakao-token")
		if err != nil {
			t.Fatalf("first sign-in: %v", err)
		}

		nickname = "민준2"
		second, err := uc.KakaoSignIn("kakao-token")
		if err != nil {
			t.Fatalf("second sign-in: %v", err)
		}
		if second.User.ID != first.User.ID {
			t.Errorf("expected same user, got %s and %s", first.User.ID, second.User.ID)
		}
		if second.User.Name != "민준2" {
			t.Errorf("nickname not refreshed: %q", second.User.Name)
		}
		if len(repo.users) != 1 {
			t.Errorf("expected 1 user, got %d", len(repo.users))
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		uc := NewAuthUsecase(newFakeUserRepo(), testConfig(server.URL))
		_, err := uc.KakaoSignIn("bad-token")
		mustCode(t, err, apperror.CodeKakaoAuthFailed)
	})

	t.Run("incomplete kakao profile", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":0}`))
		}))
		defer server.Close()

		uc := NewAuthUsecase(newFakeUserRepo(), testConfig(server.URL))
		_, err := uc.KakaoSignIn("kakao-token")
		mustCode(t, err, apperror.CodeKakaoAuthFailed)
	})
}

func TestValidateToken(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, testConfig(""))

	tokens, err := uc.Register(&authdto.RegisterRequest{Email: "a@b.com", Password: "secret1", Name: "민준"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("valid access token resolves the user", func(t *testing.T) {
		user, err := uc.ValidateToken(tokens.AccessToken)
		if err != nil {
			t.Fatalf("ValidateToken: %v", err)
		}
		if user.ID != tokens.User.ID {
			t.Errorf("resolved %s, want %s", user.ID, tokens.User.ID)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := uc.ValidateToken("not-a-jwt")
		mustCode(t, err, apperror.CodeInvalidToken)
	})

	t.Run("token signed with another secret rejected", func(t *testing.T) {
		other := NewAuthUsecase(repo, &config.Config{
			JWTSecret:        "other-secret",
			JWTAccessExpiry:  15 * time.Minute,
			JWTRefreshExpiry: time.Hour,
		})
		foreign, err := other.Login(&authdto.LoginRequest{Email: "a@b.com", Password: "secret1"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		_, err = uc.ValidateToken(foreign.AccessToken)
		mustCode(t, err, apperror.CodeInvalidToken)
	})
}

func TestRefreshToken(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewAuthUsecase(repo, testConfig(""))

	tokens, err := uc.Register(&authdto.RegisterRequest{Email: "a@b.com", Password: "secret1", Name: "민준"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("refresh rotates the token", func(t *testing.T) {
		refreshed, err := uc.RefreshToken(tokens.RefreshToken)
		if err != nil {
			t.Fatalf("RefreshToken: %v", err)
		}
		if refreshed.AccessToken == "" {
			t.Fatal("expected a new access token")
		}
		if _, ok := repo.tokens[tokens.RefreshToken]; ok {
			t.Error("old refresh token should be revoked after rotation")
		}
		if _, ok := repo.tokens[refreshed.RefreshToken]; !ok {
			t.Error("new refresh token not stored")
		}

		_, err = uc.RefreshToken(tokens.RefreshToken)
		mustCode(t, err, apperror.CodeInvalidToken)
	})

	t.Run("logout revokes the refresh token", func(t *testing.T) {
		fresh, err := uc.Login(&authdto.LoginRequest{Email: "a@b.com", Password: "secret1"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if err := uc.Logout(fresh.RefreshToken); err != nil {
			t.Fatalf("Logout: %v", err)
		}
		_, err = uc.RefreshToken(fresh.RefreshToken)
		mustCode(t, err, apperror.CodeInvalidToken)
	})

	t.Run("expired stored token rejected", func(t *testing.T) {
		fresh, err := uc.Login(&authdto.LoginRequest{Email: "a@b.com", Password: "secret1"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		repo.tokens[fresh.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)
		_, err = uc.RefreshToken(fresh.RefreshToken)
		mustCode(t, err, apperror.CodeInvalidToken)
	})
}
