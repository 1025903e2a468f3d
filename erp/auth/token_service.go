package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"green_erp/erp/schema"
	"green_erp/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type contextKey string

const userRequestContextKey contextKey = "user"

// ErrInvalidCredentials deliberately covers both an unknown username and a wrong
// password so that login responses cannot be used to probe for accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

var ErrGeneratingJwt = errors.New("error generating access token")

// TokenService owns the signing key and expiry policy for bearer tokens and
// resolves tokens back to user rows. It is constructed once at process start and
// passed to the services that need it.
type TokenService struct {
	jwtManager *JwtManager
	db         *gorm.DB
}

func NewTokenService(db *gorm.DB, secret []byte) *TokenService {
	return &TokenService{jwtManager: NewJwtManager(secret), db: db}
}

type LoginResult struct {
	User        schema.User
	AccessToken string
}

func (s *TokenService) Login(username, password string) (LoginResult, error) {
	user, err := schema.GetUserByUsername(username, s.db)
	if err != nil {
		if errors.Is(err, schema.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.jwtManager.CreateUserJwt(user.Id)
	if err != nil {
		return LoginResult{}, ErrGeneratingJwt
	}

	return LoginResult{User: user, AccessToken: token}, nil
}

func HashPassword(password string) ([]byte, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, fmt.Errorf("error encrypting password: %w", err)
	}
	return hashed, nil
}

func (s *TokenService) addUserToContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		handler := func(w http.ResponseWriter, r *http.Request) {
			userId, err := ValueFromContext(r, userIdKey)
			if err != nil {
				utils.WriteJsonError(w, http.StatusUnauthorized, err.Error())
				return
			}

			userUUID, err := uuid.Parse(userId)
			if err != nil {
				utils.WriteJsonError(w, http.StatusUnauthorized, fmt.Sprintf("invalid user uuid '%v': %v", userId, err))
				return
			}

			user, err := schema.GetUser(userUUID, s.db)
			if err != nil {
				if errors.Is(err, schema.ErrUserNotFound) {
					utils.WriteJsonError(w, http.StatusNotFound, err.Error())
					return
				}
				slog.Error("error resolving token user", "user_id", userId, "error", err)
				utils.WriteJsonError(w, http.StatusInternalServerError, fmt.Sprintf("unable to find user %v", userId))
				return
			}

			reqCtx := context.WithValue(r.Context(), userRequestContextKey, user)
			next.ServeHTTP(w, r.WithContext(reqCtx))
		}

		return http.HandlerFunc(handler)
	}
}

// AuthMiddleware is the full chain applied to authenticated routes: token
// verification, token presence/expiry check, and user resolution.
func (s *TokenService) AuthMiddleware() chi.Middlewares {
	return chi.Middlewares{s.jwtManager.Verifier(), s.jwtManager.Authenticator(), s.addUserToContext()}
}
