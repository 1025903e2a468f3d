package services

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"green_erp/erp/auth"
	"green_erp/erp/schema"
	"green_erp/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService struct {
	db     *gorm.DB
	tokens *auth.TokenService
}

func (s *AuthService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", s.Login)
	r.Post("/init-users", s.InitUsers)

	r.Group(func(r chi.Router) {
		r.Use(s.tokens.AuthMiddleware()...)

		r.Get("/me", s.CurrentUser)
	})

	return r
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var params loginRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if params.Username == "" || params.Password == "" {
		utils.WriteJsonError(w, http.StatusBadRequest, "username and password required")
		return
	}

	login, err := s.tokens.Login(params.Username, params.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			utils.WriteJsonError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		slog.Error("login failed", "error", err)
		utils.WriteJsonError(w, http.StatusInternalServerError, "login failed")
		return
	}

	slog.Info("user logged in", "user_id", login.User.Id, "role", login.User.Role)

	utils.WriteJsonResponse(w, loginResponse{AccessToken: login.AccessToken, Role: login.User.Role})
}

// The demo accounts created by InitUsers, one per role.
var demoUsers = []struct {
	username string
	password string
	role     string
}{
	{"admin", "admin123", schema.RoleAdmin},
	{"proc_mgr", "proc123", schema.RoleProcurement},
	{"sust_mgr", "sust123", schema.RoleSustainability},
}

func (s *AuthService) InitUsers(w http.ResponseWriter, r *http.Request) {
	err := s.db.Transaction(func(txn *gorm.DB) error {
		var existing schema.User
		result := txn.Limit(1).Find(&existing)
		if result.Error != nil {
			slog.Error("sql error checking for existing users", "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}
		if result.RowsAffected != 0 {
			return CodedError(errors.New("users already initialized"), http.StatusBadRequest)
		}

		for _, demo := range demoUsers {
			hashed, err := auth.HashPassword(demo.password)
			if err != nil {
				return CodedError(err, http.StatusInternalServerError)
			}

			user := schema.User{
				Id:        uuid.New(),
				Username:  demo.username,
				Password:  hashed,
				Role:      demo.role,
				CreatedAt: time.Now().UTC(),
			}

			if result := txn.Create(&user); result.Error != nil {
				slog.Error("sql error creating demo user", "username", demo.username, "error", result.Error)
				return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
			}
		}

		return nil
	})

	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("demo users created")

	utils.WriteJsonResponseStatus(w, http.StatusCreated, map[string]string{"message": "users created"})
}

type userResponse struct {
	Id        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *AuthService) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := auth.UserFromContext(r)
	if err != nil {
		utils.WriteJsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJsonResponse(w, userResponse{
		Id:        user.Id,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
}
