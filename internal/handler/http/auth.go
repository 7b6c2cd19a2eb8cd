package http

import (
	"log/slog"
	"net/http"

	"github.com/medas/intern-tracker-go/internal/domain/auth"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/handler/http/middleware"
	"github.com/medas/intern-tracker-go/internal/handler/http/response"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{authService: authService}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest
	if !decodeJSON(w, r, "Login", &loginReq) {
		return
	}

	tokens, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Login failed", "email", loginReq.Email, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", tokens)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.RawToken(r)
	if token == "" {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	if err := a.authService.Logout(r.Context(), token); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logged out successfully", nil)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	me, err := a.authService.Me(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, me)
}

// CreateUser implements AuthHandler.
func (a *AuthHandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req user.CreateUserRequest
	if !decodeJSON(w, r, "CreateUser", &req) {
		return
	}

	created, err := a.authService.CreateUser(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User created successfully", created)
}
