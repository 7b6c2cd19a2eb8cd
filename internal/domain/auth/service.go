package auth

import (
	"context"

	"github.com/medas/intern-tracker-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, actor user.Actor) (MeResponse, error)
	CreateUser(ctx context.Context, actor user.Actor, req user.CreateUserRequest) (user.UserResponse, error)
	// EnsureAdmin seeds an admin account when none exists with the given email.
	EnsureAdmin(ctx context.Context, email, password, fullName string) error
}
