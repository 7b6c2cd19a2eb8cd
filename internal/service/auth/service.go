package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medas/intern-tracker-go/internal/domain/auth"
	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/pkg/idgen"
	"github.com/medas/intern-tracker-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	intern.InternRepository
	jwt.Service
	newID func() string
}

func NewAuthService(userRepository user.UserRepository, internRepository intern.InternRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository:   userRepository,
		InternRepository: internRepository,
		Service:          jwtService,
		newID:            idgen.New,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService. An account whose email matches an
// active intern is linked to that intern for the lifetime of the token.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountDisabled
	}

	actor := user.Actor{
		UserID:   userData.ID,
		Email:    userData.Email,
		FullName: userData.FullName,
		Roles:    userData.Roles,
	}

	linked, err := a.InternRepository.GetActiveByEmail(ctx, userData.Email)
	switch {
	case err == nil:
		actor.InternID = &linked.ID
	case !errors.Is(err, intern.ErrInternNotFound):
		return auth.TokenResponse{}, fmt.Errorf("failed to link intern: %w", err)
	}

	var tokenResponse auth.TokenResponse
	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(actor)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	slog.Info("user logged in", "user_id", userData.ID, "intern_linked", actor.InternID != nil)
	return tokenResponse, nil
}

// Logout implements auth.AuthService. The token stays revoked until it
// would have expired anyway.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.ErrInvalidToken
	}

	parsed, err := a.Service.JWTAuth().Decode(token)
	if err != nil {
		return fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	a.Service.RevokeToken(token, parsed.Expiration().Unix())
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, actor user.Actor) (auth.MeResponse, error) {
	if actor.UserID == "" {
		return auth.MeResponse{}, user.ErrActorMissing
	}

	roles := make([]string, 0, len(actor.Roles))
	for _, r := range actor.Roles {
		roles = append(roles, string(r))
	}
	return auth.MeResponse{
		UserID:   actor.UserID,
		Email:    actor.Email,
		FullName: actor.FullName,
		Roles:    roles,
		InternID: actor.InternID,
	}, nil
}

// CreateUser implements auth.AuthService.
func (a *AuthServiceImpl) CreateUser(ctx context.Context, actor user.Actor, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := user.Authorize(actor, user.PermissionUserManage, user.Resource{}); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	roles := make([]user.Role, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, user.Role(r))
	}

	created, err := a.createUser(ctx, req.Email, req.Password, req.FullName, roles)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(created), nil
}

// EnsureAdmin implements auth.AuthService.
func (a *AuthServiceImpl) EnsureAdmin(ctx context.Context, email, password, fullName string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	exists, err := a.UserRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists {
		return nil
	}

	created, err := a.createUser(ctx, email, password, fullName, []user.Role{user.RoleAdmin})
	if err != nil {
		return err
	}
	slog.Info("admin account created", "user_id", created.ID, "email", created.Email)
	return nil
}

func (a *AuthServiceImpl) createUser(ctx context.Context, email, password, fullName string, roles []user.Role) (user.User, error) {
	exists, err := a.UserRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return user.User{}, user.ErrUserEmailExists
	}

	hashed, err := a.hashPassword(password)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.UserRepository.Create(ctx, user.User{
		ID:           a.newID(),
		Email:        email,
		PasswordHash: hashed,
		FullName:     fullName,
		Roles:        roles,
		IsActive:     true,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}
