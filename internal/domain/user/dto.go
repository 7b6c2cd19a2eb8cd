package user

import (
	"strings"
	"time"

	"github.com/medas/intern-tracker-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Roles     []string  `json:"roles"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u User) UserResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Roles:     roles,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}

	if len(r.Roles) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "roles",
			Message: "at least one role is required",
		})
	}
	for _, role := range r.Roles {
		if !validator.IsInSlice(role, ValidRoles()) {
			errs = append(errs, validator.ValidationError{
				Field:   "roles",
				Message: "invalid role: " + role,
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
