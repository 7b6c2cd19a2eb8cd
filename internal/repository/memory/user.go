package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/medas/intern-tracker-go/internal/domain/user"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	defer r.s.lock(ctx)()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	now := r.s.now()
	newUser.Roles = slices.Clone(newUser.Roles)
	newUser.CreatedAt = now
	newUser.UpdatedAt = now
	r.s.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	defer r.s.rlock(ctx)()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	defer r.s.rlock(ctx)()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	defer r.s.rlock(ctx)()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}
