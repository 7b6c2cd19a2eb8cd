package postgresql_test

import (
	"context"
	"testing"

	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/pkg/idgen"
	"github.com/medas/intern-tracker-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUser(t *testing.T, email string, roles ...user.Role) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	return user.User{
		ID:           idgen.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Test User",
		Roles:        roles,
		IsActive:     true,
	}
}

// ===== USER REPOSITORY TESTS =====

func TestUserRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestUser(t, "hr@example.com", user.RoleHR, user.RoleSupervisor))
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "hr@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, []user.Role{user.RoleHR, user.RoleSupervisor}, byEmail.Roles)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hr@example.com", byID.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(byID.PasswordHash), []byte("password123")))
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, newTestUser(t, "dup@example.com", user.RoleIntern))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newTestUser(t, "dup@example.com", user.RoleIntern))
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	exists, err := repo.ExistsByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_NotFound(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
