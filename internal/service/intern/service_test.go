package intern

import (
	"context"
	"testing"

	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/pkg/validator"
	"github.com/medas/intern-tracker-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hrActor        = user.Actor{UserID: "user-hr", FullName: "Hale Demir", Roles: []user.Role{user.RoleHR}}
	supervisor     = user.Actor{UserID: "user-sup", Roles: []user.Role{user.RoleSupervisor}}
	unlinkedIntern = user.Actor{UserID: "user-x", Roles: []user.Role{user.RoleIntern}}
)

func strPtr(s string) *string { return &s }

func createIntern(t *testing.T, svc intern.InternService, name, email string) intern.InternResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), hrActor, intern.CreateInternRequest{
		FullName:       name,
		Email:          email,
		InternshipType: string(intern.InternshipTypeTalentern),
		School:         strPtr("Bogazici University"),
		StartDate:      strPtr("2025-02-01"),
		EndDate:        strPtr("2025-08-01"),
	})
	require.NoError(t, err)
	return resp
}

// ===== CREATE / UPDATE TESTS =====

func TestInternService_Create_Success(t *testing.T) {
	svc := NewInternService(memory.NewStore().Interns())

	resp := createIntern(t, svc, "Ayse Yilmaz", "  Ayse@Example.com ")

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "ayse@example.com", resp.Email)
	assert.Equal(t, "Talentern", resp.InternshipTypeLabel)
	assert.True(t, resp.IsActive)
	require.NotNil(t, resp.StartDate)
	assert.Equal(t, "2025-02-01", *resp.StartDate)
}

func TestInternService_Create_DuplicateActiveEmail(t *testing.T) {
	svc := NewInternService(memory.NewStore().Interns())
	first := createIntern(t, svc, "Ayse Yilmaz", "ayse@example.com")

	_, err := svc.Create(context.Background(), hrActor, intern.CreateInternRequest{
		FullName:       "Ayse Y.",
		Email:          "AYSE@example.com",
		InternshipType: string(intern.InternshipTypeSummer),
	})
	assert.ErrorIs(t, err, intern.ErrInternEmailExists)

	// A deactivated intern frees the address.
	require.NoError(t, svc.Deactivate(context.Background(), hrActor, first.ID))
	createIntern(t, svc, "Ayse Yilmaz", "ayse@example.com")
}

func TestInternService_Create_SupervisorForbidden(t *testing.T) {
	svc := NewInternService(memory.NewStore().Interns())

	_, err := svc.Create(context.Background(), supervisor, intern.CreateInternRequest{
		FullName:       "Ayse Yilmaz",
		Email:          "ayse@example.com",
		InternshipType: string(intern.InternshipTypeSummer),
	})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestInternService_SchoolSupervisorContact(t *testing.T) {
	svc := NewInternService(memory.NewStore().Interns())

	resp, err := svc.Create(context.Background(), hrActor, intern.CreateInternRequest{
		FullName:              "Ayse Yilmaz",
		Email:                 "ayse@example.com",
		InternshipType:        string(intern.InternshipTypeSummer),
		SchoolSupervisorName:  strPtr("Prof. Kaya"),
		SchoolSupervisorPhone: strPtr("0532 111 22 33"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.SchoolSupervisorName)
	assert.Equal(t, "Prof. Kaya", *resp.SchoolSupervisorName)

	updated, err := svc.Update(context.Background(), hrActor, intern.UpdateInternRequest{
		ID:                    resp.ID,
		SchoolSupervisorPhone: strPtr("0533 444 55 66"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Prof. Kaya", *updated.SchoolSupervisorName)
	assert.Equal(t, "0533 444 55 66", *updated.SchoolSupervisorPhone)

	_, err = svc.Update(context.Background(), hrActor, intern.UpdateInternRequest{
		ID:                    resp.ID,
		SchoolSupervisorPhone: strPtr("12345"),
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "school_supervisor_phone")
}

func TestInternService_Update_PartialFields(t *testing.T) {
	svc := NewInternService(memory.NewStore().Interns())
	created := createIntern(t, svc, "Ayse Yilmaz", "ayse@example.com")

	updated, err := svc.Update(context.Background(), hrActor, intern.UpdateInternRequest{
		ID:         created.ID,
		Department: strPtr("Engineering"),
		School:     strPtr(""),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ayse Yilmaz", updated.FullName)
	require.NotNil(t, updated.Department)
	assert.Equal(t, "Engineering", *updated.Department)
	assert.Nil(t, updated.School)
}

func TestInternService_Update_InvertedRange(t *testing.T) {
	svc := NewInternService(memory.NewStore().Interns())
	created := createIntern(t, svc, "Ayse Yilmaz", "ayse@example.com")

	_, err := svc.Update(context.Background(), hrActor, intern.UpdateInternRequest{
		ID:      created.ID,
		EndDate: strPtr("2025-01-01"),
	})
	assert.Error(t, err)
}

// ===== READ TESTS =====

func TestInternService_List_SearchAndScope(t *testing.T) {
	svc := NewInternService(memory.NewStore().Interns())
	ctx := context.Background()
	ayse := createIntern(t, svc, "Ayse Yilmaz", "ayse@example.com")
	createIntern(t, svc, "Mehmet Oz", "mehmet@example.com")

	found, err := svc.List(ctx, supervisor, intern.InternFilter{Search: strPtr("yilmaz")})
	require.NoError(t, err)
	require.Equal(t, int64(1), found.TotalCount)
	assert.Equal(t, ayse.ID, found.Interns[0].ID)

	all, err := svc.List(ctx, supervisor, intern.InternFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalCount)
	assert.Equal(t, "Ayse Yilmaz", all.Interns[0].FullName)

	self := user.Actor{UserID: "user-ayse", Roles: []user.Role{user.RoleIntern}, InternID: &ayse.ID}
	own, err := svc.List(ctx, self, intern.InternFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(1), own.TotalCount)
	assert.Equal(t, ayse.ID, own.Interns[0].ID)

	_, err = svc.List(ctx, unlinkedIntern, intern.InternFilter{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestInternService_Get_OwnRecordOnly(t *testing.T) {
	svc := NewInternService(memory.NewStore().Interns())
	ctx := context.Background()
	ayse := createIntern(t, svc, "Ayse Yilmaz", "ayse@example.com")
	mehmet := createIntern(t, svc, "Mehmet Oz", "mehmet@example.com")
	self := user.Actor{UserID: "user-ayse", Roles: []user.Role{user.RoleIntern}, InternID: &ayse.ID}

	_, err := svc.Get(ctx, self, ayse.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, self, mehmet.ID)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = svc.Get(ctx, hrActor, "missing")
	assert.ErrorIs(t, err, intern.ErrInternNotFound)
}

func TestInternService_Deactivate_HidesFromDefaultList(t *testing.T) {
	svc := NewInternService(memory.NewStore().Interns())
	ctx := context.Background()
	ayse := createIntern(t, svc, "Ayse Yilmaz", "ayse@example.com")

	require.NoError(t, svc.Deactivate(ctx, hrActor, ayse.ID))

	active, err := svc.List(ctx, hrActor, intern.InternFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), active.TotalCount)

	all, err := svc.List(ctx, hrActor, intern.InternFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), all.TotalCount)
	assert.False(t, all.Interns[0].IsActive)
}
