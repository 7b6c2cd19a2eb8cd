package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/domain/leave"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/pkg/validator"
	"github.com/medas/intern-tracker-go/internal/pkg/workday"
	"github.com/medas/intern-tracker-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.FixedZone("WIB", 7*60*60)

// Monday 10 March 2025, 09:00 local.
func testCalendar() workday.Calendar {
	return workday.Calendar{
		Location: testLoc,
		Now:      func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, testLoc) },
	}
}

type fakeReflector struct {
	calls  []leave.LeaveRequest
	err    error
	panics bool
}

func (f *fakeReflector) ReflectApprovedLeave(_ context.Context, request leave.LeaveRequest, _, _ string) error {
	f.calls = append(f.calls, request)
	if f.panics {
		panic("reflection exploded")
	}
	return f.err
}

type leaveFixture struct {
	store     *memory.Store
	svc       leave.LeaveService
	reflector *fakeReflector
	internID  string
	owner     user.Actor
	hr        user.Actor
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()
	store := memory.NewStore()
	created := seedIntern(t, store, "intern-1", "ayse@example.com")

	reflector := &fakeReflector{}
	internID := created.ID
	return &leaveFixture{
		store:     store,
		svc:       NewLeaveService(store.Transactor(), store.LeaveRequests(), store.Interns(), store.ApprovalHistory(), reflector, testCalendar()),
		reflector: reflector,
		internID:  internID,
		owner: user.Actor{
			UserID:   "user-intern",
			FullName: "Ayse Yilmaz",
			Roles:    []user.Role{user.RoleIntern},
			InternID: &internID,
		},
		hr: user.Actor{
			UserID:   "user-hr",
			FullName: "Hale Demir",
			Roles:    []user.Role{user.RoleHR},
		},
	}
}

func seedIntern(t *testing.T, store *memory.Store, id, email string) intern.Intern {
	t.Helper()
	created, err := store.Interns().Create(context.Background(), intern.Intern{
		ID:             id,
		FullName:       "Intern " + id,
		Email:          email,
		InternshipType: intern.InternshipTypeSummer,
		IsActive:       true,
	})
	require.NoError(t, err)
	return created
}

func (f *leaveFixture) create(t *testing.T, actor user.Actor, start, end string) leave.LeaveRequestResponse {
	t.Helper()
	resp, err := f.svc.CreateLeaveRequest(context.Background(), actor, leave.CreateLeaveRequestRequest{
		InternID:  f.internID,
		LeaveType: string(leave.LeaveTypePersonal),
		StartAt:   start,
		EndAt:     end,
		Reason:    "family visit",
	})
	require.NoError(t, err)
	return resp
}

func strPtr(s string) *string { return &s }

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	return verrs.ToMap()
}

// ===== CREATE TESTS =====

func TestLeaveService_Create_Success(t *testing.T) {
	f := newLeaveFixture(t)

	resp := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-14T08:30:00+07:00")

	assert.Equal(t, string(approval.StatusPending), resp.Status)
	assert.Equal(t, 2, resp.TotalDays)
	assert.True(t, decimal.RequireFromString("17.5").Equal(resp.TotalHours), "got %s", resp.TotalHours)
	assert.False(t, resp.IsManualEntry)
	assert.Nil(t, resp.ManualEntryBy)
	assert.True(t, resp.ShouldReflectToTimesheet)
	assert.Equal(t, 1, resp.Version)
}

func TestLeaveService_Create_OnBehalfIsManualEntry(t *testing.T) {
	f := newLeaveFixture(t)

	resp := f.create(t, f.hr, "2025-03-12T09:00:00+07:00", "2025-03-12T13:00:00+07:00")

	assert.True(t, resp.IsManualEntry)
	require.NotNil(t, resp.ManualEntryBy)
	assert.Equal(t, "Hale Demir", *resp.ManualEntryBy)
	assert.Equal(t, 0, resp.TotalDays)
	assert.True(t, decimal.NewFromInt(4).Equal(resp.TotalHours))
}

func TestLeaveService_Create_PastStartRejected(t *testing.T) {
	f := newLeaveFixture(t)

	_, err := f.svc.CreateLeaveRequest(context.Background(), f.owner, leave.CreateLeaveRequestRequest{
		InternID:  f.internID,
		LeaveType: string(leave.LeaveTypeHealth),
		StartAt:   "2025-03-09T09:00:00+07:00",
		EndAt:     "2025-03-10T09:00:00+07:00",
		Reason:    "flu",
	})

	assert.Contains(t, validationFields(t, err), "start_at")
}

func TestLeaveService_Create_EarlierHourTodayAllowed(t *testing.T) {
	f := newLeaveFixture(t)

	resp := f.create(t, f.owner, "2025-03-10T08:00:00+07:00", "2025-03-10T10:00:00+07:00")
	assert.True(t, decimal.NewFromInt(2).Equal(resp.TotalHours))
}

func TestLeaveService_Create_InternForOtherIntern(t *testing.T) {
	f := newLeaveFixture(t)
	other := seedIntern(t, f.store, "intern-2", "mehmet@example.com")

	_, err := f.svc.CreateLeaveRequest(context.Background(), f.owner, leave.CreateLeaveRequestRequest{
		InternID:  other.ID,
		LeaveType: string(leave.LeaveTypePersonal),
		StartAt:   "2025-03-12T09:00:00+07:00",
		EndAt:     "2025-03-12T12:00:00+07:00",
		Reason:    "errand",
	})

	assert.Contains(t, validationFields(t, err), "intern_id")
}

func TestLeaveService_Create_PersonnelAffairsForbidden(t *testing.T) {
	f := newLeaveFixture(t)
	pa := user.Actor{UserID: "user-pa", Roles: []user.Role{user.RolePersonnelAffairs}}

	_, err := f.svc.CreateLeaveRequest(context.Background(), pa, leave.CreateLeaveRequestRequest{
		InternID:  f.internID,
		LeaveType: string(leave.LeaveTypePersonal),
		StartAt:   "2025-03-12T09:00:00+07:00",
		EndAt:     "2025-03-12T12:00:00+07:00",
		Reason:    "errand",
	})

	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestLeaveService_Create_InactiveIntern(t *testing.T) {
	f := newLeaveFixture(t)
	require.NoError(t, f.store.Interns().Deactivate(context.Background(), f.internID))

	_, err := f.svc.CreateLeaveRequest(context.Background(), f.hr, leave.CreateLeaveRequestRequest{
		InternID:  f.internID,
		LeaveType: string(leave.LeaveTypePersonal),
		StartAt:   "2025-03-12T09:00:00+07:00",
		EndAt:     "2025-03-12T12:00:00+07:00",
		Reason:    "errand",
	})

	assert.ErrorIs(t, err, intern.ErrInternInactive)
}

func TestLeaveService_Create_Overlap(t *testing.T) {
	f := newLeaveFixture(t)
	first := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-14T08:30:00+07:00")

	_, err := f.svc.CreateLeaveRequest(context.Background(), f.owner, leave.CreateLeaveRequestRequest{
		InternID:  f.internID,
		LeaveType: string(leave.LeaveTypeExam),
		StartAt:   "2025-03-13T09:00:00+07:00",
		EndAt:     "2025-03-15T09:00:00+07:00",
		Reason:    "exam week",
	})

	var overlap *leave.OverlapError
	require.True(t, errors.As(err, &overlap))
	assert.Equal(t, first.ID, overlap.ConflictingID)
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)

	// Touching intervals do not overlap.
	f.create(t, f.owner, "2025-03-14T08:30:00+07:00", "2025-03-14T12:00:00+07:00")
}

func TestLeaveService_Create_RejectedDoesNotBlock(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	first := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")

	_, err := f.svc.RejectLeaveRequest(ctx, f.hr, leave.DecisionRequest{ID: first.ID, Note: strPtr("busy week")})
	require.NoError(t, err)

	f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")
}

// ===== DECISION TESTS =====

func TestLeaveService_Approve_ReflectsOnce(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	created := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")

	resp, err := f.svc.ApproveLeaveRequest(ctx, f.hr, leave.DecisionRequest{ID: created.ID, Note: strPtr("  enjoy  ")})
	require.NoError(t, err)

	assert.Equal(t, string(approval.StatusApproved), resp.Status)
	require.NotNil(t, resp.ApproverName)
	assert.Equal(t, "Hale Demir", *resp.ApproverName)
	require.NotNil(t, resp.ApprovalNote)
	assert.Equal(t, "enjoy", *resp.ApprovalNote)
	require.Len(t, f.reflector.calls, 1)
	assert.Equal(t, created.ID, f.reflector.calls[0].ID)

	history, err := f.svc.GetLeaveRequestHistory(ctx, f.owner, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, string(approval.StatusPending), history[0].PreviousStatus)
	assert.Equal(t, string(approval.StatusApproved), history[0].NewStatus)
}

func TestLeaveService_Approve_TerminalIsFinal(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	created := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")

	_, err := f.svc.ApproveLeaveRequest(ctx, f.hr, leave.DecisionRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = f.svc.ApproveLeaveRequest(ctx, f.hr, leave.DecisionRequest{ID: created.ID})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	_, err = f.svc.RejectLeaveRequest(ctx, f.hr, leave.DecisionRequest{ID: created.ID, Note: strPtr("changed my mind")})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	history, err := f.svc.GetLeaveRequestHistory(ctx, f.hr, created.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Len(t, f.reflector.calls, 1)
}

func TestLeaveService_Approve_ReflectionFailureKeepsApproval(t *testing.T) {
	cases := []struct {
		name      string
		reflector fakeReflector
	}{
		{"error", fakeReflector{err: errors.New("timesheet store down")}},
		{"panic", fakeReflector{panics: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newLeaveFixture(t)
			*f.reflector = c.reflector
			ctx := context.Background()
			created := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")

			resp, err := f.svc.ApproveLeaveRequest(ctx, f.hr, leave.DecisionRequest{ID: created.ID})
			require.NoError(t, err)
			assert.Equal(t, string(approval.StatusApproved), resp.Status)

			stored, err := f.svc.GetLeaveRequest(ctx, f.hr, created.ID)
			require.NoError(t, err)
			assert.Equal(t, string(approval.StatusApproved), stored.Status)
		})
	}
}

func TestLeaveService_Approve_SkipsReflectionWhenDisabled(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	reflect := false

	created, err := f.svc.CreateLeaveRequest(ctx, f.owner, leave.CreateLeaveRequestRequest{
		InternID:                 f.internID,
		LeaveType:                string(leave.LeaveTypeUnpaid),
		StartAt:                  "2025-03-12T09:00:00+07:00",
		EndAt:                    "2025-03-12T12:00:00+07:00",
		Reason:                   "errand",
		ShouldReflectToTimesheet: &reflect,
	})
	require.NoError(t, err)

	_, err = f.svc.ApproveLeaveRequest(ctx, f.hr, leave.DecisionRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Empty(t, f.reflector.calls)
}

func TestLeaveService_Approve_InternForbidden(t *testing.T) {
	f := newLeaveFixture(t)
	created := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")

	_, err := f.svc.ApproveLeaveRequest(context.Background(), f.owner, leave.DecisionRequest{ID: created.ID})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestLeaveService_Reject_RequiresNote(t *testing.T) {
	f := newLeaveFixture(t)
	created := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")

	_, err := f.svc.RejectLeaveRequest(context.Background(), f.hr, leave.DecisionRequest{ID: created.ID, Note: strPtr("   ")})
	assert.Contains(t, validationFields(t, err), "note")
}

func TestLeaveService_RequestRevision_OnlyFromPending(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	created := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")

	_, err := f.svc.RequestRevision(ctx, f.hr, leave.DecisionRequest{ID: created.ID, Note: strPtr("wrong dates")})
	require.NoError(t, err)

	_, err = f.svc.RequestRevision(ctx, f.hr, leave.DecisionRequest{ID: created.ID, Note: strPtr("again")})
	assert.ErrorIs(t, err, leave.ErrRevisionNotAllowed)
}

// ===== UPDATE / DELETE TESTS =====

func TestLeaveService_Update_RevisionGoesBackToPending(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	created := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")

	revised, err := f.svc.RequestRevision(ctx, f.hr, leave.DecisionRequest{ID: created.ID, Note: strPtr("make it a full day")})
	require.NoError(t, err)
	require.NotNil(t, revised.ApproverID)

	updated, err := f.svc.UpdateLeaveRequest(ctx, f.owner, leave.UpdateLeaveRequestRequest{
		ID:      created.ID,
		EndAt:   strPtr("2025-03-13T08:30:00+07:00"),
		Version: &revised.Version,
	})
	require.NoError(t, err)

	assert.Equal(t, string(approval.StatusPending), updated.Status)
	assert.Nil(t, updated.ApproverID)
	assert.Nil(t, updated.ApprovalNote)
	assert.Equal(t, 1, updated.TotalDays)
	assert.True(t, decimal.RequireFromString("8.5").Equal(updated.TotalHours))

	history, err := f.svc.GetLeaveRequestHistory(ctx, f.owner, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, string(approval.StatusRevision), history[1].PreviousStatus)
	assert.Equal(t, string(approval.StatusPending), history[1].NewStatus)
}

func TestLeaveService_Update_OverlapRejected(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	first := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")
	second := f.create(t, f.owner, "2025-03-13T09:00:00+07:00", "2025-03-13T12:00:00+07:00")

	_, err := f.svc.UpdateLeaveRequest(ctx, f.owner, leave.UpdateLeaveRequestRequest{
		ID:      second.ID,
		StartAt: strPtr("2025-03-12T11:00:00+07:00"),
	})

	var overlap *leave.OverlapError
	require.True(t, errors.As(err, &overlap))
	assert.Equal(t, first.ID, overlap.ConflictingID)

	unchanged, err := f.svc.GetLeaveRequest(ctx, f.owner, second.ID)
	require.NoError(t, err)
	assert.True(t, unchanged.StartAt.Equal(second.StartAt))
	assert.Equal(t, second.Version, unchanged.Version)
}

func TestLeaveService_Update_WithinOwnIntervalAllowed(t *testing.T) {
	f := newLeaveFixture(t)
	created := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T15:00:00+07:00")

	updated, err := f.svc.UpdateLeaveRequest(context.Background(), f.owner, leave.UpdateLeaveRequestRequest{
		ID:      created.ID,
		StartAt: strPtr("2025-03-12T10:00:00+07:00"),
		EndAt:   strPtr("2025-03-12T13:00:00+07:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(approval.StatusPending), updated.Status)
	assert.True(t, decimal.NewFromInt(3).Equal(updated.TotalHours))
	assert.Greater(t, updated.Version, created.Version)
}

func TestLeaveService_Update_StaleVersion(t *testing.T) {
	f := newLeaveFixture(t)
	created := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")
	old := created.Version - 1

	_, err := f.svc.UpdateLeaveRequest(context.Background(), f.owner, leave.UpdateLeaveRequestRequest{
		ID:      created.ID,
		Reason:  strPtr("new reason"),
		Version: &old,
	})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestStale)
}

func TestLeaveService_Update_ApprovedNotEditable(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	created := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")
	_, err := f.svc.ApproveLeaveRequest(ctx, f.hr, leave.DecisionRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateLeaveRequest(ctx, f.hr, leave.UpdateLeaveRequestRequest{ID: created.ID, Reason: strPtr("x")})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotEditable)
}

func TestLeaveService_Delete_OwnerOnlyWhilePending(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	pending := f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")
	approved := f.create(t, f.owner, "2025-03-17T09:00:00+07:00", "2025-03-17T12:00:00+07:00")
	_, err := f.svc.ApproveLeaveRequest(ctx, f.hr, leave.DecisionRequest{ID: approved.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteLeaveRequest(ctx, f.owner, approved.ID), user.ErrInsufficientPermissions)
	require.NoError(t, f.svc.DeleteLeaveRequest(ctx, f.owner, pending.ID))

	_, err = f.svc.GetLeaveRequest(ctx, f.owner, pending.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	admin := user.Actor{UserID: "user-admin", Roles: []user.Role{user.RoleAdmin}}
	assert.NoError(t, f.svc.DeleteLeaveRequest(ctx, admin, approved.ID))
}

// ===== LIST TESTS =====

func TestLeaveService_List_InternSeesOwnOnly(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()
	other := seedIntern(t, f.store, "intern-2", "mehmet@example.com")

	f.create(t, f.owner, "2025-03-12T09:00:00+07:00", "2025-03-12T12:00:00+07:00")
	_, err := f.svc.CreateLeaveRequest(ctx, f.hr, leave.CreateLeaveRequestRequest{
		InternID:  other.ID,
		LeaveType: string(leave.LeaveTypeExcuse),
		StartAt:   "2025-03-12T09:00:00+07:00",
		EndAt:     "2025-03-12T12:00:00+07:00",
		Reason:    "dentist",
	})
	require.NoError(t, err)

	own, err := f.svc.ListLeaveRequests(ctx, f.owner, leave.LeaveRequestFilter{InternID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), own.TotalCount)
	assert.Equal(t, f.internID, own.LeaveRequests[0].InternID)

	all, err := f.svc.ListLeaveRequests(ctx, f.hr, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalCount)
	assert.Equal(t, 1, all.TotalPages)
}
