package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/domain/leave"
	"github.com/medas/intern-tracker-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedIntern(t *testing.T, s *Store, id, email string) intern.Intern {
	t.Helper()
	return seedInternCtx(context.Background(), t, s, id, email)
}

func seedInternCtx(ctx context.Context, t *testing.T, s *Store, id, email string) intern.Intern {
	t.Helper()
	created, err := s.Interns().Create(ctx, intern.Intern{
		ID:             id,
		FullName:       "Intern " + id,
		Email:          email,
		InternshipType: intern.InternshipTypeSummer,
		IsActive:       true,
	})
	require.NoError(t, err)
	return created
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedIntern(t, s, "i1", "a@example.com")

	boom := errors.New("boom")
	err := s.WithTransaction(ctx, func(txCtx context.Context) error {
		_, err := s.LeaveRequests().Create(txCtx, leave.LeaveRequest{
			ID: "l1", InternID: "i1", Status: approval.StatusPending,
		})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.LeaveRequests().GetByID(ctx, "l1")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.WithTransaction(ctx, func(txCtx context.Context) error {
			seedInternCtx(txCtx, t, s, "i1", "a@example.com")
			panic("boom")
		})
	})

	_, err := s.Interns().GetByID(ctx, "i1")
	assert.ErrorIs(t, err, intern.ErrInternNotFound)
}

func TestWithTransaction_RollbackKeepsConcurrentWrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	started := make(chan struct{})
	done := make(chan error, 1)
	boom := errors.New("boom")

	err := s.WithTransaction(ctx, func(txCtx context.Context) error {
		_, err := s.Interns().Create(txCtx, intern.Intern{ID: "in-tx", Email: "tx@example.com", IsActive: true})
		require.NoError(t, err)

		go func() {
			close(started)
			_, err := s.Interns().Create(ctx, intern.Intern{ID: "outside", Email: "out@example.com", IsActive: true})
			done <- err
		}()
		<-started
		// Let the outside write reach the store lock before rolling back.
		time.Sleep(20 * time.Millisecond)
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, <-done)

	_, err = s.Interns().GetByID(ctx, "in-tx")
	assert.ErrorIs(t, err, intern.ErrInternNotFound)

	kept, err := s.Interns().GetByID(ctx, "outside")
	require.NoError(t, err)
	assert.Equal(t, "out@example.com", kept.Email)
}

func TestWithTransaction_OtherStoreContextIsNotJoined(t *testing.T) {
	a, b := NewStore(), NewStore()
	ctx := context.Background()

	err := a.WithTransaction(ctx, func(txCtx context.Context) error {
		return b.WithTransaction(txCtx, func(inner context.Context) error {
			seedInternCtx(inner, t, b, "i1", "a@example.com")
			return errors.New("boom")
		})
	})
	require.Error(t, err)

	_, err = b.Interns().GetByID(ctx, "i1")
	assert.ErrorIs(t, err, intern.ErrInternNotFound)
}

func TestWithTransaction_NestedJoinsOuter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.WithTransaction(txCtx, func(inner context.Context) error {
			seedInternCtx(inner, t, s, "i1", "a@example.com")
			return nil
		})
	})
	require.NoError(t, err)

	_, err = s.Interns().GetByID(ctx, "i1")
	assert.NoError(t, err)
}

func TestLeaveUpdate_VersionCheck(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedIntern(t, s, "i1", "a@example.com")

	created, err := s.LeaveRequests().Create(ctx, leave.LeaveRequest{ID: "l1", InternID: "i1", Status: approval.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Version)

	created.Status = approval.StatusApproved
	updated, err := s.LeaveRequests().Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	// A second writer still holding version 1 loses.
	_, err = s.LeaveRequests().Update(ctx, created)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestStale)
}

func TestFindOverlapping_HalfOpen(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedIntern(t, s, "i1", "a@example.com")

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	_, err := s.LeaveRequests().Create(ctx, leave.LeaveRequest{
		ID: "l1", InternID: "i1", StartAt: start, EndAt: end, Status: approval.StatusPending,
	})
	require.NoError(t, err)
	_, err = s.LeaveRequests().Create(ctx, leave.LeaveRequest{
		ID: "l2", InternID: "i1", StartAt: start, EndAt: end, Status: approval.StatusRejected,
	})
	require.NoError(t, err)

	touching, err := s.LeaveRequests().FindOverlapping(ctx, "i1", end, end.Add(time.Hour), "")
	require.NoError(t, err)
	assert.Nil(t, touching)

	hit, err := s.LeaveRequests().FindOverlapping(ctx, "i1", start.Add(time.Hour), end.Add(time.Hour), "")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "l1", hit.ID)

	self, err := s.LeaveRequests().FindOverlapping(ctx, "i1", start, end, "l1")
	require.NoError(t, err)
	assert.Nil(t, self)
}

func TestTimesheetDelete_CascadesDetails(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedIntern(t, s, "i1", "a@example.com")

	_, err := s.Timesheets().Create(ctx, timesheet.Timesheet{
		ID: "t1", InternID: "i1", PeriodDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Status: approval.StatusPending,
	})
	require.NoError(t, err)

	detail := timesheet.NewDefaultDetail("d1", "t1", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.TimesheetDetails().CreateBatch(ctx, []timesheet.TimesheetDetail{detail}))

	dup := timesheet.NewDefaultDetail("d2", "t1", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))
	assert.Error(t, s.TimesheetDetails().CreateBatch(ctx, []timesheet.TimesheetDetail{dup}))

	require.NoError(t, s.Timesheets().Delete(ctx, "t1"))
	_, err = s.TimesheetDetails().GetByID(ctx, "d1")
	assert.ErrorIs(t, err, timesheet.ErrTimesheetDetailNotFound)
}

func TestFindByInternAndPeriod(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedIntern(t, s, "i1", "a@example.com")

	loc := time.FixedZone("UTC+3", 3*60*60)
	_, err := s.Timesheets().Create(ctx, timesheet.Timesheet{
		ID: "t1", InternID: "i1", PeriodDate: time.Date(2025, 4, 1, 0, 0, 0, 0, loc),
		Status: approval.StatusPending, TotalTrainingHours: decimal.Zero,
	})
	require.NoError(t, err)

	found, err := s.Timesheets().FindByInternAndPeriod(ctx, "i1", 2025, time.April)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "t1", found.ID)
	require.NotNil(t, found.InternName)

	missing, err := s.Timesheets().FindByInternAndPeriod(ctx, "i1", 2025, time.March)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInternEmailUniqueAmongActive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedIntern(t, s, "i1", "a@example.com")

	_, err := s.Interns().Create(ctx, intern.Intern{ID: "i2", Email: "A@example.com", IsActive: true})
	assert.ErrorIs(t, err, intern.ErrInternEmailExists)

	require.NoError(t, s.Interns().Deactivate(ctx, "i1"))
	_, err = s.Interns().Create(ctx, intern.Intern{ID: "i2", Email: "a@example.com", IsActive: true})
	assert.NoError(t, err)
}
