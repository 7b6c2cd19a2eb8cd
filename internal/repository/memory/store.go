// Package memory keeps every record in process memory behind one lock. It
// satisfies the same repository interfaces as the postgresql package and is
// used for tests and for STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/domain/leave"
	"github.com/medas/intern-tracker-go/internal/domain/timesheet"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/pkg/database"
)

type txKey struct{}

type Store struct {
	mu   sync.RWMutex
	txMu sync.RWMutex
	now  func() time.Time

	users     map[string]user.User
	interns   map[string]intern.Intern
	leaves    map[string]leave.LeaveRequest
	sheets    map[string]timesheet.Timesheet
	details   map[string]timesheet.TimesheetDetail
	histories []approval.History
}

func NewStore() *Store {
	return &Store{
		now:     func() time.Time { return time.Now().UTC() },
		users:   make(map[string]user.User),
		interns: make(map[string]intern.Intern),
		leaves:  make(map[string]leave.LeaveRequest),
		sheets:  make(map[string]timesheet.Timesheet),
		details: make(map[string]timesheet.TimesheetDetail),
	}
}

type snapshot struct {
	users     map[string]user.User
	interns   map[string]intern.Intern
	leaves    map[string]leave.LeaveRequest
	sheets    map[string]timesheet.Timesheet
	details   map[string]timesheet.TimesheetDetail
	histories []approval.History
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:     maps.Clone(s.users),
		interns:   maps.Clone(s.interns),
		leaves:    maps.Clone(s.leaves),
		sheets:    maps.Clone(s.sheets),
		details:   maps.Clone(s.details),
		histories: slices.Clone(s.histories),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.interns = snap.interns
	s.leaves = snap.leaves
	s.sheets = snap.sheets
	s.details = snap.details
	s.histories = snap.histories
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock guards a repository write. Outside a transaction it also waits for
// the running transaction, so a rollback never discards a committed write.
func (s *Store) lock(ctx context.Context) (unlock func()) {
	if s.inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// rlock guards a repository read. Outside a transaction it does not see
// uncommitted state.
func (s *Store) rlock(ctx context.Context) (unlock func()) {
	if s.inTx(ctx) {
		s.mu.RLock()
		return s.mu.RUnlock
	}
	s.txMu.RLock()
	s.mu.RLock()
	return func() {
		s.mu.RUnlock()
		s.txMu.RUnlock()
	}
}

// WithTransaction serializes units of work and restores the pre-call state
// when fn fails or panics. Nested calls join the outer unit. Repository
// calls must use txCtx; calls made with a context from outside the unit
// block until it finishes.
func (s *Store) WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

func (s *Store) Transactor() database.Transactor { return s }

func (s *Store) Users() user.UserRepository                  { return &userRepo{s} }
func (s *Store) Interns() intern.InternRepository            { return &internRepo{s} }
func (s *Store) LeaveRequests() leave.LeaveRequestRepository { return &leaveRepo{s} }
func (s *Store) Timesheets() timesheet.TimesheetRepository   { return &timesheetRepo{s} }
func (s *Store) TimesheetDetails() timesheet.TimesheetDetailRepository {
	return &detailRepo{s}
}
func (s *Store) ApprovalHistory() approval.HistoryRepository { return &historyRepo{s} }

// dateOnly mirrors a DATE column: the calendar date at UTC midnight.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := min(start+limit, len(items))
	return items[start:end]
}

func errMissing(kind, id string) error {
	return fmt.Errorf("%s %s does not exist", kind, id)
}

// compareDates orders nil after every date, as Postgres does for NULL.
func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}
