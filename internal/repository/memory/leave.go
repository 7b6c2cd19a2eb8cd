package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/leave"
	"github.com/medas/intern-tracker-go/internal/pkg/workday"
)

type leaveRepo struct{ s *Store }

// leaveWithInternLocked fills the joined intern name.
func (s *Store) leaveWithInternLocked(req leave.LeaveRequest) leave.LeaveRequest {
	if i, ok := s.interns[req.InternID]; ok {
		name := i.FullName
		req.InternName = &name
	}
	return req
}

func (r *leaveRepo) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	defer r.s.lock(ctx)()

	if _, ok := r.s.interns[request.InternID]; !ok {
		return leave.LeaveRequest{}, errMissing("intern", request.InternID)
	}
	now := r.s.now()
	request.Version = 1
	request.CreatedAt = now
	request.UpdatedAt = now
	request.InternName = nil
	r.s.leaves[request.ID] = request
	return r.s.leaveWithInternLocked(request), nil
}

func (r *leaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	defer r.s.rlock(ctx)()

	req, ok := r.s.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r.s.leaveWithInternLocked(req), nil
}

func (r *leaveRepo) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	defer r.s.rlock(ctx)()

	var from, to *time.Time
	if filter.StartDate != nil && *filter.StartDate != "" {
		if d, err := time.Parse("2006-01-02", *filter.StartDate); err == nil {
			from = &d
		}
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		if d, err := time.Parse("2006-01-02", *filter.EndDate); err == nil {
			next := d.AddDate(0, 0, 1)
			to = &next
		}
	}

	var matched []leave.LeaveRequest
	for _, req := range r.s.leaves {
		if filter.InternID != nil && *filter.InternID != "" && req.InternID != *filter.InternID {
			continue
		}
		if filter.Status != nil && *filter.Status != "" && string(req.Status) != *filter.Status {
			continue
		}
		if filter.LeaveType != nil && *filter.LeaveType != "" && string(req.LeaveType) != *filter.LeaveType {
			continue
		}
		if from != nil && req.EndAt.Before(*from) {
			continue
		}
		if to != nil && !req.StartAt.Before(*to) {
			continue
		}
		matched = append(matched, r.s.leaveWithInternLocked(req))
	}

	slices.SortStableFunc(matched, func(a, b leave.LeaveRequest) int {
		var c int
		if filter.SortBy == "start_at" {
			c = a.StartAt.Compare(b.StartAt)
		} else {
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if filter.SortOrder == "desc" {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return c
	})

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r *leaveRepo) FindOverlapping(ctx context.Context, internID string, start, end time.Time, excludeID string) (*leave.LeaveRequest, error) {
	defer r.s.rlock(ctx)()

	var found *leave.LeaveRequest
	for _, req := range r.s.leaves {
		if req.InternID != internID || req.ID == excludeID {
			continue
		}
		if req.Status != approval.StatusPending && req.Status != approval.StatusApproved {
			continue
		}
		if !workday.Overlaps(req.StartAt, req.EndAt, start, end) {
			continue
		}
		if found == nil || req.StartAt.Before(found.StartAt) {
			match := r.s.leaveWithInternLocked(req)
			found = &match
		}
	}
	return found, nil
}

func (r *leaveRepo) ListReflectableApproved(ctx context.Context, internID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	defer r.s.rlock(ctx)()

	var matched []leave.LeaveRequest
	for _, req := range r.s.leaves {
		if req.InternID != internID || req.Status != approval.StatusApproved || !req.ShouldReflectToTimesheet {
			continue
		}
		if !workday.Overlaps(req.StartAt, req.EndAt, from, to) {
			continue
		}
		matched = append(matched, r.s.leaveWithInternLocked(req))
	}
	slices.SortFunc(matched, func(a, b leave.LeaveRequest) int {
		return a.StartAt.Compare(b.StartAt)
	})
	return matched, nil
}

func (r *leaveRepo) Update(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	defer r.s.lock(ctx)()

	stored, ok := r.s.leaves[request.ID]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if stored.Version != request.Version {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestStale
	}

	// Owner, creation and manual-entry columns are not updatable.
	request.InternID = stored.InternID
	request.IsManualEntry = stored.IsManualEntry
	request.ManualEntryBy = stored.ManualEntryBy
	request.CreatedAt = stored.CreatedAt
	request.Version = stored.Version + 1
	request.UpdatedAt = r.s.now()
	request.InternName = nil
	r.s.leaves[request.ID] = request
	return r.s.leaveWithInternLocked(request), nil
}

func (r *leaveRepo) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.leaves[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	delete(r.s.leaves, id)
	return nil
}

func (r *leaveRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	defer r.s.rlock(ctx)()

	var count int64
	for _, req := range r.s.leaves {
		if string(req.Status) == status {
			count++
		}
	}
	return count, nil
}
