package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/timesheet"
	"github.com/medas/intern-tracker-go/internal/pkg/workday"
)

type timesheetRepo struct{ s *Store }

func (s *Store) sheetWithInternLocked(t timesheet.Timesheet) timesheet.Timesheet {
	if i, ok := s.interns[t.InternID]; ok {
		name := i.FullName
		t.InternName = &name
		t.InternshipType = i.InternshipType
	}
	return t
}

func (r *timesheetRepo) Create(ctx context.Context, sheet timesheet.Timesheet) (timesheet.Timesheet, error) {
	defer r.s.lock(ctx)()

	if _, ok := r.s.interns[sheet.InternID]; !ok {
		return timesheet.Timesheet{}, errMissing("intern", sheet.InternID)
	}
	now := r.s.now()
	sheet.PeriodDate = time.Date(sheet.Year(), sheet.Month(), 1, 0, 0, 0, 0, time.UTC)
	sheet.Version = 1
	sheet.CreatedAt = now
	sheet.UpdatedAt = now
	sheet.InternName = nil
	sheet.InternshipType = ""
	r.s.sheets[sheet.ID] = sheet
	return r.s.sheetWithInternLocked(sheet), nil
}

func (r *timesheetRepo) GetByID(ctx context.Context, id string) (timesheet.Timesheet, error) {
	defer r.s.rlock(ctx)()

	t, ok := r.s.sheets[id]
	if !ok {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	return r.s.sheetWithInternLocked(t), nil
}

func (r *timesheetRepo) FindByInternAndPeriod(ctx context.Context, internID string, year int, month time.Month) (*timesheet.Timesheet, error) {
	defer r.s.rlock(ctx)()

	var found *timesheet.Timesheet
	for _, t := range r.s.sheets {
		if t.InternID != internID || t.Year() != year || t.Month() != month {
			continue
		}
		if found == nil || t.CreatedAt.Before(found.CreatedAt) {
			match := r.s.sheetWithInternLocked(t)
			found = &match
		}
	}
	return found, nil
}

func (r *timesheetRepo) List(ctx context.Context, filter timesheet.TimesheetFilter) ([]timesheet.Timesheet, int64, error) {
	defer r.s.rlock(ctx)()

	var matched []timesheet.Timesheet
	for _, t := range r.s.sheets {
		if filter.InternID != nil && *filter.InternID != "" && t.InternID != *filter.InternID {
			continue
		}
		if filter.Status != nil && *filter.Status != "" && string(t.Status) != *filter.Status {
			continue
		}
		if filter.Year != nil && t.Year() != *filter.Year {
			continue
		}
		if filter.Month != nil && int(t.Month()) != *filter.Month {
			continue
		}
		matched = append(matched, r.s.sheetWithInternLocked(t))
	}

	slices.SortStableFunc(matched, func(a, b timesheet.Timesheet) int {
		if c := b.PeriodDate.Compare(a.PeriodDate); c != 0 {
			return c
		}
		if c := cmp.Compare(derefName(a.InternName), derefName(b.InternName)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r *timesheetRepo) Update(ctx context.Context, sheet timesheet.Timesheet) (timesheet.Timesheet, error) {
	defer r.s.lock(ctx)()

	stored, ok := r.s.sheets[sheet.ID]
	if !ok {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	if stored.Version != sheet.Version {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetStale
	}

	sheet.InternID = stored.InternID
	sheet.PeriodDate = stored.PeriodDate
	sheet.IsManualEntry = stored.IsManualEntry
	sheet.ManualEntryBy = stored.ManualEntryBy
	sheet.CreatedAt = stored.CreatedAt
	sheet.Version = stored.Version + 1
	sheet.UpdatedAt = r.s.now()
	sheet.InternName = nil
	sheet.InternshipType = ""
	r.s.sheets[sheet.ID] = sheet
	return r.s.sheetWithInternLocked(sheet), nil
}

// Delete cascades to the sheet's details.
func (r *timesheetRepo) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.sheets[id]; !ok {
		return timesheet.ErrTimesheetNotFound
	}
	delete(r.s.sheets, id)
	for detailID, d := range r.s.details {
		if d.TimesheetID == id {
			delete(r.s.details, detailID)
		}
	}
	return nil
}

func (r *timesheetRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	defer r.s.rlock(ctx)()

	var count int64
	for _, t := range r.s.sheets {
		if string(t.Status) == status {
			count++
		}
	}
	return count, nil
}

type detailRepo struct{ s *Store }

// CreateBatch is all-or-nothing, like the unique (timesheet_id, work_date) index.
func (r *detailRepo) CreateBatch(ctx context.Context, details []timesheet.TimesheetDetail) error {
	defer r.s.lock(ctx)()

	taken := make(map[string]bool)
	for _, d := range r.s.details {
		taken[d.TimesheetID+"/"+workday.DateKey(d.WorkDate)] = true
	}
	for _, d := range details {
		if _, ok := r.s.sheets[d.TimesheetID]; !ok {
			return errMissing("timesheet", d.TimesheetID)
		}
		key := d.TimesheetID + "/" + workday.DateKey(d.WorkDate)
		if taken[key] {
			return fmt.Errorf("timesheet %s already has a row for %s", d.TimesheetID, workday.DateKey(d.WorkDate))
		}
		taken[key] = true
	}

	now := r.s.now()
	for _, d := range details {
		d.WorkDate = dateOnly(d.WorkDate)
		d.CreatedAt = now
		d.UpdatedAt = now
		r.s.details[d.ID] = d
	}
	return nil
}

func (r *detailRepo) GetByID(ctx context.Context, id string) (timesheet.TimesheetDetail, error) {
	defer r.s.rlock(ctx)()

	d, ok := r.s.details[id]
	if !ok {
		return timesheet.TimesheetDetail{}, timesheet.ErrTimesheetDetailNotFound
	}
	return d, nil
}

func (r *detailRepo) ListByTimesheetID(ctx context.Context, timesheetID string) ([]timesheet.TimesheetDetail, error) {
	defer r.s.rlock(ctx)()

	var details []timesheet.TimesheetDetail
	for _, d := range r.s.details {
		if d.TimesheetID == timesheetID {
			details = append(details, d)
		}
	}
	slices.SortFunc(details, func(a, b timesheet.TimesheetDetail) int {
		return a.WorkDate.Compare(b.WorkDate)
	})
	return details, nil
}

func (r *detailRepo) Update(ctx context.Context, detail timesheet.TimesheetDetail) error {
	defer r.s.lock(ctx)()

	stored, ok := r.s.details[detail.ID]
	if !ok {
		return timesheet.ErrTimesheetDetailNotFound
	}
	detail.TimesheetID = stored.TimesheetID
	detail.WorkDate = stored.WorkDate
	detail.DayName = stored.DayName
	detail.DayNumber = stored.DayNumber
	detail.CreatedAt = stored.CreatedAt
	detail.UpdatedAt = r.s.now()
	r.s.details[detail.ID] = detail
	return nil
}

func derefName(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
