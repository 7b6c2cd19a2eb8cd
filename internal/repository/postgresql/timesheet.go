package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/medas/intern-tracker-go/internal/domain/timesheet"
	"github.com/medas/intern-tracker-go/internal/pkg/database"
)

const timesheetColumns = `
	t.id, t.intern_id, t.period_date, t.status,
	t.supervisor_id, t.supervisor_name, t.supervisor_approval_date, t.supervisor_note,
	t.approver_id, t.approver_name, t.approval_date, t.approval_note,
	t.is_manual_entry, t.manual_entry_by,
	t.total_work_days, t.total_leave_days, t.total_training_hours,
	t.version, t.created_at, t.updated_at,
	i.full_name AS intern_name, i.internship_type`

type timesheetRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepositoryImpl{db: db}
}

func scanTimesheet(row pgx.Row) (timesheet.Timesheet, error) {
	var t timesheet.Timesheet
	var internName string
	err := row.Scan(
		&t.ID, &t.InternID, &t.PeriodDate, &t.Status,
		&t.SupervisorID, &t.SupervisorName, &t.SupervisorApprovalDate, &t.SupervisorNote,
		&t.ApproverID, &t.ApproverName, &t.ApprovalDate, &t.ApprovalNote,
		&t.IsManualEntry, &t.ManualEntryBy,
		&t.TotalWorkDays, &t.TotalLeaveDays, &t.TotalTrainingHours,
		&t.Version, &t.CreatedAt, &t.UpdatedAt,
		&internName, &t.InternshipType,
	)
	if err != nil {
		return timesheet.Timesheet{}, err
	}
	t.InternName = &internName
	return t, nil
}

func (r *timesheetRepositoryImpl) Create(ctx context.Context, sheet timesheet.Timesheet) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheets (
			id, intern_id, period_date, status,
			is_manual_entry, manual_entry_by,
			total_work_days, total_leave_days, total_training_hours,
			version, created_at, updated_at
		) VALUES (
			$1, $2, make_date($3, $4, 1), $5,
			$6, $7,
			$8, $9, $10,
			1, NOW(), NOW()
		) RETURNING version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		sheet.ID, sheet.InternID, sheet.Year(), int(sheet.Month()), sheet.Status,
		sheet.IsManualEntry, sheet.ManualEntryBy,
		sheet.TotalWorkDays, sheet.TotalLeaveDays, sheet.TotalTrainingHours,
	).Scan(&sheet.Version, &sheet.CreatedAt, &sheet.UpdatedAt)
	if err != nil {
		return timesheet.Timesheet{}, fmt.Errorf("failed to create timesheet: %w", err)
	}

	return sheet, nil
}

func (r *timesheetRepositoryImpl) GetByID(ctx context.Context, id string) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheets t
		JOIN interns i ON t.intern_id = i.id
		WHERE t.id = $1
	`

	t, err := scanTimesheet(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
		}
		return timesheet.Timesheet{}, err
	}
	return t, nil
}

func (r *timesheetRepositoryImpl) FindByInternAndPeriod(ctx context.Context, internID string, year int, month time.Month) (*timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheets t
		JOIN interns i ON t.intern_id = i.id
		WHERE t.intern_id = $1 AND t.period_date = make_date($2, $3, 1)
		ORDER BY t.created_at
		LIMIT 1
	`

	t, err := scanTimesheet(q.QueryRow(ctx, query, internID, year, int(month)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find timesheet: %w", err)
	}
	return &t, nil
}

func (r *timesheetRepositoryImpl) List(ctx context.Context, filter timesheet.TimesheetFilter) ([]timesheet.Timesheet, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	paramCount := 0

	if filter.InternID != nil && *filter.InternID != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("t.intern_id = $%d", paramCount))
		args = append(args, *filter.InternID)
	}

	if filter.Status != nil && *filter.Status != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("t.status = $%d", paramCount))
		args = append(args, *filter.Status)
	}

	if filter.Year != nil {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("EXTRACT(YEAR FROM t.period_date) = $%d", paramCount))
		args = append(args, *filter.Year)
	}

	if filter.Month != nil {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("EXTRACT(MONTH FROM t.period_date) = $%d", paramCount))
		args = append(args, *filter.Month)
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM timesheets t WHERE %s`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count timesheets: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM timesheets t
		JOIN interns i ON t.intern_id = i.id
		WHERE %s
		ORDER BY t.period_date DESC, i.full_name ASC, t.id
		LIMIT $%d OFFSET $%d
	`, timesheetColumns, whereClause, paramCount+1, paramCount+2)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query timesheets: %w", err)
	}
	defer rows.Close()

	var sheets []timesheet.Timesheet
	for rows.Next() {
		t, err := scanTimesheet(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan timesheet row: %w", err)
		}
		sheets = append(sheets, t)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return sheets, total, nil
}

func (r *timesheetRepositoryImpl) Update(ctx context.Context, sheet timesheet.Timesheet) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheets SET
			status = $3,
			supervisor_id = $4, supervisor_name = $5, supervisor_approval_date = $6, supervisor_note = $7,
			approver_id = $8, approver_name = $9, approval_date = $10, approval_note = $11,
			total_work_days = $12, total_leave_days = $13, total_training_hours = $14,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at
	`

	err := q.QueryRow(ctx, query,
		sheet.ID, sheet.Version,
		sheet.Status,
		sheet.SupervisorID, sheet.SupervisorName, sheet.SupervisorApprovalDate, sheet.SupervisorNote,
		sheet.ApproverID, sheet.ApproverName, sheet.ApprovalDate, sheet.ApprovalNote,
		sheet.TotalWorkDays, sheet.TotalLeaveDays, sheet.TotalTrainingHours,
	).Scan(&sheet.Version, &sheet.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, sheet.ID); getErr != nil {
				return timesheet.Timesheet{}, getErr
			}
			return timesheet.Timesheet{}, timesheet.ErrTimesheetStale
		}
		return timesheet.Timesheet{}, fmt.Errorf("failed to update timesheet: %w", err)
	}

	return sheet, nil
}

// Delete removes the sheet; details go with it through ON DELETE CASCADE.
func (r *timesheetRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM timesheets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return timesheet.ErrTimesheetNotFound
	}
	return nil
}

func (r *timesheetRepositoryImpl) CountByStatus(ctx context.Context, status string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM timesheets WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
