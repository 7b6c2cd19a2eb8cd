package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/medas/intern-tracker-go/internal/domain/timesheet"
	"github.com/medas/intern-tracker-go/internal/pkg/database"
	"github.com/medas/intern-tracker-go/internal/pkg/workday"
)

const timesheetDetailColumns = `
	id, timesheet_id, work_date, day_name, day_number, work_location, is_present,
	start_time, end_time, leave_info, leave_hours, training_info, training_hours,
	has_meal_allowance, notes, created_at, updated_at`

type timesheetDetailRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetDetailRepository(db *database.DB) timesheet.TimesheetDetailRepository {
	return &timesheetDetailRepositoryImpl{db: db}
}

func scanTimesheetDetail(row pgx.Row) (timesheet.TimesheetDetail, error) {
	var d timesheet.TimesheetDetail
	var start, end pgtype.Time
	err := row.Scan(
		&d.ID, &d.TimesheetID, &d.WorkDate, &d.DayName, &d.DayNumber, &d.WorkLocation, &d.IsPresent,
		&start, &end, &d.LeaveInfo, &d.LeaveHours, &d.TrainingInfo, &d.TrainingHours,
		&d.HasMealAllowance, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return timesheet.TimesheetDetail{}, err
	}
	d.StartTime = timeOfDayFromPg(start)
	d.EndTime = timeOfDayFromPg(end)
	return d, nil
}

// CreateBatch inserts a month of rows in one round trip.
func (r *timesheetDetailRepositoryImpl) CreateBatch(ctx context.Context, details []timesheet.TimesheetDetail) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheet_details (
			id, timesheet_id, work_date, day_name, day_number, work_location, is_present,
			start_time, end_time, leave_info, leave_hours, training_info, training_hours,
			has_meal_allowance, notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13,
			$14, $15, NOW(), NOW()
		)
	`

	batch := &pgx.Batch{}
	for _, d := range details {
		batch.Queue(query,
			d.ID, d.TimesheetID, workday.DateKey(d.WorkDate), d.DayName, d.DayNumber, d.WorkLocation, d.IsPresent,
			timeOfDayToPg(d.StartTime), timeOfDayToPg(d.EndTime), d.LeaveInfo, d.LeaveHours, d.TrainingInfo, d.TrainingHours,
			d.HasMealAllowance, d.Notes,
		)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range details {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert timesheet detail: %w", err)
		}
	}
	return nil
}

func (r *timesheetDetailRepositoryImpl) GetByID(ctx context.Context, id string) (timesheet.TimesheetDetail, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetDetailColumns + ` FROM timesheet_details WHERE id = $1`

	d, err := scanTimesheetDetail(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.TimesheetDetail{}, timesheet.ErrTimesheetDetailNotFound
		}
		return timesheet.TimesheetDetail{}, err
	}
	return d, nil
}

func (r *timesheetDetailRepositoryImpl) ListByTimesheetID(ctx context.Context, timesheetID string) ([]timesheet.TimesheetDetail, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetDetailColumns + ` FROM timesheet_details WHERE timesheet_id = $1 ORDER BY work_date`

	rows, err := q.Query(ctx, query, timesheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheet details: %w", err)
	}
	defer rows.Close()

	var details []timesheet.TimesheetDetail
	for rows.Next() {
		d, err := scanTimesheetDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet detail row: %w", err)
		}
		details = append(details, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return details, nil
}

func (r *timesheetDetailRepositoryImpl) Update(ctx context.Context, d timesheet.TimesheetDetail) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheet_details SET
			work_location = $2, is_present = $3, start_time = $4, end_time = $5,
			leave_info = $6, leave_hours = $7, training_info = $8, training_hours = $9,
			has_meal_allowance = $10, notes = $11, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		d.ID, d.WorkLocation, d.IsPresent, timeOfDayToPg(d.StartTime), timeOfDayToPg(d.EndTime),
		d.LeaveInfo, d.LeaveHours, d.TrainingInfo, d.TrainingHours,
		d.HasMealAllowance, d.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update timesheet detail: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return timesheet.ErrTimesheetDetailNotFound
	}
	return nil
}

func timeOfDayToPg(t *workday.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: t.Duration().Microseconds(), Valid: true}
}

func timeOfDayFromPg(t pgtype.Time) *workday.TimeOfDay {
	if !t.Valid {
		return nil
	}
	tod := workday.FromDuration(time.Duration(t.Microseconds) * time.Microsecond)
	return &tod
}
