package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/leave"
	"github.com/medas/intern-tracker-go/internal/pkg/database"
)

const leaveRequestColumns = `
	lr.id, lr.intern_id, lr.leave_type, lr.start_at, lr.end_at, lr.reason,
	lr.total_days, lr.total_hours, lr.status,
	lr.approver_id, lr.approver_name, lr.approval_date, lr.approval_note,
	lr.should_reflect_to_timesheet, lr.is_manual_entry, lr.manual_entry_by,
	lr.version, lr.created_at, lr.updated_at,
	i.full_name AS intern_name`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	var internName string
	err := row.Scan(
		&req.ID, &req.InternID, &req.LeaveType, &req.StartAt, &req.EndAt, &req.Reason,
		&req.TotalDays, &req.TotalHours, &req.Status,
		&req.ApproverID, &req.ApproverName, &req.ApprovalDate, &req.ApprovalNote,
		&req.ShouldReflectToTimesheet, &req.IsManualEntry, &req.ManualEntryBy,
		&req.Version, &req.CreatedAt, &req.UpdatedAt,
		&internName,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	req.InternName = &internName
	return req, nil
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, intern_id, leave_type, start_at, end_at, reason,
			total_days, total_hours, status,
			should_reflect_to_timesheet, is_manual_entry, manual_entry_by,
			version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12,
			1, NOW(), NOW()
		) RETURNING version, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.InternID, request.LeaveType, request.StartAt, request.EndAt, request.Reason,
		request.TotalDays, request.TotalHours, request.Status,
		request.ShouldReflectToTimesheet, request.IsManualEntry, request.ManualEntryBy,
	).Scan(&request.Version, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN interns i ON lr.intern_id = i.id
		WHERE lr.id = $1
	`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}

	return req, nil
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause dynamically
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	paramCount := 0

	if filter.InternID != nil && *filter.InternID != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("lr.intern_id = $%d", paramCount))
		args = append(args, *filter.InternID)
	}

	if filter.Status != nil && *filter.Status != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("lr.status = $%d", paramCount))
		args = append(args, *filter.Status)
	}

	if filter.LeaveType != nil && *filter.LeaveType != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("lr.leave_type = $%d", paramCount))
		args = append(args, *filter.LeaveType)
	}

	// Date filters match any request touching the range
	if filter.StartDate != nil && *filter.StartDate != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("lr.end_at >= $%d::date", paramCount))
		args = append(args, *filter.StartDate)
	}

	if filter.EndDate != nil && *filter.EndDate != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("lr.start_at < ($%d::date + 1)", paramCount))
		args = append(args, *filter.EndDate)
	}

	whereClause := strings.Join(whereClauses, " AND ")

	var orderBy string
	switch filter.SortBy {
	case "start_at":
		orderBy = "lr.start_at"
	default:
		orderBy = "lr.created_at"
	}
	orderBy += " " + strings.ToUpper(filter.SortOrder) + ", lr.id"

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM leave_requests lr
		WHERE %s
	`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN interns i ON lr.intern_id = i.id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, leaveRequestColumns, whereClause, orderBy, paramCount+1, paramCount+2)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request row: %w", err)
		}
		requests = append(requests, req)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, total, nil
}

func (r *leaveRequestRepositoryImpl) FindOverlapping(ctx context.Context, internID string, start, end time.Time, excludeID string) (*leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN interns i ON lr.intern_id = i.id
		WHERE lr.intern_id = $1
		  AND lr.status IN ($2, $3)
		  AND lr.start_at < $5
		  AND lr.end_at > $4
		  AND ($6 = '' OR lr.id::text <> $6)
		ORDER BY lr.start_at
		LIMIT 1
	`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query,
		internID, approval.StatusPending, approval.StatusApproved, start, end, excludeID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	return &req, nil
}

func (r *leaveRequestRepositoryImpl) ListReflectableApproved(ctx context.Context, internID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		JOIN interns i ON lr.intern_id = i.id
		WHERE lr.intern_id = $1
		  AND lr.status = $2
		  AND lr.should_reflect_to_timesheet
		  AND lr.start_at < $4
		  AND lr.end_at > $3
		ORDER BY lr.start_at
	`

	rows, err := q.Query(ctx, query, internID, approval.StatusApproved, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved leave: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request row: %w", err)
		}
		requests = append(requests, req)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, nil
}

func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			leave_type = $3, start_at = $4, end_at = $5, reason = $6,
			total_days = $7, total_hours = $8, status = $9,
			approver_id = $10, approver_name = $11, approval_date = $12, approval_note = $13,
			should_reflect_to_timesheet = $14,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.Version,
		request.LeaveType, request.StartAt, request.EndAt, request.Reason,
		request.TotalDays, request.TotalHours, request.Status,
		request.ApproverID, request.ApproverName, request.ApprovalDate, request.ApprovalNote,
		request.ShouldReflectToTimesheet,
	).Scan(&request.Version, &request.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, request.ID); getErr != nil {
				return leave.LeaveRequest{}, getErr
			}
			return leave.LeaveRequest{}, leave.ErrLeaveRequestStale
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return request, nil
}

func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		DELETE FROM leave_requests
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) CountByStatus(ctx context.Context, status string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM leave_requests WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
