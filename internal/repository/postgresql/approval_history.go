package postgresql

import (
	"context"
	"fmt"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/pkg/database"
)

type approvalHistoryRepositoryImpl struct {
	db *database.DB
}

func NewApprovalHistoryRepository(db *database.DB) approval.HistoryRepository {
	return &approvalHistoryRepositoryImpl{db: db}
}

func (r *approvalHistoryRepositoryImpl) Create(ctx context.Context, entry approval.History) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO approval_histories (
			id, reference_type, reference_id, previous_status, new_status,
			approver_id, approver_name, note, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		entry.ID, entry.ReferenceType, entry.ReferenceID, entry.PreviousStatus, entry.NewStatus,
		entry.ApproverID, entry.ApproverName, entry.Note, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create approval history: %w", err)
	}
	return nil
}

func (r *approvalHistoryRepositoryImpl) ListByReference(ctx context.Context, refType approval.ReferenceType, refID string) ([]approval.History, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, reference_type, reference_id, previous_status, new_status,
			   approver_id, approver_name, note, created_at
		FROM approval_histories
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, refType, refID)
	if err != nil {
		return nil, fmt.Errorf("failed to query approval history: %w", err)
	}
	defer rows.Close()

	var entries []approval.History
	for rows.Next() {
		var h approval.History
		if err := rows.Scan(
			&h.ID, &h.ReferenceType, &h.ReferenceID, &h.PreviousStatus, &h.NewStatus,
			&h.ApproverID, &h.ApproverName, &h.Note, &h.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approval history row: %w", err)
		}
		entries = append(entries, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}
