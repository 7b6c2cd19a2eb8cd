package approval

import "context"

// HistoryRepository has no update or delete: entries are never changed.
type HistoryRepository interface {
	Create(ctx context.Context, entry History) error
	ListByReference(ctx context.Context, refType ReferenceType, refID string) ([]History, error)
}
