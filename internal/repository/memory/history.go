package memory

import (
	"context"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
)

type historyRepo struct{ s *Store }

func (r *historyRepo) Create(ctx context.Context, entry approval.History) error {
	defer r.s.lock(ctx)()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.s.now()
	}
	r.s.histories = append(r.s.histories, entry)
	return nil
}

// ListByReference returns entries in insertion order.
func (r *historyRepo) ListByReference(ctx context.Context, refType approval.ReferenceType, refID string) ([]approval.History, error) {
	defer r.s.rlock(ctx)()

	var entries []approval.History
	for _, h := range r.s.histories {
		if h.ReferenceType == refType && h.ReferenceID == refID {
			entries = append(entries, h)
		}
	}
	return entries, nil
}
