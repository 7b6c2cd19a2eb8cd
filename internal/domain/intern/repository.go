package intern

import "context"

type InternRepository interface {
	Create(ctx context.Context, newIntern Intern) (Intern, error)
	GetByID(ctx context.Context, id string) (Intern, error)
	// GetActiveByEmail matches case-insensitively among active interns.
	GetActiveByEmail(ctx context.Context, email string) (Intern, error)
	List(ctx context.Context, filter InternFilter) ([]Intern, int64, error)
	Update(ctx context.Context, updated Intern) error
	Deactivate(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int64, error)
}
