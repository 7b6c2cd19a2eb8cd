package database

import "context"

// Transactor runs fn as one unit of work. Repositories called with txCtx
// take part in the same transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
