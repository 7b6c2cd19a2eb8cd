package intern

import (
	"context"

	"github.com/medas/intern-tracker-go/internal/domain/user"
)

type InternService interface {
	Create(ctx context.Context, actor user.Actor, req CreateInternRequest) (InternResponse, error)
	Update(ctx context.Context, actor user.Actor, req UpdateInternRequest) (InternResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (InternResponse, error)
	List(ctx context.Context, actor user.Actor, filter InternFilter) (ListInternResponse, error)
	Deactivate(ctx context.Context, actor user.Actor, id string) error
}
