package leave

import (
	"context"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/user"
)

type LeaveService interface {
	CreateLeaveRequest(ctx context.Context, actor user.Actor, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	UpdateLeaveRequest(ctx context.Context, actor user.Actor, req UpdateLeaveRequestRequest) (LeaveRequestResponse, error)
	ApproveLeaveRequest(ctx context.Context, actor user.Actor, req DecisionRequest) (LeaveRequestResponse, error)
	RejectLeaveRequest(ctx context.Context, actor user.Actor, req DecisionRequest) (LeaveRequestResponse, error)
	RequestRevision(ctx context.Context, actor user.Actor, req DecisionRequest) (LeaveRequestResponse, error)
	DeleteLeaveRequest(ctx context.Context, actor user.Actor, id string) error
	GetLeaveRequest(ctx context.Context, actor user.Actor, id string) (LeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, actor user.Actor, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	GetLeaveRequestHistory(ctx context.Context, actor user.Actor, id string) ([]approval.HistoryResponse, error)
}
