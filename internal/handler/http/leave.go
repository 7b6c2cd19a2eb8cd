package http

import (
	"context"
	"net/http"

	"github.com/medas/intern-tracker-go/internal/domain/leave"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/handler/http/response"
)

type LeaveHandler interface {
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	GetRequestHistory(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	RequestRevision(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	filter := leave.LeaveRequestFilter{
		InternID:  queryString(r, "intern_id"),
		Status:    queryString(r, "status"),
		LeaveType: queryString(r, "leave_type"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}
	filter.Page, _ = queryInt(r, "page")
	filter.Limit, _ = queryInt(r, "limit")

	list, err := l.leaveService.ListLeaveRequests(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.LeaveRequests, pageMeta(list.Page, list.Limit, list.TotalCount, list.TotalPages))
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "Leave request not found")
	if !ok {
		return
	}

	request, err := l.leaveService.GetLeaveRequest(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, request)
}

// GetRequestHistory implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequestHistory(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "Leave request not found")
	if !ok {
		return
	}

	history, err := l.leaveService.GetLeaveRequestHistory(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequestRequest
	if !decodeJSON(w, r, "CreateRequest", &req) {
		return
	}

	created, err := l.leaveService.CreateLeaveRequest(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", created)
}

// UpdateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "Leave request not found")
	if !ok {
		return
	}

	var req leave.UpdateLeaveRequestRequest
	if !decodeJSON(w, r, "UpdateRequest", &req) {
		return
	}
	req.ID = id

	updated, err := l.leaveService.UpdateLeaveRequest(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated successfully", updated)
}

// DeleteRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "Leave request not found")
	if !ok {
		return
	}

	if err := l.leaveService.DeleteLeaveRequest(r.Context(), actor, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request deleted successfully", nil)
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, "ApproveRequest", "Leave request approved successfully", l.leaveService.ApproveLeaveRequest)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, "RejectRequest", "Leave request rejected successfully", l.leaveService.RejectLeaveRequest)
}

// RequestRevision implements LeaveHandler.
func (l *LeaveHandlerImpl) RequestRevision(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, "RequestRevision", "Revision requested successfully", l.leaveService.RequestRevision)
}

type leaveDecision func(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error)

func (l *LeaveHandlerImpl) decide(w http.ResponseWriter, r *http.Request, op, message string, fn leaveDecision) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "Leave request not found")
	if !ok {
		return
	}

	var req leave.DecisionRequest
	if !decodeJSON(w, r, op, &req) {
		return
	}
	req.ID = id

	decided, err := fn(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, decided)
}
