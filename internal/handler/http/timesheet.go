package http

import (
	"context"
	"net/http"

	"github.com/medas/intern-tracker-go/internal/domain/timesheet"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/handler/http/response"
)

type TimesheetHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	UpdateDetail(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	RequestRevision(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type TimesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &TimesheetHandlerImpl{timesheetService: timesheetService}
}

// Create implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req timesheet.CreateTimesheetRequest
	if !decodeJSON(w, r, "CreateTimesheet", &req) {
		return
	}

	created, err := h.timesheetService.CreateTimesheet(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Timesheet created successfully", created)
}

// Get implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "Timesheet not found")
	if !ok {
		return
	}

	sheet, err := h.timesheetService.GetTimesheet(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sheet)
}

// List implements TimesheetHandler.
func (h *TimesheetHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	filter := timesheet.TimesheetFilter{
		InternID: queryString(r, "intern_id"),
		Status:   queryString(r, "status"),
	}
	if year, ok := queryInt(r, "year"); ok {
		filter.Year = &year
	}
	if month, ok := queryInt(r, "month"); ok {
		filter.Month = &month
	}
	filter.Page, _ = queryInt(r, "page")
	filter.Limit, _ = queryInt(r, "limit")

	list, err := h.timesheetService.ListTimesheets(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Timesheets, pageMeta(list.Page, list.Limit, list.TotalCount, list.TotalPages))
}

// History implements TimesheetHandler.
func (h *TimesheetHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "Timesheet not found")
	if !ok {
		return
	}

	history, err := h.timesheetService.GetTimesheetHistory(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}

// UpdateDetail implements TimesheetHandler.
func (h *TimesheetHandlerImpl) UpdateDetail(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "detailID", "Timesheet detail not found")
	if !ok {
		return
	}

	var req timesheet.UpdateDetailRequest
	if !decodeJSON(w, r, "UpdateDetail", &req) {
		return
	}
	req.ID = id

	sheet, err := h.timesheetService.UpdateDetail(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet detail updated successfully", sheet)
}

// Approve implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "ApproveTimesheet", "Timesheet approved successfully", h.timesheetService.ApproveTimesheet)
}

// Reject implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "RejectTimesheet", "Timesheet rejected successfully", h.timesheetService.RejectTimesheet)
}

// RequestRevision implements TimesheetHandler.
func (h *TimesheetHandlerImpl) RequestRevision(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "RequestTimesheetRevision", "Revision requested successfully", h.timesheetService.RequestRevision)
}

// Delete implements TimesheetHandler.
func (h *TimesheetHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "Timesheet not found")
	if !ok {
		return
	}

	if err := h.timesheetService.DeleteTimesheet(r.Context(), actor, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet deleted successfully", nil)
}

type timesheetDecision func(ctx context.Context, actor user.Actor, req timesheet.DecisionRequest) (timesheet.TimesheetResponse, error)

func (h *TimesheetHandlerImpl) decide(w http.ResponseWriter, r *http.Request, op, message string, fn timesheetDecision) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "Timesheet not found")
	if !ok {
		return
	}

	var req timesheet.DecisionRequest
	if !decodeJSON(w, r, op, &req) {
		return
	}
	req.ID = id

	sheet, err := fn(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, sheet)
}
