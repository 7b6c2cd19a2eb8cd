package http

import (
	"net/http"

	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/handler/http/response"
)

type InternHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type InternHandlerImpl struct {
	internService intern.InternService
}

func NewInternHandler(internService intern.InternService) InternHandler {
	return &InternHandlerImpl{internService: internService}
}

// Create implements InternHandler.
func (h *InternHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req intern.CreateInternRequest
	if !decodeJSON(w, r, "CreateIntern", &req) {
		return
	}

	created, err := h.internService.Create(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Intern created successfully", created)
}

// Update implements InternHandler.
func (h *InternHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "Intern not found")
	if !ok {
		return
	}

	var req intern.UpdateInternRequest
	if !decodeJSON(w, r, "UpdateIntern", &req) {
		return
	}
	req.ID = id

	updated, err := h.internService.Update(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Intern updated successfully", updated)
}

// Get implements InternHandler.
func (h *InternHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "Intern not found")
	if !ok {
		return
	}

	found, err := h.internService.Get(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// List implements InternHandler.
func (h *InternHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	filter := intern.InternFilter{
		Search:          queryString(r, "search"),
		InternshipType:  queryString(r, "internship_type"),
		Department:      queryString(r, "department"),
		IncludeInactive: r.URL.Query().Get("include_inactive") == "true",
		SortBy:          r.URL.Query().Get("sort_by"),
		SortOrder:       r.URL.Query().Get("sort_order"),
	}
	filter.Page, _ = queryInt(r, "page")
	filter.Limit, _ = queryInt(r, "limit")

	list, err := h.internService.List(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Interns, pageMeta(list.Page, list.Limit, list.TotalCount, list.TotalPages))
}

// Deactivate implements InternHandler.
func (h *InternHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "id", "Intern not found")
	if !ok {
		return
	}

	if err := h.internService.Deactivate(r.Context(), actor, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Intern deactivated successfully", nil)
}
