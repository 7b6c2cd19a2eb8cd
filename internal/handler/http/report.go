package http

import (
	"net/http"
	"strconv"

	"github.com/medas/intern-tracker-go/internal/domain/report"
	"github.com/medas/intern-tracker-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Dashboard counters
	GetSummary(w http.ResponseWriter, r *http.Request)

	// Monthly timesheet workbook
	ExportTimesheets(w http.ResponseWriter, r *http.Request)

	// Active intern list workbook
	ExportInterns(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetSummary handles GET /reports/summary
func (h *reportHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	summary, err := h.reportService.GetSummary(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// ExportTimesheets handles GET /reports/timesheets/export?year=&month=&intern_id=
func (h *reportHandlerImpl) ExportTimesheets(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}

	req := report.TimesheetExportRequest{
		Year:     year,
		Month:    month,
		InternID: queryString(r, "intern_id"),
	}

	file, err := h.reportService.ExportTimesheets(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.FileName, file.ContentType, file.Content)
}

// ExportInterns handles GET /reports/interns/export?internship_type=&department=
func (h *reportHandlerImpl) ExportInterns(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	req := report.InternExportRequest{
		InternshipType: queryString(r, "internship_type"),
		Department:     queryString(r, "department"),
	}

	file, err := h.reportService.ExportInterns(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.FileName, file.ContentType, file.Content)
}
