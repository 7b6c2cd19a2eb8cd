package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/medas/intern-tracker-go/internal/domain/auth"
	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/domain/leave"
	"github.com/medas/intern-tracker-go/internal/domain/report"
	"github.com/medas/intern-tracker-go/internal/domain/timesheet"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Overlaps are reported like a form-level validation failure.
	var overlap *leave.OverlapError
	if errors.As(err, &overlap) {
		ValidationError(w, map[string]string{
			validator.FormField: overlap.Error(),
			"conflicting_id":    overlap.ConflictingID,
		})
		return
	}

	switch {
	// Identity
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, user.ErrActorMissing):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccountDisabled),
		errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, err.Error())

	// Interns
	case errors.Is(err, intern.ErrInternNotFound):
		NotFound(w, "Intern not found")
	case errors.Is(err, intern.ErrInternEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, intern.ErrInternInactive):
		fail(w, http.StatusUnprocessableEntity, CodeValidation, err.Error(),
			map[string]string{"intern_id": err.Error()})

	// Leave requests
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed),
		errors.Is(err, leave.ErrLeaveRequestNotEditable),
		errors.Is(err, leave.ErrRevisionNotAllowed),
		errors.Is(err, leave.ErrLeaveRequestStale):
		Conflict(w, err.Error())

	// Timesheets
	case errors.Is(err, timesheet.ErrTimesheetNotFound):
		NotFound(w, "Timesheet not found")
	case errors.Is(err, timesheet.ErrTimesheetDetailNotFound):
		NotFound(w, "Timesheet detail not found")
	case errors.Is(err, timesheet.ErrTimesheetAlreadyExists),
		errors.Is(err, timesheet.ErrTimesheetAlreadyProcessed),
		errors.Is(err, timesheet.ErrAwaitingFinalApproval),
		errors.Is(err, timesheet.ErrRevisionNotAllowed),
		errors.Is(err, timesheet.ErrTimesheetStale):
		Conflict(w, err.Error())

	// Reports
	case errors.Is(err, report.ErrNoTimesheetsToExport):
		NotFound(w, err.Error())

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
