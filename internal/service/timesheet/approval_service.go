package timesheet

import (
	"context"
	"strings"

	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/timesheet"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/pkg/validator"
)

// ApproveTimesheet implements timesheet.TimesheetService.
//
// Talentern sheets approved by a supervisor stop at SupervisorApproved and
// need HR, Admin or Personnel Affairs for the final step. Every other
// approval is final.
func (s *TimesheetServiceImpl) ApproveTimesheet(ctx context.Context, actor user.Actor, req timesheet.DecisionRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	sheet, err := s.decide(ctx, actor, req, func(current timesheet.Timesheet) (approval.Status, error) {
		switch {
		case current.Status == approval.StatusApproved || current.Status == approval.StatusRejected:
			return "", timesheet.ErrTimesheetAlreadyProcessed
		case actsAsFinalApprover(actor):
			return approval.StatusApproved, nil
		case current.Status == approval.StatusSupervisorApproved:
			return "", timesheet.ErrAwaitingFinalApproval
		case current.InternshipType.RequiresTwoStepApproval():
			return approval.StatusSupervisorApproved, nil
		}
		return approval.StatusApproved, nil
	})
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	return timesheet.NewTimesheetResponse(sheet, nil), nil
}

// RejectTimesheet implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) RejectTimesheet(ctx context.Context, actor user.Actor, req timesheet.DecisionRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if validator.IsBlank(req.Note) {
		return timesheet.TimesheetResponse{}, validator.New("note", "a reason is required to reject a timesheet")
	}

	sheet, err := s.decide(ctx, actor, req, func(current timesheet.Timesheet) (approval.Status, error) {
		if current.Status.IsOpen() || current.Status == approval.StatusSupervisorApproved {
			return approval.StatusRejected, nil
		}
		return "", timesheet.ErrTimesheetAlreadyProcessed
	})
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	return timesheet.NewTimesheetResponse(sheet, nil), nil
}

// RequestRevision implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) RequestRevision(ctx context.Context, actor user.Actor, req timesheet.DecisionRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if validator.IsBlank(req.Note) {
		return timesheet.TimesheetResponse{}, validator.New("note", "a note is required to request a revision")
	}

	sheet, err := s.decide(ctx, actor, req, func(current timesheet.Timesheet) (approval.Status, error) {
		if current.Status != approval.StatusPending {
			return "", timesheet.ErrRevisionNotAllowed
		}
		return approval.StatusRevision, nil
	})
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	return timesheet.NewTimesheetResponse(sheet, nil), nil
}

// decide loads the sheet, lets transition pick the next status and stores
// the result together with its history entry.
func (s *TimesheetServiceImpl) decide(
	ctx context.Context,
	actor user.Actor,
	req timesheet.DecisionRequest,
	transition func(current timesheet.Timesheet) (approval.Status, error),
) (timesheet.Timesheet, error) {
	var note *string
	if !validator.IsBlank(req.Note) {
		trimmed := strings.TrimSpace(*req.Note)
		note = &trimmed
	}

	var decided timesheet.Timesheet
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.TimesheetRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if err := user.Authorize(actor, user.PermissionTimesheetDecide, user.Resource{OwnerInternID: current.InternID, Status: current.Status}); err != nil {
			return err
		}

		next, err := transition(current)
		if err != nil {
			return err
		}

		previous := current.Status
		s.stampDecision(&current, actor, next, note)

		decided, err = s.TimesheetRepository.Update(txCtx, current)
		if err != nil {
			return err
		}
		return s.recordHistory(txCtx, decided.ID, previous, next, actor.UserID, actor.DisplayName(), note)
	})
	return decided, err
}

// stampDecision writes the actor into the supervisor slot when acting as
// first approver of a two-step sheet, and into the final slot otherwise.
func (s *TimesheetServiceImpl) stampDecision(sheet *timesheet.Timesheet, actor user.Actor, next approval.Status, note *string) {
	now := s.calendar.Now()
	id, name := actor.UserID, actor.DisplayName()
	sheet.Status = next

	if !actsAsFinalApprover(actor) && sheet.InternshipType.RequiresTwoStepApproval() {
		sheet.SupervisorID = &id
		sheet.SupervisorName = &name
		sheet.SupervisorApprovalDate = &now
		sheet.SupervisorNote = note
		return
	}
	sheet.ApproverID = &id
	sheet.ApproverName = &name
	sheet.ApprovalDate = &now
	sheet.ApprovalNote = note
}

func actsAsFinalApprover(actor user.Actor) bool {
	return actor.HasAnyRole(user.RoleAdmin, user.RoleHR, user.RolePersonnelAffairs)
}
