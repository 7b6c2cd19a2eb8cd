package intern

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/pkg/idgen"
	"github.com/medas/intern-tracker-go/internal/pkg/validator"
)

type InternServiceImpl struct {
	intern.InternRepository
	newID func() string
}

func NewInternService(internRepository intern.InternRepository) intern.InternService {
	return &InternServiceImpl{
		InternRepository: internRepository,
		newID:            idgen.New,
	}
}

// Create implements intern.InternService.
func (s *InternServiceImpl) Create(ctx context.Context, actor user.Actor, req intern.CreateInternRequest) (intern.InternResponse, error) {
	if err := user.Authorize(actor, user.PermissionInternManage, user.Resource{}); err != nil {
		return intern.InternResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return intern.InternResponse{}, err
	}

	newIntern := intern.Intern{
		ID:                    s.newID(),
		FullName:              req.FullName,
		Email:                 req.Email,
		PhoneNumber:           req.PhoneNumber,
		Address:               req.Address,
		Company:               req.Company,
		Department:            req.Department,
		ResponsiblePerson:     req.ResponsiblePerson,
		ResponsiblePersonID:   req.ResponsiblePersonID,
		School:                req.School,
		Major:                 req.Major,
		WorkDays:              req.WorkDays,
		SchoolSupervisorName:  req.SchoolSupervisorName,
		SchoolSupervisorPhone: req.SchoolSupervisorPhone,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		InternshipType:        intern.InternshipType(req.InternshipType),
		Workplace:             req.Workplace,
		CompanyEmployeeNumber: req.CompanyEmployeeNumber,
		EmployeeNumber:        req.EmployeeNumber,
		StartDate:             parseDate(req.StartDate),
		EndDate:               parseDate(req.EndDate),
		IsActive:              true,
	}

	created, err := s.InternRepository.Create(ctx, newIntern)
	if err != nil {
		return intern.InternResponse{}, fmt.Errorf("failed to create intern: %w", err)
	}
	return intern.NewInternResponse(created), nil
}

// Update implements intern.InternService.
func (s *InternServiceImpl) Update(ctx context.Context, actor user.Actor, req intern.UpdateInternRequest) (intern.InternResponse, error) {
	if err := user.Authorize(actor, user.PermissionInternManage, user.Resource{}); err != nil {
		return intern.InternResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return intern.InternResponse{}, err
	}

	existing, err := s.InternRepository.GetByID(ctx, req.ID)
	if err != nil {
		return intern.InternResponse{}, err
	}

	if req.FullName != nil {
		existing.FullName = *req.FullName
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	if req.InternshipType != nil {
		existing.InternshipType = intern.InternshipType(*req.InternshipType)
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	applyOptional(&existing.PhoneNumber, req.PhoneNumber)
	applyOptional(&existing.Address, req.Address)
	applyOptional(&existing.Company, req.Company)
	applyOptional(&existing.Department, req.Department)
	applyOptional(&existing.ResponsiblePerson, req.ResponsiblePerson)
	applyOptional(&existing.ResponsiblePersonID, req.ResponsiblePersonID)
	applyOptional(&existing.School, req.School)
	applyOptional(&existing.Major, req.Major)
	applyOptional(&existing.WorkDays, req.WorkDays)
	applyOptional(&existing.SchoolSupervisorName, req.SchoolSupervisorName)
	applyOptional(&existing.SchoolSupervisorPhone, req.SchoolSupervisorPhone)
	applyOptional(&existing.EmergencyContactName, req.EmergencyContactName)
	applyOptional(&existing.EmergencyContactPhone, req.EmergencyContactPhone)
	applyOptional(&existing.Workplace, req.Workplace)
	applyOptional(&existing.CompanyEmployeeNumber, req.CompanyEmployeeNumber)
	applyOptional(&existing.EmployeeNumber, req.EmployeeNumber)
	if req.StartDate != nil {
		existing.StartDate = parseDate(req.StartDate)
	}
	if req.EndDate != nil {
		existing.EndDate = parseDate(req.EndDate)
	}

	// A partial update can still produce an inverted range.
	if existing.StartDate != nil && existing.EndDate != nil && existing.EndDate.Before(*existing.StartDate) {
		return intern.InternResponse{}, validator.New("end_date", "end_date must not be before start_date")
	}

	if err := s.InternRepository.Update(ctx, existing); err != nil {
		return intern.InternResponse{}, fmt.Errorf("failed to update intern: %w", err)
	}

	updated, err := s.InternRepository.GetByID(ctx, existing.ID)
	if err != nil {
		return intern.InternResponse{}, err
	}
	return intern.NewInternResponse(updated), nil
}

// Get implements intern.InternService.
func (s *InternServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (intern.InternResponse, error) {
	if err := user.Authorize(actor, user.PermissionInternView, user.Resource{OwnerInternID: id}); err != nil {
		return intern.InternResponse{}, err
	}

	found, err := s.InternRepository.GetByID(ctx, id)
	if err != nil {
		return intern.InternResponse{}, err
	}
	return intern.NewInternResponse(found), nil
}

// List implements intern.InternService. Interns only see their own record.
func (s *InternServiceImpl) List(ctx context.Context, actor user.Actor, filter intern.InternFilter) (intern.ListInternResponse, error) {
	if err := filter.Validate(); err != nil {
		return intern.ListInternResponse{}, err
	}

	filter.OnlyID = nil
	if !user.HasAnyRolePermission(actor, user.PermissionInternView) {
		if actor.InternID == nil {
			return intern.ListInternResponse{}, fmt.Errorf("%w: %s", user.ErrInsufficientPermissions, user.PermissionInternView)
		}
		filter.OnlyID = actor.InternID
	}

	interns, total, err := s.InternRepository.List(ctx, filter)
	if err != nil {
		return intern.ListInternResponse{}, fmt.Errorf("failed to get interns: %w", err)
	}

	responses := make([]intern.InternResponse, 0, len(interns))
	for _, i := range interns {
		responses = append(responses, intern.NewInternResponse(i))
	}

	return intern.ListInternResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Interns:    responses,
	}, nil
}

// Deactivate implements intern.InternService. Interns are never hard-deleted.
func (s *InternServiceImpl) Deactivate(ctx context.Context, actor user.Actor, id string) error {
	if err := user.Authorize(actor, user.PermissionInternManage, user.Resource{}); err != nil {
		return err
	}
	return s.InternRepository.Deactivate(ctx, id)
}

// applyOptional sets an optional field; an empty string clears it.
func applyOptional(field **string, value *string) {
	if value == nil {
		return
	}
	if validator.IsEmpty(*value) {
		*field = nil
		return
	}
	v := *value
	*field = &v
}

func parseDate(s *string) *time.Time {
	if validator.IsBlank(s) {
		return nil
	}
	d, ok := validator.IsValidDate(*s)
	if !ok {
		return nil
	}
	return &d
}
