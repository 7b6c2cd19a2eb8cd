package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/pkg/database"
)

const internColumns = `
	i.id, i.full_name, i.email, i.phone_number, i.address,
	i.company, i.department, i.responsible_person, i.responsible_person_id,
	i.school, i.major, i.work_days, i.emergency_contact_name, i.emergency_contact_phone,
	i.internship_type, i.workplace, i.company_employee_number, i.employee_number,
	i.start_date, i.end_date, i.is_active,
	i.school_supervisor_name, i.school_supervisor_phone, i.created_at, i.updated_at`

type internRepositoryImpl struct {
	db *database.DB
}

func NewInternRepository(db *database.DB) intern.InternRepository {
	return &internRepositoryImpl{db: db}
}

func scanIntern(row pgx.Row) (intern.Intern, error) {
	var i intern.Intern
	err := row.Scan(
		&i.ID, &i.FullName, &i.Email, &i.PhoneNumber, &i.Address,
		&i.Company, &i.Department, &i.ResponsiblePerson, &i.ResponsiblePersonID,
		&i.School, &i.Major, &i.WorkDays, &i.EmergencyContactName, &i.EmergencyContactPhone,
		&i.InternshipType, &i.Workplace, &i.CompanyEmployeeNumber, &i.EmployeeNumber,
		&i.StartDate, &i.EndDate, &i.IsActive,
		&i.SchoolSupervisorName, &i.SchoolSupervisorPhone, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

// Create implements intern.InternRepository.
func (r *internRepositoryImpl) Create(ctx context.Context, newIntern intern.Intern) (intern.Intern, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO interns (
			id, full_name, email, phone_number, address,
			company, department, responsible_person, responsible_person_id,
			school, major, work_days, emergency_contact_name, emergency_contact_phone,
			internship_type, workplace, company_employee_number, employee_number,
			start_date, end_date, is_active,
			school_supervisor_name, school_supervisor_phone, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13, $14,
			$15, $16, $17, $18,
			$19, $20, $21,
			$22, $23, NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newIntern.ID, newIntern.FullName, newIntern.Email, newIntern.PhoneNumber, newIntern.Address,
		newIntern.Company, newIntern.Department, newIntern.ResponsiblePerson, newIntern.ResponsiblePersonID,
		newIntern.School, newIntern.Major, newIntern.WorkDays, newIntern.EmergencyContactName, newIntern.EmergencyContactPhone,
		newIntern.InternshipType, newIntern.Workplace, newIntern.CompanyEmployeeNumber, newIntern.EmployeeNumber,
		newIntern.StartDate, newIntern.EndDate, newIntern.IsActive,
		newIntern.SchoolSupervisorName, newIntern.SchoolSupervisorPhone,
	).Scan(&newIntern.CreatedAt, &newIntern.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return intern.Intern{}, intern.ErrInternEmailExists
		}
		return intern.Intern{}, fmt.Errorf("failed to create intern: %w", err)
	}

	return newIntern, nil
}

// GetByID implements intern.InternRepository.
func (r *internRepositoryImpl) GetByID(ctx context.Context, id string) (intern.Intern, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + internColumns + ` FROM interns i WHERE i.id = $1`

	i, err := scanIntern(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return intern.Intern{}, intern.ErrInternNotFound
		}
		return intern.Intern{}, err
	}
	return i, nil
}

// GetActiveByEmail implements intern.InternRepository.
func (r *internRepositoryImpl) GetActiveByEmail(ctx context.Context, email string) (intern.Intern, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + internColumns + ` FROM interns i WHERE LOWER(i.email) = LOWER($1) AND i.is_active LIMIT 1`

	i, err := scanIntern(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return intern.Intern{}, intern.ErrInternNotFound
		}
		return intern.Intern{}, err
	}
	return i, nil
}

// List implements intern.InternRepository.
func (r *internRepositoryImpl) List(ctx context.Context, filter intern.InternFilter) ([]intern.Intern, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	paramCount := 0

	if !filter.IncludeInactive {
		whereClauses = append(whereClauses, "i.is_active")
	}

	if filter.OnlyID != nil {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("i.id = $%d", paramCount))
		args = append(args, *filter.OnlyID)
	}

	if filter.Search != nil && *filter.Search != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(i.full_name ILIKE $%[1]d OR i.email ILIKE $%[1]d OR i.school ILIKE $%[1]d OR i.department ILIKE $%[1]d)",
			paramCount))
		args = append(args, "%"+*filter.Search+"%")
	}

	if filter.InternshipType != nil && *filter.InternshipType != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("i.internship_type = $%d", paramCount))
		args = append(args, *filter.InternshipType)
	}

	if filter.Department != nil && *filter.Department != "" {
		paramCount++
		whereClauses = append(whereClauses, fmt.Sprintf("i.department = $%d", paramCount))
		args = append(args, *filter.Department)
	}

	whereClause := strings.Join(whereClauses, " AND ")

	var orderBy string
	switch filter.SortBy {
	case "start_date":
		orderBy = "i.start_date"
	case "created_at":
		orderBy = "i.created_at"
	default:
		orderBy = "i.full_name"
	}
	orderBy += " " + strings.ToUpper(filter.SortOrder) + ", i.id"

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM interns i WHERE %s`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count interns: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM interns i
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, internColumns, whereClause, orderBy, paramCount+1, paramCount+2)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query interns: %w", err)
	}
	defer rows.Close()

	var interns []intern.Intern
	for rows.Next() {
		i, err := scanIntern(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan intern row: %w", err)
		}
		interns = append(interns, i)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return interns, total, nil
}

// Update implements intern.InternRepository.
func (r *internRepositoryImpl) Update(ctx context.Context, updated intern.Intern) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE interns SET
			full_name = $2, email = $3, phone_number = $4, address = $5,
			company = $6, department = $7, responsible_person = $8, responsible_person_id = $9,
			school = $10, major = $11, work_days = $12, emergency_contact_name = $13, emergency_contact_phone = $14,
			internship_type = $15, workplace = $16, company_employee_number = $17, employee_number = $18,
			start_date = $19, end_date = $20, is_active = $21,
			school_supervisor_name = $22, school_supervisor_phone = $23, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		updated.ID, updated.FullName, updated.Email, updated.PhoneNumber, updated.Address,
		updated.Company, updated.Department, updated.ResponsiblePerson, updated.ResponsiblePersonID,
		updated.School, updated.Major, updated.WorkDays, updated.EmergencyContactName, updated.EmergencyContactPhone,
		updated.InternshipType, updated.Workplace, updated.CompanyEmployeeNumber, updated.EmployeeNumber,
		updated.StartDate, updated.EndDate, updated.IsActive,
		updated.SchoolSupervisorName, updated.SchoolSupervisorPhone,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return intern.ErrInternEmailExists
		}
		return fmt.Errorf("failed to update intern: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return intern.ErrInternNotFound
	}
	return nil
}

// Deactivate implements intern.InternRepository.
func (r *internRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE interns SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return intern.ErrInternNotFound
	}
	return nil
}

// CountActive implements intern.InternRepository.
func (r *internRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM interns WHERE is_active`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
