package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/medas/intern-tracker-go/internal/domain/intern"
)

type internRepo struct{ s *Store }

func (r *internRepo) Create(ctx context.Context, newIntern intern.Intern) (intern.Intern, error) {
	defer r.s.lock(ctx)()

	if newIntern.IsActive && r.s.activeEmailTakenLocked(newIntern.Email, "") {
		return intern.Intern{}, intern.ErrInternEmailExists
	}
	now := r.s.now()
	newIntern.StartDate = datePtr(newIntern.StartDate)
	newIntern.EndDate = datePtr(newIntern.EndDate)
	newIntern.CreatedAt = now
	newIntern.UpdatedAt = now
	r.s.interns[newIntern.ID] = newIntern
	return newIntern, nil
}

func (r *internRepo) GetByID(ctx context.Context, id string) (intern.Intern, error) {
	defer r.s.rlock(ctx)()

	i, ok := r.s.interns[id]
	if !ok {
		return intern.Intern{}, intern.ErrInternNotFound
	}
	return i, nil
}

func (r *internRepo) GetActiveByEmail(ctx context.Context, email string) (intern.Intern, error) {
	defer r.s.rlock(ctx)()

	for _, i := range r.s.interns {
		if i.IsActive && strings.EqualFold(i.Email, email) {
			return i, nil
		}
	}
	return intern.Intern{}, intern.ErrInternNotFound
}

func (r *internRepo) List(ctx context.Context, filter intern.InternFilter) ([]intern.Intern, int64, error) {
	defer r.s.rlock(ctx)()

	var search string
	if filter.Search != nil {
		search = strings.ToLower(*filter.Search)
	}

	var matched []intern.Intern
	for _, i := range r.s.interns {
		if !filter.IncludeInactive && !i.IsActive {
			continue
		}
		if filter.OnlyID != nil && i.ID != *filter.OnlyID {
			continue
		}
		if filter.InternshipType != nil && *filter.InternshipType != "" && string(i.InternshipType) != *filter.InternshipType {
			continue
		}
		if filter.Department != nil && *filter.Department != "" && (i.Department == nil || *i.Department != *filter.Department) {
			continue
		}
		if search != "" && !internMatches(i, search) {
			continue
		}
		matched = append(matched, i)
	}

	slices.SortStableFunc(matched, func(a, b intern.Intern) int {
		var c int
		switch filter.SortBy {
		case "start_date":
			c = compareDates(a.StartDate, b.StartDate)
		case "created_at":
			c = a.CreatedAt.Compare(b.CreatedAt)
		default:
			c = cmp.Compare(a.FullName, b.FullName)
		}
		if filter.SortOrder == "desc" {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return c
	})

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func (r *internRepo) Update(ctx context.Context, updated intern.Intern) error {
	defer r.s.lock(ctx)()

	existing, ok := r.s.interns[updated.ID]
	if !ok {
		return intern.ErrInternNotFound
	}
	if updated.IsActive && r.s.activeEmailTakenLocked(updated.Email, updated.ID) {
		return intern.ErrInternEmailExists
	}
	updated.StartDate = datePtr(updated.StartDate)
	updated.EndDate = datePtr(updated.EndDate)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = r.s.now()
	r.s.interns[updated.ID] = updated
	return nil
}

func (r *internRepo) Deactivate(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()

	i, ok := r.s.interns[id]
	if !ok {
		return intern.ErrInternNotFound
	}
	i.IsActive = false
	i.UpdatedAt = r.s.now()
	r.s.interns[id] = i
	return nil
}

func (r *internRepo) CountActive(ctx context.Context) (int64, error) {
	defer r.s.rlock(ctx)()

	var count int64
	for _, i := range r.s.interns {
		if i.IsActive {
			count++
		}
	}
	return count, nil
}

func (s *Store) activeEmailTakenLocked(email, exceptID string) bool {
	for _, i := range s.interns {
		if i.ID != exceptID && i.IsActive && strings.EqualFold(i.Email, email) {
			return true
		}
	}
	return false
}

func internMatches(i intern.Intern, search string) bool {
	fields := []string{i.FullName, i.Email}
	if i.School != nil {
		fields = append(fields, *i.School)
	}
	if i.Department != nil {
		fields = append(fields, *i.Department)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}
