package employee

import (
	"context"
	"log/slog"
	"sort"

	"github.com/frahmantamala/vehicle-permit/internal"
	employeeDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/employee"
)

// RepositoryAPI returns (nil, nil) from lookups when no row matches.
type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*employeeDatamodel.Employee, error)
	DistinctDepartments(ctx context.Context) ([]string, error)
	Create(ctx context.Context, employee *employeeDatamodel.Employee) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetByEmployeeID resolves an employee by business key.
func (s *Service) GetByEmployeeID(ctx context.Context, employeeID string) (*Employee, error) {
	row, err := s.repo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to look up employee by business key", "error", err, "employee_id", employeeID)
		return nil, internal.NewStoreError("failed to look up employee", err)
	}
	if row == nil {
		return nil, ErrEmployeeNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to look up employee", "error", err, "id", id)
		return nil, internal.NewStoreError("failed to look up employee", err)
	}
	if row == nil {
		return nil, ErrEmployeeNotFound
	}
	return FromDataModel(row), nil
}

// Departments returns the distinct non-empty departments in ascending order.
func (s *Service) Departments(ctx context.Context) ([]string, error) {
	raw, err := s.repo.DistinctDepartments(ctx)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, internal.NewStoreError("failed to list departments", err)
	}

	seen := make(map[string]struct{}, len(raw))
	departments := make([]string, 0, len(raw))
	for _, d := range raw {
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		departments = append(departments, d)
	}
	sort.Strings(departments)

	return departments, nil
}

func (s *Service) Create(ctx context.Context, e *Employee) (*Employee, error) {
	row := ToDataModel(e)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create employee", "error", err, "employee_id", e.EmployeeID)
		return nil, internal.NewStoreError("failed to create employee", err)
	}
	return FromDataModel(row), nil
}
