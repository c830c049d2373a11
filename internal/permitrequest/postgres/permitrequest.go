package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/vehicle-permit/internal/core/common/pagination"
	employeeDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/employee"
	permitDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/permitrequest"
	"github.com/frahmantamala/vehicle-permit/internal/permitrequest"
	"gorm.io/gorm"
)

type PermitRequestRepository struct {
	db *gorm.DB
}

func NewPermitRequestRepository(db *gorm.DB) permitrequest.RepositoryAPI {
	return &PermitRequestRepository{db: db}
}

func (r *PermitRequestRepository) Create(ctx context.Context, request *permitDatamodel.PermitRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *PermitRequestRepository) GetByID(ctx context.Context, id int64) (*permitDatamodel.PermitRequest, error) {
	var request permitDatamodel.PermitRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Reviewer").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// List applies the filter scopes once for the count and once for the page.
func (r *PermitRequestRepository) List(ctx context.Context, filter permitrequest.ListFilter, page pagination.Params) ([]*permitDatamodel.PermitRequest, int64, error) {
	scopes := r.filterScopes(filter)
	query := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&permitDatamodel.PermitRequest{}).Scopes(scopes...)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	requests := []*permitDatamodel.PermitRequest{}
	err := query().
		Preload("Employee").
		Preload("Reviewer").
		Order("permit_requests.created_at DESC").
		Order("permit_requests.id DESC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// filterScopes returns one scope per filter, in a fixed order. Each scope is a
// no-op when its filter is empty.
func (r *PermitRequestRepository) filterScopes(filter permitrequest.ListFilter) []func(*gorm.DB) *gorm.DB {
	return []func(*gorm.DB) *gorm.DB{
		r.searchScope(filter.Search),
		r.departmentScope(filter.Department),
		statusScope(filter.Status),
		startsFromScope(filter.DateFrom),
		endsByScope(filter.DateTo),
	}
}

// employees builds the employee id subquery under the outer query's context.
func (r *PermitRequestRepository) employees(outer *gorm.DB) *gorm.DB {
	return r.db.WithContext(outer.Statement.Context).Model(&employeeDatamodel.Employee{}).Select("id")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// searchScope matches a case-insensitive substring of the employee's name or
// business key.
func (r *PermitRequestRepository) searchScope(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}
		like := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		matching := r.employees(db).Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(employee_id) LIKE ? ESCAPE '\'`, like, like)
		return db.Where("permit_requests.employee_id IN (?)", matching)
	}
}

func (r *PermitRequestRepository) departmentScope(department string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if department == "" {
			return db
		}
		return db.Where("permit_requests.employee_id IN (?)", r.employees(db).Where("department = ?", department))
	}
}

func statusScope(status string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("permit_requests.status = ?", status)
	}
}

func startsFromScope(from *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from == nil {
			return db
		}
		return db.Where("permit_requests.start_datetime >= ?", *from)
	}
}

func endsByScope(to *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if to == nil {
			return db
		}
		return db.Where("permit_requests.end_datetime <= ?", *to)
	}
}

// UpdateDecision writes status, notes and audit fields in one statement.
func (r *PermitRequestRepository) UpdateDecision(ctx context.Context, id int64, decision permitrequest.Decision) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&permitDatamodel.PermitRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      decision.Status,
			"notes":       decision.Notes,
			"reviewed_by": decision.ReviewedBy,
			"reviewed_at": decision.ReviewedAt,
			"updated_at":  time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *PermitRequestRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&permitDatamodel.PermitRequest{}, id)
	return result.RowsAffected, result.Error
}
