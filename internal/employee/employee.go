package employee

import (
	"time"

	"github.com/frahmantamala/vehicle-permit/internal"
	employeeDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/employee"
)

// Employee is a directory entry. EmployeeID is the business key employees
// submit requests with; ID is the internal key.
type Employee struct {
	ID         int64     `json:"id"`
	EmployeeID string    `json:"employee_id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

var ErrEmployeeNotFound = internal.NewNotFoundError("Employee not found", internal.ErrCodeEmployeeNotFound)

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:         e.ID,
		Code:       e.EmployeeID,
		Name:       e.Name,
		Department: e.Department,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	if e == nil {
		return nil
	}
	return &Employee{
		ID:         e.ID,
		EmployeeID: e.Code,
		Name:       e.Name,
		Department: e.Department,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}
