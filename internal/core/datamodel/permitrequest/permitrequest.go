package permitrequest

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/employee"
	userDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/user"
)

type PermitRequest struct {
	ID            int64      `gorm:"primaryKey"`
	EmployeeID    int64      `gorm:"column:employee_id;not null;index"`
	StartDatetime time.Time  `gorm:"column:start_datetime;not null"`
	EndDatetime   time.Time  `gorm:"column:end_datetime;not null"`
	VehicleType   string     `gorm:"column:vehicle_type"`
	LicensePlate  string     `gorm:"column:license_plate"`
	Status        string     `gorm:"column:status;default:'pending';index"`
	Notes         *string    `gorm:"column:notes"`
	ReviewedBy    *int64     `gorm:"column:reviewed_by"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Employee *employeeDatamodel.Employee `gorm:"foreignKey:EmployeeID"`
	Reviewer *userDatamodel.User         `gorm:"foreignKey:ReviewedBy"`
}

func (PermitRequest) TableName() string {
	return "permit_requests"
}
