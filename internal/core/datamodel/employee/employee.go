package employee

import "time"

// Employee keeps the business key in Code so gorm does not mistake the
// employee_id column for the foreign key of PermitRequest.Employee.
type Employee struct {
	ID         int64     `gorm:"primaryKey"`
	Code       string    `gorm:"column:employee_id;uniqueIndex;not null"`
	Name       string    `gorm:"column:name;not null"`
	Department string    `gorm:"column:department;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
