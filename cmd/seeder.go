package cmd

import (
	"fmt"
	"log"

	"github.com/frahmantamala/vehicle-permit/internal"
	"github.com/frahmantamala/vehicle-permit/internal/auth"
	employeeDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/employee"
	notificationDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/notification"
	permitDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/permitrequest"
	userDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "password"

type seedUser struct {
	Email       string
	Name        string
	Department  string
	Permissions []string
}

var seedPermissions = []struct {
	Name string
	Desc string
}{
	{internal.PermissionAdmin, "full administrator"},
	{internal.PermissionHR, "HR staff; reviews permit requests and receives their notifications"},
	{internal.PermissionViewPermitRequests, "Can view permit requests"},
}

var seedUsers = []seedUser{
	{"padil@mail.com", "Padil Admin", "IT", []string{internal.PermissionAdmin, internal.PermissionViewPermitRequests}},
	{"rina@mail.com", "Rina HR", "Human Resources", []string{internal.PermissionHR}},
	{"sari@mail.com", "Sari HR", "Human Resources", []string{internal.PermissionHR}},
	{"fadhil@mail.com", "Fadhil", "Operations", []string{internal.PermissionViewPermitRequests}},
}

var seedEmployees = []employeeDatamodel.Employee{
	{Code: "EMP-001", Name: "Andi Pratama", Department: "Operations"},
	{Code: "EMP-002", Name: "Budi Santoso", Department: "Finance"},
	{Code: "EMP-003", Name: "Citra Lestari", Department: "Operations"},
	{Code: "EMP-004", Name: "Dewi Anggraini", Department: "Marketing"},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, permissions and employees for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB, cfg.Database)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if err := seedDatabase(db, clearData, bcrypt.DefaultCost); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		fmt.Println("Seeding complete; every user's password is:", seedPassword)
	},
}

// seedDatabase is idempotent: existing rows are kept and missing ones added.
func seedDatabase(db *gorm.DB, clear bool, bcryptCost int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if clear {
			if err := clearWorkflowData(tx); err != nil {
				return err
			}
		}

		permissionIDs := make(map[string]int64, len(seedPermissions))
		for _, p := range seedPermissions {
			row := userDatamodel.Permission{Name: p.Name, Description: p.Desc}
			if err := tx.Where(userDatamodel.Permission{Name: p.Name}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", p.Name, err)
			}
			permissionIDs[p.Name] = row.ID
		}

		hash, err := auth.HashPassword(seedPassword, bcryptCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}

		for _, u := range seedUsers {
			row := userDatamodel.User{Email: u.Email, Name: u.Name, Department: u.Department, PasswordHash: hash, IsActive: true}
			if err := tx.Where(userDatamodel.User{Email: u.Email}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}

			for _, name := range u.Permissions {
				grant := userDatamodel.UserPermission{UserID: row.ID, PermissionID: permissionIDs[name]}
				if err := tx.Where(userDatamodel.UserPermission{UserID: row.ID, PermissionID: permissionIDs[name]}).FirstOrCreate(&grant).Error; err != nil {
					return fmt.Errorf("grant %s to %s: %w", name, u.Email, err)
				}
			}
		}

		for _, e := range seedEmployees {
			row := e
			if err := tx.Where(employeeDatamodel.Employee{Code: e.Code}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed employee %s: %w", e.Code, err)
			}
		}

		return nil
	})
}

func clearWorkflowData(tx *gorm.DB) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&notificationDatamodel.Notification{}).Error; err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&permitDatamodel.PermitRequest{}).Error; err != nil {
		return fmt.Errorf("clear permit requests: %w", err)
	}
	return nil
}
