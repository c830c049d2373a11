package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/frahmantamala/vehicle-permit/internal"
	employeeDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/employee"
	notificationDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/notification"
	permitDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/permitrequest"
	userDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("seedDatabase", func() {
	var db *gorm.DB

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(
			&userDatamodel.User{},
			&userDatamodel.Permission{},
			&userDatamodel.UserPermission{},
			&employeeDatamodel.Employee{},
			&permitDatamodel.PermitRequest{},
			&notificationDatamodel.Notification{},
		)).To(Succeed())
	})

	hrUserCount := func() int64 {
		var count int64
		Expect(db.Table("user_permissions").
			Joins("JOIN permissions ON permissions.id = user_permissions.permission_id").
			Where("permissions.name = ?", internal.PermissionHR).
			Count(&count).Error).To(Succeed())
		return count
	}

	It("creates permissions, users with grants and employees", func() {
		Expect(seedDatabase(db, false, bcrypt.MinCost)).To(Succeed())

		var permissions, users, employees int64
		db.Model(&userDatamodel.Permission{}).Count(&permissions)
		db.Model(&userDatamodel.User{}).Count(&users)
		db.Model(&employeeDatamodel.Employee{}).Count(&employees)

		Expect(permissions).To(Equal(int64(len(seedPermissions))))
		Expect(users).To(Equal(int64(len(seedUsers))))
		Expect(employees).To(Equal(int64(len(seedEmployees))))
		Expect(hrUserCount()).To(Equal(int64(2)))

		var admin userDatamodel.User
		Expect(db.Where("email = ?", "padil@mail.com").First(&admin).Error).To(Succeed())
		Expect(bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(seedPassword))).To(Succeed())
	})

	It("is idempotent", func() {
		Expect(seedDatabase(db, false, bcrypt.MinCost)).To(Succeed())
		Expect(seedDatabase(db, false, bcrypt.MinCost)).To(Succeed())

		var users, grants int64
		db.Model(&userDatamodel.User{}).Count(&users)
		db.Model(&userDatamodel.UserPermission{}).Count(&grants)
		Expect(users).To(Equal(int64(len(seedUsers))))
		Expect(grants).To(Equal(int64(5)))
	})

	It("clears permit requests and notifications when asked", func() {
		Expect(seedDatabase(db, false, bcrypt.MinCost)).To(Succeed())

		var emp employeeDatamodel.Employee
		Expect(db.First(&emp).Error).To(Succeed())
		start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
		Expect(db.Create(&permitDatamodel.PermitRequest{
			EmployeeID: emp.ID, StartDatetime: start, EndDatetime: start.Add(time.Hour),
			VehicleType: "car", LicensePlate: "B 1 AA", Status: "pending",
		}).Error).To(Succeed())
		Expect(db.Create(&notificationDatamodel.Notification{UserID: 1, Title: "t", Type: "permit_request"}).Error).To(Succeed())

		Expect(seedDatabase(db, true, bcrypt.MinCost)).To(Succeed())

		var requests, notifications int64
		db.Model(&permitDatamodel.PermitRequest{}).Count(&requests)
		db.Model(&notificationDatamodel.Notification{}).Count(&notifications)
		Expect(requests).To(BeZero())
		Expect(notifications).To(BeZero())
	})
})

var _ = Describe("migrationCommand", func() {
	AfterEach(func() {
		migrateRollback = false
		migrateStatus = false
	})

	It("defaults to up", func() {
		Expect(migrationCommand()).To(Equal("up"))
	})

	It("rolls back one version", func() {
		migrateRollback = true
		Expect(migrationCommand()).To(Equal("down"))
	})

	It("prefers status over rollback", func() {
		migrateRollback = true
		migrateStatus = true
		Expect(migrationCommand()).To(Equal("status"))
	})
})

var _ = Describe("loadConfig", func() {
	It("reads config.yml from the given directory", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(`
http_server:
  port: 9090
permit_request:
  page_size: 5
`), 0o600)).To(Succeed())

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.PermitRequest.GetPageSize()).To(Equal(5))
		Expect(cfg.Notification.GetPageSize()).To(Equal(internal.DefaultNotificationPageSize))
	})

	It("fails when no config file exists", func() {
		_, err := loadConfig(GinkgoT().TempDir())
		Expect(err).To(HaveOccurred())
	})
})
