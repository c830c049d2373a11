package main_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/vehicle-permit/internal"
	"github.com/frahmantamala/vehicle-permit/internal/core/common/pagination"
	employeeDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/employee"
	notificationDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/notification"
	permitDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/permitrequest"
	userDatamodel "github.com/frahmantamala/vehicle-permit/internal/core/datamodel/user"
	"github.com/frahmantamala/vehicle-permit/internal/core/events"
	"github.com/frahmantamala/vehicle-permit/internal/employee"
	employeePostgres "github.com/frahmantamala/vehicle-permit/internal/employee/postgres"
	"github.com/frahmantamala/vehicle-permit/internal/notification"
	notificationPostgres "github.com/frahmantamala/vehicle-permit/internal/notification/postgres"
	"github.com/frahmantamala/vehicle-permit/internal/permitrequest"
	permitPostgres "github.com/frahmantamala/vehicle-permit/internal/permitrequest/postgres"
	"github.com/frahmantamala/vehicle-permit/internal/user"
	userPostgres "github.com/frahmantamala/vehicle-permit/internal/user/postgres"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("permit request workflow", func() {
	var (
		ctx           context.Context
		db            *gorm.DB
		permits       *permitrequest.Service
		notifications *notification.Service
		hr1, hr2      *internal.User
		viewer        *internal.User
	)

	createUser := func(email string, permissions ...*userDatamodel.Permission) *internal.User {
		row := userDatamodel.User{Email: email, Name: email, PasswordHash: "h", Department: "HR", IsActive: true}
		Expect(db.Create(&row).Error).To(Succeed())
		names := []string{}
		for _, p := range permissions {
			Expect(db.Create(&userDatamodel.UserPermission{UserID: row.ID, PermissionID: p.ID}).Error).To(Succeed())
			names = append(names, p.Name)
		}
		return &internal.User{ID: row.ID, Email: email, Permissions: names}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		Expect(db.AutoMigrate(
			&userDatamodel.User{},
			&userDatamodel.Permission{},
			&userDatamodel.UserPermission{},
			&employeeDatamodel.Employee{},
			&permitDatamodel.PermitRequest{},
			&notificationDatamodel.Notification{},
		)).To(Succeed())

		hrPermission := &userDatamodel.Permission{Name: internal.PermissionHR}
		viewPermission := &userDatamodel.Permission{Name: internal.PermissionViewPermitRequests}
		Expect(db.Create(hrPermission).Error).To(Succeed())
		Expect(db.Create(viewPermission).Error).To(Succeed())

		hr1 = createUser("hr1@example.com", hrPermission)
		hr2 = createUser("hr2@example.com", hrPermission)
		viewer = createUser("viewer@example.com", viewPermission)

		Expect(db.Create(&employeeDatamodel.Employee{Code: "E-001", Name: "Ann Smith", Department: "Ops"}).Error).To(Succeed())

		bus := events.NewEventBus(lg)
		users := user.NewService(userPostgres.NewRepository(sqlx.NewDb(sqlDB, "sqlite3")))
		employees := employee.NewService(employeePostgres.NewEmployeeRepository(db), lg)
		notifications = notification.NewService(notificationPostgres.NewNotificationRepository(db), lg, 0)
		notification.NewEventHandler(notifications, users, lg).RegisterEventHandlers(bus)
		permits = permitrequest.NewService(permitPostgres.NewPermitRequestRepository(db), employees, bus, lg, 0)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	submit := func() *permitrequest.PermitRequest {
		start := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
		created, err := permits.Create(ctx, permitrequest.CreatePermitRequestDTO{
			EmployeeID:    "E-001",
			StartDatetime: start,
			EndDatetime:   start.Add(8 * time.Hour),
			VehicleType:   "Car",
			LicensePlate:  "B 1234 CD",
		})
		Expect(err).NotTo(HaveOccurred())
		return created
	}

	It("notifies every HR user when a request is submitted", func() {
		created := submit()
		Expect(created.Status).To(Equal(permitrequest.StatusPending))

		for _, hr := range []*internal.User{hr1, hr2} {
			page, err := notifications.ListForUser(ctx, hr.ID, pagination.Params{})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Data).To(HaveLen(1))

			n := page.Data[0]
			Expect(n.Type).To(Equal(notification.TypePermitRequest))
			Expect(n.Read).To(BeFalse())
			Expect(n.Data).To(HaveKeyWithValue("permit_request_id", created.ID))
			Expect(n.Message).To(ContainSubstring("Ann Smith"))

			count, err := notifications.UnreadCount(ctx, hr.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		}

		page, err := notifications.ListForUser(ctx, viewer.ID, pagination.Params{})
		Expect(err).NotTo(HaveOccurred())
		Expect(page.Data).To(BeEmpty())
	})

	It("records the reviewer and notes when HR decides", func() {
		created := submit()
		notes := "ok"

		decided, err := permits.Decide(ctx, created.ID, permitrequest.ReviewPermitRequestDTO{
			Status: permitrequest.StatusApproved,
			Notes:  &notes,
		}, hr1)
		Expect(err).NotTo(HaveOccurred())
		Expect(decided.Status).To(Equal(permitrequest.StatusApproved))
		Expect(*decided.Notes).To(Equal("ok"))
		Expect(*decided.ReviewedBy).To(Equal(hr1.ID))
		Expect(decided.ReviewedAt).NotTo(BeNil())
		Expect(decided.Reviewer).NotTo(BeNil())
		Expect(decided.Reviewer.Email).To(Equal("hr1@example.com"))

		_, err = permits.Decide(ctx, created.ID, permitrequest.ReviewPermitRequestDTO{Status: permitrequest.StatusRejected}, viewer)
		Expect(internal.HasCode(err, internal.ErrCodeUnauthorizedAccess)).To(BeTrue())
	})

	It("keeps notifications private to their owner", func() {
		submit()

		page, err := notifications.ListForUser(ctx, hr1.ID, pagination.Params{})
		Expect(err).NotTo(HaveOccurred())
		own := page.Data[0]

		_, err = notifications.GetOne(ctx, hr2.ID, own.ID)
		Expect(internal.HasCode(err, internal.ErrCodeNotificationNotFound)).To(BeTrue())

		_, err = notifications.MarkRead(ctx, hr2.ID, own.ID)
		Expect(internal.HasCode(err, internal.ErrCodeNotificationAccessDenied)).To(BeTrue())

		read, err := notifications.MarkRead(ctx, hr1.ID, own.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(read.Read).To(BeTrue())
		Expect(read.ReadAt).NotTo(BeNil())

		count, err := notifications.UnreadCount(ctx, hr2.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(1)))
	})

	It("marks all of a user's notifications read", func() {
		submit()
		submit()

		updated, err := notifications.MarkAllRead(ctx, hr1.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(updated).To(Equal(int64(2)))

		count, err := notifications.UnreadCount(ctx, hr1.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(BeZero())

		again, err := notifications.MarkAllRead(ctx, hr1.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(BeZero())
	})

	It("filters and deletes requests", func() {
		created := submit()

		result, err := permits.List(ctx, permitrequest.ListFilter{Search: "ann", Department: "Ops"}, pagination.Params{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Requests.Data).To(HaveLen(1))
		Expect(result.Departments).To(Equal([]string{"Ops"}))

		Expect(permits.Delete(ctx, created.ID)).To(Succeed())
		_, err = permits.Show(ctx, created.ID)
		Expect(internal.HasCode(err, internal.ErrCodePermitRequestNotFound)).To(BeTrue())
		Expect(internal.HasCode(permits.Delete(ctx, created.ID), internal.ErrCodePermitRequestNotFound)).To(BeTrue())
	})
})
