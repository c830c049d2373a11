package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/vehicle-permit/internal"
	"github.com/frahmantamala/vehicle-permit/internal/auth"
	authPostgres "github.com/frahmantamala/vehicle-permit/internal/auth/postgres"
	"github.com/frahmantamala/vehicle-permit/internal/core/events"
	"github.com/frahmantamala/vehicle-permit/internal/employee"
	employeePostgres "github.com/frahmantamala/vehicle-permit/internal/employee/postgres"
	"github.com/frahmantamala/vehicle-permit/internal/notification"
	notificationPostgres "github.com/frahmantamala/vehicle-permit/internal/notification/postgres"
	"github.com/frahmantamala/vehicle-permit/internal/permitrequest"
	permitPostgres "github.com/frahmantamala/vehicle-permit/internal/permitrequest/postgres"
	"github.com/frahmantamala/vehicle-permit/internal/transport/rest"
	"github.com/frahmantamala/vehicle-permit/internal/transport/swagger"
	"github.com/frahmantamala/vehicle-permit/internal/user"
	userPostgres "github.com/frahmantamala/vehicle-permit/internal/user/postgres"
	"github.com/frahmantamala/vehicle-permit/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Handlers rest.Handlers
	RBAC     *auth.RBACAuthorization
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		closeDatabases(deps)
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(deps.Router, deps.DB, deps.Handlers, deps.RBAC, rest.RouterOptions{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		OpenAPIPath:    deps.Config.OpenAPIPath,
	}, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Configure(logger.Options{
		Level:  config.Observability.Logging.Level,
		Format: config.Observability.Logging.Format,
	})

	if config.OpenAPIPath != "" {
		if _, err := swagger.LoadSpec(context.Background(), config.OpenAPIPath); err != nil {
			return nil, err
		}
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db, config.Database)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(lg)

	userService := user.NewService(userPostgres.NewRepository(db))
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(gormDB), lg)

	notificationService := notification.NewService(
		notificationPostgres.NewNotificationRepository(gormDB),
		lg,
		config.Notification.GetPageSize(),
	)
	notification.NewEventHandler(notificationService, userService, lg).RegisterEventHandlers(eventBus)

	permitRequestService := permitrequest.NewService(
		permitPostgres.NewPermitRequestRepository(gormDB),
		employeeService,
		eventBus,
		lg,
		config.PermitRequest.GetPageSize(),
	)

	tokenGenerator := auth.NewJWTTokenGenerator(
		config.Security.JWTAccessSecret,
		config.Security.JWTRefreshSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), tokenGenerator, config.Security.BCryptCost)

	return &Dependencies{
		Config:   config,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		EventBus: eventBus,
		Handlers: rest.Handlers{
			Auth:          auth.NewHandler(authService),
			User:          user.NewHandler(userService),
			PermitRequest: permitrequest.NewHandler(permitRequestService),
			Notification:  notification.NewHandler(notificationService),
		},
		RBAC:   auth.NewRBACAuthorization(auth.NewPermissionChecker(), lg),
		Logger: lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx connection pool with gorm.
func initGorm(db *sqlx.DB, cfg internal.DatabaseConfig) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		Conn: db.DB,
		DSN:  cfg.GetDSN(),
	}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}

func closeDatabases(deps *Dependencies) {
	if err := deps.DB.Close(); err != nil {
		deps.Logger.Error("database close error", "error", err)
	}
}
