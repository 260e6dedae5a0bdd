package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/business-management/internal"
	"github.com/frahmantamala/business-management/internal/auth"
	authPostgres "github.com/frahmantamala/business-management/internal/auth/postgres"
	"github.com/frahmantamala/business-management/internal/authz"
	"github.com/frahmantamala/business-management/internal/core/events"
	"github.com/frahmantamala/business-management/internal/dashboard"
	"github.com/frahmantamala/business-management/internal/directory"
	"github.com/frahmantamala/business-management/internal/principal"
	"github.com/frahmantamala/business-management/internal/role"
	rolePostgres "github.com/frahmantamala/business-management/internal/role/postgres"
	"github.com/frahmantamala/business-management/internal/transport/rest"
	"github.com/frahmantamala/business-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
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
	Config           *internal.Config
	DB               *sqlx.DB
	Router           *chi.Mux
	AuthHandler      *auth.Handler
	RoleHandler      *role.Handler
	DashboardHandler *dashboard.Handler
	Resolver         *authz.Resolver
	Logger           *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.AuthHandler, deps.RoleHandler, deps.DashboardHandler, deps.Resolver, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	appLogger := logger.LoggerWrapper()
	eventBus := events.NewEventBus(appLogger)

	// Principals are rebuilt from the store on every request, so a
	// role change takes effect on the next request; the audit log is
	// the only in-process consumer.
	for _, eventType := range []string{events.EventTypeRoleCreated, events.EventTypeRoleUpdated, events.EventTypeRoleDeleted} {
		eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			appLogger.Info("role directory changed",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"payload", event.Payload())
			return nil
		})
	}

	// Role data either lives in the local store or comes from the
	// remote directory service; both sit behind the same interface.
	var roleRepo role.RepositoryAPI
	var permSource principal.PermissionSource
	if config.Directory.RemoteEnabled() {
		client := directory.NewClient(directory.Config{
			BaseURL: config.Directory.BaseURL,
			APIKey:  config.Directory.APIKey,
			Timeout: config.Directory.Timeout,
		}, appLogger)
		roleRepo = client
		permSource = client
	} else {
		roleRepo = rolePostgres.NewRoleRepository(gormDB)
	}

	roleService := role.NewService(roleRepo, eventBus, appLogger)
	roleHandler := role.NewHandler(roleService)

	loader := principal.NewLoader(permSource, appLogger)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	userRepo := authPostgres.NewRepository(gormDB, roleRepo)
	authService := auth.NewService(userRepo, tokenGen, loader, appLogger)
	authHandler := auth.NewHandler(authService)

	resolver := authz.NewResolver(authz.DefaultAreas(), config.Security.BootstrapAdminID, appLogger)
	dashboardRouter := dashboard.NewRouter(resolver, appLogger)
	dashboardHandler := dashboard.NewHandler(dashboardRouter)

	return &Dependencies{
		Config:           config,
		Logger:           appLogger,
		DB:               db,
		Router:           chi.NewRouter(),
		AuthHandler:      authHandler,
		RoleHandler:      roleHandler,
		DashboardHandler: dashboardHandler,
		Resolver:         resolver,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
