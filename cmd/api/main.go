package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/totalawareness/backend/api/routes"
	"github.com/totalawareness/backend/internal/auth"
	"github.com/totalawareness/backend/internal/companies"
	"github.com/totalawareness/backend/internal/contact"
	"github.com/totalawareness/backend/internal/faqs"
	"github.com/totalawareness/backend/internal/memberships"
	"github.com/totalawareness/backend/internal/roles"
	"github.com/totalawareness/backend/internal/users"
	"github.com/totalawareness/backend/pkg/auth/session"
	"github.com/totalawareness/backend/pkg/config"
	"github.com/totalawareness/backend/pkg/db"
	"github.com/totalawareness/backend/pkg/db/models"
	"github.com/totalawareness/backend/pkg/logger"
	"github.com/totalawareness/backend/pkg/metrics"
	"github.com/totalawareness/backend/pkg/migrate"
	redisclient "github.com/totalawareness/backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := openDatabase(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if !cfg.FeatureFlags.UseSQLite {
		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}
	}

	redisClient, err := redisclient.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	companyRepo := companies.NewRepository(conn)
	membershipRepo := memberships.NewRepository(conn)
	roleRepo := roles.NewRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	companyService, err := companies.NewService(dbClient, companyRepo, membershipRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create company service", err)
		os.Exit(1)
	}

	membershipService, err := memberships.NewService(membershipRepo, companyRepo, roleRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create membership service", err)
		os.Exit(1)
	}

	roleService, err := roles.NewService(roleRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create role service", err)
		os.Exit(1)
	}

	faqService, err := faqs.NewService(faqs.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create faq service", err)
		os.Exit(1)
	}

	contactService, err := contact.NewService(contact.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create contact service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		SessionManager: sessionManager,
		HTTPMetrics:    httpMetrics,
		Registry:       registry,

		AuthService:       authService,
		CompanyService:    companyService,
		MembershipService: membershipService,
		RoleService:       roleService,
		FAQService:        faqService,
		ContactService:    contactService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

// openDatabase boots Postgres, or an embedded SQLite file when the dev flag
// asks for it. The SQLite path skips goose and relies on AutoMigrate.
func openDatabase(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*db.Client, error) {
	if !cfg.FeatureFlags.UseSQLite {
		return db.New(ctx, cfg.DB, logg)
	}

	conn, err := gorm.Open(sqlite.Open("totalawareness.db"), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := conn.AutoMigrate(
		&models.User{}, &models.Role{}, &models.Company{},
		&models.Membership{}, &models.FAQ{}, &models.ContactMessage{},
	); err != nil {
		return nil, err
	}
	logg.Info(ctx, "sqlite database ready")
	return db.NewWithConn(conn), nil
}
