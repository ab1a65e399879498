package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bloodbank/bloodbank-api/internal/config"
	"github.com/bloodbank/bloodbank-api/internal/domain/account"
	"github.com/bloodbank/bloodbank-api/internal/domain/analytics"
	"github.com/bloodbank/bloodbank-api/internal/domain/bloodrequest"
	"github.com/bloodbank/bloodbank-api/internal/domain/donor"
	"github.com/bloodbank/bloodbank-api/internal/domain/hospital"
	"github.com/bloodbank/bloodbank-api/internal/domain/patient"
	"github.com/bloodbank/bloodbank-api/internal/domain/portal"
	"github.com/bloodbank/bloodbank-api/internal/domain/specimen"
	"github.com/bloodbank/bloodbank-api/internal/domain/staff"
	"github.com/bloodbank/bloodbank-api/internal/domain/warning"
	"github.com/bloodbank/bloodbank-api/internal/platform/auth"
	"github.com/bloodbank/bloodbank-api/internal/platform/db"
	"github.com/bloodbank/bloodbank-api/internal/platform/middleware"
	"github.com/bloodbank/bloodbank-api/internal/platform/scheduler"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bloodbank-server",
		Short: "Blood bank management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(warningsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

// loadConfig loads and validates the configuration and opens the pool.
func loadConfig(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBSchema)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and the warning jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			cfg, pool, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			fmt.Printf("Running migrations on schema: %s\n", cfg.DBSchema)
			count, err := db.NewMigrator(pool, dir, cfg.DBSchema).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			cfg, pool, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir, cfg.DBSchema).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for schema: %s\n", cfg.DBSchema)
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage hospital logins",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a hospital login, or reset its password if it exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := account.NewUser{}
			in.HospitalID, _ = cmd.Flags().GetString("hospital")
			in.Username, _ = cmd.Flags().GetString("username")
			in.Password, _ = cmd.Flags().GetString("password")
			if email, _ := cmd.Flags().GetString("email"); email != "" {
				in.Email = &email
			}

			ctx := context.Background()
			cfg, pool, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
			u, err := account.NewService(account.NewRepo(pool), tokens).CreateUser(ctx, in)
			if err != nil {
				return err
			}
			fmt.Printf("User %s (id %d) can now log in for hospital %s.\n", u.Username, u.UserID, u.HospitalID)
			return nil
		},
	}
	createCmd.Flags().String("hospital", "", "Hospital id the login belongs to")
	createCmd.Flags().String("username", "", "Login name")
	createCmd.Flags().String("password", "", "Initial password")
	createCmd.Flags().String("email", "", "Contact email (optional)")
	cmd.AddCommand(createCmd)

	return cmd
}

func warningsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warnings",
		Short: "Run a warning job once",
	}

	run := func(name string) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, pool, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := newLogger(cfg)
			a := newApp(cfg, pool, logger, prometheus.NewRegistry())
			for _, job := range a.jobs(cfg) {
				if job.Name != name {
					continue
				}
				jctx, cancel := context.WithTimeout(ctx, job.Timeout)
				defer cancel()
				return job.Run(jctx)
			}
			return fmt.Errorf("unknown job %s", name)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "scan",
		Short: "Raise warnings for expiring stock and shortages",
		RunE:  run(jobWarningScan),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Delete warnings older than the retention period",
		RunE:  run(jobWarningCleanup),
	})
	return cmd
}

const (
	jobWarningScan    = "warning-scan"
	jobWarningCleanup = "warning-cleanup"
)

// app is the wired HTTP server plus the services the background jobs use.
type app struct {
	echo     *echo.Echo
	logger   zerolog.Logger
	warnings *warning.Service
	scanner  *warning.Scanner
}

func newApp(cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger, reg *prometheus.Registry) *app {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	metrics := middleware.NewMetrics(reg)

	// Recovery sits inside Logger and metrics so a panic is logged and
	// counted as a 500.
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware())
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool, func() *db.PoolStats { return db.GetPoolStats(pool) }))
	if cfg.MetricsEnabled {
		e.GET("/metrics", middleware.MetricsHandler(reg))
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	requireToken := auth.RequireToken(tokens)
	loginLimit := middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.LoginRateLimitRPS,
		BurstSize:         cfg.LoginRateLimitBurst,
	})
	tx := db.NewTxManager(pool)

	api := e.Group("/api")

	donor.NewHandler(donor.NewService(donor.NewRepo(pool))).RegisterRoutes(api)
	patient.NewHandler(patient.NewService(patient.NewRepo(pool))).RegisterRoutes(api)
	hospital.NewHandler(hospital.NewService(hospital.NewRepo(pool))).RegisterRoutes(api)
	staff.NewHandler(staff.NewService(staff.NewRepo(pool))).RegisterRoutes(api)

	specimenSvc := specimen.NewService(specimen.NewRepo(pool))
	specimen.NewHandler(specimenSvc).RegisterRoutes(api)

	bloodrequest.NewHandler(bloodrequest.NewService(bloodrequest.NewRepo(pool), tx)).RegisterRoutes(api)

	account.NewHandler(account.NewService(account.NewRepo(pool), tokens)).RegisterRoutes(api, requireToken, loginLimit)
	portal.NewHandler(portal.NewService(portal.NewRepo(pool))).RegisterRoutes(api, requireToken)

	analyticsSvc := analytics.NewService(analytics.NewRepo(pool))
	analytics.NewHandler(analyticsSvc).RegisterRoutes(api)

	warningRepo := warning.NewRepo(pool)
	warningSvc := warning.NewService(warningRepo, cfg.WarningRetention)
	warning.NewHandler(warningSvc).RegisterRoutes(api)

	return &app{
		echo:     e,
		logger:   logger,
		warnings: warningSvc,
		scanner:  warning.NewScanner(warningRepo, specimenSvc, analyticsSvc, cfg.ExpiryWarningDays, logger, reg),
	}
}

func (a *app) jobs(cfg *config.Config) []scheduler.Job {
	return []scheduler.Job{
		{
			Name:     jobWarningScan,
			Schedule: cfg.WarningScanSchedule,
			Timeout:  2 * time.Minute,
			Run: func(ctx context.Context) error {
				_, err := a.scanner.Scan(ctx)
				return err
			},
		},
		{
			Name:     jobWarningCleanup,
			Schedule: cfg.WarningCleanupSchedule,
			Timeout:  time.Minute,
			Run: func(ctx context.Context) error {
				n, err := a.warnings.Cleanup(ctx)
				if err != nil {
					return err
				}
				a.logger.Info().Int64("deleted", n).Msg("old warnings cleaned up")
				return nil
			},
		},
	}
}

func newLocker(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (scheduler.Locker, func()) {
	if cfg.RedisURL == "" {
		logger.Info().Msg("REDIS_URL not set, using in-process job locks")
		return scheduler.NewLocalLocker(), func() {}
	}
	client, err := scheduler.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, using in-process job locks")
		return scheduler.NewLocalLocker(), func() {}
	}
	return scheduler.NewRedisLocker(client), func() { client.Close() }
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBSchema)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := newApp(cfg, pool, logger, reg)

	locker, closeLocker := newLocker(ctx, cfg, logger)
	defer closeLocker()

	sched := scheduler.New(locker, logger.With().Str("component", "scheduler").Logger())
	for _, job := range a.jobs(cfg) {
		if err := sched.Add(job); err != nil {
			logger.Fatal().Err(err).Msg("failed to schedule job")
		}
	}
	sched.Start()

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.echo.Shutdown(shutdownCtx)
}
