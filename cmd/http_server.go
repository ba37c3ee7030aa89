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

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/attendance"
	attendancepg "github.com/frahmantamala/hr-management/internal/attendance/postgres"
	"github.com/frahmantamala/hr-management/internal/auth"
	"github.com/frahmantamala/hr-management/internal/department"
	departmentpg "github.com/frahmantamala/hr-management/internal/department/postgres"
	"github.com/frahmantamala/hr-management/internal/employee"
	employeepg "github.com/frahmantamala/hr-management/internal/employee/postgres"
	"github.com/frahmantamala/hr-management/internal/invitation"
	invitationpg "github.com/frahmantamala/hr-management/internal/invitation/postgres"
	"github.com/frahmantamala/hr-management/internal/leave"
	leavepg "github.com/frahmantamala/hr-management/internal/leave/postgres"
	"github.com/frahmantamala/hr-management/internal/mailer"
	"github.com/frahmantamala/hr-management/internal/payslip"
	payslippg "github.com/frahmantamala/hr-management/internal/payslip/postgres"
	"github.com/frahmantamala/hr-management/internal/transport/rest"
	"github.com/frahmantamala/hr-management/internal/user"
	userpg "github.com/frahmantamala/hr-management/internal/user/postgres"
	"github.com/frahmantamala/hr-management/pkg/logger"
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
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

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

	logger.Init(config.Environment, config.Observability.Logging.Level)
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// gorm shares the pgx connection pool opened through sqlx
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	codec, err := auth.NewSessionCodec(config.Security.SessionSecret, config.Security.SessionDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to build session codec: %w", err)
	}
	hasher := auth.NewPasswordHasher(config.Security.BCryptCost)

	var mail mailer.Mailer
	if config.Mail.UseLogSender {
		mail = mailer.NewLogMailer(appLogger)
	} else {
		mail = mailer.NewSMTPMailer(config.Mail)
	}

	window, err := attendance.NewWindow(
		config.Attendance.CheckInOpens,
		config.Attendance.CheckInCloses,
		config.Attendance.RejectOutside,
		config.Attendance.TimezoneOffset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance window: %w", err)
	}

	payslipStore, err := payslip.NewFileStore(config.Storage.PayslipDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare payslip storage: %w", err)
	}

	userRepo := userpg.NewUserRepository(gormDB)
	invitationRepo := invitationpg.NewInvitationRepository(gormDB)
	employeeRepo := employeepg.NewEmployeeRepository(gormDB)
	departmentRepo := departmentpg.NewDepartmentRepository(gormDB)
	attendanceRepo := attendancepg.NewAttendanceRepository(gormDB)
	reportRepo := attendancepg.NewReportRepository(db)
	leaveRepo := leavepg.NewLeaveRepository(gormDB)
	payslipRepo := payslippg.NewPayslipRepository(gormDB)

	authService := auth.NewService(userRepo, codec, hasher, appLogger)
	userService := user.NewService(userRepo, hasher, mail, appLogger,
		config.Server.BaseURL, config.Security.VerificationExpiry, config.Security.PasswordResetExpiry)
	invitationService := invitation.NewService(invitationRepo, userRepo, hasher, mail, appLogger,
		config.Server.BaseURL, config.Security.InvitationExpiry)
	employeeService := employee.NewService(employeeRepo, appLogger)
	departmentService := department.NewService(departmentRepo, appLogger)
	attendanceService := attendance.NewService(attendanceRepo, reportRepo, window, appLogger)
	leaveService := leave.NewService(leaveRepo, appLogger)
	payslipService := payslip.NewService(payslipRepo, payslipStore, appLogger)

	secureCookie := !config.Security.InsecureCookie
	authHandler := auth.NewHandler(authService, secureCookie)

	handlers := rest.Handlers{
		Auth:       authHandler,
		User:       user.NewHandler(userService, authHandler),
		Invitation: invitation.NewHandler(invitationService, authHandler),
		Employee:   employee.NewHandler(employeeService),
		Department: department.NewHandler(departmentService),
		Attendance: attendance.NewHandler(attendanceService),
		Leave:      leave.NewHandler(leaveService),
		Payslip:    payslip.NewHandler(payslipService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   appLogger,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
	}, nil
}

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

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
