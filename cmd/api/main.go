package main

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

	"github.com/medas/intern-tracker-go/internal/config"
	"github.com/medas/intern-tracker-go/internal/domain/approval"
	"github.com/medas/intern-tracker-go/internal/domain/intern"
	"github.com/medas/intern-tracker-go/internal/domain/leave"
	"github.com/medas/intern-tracker-go/internal/domain/timesheet"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	appHTTP "github.com/medas/intern-tracker-go/internal/handler/http"
	"github.com/medas/intern-tracker-go/internal/pkg/cron"
	"github.com/medas/intern-tracker-go/internal/pkg/database"
	"github.com/medas/intern-tracker-go/internal/pkg/jwt"
	"github.com/medas/intern-tracker-go/internal/pkg/workday"
	"github.com/medas/intern-tracker-go/internal/repository/memory"
	"github.com/medas/intern-tracker-go/internal/repository/postgresql"
	serviceAuth "github.com/medas/intern-tracker-go/internal/service/auth"
	internService "github.com/medas/intern-tracker-go/internal/service/intern"
	leaveService "github.com/medas/intern-tracker-go/internal/service/leave"
	reportService "github.com/medas/intern-tracker-go/internal/service/report"
	timesheetService "github.com/medas/intern-tracker-go/internal/service/timesheet"
)

// repositories is the record store selected by STORAGE_DRIVER.
type repositories struct {
	tx         database.Transactor
	users      user.UserRepository
	interns    intern.InternRepository
	leaves     leave.LeaveRequestRepository
	timesheets timesheet.TimesheetRepository
	details    timesheet.TimesheetDetailRepository
	history    approval.HistoryRepository
	close      func()
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		return &repositories{
			tx:         store.Transactor(),
			users:      store.Users(),
			interns:    store.Interns(),
			leaves:     store.LeaveRequests(),
			timesheets: store.Timesheets(),
			details:    store.TimesheetDetails(),
			history:    store.ApprovalHistory(),
			close:      func() {},
		}, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}
		return &repositories{
			tx:         postgresql.NewTransactor(db),
			users:      postgresql.NewUserRepository(db),
			interns:    postgresql.NewInternRepository(db),
			leaves:     postgresql.NewLeaveRequestRepository(db),
			timesheets: postgresql.NewTimesheetRepository(db),
			details:    postgresql.NewTimesheetDetailRepository(db),
			history:    postgresql.NewApprovalHistoryRepository(db),
			close:      db.Close,
		}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(cfg.App.Name, cfg.App.Version, cfg.App.Env, cfg.LogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Error connecting to record store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer repos.close()
	slog.Info("Record store ready", "driver", cfg.Storage.Driver)

	calendar := workday.NewCalendar(cfg.Location())
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	// The timesheet service is the reconciliation target of leave approvals.
	timesheetSvc := timesheetService.NewTimesheetService(repos.tx, repos.timesheets, repos.details, repos.interns, repos.leaves, repos.history, calendar)
	leaveSvc := leaveService.NewLeaveService(repos.tx, repos.leaves, repos.interns, repos.history, timesheetSvc, calendar)
	internSvc := internService.NewInternService(repos.interns)
	authSvc := serviceAuth.NewAuthService(repos.users, repos.interns, JWTService)
	reportSvc := reportService.NewReportService(repos.interns, repos.leaves, repos.timesheets, repos.details)

	if cfg.Bootstrap.AdminEmail != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminFullName); err != nil {
			slog.Error("Failed to seed admin account", "email", cfg.Bootstrap.AdminEmail, "error", err)
			os.Exit(1)
		}
	}

	scheduler := cron.NewScheduler()
	cron.NewTokenJobs(JWTService).RegisterJobs(scheduler)
	scheduler.Start()

	router := appHTTP.NewRouter(
		logger,
		cfg.App.CORSAllowedOrigins,
		JWTService,
		appHTTP.NewAuthHandler(authSvc),
		appHTTP.NewInternHandler(internSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewTimesheetHandler(timesheetSvc),
		appHTTP.NewReportHandler(reportSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	scheduler.Stop()
}
