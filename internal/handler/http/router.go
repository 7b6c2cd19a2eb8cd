package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/medas/intern-tracker-go/internal/domain/user"
	"github.com/medas/intern-tracker-go/internal/handler/http/middleware"
	"github.com/medas/intern-tracker-go/internal/pkg/jwt"
)

// NewLogger builds the JSON logger shared by the access log and the services.
func NewLogger(app, version, env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("version", version),
		slog.String("env", env),
	)
}

func NewRouter(
	logger *slog.Logger,
	allowedOrigins []string,
	JWTService jwt.Service,
	authHandler AuthHandler,
	internHandler InternHandler,
	leaveHandler LeaveHandler,
	timesheetHandler TimesheetHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", authHandler.CreateUser)
			})

			r.Route("/interns", func(r chi.Router) {
				r.Get("/", internHandler.List)
				r.Get("/{id}", internHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionInternManage))
					r.Post("/", internHandler.Create)
					r.Put("/{id}", internHandler.Update)
					r.Delete("/{id}", internHandler.Deactivate)
				})
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.Get("/", leaveHandler.ListRequests)
				r.Post("/", leaveHandler.CreateRequest)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", leaveHandler.GetRequest)
					r.Put("/", leaveHandler.UpdateRequest)
					r.Delete("/", leaveHandler.DeleteRequest)
					r.Get("/history", leaveHandler.GetRequestHistory)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveDecide))
						r.Post("/approve", leaveHandler.ApproveRequest)
						r.Post("/reject", leaveHandler.RejectRequest)
						r.Post("/revision", leaveHandler.RequestRevision)
					})
				})
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.Get("/", timesheetHandler.List)
				r.Post("/", timesheetHandler.Create)
				r.Patch("/details/{detailID}", timesheetHandler.UpdateDetail)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", timesheetHandler.Get)
					r.Get("/history", timesheetHandler.History)
					r.Delete("/", timesheetHandler.Delete)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionTimesheetDecide))
						r.Post("/approve", timesheetHandler.Approve)
						r.Post("/reject", timesheetHandler.Reject)
						r.Post("/revision", timesheetHandler.RequestRevision)
					})
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/summary", reportHandler.GetSummary)
				r.Get("/timesheets/export", reportHandler.ExportTimesheets)
				r.Get("/interns/export", reportHandler.ExportInterns)
			})
		})
	})
	return r
}
