package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/hr-management/internal/attendance"
	"github.com/frahmantamala/hr-management/internal/auth"
	"github.com/frahmantamala/hr-management/internal/department"
	"github.com/frahmantamala/hr-management/internal/employee"
	"github.com/frahmantamala/hr-management/internal/invitation"
	"github.com/frahmantamala/hr-management/internal/leave"
	"github.com/frahmantamala/hr-management/internal/payslip"
	"github.com/frahmantamala/hr-management/internal/transport/middleware"
	"github.com/frahmantamala/hr-management/internal/transport/swagger"
	"github.com/frahmantamala/hr-management/internal/user"
)

type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Invitation *invitation.Handler
	Employee   *employee.Handler
	Department *department.Handler
	Attendance *attendance.Handler
	Leave      *leave.Handler
	Payslip    *payslip.Handler
}

// RegisterAllRoutes mounts the full API. The session middleware decodes the
// cookie on every request and the gate middleware redirects before any
// handler runs; role groups add the finer-grained checks on top.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(h.Auth.SessionMiddleware)
	router.Use(h.Auth.GateMiddleware)

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/sign-up", h.User.SignUp)
			sr.Post("/sign-in", h.Auth.SignIn)
			sr.Post("/sign-out", h.Auth.SignOut)
			sr.Post("/verify-email", h.User.VerifyEmail)
			sr.Post("/forgot-password", h.User.ForgotPassword)
			sr.Post("/reset-password", h.User.ResetPassword)
		})

		// Invitation acceptance is reachable without a session.
		r.Get("/invitations/lookup", h.Invitation.Lookup)
		r.Post("/invitations/accept", h.Invitation.Accept)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.RequireSession)

			pr.Get("/users/me", h.User.Me)
			pr.Get("/employees/me", h.Employee.Me)

			pr.Route("/attendance", func(ar chi.Router) {
				ar.Post("/check-in", h.Attendance.CheckIn)
				ar.Post("/check-out", h.Attendance.CheckOut)
				ar.Get("/history", h.Attendance.History)

				ar.Group(func(hr chi.Router) {
					hr.Use(h.Auth.RequireRoles(auth.RoleHR, auth.RoleAdmin, auth.RoleSuperadmin))
					hr.Get("/daily", h.Attendance.DailyOverview)
					hr.Get("/report", h.Attendance.MonthlyReport)
				})
			})

			pr.Route("/leaves", func(lr chi.Router) {
				lr.Post("/", h.Leave.Create)
				lr.Get("/mine", h.Leave.ListOwn)
				lr.Patch("/{id}/cancel", h.Leave.Cancel)

				lr.Group(func(hr chi.Router) {
					hr.Use(h.Auth.RequireRoles(auth.RoleHR, auth.RoleAdmin, auth.RoleSuperadmin))
					hr.Get("/", h.Leave.List)
					hr.Patch("/{id}/approve", h.Leave.Approve)
					hr.Patch("/{id}/reject", h.Leave.Reject)
				})
			})

			pr.Route("/payslips", func(psr chi.Router) {
				psr.Get("/mine", h.Payslip.ListMine)
				psr.Get("/{id}/download", h.Payslip.Download)

				psr.Group(func(hr chi.Router) {
					hr.Use(h.Auth.RequireRoles(auth.RoleHR, auth.RoleAdmin, auth.RoleSuperadmin))
					hr.Post("/", h.Payslip.Upload)
					hr.Get("/user/{userID}", h.Payslip.ListForUser)
					hr.Delete("/{id}", h.Payslip.Delete)
				})
			})

			// HR staff area
			pr.Group(func(hr chi.Router) {
				hr.Use(h.Auth.RequireRoles(auth.RoleHR, auth.RoleAdmin, auth.RoleSuperadmin))

				hr.Route("/employees", func(er chi.Router) {
					er.Post("/", h.Employee.Create)
					er.Get("/", h.Employee.List)
					er.Get("/{id}", h.Employee.Get)
					er.Put("/{id}", h.Employee.Update)
					er.Delete("/{id}", h.Employee.Delete)
				})

				hr.Route("/departments", func(dr chi.Router) {
					dr.Post("/", h.Department.Create)
					dr.Get("/", h.Department.List)
					dr.Get("/{id}", h.Department.Get)
					dr.Put("/{id}", h.Department.Update)
					dr.Delete("/{id}", h.Department.Delete)
				})

				hr.Route("/teams", func(tr chi.Router) {
					tr.Post("/", h.Department.CreateTeam)
					tr.Get("/", h.Department.ListTeams)
					tr.Delete("/{id}", h.Department.DeleteTeam)
				})
			})

			// User administration
			pr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.RequireRoles(auth.RoleAdmin, auth.RoleSuperadmin))

				ar.Get("/users", h.User.List)
				ar.Patch("/users/{id}/role", h.User.AssignRole)

				ar.Route("/invitations", func(ir chi.Router) {
					ir.Post("/", h.Invitation.Create)
					ir.Get("/", h.Invitation.List)
					ir.Patch("/{id}/cancel", h.Invitation.Cancel)
				})
			})
		})
	})
}
