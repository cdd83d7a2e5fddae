package main

import (
	"context"
	"net/http"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/api"
	apiMiddleware "github.com/Shreytangani17/Task-Mangement-System/internal/api/middleware"
	"github.com/Shreytangani17/Task-Mangement-System/internal/api/shared"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// healthPingTimeout bounds the database check behind /health.
const healthPingTimeout = 2 * time.Second

// setupRouter creates the router with every route and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(middleware.Recoverer)

	authHandler := api.NewAuthHandler(app.userService, app.verifier, app.jwtService)
	userHandler := api.NewUserHandler(app.userService)
	taskHandler := api.NewTaskHandler(app.taskService)
	notificationHandler := api.NewNotificationHandler(app.stores.notifications, app.config.Notify.ListLimit)

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(app.authMiddleware.Authenticate)

			r.Get("/users/me", userHandler.Me)
			r.Post("/users/me/password", userHandler.ChangePassword)

			r.Get("/tasks/mine", taskHandler.ListMine)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Put("/tasks/{id}/status", taskHandler.UpdateStatus)

			r.Get("/notifications", notificationHandler.List)
			r.Put("/notifications/{id}/read", notificationHandler.MarkRead)

			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.AdminOnly)

				r.Get("/users", userHandler.ListUsers)
				r.Post("/users", userHandler.CreateUser)
				r.Get("/users/employees", userHandler.ListEmployees)
				r.Put("/users/{id}/role", userHandler.ChangeRole)

				r.Get("/tasks", taskHandler.ListAll)
				r.Post("/tasks", taskHandler.CreateTask)
				r.Get("/tasks/stats", taskHandler.Stats)
				r.Get("/tasks/employee-stats", taskHandler.EmployeeStats)
				r.Delete("/tasks/{id}", taskHandler.DeleteTask)
				r.Put("/tasks/{id}/assign", taskHandler.AssignTask)
			})
		})
	})

	r.Get("/health", app.handleHealth)

	return r
}

// handleHealth reports 200 when the process is serving and, if a database
// is attached, the database answers.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := app.db.PingContext(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
