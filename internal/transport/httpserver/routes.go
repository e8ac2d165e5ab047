package httpserver

import (
	"net/http"

	"dues-app-go/internal/config"
	"dues-app-go/internal/metrics"
	"dues-app-go/internal/transport/httpserver/handler"
	mw "dues-app-go/internal/transport/httpserver/middleware"
	"dues-app-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *mw.Authenticator, limiter mw.Limiter, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(mw.Metrics)
	r.Use(mw.NewCORS(cfg.AllowedOrigins))

	r.NotFound(handlers.Common.NotFound)
	r.MethodNotAllowed(handlers.Common.MethodNotAllowed)

	r.Get("/health", handlers.Common.Health)
	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	// Websocket connections outlive the request timeout.
	r.With(auth.Middleware).Get("/ws", handlers.WS.Connect)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
		if limiter != nil {
			r.Use(mw.RateLimit(limiter))
		}

		r.Get("/health", handlers.Common.Health)
		r.Post("/auth/register", handlers.Auth.Register)
		r.Post("/auth/login", handlers.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)
			finance := mw.RequireFinanceRole()

			r.Post("/auth/logout", handlers.Auth.Logout)
			r.Get("/auth/me", handlers.Auth.Me)
			r.Put("/auth/profile", handlers.Auth.UpdateProfile)
			r.Post("/auth/change-password", handlers.Auth.ChangePassword)
			r.Post("/auth/refresh", handlers.Auth.Refresh)

			r.Get("/members", handlers.Members.ListMembers)
			r.Get("/members/stats/overview", handlers.Members.Stats)
			r.Get("/members/{id}", handlers.Members.GetMember)
			r.Get("/members/{id}/payments", handlers.Members.ListMemberPayments)
			r.With(finance).Post("/members", handlers.Members.CreateMember)
			r.With(finance).Put("/members/{id}", handlers.Members.UpdateMember)
			r.With(finance).Delete("/members/{id}", handlers.Members.DeleteMember)
			r.With(finance).Post("/members/{id}/owing-months", handlers.Members.AddOwingMonths)

			r.Get("/payments", handlers.Payments.ListPayments)
			r.Get("/payments/{id}", handlers.Payments.GetPayment)
			r.With(finance).Post("/payments", handlers.Payments.CreatePayment)

			r.Get("/donations", handlers.Donations.ListDonations)
			r.Get("/donations/{id}", handlers.Donations.GetDonation)
			r.With(finance).Post("/donations", handlers.Donations.CreateDonation)

			r.Get("/expenses", handlers.Expenses.ListExpenses)
			r.Get("/expenses/categories", handlers.Expenses.ListCategories)
			r.Get("/expenses/{id}", handlers.Expenses.GetExpense)
			r.With(finance).Post("/expenses", handlers.Expenses.CreateExpense)

			r.Get("/reminders", handlers.Reminders.ListReminders)
			r.With(finance).Post("/reminders", handlers.Reminders.CreateReminder)
			r.With(finance).Post("/reminders/owing", handlers.Reminders.CreateOwingReminders)
			r.With(finance).Post("/reminders/{id}/send", handlers.Reminders.SendReminder)

			r.Get("/dashboard/stats", handlers.Dashboard.Stats)
			r.Get("/dashboard/charts/monthly-collections", handlers.Dashboard.MonthlyCollections)
			r.Get("/dashboard/charts/payment-methods", handlers.Dashboard.PaymentMethods)
			r.Get("/reports/financial", handlers.Dashboard.FinancialReport)

			r.Post("/upload/{bucket}", handlers.Upload.Upload)
			r.Get("/upload/{bucket}", handlers.Upload.List)
			r.Get("/upload/{bucket}/signed-url/*", handlers.Upload.SignedURL)
			r.With(finance).Delete("/upload/{bucket}/*", handlers.Upload.Delete)
		})
	})

	return r
}
