package app

import (
	"context"
	"errors"
	"io"
	"net/http"

	"dues-app-go/internal/auth"
	"dues-app-go/internal/config"
	"dues-app-go/internal/db"
	analyticsdomain "dues-app-go/internal/domain/analytics"
	donationsdomain "dues-app-go/internal/domain/donations"
	expensesdomain "dues-app-go/internal/domain/expenses"
	memberdomain "dues-app-go/internal/domain/member"
	paymentdomain "dues-app-go/internal/domain/payment"
	remindersdomain "dues-app-go/internal/domain/reminders"
	userdomain "dues-app-go/internal/domain/user"
	"dues-app-go/internal/notify"
	"dues-app-go/internal/realtime"
	"dues-app-go/internal/repository/inmemory"
	analyticsrepo "dues-app-go/internal/repository/postgres/analytics"
	donationsrepo "dues-app-go/internal/repository/postgres/donations"
	expensesrepo "dues-app-go/internal/repository/postgres/expenses"
	memberrepo "dues-app-go/internal/repository/postgres/member"
	paymentrepo "dues-app-go/internal/repository/postgres/payment"
	remindersrepo "dues-app-go/internal/repository/postgres/reminders"
	userrepo "dues-app-go/internal/repository/postgres/user"
	"dues-app-go/internal/storage"
	"dues-app-go/internal/transport/httpserver"
	"dues-app-go/internal/transport/httpserver/handler"
	authhandler "dues-app-go/internal/transport/httpserver/handler/auth"
	commonhandler "dues-app-go/internal/transport/httpserver/handler/common"
	dashboardhandler "dues-app-go/internal/transport/httpserver/handler/dashboard"
	donationshandler "dues-app-go/internal/transport/httpserver/handler/donations"
	expenseshandler "dues-app-go/internal/transport/httpserver/handler/expenses"
	membershandler "dues-app-go/internal/transport/httpserver/handler/members"
	paymentshandler "dues-app-go/internal/transport/httpserver/handler/payments"
	remindershandler "dues-app-go/internal/transport/httpserver/handler/reminders"
	uploadhandler "dues-app-go/internal/transport/httpserver/handler/upload"
	wshandler "dues-app-go/internal/transport/httpserver/handler/ws"
	"dues-app-go/internal/transport/httpserver/middleware"
	"dues-app-go/pkg/logger"
	"gorm.io/gorm"
)

var ErrJWTSecretMissing = errors.New("JWT_SECRET is required unless AUTH_SKIP is enabled")

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	hub        *realtime.Hub
	listener   *realtime.Listener
	closers    []io.Closer
}

func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	if cfg.Auth.JWTSecret == "" && !cfg.Auth.SkipAuth {
		return nil, ErrJWTSecretMissing
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	app := &App{cfg: cfg, log: log, db: dbConn}

	log.Info("app: initializing services")
	issuer := auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiresIn)
	users := userdomain.NewService(userrepo.NewPostgres(dbConn), auth.BcryptHasher{}, issuer)
	members := memberdomain.NewService(memberrepo.NewPostgres(dbConn), cfg.Dues.MonthlyAmount)
	payments := paymentdomain.NewService(paymentrepo.NewPostgres(dbConn), cfg.Dues.MonthlyAmount)
	donations := donationsdomain.NewService(donationsrepo.NewPostgres(dbConn))
	expenses := expensesdomain.NewService(expensesrepo.NewPostgres(dbConn), inmemory.NewCategoriesCache())
	reminders := remindersdomain.NewService(remindersrepo.NewPostgres(dbConn), members, notify.New(cfg.Mail, log), cfg.Dues.Currency)
	analytics := analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn), inmemory.NewDashboardCache(), cfg.Dues.MonthlyAmount, cfg.Dashboard.CacheTTL)

	members.OnChange(analytics.Invalidate)
	payments.OnChange(analytics.Invalidate)
	donations.OnChange(analytics.Invalidate)
	expenses.OnChange(analytics.Invalidate)

	backend, err := storage.NewBackend(ctx, cfg.Storage, cfg.Supabase)
	if err != nil {
		log.Warn("app: object storage unavailable", "provider", cfg.Storage.Provider, "err", err)
		backend = storage.Unavailable()
	}
	if closer, ok := backend.(io.Closer); ok {
		app.closers = append(app.closers, closer)
	}
	files := storage.NewService(backend, cfg.Storage.MaxUploadBytes)

	strategies := []auth.Strategy{auth.NewLocalStrategy(issuer)}
	if supabase := auth.NewSupabaseStrategy(cfg.Supabase); supabase.Configured() {
		strategies = append(strategies, supabase)
	}
	authenticator := middleware.NewAuthenticator(cfg.Auth, auth.NewResolver(strategies...), users, log)

	app.hub = realtime.NewHub(memberAuthorizer{members: members}, cfg.AllowedOrigins, log)
	if cfg.Realtime.Enabled {
		app.listener = realtime.NewListener(cfg.DB.GetDSN(), cfg.Realtime.Channel, app.hub, log)
	}

	respond := commonhandler.NewResponder(log, cfg.IsProduction())
	handlers := &handler.Handlers{
		Common:    commonhandler.New(cfg.Env),
		Auth:      authhandler.New(users, respond),
		Members:   membershandler.New(members, payments, respond),
		Payments:  paymentshandler.New(payments, respond),
		Donations: donationshandler.New(donations, respond),
		Expenses:  expenseshandler.New(expenses, respond),
		Reminders: remindershandler.New(reminders, respond),
		Dashboard: dashboardhandler.New(analytics, respond),
		Upload:    uploadhandler.New(files, expenses, respond),
		WS:        wshandler.New(app.hub, respond),
	}

	log.Info("app: initializing router")
	limiter := inmemory.NewRateLimiter(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)
	router := httpserver.NewRouter(cfg, handlers, authenticator, limiter, log)
	app.httpServer = httpserver.New(cfg, router, log)

	return app, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

// StartRealtime runs the change feed listener until ctx is done.
func (a *App) StartRealtime(ctx context.Context) {
	if a.listener == nil {
		a.log.Info("realtime: change feed disabled")
		return
	}
	go func() {
		if err := a.listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error("realtime: listener stopped", "err", err)
		}
	}()
}

func (a *App) Close() error {
	if a.hub != nil {
		a.hub.Close()
	}
	var errs []error
	for _, closer := range a.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := db.Close(a.db); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// memberAuthorizer lets a user follow the room of the member row linked to
// their login.
type memberAuthorizer struct {
	members *memberdomain.Service
}

func (a memberAuthorizer) CanFollowMember(ctx context.Context, userID, memberID string) (bool, error) {
	return a.members.IsLinkedUser(ctx, memberID, userID)
}

func (a *App) DB() *gorm.DB {
	return a.db
}
