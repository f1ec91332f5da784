package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/hotelgrid/procure"
	"github.com/hotelgrid/procure/catalog"
	"github.com/hotelgrid/procure/requisition"
)

type App struct {
	config *gconfig.Container[*AppConfig]
	bunDB  *bun.DB
	auther *procure.Auther
	gate   *procure.Gate
	repo   procure.RepositoryManager
	srv    router.Server[*fiber.App]
	logger *glog.BaseLogger
}

func (a *App) Config() *AppConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Debug),
		glog.WithName("procured"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&AppConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	WithHTTPServer(app)
	WithAuth(app)
	RegisterRoutes(app)

	app.srv.Serve(app.Config().GetServer().GetAddress())

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.Config().GetPersistence().GetDSN())
	if err != nil {
		return err
	}

	pingCtx, cancel := context.WithTimeout(ctx, app.Config().GetPersistence().GetPingTimeout())
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return err
	}

	bunDB := bun.NewDB(db, sqlitedialect.New())

	models := []any{
		(*procure.User)(nil),
		(*catalog.Supplier)(nil),
		(*catalog.Unit)(nil),
		(*catalog.Product)(nil),
		(*catalog.StockAllocation)(nil),
		(*requisition.Requisition)(nil),
		(*requisition.Item)(nil),
	}

	for _, model := range models {
		if _, err := bunDB.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	app.bunDB = bunDB
	app.repo = procure.NewRepositoryManager(bunDB)

	return app.repo.Validate()
}

func WithHTTPServer(app *App) {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
			AppName:       "procured",
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	app.srv = srv
}

// userTrackerAdapter narrows the users repository to the provider's store
// contract, pinning the variadic criteria to their defaults.
type userTrackerAdapter struct {
	users procure.Users
}

var _ procure.UserTracker = userTrackerAdapter{}

func (a userTrackerAdapter) GetByIdentifier(ctx context.Context, identifier string) (*procure.User, error) {
	return a.users.GetByIdentifier(ctx, identifier)
}

func (a userTrackerAdapter) TrackAttemptedLogin(ctx context.Context, user *procure.User) error {
	return a.users.TrackAttemptedLogin(ctx, user)
}

func (a userTrackerAdapter) TrackSuccessfulLogin(ctx context.Context, user *procure.User) error {
	return a.users.TrackSuccessfulLogin(ctx, user)
}

func WithAuth(app *App) {
	provider := procure.NewUserProvider(userTrackerAdapter{users: app.repo.Users()})
	provider.WithLogger(app.GetLogger("auth:prv"))

	auther := procure.NewAuthenticator(provider, app.Config().GetAuth())
	auther.WithLogger(app.GetLogger("auth:core"))

	gate := procure.NewGate(app.repo.Users())
	gate.WithLogger(app.GetLogger("auth:gate"))

	app.auther = auther
	app.gate = gate
}

func RegisterRoutes(app *App) {
	cfg := app.Config().GetAuth()
	ts := app.auther.TokenService()
	errHandler := procure.MakeAuthErrorHandler(app.GetLogger("auth:http"), false)

	authenticated := procure.ProtectedRoute(cfg, ts, app.gate, errHandler)
	manager := procure.ProtectedRoute(cfg, ts, app.gate, errHandler,
		procure.RoleManager, procure.RoleAdmin, procure.RoleSuperuser)
	admin := procure.ProtectedRoute(cfg, ts, app.gate, errHandler,
		procure.RoleAdmin, procure.RoleSuperuser)

	root := app.srv.Router().Group("/")

	authController := procure.NewAuthController(
		procure.WithControllerLogger(app.GetLogger("auth:ctrl")),
		procure.WithControllerRepo(app.repo),
		procure.WithControllerAuther(app.auther),
		procure.WithControllerGate(app.gate),
	)
	procure.RegisterAuthRoutes(root, authController, authenticated)
	procure.RegisterUserAdminRoutes(root, authController, admin)

	catalogController := catalog.NewController(
		catalog.NewRepositoryManager(app.bunDB),
		catalog.WithLogger(app.GetLogger("catalog")),
	)
	catalog.RegisterRoutes(root, catalogController, catalog.RouteMiddleware{
		Authenticated: authenticated,
		Manager:       manager,
		Admin:         admin,
	})

	requisitionController := requisition.NewController(
		requisition.NewRepositoryManager(app.bunDB),
		requisition.WithLogger(app.GetLogger("requisitions")),
	)
	requisition.RegisterRoutes(root, requisitionController, requisition.RouteMiddleware{
		Authenticated: authenticated,
		Manager:       manager,
	})
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
