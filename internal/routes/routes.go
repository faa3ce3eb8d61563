package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/realmbank/realmbank/internal/account"
	"github.com/realmbank/realmbank/internal/bank"
	"github.com/realmbank/realmbank/internal/config"
	"github.com/realmbank/realmbank/internal/economy"
	"github.com/realmbank/realmbank/internal/engine"
	"github.com/realmbank/realmbank/internal/middleware"
	"github.com/realmbank/realmbank/internal/notification"
	"github.com/realmbank/realmbank/internal/store"
	"github.com/realmbank/realmbank/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var docStore store.Store
	if d.DB != nil {
		pg, err := store.NewPostgres(context.Background(), d.DB, d.Cfg.WorldID)
		if err != nil {
			return err
		}
		docStore = pg
	} else {
		docStore = store.NewFile(d.Cfg.DataDir, d.Cfg.WorldID)
	}

	var purse wallet.Provider
	if d.Cache != nil {
		purse = wallet.NewRedisProvider(d.Cache)
	} else {
		purse = wallet.NewMemoryProvider()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	economySvc := economy.NewService(docStore)
	bankSvc := bank.NewService(docStore)
	accountSvc := account.NewService(docStore)
	engineSvc := engine.NewService(docStore, notifier)
	bridge := wallet.NewBridge(docStore, engineSvc, purse, d.Logger)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterEconomyRoutes(api, economy.NewHandler(economySvc))
	RegisterBankRoutes(api, bank.NewHandler(bankSvc))
	RegisterAccountRoutes(api, account.NewHandler(accountSvc))
	RegisterEngineRoutes(api, engine.NewHandler(engineSvc))
	RegisterWalletRoutes(api, wallet.NewHandler(bridge))

	return nil
}
