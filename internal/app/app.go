package app

import (
	"buyback-backend/internal/config"
	"buyback-backend/internal/database"
	"buyback-backend/internal/guard"
	"buyback-backend/internal/health"
	"buyback-backend/internal/middleware"
	"buyback-backend/internal/offer"
	"buyback-backend/internal/token"
	"buyback-backend/internal/treasury"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Returns the DB and Redis clients so main can verify
// connectivity at startup.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	healthHandlers := &health.Handlers{Rdb: rdb}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			healthHandlers.DB = sqlDB
		}
	}
	app.Get("/health/json", healthHandlers.JSON)

	if db != nil && rdb != nil {
		ledger := &token.Ledger{DB: db}
		offerService := &offer.Service{
			DB:           db,
			Tokens:       ledger,
			Cash:         treasury.CashTransferer{},
			Guard:        guard.New(rdb),
			OwnerAddress: cfg.OwnerAddress,
		}
		offerHandlers := &offer.Handlers{Service: offerService}
		requireOwner := middleware.RequireOwner(cfg.OwnerKeyHash)

		offerGroup := app.Group("/api/v1/offers")
		offerGroup.Post("/create-offer", requireOwner, offerHandlers.CreateOffer)
		offerGroup.Post("/:offer_id/pledge", offerHandlers.Pledge)
		offerGroup.Post("/:offer_id/execute-settlement", offerHandlers.ExecuteSettlement)
		offerGroup.Post("/:offer_id/pause", requireOwner, offerHandlers.Pause)
		offerGroup.Post("/:offer_id/unpause", requireOwner, offerHandlers.Unpause)
		offerGroup.Post("/:offer_id/fund-escrow", requireOwner, offerHandlers.FundEscrow)
		offerGroup.Post("/:offer_id/withdraw-all-funds", requireOwner, offerHandlers.WithdrawAllFunds)
		offerGroup.Get("/view-offer/:offer_id", offerHandlers.ViewOffer)
		offerGroup.Get("/:offer_id/view-commitments", offerHandlers.ViewCommitments)
		offerGroup.Get("/:offer_id/view-events", offerHandlers.ViewEvents)

		tokenHandlers := &token.Handlers{Ledger: ledger}
		tokenGroup := app.Group("/api/v1/token")
		tokenGroup.Post("/approve", tokenHandlers.Approve)
		tokenGroup.Post("/mint", requireOwner, tokenHandlers.Mint)
		tokenGroup.Get("/balance/:address/:symbol", tokenHandlers.Balance)
	}

	return app, db, rdb, nil
}
