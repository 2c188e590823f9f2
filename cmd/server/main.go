package main

import (
	"strings"

	"sctracker-backend/internal/admin"
	"sctracker-backend/internal/auth"
	"sctracker-backend/internal/catalog"
	"sctracker-backend/internal/config"
	"sctracker-backend/internal/dashboard"
	"sctracker-backend/internal/database"
	"sctracker-backend/internal/history"
	"sctracker-backend/internal/inventory"
	"sctracker-backend/internal/logger"
	"sctracker-backend/internal/market"
	"sctracker-backend/internal/models"
	"sctracker-backend/internal/refining"
	"sctracker-backend/internal/sales"
	"sctracker-backend/internal/scheduler"
	"sctracker-backend/internal/trade"
	"sctracker-backend/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	log := logger.Must(logger.New())
	defer log.Sync()

	database.Init(cfg)

	hub := ws.NewHub(log)
	uex := market.NewUEXClient(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Error("unhandled error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Dashboard websocket. The upgrade check has to run before the handler.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/dashboard", websocket.New(hub.Handler()))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/users", auth.RegisterMemberHandler())

	adminRoutes.Post("/refineries", admin.CreateRefineryHandler())
	adminRoutes.Get("/refineries/:id", admin.GetRefineryHandler())
	adminRoutes.Put("/refineries/:id", admin.UpdateRefineryHandler())
	adminRoutes.Delete("/refineries/:id", admin.DeactivateRefineryHandler())

	adminRoutes.Post("/materials", admin.CreateMaterialHandler())
	adminRoutes.Put("/materials/:id", admin.UpdateMaterialHandler())

	adminRoutes.Post("/market/refresh", market.RefreshPricesHandler(cfg, uex, log))

	// Reference data
	protected.Get("/materials", catalog.ListMaterialsHandler())
	protected.Get("/refineries", catalog.ListRefineriesHandler())
	protected.Get("/locations", catalog.ListLocationsHandler())

	// Refining jobs
	protected.Post("/refining/jobs", refining.CreateJobHandler(log))
	protected.Get("/refining/jobs", refining.ListJobsHandler())
	protected.Get("/refining/jobs/:id", refining.GetJobHandler())
	protected.Post("/refining/jobs/:id/collect", refining.CollectJobHandler(hub, log))
	protected.Delete("/refining/jobs/:id", refining.CancelJobHandler(log))

	// Inventory
	protected.Get("/inventory", inventory.ListInventoryHandler())

	// Sales
	protected.Post("/sales", sales.CreateSaleHandler(hub, log))
	protected.Get("/sales", sales.ListSalesHandler())
	protected.Get("/sales/stats", sales.SalesStatsHandler())
	protected.Get("/sales/export", sales.ExportSalesHandler())

	// Market prices
	protected.Get("/market/prices", market.ListPricesHandler())
	protected.Get("/market/prices/:material_id/history", market.PriceHistoryHandler())
	protected.Get("/market/best-price/:material_id", market.BestPriceHandler())

	// Trade runs
	protected.Post("/trade-runs/simulate", trade.SimulateRunHandler())
	protected.Post("/trade-runs", trade.CreateRunHandler())
	protected.Get("/trade-runs", trade.ListRunsHandler())
	protected.Post("/trade-runs/:id/complete", trade.CompleteRunHandler())

	// Dashboard
	protected.Get("/dashboard", dashboard.StatsHandler())

	// History
	protected.Get("/history", history.ListEventsHandler())

	sched, err := scheduler.New(cfg, database.DB, uex, hub, log)
	if err != nil {
		log.Fatal("scheduler setup failed", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	log.Info("server listening", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
