package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/catalog"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/infrastructure/metrics"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	CatalogUC       *catalog.CatalogUseCase
	LedgerUC        *inventory.LedgerUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	HistoryUC       *inventory.HistoryUseCase
	Metrics         *metrics.Metrics // opcional
	Log             *logger.Logger
	CookieName      string
	// HistoryRequireAuth protege /api/history con la sesión.
	HistoryRequireAuth bool
	// IsDevelopment expone el texto de los errores internos y emite la cookie sin Secure.
	IsDevelopment bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	errs := NewErrorWriter(log, deps.IsDevelopment)

	app.Use(RequestLogger(log.Named("http")))
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	requireSession := AuthMiddleware(deps.AuthUC, deps.CookieName, log)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.CookieName, !deps.IsDevelopment, errs)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/logout", requireSession, authHandler.Logout)
	api.Get("/me", requireSession, authHandler.Me)

	// Catálogo (protegido)
	productHandler := NewProductHandler(deps.CatalogUC, errs)
	products := api.Group("/products", requireSession)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	categories := api.Group("/categories", requireSession)
	categories.Get("/", productHandler.ListCategories)
	categories.Post("/", productHandler.CreateCategory)

	// Movimientos de stock (protegido)
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.ReplenishmentUC, errs)
	inv := api.Group("/inventory", requireSession)
	inv.Get("/stock", inventoryHandler.ListStock)
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Get("/replenishment", inventoryHandler.Replenishment)

	// Histórico
	historyHandler := NewHistoryHandler(deps.HistoryUC, errs)
	var historyGuard []fiber.Handler
	if deps.HistoryRequireAuth {
		historyGuard = append(historyGuard, requireSession)
	}
	history := api.Group("/history", historyGuard...)
	history.Get("/", historyHandler.List)
	history.Get("/report.pdf", historyHandler.Report)
}
