package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/assets"
	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/catalog"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/interfaces/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CategoryUC *catalog.CategoryUseCase
	ProductUC  *catalog.ProductUseCase
	Cascade    *catalog.CascadeCoordinator
	Reorder    *catalog.ReorderUseCase
	Engine     *stock.Engine
	Report     stock.ReportGenerator
	AssetsUC   *assets.UseCase
	Hub        *ws.Hub // nil deshabilita /ws
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleUser)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Cuenta del usuario autenticado
	users := api.Group("/users", requireAuth)
	users.Get("/me", authHandler.Me)
	users.Delete("/me", authHandler.DeleteMe)
	users.Put("/me/password", authHandler.ChangePassword)
	users.Post("/verify-admin", authHandler.VerifyAdmin)

	// Categories: lectura pública, escritura autenticada, borrado en cascada sólo admin
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.Cascade, deps.Reorder)
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Put("/reorder", requireAuth, anyRole, categoryHandler.Reorder)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", requireAuth, anyRole, categoryHandler.Create)
	categories.Put("/:id", requireAuth, anyRole, categoryHandler.Update)
	categories.Delete("/:id", requireAuth, adminOnly, categoryHandler.Delete)

	// Products
	productHandler := NewProductHandler(deps.ProductUC, deps.Cascade, deps.Reorder, deps.Engine)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Put("/reorder", requireAuth, anyRole, productHandler.Reorder)
	products.Post("/reset-quantities", requireAuth, adminOnly, productHandler.ResetAll)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", requireAuth, anyRole, productHandler.Create)
	products.Put("/:id", requireAuth, anyRole, productHandler.Update)
	products.Delete("/:id", requireAuth, adminOnly, productHandler.Delete)
	products.Post("/:id/reset-quantity", requireAuth, adminOnly, productHandler.ResetOne)
	products.Post("/:id/reconcile", requireAuth, adminOnly, productHandler.Reconcile)

	// Stock ledger (protegido)
	stockHandler := NewStockHandler(deps.Engine, deps.Report)
	stockGroup := api.Group("/stock", requireAuth, anyRole)
	stockGroup.Get("/", stockHandler.List)
	stockGroup.Get("/report", stockHandler.Report)
	stockGroup.Post("/", stockHandler.Create)
	stockGroup.Put("/:stockId", stockHandler.Amend)
	stockGroup.Delete("/:stockId", stockHandler.Delete)

	// Assets (protegido)
	assetHandler := NewAssetHandler(deps.AssetsUC)
	assetGroup := api.Group("/assets", requireAuth, anyRole)
	assetGroup.Post("/upload", assetHandler.UploadImage)
	assetGroup.Post("/attachments", assetHandler.UploadAttachments)
	assetGroup.Delete("/", assetHandler.Delete)

	// Feed en vivo de stock_update
	if deps.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(deps.Hub.Handler()))
	}
}
