package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/core/numerator"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/catalogs/material"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/catalogs/product"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/catalogs/warehouse"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/approval"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/inventory/transaction"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/procurement"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/production"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/domain/registers/stock"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/http/v1/handlers"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/http/v1/middleware"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/storage/postgres"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/storage/postgres/register_repo"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/storage/postgres/transaction_repo"
	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (health checks)
	Pool *postgres.Pool

	// TxManager coordinates database transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Numerator for document code generation
	Numerator numerator.Generator
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator)) // 1. Validate JWT
		protected.Use(middleware.UserContext())          // 2. Add UserID to context for domain layer

		registerCatalogRoutes(protected, cfg)
		registerInventoryRoutes(protected, cfg)
	}

	return router
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- WAREHOUSES ---
	{
		repo := catalog_repo.NewWarehouseRepo(cfg.TxManager)
		service := warehouse.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewWarehouseHandler(baseHandler, service)

		group := catalogs.Group("/warehouses")
		RegisterCatalogRoutes(group, handler, "catalog:warehouse")
		group.GET("/by-type/:type", middleware.RequirePermission("catalog:warehouse:read"), handler.ListByType)
	}

	// --- PRODUCTS ---
	{
		repo := catalog_repo.NewProductRepo(cfg.TxManager)
		service := product.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewProductHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/products"), handler, "catalog:product")
	}

	// --- MATERIALS ---
	{
		repo := catalog_repo.NewMaterialRepo(cfg.TxManager)
		service := material.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewMaterialHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/materials"), handler, "catalog:material")
	}
}

// registerInventoryRoutes registers the stock transaction document, the
// stock register read endpoints and the order-facing facades.
func registerInventoryRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	// Shared inventory dependencies
	txRepo := transaction_repo.NewStockTransactionRepo(cfg.TxManager)
	txService := transaction.NewService(txRepo, cfg.TxManager, cfg.Numerator)

	stockRepo := register_repo.NewStockRepo(cfg.TxManager)
	stockService := stock.NewService(stockRepo)

	engine := approval.NewEngine(txRepo, stockService, cfg.TxManager)

	// --- STOCK TRANSACTIONS ---
	{
		handler := handlers.NewStockTransactionHandler(baseHandler, txService, engine)
		RegisterTransactionRoutes(rg.Group("/stock-transactions"), handler, "inventory:transaction")
	}

	// --- STOCK REGISTER ---
	{
		handler := handlers.NewStockHandler(baseHandler, stockService)

		group := rg.Group("/stock")
		group.GET("/balances/:warehouseId", middleware.RequirePermission("inventory:stock:read"), handler.GetWarehouseBalances)
		group.GET("/availability/:kind/:itemId", middleware.RequirePermission("inventory:stock:read"), handler.GetItemAvailability)
		group.GET("/movements", middleware.RequirePermission("inventory:stock:read"), handler.GetMovements)
		group.GET("/movements/by-transaction/:id", middleware.RequirePermission("inventory:stock:read"), handler.GetTransactionMovements)
	}

	// --- PROCUREMENT ---
	{
		service := procurement.NewService(txService)
		handler := handlers.NewProcurementHandler(baseHandler, service)

		group := rg.Group("/procurement")
		group.POST("/receipts", middleware.RequirePermission("inventory:transaction:create"), handler.ReceiveDelivery)
	}

	// --- PRODUCTION ---
	{
		service := production.NewService(txService, engine)
		handler := handlers.NewProductionHandler(baseHandler, service)

		group := rg.Group("/production")
		group.POST("/material-draws", middleware.RequirePermission("inventory:transaction:approve"), handler.DrawMaterials)
	}
}
