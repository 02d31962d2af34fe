// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/quantrinhansu123/xuongmaythienphuc-sub003/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
}

// TransactionRouteHandler defines the interface for the stock transaction
// document: CRUD plus lifecycle actions.
type TransactionRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	GetByCode(c *gin.Context)
	Update(c *gin.Context)
	Approve(c *gin.Context)
	Complete(c *gin.Context)
	Cancel(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// This eliminates the need to manually wire up routes for each catalog.
//
// Usage:
//
//	repo := catalog_repo.NewProductRepo(txManager)
//	service := product.NewService(repo, txManager, cfg.Numerator)
//	handler := handlers.NewProductHandler(baseHandler, service)
//	RegisterCatalogRoutes(catalogs.Group("/products"), handler, "catalog:product")
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(permission+":update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(permission+":delete"), handler.Delete)
	group.POST("/:id/deletion-mark", middleware.RequirePermission(permission+":delete"), handler.SetDeletionMark)
}

// RegisterTransactionRoutes registers CRUD + lifecycle routes for the
// stock transaction document. Approval carries its own permission because
// it moves stock.
func RegisterTransactionRoutes(group *gin.RouterGroup, handler TransactionRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.GET("/by-code/:code", middleware.RequirePermission(permission+":read"), handler.GetByCode)
	group.PUT("/:id", middleware.RequirePermission(permission+":update"), handler.Update)
	group.POST("/:id/approve", middleware.RequirePermission(permission+":approve"), handler.Approve)
	group.POST("/:id/complete", middleware.RequirePermission(permission+":approve"), handler.Complete)
	group.POST("/:id/cancel", middleware.RequirePermission(permission+":update"), handler.Cancel)
}
