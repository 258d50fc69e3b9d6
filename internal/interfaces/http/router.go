package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/activity"
	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/purchases"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/application/transfers"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PartUC       *catalog.PartUseCase
	LocationUC   *catalog.LocationUseCase
	AllocationUC *catalog.AllocationUseCase
	SaleUC       *sales.SaleUseCase
	PurchaseUC   *purchases.PurchaseUseCase
	TransferUC   *transfers.TransferUseCase
	Activity     *activity.Recorder
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo de repuestos
	parts := api.Group("/parts")
	partHandler := NewPartHandler(deps.PartUC)
	parts.Post("/", partHandler.Create)
	parts.Get("/", partHandler.List)
	parts.Get("/:id", partHandler.GetByID)
	parts.Put("/:id", partHandler.Update)
	parts.Delete("/:id", partHandler.Delete)
	parts.Get("/:id/locations", partHandler.StockByLocation)

	// Ubicaciones
	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC, deps.AllocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Delete("/:id", locationHandler.Delete)
	locations.Get("/:id/stock", locationHandler.Stock)

	// Asignación repuesto-ubicación
	partLocations := api.Group("/part-locations")
	partLocationHandler := NewPartLocationHandler(deps.AllocationUC)
	partLocations.Post("/", partLocationHandler.Allocate)
	partLocations.Put("/threshold", partLocationHandler.SetThreshold)
	partLocations.Delete("/", partLocationHandler.Deallocate)

	// Ventas
	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Delete("/:id", saleHandler.Delete)

	// Compras
	purchasesGroup := api.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchasesGroup.Post("/", purchaseHandler.Create)
	purchasesGroup.Get("/", purchaseHandler.List)
	purchasesGroup.Get("/:id", purchaseHandler.GetByID)
	purchasesGroup.Delete("/:id", purchaseHandler.Delete)

	// Traslados (log inmutable: sin update ni delete real)
	transfersGroup := api.Group("/stock-transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfersGroup.Post("/", transferHandler.Create)
	transfersGroup.Get("/", transferHandler.List)
	transfersGroup.Delete("/:id", transferHandler.Delete)

	// Log de actividad
	activityHandler := NewActivityHandler(deps.Activity)
	api.Get("/activity-logs", activityHandler.List)
}
