package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-pos-api/internal/application/auth"
	"github.com/jhoicas/retail-pos-api/internal/application/billing"
	"github.com/jhoicas/retail-pos-api/internal/application/inventory"
	"github.com/jhoicas/retail-pos-api/internal/application/usecase"
	"github.com/jhoicas/retail-pos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	CustomerUC *usecase.CustomerUseCase
	RestockUC  *inventory.RestockUseCase
	Engine     *inventory.AllocationEngine
	BillUC     *billing.BillUseCase
	CheckoutUC *billing.CheckoutUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; crear y editar solo admin)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(entity.RoleAdmin), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:code", productHandler.GetByCode)
	products.Put("/:code", RequireRole(entity.RoleAdmin), productHandler.Update)

	// Inventory (protegido; restock solo admin)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RestockUC, deps.Engine)
	invGroup.Post("/restock", RequireRole(entity.RoleAdmin), inventoryHandler.Restock)
	invGroup.Get("/availability/:channel/:code", inventoryHandler.Availability)
	invGroup.Get("/batches/:code", inventoryHandler.Batches)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Bills (protegido): ciclo de vida en progreso
	bills := protected.Group("/bills")
	billHandler := NewBillHandler(deps.BillUC)
	bills.Post("/", billHandler.Create)
	bills.Get("/:id", billHandler.GetByID)
	bills.Delete("/:id", billHandler.Cancel)
	bills.Post("/:id/items", billHandler.AddItem)
	bills.Delete("/:id/items", billHandler.ClearItems)
	bills.Put("/:id/items/:itemID", billHandler.UpdateItemQuantity)
	bills.Delete("/:id/items/:itemID", billHandler.RemoveItem)
	bills.Post("/:id/discount", billHandler.ApplyDiscount)
	bills.Post("/:id/payment/cash", billHandler.CashPayment)
	bills.Post("/:id/payment/online", billHandler.OnlinePayment)
	bills.Get("/:id/validate", billHandler.Validate)
	bills.Post("/:id/finalize", billHandler.Finalize)
	bills.Get("/:id/receipt", billHandler.Receipt)

	// Checkout (protegido): camino de una sola llamada
	checkoutHandler := NewCheckoutHandler(deps.CheckoutUC)
	protected.Post("/checkout", checkoutHandler.Checkout)
}
