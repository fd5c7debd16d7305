package router

import (
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers mounted by StorefrontRoutes.
type Handlers struct {
	Cart      *handler.CartHandler
	Discount  *handler.DiscountHandler
	Checkout  *handler.CheckoutHandler
	Inventory *handler.InventoryHandler
	Order     *handler.OrderHandler
	Webhook   *handler.WebhookHandler
}

// StorefrontRoutes builds the route table for the storefront API.
//
// Authentication is layered in three tiers. The global JWT middleware
// (installed by the caller on the Router) guards cart and order routes
// and skips the public prefixes. Checkout sits in the skip list and
// carries its own optional JWT middleware so a logged-in shopper is
// still attributed while guests pass through. Inventory routes add
// an admin role gate on top of the global guard.
func StorefrontRoutes(h Handlers, jwtService *auth.JWTService) []RouteRegistrar {
	cart := NewDomainGroup("cart", "/cart").
		POST("/merge", h.Cart.MergeCart).
		GET("", h.Cart.GetCart).
		DELETE("", h.Cart.ClearCart)

	discounts := NewDomainGroup("discounts", "/discounts").
		POST("/apply", h.Discount.ApplyDiscount)

	checkout := NewDomainGroup("checkout", "/checkout").
		Use(middleware.OptionalJWTAuthMiddleware(jwtService)).
		POST("/create-session", h.Checkout.CreateSession)

	inventory := NewDomainGroup("inventory", "/inventory").
		Use(middleware.RequireAdmin()).
		POST("/sync", h.Inventory.SyncStock).
		GET("/variants/:id/stock", h.Inventory.GetStock).
		GET("/variants/:id/transactions", h.Inventory.ListTransactions)

	orders := NewDomainGroup("orders", "/orders").
		GET("", h.Order.ListOrders).
		GET("/:id", h.Order.GetOrder)

	payments := NewDomainGroup("payments", "/payments").
		POST("/webhook", h.Webhook.HandlePaymentWebhook)

	return []RouteRegistrar{cart, discounts, checkout, inventory, orders, payments}
}
