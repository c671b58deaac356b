package router

import (
	"net/http"

	"food-dash/internal/handler"
	"food-dash/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	orderHandler *handler.OrderHandler,
	cartHandler *handler.CartHandler,
	courierHandler *handler.CourierHandler,
	productHandler *handler.ProductHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Catalogue
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)
	mux.HandleFunc("GET /api/restaurants/{id}/products", productHandler.ListByRestaurant)

	// Cart
	mux.HandleFunc("GET /api/cart", cartHandler.Get)
	mux.HandleFunc("POST /api/cart/items", cartHandler.AddItem)
	mux.HandleFunc("POST /api/cart/coupon", cartHandler.AttachCoupon)

	// Orders
	mux.HandleFunc("POST /api/orders", orderHandler.Create)
	mux.HandleFunc("POST /api/orders/checkout", orderHandler.Checkout)
	mux.HandleFunc("GET /api/orders", orderHandler.List)
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.GetByID)

	// Order lifecycle
	mux.HandleFunc("POST /api/orders/{id}/confirm", orderHandler.Confirm)
	mux.HandleFunc("POST /api/orders/{id}/prepare", orderHandler.StartPreparing)
	mux.HandleFunc("POST /api/orders/{id}/dispatch", orderHandler.MarkOutForDelivery)
	mux.HandleFunc("POST /api/orders/{id}/deliver", orderHandler.MarkDelivered)
	mux.HandleFunc("POST /api/orders/{id}/cancel", orderHandler.Cancel)

	// Courier
	mux.HandleFunc("GET /api/courier/orders/available", courierHandler.ListAvailable)
	mux.HandleFunc("GET /api/courier/orders/active", courierHandler.ListActive)
	mux.HandleFunc("GET /api/courier/orders/history", courierHandler.ListHistory)
	mux.HandleFunc("POST /api/courier/orders/{id}/accept", courierHandler.Accept)
	mux.HandleFunc("PUT /api/courier/position", courierHandler.UpdatePosition)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth -> Actor
	var h http.Handler = mux
	h = middleware.Actor(logger)(h)
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
