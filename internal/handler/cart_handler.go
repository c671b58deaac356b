package handler

import (
	"net/http"

	"food-dash/internal/model"
	"food-dash/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// cartResponse is the cart together with its items.
type cartResponse struct {
	Cart  *model.Cart      `json:"cart"`
	Items []model.CartItem `json:"items"`
}

// Get handles GET /api/cart requests, returning the acting client's open
// cart (creating one if none exists).
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	cart, items, err := h.service.GetCart(r.Context(), actor)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse{Cart: cart, Items: items})
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req model.AddCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cart, items, err := h.service.AddItem(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse{Cart: cart, Items: items})
}

// AttachCoupon handles POST /api/cart/coupon requests.
func (h *CartHandler) AttachCoupon(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req model.AttachCouponRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cart, err := h.service.AttachCoupon(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}
