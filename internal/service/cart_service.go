package service

import (
	"context"
	"fmt"
	"time"

	"food-dash/internal/coupon"
	"food-dash/internal/model"
	"food-dash/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	resolver    *coupon.Resolver
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	resolver *coupon.Resolver,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		resolver:    resolver,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves the actor's open cart, creating an empty one when the
// client has none.
func (s *cartService) GetCart(ctx context.Context, actor model.Actor) (*model.Cart, []model.CartItem, error) {
	if actor.Role != model.RoleClient {
		return nil, nil, model.ErrAccessDenied
	}

	cart, items, err := s.cartRepo.GetOpenByClient(ctx, actor.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart != nil {
		return cart, items, nil
	}

	now := time.Now()
	cart = &model.Cart{
		ID:        uuid.New(),
		ClientID:  actor.ID,
		Status:    model.CartOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, nil, fmt.Errorf("failed to create cart: %w", err)
	}

	s.logger.Debug().
		Str("cart_id", cart.ID.String()).
		Str("client_id", actor.ID.String()).
		Msg("cart created")

	return cart, nil, nil
}

// AddItem adds a product to the actor's open cart, snapshotting the current
// product price.
func (s *cartService) AddItem(ctx context.Context, actor model.Actor, req *model.AddCartItemRequest) (*model.Cart, []model.CartItem, error) {
	if actor.Role != model.RoleClient {
		return nil, nil, model.ErrAccessDenied
	}
	if req == nil || req.ProductID == uuid.Nil {
		return nil, nil, model.NewDomainError(model.ErrCodeInvalidArgument, "Product ID is required")
	}
	if req.Quantity <= 0 {
		return nil, nil, model.NewDomainError(model.ErrCodeInvalidArgument, "Quantity must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	if product == nil {
		return nil, nil, model.ErrProductNotFound
	}
	if !product.Available {
		return nil, nil, model.ErrProductUnavailable
	}

	cart, _, err := s.GetCart(ctx, actor)
	if err != nil {
		return nil, nil, err
	}

	item := &model.CartItem{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  req.Quantity,
		UnitPrice: product.Price,
	}
	if err := s.cartRepo.AddItem(ctx, item); err != nil {
		return nil, nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	cart, items, err := s.cartRepo.GetOpenByID(ctx, cart.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reload cart: %w", err)
	}
	if cart == nil {
		return nil, nil, model.ErrCartNotFound
	}

	return cart, items, nil
}

// AttachCoupon validates a coupon code against the cart's current subtotal
// and attaches it. Validation repeats at checkout; the cap is only consumed
// there.
func (s *cartService) AttachCoupon(ctx context.Context, actor model.Actor, req *model.AttachCouponRequest) (*model.Cart, error) {
	if actor.Role != model.RoleClient {
		return nil, model.ErrAccessDenied
	}
	if req == nil || req.Code == "" {
		return nil, model.NewDomainError(model.ErrCodeInvalidArgument, "Coupon code is required")
	}

	cart, items, err := s.cartRepo.GetOpenByClient(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	c, err := s.couponRepo.GetByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}
	if err := s.resolver.Validate(c, subtotal, time.Now()); err != nil {
		return nil, err
	}

	if err := s.cartRepo.AttachCoupon(ctx, cart.ID, c.ID); err != nil {
		return nil, fmt.Errorf("failed to attach coupon: %w", err)
	}

	cart.CouponID = &c.ID

	s.logger.Info().
		Str("cart_id", cart.ID.String()).
		Str("coupon_code", c.Code).
		Msg("coupon attached to cart")

	return cart, nil
}
