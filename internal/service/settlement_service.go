package service

import (
	"context"
	"fmt"
	"time"

	"food-dash/internal/coupon"
	"food-dash/internal/model"
	"food-dash/internal/money"
	"food-dash/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DeliveryPricing configures the flat delivery fee and the subtotal
// threshold at which it is waived.
type DeliveryPricing struct {
	Fee           decimal.Decimal
	FreeThreshold decimal.Decimal
}

// settlementService implements SettlementService and Settler.
type settlementService struct {
	orderRepo      repository.OrderRepository
	cartRepo       repository.CartRepository
	couponRepo     repository.CouponRepository
	productRepo    repository.ProductRepository
	addressRepo    repository.AddressRepository
	commissionRepo repository.CommissionRepository
	resolver       *coupon.Resolver
	gateway        PaymentGateway
	pricing        DeliveryPricing
	logger         zerolog.Logger
}

// NewSettlementService creates a new settlement service.
func NewSettlementService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	couponRepo repository.CouponRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
	commissionRepo repository.CommissionRepository,
	resolver *coupon.Resolver,
	gateway PaymentGateway,
	pricing DeliveryPricing,
	logger zerolog.Logger,
) interface {
	SettlementService
	Settler
} {
	return &settlementService{
		orderRepo:      orderRepo,
		cartRepo:       cartRepo,
		couponRepo:     couponRepo,
		productRepo:    productRepo,
		addressRepo:    addressRepo,
		commissionRepo: commissionRepo,
		resolver:       resolver,
		gateway:        gateway,
		pricing:        pricing,
		logger:         logger.With().Str("service", "settlement").Logger(),
	}
}

// CreateOrder creates an order from explicit line items.
func (s *settlementService) CreateOrder(ctx context.Context, actor model.Actor, req *model.CreateOrderRequest) (*model.Order, error) {
	if actor.Role != model.RoleClient && !actor.IsAdmin() {
		return nil, model.ErrAccessDenied
	}
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	items, subtotal, err := s.buildItems(ctx, req.RestaurantID, req.Items)
	if err != nil {
		return nil, err
	}

	var appliedCoupon *model.Coupon
	if req.CouponCode != nil && *req.CouponCode != "" {
		appliedCoupon, err = s.couponRepo.GetByCode(ctx, *req.CouponCode)
		if err != nil {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
	}

	return s.createOrder(ctx, createParams{
		clientID:      actor.ID,
		restaurantID:  req.RestaurantID,
		items:         items,
		subtotal:      subtotal,
		coupon:        appliedCoupon,
		paymentMethod: req.PaymentMethod,
		changeFor:     req.ChangeFor,
	})
}

// CreateOrderFromCart converts an open cart into an order.
func (s *settlementService) CreateOrderFromCart(ctx context.Context, actor model.Actor, req *model.CheckoutRequest) (*model.Order, error) {
	if actor.Role != model.RoleClient && !actor.IsAdmin() {
		return nil, model.ErrAccessDenied
	}
	if req == nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidArgument, "Checkout request is required")
	}
	if err := validatePaymentMethod(req.PaymentMethod); err != nil {
		return nil, err
	}

	cart, cartItems, err := s.cartRepo.GetOpenByID(ctx, req.CartID)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}
	if cart.ClientID != actor.ID && !actor.IsAdmin() {
		// Another client's cart reads as nonexistent rather than forbidden.
		s.logger.Warn().
			Str("cart_id", cart.ID.String()).
			Str("actor_id", actor.ID.String()).
			Msg("checkout attempted on another client's cart")
		return nil, model.ErrCartNotFound
	}
	if len(cartItems) == 0 {
		return nil, model.ErrEmptyCart
	}

	productIDs := make([]uuid.UUID, len(cartItems))
	for i, item := range cartItems {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout cart: %w", err)
	}
	if len(products) != len(productIDs) {
		return nil, model.ErrProductNotFound
	}
	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		if !p.Available {
			return nil, model.ErrProductUnavailable
		}
		byID[p.ID] = p
	}

	restaurantID := products[0].RestaurantID
	for _, p := range products {
		if p.RestaurantID != restaurantID {
			return nil, model.NewDomainError(model.ErrCodeInvalidArgument, "Cart contains products from more than one restaurant")
		}
	}

	subtotal := decimal.Zero
	items := make([]model.OrderItem, len(cartItems))
	for i, ci := range cartItems {
		lineSubtotal := ci.UnitPrice.Mul(decimal.NewFromInt(int64(ci.Quantity)))
		items[i] = model.OrderItem{
			ID:        uuid.New(),
			ProductID: ci.ProductID,
			Quantity:  ci.Quantity,
			UnitPrice: ci.UnitPrice,
			Subtotal:  lineSubtotal,
		}
		subtotal = subtotal.Add(lineSubtotal)
	}

	var appliedCoupon *model.Coupon
	if cart.CouponID != nil {
		appliedCoupon, err = s.couponRepo.GetByID(ctx, *cart.CouponID)
		if err != nil {
			return nil, fmt.Errorf("failed to checkout cart: %w", err)
		}
	}

	return s.createOrder(ctx, createParams{
		clientID:      cart.ClientID,
		restaurantID:  restaurantID,
		cartID:        &cart.ID,
		items:         items,
		subtotal:      subtotal,
		coupon:        appliedCoupon,
		paymentMethod: req.PaymentMethod,
		changeFor:     req.ChangeFor,
	})
}

// createParams carries everything createOrder needs regardless of whether
// the order came from a cart or from explicit items.
type createParams struct {
	clientID      uuid.UUID
	restaurantID  uuid.UUID
	cartID        *uuid.UUID
	items         []model.OrderItem
	subtotal      decimal.Decimal
	coupon        *model.Coupon
	paymentMethod model.PaymentMethod
	changeFor     *string
}

// createOrder runs the shared pricing pipeline and persists the order. The
// cart close and the coupon redemption happen in the same transaction as
// the insert, so a lost race on either rolls everything back.
func (s *settlementService) createOrder(ctx context.Context, p createParams) (*model.Order, error) {
	now := time.Now()

	discount := decimal.Zero
	if p.coupon != nil {
		if err := s.resolver.Validate(p.coupon, p.subtotal, now); err != nil {
			s.logger.Warn().
				Str("coupon_code", p.coupon.Code).
				Err(err).
				Msg("coupon rejected")
			return nil, err
		}
		discount = s.resolver.Discount(p.coupon, p.subtotal)
	}

	// The waiver threshold looks at the subtotal before any discount, so
	// a coupon cannot push an order back under it.
	deliveryFee := s.pricing.Fee
	if p.subtotal.GreaterThanOrEqual(s.pricing.FreeThreshold) {
		deliveryFee = decimal.Zero
	}

	total := p.subtotal.Sub(discount).Add(deliveryFee).Round(2)

	changeFor, err := parseChangeFor(p.paymentMethod, p.changeFor, total)
	if err != nil {
		return nil, err
	}

	address, err := s.addressRepo.PrincipalByOwner(ctx, p.clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if address == nil {
		return nil, model.ErrNoPrincipalAddress
	}

	order := &model.Order{
		ID:           uuid.New(),
		ClientID:     p.clientID,
		RestaurantID: p.restaurantID,
		Status:       model.StatusCreated,
		DeliveryAddress: model.DeliveryAddress{
			Street: address.Street,
			City:   address.City,
			Coords: address.Coords,
		},
		Subtotal:      p.subtotal.Round(2),
		Discount:      discount,
		DeliveryFee:   deliveryFee,
		Total:         total,
		PaymentMethod: p.paymentMethod,
		ChangeFor:     changeFor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.coupon != nil {
		order.CouponID = &p.coupon.ID
	}
	for i := range p.items {
		p.items[i].OrderID = order.ID
	}
	order.Items = p.items

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if p.cartID != nil {
		var converted bool
		converted, err = s.cartRepo.MarkConverted(ctx, tx, *p.cartID)
		if err != nil {
			return nil, fmt.Errorf("failed to close cart: %w", err)
		}
		if !converted {
			err = model.ErrCartNotFound
			return nil, err
		}
	}

	if p.coupon != nil {
		var redeemed bool
		redeemed, err = s.couponRepo.Redeem(ctx, tx, p.coupon.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to redeem coupon: %w", err)
		}
		if !redeemed {
			s.logger.Warn().
				Str("coupon_code", p.coupon.Code).
				Msg("coupon cap reached during checkout")
			err = model.ErrCouponExhausted
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("client_id", order.ClientID.String()).
		Str("total", order.Total.String()).
		Int("item_count", len(order.Items)).
		Msg("order created successfully")

	return order, nil
}

// GetOrder retrieves an order visible to the actor: the ordering client,
// the restaurant, the assigned courier, or an admin.
func (s *settlementService) GetOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !canViewOrder(actor, order) {
		return nil, model.ErrAccessDenied
	}

	return order, nil
}

// ListClientOrders retrieves the actor's own orders.
func (s *settlementService) ListClientOrders(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	if actor.Role != model.RoleClient && !actor.IsAdmin() {
		return nil, model.ErrAccessDenied
	}

	orders, err := s.orderRepo.ListByClient(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ApplyFinalValues computes the settlement for a delivered order and writes
// it within the provided transaction. The restaurant is settled on the
// subtotal; the courier on the delivery fee. A category with no active rate
// settles at zero commission.
func (s *settlementService) ApplyFinalValues(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	restaurantPercent, err := s.activePercent(ctx, model.CategoryRestaurant)
	if err != nil {
		return err
	}
	courierPercent, err := s.activePercent(ctx, model.CategoryCourier)
	if err != nil {
		return err
	}

	feeRestaurant := money.PlatformFee(order.Subtotal, restaurantPercent)
	feeCourier := money.PlatformFee(order.DeliveryFee, courierPercent)

	values := model.SettlementValues{
		PlatformFeeRestaurant: feeRestaurant,
		PlatformFeeCourier:    feeCourier,
		NetValueRestaurant:    money.NetValue(order.Subtotal, feeRestaurant),
		NetValueCourier:       money.NetValue(order.DeliveryFee, feeCourier),
	}

	if err := s.orderRepo.ApplyFinalValues(ctx, tx, order.ID, values); err != nil {
		return err
	}

	order.PlatformFeeRestaurant = decimal.NewNullDecimal(values.PlatformFeeRestaurant)
	order.PlatformFeeCourier = decimal.NewNullDecimal(values.PlatformFeeCourier)
	order.NetValueRestaurant = decimal.NewNullDecimal(values.NetValueRestaurant)
	order.NetValueCourier = decimal.NewNullDecimal(values.NetValueCourier)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("net_restaurant", values.NetValueRestaurant.String()).
		Str("net_courier", values.NetValueCourier.String()).
		Msg("order settled")

	return nil
}

// RefundOnCancel refunds a canceled order's payment if the gateway holds a
// refundable one. Gateway trouble never blocks the cancellation itself.
func (s *settlementService) RefundOnCancel(ctx context.Context, order *model.Order, reason string) {
	if order.PaymentMethod == model.PaymentCash {
		return
	}

	payment, err := s.gateway.PaymentForOrder(ctx, order.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("payment lookup failed during cancellation")
		return
	}
	if payment == nil || !payment.Status.Refundable() {
		return
	}

	if _, err := s.gateway.Refund(ctx, order.ID, payment.Amount, reason); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("refund failed, needs manual follow-up")
	}
}

func (s *settlementService) activePercent(ctx context.Context, category model.RateCategory) (decimal.Decimal, error) {
	rate, err := s.commissionRepo.ActiveRate(ctx, category)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load commission rate: %w", err)
	}
	if rate == nil {
		s.logger.Warn().Str("category", string(category)).Msg("no active commission rate, settling at zero")
		return decimal.Zero, nil
	}
	return rate.Percent, nil
}

// buildItems loads and checks products, snapshots their prices, and returns
// the order line items with the raw subtotal.
func (s *settlementService) buildItems(ctx context.Context, restaurantID uuid.UUID, reqItems []model.OrderItemRequest) ([]model.OrderItem, decimal.Decimal, error) {
	productIDs := make([]uuid.UUID, len(reqItems))
	for i, item := range reqItems {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to load products: %w", err)
	}

	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	subtotal := decimal.Zero
	items := make([]model.OrderItem, len(reqItems))
	for i, reqItem := range reqItems {
		product, ok := byID[reqItem.ProductID]
		if !ok || product.RestaurantID != restaurantID {
			return nil, decimal.Zero, model.ErrProductNotFound
		}
		if !product.Available {
			s.logger.Warn().
				Str("product_id", product.ID.String()).
				Msg("order attempted with unavailable product")
			return nil, decimal.Zero, model.ErrProductUnavailable
		}

		lineSubtotal := product.Price.Mul(decimal.NewFromInt(int64(reqItem.Quantity)))
		items[i] = model.OrderItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			Quantity:  reqItem.Quantity,
			UnitPrice: product.Price,
			Subtotal:  lineSubtotal,
		}
		subtotal = subtotal.Add(lineSubtotal)
	}

	return items, subtotal, nil
}

func (s *settlementService) validateCreateRequest(req *model.CreateOrderRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeInvalidArgument, "Order request is required")
	}
	if req.RestaurantID == uuid.Nil {
		return model.NewDomainError(model.ErrCodeInvalidArgument, "Restaurant ID is required")
	}
	if len(req.Items) == 0 {
		return model.NewDomainError(model.ErrCodeInvalidArgument, "Order must contain at least one item")
	}
	for i, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return model.NewDomainError(model.ErrCodeInvalidArgument, fmt.Sprintf("Item %d: product ID is required", i))
		}
		if item.Quantity <= 0 {
			return model.NewDomainError(model.ErrCodeInvalidArgument, fmt.Sprintf("Item %d: quantity must be positive", i))
		}
	}
	return validatePaymentMethod(req.PaymentMethod)
}

func validatePaymentMethod(method model.PaymentMethod) error {
	switch method {
	case model.PaymentCard, model.PaymentPix, model.PaymentCash:
		return nil
	}
	return model.NewDomainError(model.ErrCodeInvalidArgument, "Unknown payment method")
}

// parseChangeFor validates the cash-change field: only meaningful for cash
// orders, and never below the order total.
func parseChangeFor(method model.PaymentMethod, raw *string, total decimal.Decimal) (decimal.NullDecimal, error) {
	if raw == nil || *raw == "" {
		return decimal.NullDecimal{}, nil
	}
	if method != model.PaymentCash {
		return decimal.NullDecimal{}, model.NewDomainError(model.ErrCodeInvalidArgument, "Change is only applicable to cash orders")
	}

	value, err := decimal.NewFromString(*raw)
	if err != nil {
		return decimal.NullDecimal{}, model.NewDomainError(model.ErrCodeInvalidArgument, "Change must be a decimal amount")
	}
	if value.LessThan(total) {
		return decimal.NullDecimal{}, model.NewDomainError(model.ErrCodeInvalidArgument, "Change cannot be below the order total")
	}

	return decimal.NewNullDecimal(value), nil
}

// canViewOrder reports whether the actor may read the order.
func canViewOrder(actor model.Actor, order *model.Order) bool {
	if actor.IsAdmin() {
		return true
	}
	switch actor.Role {
	case model.RoleClient:
		return order.ClientID == actor.ID
	case model.RoleRestaurant:
		return order.RestaurantID == actor.ID
	case model.RoleCourier:
		return order.CourierID != nil && *order.CourierID == actor.ID
	}
	return false
}
