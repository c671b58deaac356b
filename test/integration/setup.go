package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"food-dash/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	// Create connection pool
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			restaurant_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			price DECIMAL(10, 2) NOT NULL,
			category VARCHAR(100) NOT NULL,
			available BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS addresses (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			street VARCHAR(255) NOT NULL,
			city VARCHAR(100) NOT NULL,
			principal BOOLEAN NOT NULL DEFAULT FALSE,
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION
		);

		CREATE TABLE IF NOT EXISTS couriers (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL,
			vehicle VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS coupons (
			id UUID PRIMARY KEY,
			code VARCHAR(50) NOT NULL UNIQUE,
			type VARCHAR(20) NOT NULL,
			value DECIMAL(10, 2) NOT NULL,
			min_order_value DECIMAL(10, 2) NOT NULL DEFAULT 0,
			valid_from TIMESTAMPTZ NOT NULL,
			valid_until TIMESTAMPTZ NOT NULL,
			max_uses INTEGER NOT NULL,
			current_uses INTEGER NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS carts (
			id UUID PRIMARY KEY,
			client_id UUID NOT NULL,
			coupon_id UUID REFERENCES coupons(id),
			status VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES products(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price DECIMAL(10, 2) NOT NULL,
			UNIQUE (cart_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			client_id UUID NOT NULL,
			restaurant_id UUID NOT NULL,
			courier_id UUID REFERENCES couriers(id),
			status VARCHAR(20) NOT NULL,
			subtotal DECIMAL(10, 2) NOT NULL,
			discount DECIMAL(10, 2) NOT NULL DEFAULT 0,
			delivery_fee DECIMAL(10, 2) NOT NULL DEFAULT 0,
			total DECIMAL(10, 2) NOT NULL,
			platform_fee_restaurant DECIMAL(10, 2),
			platform_fee_courier DECIMAL(10, 2),
			net_value_restaurant DECIMAL(10, 2),
			net_value_courier DECIMAL(10, 2),
			payment_method VARCHAR(20) NOT NULL,
			change_for DECIMAL(10, 2),
			coupon_id UUID REFERENCES coupons(id),
			delivery_street VARCHAR(255) NOT NULL,
			delivery_city VARCHAR(100) NOT NULL,
			delivery_lat DOUBLE PRECISION,
			delivery_lng DOUBLE PRECISION,
			estimated_delivery_at TIMESTAMPTZ,
			cancel_reason TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id UUID NOT NULL REFERENCES products(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price DECIMAL(10, 2) NOT NULL,
			subtotal DECIMAL(10, 2) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS commission_rates (
			id UUID PRIMARY KEY,
			category VARCHAR(20) NOT NULL,
			percent DECIMAL(5, 2) NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_orders_client_id ON orders(client_id);
		CREATE INDEX IF NOT EXISTS idx_orders_courier_id ON orders(courier_id);
		CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
		CREATE INDEX IF NOT EXISTS idx_cart_items_cart_id ON cart_items(cart_id);
		CREATE INDEX IF NOT EXISTS idx_addresses_owner_id ON addresses(owner_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProduct inserts a product and returns it.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, restaurantID uuid.UUID, name, price string) *model.Product {
	t.Helper()

	product := &model.Product{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Category:     "Mains",
		Available:    true,
		CreatedAt:    time.Now(),
	}

	_, err := pool.Exec(context.Background(),
		"INSERT INTO products (id, restaurant_id, name, price, category, available, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		product.ID, product.RestaurantID, product.Name, product.Price, product.Category, product.Available, product.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}

	return product
}

// SeedPrincipalAddress inserts a principal address for the given owner.
func SeedPrincipalAddress(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID, lat, lng float64) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"INSERT INTO addresses (id, owner_id, street, city, principal, lat, lng) VALUES ($1, $2, $3, $4, TRUE, $5, $6)",
		uuid.New(), ownerID, "1 Test Street", "Testville", lat, lng,
	)
	if err != nil {
		t.Fatalf("failed to seed address for %s: %v", ownerID, err)
	}
}

// SeedCourier inserts a courier in the given approval status.
func SeedCourier(t *testing.T, pool *pgxpool.Pool, status model.CourierStatus) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO couriers (id, name, status, vehicle, created_at) VALUES ($1, $2, $3, $4, now())",
		id, "Test Courier", status, model.VehicleMotorcycle,
	)
	if err != nil {
		t.Fatalf("failed to seed courier: %v", err)
	}

	return id
}

// SeedCoupon inserts an active coupon valid for the next 24 hours.
func SeedCoupon(t *testing.T, pool *pgxpool.Pool, code string, couponType model.CouponType, value string, maxUses int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO coupons (id, code, type, value, min_order_value, valid_from, valid_until, max_uses, current_uses, active, created_at)
		 VALUES ($1, $2, $3, $4, 0, $5, $6, $7, 0, TRUE, now())`,
		id, code, couponType, decimal.RequireFromString(value), now.Add(-time.Hour), now.Add(24*time.Hour), maxUses,
	)
	if err != nil {
		t.Fatalf("failed to seed coupon %s: %v", code, err)
	}

	return id
}

// SeedCommissionRate inserts an active commission rate for the category.
func SeedCommissionRate(t *testing.T, pool *pgxpool.Pool, category model.RateCategory, percent string) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"INSERT INTO commission_rates (id, category, percent, active, created_at) VALUES ($1, $2, $3, TRUE, now())",
		uuid.New(), category, decimal.RequireFromString(percent),
	)
	if err != nil {
		t.Fatalf("failed to seed commission rate: %v", err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"order_items", "orders", "cart_items", "carts",
		"coupons", "commission_rates", "addresses", "couriers", "products",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
