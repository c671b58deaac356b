package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"food-dash/internal/config"
	"food-dash/internal/coupon"
	"food-dash/internal/database"
	"food-dash/internal/model"
	"food-dash/internal/repository"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// import-coupons provisions a coupon campaign from a gzipped code list,
// one coupon per code. The list is read from the local file system or,
// when S3 is enabled, from the configured bucket. Re-running an import is
// safe: codes that already exist are skipped.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		path       = flag.String("path", "", "path or S3 key of the gzipped code list")
		couponType = flag.String("type", "PERCENTAGE", "coupon type: PERCENTAGE or FIXED")
		value      = flag.String("value", "10", "discount value (percent or fixed amount)")
		minOrder   = flag.String("min-order", "0", "minimum order subtotal for the coupon to apply")
		validDays  = flag.Int("valid-days", 30, "number of days the campaign stays valid")
		maxUses    = flag.Int("max-uses", 1, "redemption cap per coupon")
	)
	flag.Parse()

	if *path == "" {
		return fmt.Errorf("-path is required")
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	campaign, err := buildCampaign(*couponType, *value, *minOrder, *validDays, *maxUses)
	if err != nil {
		return err
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	var loader coupon.Loader
	if cfg.S3.Enabled {
		loader, err = coupon.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 loader: %w", err)
		}
	} else {
		loader = coupon.NewFileLoader(logger)
	}

	importer := coupon.NewImporter(repository.NewCouponRepository(pool, logger), loader, logger)

	inserted, err := importer.Import(ctx, *path, campaign)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d coupons from %s\n", inserted, *path)
	return nil
}

func buildCampaign(couponType, value, minOrder string, validDays, maxUses int) (coupon.Campaign, error) {
	t := model.CouponType(couponType)
	if t != model.CouponPercentage && t != model.CouponFixed {
		return coupon.Campaign{}, fmt.Errorf("invalid coupon type: %s", couponType)
	}

	v, err := decimal.NewFromString(value)
	if err != nil {
		return coupon.Campaign{}, fmt.Errorf("invalid value: %w", err)
	}

	m, err := decimal.NewFromString(minOrder)
	if err != nil {
		return coupon.Campaign{}, fmt.Errorf("invalid min order value: %w", err)
	}

	if maxUses < 1 {
		return coupon.Campaign{}, fmt.Errorf("max uses must be at least 1")
	}

	now := time.Now()
	return coupon.Campaign{
		Type:          t,
		Value:         v,
		MinOrderValue: m,
		ValidFrom:     now,
		ValidUntil:    now.AddDate(0, 0, validDays),
		MaxUses:       maxUses,
	}, nil
}
