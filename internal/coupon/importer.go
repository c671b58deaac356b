package coupon

import (
	"context"
	"fmt"
	"time"

	"food-dash/internal/model"
	"food-dash/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Campaign describes the coupon parameters applied to every code in an
// imported code list.
type Campaign struct {
	Type          model.CouponType
	Value         decimal.Decimal
	MinOrderValue decimal.Decimal
	ValidFrom     time.Time
	ValidUntil    time.Time
	MaxUses       int
}

// Importer bulk-provisions coupons from gzipped code lists. Codes already
// present are skipped, so re-running an import is safe.
type Importer struct {
	repo   repository.CouponRepository
	loader Loader
	logger zerolog.Logger
}

// NewImporter creates a new coupon importer.
func NewImporter(repo repository.CouponRepository, loader Loader, logger zerolog.Logger) *Importer {
	return &Importer{
		repo:   repo,
		loader: loader,
		logger: logger.With().Str("component", "coupon-importer").Logger(),
	}
}

// Import loads a code list and creates one coupon per code with the
// campaign's parameters. It returns the number of coupons actually created.
func (i *Importer) Import(ctx context.Context, path string, campaign Campaign) (int, error) {
	set, err := i.loader.Load(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to load code list: %w", err)
	}

	now := time.Now()
	inserted := 0
	for _, code := range set.Codes() {
		c := &model.Coupon{
			ID:            uuid.New(),
			Code:          code,
			Type:          campaign.Type,
			Value:         campaign.Value,
			MinOrderValue: campaign.MinOrderValue,
			ValidFrom:     campaign.ValidFrom,
			ValidUntil:    campaign.ValidUntil,
			MaxUses:       campaign.MaxUses,
			Active:        true,
			CreatedAt:     now,
		}

		created, err := i.repo.Create(ctx, c)
		if err != nil {
			return inserted, fmt.Errorf("failed to create coupon %s: %w", code, err)
		}
		if created {
			inserted++
		}
	}

	i.logger.Info().
		Str("file", path).
		Int("codes", set.Size()).
		Int("created", inserted).
		Msg("coupon campaign imported")

	return inserted, nil
}
