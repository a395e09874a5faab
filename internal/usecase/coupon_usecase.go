package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"marketplace_api/internal/cache"
	"marketplace_api/internal/domain"
)

var _ domain.CouponUseCase = (*couponUseCase)(nil)

type couponUseCase struct {
	couponRepo domain.CouponRepository
	cache      *cache.CouponCache
	log        *logrus.Logger
}

func NewCouponUseCase(repo domain.CouponRepository, couponCache *cache.CouponCache, logger *logrus.Logger) domain.CouponUseCase {
	return &couponUseCase{
		couponRepo: repo,
		cache:      couponCache,
		log:        logger,
	}
}

func (uc *couponUseCase) Create(shopID string, coupon *domain.Coupon) (*domain.Coupon, error) {
	if coupon.Name == "" || coupon.Value <= 0 {
		return nil, fmt.Errorf("%w: please provide coupon name and value", domain.ErrBadRequest)
	}

	// Pre-check for a friendly error; the unique constraint in the repository
	// still backstops the race.
	if existing, err := uc.couponRepo.GetByName(coupon.Name); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: coupon already exists", domain.ErrBadRequest)
	}

	coupon.ShopID = shopID
	created, err := uc.couponRepo.Create(coupon)
	if err != nil {
		return nil, err
	}

	uc.log.Infof("Use Case: Created coupon %s (%q) for shop %s", created.ID, created.Name, shopID)
	return created, nil
}

// GetByName serves the checkout hot path through the redis read-through cache.
func (uc *couponUseCase) GetByName(name string) (*domain.Coupon, error) {
	ctx := context.Background()
	if coupon, ok := uc.cache.Get(ctx, name); ok {
		return coupon, nil
	}

	coupon, err := uc.couponRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(ctx, coupon)
	return coupon, nil
}

func (uc *couponUseCase) ListByShop(shopID string) ([]domain.Coupon, error) {
	return uc.couponRepo.ListByShop(shopID)
}

func (uc *couponUseCase) Delete(shopID, couponID string) (*domain.Coupon, error) {
	coupon, err := uc.couponRepo.GetByID(couponID)
	if err != nil {
		return nil, err
	}
	if coupon.ShopID != shopID {
		return nil, fmt.Errorf("%w: coupon belongs to another shop", domain.ErrForbidden)
	}

	if err := uc.couponRepo.Delete(couponID); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(context.Background(), coupon.Name)

	uc.log.Infof("Use Case: Deleted coupon %s (shop %s)", couponID, shopID)
	return coupon, nil
}
