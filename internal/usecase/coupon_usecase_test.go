package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace_api/internal/domain"
)

func newCouponUseCase() (domain.CouponUseCase, *fakeCouponRepo) {
	repo := newFakeCouponRepo()
	// nil cache exercises the no-redis path; the cache itself is nil-safe.
	return NewCouponUseCase(repo, nil, testLogger()), repo
}

func TestCreateCoupon(t *testing.T) {
	uc, _ := newCouponUseCase()

	coupon, err := uc.Create("shop-1", &domain.Coupon{Name: "SUMMER10", Value: 10})
	require.NoError(t, err)
	assert.Equal(t, "shop-1", coupon.ShopID)
	assert.NotEmpty(t, coupon.ID)
}

func TestCreateCouponDuplicateNameRejected(t *testing.T) {
	uc, _ := newCouponUseCase()

	_, err := uc.Create("shop-1", &domain.Coupon{Name: "SUMMER10", Value: 10})
	require.NoError(t, err)

	_, err = uc.Create("shop-2", &domain.Coupon{Name: "SUMMER10", Value: 20})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestCreateCouponValidation(t *testing.T) {
	uc, _ := newCouponUseCase()

	_, err := uc.Create("shop-1", &domain.Coupon{Name: "", Value: 10})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = uc.Create("shop-1", &domain.Coupon{Name: "ZERO", Value: 0})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestGetCouponByName(t *testing.T) {
	uc, _ := newCouponUseCase()

	created, err := uc.Create("shop-1", &domain.Coupon{Name: "SUMMER10", Value: 10})
	require.NoError(t, err)

	found, err := uc.GetByName("SUMMER10")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = uc.GetByName("WINTER20")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCouponForeignShopForbidden(t *testing.T) {
	uc, _ := newCouponUseCase()

	created, err := uc.Create("shop-1", &domain.Coupon{Name: "SUMMER10", Value: 10})
	require.NoError(t, err)

	_, err = uc.Delete("shop-2", created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	deleted, err := uc.Delete("shop-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "SUMMER10", deleted.Name)

	_, err = uc.GetByName("SUMMER10")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
