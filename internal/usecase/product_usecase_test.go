package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace_api/internal/domain"
)

type productFixture struct {
	products *fakeProductRepo
	orders   *fakeOrderRepo
	shops    *fakeShopRepo
	media    *fakeMedia
	useCase  domain.ProductUseCase
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products: newFakeProductRepo(),
		orders:   newFakeOrderRepo(),
		shops:    newFakeShopRepo(),
		media:    &fakeMedia{},
	}
	f.shops.seed(&domain.Shop{ID: "shop-1", Name: "Corner Store", Email: "corner@test.dev"})
	f.useCase = NewProductUseCase(f.products, f.orders, f.shops, f.media, testLogger())
	return f
}

func TestCreateProductUploadsImages(t *testing.T) {
	f := newProductFixture()

	product, err := f.useCase.Create(context.Background(), domain.CreateProductInput{
		ShopID:        "shop-1",
		Name:          "Mug",
		Category:      "Kitchen",
		DiscountPrice: 9.5,
		Stock:         20,
		Images:        []string{"img-a", "img-b"},
	})
	require.NoError(t, err)
	assert.Len(t, product.Images, 2)
	assert.Equal(t, 2, f.media.uploads)
}

func TestCreateProductUnknownShop(t *testing.T) {
	f := newProductFixture()

	_, err := f.useCase.Create(context.Background(), domain.CreateProductInput{
		ShopID:        "shop-missing",
		Name:          "Mug",
		Category:      "Kitchen",
		DiscountPrice: 9.5,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProductRemovesImages(t *testing.T) {
	f := newProductFixture()

	product, err := f.useCase.Create(context.Background(), domain.CreateProductInput{
		ShopID:        "shop-1",
		Name:          "Mug",
		Category:      "Kitchen",
		DiscountPrice: 9.5,
		Images:        []string{"img-a"},
	})
	require.NoError(t, err)

	err = f.useCase.Delete(context.Background(), "shop-2", product.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.useCase.Delete(context.Background(), "shop-1", product.ID)
	require.NoError(t, err)
	assert.Len(t, f.media.deleted, 1)
}

func TestReviewRecomputesMeanRating(t *testing.T) {
	f := newProductFixture()
	f.products.seed(&domain.Product{ID: "p1", ShopID: "shop-1", Name: "Mug"})
	order, err := f.orders.Create(&domain.Order{
		UserID: "user-1",
		Cart:   []domain.CartItem{{ProductID: "p1", ShopID: "shop-1", Qty: 1}},
	})
	require.NoError(t, err)

	alice := &domain.User{ID: "user-1", Name: "Alice"}
	bob := &domain.User{ID: "user-2", Name: "Bob"}

	product, err := f.useCase.Review(alice, domain.ReviewInput{ProductID: "p1", OrderID: order.ID, Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, 5.0, product.Ratings)

	product, err = f.useCase.Review(bob, domain.ReviewInput{ProductID: "p1", OrderID: order.ID, Rating: 2})
	require.NoError(t, err)
	assert.Equal(t, 3.5, product.Ratings)
	assert.Len(t, product.Reviews, 2)
	assert.True(t, f.orders.reviewed[order.ID+"/p1"])
}

func TestReviewUpsertsByUser(t *testing.T) {
	f := newProductFixture()
	f.products.seed(&domain.Product{ID: "p1", ShopID: "shop-1", Name: "Mug"})
	order, err := f.orders.Create(&domain.Order{
		UserID: "user-1",
		Cart:   []domain.CartItem{{ProductID: "p1", ShopID: "shop-1", Qty: 1}},
	})
	require.NoError(t, err)

	alice := &domain.User{ID: "user-1", Name: "Alice"}

	_, err = f.useCase.Review(alice, domain.ReviewInput{ProductID: "p1", OrderID: order.ID, Rating: 2})
	require.NoError(t, err)

	product, err := f.useCase.Review(alice, domain.ReviewInput{ProductID: "p1", OrderID: order.ID, Rating: 4})
	require.NoError(t, err)
	require.Len(t, product.Reviews, 1)
	assert.Equal(t, 4, product.Reviews[0].Rating)
	assert.Equal(t, 4.0, product.Ratings)
}

func TestReviewForeignOrderForbidden(t *testing.T) {
	f := newProductFixture()
	f.products.seed(&domain.Product{ID: "p1", ShopID: "shop-1", Name: "Mug"})
	order, err := f.orders.Create(&domain.Order{
		UserID: "user-1",
		Cart:   []domain.CartItem{{ProductID: "p1", ShopID: "shop-1", Qty: 1}},
	})
	require.NoError(t, err)

	mallory := &domain.User{ID: "user-2", Name: "Mallory"}

	_, err = f.useCase.Review(mallory, domain.ReviewInput{ProductID: "p1", OrderID: order.ID, Rating: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.False(t, f.orders.reviewed[order.ID+"/p1"])
}

func TestReviewRatingOutOfRange(t *testing.T) {
	f := newProductFixture()
	alice := &domain.User{ID: "user-1", Name: "Alice"}

	_, err := f.useCase.Review(alice, domain.ReviewInput{ProductID: "p1", OrderID: "order-1", Rating: 0})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = f.useCase.Review(alice, domain.ReviewInput{ProductID: "p1", OrderID: "order-1", Rating: 6})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}
