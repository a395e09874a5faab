package usecase

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace_api/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

type orderFixture struct {
	orders   *fakeOrderRepo
	products *fakeProductRepo
	shops    *fakeShopRepo
	useCase  domain.OrderUseCase
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:   newFakeOrderRepo(),
		products: newFakeProductRepo(),
		shops:    newFakeShopRepo(),
	}
	f.useCase = NewOrderUseCase(f.orders, f.products, f.shops, nil, testLogger())
	return f
}

func (f *orderFixture) seedShop(id string, balance float64) *domain.Shop {
	return f.shops.seed(&domain.Shop{ID: id, Name: id, Email: id + "@test.dev", AvailableBalance: balance})
}

func (f *orderFixture) seedProduct(id, shopID string, stock int) *domain.Product {
	return f.products.seed(&domain.Product{ID: id, ShopID: shopID, Name: id, Stock: stock, DiscountPrice: 10})
}

func TestCreateOrderSplitsCartByShop(t *testing.T) {
	f := newOrderFixture()

	orders, err := f.useCase.Create("user-1", domain.CreateOrderInput{
		Cart: []domain.CartItem{
			{ProductID: "p1", ShopID: "shop-a", Qty: 2, Price: 10},
			{ProductID: "p2", ShopID: "shop-b", Qty: 1, Price: 5},
			{ProductID: "p3", ShopID: "shop-a", Qty: 1, Price: 7},
		},
		TotalPrice: 32,
	})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Len(t, orders[0].Cart, 2)
	assert.Equal(t, "shop-a", orders[0].Cart[0].ShopID)
	assert.Len(t, orders[1].Cart, 1)
	assert.Equal(t, "shop-b", orders[1].Cart[0].ShopID)
	for _, order := range orders {
		assert.Equal(t, domain.StatusProcessing, order.Status)
		assert.Equal(t, "user-1", order.UserID)
	}
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	f := newOrderFixture()

	_, err := f.useCase.Create("user-1", domain.CreateOrderInput{})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestTransferDeductsStock(t *testing.T) {
	f := newOrderFixture()
	f.seedShop("shop-a", 0)
	product := f.seedProduct("p1", "shop-a", 10)

	orders, err := f.useCase.Create("user-1", domain.CreateOrderInput{
		Cart:       []domain.CartItem{{ProductID: "p1", ShopID: "shop-a", Qty: 3, Price: 10}},
		TotalPrice: 30,
	})
	require.NoError(t, err)

	updated, err := f.useCase.UpdateStatus("shop-a", orders[0].ID, domain.StatusTransferred)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTransferred, updated.Status)
	assert.Equal(t, 7, product.Stock)
	assert.Equal(t, 3, product.SoldOut)
}

func TestTransferInsufficientStockRollsBack(t *testing.T) {
	f := newOrderFixture()
	f.seedShop("shop-a", 0)
	first := f.seedProduct("p1", "shop-a", 10)
	second := f.seedProduct("p2", "shop-a", 1)

	orders, err := f.useCase.Create("user-1", domain.CreateOrderInput{
		Cart: []domain.CartItem{
			{ProductID: "p1", ShopID: "shop-a", Qty: 4, Price: 10},
			{ProductID: "p2", ShopID: "shop-a", Qty: 5, Price: 10},
		},
		TotalPrice: 90,
	})
	require.NoError(t, err)

	_, err = f.useCase.UpdateStatus("shop-a", orders[0].ID, domain.StatusTransferred)
	require.ErrorIs(t, err, domain.ErrBadRequest)

	// The first line was applied and must have been reversed.
	assert.Equal(t, 10, first.Stock)
	assert.Equal(t, 0, first.SoldOut)
	assert.Equal(t, 1, second.Stock)
	assert.Equal(t, 0, second.SoldOut)

	order, err := f.orders.GetByID(orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, order.Status)
}

func TestDeliveredOverwritesShopBalance(t *testing.T) {
	f := newOrderFixture()
	shop := f.seedShop("shop-a", 55)
	f.seedProduct("p1", "shop-a", 10)

	orders, err := f.useCase.Create("user-1", domain.CreateOrderInput{
		Cart:       []domain.CartItem{{ProductID: "p1", ShopID: "shop-a", Qty: 2, Price: 50}},
		TotalPrice: 100,
	})
	require.NoError(t, err)

	_, err = f.useCase.UpdateStatus("shop-a", orders[0].ID, domain.StatusTransferred)
	require.NoError(t, err)

	updated, err := f.useCase.UpdateStatus("shop-a", orders[0].ID, domain.StatusDelivered)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusDelivered, updated.Status)
	require.NotNil(t, updated.DeliveredAt)
	assert.Equal(t, "Succeeded", updated.PaymentInfo.Status)

	// The payout replaces the prior balance instead of adding to it.
	assert.Equal(t, 90.0, shop.AvailableBalance)
}

func TestRefundFlowRestoresStock(t *testing.T) {
	f := newOrderFixture()
	f.seedShop("shop-a", 0)
	product := f.seedProduct("p1", "shop-a", 10)

	orders, err := f.useCase.Create("user-1", domain.CreateOrderInput{
		Cart:       []domain.CartItem{{ProductID: "p1", ShopID: "shop-a", Qty: 3, Price: 10}},
		TotalPrice: 30,
	})
	require.NoError(t, err)
	orderID := orders[0].ID

	_, err = f.useCase.UpdateStatus("shop-a", orderID, domain.StatusTransferred)
	require.NoError(t, err)
	_, err = f.useCase.UpdateStatus("shop-a", orderID, domain.StatusDelivered)
	require.NoError(t, err)

	_, err = f.useCase.RequestRefund("user-1", orderID, domain.StatusProcessingRefund)
	require.NoError(t, err)

	updated, err := f.useCase.RefundSuccess("shop-a", orderID, domain.StatusRefundSuccess)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefundSuccess, updated.Status)
	assert.Equal(t, 10, product.Stock)
	assert.Equal(t, 0, product.SoldOut)

	// Refund Success is terminal; a second reversal is rejected.
	_, err = f.useCase.RefundSuccess("shop-a", orderID, domain.StatusRefundSuccess)
	require.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Equal(t, 10, product.Stock)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture()
	f.seedShop("shop-a", 0)
	f.seedProduct("p1", "shop-a", 10)

	orders, err := f.useCase.Create("user-1", domain.CreateOrderInput{
		Cart: []domain.CartItem{{ProductID: "p1", ShopID: "shop-a", Qty: 1, Price: 10}},
	})
	require.NoError(t, err)

	_, err = f.useCase.UpdateStatus("shop-a", orders[0].ID, "Shipped")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUpdateStatusRejectsSkippedTransition(t *testing.T) {
	f := newOrderFixture()
	f.seedShop("shop-a", 0)
	f.seedProduct("p1", "shop-a", 10)

	orders, err := f.useCase.Create("user-1", domain.CreateOrderInput{
		Cart: []domain.CartItem{{ProductID: "p1", ShopID: "shop-a", Qty: 1, Price: 10}},
	})
	require.NoError(t, err)

	_, err = f.useCase.UpdateStatus("shop-a", orders[0].ID, domain.StatusDelivered)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUpdateStatusForeignShopForbidden(t *testing.T) {
	f := newOrderFixture()
	f.seedShop("shop-a", 0)
	f.seedProduct("p1", "shop-a", 10)

	orders, err := f.useCase.Create("user-1", domain.CreateOrderInput{
		Cart: []domain.CartItem{{ProductID: "p1", ShopID: "shop-a", Qty: 1, Price: 10}},
	})
	require.NoError(t, err)

	_, err = f.useCase.UpdateStatus("shop-b", orders[0].ID, domain.StatusTransferred)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRequestRefundForeignUserForbidden(t *testing.T) {
	f := newOrderFixture()
	f.seedShop("shop-a", 0)
	f.seedProduct("p1", "shop-a", 10)

	orders, err := f.useCase.Create("user-1", domain.CreateOrderInput{
		Cart: []domain.CartItem{{ProductID: "p1", ShopID: "shop-a", Qty: 1, Price: 10}},
	})
	require.NoError(t, err)

	_, err = f.useCase.RequestRefund("user-2", orders[0].ID, domain.StatusProcessingRefund)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateStatusRejectsSellerInitiatedRefund(t *testing.T) {
	f := newOrderFixture()
	f.seedShop("shop-a", 0)
	f.seedProduct("p1", "shop-a", 10)

	orders, err := f.useCase.Create("user-1", domain.CreateOrderInput{
		Cart: []domain.CartItem{{ProductID: "p1", ShopID: "shop-a", Qty: 1, Price: 10}},
	})
	require.NoError(t, err)

	_, err = f.useCase.UpdateStatus("shop-a", orders[0].ID, domain.StatusTransferred)
	require.NoError(t, err)
	_, err = f.useCase.UpdateStatus("shop-a", orders[0].ID, domain.StatusDelivered)
	require.NoError(t, err)

	_, err = f.useCase.UpdateStatus("shop-a", orders[0].ID, domain.StatusProcessingRefund)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	order, err := f.orders.GetByID(orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, order.Status)
}

func TestRequestRefundBeforeDeliveryRejected(t *testing.T) {
	f := newOrderFixture()
	f.seedShop("shop-a", 0)
	f.seedProduct("p1", "shop-a", 10)

	orders, err := f.useCase.Create("user-1", domain.CreateOrderInput{
		Cart: []domain.CartItem{{ProductID: "p1", ShopID: "shop-a", Qty: 1, Price: 10}},
	})
	require.NoError(t, err)

	_, err = f.useCase.RequestRefund("user-1", orders[0].ID, domain.StatusProcessingRefund)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}
