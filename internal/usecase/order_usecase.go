package usecase

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"marketplace_api/internal/domain"
	"marketplace_api/internal/events"
)

// serviceChargeRate is the platform cut taken out of the delivery payout.
const serviceChargeRate = 0.10

var _ domain.OrderUseCase = (*orderUseCase)(nil)

type orderUseCase struct {
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	shopRepo    domain.ShopRepository
	publisher   *events.Publisher
	log         *logrus.Logger
}

func NewOrderUseCase(orderRepo domain.OrderRepository, productRepo domain.ProductRepository, shopRepo domain.ShopRepository, publisher *events.Publisher, logger *logrus.Logger) domain.OrderUseCase {
	return &orderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		shopRepo:    shopRepo,
		publisher:   publisher,
		log:         logger,
	}
}

// Create splits the cart by shop and creates one order per shop, each with a
// frozen snapshot of its cart lines. Stock is not touched here; it moves when
// the seller hands the order to the delivery partner.
func (uc *orderUseCase) Create(userID string, input domain.CreateOrderInput) ([]domain.Order, error) {
	if len(input.Cart) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrBadRequest)
	}
	for i, item := range input.Cart {
		if item.ProductID == "" || item.ShopID == "" {
			return nil, fmt.Errorf("%w: cart item %d is missing product or shop", domain.ErrBadRequest, i)
		}
		if item.Qty <= 0 {
			return nil, fmt.Errorf("%w: cart item %d has non-positive quantity", domain.ErrBadRequest, i)
		}
	}

	shopItems := make(map[string][]domain.CartItem)
	shopOrder := make([]string, 0)
	for _, item := range input.Cart {
		if _, ok := shopItems[item.ShopID]; !ok {
			shopOrder = append(shopOrder, item.ShopID)
		}
		shopItems[item.ShopID] = append(shopItems[item.ShopID], item)
	}
	uc.log.Infof("Use Case: Splitting cart of %d items across %d shops for user %s", len(input.Cart), len(shopOrder), userID)

	orders := make([]domain.Order, 0, len(shopOrder))
	for _, shopID := range shopOrder {
		order, err := uc.orderRepo.Create(&domain.Order{
			UserID:          userID,
			Cart:            shopItems[shopID],
			ShippingAddress: input.ShippingAddress,
			TotalPrice:      input.TotalPrice,
			PaymentInfo:     input.PaymentInfo,
			Status:          domain.StatusProcessing,
		})
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (uc *orderUseCase) ListByUser(userID string) ([]domain.Order, error) {
	return uc.orderRepo.ListByUser(userID)
}

func (uc *orderUseCase) ListByShop(shopID string) ([]domain.Order, error) {
	return uc.orderRepo.ListByShop(shopID)
}

func (uc *orderUseCase) ListAll() ([]domain.Order, error) {
	return uc.orderRepo.ListAll()
}

// UpdateStatus is the seller-side transition endpoint. Unknown statuses and
// transitions outside the lifecycle table are rejected rather than persisted.
func (uc *orderUseCase) UpdateStatus(shopID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := uc.loadShopOrder(shopID, orderID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkTransition(order.Status, status); err != nil {
		return nil, err
	}

	var updated *domain.Order
	switch status {
	case domain.StatusTransferred:
		updated, err = uc.transfer(order, shopID)
	case domain.StatusDelivered:
		updated, err = uc.deliver(order, shopID)
	case domain.StatusRefundSuccess:
		updated, err = uc.refundSuccess(order, shopID)
	default:
		// Processing Refund is buyer-initiated through RequestRefund.
		return nil, fmt.Errorf("%w: status %q cannot be set by the seller", domain.ErrBadRequest, status)
	}
	if err != nil {
		return nil, err
	}

	uc.emitStatusChanged(updated)
	return updated, nil
}

// RequestRefund is the buyer-side transition. Only a delivered order can move
// into Processing Refund.
func (uc *orderUseCase) RequestRefund(userID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order belongs to another user", domain.ErrForbidden)
	}
	if status != domain.StatusProcessingRefund {
		return nil, fmt.Errorf("%w: invalid refund status %q", domain.ErrBadRequest, status)
	}
	if err := uc.checkTransition(order.Status, status); err != nil {
		return nil, err
	}

	updated, err := uc.orderRepo.UpdateStatus(order.ID, status)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: User %s requested refund for order %s", userID, orderID)
	uc.emitStatusChanged(updated)
	return updated, nil
}

func (uc *orderUseCase) RefundSuccess(shopID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if status != domain.StatusRefundSuccess {
		return nil, fmt.Errorf("%w: invalid refund status %q", domain.ErrBadRequest, status)
	}
	return uc.UpdateStatus(shopID, orderID, status)
}

func (uc *orderUseCase) loadShopOrder(shopID, orderID string) (*domain.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	for _, item := range order.Cart {
		if item.ShopID == shopID {
			return order, nil
		}
	}
	return nil, fmt.Errorf("%w: order belongs to another shop", domain.ErrForbidden)
}

func (uc *orderUseCase) checkTransition(from, to domain.OrderStatus) error {
	if !domain.IsValidStatus(to) {
		return fmt.Errorf("%w: unknown order status %q", domain.ErrBadRequest, to)
	}
	if !domain.CanTransition(from, to) {
		return fmt.Errorf("%w: cannot change status from %q to %q", domain.ErrBadRequest, from, to)
	}
	return nil
}

// transfer moves each cart line's quantity from stock to sold_out. The
// per-line update is conditional on sufficient stock; a mid-loop failure
// reverses the lines already applied before returning.
func (uc *orderUseCase) transfer(order *domain.Order, shopID string) (*domain.Order, error) {
	applied := make([]domain.CartItem, 0, len(order.Cart))
	for _, item := range order.Cart {
		uc.log.Infof("Use Case: Deducting stock for product %s (qty %d, order %s)", item.ProductID, item.Qty, order.ID)
		if err := uc.productRepo.DeductStock(item.ProductID, item.Qty); err != nil {
			uc.log.Errorf("Use Case: Failed to deduct stock for product %s: %v. Rolling back %d lines.", item.ProductID, err, len(applied))
			for _, done := range applied {
				if rollbackErr := uc.productRepo.RestoreStock(done.ProductID, done.Qty); rollbackErr != nil {
					uc.log.Errorf("Use Case: CRITICAL! Failed to restore stock for product %s: %v. Manual intervention required!", done.ProductID, rollbackErr)
				}
			}
			return nil, err
		}
		applied = append(applied, item)
	}

	updated, err := uc.orderRepo.UpdateStatus(order.ID, domain.StatusTransferred)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to persist transfer of order %s: %v. Rolling back stock.", order.ID, err)
		for _, done := range applied {
			if rollbackErr := uc.productRepo.RestoreStock(done.ProductID, done.Qty); rollbackErr != nil {
				uc.log.Errorf("Use Case: CRITICAL! Failed to restore stock for product %s: %v. Manual intervention required!", done.ProductID, rollbackErr)
			}
		}
		return nil, err
	}
	uc.log.Infof("Use Case: Order %s transferred to delivery partner by shop %s", order.ID, shopID)
	return updated, nil
}

// deliver stamps deliveredAt, marks the payment succeeded and pays the shop.
// The payout overwrites the balance with totalPrice minus the service charge;
// SetAvailableBalance documents that this is an overwrite, not a credit.
func (uc *orderUseCase) deliver(order *domain.Order, shopID string) (*domain.Order, error) {
	deliveredAt := time.Now()
	updated, err := uc.orderRepo.MarkDelivered(order.ID, deliveredAt, "Succeeded")
	if err != nil {
		return nil, err
	}

	serviceCharge := order.TotalPrice * serviceChargeRate
	payout := order.TotalPrice - serviceCharge
	if err := uc.shopRepo.SetAvailableBalance(shopID, payout); err != nil {
		uc.log.Errorf("Use Case: CRITICAL! Order %s marked delivered but payout of %.2f to shop %s failed: %v", order.ID, payout, shopID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %s delivered; shop %s balance set to %.2f (charge %.2f)", order.ID, shopID, payout, serviceCharge)
	return updated, nil
}

// refundSuccess reverses exactly the transfer-time stock movement. The
// guarded restore plus the terminal transition make a double reversal
// impossible.
func (uc *orderUseCase) refundSuccess(order *domain.Order, shopID string) (*domain.Order, error) {
	restored := make([]domain.CartItem, 0, len(order.Cart))
	for _, item := range order.Cart {
		uc.log.Infof("Use Case: Restoring stock for product %s (qty %d, order %s)", item.ProductID, item.Qty, order.ID)
		if err := uc.productRepo.RestoreStock(item.ProductID, item.Qty); err != nil {
			uc.log.Errorf("Use Case: Failed to restore stock for product %s: %v. Re-deducting %d lines.", item.ProductID, err, len(restored))
			for _, done := range restored {
				if rollbackErr := uc.productRepo.DeductStock(done.ProductID, done.Qty); rollbackErr != nil {
					uc.log.Errorf("Use Case: CRITICAL! Failed to re-deduct stock for product %s: %v. Manual intervention required!", done.ProductID, rollbackErr)
				}
			}
			return nil, err
		}
		restored = append(restored, item)
	}

	updated, err := uc.orderRepo.UpdateStatus(order.ID, domain.StatusRefundSuccess)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to persist refund of order %s: %v. Re-deducting stock.", order.ID, err)
		for _, done := range restored {
			if rollbackErr := uc.productRepo.DeductStock(done.ProductID, done.Qty); rollbackErr != nil {
				uc.log.Errorf("Use Case: CRITICAL! Failed to re-deduct stock for product %s: %v. Manual intervention required!", done.ProductID, rollbackErr)
			}
		}
		return nil, err
	}
	uc.log.Infof("Use Case: Refund completed for order %s (shop %s)", order.ID, shopID)
	return updated, nil
}

func (uc *orderUseCase) emitStatusChanged(order *domain.Order) {
	uc.publisher.PublishStatusChanged(events.OrderStatusChanged{
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
		At:      time.Now(),
	})
}
