package domain

import "time"

type OrderStatus string

const (
	StatusProcessing       OrderStatus = "Processing"
	StatusTransferred      OrderStatus = "Transferred to delivery partner"
	StatusDelivered        OrderStatus = "Delivered"
	StatusProcessingRefund OrderStatus = "Processing Refund"
	StatusRefundSuccess    OrderStatus = "Refund Success"
)

// validNext is the closed transition table. Anything not listed is rejected,
// including re-running a terminal transition.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusProcessing:       {StatusTransferred: true},
	StatusTransferred:      {StatusDelivered: true},
	StatusDelivered:        {StatusProcessingRefund: true},
	StatusProcessingRefund: {StatusRefundSuccess: true},
	StatusRefundSuccess:    {},
}

func IsValidStatus(status OrderStatus) bool {
	_, ok := validNext[status]
	return ok
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

type CartItem struct {
	ProductID  string  `json:"productId"`
	ShopID     string  `json:"shopId"`
	Name       string  `json:"name"`
	Qty        int     `json:"qty"`
	Price      float64 `json:"price"`
	IsReviewed bool    `json:"isReviewed"`
}

type PaymentInfo struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
}

type ShippingAddress struct {
	Country  string `json:"country"`
	City     string `json:"city"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	ZipCode  string `json:"zipCode"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Cart            []CartItem      `json:"cart"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	TotalPrice      float64         `json:"totalPrice"`
	PaymentInfo     PaymentInfo     `json:"paymentInfo"`
	Status          OrderStatus     `json:"status"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type OrderRepository interface {
	Create(order *Order) (*Order, error)
	GetByID(id string) (*Order, error)
	ListByUser(userID string) ([]Order, error)
	ListByShop(shopID string) ([]Order, error)
	ListAll() ([]Order, error)
	UpdateStatus(id string, status OrderStatus) (*Order, error)

	// MarkDelivered records deliveredAt and the nested payment status along
	// with the status change, in one write.
	MarkDelivered(id string, deliveredAt time.Time, paymentStatus string) (*Order, error)

	MarkItemReviewed(orderID, productID string) error
}

type CreateOrderInput struct {
	Cart            []CartItem
	ShippingAddress ShippingAddress
	TotalPrice      float64
	PaymentInfo     PaymentInfo
}

type OrderUseCase interface {
	Create(userID string, input CreateOrderInput) ([]Order, error)
	ListByUser(userID string) ([]Order, error)
	ListByShop(shopID string) ([]Order, error)
	ListAll() ([]Order, error)
	UpdateStatus(shopID, orderID string, status OrderStatus) (*Order, error)
	RequestRefund(userID, orderID string, status OrderStatus) (*Order, error)
	RefundSuccess(shopID, orderID string, status OrderStatus) (*Order, error)
}
