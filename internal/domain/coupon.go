package domain

import "time"

type Coupon struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Value           float64   `json:"value"`
	MinAmount       float64   `json:"minAmount,omitempty"`
	MaxAmount       float64   `json:"maxAmount,omitempty"`
	ShopID          string    `json:"shopId"`
	SelectedProduct string    `json:"selectedProduct,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type CouponRepository interface {
	Create(coupon *Coupon) (*Coupon, error)
	GetByName(name string) (*Coupon, error)
	GetByID(id string) (*Coupon, error)
	ListByShop(shopID string) ([]Coupon, error)
	Delete(id string) error
}

type CouponUseCase interface {
	Create(shopID string, coupon *Coupon) (*Coupon, error)
	GetByName(name string) (*Coupon, error)
	ListByShop(shopID string) ([]Coupon, error)
	Delete(shopID, couponID string) (*Coupon, error)
}
