package domain

import (
	"context"
	"time"
)

type Review struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID            string    `json:"id"`
	ShopID        string    `json:"shopId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Tags          string    `json:"tags,omitempty"`
	OriginalPrice float64   `json:"originalPrice"`
	DiscountPrice float64   `json:"discountPrice"`
	Stock         int       `json:"stock"`
	SoldOut       int       `json:"sold_out"`
	Images        []Image   `json:"images"`
	Reviews       []Review  `json:"reviews"`
	Ratings       float64   `json:"ratings"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ProductRepository interface {
	Create(product *Product) (*Product, error)
	GetByID(id string) (*Product, error)
	ListAll() ([]Product, error)
	ListByShop(shopID string) ([]Product, error)
	Delete(id string) error

	// DeductStock applies stock -= qty, sold_out += qty in one statement,
	// guarded by stock >= qty (ErrBadRequest otherwise). RestoreStock is
	// the exact reversal, guarded by sold_out >= qty.
	DeductStock(id string, qty int) error
	RestoreStock(id string, qty int) error

	// UpsertReview replaces an existing review by the same user or appends
	// a new one.
	UpsertReview(productID string, review Review) error
	ListReviews(productID string) ([]Review, error)
	SetRatings(productID string, ratings float64) error
}

type CreateProductInput struct {
	ShopID        string
	Name          string
	Description   string
	Category      string
	Tags          string
	OriginalPrice float64
	DiscountPrice float64
	Stock         int
	Images        []string
}

type ReviewInput struct {
	ProductID string
	OrderID   string
	Rating    int
	Comment   string
}

type ProductUseCase interface {
	Create(ctx context.Context, input CreateProductInput) (*Product, error)
	ListAll() ([]Product, error)
	ListByShop(shopID string) ([]Product, error)
	Delete(ctx context.Context, shopID, productID string) error
	Review(user *User, input ReviewInput) (*Product, error)
}
