package domain

import (
	"context"
	"time"
)

// Event is a time-boxed promotional listing owned by a shop.
type Event struct {
	ID            string    `json:"id"`
	ShopID        string    `json:"shopId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	StartDate     time.Time `json:"startDate"`
	FinishDate    time.Time `json:"finishDate"`
	Status        string    `json:"status"`
	OriginalPrice float64   `json:"originalPrice"`
	DiscountPrice float64   `json:"discountPrice"`
	Stock         int       `json:"stock"`
	SoldOut       int       `json:"sold_out"`
	Images        []Image   `json:"images"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type EventRepository interface {
	Create(event *Event) (*Event, error)
	GetByID(id string) (*Event, error)
	ListAll() ([]Event, error)
	ListByShop(shopID string) ([]Event, error)
	Delete(id string) error
}

type CreateEventInput struct {
	ShopID        string
	Name          string
	Description   string
	Category      string
	StartDate     time.Time
	FinishDate    time.Time
	OriginalPrice float64
	DiscountPrice float64
	Stock         int
	Images        []string
}

type EventUseCase interface {
	Create(ctx context.Context, input CreateEventInput) (*Event, error)
	ListAll() ([]Event, error)
	ListByShop(shopID string) ([]Event, error)
	Delete(ctx context.Context, shopID, eventID string) error
}
