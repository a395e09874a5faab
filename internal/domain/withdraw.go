package domain

import "time"

const (
	WithdrawPending   = "pending"
	WithdrawSucceeded = "succeeded"
)

type Withdraw struct {
	ID        string    `json:"id"`
	ShopID    string    `json:"shopId"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type WithdrawRepository interface {
	Create(withdraw *Withdraw) (*Withdraw, error)
	GetByID(id string) (*Withdraw, error)
	ListAll() ([]Withdraw, error)

	// Approve flips a pending request to succeeded and returns the updated
	// record. There is no rejection or reversal path.
	Approve(id string) (*Withdraw, error)
}

type WithdrawUseCase interface {
	Create(shop *Shop, amount float64) (*Withdraw, error)
	ListAll() ([]Withdraw, error)
	Approve(withdrawID, sellerID string) (*Withdraw, error)
}
