package domain

import (
	"context"
	"time"
)

type Transaction struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type WithdrawMethod struct {
	BankName          string `json:"bankName"`
	BankCountry       string `json:"bankCountry"`
	BankAccountNumber string `json:"bankAccountNumber"`
	BankHolderName    string `json:"bankHolderName"`
}

type Shop struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	PasswordHash     string          `json:"-"`
	Description      string          `json:"description,omitempty"`
	Address          string          `json:"address"`
	Phone            string          `json:"phoneNumber"`
	ZipCode          string          `json:"zipCode"`
	Avatar           Image           `json:"avatar"`
	AvailableBalance float64         `json:"availableBalance"`
	WithdrawMethod   *WithdrawMethod `json:"withdrawMethod,omitempty"`
	Transactions     []Transaction   `json:"transactions"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type ShopRepository interface {
	Create(shop *Shop) (*Shop, error)
	GetByEmail(email string) (*Shop, error)
	GetByID(id string) (*Shop, error)
	UpdateInfo(shop *Shop) (*Shop, error)
	UpdateAvatar(id string, avatar Image) (*Shop, error)
	SetWithdrawMethod(id string, method *WithdrawMethod) (*Shop, error)

	// SetAvailableBalance overwrites the balance. The delivery payout uses
	// this overwrite on purpose; see DESIGN.md for the open question.
	SetAvailableBalance(id string, balance float64) error

	// DebitBalance decrements the balance only when it covers amount,
	// returning ErrBadRequest otherwise. CreditBalance is its compensation.
	DebitBalance(id string, amount float64) error
	CreditBalance(id string, amount float64) error

	AppendTransaction(id string, txn Transaction) (*Shop, error)
	ListAll() ([]Shop, error)
	Delete(id string) error
}

type ShopSignupInput struct {
	Name     string
	Email    string
	Password string
	Avatar   string
	Address  string
	Phone    string
	ZipCode  string
}

type ShopUseCase interface {
	Signup(ctx context.Context, input ShopSignupInput) error
	Activate(activationToken string) (*Shop, string, error)
	Login(email, password string) (*Shop, string, error)
	GetByID(id string) (*Shop, error)
	UpdateInfo(id, name, description, address, phone, zipCode string) (*Shop, error)
	UpdateAvatar(ctx context.Context, id, avatar string) (*Shop, error)
	SetWithdrawMethod(id string, method *WithdrawMethod) (*Shop, error)
	DeleteWithdrawMethod(id string) (*Shop, error)
	ListAll() ([]Shop, error)
	Delete(id string) error
}
