package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Address struct {
	ID          string `json:"id"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2,omitempty"`
	ZipCode     string `json:"zipCode"`
	AddressType string `json:"addressType"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phoneNumber,omitempty"`
	Role         string    `json:"role"`
	Avatar       Image     `json:"avatar"`
	Addresses    []Address `json:"addresses"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UserRepository interface {
	Create(user *User) (*User, error)
	GetByEmail(email string) (*User, error)
	GetByID(id string) (*User, error)
	UpdateInfo(user *User) (*User, error)
	UpdateAvatar(id string, avatar Image) (*User, error)
	AddAddress(userID string, address Address) (*User, error)
	DeleteAddress(userID, addressID string) (*User, error)
	ListAll() ([]User, error)
	Delete(id string) error
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Avatar   string
}

type UserUseCase interface {
	Signup(ctx context.Context, input SignupInput) error
	Activate(activationToken string) (*User, string, error)
	Login(email, password string) (*User, string, error)
	GetByID(id string) (*User, error)
	UpdateInfo(email, password, name, phone string) (*User, error)
	UpdateAvatar(ctx context.Context, id, avatar string) (*User, error)
	AddAddress(userID string, address Address) (*User, error)
	DeleteAddress(userID, addressID string) (*User, error)
	ListAll() ([]User, error)
	Delete(ctx context.Context, id string) error
}
