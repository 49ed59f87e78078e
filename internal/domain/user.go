package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserType is the account role used for authorization.
type UserType string

const (
	UserTypeShop  UserType = "shop"
	UserTypeBuyer UserType = "buyer"
)

// Valid reports whether t is a known account type.
func (t UserType) Valid() bool {
	return t == UserTypeShop || t == UserTypeBuyer
}

// User represents an account
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Company      string    `json:"company" db:"company"`
	Position     string    `json:"position" db:"position"`
	Type         UserType  `json:"type" db:"type"`
	IsSuperuser  bool      `json:"-" db:"is_superuser"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Contact is a delivery address with a phone number.
type Contact struct {
	ID        int64     `json:"id" db:"id"`
	UserID    uuid.UUID `json:"-" db:"user_id"`
	City      string    `json:"city" db:"city"`
	Street    string    `json:"street" db:"street"`
	House     string    `json:"house" db:"house"`
	Structure string    `json:"structure" db:"structure"`
	Building  string    `json:"building" db:"building"`
	Apartment string    `json:"apartment" db:"apartment"`
	Phone     string    `json:"phone" db:"phone"`
}
