package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates that the owner already has an account.
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrAccountNumberTaken indicates a collision on the generated account number.
	ErrAccountNumberTaken = errors.New("account number already taken")
	// ErrAccountOwnerMismatch indicates that the user does not own the account.
	ErrAccountOwnerMismatch = errors.New("account does not belong to the user")
	// ErrReceiverNotEligible indicates that the receiving account is not approved to transact.
	ErrReceiverNotEligible = errors.New("receiver account is not eligible")
)

// Account holds balance data for a single user.
//
// The verified and approved flags come from the owning user record.
// Balance is only mutated inside a movement transaction.
type Account struct {
	Number    string    `json:"account_number"`
	Owner     string    `json:"owner"`
	Balance   string    `json:"balance"`
	Verified  bool      `json:"verified"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}
