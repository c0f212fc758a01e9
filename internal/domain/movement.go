package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMovementNotFound indicates that the movement is not found.
	ErrMovementNotFound = errors.New("movement not found")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNegativeAmount indicates zero or negative amount.
	ErrNegativeAmount = errors.New("amount must be positive")
	// ErrAmountTooLarge indicates that the amount exceeds the configured maximum.
	ErrAmountTooLarge = errors.New("amount exceeds the allowed maximum")
	// ErrInvalidAccountNumber indicates a malformed receiver account number.
	ErrInvalidAccountNumber = errors.New("invalid account number")
	// ErrUnsupportedKind indicates a movement kind the orchestrator cannot execute.
	ErrUnsupportedKind = errors.New("unsupported movement kind")
	// ErrSelfTransferDenied indicates that sender and receiver are the same account.
	ErrSelfTransferDenied = errors.New("transfer to own account is not allowed")
	// ErrAlreadyProcessed indicates a settlement action on a movement that is no longer pending.
	ErrAlreadyProcessed = errors.New("movement has already been processed")
	// ErrTransactionAborted indicates that the database transaction could not commit.
	// No partial effect is left behind; the whole request may be retried.
	ErrTransactionAborted = errors.New("transaction aborted")
	// ErrDuplicateReference indicates that the client reference was already used.
	ErrDuplicateReference = errors.New("duplicate client reference")
)

// InsufficientFundsError indicates that the sender balance is below the
// requested debit. It carries both amounts for a user facing message.
type InsufficientFundsError struct {
	Available string
	Requested string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, requested %s", e.Available, e.Requested)
}

// Kind classifies a movement.
type Kind string

// Movement kinds.
const (
	KindInternal Kind = "internal"
	KindExternal Kind = "external"
	KindDeposit  Kind = "deposit"
)

// Status is the lifecycle state of a movement.
// Transitions are monotone: pending -> completed | failed.
type Status string

// Movement statuses.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Movement is one attempted transfer, deposit or withdrawal record.
//
// SenderAccount is empty for bank originated deposits. ReceiverAccount is
// empty when the receiver is outside the system. CompletedAt is zero until
// the movement reaches a terminal status.
type Movement struct {
	ID              int64     `json:"id"`
	Reference       string    `json:"reference"`
	ClientReference string    `json:"client_reference,omitempty"`
	SenderAccount   string    `json:"sender_account,omitempty"`
	ReceiverAccount string    `json:"receiver_account,omitempty"`
	ExternalAccount string    `json:"external_account,omitempty"`
	Amount          string    `json:"amount"`
	Kind            Kind      `json:"type"`
	Status          Status    `json:"status"`
	Narration       string    `json:"narration,omitempty"`
	AdminComment    string    `json:"admin_comment,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	CompletedAt     time.Time `json:"completed_at,omitempty"`
}

// MovementTxParams is the input data for the movement transaction.
//
// DebitSender and CreditReceiver select which balance deltas apply inside
// the transaction; the movement row is always written.
type MovementTxParams struct {
	Reference       string `json:"reference"`
	ClientReference string `json:"client_reference"`
	SenderAccount   string `json:"sender_account"`
	ReceiverAccount string `json:"receiver_account"`
	ExternalAccount string `json:"external_account"`
	Amount          string `json:"amount"`
	Kind            Kind   `json:"type"`
	Status          Status `json:"status"`
	Narration       string `json:"narration"`
	DebitSender     bool   `json:"debit_sender"`
	CreditReceiver  bool   `json:"credit_receiver"`
}

// MovementTxResult is the result of the movement transaction.
type MovementTxResult struct {
	Movement        Movement `json:"movement"`
	SenderAccount   Account  `json:"sender_account,omitempty"`
	ReceiverAccount Account  `json:"receiver_account,omitempty"`
}

// SettleParams is the input data for resolving a pending movement.
type SettleParams struct {
	Reference    string `json:"reference"`
	Approve      bool   `json:"approve"`
	AdminComment string `json:"admin_comment"`
}

// ListMovementsParams is the input data to list movements of an account.
type ListMovementsParams struct {
	Account string `json:"account"`
	Limit   int32  `json:"limit"`
	Offset  int32  `json:"offset"`
}
