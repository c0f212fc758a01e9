// Package movementservice manages business logic layer of money movements.
package movementservice

import (
	"context"
	"strings"

	"github.com/go-demi/demi-bank/internal/domain"
	"github.com/go-demi/demi-bank/pkg/configpkg"
	"github.com/go-demi/demi-bank/pkg/randompkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repo provides data access layer interface needed by movement service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package movementservice
type Repo interface {
	Execute(ctx context.Context, arg domain.MovementTxParams) (domain.MovementTxResult, error)
	Settle(ctx context.Context, arg domain.SettleParams) (domain.MovementTxResult, error)
	CompleteExternal(ctx context.Context, reference string) (domain.Movement, error)
	Get(ctx context.Context, reference string) (domain.Movement, error)
	List(ctx context.Context, arg domain.ListMovementsParams) ([]domain.Movement, error)
	ListByStatus(ctx context.Context, status domain.Status, limit, offset int32) ([]domain.Movement, error)
}

// AccountService provides the account lookups needed by movement service layer.
type AccountService interface {
	Get(ctx context.Context, number string) (domain.Account, error)
	GetByOwner(ctx context.Context, owner string) (domain.Account, error)
}

// Scheduler queues unattended settlement of an external movement.
type Scheduler interface {
	Schedule(reference string)
}

// Notifier delivers out-of-band notices about settled movements.
// Implementations must not block and must not affect the caller's outcome.
type Notifier interface {
	MovementSettled(movement domain.Movement)
}

// Service facilitates movement service layer logic.
type Service struct {
	repo            Repo
	accounts        AccountService
	notifier        Notifier
	scheduler       Scheduler
	transferMax     decimal.Decimal
	depositMax      decimal.Decimal
	reviewThreshold decimal.Decimal
}

// New returns movement service struct to manage movement business logic.
func New(r Repo, as AccountService, n Notifier, config configpkg.Config) (*Service, error) {
	transferMax, err := decimal.NewFromString(config.TransferMax)
	if err != nil {
		return nil, err
	}

	depositMax, err := decimal.NewFromString(config.DepositMax)
	if err != nil {
		return nil, err
	}

	reviewThreshold, err := decimal.NewFromString(config.DepositReviewThreshold)
	if err != nil {
		return nil, err
	}

	return &Service{
		repo:            r,
		accounts:        as,
		notifier:        n,
		transferMax:     transferMax,
		depositMax:      depositMax,
		reviewThreshold: reviewThreshold,
	}, nil
}

// SetScheduler wires the external settlement scheduler.
// The scheduler needs the service to complete movements, so it is attached
// after construction.
func (s *Service) SetScheduler(sched Scheduler) {
	s.scheduler = sched
}

// TransferParams is the validated input for a transfer request.
type TransferParams struct {
	ReceiverAccount string
	Amount          string
	Kind            domain.Kind
	Narration       string
	ClientReference string
}

// DepositParams is the validated input for a deposit request.
type DepositParams struct {
	Amount          string
	Description     string
	ClientReference string
}

// CleanAccountNumber strips everything but letters and digits from the
// given account number.
func CleanAccountNumber(number string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		}
		return -1
	}, number)
}

func (s *Service) validAmount(amount string, max decimal.Decimal) (decimal.Decimal, error) {
	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		return amountDecimal, domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return amountDecimal, domain.ErrNegativeAmount
	}

	if amountDecimal.GreaterThan(max) {
		return amountDecimal, domain.ErrAmountTooLarge
	}

	return amountDecimal, nil
}

// Transfer validates a transfer request for the authenticated owner and
// executes it.
//
// Internal transfers settle instantly; both balances move inside one
// database transaction. External transfers debit the sender immediately,
// stay pending and are handed to the settlement scheduler. The receiver
// pre-check here is an early exit only; the authoritative check runs
// against locked rows inside the movement transaction.
func (s *Service) Transfer(ctx context.Context, owner string, arg TransferParams) (domain.MovementTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.MovementTxResult

	sender, err := s.accounts.GetByOwner(ctx, owner)
	if err != nil {
		return result, err
	}

	amount, err := s.validAmount(arg.Amount, s.transferMax)
	if err != nil {
		l.Info().Err(err).Send()
		return result, err
	}

	receiver := CleanAccountNumber(arg.ReceiverAccount)
	if len(receiver) != randompkg.AccountNumberLength {
		return result, domain.ErrInvalidAccountNumber
	}

	if receiver == sender.Number {
		return result, domain.ErrSelfTransferDenied
	}

	params := domain.MovementTxParams{
		Reference:       uuid.NewString(),
		ClientReference: arg.ClientReference,
		SenderAccount:   sender.Number,
		Amount:          amount.String(),
		Kind:            arg.Kind,
		Narration:       arg.Narration,
		DebitSender:     true,
	}

	switch arg.Kind {
	case domain.KindInternal:
		receiverAccount, err := s.accounts.Get(ctx, receiver)
		if err != nil {
			return result, err
		}

		if !receiverAccount.Approved {
			return result, domain.ErrReceiverNotEligible
		}

		params.ReceiverAccount = receiver
		params.CreditReceiver = true
		params.Status = domain.StatusCompleted
	case domain.KindExternal:
		params.ExternalAccount = receiver
		params.Status = domain.StatusPending
	default:
		return result, domain.ErrUnsupportedKind
	}

	result, err = s.repo.Execute(ctx, params)
	if err != nil {
		return result, err
	}

	if arg.Kind == domain.KindExternal && s.scheduler != nil {
		s.scheduler.Schedule(result.Movement.Reference)
	}

	if result.Movement.Status == domain.StatusCompleted && s.notifier != nil {
		s.notifier.MovementSettled(result.Movement)
	}

	return result, nil
}

// Deposit credits the owner's account via the bank deposit path.
//
// Deposits at or below the review threshold complete instantly. Larger
// deposits are queued pending and credit the account only when an admin
// approves them.
func (s *Service) Deposit(ctx context.Context, owner string, arg DepositParams) (domain.MovementTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.MovementTxResult

	account, err := s.accounts.GetByOwner(ctx, owner)
	if err != nil {
		return result, err
	}

	amount, err := s.validAmount(arg.Amount, s.depositMax)
	if err != nil {
		l.Info().Err(err).Send()
		return result, err
	}

	params := domain.MovementTxParams{
		Reference:       uuid.NewString(),
		ClientReference: arg.ClientReference,
		ReceiverAccount: account.Number,
		Amount:          amount.String(),
		Kind:            domain.KindDeposit,
		Narration:       arg.Description,
		Status:          domain.StatusPending,
	}

	if amount.LessThanOrEqual(s.reviewThreshold) {
		params.Status = domain.StatusCompleted
		params.CreditReceiver = true
	}

	result, err = s.repo.Execute(ctx, params)
	if err != nil {
		return result, err
	}

	if result.Movement.Status == domain.StatusCompleted && s.notifier != nil {
		s.notifier.MovementSettled(result.Movement)
	}

	return result, nil
}

// Settle resolves a pending movement on behalf of an admin.
func (s *Service) Settle(ctx context.Context, arg domain.SettleParams) (domain.MovementTxResult, error) {
	result, err := s.repo.Settle(ctx, arg)
	if err != nil {
		return result, err
	}

	if s.notifier != nil {
		s.notifier.MovementSettled(result.Movement)
	}

	return result, nil
}

// CompleteExternal flips a pending external movement to completed.
// It is the callback target of the settlement scheduler.
func (s *Service) CompleteExternal(ctx context.Context, reference string) (domain.Movement, error) {
	movement, err := s.repo.CompleteExternal(ctx, reference)
	if err != nil {
		return movement, err
	}

	if s.notifier != nil {
		s.notifier.MovementSettled(movement)
	}

	return movement, nil
}

// Get returns the movement with the given reference if the owner's
// account participates in it.
func (s *Service) Get(ctx context.Context, owner, reference string) (domain.Movement, error) {
	account, err := s.accounts.GetByOwner(ctx, owner)
	if err != nil {
		return domain.Movement{}, err
	}

	movement, err := s.repo.Get(ctx, reference)
	if err != nil {
		return movement, err
	}

	if movement.SenderAccount != account.Number && movement.ReceiverAccount != account.Number {
		return domain.Movement{}, domain.ErrMovementNotFound
	}

	return movement, nil
}

// List returns the movement history of the owner's account.
func (s *Service) List(ctx context.Context, owner string, pageSize, pageID int32) ([]domain.Movement, error) {
	account, err := s.accounts.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	arg := domain.ListMovementsParams{
		Account: account.Number,
		Limit:   pageSize,
		Offset:  (pageID - 1) * pageSize,
	}

	return s.repo.List(ctx, arg)
}

// ListPending returns pending movements awaiting settlement, oldest first.
func (s *Service) ListPending(ctx context.Context, pageSize, pageID int32) ([]domain.Movement, error) {
	return s.repo.ListByStatus(ctx, domain.StatusPending, pageSize, (pageID-1)*pageSize)
}
