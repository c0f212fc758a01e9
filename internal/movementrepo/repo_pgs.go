// Package movementrepo manages repository layer of money movements.
//
// Every balance change in the application goes through a movement
// transaction in this package: preconditions are checked on freshly
// locked rows, balance deltas and the ledger row commit together or
// not at all.
package movementrepo

import (
	"context"
	"database/sql"

	"github.com/go-demi/demi-bank/internal/accountrepo"
	"github.com/go-demi/demi-bank/internal/domain"
	"github.com/go-demi/demi-bank/pkg/dbpkg"
	"github.com/go-demi/demi-bank/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RepoPGS facilitates movement repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns movement RepoPGS scoped to an ongoing transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns movement RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO movements (
	reference,
	client_reference,
	sender_account,
	receiver_account,
	external_account,
	amount,
	kind,
	status,
	narration,
	completed_at
) VALUES (
	$1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9,
	CASE WHEN $8 = 'completed' THEN now() ELSE NULL END
)
RETURNING id, reference, COALESCE(client_reference, ''), COALESCE(sender_account, ''),
	COALESCE(receiver_account, ''), COALESCE(external_account, ''), amount, kind, status,
	narration, admin_comment,
	created_at, completed_at
`

// Create creates the movement row and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.MovementTxParams) (domain.Movement, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Reference,
		arg.ClientReference,
		arg.SenderAccount,
		arg.ReceiverAccount,
		arg.ExternalAccount,
		arg.Amount,
		arg.Kind,
		arg.Status,
		arg.Narration,
	)

	m, err := scanMovement(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "movements_client_reference_key":
				return m, domain.ErrDuplicateReference
			case "movements_sender_account_fkey", "movements_receiver_account_fkey":
				return m, domain.ErrAccountNotFound
			case "movements_amount_check":
				return m, domain.ErrInvalidAmount
			}
		}

		return m, errorspkg.ErrInternal
	}

	return m, nil
}

// Execute applies one money movement as a single database transaction.
//
// All involved accounts are locked in consistent account number order to
// avoid deadlocks, preconditions are validated against the locked rows,
// then balances are updated and the movement row is written. Either every
// effect lands or none do.
func (r *RepoPGS) Execute(ctx context.Context, arg domain.MovementTxParams) (domain.MovementTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.MovementTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)
	txRepo := NewTxRepoPGS(tx)

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Error().Err(err).Send()
		return result, domain.ErrInvalidAmount
	}

	// Lock rows in consistent order before any validation. The reads must
	// happen inside the transaction or the funds check races with
	// concurrent debits.
	for _, number := range lockOrder(arg) {
		account, err := accountRepo.GetForUpdate(ctx, number)
		if err != nil {
			return result, err
		}

		switch number {
		case arg.SenderAccount:
			result.SenderAccount = account
		case arg.ReceiverAccount:
			result.ReceiverAccount = account
		}
	}

	if arg.DebitSender {
		available, err := decimal.NewFromString(result.SenderAccount.Balance)
		if err != nil {
			l.Error().Err(err).Send()
			return result, errorspkg.ErrInternal
		}

		if available.LessThan(amount) {
			return result, &domain.InsufficientFundsError{
				Available: available.String(),
				Requested: amount.String(),
			}
		}
	}

	if arg.CreditReceiver && !result.ReceiverAccount.Approved {
		return result, domain.ErrReceiverNotEligible
	}

	result.Movement, err = txRepo.Create(ctx, arg)
	if err != nil {
		return result, err
	}

	if arg.DebitSender {
		result.SenderAccount, err = accountRepo.AddBalance(ctx, amount.Neg().String(), arg.SenderAccount)
		if err != nil {
			return result, err
		}
	}

	if arg.CreditReceiver {
		result.ReceiverAccount, err = accountRepo.AddBalance(ctx, amount.String(), arg.ReceiverAccount)
		if err != nil {
			return result, err
		}
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, abortErr(err)
	}

	return result, nil
}

// lockOrder returns the involved account numbers sorted ascending.
func lockOrder(arg domain.MovementTxParams) []string {
	var numbers []string

	if arg.SenderAccount != "" {
		numbers = append(numbers, arg.SenderAccount)
	}

	if arg.ReceiverAccount != "" {
		numbers = append(numbers, arg.ReceiverAccount)
	}

	if len(numbers) == 2 && numbers[0] > numbers[1] {
		numbers[0], numbers[1] = numbers[1], numbers[0]
	}

	return numbers
}

const getForSettleQuery = `
SELECT id, reference, COALESCE(client_reference, ''), COALESCE(sender_account, ''),
	COALESCE(receiver_account, ''), COALESCE(external_account, ''), amount, kind, status,
	narration, admin_comment,
	created_at, completed_at
FROM movements
WHERE reference = $1
FOR UPDATE
`

const settleQuery = `
UPDATE movements
SET status = $1,
	admin_comment = $2,
	completed_at = CASE WHEN $1 = 'completed' THEN now() ELSE completed_at END
WHERE reference = $3
RETURNING id, reference, COALESCE(client_reference, ''), COALESCE(sender_account, ''),
	COALESCE(receiver_account, ''), COALESCE(external_account, ''), amount, kind, status,
	narration, admin_comment,
	created_at, completed_at
`

// Settle resolves a pending movement to a terminal status.
//
// Approving a pending deposit credits the receiver inside the same
// transaction. Rejecting a pending external transfer refunds the sender,
// whose debit was applied at creation time. Either way the status
// transition and the balance effect commit together.
func (r *RepoPGS) Settle(ctx context.Context, arg domain.SettleParams) (domain.MovementTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.MovementTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)

	row := tx.QueryRowContext(ctx, getForSettleQuery, arg.Reference)

	m, err := scanMovement(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return result, domain.ErrMovementNotFound
		}

		return result, errorspkg.ErrInternal
	}

	if m.Status != domain.StatusPending {
		return result, domain.ErrAlreadyProcessed
	}

	status := domain.StatusFailed
	if arg.Approve {
		status = domain.StatusCompleted
	}

	switch {
	case arg.Approve && m.Kind == domain.KindDeposit:
		result.ReceiverAccount, err = accountRepo.AddBalance(ctx, m.Amount, m.ReceiverAccount)
		if err != nil {
			return result, err
		}
	case !arg.Approve && m.Kind == domain.KindExternal:
		// The debit was applied when the transfer was created; a rejection
		// returns it to the sender.
		result.SenderAccount, err = accountRepo.AddBalance(ctx, m.Amount, m.SenderAccount)
		if err != nil {
			return result, err
		}
	}

	row = tx.QueryRowContext(ctx, settleQuery, status, arg.AdminComment, arg.Reference)

	result.Movement, err = scanMovement(row)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, abortErr(err)
	}

	return result, nil
}

const completeExternalQuery = `
UPDATE movements
SET status = 'completed', completed_at = now()
WHERE reference = $1 AND kind = 'external' AND status = 'pending'
RETURNING id, reference, COALESCE(client_reference, ''), COALESCE(sender_account, ''),
	COALESCE(receiver_account, ''), COALESCE(external_account, ''), amount, kind, status,
	narration, admin_comment,
	created_at, completed_at
`

// CompleteExternal flips a still pending external movement to completed.
//
// This is the unattended settlement path. It has no balance effect; the
// debit happened at creation time. The status guard lives in the WHERE
// clause so the transition stays atomic with respect to the admin path.
func (r *RepoPGS) CompleteExternal(ctx context.Context, reference string) (domain.Movement, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, completeExternalQuery, reference)

	m, err := scanMovement(row)
	if err != nil {
		l.Info().Err(err).Str("reference", reference).Send()

		if err == sql.ErrNoRows {
			return m, domain.ErrAlreadyProcessed
		}

		return m, errorspkg.ErrInternal
	}

	return m, nil
}

const getQuery = `
SELECT id, reference, COALESCE(client_reference, ''), COALESCE(sender_account, ''),
	COALESCE(receiver_account, ''), COALESCE(external_account, ''), amount, kind, status,
	narration, admin_comment,
	created_at, completed_at
FROM movements
WHERE reference = $1
`

// Get returns the movement with the given reference.
func (r *RepoPGS) Get(ctx context.Context, reference string) (domain.Movement, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, reference)

	m, err := scanMovement(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return m, domain.ErrMovementNotFound
		}

		return m, errorspkg.ErrInternal
	}

	return m, nil
}

const listQuery = `
SELECT id, reference, COALESCE(client_reference, ''), COALESCE(sender_account, ''),
	COALESCE(receiver_account, ''), COALESCE(external_account, ''), amount, kind, status,
	narration, admin_comment,
	created_at, completed_at
FROM movements
WHERE sender_account = $1 OR receiver_account = $1
ORDER BY id DESC
LIMIT $2 OFFSET $3
`

// List returns the movements the given account participates in.
func (r *RepoPGS) List(ctx context.Context, arg domain.ListMovementsParams) ([]domain.Movement, error) {
	return r.list(ctx, listQuery, arg.Account, arg.Limit, arg.Offset)
}

const listByStatusQuery = `
SELECT id, reference, COALESCE(client_reference, ''), COALESCE(sender_account, ''),
	COALESCE(receiver_account, ''), COALESCE(external_account, ''), amount, kind, status,
	narration, admin_comment,
	created_at, completed_at
FROM movements
WHERE status = $1
ORDER BY id
LIMIT $2 OFFSET $3
`

// ListByStatus returns movements in the given status, oldest first.
func (r *RepoPGS) ListByStatus(ctx context.Context, status domain.Status, limit, offset int32) ([]domain.Movement, error) {
	return r.list(ctx, listByStatusQuery, string(status), limit, offset)
}

func (r *RepoPGS) list(ctx context.Context, query string, key any, limit, offset int32) ([]domain.Movement, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, key, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Movement{}

	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovement(row rowScanner) (domain.Movement, error) {
	var (
		m           domain.Movement
		completedAt sql.NullTime
	)

	err := row.Scan(
		&m.ID,
		&m.Reference,
		&m.ClientReference,
		&m.SenderAccount,
		&m.ReceiverAccount,
		&m.ExternalAccount,
		&m.Amount,
		&m.Kind,
		&m.Status,
		&m.Narration,
		&m.AdminComment,
		&m.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return m, err
	}

	if completedAt.Valid {
		m.CompletedAt = completedAt.Time
	}

	return m, nil
}

// abortErr maps store level commit failures to the aborted transaction
// error so callers know no partial effect was left behind.
func abortErr(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return domain.ErrTransactionAborted
		}
	}

	return errorspkg.ErrInternal
}
