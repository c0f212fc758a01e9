// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/go-demi/demi-bank/internal/domain"
	"github.com/go-demi/demi-bank/pkg/dbpkg"
	"github.com/go-demi/demi-bank/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    accounts (account_number, owner, balance)
VALUES
    ($1, $2, $3)
RETURNING account_number, owner, balance, created_at
`

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, number, owner, balance string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, number, owner, balance)

	var a domain.Account

	err := row.Scan(
		&a.Number,
		&a.Owner,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_pkey":
				return a, domain.ErrAccountNumberTaken
			case "accounts_owner_key":
				return a, domain.ErrAccountAlreadyExists
			case "accounts_owner_fkey":
				return a, domain.ErrUserNotFound
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	a.account_number, a.owner, a.balance, u.verified, u.approved, a.created_at
FROM accounts a
JOIN users u ON u.username = a.owner
WHERE a.account_number = $1
`

// Get returns the account with the given account number.
func (r *RepoPGS) Get(ctx context.Context, number string) (domain.Account, error) {
	return r.get(ctx, getQuery, number)
}

const getForUpdateQuery = getQuery + `
FOR UPDATE OF a
`

// GetForUpdate returns the account with the given account number and
// locks its row until the surrounding transaction finishes.
func (r *RepoPGS) GetForUpdate(ctx context.Context, number string) (domain.Account, error) {
	return r.get(ctx, getForUpdateQuery, number)
}

const getByOwnerQuery = `
SELECT
	a.account_number, a.owner, a.balance, u.verified, u.approved, a.created_at
FROM accounts a
JOIN users u ON u.username = a.owner
WHERE a.owner = $1
`

// GetByOwner returns the account owned by the given user.
func (r *RepoPGS) GetByOwner(ctx context.Context, owner string) (domain.Account, error) {
	return r.get(ctx, getByOwnerQuery, owner)
}

func (r *RepoPGS) get(ctx context.Context, query, arg string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)

	var a domain.Account

	err := row.Scan(
		&a.Number,
		&a.Owner,
		&a.Balance,
		&a.Verified,
		&a.Approved,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1
WHERE account_number = $2
RETURNING account_number, owner, balance, created_at
`

// AddBalance changes the account's balance and returns the changed account.
// The amount may be negative; the balance check constraint is the backstop
// against concurrent overdraft.
func (r *RepoPGS) AddBalance(ctx context.Context, amount, number string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, number)

	var a domain.Account

	err := row.Scan(
		&a.Number,
		&a.Owner,
		&a.Balance,
		&a.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, &domain.InsufficientFundsError{Requested: amount}
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listQuery = `
SELECT
	a.account_number, a.owner, a.balance, u.verified, u.approved, a.created_at
FROM accounts a
JOIN users u ON u.username = a.owner
ORDER BY a.created_at
LIMIT $1 OFFSET $2
`

// List returns the specified page of accounts.
func (r *RepoPGS) List(ctx context.Context, limit, offset int32) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.Number, &a.Owner, &a.Balance, &a.Verified, &a.Approved, &a.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
