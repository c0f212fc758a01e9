// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"database/sql"

	"github.com/go-demi/demi-bank/internal/accountrepo"
	"github.com/go-demi/demi-bank/internal/domain"
	"github.com/go-demi/demi-bank/pkg/dbpkg"
	"github.com/go-demi/demi-bank/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates user repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns user RepoPGS scoped to an ongoing transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns user RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO users (
    username,
    hashed_password,
    full_name,
    email
) VALUES (
    $1, $2, $3, $4
) RETURNING username, hashed_password, full_name, email, role, verified, approved, created_at
`

// Create creates the user and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Username,
		arg.HashedPassword,
		arg.FullName,
		arg.Email,
	)

	u, err := scanUser(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" {
				switch pqErr.Constraint {
				case "users_pkey":
					return u, domain.ErrUsernameAlreadyExists
				case "users_email_key":
					return u, domain.ErrEmailAlreadyExists
				}
			}
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const getQuery = `
SELECT
	username, hashed_password, full_name, email, role, verified, approved, created_at
FROM users
WHERE username = $1
`

// Get returns the user with the given username.
func (r *RepoPGS) Get(ctx context.Context, username string) (domain.User, error) {
	return r.get(ctx, getQuery, username)
}

const getByAccountQuery = `
SELECT
	u.username, u.hashed_password, u.full_name, u.email, u.role, u.verified, u.approved, u.created_at
FROM users u
JOIN accounts a ON a.owner = u.username
WHERE a.account_number = $1
`

// GetByAccount returns the user owning the given account number.
func (r *RepoPGS) GetByAccount(ctx context.Context, number string) (domain.User, error) {
	return r.get(ctx, getByAccountQuery, number)
}

func (r *RepoPGS) get(ctx context.Context, query, arg string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)

	u, err := scanUser(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const setVerifiedQuery = `
UPDATE users
SET verified = true
WHERE username = $1
RETURNING username, hashed_password, full_name, email, role, verified, approved, created_at
`

// SetVerified marks the user's email as confirmed.
func (r *RepoPGS) SetVerified(ctx context.Context, username string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, setVerifiedQuery, username)

	u, err := scanUser(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const getForApproveQuery = `
SELECT
	username, hashed_password, full_name, email, role, verified, approved, created_at
FROM users
WHERE username = $1
FOR UPDATE
`

const approveQuery = `
UPDATE users
SET approved = true
WHERE username = $1
RETURNING username, hashed_password, full_name, email, role, verified, approved, created_at
`

// Approve marks the user as approved and creates their account with the
// given number and opening balance, as a single transaction.
func (r *RepoPGS) Approve(ctx context.Context, username, accountNumber, openingBalance string) (domain.User, domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var (
		u domain.User
		a domain.Account
	)

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return u, a, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	row := tx.QueryRowContext(ctx, getForApproveQuery, username)

	u, err = scanUser(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return u, a, domain.ErrUserNotFound
		}

		return u, a, errorspkg.ErrInternal
	}

	if !u.Verified {
		return u, a, domain.ErrUserNotVerified
	}

	if u.Approved {
		return u, a, domain.ErrUserAlreadyApproved
	}

	row = tx.QueryRowContext(ctx, approveQuery, username)

	u, err = scanUser(row)
	if err != nil {
		l.Error().Err(err).Send()
		return u, a, errorspkg.ErrInternal
	}

	accountRepo := accountrepo.NewRepoPGS(tx)

	a, err = accountRepo.Create(ctx, accountNumber, username, openingBalance)
	if err != nil {
		return u, a, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return u, a, errorspkg.ErrInternal
	}

	return u, a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User

	err := row.Scan(
		&u.Username,
		&u.HashedPassword,
		&u.FullName,
		&u.Email,
		&u.Role,
		&u.Verified,
		&u.Approved,
		&u.CreatedAt,
	)

	return u, err
}
