// Package helpers provides database seed helpers for integration tests.
package helpers

import (
	"context"
	"testing"

	"github.com/go-demi/demi-bank/internal/domain"
	"github.com/go-demi/demi-bank/pkg/dbpkg"
	"github.com/go-demi/demi-bank/pkg/passpkg"
	"github.com/go-demi/demi-bank/pkg/randompkg"
	"github.com/go-demi/demi-bank/pkg/tokenpkg"
)

const seedUserQuery = `
INSERT INTO users (username, hashed_password, full_name, email, role, verified, approved)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING username, hashed_password, full_name, email, role, verified, approved, created_at
`

// SeedUser inserts a verified and approved user and returns it.
func SeedUser(t *testing.T, db dbpkg.SQLInterface) domain.User {
	t.Helper()

	return seedUser(t, db, tokenpkg.RoleUser, true, true)
}

// SeedUnverifiedUser inserts a user that has not confirmed their email yet.
func SeedUnverifiedUser(t *testing.T, db dbpkg.SQLInterface) domain.User {
	t.Helper()

	return seedUser(t, db, tokenpkg.RoleUser, false, false)
}

// SeedVerifiedUser inserts a verified user still awaiting approval.
func SeedVerifiedUser(t *testing.T, db dbpkg.SQLInterface) domain.User {
	t.Helper()

	return seedUser(t, db, tokenpkg.RoleUser, true, false)
}

// SeedAdmin inserts an approved admin user.
func SeedAdmin(t *testing.T, db dbpkg.SQLInterface) domain.User {
	t.Helper()

	return seedUser(t, db, tokenpkg.RoleAdmin, true, true)
}

func seedUser(t *testing.T, db dbpkg.SQLInterface, role string, verified, approved bool) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	if err != nil {
		t.Fatalf("passpkg.Hash() returned error: %v", err)
	}

	var user domain.User

	row := db.QueryRowContext(context.Background(), seedUserQuery,
		randompkg.Owner(),
		hashedPassword,
		randompkg.Owner(),
		randompkg.Email(),
		role,
		verified,
		approved,
	)

	err = row.Scan(
		&user.Username,
		&user.HashedPassword,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.Verified,
		&user.Approved,
		&user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seeding user returned error: %v", err)
	}

	return user
}

const seedAccountQuery = `
INSERT INTO accounts (account_number, owner, balance)
VALUES ($1, $2, $3)
RETURNING account_number, owner, balance, created_at
`

// SeedAccount inserts an account with the given balance for the owner.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, owner domain.User, balance string) domain.Account {
	t.Helper()

	account := domain.Account{
		Verified: owner.Verified,
		Approved: owner.Approved,
	}

	row := db.QueryRowContext(context.Background(), seedAccountQuery,
		randompkg.AccountNumber(),
		owner.Username,
		balance,
	)

	err := row.Scan(
		&account.Number,
		&account.Owner,
		&account.Balance,
		&account.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seeding account returned error: %v", err)
	}

	return account
}

// SeedAccountWith1000Balance inserts an account holding 1000 for the owner.
func SeedAccountWith1000Balance(t *testing.T, db dbpkg.SQLInterface, owner domain.User) domain.Account {
	t.Helper()

	return SeedAccount(t, db, owner, "1000")
}
