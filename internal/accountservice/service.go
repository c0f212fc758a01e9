// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/go-demi/demi-bank/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Get(ctx context.Context, number string) (domain.Account, error)
	GetByOwner(ctx context.Context, owner string) (domain.Account, error)
	List(ctx context.Context, limit, offset int32) ([]domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account business logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Get returns the account with the given account number.
func (s *Service) Get(ctx context.Context, number string) (domain.Account, error) {
	return s.repo.Get(ctx, number)
}

// GetByOwner returns the account owned by the given user.
func (s *Service) GetByOwner(ctx context.Context, owner string) (domain.Account, error) {
	return s.repo.GetByOwner(ctx, owner)
}

// List returns the specified page of all accounts.
func (s *Service) List(ctx context.Context, pageSize, pageID int32) ([]domain.Account, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	return s.repo.List(ctx, limit, offset)
}
