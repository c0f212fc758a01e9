// Package userservice manages business logic layer of users.
package userservice

import (
	"context"

	"github.com/go-demi/demi-bank/internal/domain"
	"github.com/go-demi/demi-bank/pkg/configpkg"
	"github.com/go-demi/demi-bank/pkg/errorspkg"
	"github.com/go-demi/demi-bank/pkg/passpkg"
	"github.com/go-demi/demi-bank/pkg/randompkg"
	"github.com/go-demi/demi-bank/pkg/tokenpkg"
	"github.com/rs/zerolog"
)

// accountNumberAttempts bounds retries on account number collisions.
const accountNumberAttempts = 3

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	Get(ctx context.Context, username string) (domain.User, error)
	SetVerified(ctx context.Context, username string) (domain.User, error)
	Approve(ctx context.Context, username, accountNumber, openingBalance string) (domain.User, domain.Account, error)
}

// Notifier queues the verification email for a freshly registered user.
type Notifier interface {
	VerificationRequested(email, fullName, token string)
}

// Service facilitates user service layer logic.
type Service struct {
	repo        Repo
	verifyMaker tokenpkg.Maker
	notifier    Notifier
	config      configpkg.Config
}

// New returns user service struct to manage user business logic.
func New(ur Repo, vm tokenpkg.Maker, n Notifier, config configpkg.Config) *Service {
	return &Service{
		repo:        ur,
		verifyMaker: vm,
		notifier:    n,
		config:      config,
	}
}

// NewUserWithoutPassword returns user with removed sensitive data.
func NewUserWithoutPassword(u domain.User) domain.UserWithoutPassword {
	return domain.UserWithoutPassword{
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		Verified:  u.Verified,
		Approved:  u.Approved,
		CreatedAt: u.CreatedAt,
	}
}

// Create creates the user and queues their verification email.
func (s *Service) Create(ctx context.Context, username, password, fullname, email string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.UserWithoutPassword

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	arg := domain.CreateUserParams{
		Username:       username,
		HashedPassword: hashedPassword,
		FullName:       fullname,
		Email:          email,
	}

	gotUser, err := s.repo.Create(ctx, arg)
	if err != nil {
		return result, err
	}

	token, _, err := s.verifyMaker.CreateToken(username, tokenpkg.RoleUser, s.config.VerificationTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	if s.notifier != nil {
		s.notifier.VerificationRequested(gotUser.Email, gotUser.FullName, token)
	}

	result = NewUserWithoutPassword(gotUser)

	return result, nil
}

// Verify confirms the email address encoded in the verification token.
func (s *Service) Verify(ctx context.Context, token string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var result domain.UserWithoutPassword

	payload, err := s.verifyMaker.VerifyToken(token)
	if err != nil {
		l.Info().Err(err).Send()
		return result, err
	}

	gotUser, err := s.repo.SetVerified(ctx, payload.Username)
	if err != nil {
		return result, err
	}

	result = NewUserWithoutPassword(gotUser)

	return result, nil
}

// Approve marks the user as eligible to transact and opens their account
// with a fresh 10-digit account number and the configured welcome bonus.
func (s *Service) Approve(ctx context.Context, username string) (domain.UserWithoutPassword, domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var (
		user    domain.User
		account domain.Account
		err     error
	)

	for i := 0; i < accountNumberAttempts; i++ {
		user, account, err = s.repo.Approve(ctx, username, randompkg.AccountNumber(), s.config.WelcomeBonus)
		if err != domain.ErrAccountNumberTaken {
			break
		}

		l.Warn().Str("username", username).Msg("account number collision, retrying")
	}

	if err != nil {
		return domain.UserWithoutPassword{}, account, err
	}

	return NewUserWithoutPassword(user), account, nil
}

// CheckPassword checks if the password is valid for the given username.
func (s *Service) CheckPassword(ctx context.Context, username, pass string) (domain.UserWithoutPassword, error) {
	l := zerolog.Ctx(ctx)

	var response domain.UserWithoutPassword

	gotUser, err := s.repo.Get(ctx, username)
	if err != nil {
		return response, err
	}

	err = passpkg.Check(pass, gotUser.HashedPassword)
	if err != nil {
		l.Warn().Err(err).Send()
		return response, domain.ErrWrongPassword
	}

	response = NewUserWithoutPassword(gotUser)

	return response, nil
}
