package movementservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/go-demi/demi-bank/internal/domain"
	"github.com/go-demi/demi-bank/pkg/configpkg"
	"github.com/go-demi/demi-bank/pkg/randompkg"
)

func testConfig() configpkg.Config {
	return configpkg.Config{
		TransferMax:            "10000",
		DepositMax:             "50000",
		DepositReviewThreshold: "1000",
	}
}

func testAccount(number, owner, balance string) domain.Account {
	return domain.Account{
		Number:    number,
		Owner:     owner,
		Balance:   balance,
		Verified:  true,
		Approved:  true,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

func newTestService(t *testing.T, repo Repo, accounts AccountService, scheduler Scheduler, notifier Notifier) *Service {
	t.Helper()

	service, err := New(repo, accounts, notifier, testConfig())
	require.NoError(t, err)

	service.SetScheduler(scheduler)

	return service
}

func TestTransfer(t *testing.T) {
	sender := testAccount("1000000001", randompkg.Owner(), "1000")
	receiver := testAccount("1000000002", randompkg.Owner(), "500")
	amount := "100"

	completedResult := domain.MovementTxResult{
		Movement: domain.Movement{
			SenderAccount:   sender.Number,
			ReceiverAccount: receiver.Number,
			Amount:          amount,
			Kind:            domain.KindInternal,
			Status:          domain.StatusCompleted,
		},
	}

	pendingResult := domain.MovementTxResult{
		Movement: domain.Movement{
			Reference:       "b8f7e9d2-0000-0000-0000-000000000001",
			SenderAccount:   sender.Number,
			ExternalAccount: "9000000009",
			Amount:          amount,
			Kind:            domain.KindExternal,
			Status:          domain.StatusPending,
		},
	}

	testCases := []struct {
		name          string
		owner         string
		arg           TransferParams
		buildStubs    func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier)
		checkResponse func(res domain.MovementTxResult, err error)
	}{
		{
			name:  "Invalid amount",
			owner: sender.Owner,
			arg: TransferParams{
				ReceiverAccount: receiver.Number,
				Amount:          "!@#$",
				Kind:            domain.KindInternal,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(sender.Owner)).
					Times(1).
					Return(sender, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name:  "Negative amount",
			owner: sender.Owner,
			arg: TransferParams{
				ReceiverAccount: receiver.Number,
				Amount:          "-100",
				Kind:            domain.KindInternal,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(sender.Owner)).
					Times(1).
					Return(sender, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrNegativeAmount.Error())
			},
		},
		{
			name:  "Amount above limit",
			owner: sender.Owner,
			arg: TransferParams{
				ReceiverAccount: receiver.Number,
				Amount:          "10001",
				Kind:            domain.KindInternal,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(sender.Owner)).
					Times(1).
					Return(sender, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrAmountTooLarge.Error())
			},
		},
		{
			name:  "Sender account not found",
			owner: sender.Owner,
			arg: TransferParams{
				ReceiverAccount: receiver.Number,
				Amount:          amount,
				Kind:            domain.KindInternal,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(sender.Owner)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrAccountNotFound.Error())
			},
		},
		{
			name:  "Malformed receiver number",
			owner: sender.Owner,
			arg: TransferParams{
				ReceiverAccount: "12345",
				Amount:          amount,
				Kind:            domain.KindInternal,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(sender.Owner)).
					Times(1).
					Return(sender, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAccountNumber.Error())
			},
		},
		{
			name:  "Formatted receiver number is cleaned",
			owner: sender.Owner,
			arg: TransferParams{
				ReceiverAccount: "10-0000 0002",
				Amount:          amount,
				Kind:            domain.KindInternal,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(sender.Owner)).
					Times(1).
					Return(sender, nil)
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.Number)).
					Times(1).
					Return(receiver, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ context.Context, arg domain.MovementTxParams) (domain.MovementTxResult, error) {
						require.Equal(t, receiver.Number, arg.ReceiverAccount)
						return completedResult, nil
					})
				notifier.EXPECT().MovementSettled(gomock.Any()).Times(1)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, completedResult, res)
			},
		},
		{
			name:  "Self transfer",
			owner: sender.Owner,
			arg: TransferParams{
				ReceiverAccount: sender.Number,
				Amount:          amount,
				Kind:            domain.KindInternal,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(sender.Owner)).
					Times(1).
					Return(sender, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrSelfTransferDenied.Error())
			},
		},
		{
			name:  "Unsupported kind",
			owner: sender.Owner,
			arg: TransferParams{
				ReceiverAccount: receiver.Number,
				Amount:          amount,
				Kind:            domain.Kind("wire"),
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(sender.Owner)).
					Times(1).
					Return(sender, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrUnsupportedKind.Error())
			},
		},
		{
			name:  "Internal receiver not found",
			owner: sender.Owner,
			arg: TransferParams{
				ReceiverAccount: receiver.Number,
				Amount:          amount,
				Kind:            domain.KindInternal,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(sender.Owner)).
					Times(1).
					Return(sender, nil)
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.Number)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrAccountNotFound.Error())
			},
		},
		{
			name:  "Internal receiver not approved",
			owner: sender.Owner,
			arg: TransferParams{
				ReceiverAccount: receiver.Number,
				Amount:          amount,
				Kind:            domain.KindInternal,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(sender.Owner)).
					Times(1).
					Return(sender, nil)
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.Number)).
					Times(1).
					Return(domain.Account{Number: receiver.Number, Approved: false}, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrReceiverNotEligible.Error())
			},
		},
		{
			name:  "Internal insufficient funds",
			owner: sender.Owner,
			arg: TransferParams{
				ReceiverAccount: receiver.Number,
				Amount:          "5000",
				Kind:            domain.KindInternal,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(sender.Owner)).
					Times(1).
					Return(sender, nil)
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.Number)).
					Times(1).
					Return(receiver, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.MovementTxResult{}, &domain.InsufficientFundsError{Available: "1000", Requested: "5000"})
				notifier.EXPECT().MovementSettled(gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.Empty(t, res)

				var insufficientFunds *domain.InsufficientFundsError
				require.ErrorAs(t, err, &insufficientFunds)
				require.Equal(t, "1000", insufficientFunds.Available)
			},
		},
		{
			name:  "Internal OK",
			owner: sender.Owner,
			arg: TransferParams{
				ReceiverAccount: receiver.Number,
				Amount:          amount,
				Kind:            domain.KindInternal,
				Narration:       "rent",
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(sender.Owner)).
					Times(1).
					Return(sender, nil)
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.Number)).
					Times(1).
					Return(receiver, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ context.Context, arg domain.MovementTxParams) (domain.MovementTxResult, error) {
						require.NotEmpty(t, arg.Reference)
						require.Equal(t, sender.Number, arg.SenderAccount)
						require.Equal(t, receiver.Number, arg.ReceiverAccount)
						require.Empty(t, arg.ExternalAccount)
						require.Equal(t, amount, arg.Amount)
						require.Equal(t, domain.StatusCompleted, arg.Status)
						require.True(t, arg.DebitSender)
						require.True(t, arg.CreditReceiver)

						return completedResult, nil
					})
				scheduler.EXPECT().Schedule(gomock.Any()).Times(0)
				notifier.EXPECT().MovementSettled(gomock.Eq(completedResult.Movement)).Times(1)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, completedResult, res)
			},
		},
		{
			name:  "External OK",
			owner: sender.Owner,
			arg: TransferParams{
				ReceiverAccount: "9000000009",
				Amount:          amount,
				Kind:            domain.KindExternal,
			},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, scheduler *MockScheduler, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(sender.Owner)).
					Times(1).
					Return(sender, nil)
				accounts.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ context.Context, arg domain.MovementTxParams) (domain.MovementTxResult, error) {
						require.Equal(t, sender.Number, arg.SenderAccount)
						require.Empty(t, arg.ReceiverAccount)
						require.Equal(t, "9000000009", arg.ExternalAccount)
						require.Equal(t, domain.StatusPending, arg.Status)
						require.True(t, arg.DebitSender)
						require.False(t, arg.CreditReceiver)

						return pendingResult, nil
					})
				scheduler.EXPECT().Schedule(gomock.Eq(pendingResult.Movement.Reference)).Times(1)
				notifier.EXPECT().MovementSettled(gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, pendingResult, res)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			accounts := NewMockAccountService(ctrl)
			scheduler := NewMockScheduler(ctrl)
			notifier := NewMockNotifier(ctrl)

			service := newTestService(t, repo, accounts, scheduler, notifier)

			tc.buildStubs(repo, accounts, scheduler, notifier)

			tc.checkResponse(service.Transfer(context.Background(), tc.owner, tc.arg))
		})
	}
}

func TestDeposit(t *testing.T) {
	account := testAccount("1000000001", randompkg.Owner(), "1000")

	testCases := []struct {
		name          string
		arg           DepositParams
		buildStubs    func(repo *MockRepo, accounts *MockAccountService, notifier *MockNotifier)
		checkResponse func(res domain.MovementTxResult, err error)
	}{
		{
			name: "Invalid amount",
			arg:  DepositParams{Amount: "abc"},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(account.Owner)).
					Times(1).
					Return(account, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name: "Amount above limit",
			arg:  DepositParams{Amount: "50001"},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(account.Owner)).
					Times(1).
					Return(account, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrAmountTooLarge.Error())
			},
		},
		{
			name: "Below review threshold completes instantly",
			arg:  DepositParams{Amount: "1000", Description: "paycheck"},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(account.Owner)).
					Times(1).
					Return(account, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ context.Context, arg domain.MovementTxParams) (domain.MovementTxResult, error) {
						require.Equal(t, account.Number, arg.ReceiverAccount)
						require.Empty(t, arg.SenderAccount)
						require.Equal(t, domain.KindDeposit, arg.Kind)
						require.Equal(t, domain.StatusCompleted, arg.Status)
						require.True(t, arg.CreditReceiver)
						require.False(t, arg.DebitSender)

						return domain.MovementTxResult{
							Movement: domain.Movement{Status: domain.StatusCompleted},
						}, nil
					})
				notifier.EXPECT().MovementSettled(gomock.Any()).Times(1)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, domain.StatusCompleted, res.Movement.Status)
			},
		},
		{
			name: "Above review threshold stays pending",
			arg:  DepositParams{Amount: "1000.01"},
			buildStubs: func(repo *MockRepo, accounts *MockAccountService, notifier *MockNotifier) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(account.Owner)).
					Times(1).
					Return(account, nil)
				repo.EXPECT().Execute(gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ context.Context, arg domain.MovementTxParams) (domain.MovementTxResult, error) {
						require.Equal(t, domain.StatusPending, arg.Status)
						require.False(t, arg.CreditReceiver)

						return domain.MovementTxResult{
							Movement: domain.Movement{Status: domain.StatusPending},
						}, nil
					})
				notifier.EXPECT().MovementSettled(gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.MovementTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, domain.StatusPending, res.Movement.Status)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			accounts := NewMockAccountService(ctrl)
			notifier := NewMockNotifier(ctrl)

			service := newTestService(t, repo, accounts, NewMockScheduler(ctrl), notifier)

			tc.buildStubs(repo, accounts, notifier)

			tc.checkResponse(service.Deposit(context.Background(), account.Owner, tc.arg))
		})
	}
}

func TestSettle(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	notifier := NewMockNotifier(ctrl)
	service := newTestService(t, repo, NewMockAccountService(ctrl), NewMockScheduler(ctrl), notifier)

	arg := domain.SettleParams{
		Reference:    "b8f7e9d2-0000-0000-0000-000000000002",
		Approve:      true,
		AdminComment: "checked",
	}

	settled := domain.MovementTxResult{
		Movement: domain.Movement{
			Reference: arg.Reference,
			Status:    domain.StatusCompleted,
		},
	}

	repo.EXPECT().Settle(gomock.Any(), gomock.Eq(arg)).Times(1).Return(settled, nil)
	notifier.EXPECT().MovementSettled(gomock.Eq(settled.Movement)).Times(1)

	res, err := service.Settle(context.Background(), arg)
	require.NoError(t, err)
	require.Equal(t, settled, res)
}

func TestSettleAlreadyProcessed(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	notifier := NewMockNotifier(ctrl)
	service := newTestService(t, repo, NewMockAccountService(ctrl), NewMockScheduler(ctrl), notifier)

	arg := domain.SettleParams{Reference: "b8f7e9d2-0000-0000-0000-000000000003"}

	repo.EXPECT().Settle(gomock.Any(), gomock.Eq(arg)).
		Times(1).
		Return(domain.MovementTxResult{}, domain.ErrAlreadyProcessed)
	notifier.EXPECT().MovementSettled(gomock.Any()).Times(0)

	_, err := service.Settle(context.Background(), arg)
	require.EqualError(t, err, domain.ErrAlreadyProcessed.Error())
}

func TestCompleteExternal(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	notifier := NewMockNotifier(ctrl)
	service := newTestService(t, repo, NewMockAccountService(ctrl), NewMockScheduler(ctrl), notifier)

	reference := "b8f7e9d2-0000-0000-0000-000000000004"
	completed := domain.Movement{Reference: reference, Status: domain.StatusCompleted}

	repo.EXPECT().CompleteExternal(gomock.Any(), gomock.Eq(reference)).Times(1).Return(completed, nil)
	notifier.EXPECT().MovementSettled(gomock.Eq(completed)).Times(1)

	res, err := service.CompleteExternal(context.Background(), reference)
	require.NoError(t, err)
	require.Equal(t, completed, res)
}

func TestGet(t *testing.T) {
	account := testAccount("1000000001", randompkg.Owner(), "1000")
	reference := "b8f7e9d2-0000-0000-0000-000000000005"

	testCases := []struct {
		name          string
		buildStubs    func(repo *MockRepo, accounts *MockAccountService)
		checkResponse func(res domain.Movement, err error)
	}{
		{
			name: "Participant sees the movement",
			buildStubs: func(repo *MockRepo, accounts *MockAccountService) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(account.Owner)).
					Times(1).
					Return(account, nil)
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(reference)).
					Times(1).
					Return(domain.Movement{Reference: reference, SenderAccount: account.Number}, nil)
			},
			checkResponse: func(res domain.Movement, err error) {
				require.NoError(t, err)
				require.Equal(t, reference, res.Reference)
			},
		},
		{
			name: "Outsider gets not found",
			buildStubs: func(repo *MockRepo, accounts *MockAccountService) {
				accounts.EXPECT().GetByOwner(gomock.Any(), gomock.Eq(account.Owner)).
					Times(1).
					Return(account, nil)
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(reference)).
					Times(1).
					Return(domain.Movement{
						Reference:       reference,
						SenderAccount:   "2000000002",
						ReceiverAccount: "3000000003",
					}, nil)
			},
			checkResponse: func(res domain.Movement, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrMovementNotFound.Error())
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			accounts := NewMockAccountService(ctrl)
			service := newTestService(t, repo, accounts, NewMockScheduler(ctrl), NewMockNotifier(ctrl))

			tc.buildStubs(repo, accounts)

			tc.checkResponse(service.Get(context.Background(), account.Owner, reference))
		})
	}
}

func TestCleanAccountNumber(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1000000002", CleanAccountNumber("10-0000 0002"))
	require.Equal(t, "1000000002", CleanAccountNumber("1000000002"))
	require.Equal(t, "", CleanAccountNumber("!@#$%"))
}
