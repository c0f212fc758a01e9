// Package admindelivery manages the delivery layer of back office
// operations: user approval, settlement of pending movements and
// account oversight.
package admindelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-demi/demi-bank/internal/domain"
	"github.com/go-demi/demi-bank/pkg/errorspkg"
	"github.com/go-demi/demi-bank/pkg/web"
)

// UserService provides the user operations needed by the admin delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package admindelivery
type UserService interface {
	Approve(ctx context.Context, username string) (domain.UserWithoutPassword, domain.Account, error)
}

// MovementService provides the settlement operations needed by the admin
// delivery layer.
type MovementService interface {
	Settle(ctx context.Context, arg domain.SettleParams) (domain.MovementTxResult, error)
	ListPending(ctx context.Context, pageSize, pageID int32) ([]domain.Movement, error)
}

// AccountService provides the account listing needed by the admin delivery layer.
type AccountService interface {
	List(ctx context.Context, pageSize, pageID int32) ([]domain.Account, error)
}

// Handler facilitates admin delivery layer logic.
type Handler struct {
	users     UserService
	movements MovementService
	accounts  AccountService
}

// NewHandler returns admin handler.
func NewHandler(us UserService, ms MovementService, as AccountService) *Handler {
	return &Handler{
		users:     us,
		movements: ms,
		accounts:  as,
	}
}

type approveUserRequest struct {
	Username string `uri:"username" binding:"required,alphanum"`
}

type approveUserData struct {
	User    domain.UserWithoutPassword `json:"user"`
	Account domain.Account             `json:"account"`
}

// ApproveUser handles http request to approve a verified user and open
// their account.
func (h *Handler) ApproveUser(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req approveUserRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	user, account, err := h.users.Approve(ctx, req.Username)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrUserNotVerified:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrUserAlreadyApproved:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		Message: "user approved and account opened",
		Data:    approveUserData{User: user, Account: account},
	}

	gctx.JSON(http.StatusOK, res)
}

type settleURI struct {
	Reference string `uri:"reference" binding:"required,uuid"`
}

type settleRequest struct {
	Action       string `json:"action" binding:"required,oneof=approve reject"`
	AdminComment string `json:"admin_comment" binding:"omitempty,max=500"`
}

type movementData struct {
	Movement domain.Movement `json:"movement"`
}

// Settle handles http request to complete or fail a pending movement.
func (h *Handler) Settle(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri settleURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	var req settleRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	arg := domain.SettleParams{
		Reference:    uri.Reference,
		Approve:      req.Action == "approve",
		AdminComment: req.AdminComment,
	}

	result, err := h.movements.Settle(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case domain.ErrMovementNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrAlreadyProcessed:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		case domain.ErrTransactionAborted:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	// Only external transfers debit the sender up front, so only their
	// rejection gives anything back.
	message := "movement failed"
	switch {
	case result.Movement.Status == domain.StatusCompleted:
		message = "movement completed"
	case result.Movement.Kind == domain.KindExternal:
		message = "movement failed and funds returned"
	}

	res := web.Response{
		Message: message,
		Data:    movementData{result.Movement},
	}

	gctx.JSON(http.StatusOK, res)
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

type movementsData struct {
	Movements []domain.Movement `json:"movements"`
}

// ListPending handles http request to list movements awaiting settlement.
func (h *Handler) ListPending(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	movements, err := h.movements.ListPending(ctx, req.PageSize, req.PageID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: movementsData{movements}})
}

type accountsData struct {
	Accounts []domain.Account `json:"accounts"`
}

// ListAccounts handles http request to list all accounts.
func (h *Handler) ListAccounts(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	accounts, err := h.accounts.List(ctx, req.PageSize, req.PageID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: accountsData{accounts}})
}

func bindingError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return err.Error()
}
