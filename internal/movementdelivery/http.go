// Package movementdelivery manages delivery layer of money movements.
package movementdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-demi/demi-bank/internal/domain"
	"github.com/go-demi/demi-bank/internal/middleware"
	"github.com/go-demi/demi-bank/internal/movementservice"
	"github.com/go-demi/demi-bank/pkg/errorspkg"
	"github.com/go-demi/demi-bank/pkg/tokenpkg"
	"github.com/go-demi/demi-bank/pkg/web"
)

// Service provides service layer interface needed by movement delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package movementdelivery
type Service interface {
	Transfer(ctx context.Context, owner string, arg movementservice.TransferParams) (domain.MovementTxResult, error)
	Deposit(ctx context.Context, owner string, arg movementservice.DepositParams) (domain.MovementTxResult, error)
	Get(ctx context.Context, owner, reference string) (domain.Movement, error)
	List(ctx context.Context, owner string, pageSize, pageID int32) ([]domain.Movement, error)
}

// Handler facilitates movement delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns movement handler.
func NewHandler(ms Service) *Handler {
	return &Handler{
		service: ms,
	}
}

type movementData struct {
	Movement domain.Movement `json:"movement"`
}

type transferRequest struct {
	ReceiverAccount string `json:"receiver_account" binding:"required"`
	Amount          string `json:"amount" binding:"required"`
	Type            string `json:"type" binding:"required,oneof=internal external"`
	Narration       string `json:"narration" binding:"omitempty,max=500"`
	Reference       string `json:"reference" binding:"omitempty,max=64"`
}

// CreateTransfer handles http request to move money to another account.
func (h *Handler) CreateTransfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	arg := movementservice.TransferParams{
		ReceiverAccount: req.ReceiverAccount,
		Amount:          req.Amount,
		Kind:            domain.Kind(req.Type),
		Narration:       req.Narration,
		ClientReference: req.Reference,
	}

	result, err := h.service.Transfer(ctx, authPayload.Username, arg)
	if err != nil {
		l.Info().Err(err).Send()
		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Message: statusMessage(result.Movement),
		Data:    movementData{result.Movement},
	})
}

type depositRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Reference   string `json:"reference" binding:"omitempty,max=64"`
}

// CreateDeposit handles http request to deposit money into the own account.
func (h *Handler) CreateDeposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req depositRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	arg := movementservice.DepositParams{
		Amount:          req.Amount,
		Description:     req.Description,
		ClientReference: req.Reference,
	}

	result, err := h.service.Deposit(ctx, authPayload.Username, arg)
	if err != nil {
		l.Info().Err(err).Send()
		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Message: statusMessage(result.Movement),
		Data:    movementData{result.Movement},
	})
}

type getRequest struct {
	Reference string `uri:"reference" binding:"required,uuid"`
}

// Get handles http request to get one movement of the authenticated user.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	movement, err := h.service.Get(ctx, authPayload.Username, req.Reference)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: movementData{movement}})
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

type listData struct {
	Movements []domain.Movement `json:"movements"`
}

// List handles http request to list movements of the authenticated user.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	movements, err := h.service.List(ctx, authPayload.Username, req.PageSize, req.PageID)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: listData{movements}})
}

// statusMessage renders the user facing summary of a created movement.
func statusMessage(m domain.Movement) string {
	switch {
	case m.Status == domain.StatusCompleted && m.Kind == domain.KindDeposit:
		return "deposit completed"
	case m.Status == domain.StatusCompleted:
		return "transfer completed"
	case m.Kind == domain.KindDeposit:
		return "deposit received and awaiting review"
	default:
		return "transfer accepted and pending external processing"
	}
}

func bindingError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return err.Error()
}

// writeError maps service errors to http statuses.
func writeError(gctx *gin.Context, err error) {
	var insufficientFunds *domain.InsufficientFundsError
	if errors.As(err, &insufficientFunds) {
		gctx.JSON(http.StatusBadRequest, web.Error(insufficientFunds))
		return
	}

	switch err {
	case domain.ErrInvalidAmount,
		domain.ErrNegativeAmount,
		domain.ErrAmountTooLarge,
		domain.ErrInvalidAccountNumber,
		domain.ErrSelfTransferDenied,
		domain.ErrReceiverNotEligible:
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case domain.ErrAccountNotFound, domain.ErrMovementNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case domain.ErrDuplicateReference, domain.ErrAlreadyProcessed:
		gctx.JSON(http.StatusConflict, web.Error(err))
	case domain.ErrTransactionAborted:
		// No partial effect was left behind; the client may retry the
		// whole request.
		gctx.JSON(http.StatusConflict, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}
