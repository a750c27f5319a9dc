package handler

import (
	"vishwas-ledger/internal/adapter/http/dto"
	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"
	"vishwas-ledger/pkg/apperror"
	"vishwas-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles submission, confirmation and reads of transactions.
type TransactionHandler struct {
	verifySvc    ports.VerificationService
	reportingSvc ports.ReportingService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(verifySvc ports.VerificationService, reportingSvc ports.ReportingService) *TransactionHandler {
	return &TransactionHandler{verifySvc: verifySvc, reportingSvc: reportingSvc}
}

// Submit handles POST /api/v1/transactions.
func (h *TransactionHandler) Submit(c *gin.Context) {
	var req dto.SubmitTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("transaction failed validation", dto.BindingReasons(err)...))
		return
	}
	dto.SanitizeStruct(&req)

	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	result, err := h.verifySvc.Submit(c.Request.Context(), ports.SubmitRequest{
		Transcript:            req.Transcript,
		Type:                  domain.TransactionType(req.Type),
		Amount:                req.Amount,
		AccountID:             uuid.MustParse(req.AccountID),
		CounterpartyID:        uuid.MustParse(req.CounterpartyID),
		CounterpartyConfirmed: req.CounterpartyConfirmed,
		Language:              req.Language,
		ProductID:             req.ProductID,
		Quantity:              quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewSubmitTransactionResponse(result))
}

// Get handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	tx, err := h.verifySvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewTransactionResponse(tx))
}

// Confirm handles POST /api/v1/transactions/:id/confirmation from the confirmation bot.
func (h *TransactionHandler) Confirm(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.ConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation("invalid confirmation", dto.BindingReasons(err)...))
		return
	}

	result, err := h.verifySvc.Confirm(c.Request.Context(), id, *req.Confirmed)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewSubmitTransactionResponse(result))
}

// ListVerified handles GET /api/v1/accounts/:id/verified-transactions.
// Only ledger-anchored verified transactions are returned.
func (h *TransactionHandler) ListVerified(c *gin.Context) {
	accountID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	q, ok := bindPage(c)
	if !ok {
		return
	}

	txs, total, err := h.reportingSvc.ListVerified(c.Request.Context(), accountID, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewTransactionListResponse(txs, total, q))
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperror.Validation("invalid path parameter", name+" must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func bindPage(c *gin.Context) (dto.PageQuery, bool) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation("invalid pagination", dto.BindingReasons(err)...))
		return q, false
	}
	q.Normalize()
	return q, true
}
