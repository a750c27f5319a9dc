package handler

import (
	"vishwas-ledger/internal/adapter/http/dto"
	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"
	"vishwas-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// OperatorHandler serves the operator view of ledger failures and reviews.
type OperatorHandler struct {
	reportingSvc ports.ReportingService
	reconciler   ports.Reconciler
}

// NewOperatorHandler creates a new OperatorHandler.
func NewOperatorHandler(reportingSvc ports.ReportingService, reconciler ports.Reconciler) *OperatorHandler {
	return &OperatorHandler{reportingSvc: reportingSvc, reconciler: reconciler}
}

// LedgerFailures handles GET /api/v1/operator/ledger-failures.
func (h *OperatorHandler) LedgerFailures(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}
	txs, total, err := h.reportingSvc.ListLedgerFailures(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewTransactionListResponse(txs, total, q))
}

// Flagged handles GET /api/v1/operator/flagged.
func (h *OperatorHandler) Flagged(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}
	txs, total, err := h.reportingSvc.ListFlagged(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewTransactionListResponse(txs, total, q))
}

// Attempts handles GET /api/v1/operator/ledger-attempts/:id.
func (h *OperatorHandler) Attempts(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	attempts, err := h.reportingSvc.ListAttempts(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if attempts == nil {
		attempts = []domain.LedgerAttempt{}
	}
	response.OK(c, attempts)
}

// Reconcile handles POST /api/v1/operator/reconcile.
func (h *OperatorHandler) Reconcile(c *gin.Context) {
	report, err := h.reconciler.RunOnce(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}
