package dto

import (
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"
)

// SubmitTransactionRequest is the body of POST /api/v1/transactions.
// The transcript is hashed verbatim, so it is never rewritten by SanitizeStruct.
type SubmitTransactionRequest struct {
	Transcript            string  `json:"transcript" binding:"required,max=4000" sanitize:"-"`
	Type                  string  `json:"type" binding:"required,oneof=sale credit repay"`
	Amount                int64   `json:"amount" binding:"gt=0"`
	CounterpartyID        string  `json:"counterparty_id" binding:"required,uuid"`
	AccountID             string  `json:"account_id" binding:"required,uuid"`
	CounterpartyConfirmed bool    `json:"counterparty_confirmed"`
	Language              *string `json:"language,omitempty" binding:"omitempty,lang_tag"`
	ProductID             *string `json:"product_id,omitempty" binding:"omitempty,max=64,safe_id"`
	Quantity              *int    `json:"quantity,omitempty" binding:"omitempty,gte=0,lte=100000"`
}

// ConfirmationRequest is the body the confirmation bot posts back.
type ConfirmationRequest struct {
	Confirmed *bool `json:"confirmed" binding:"required"`
}

// PageQuery holds pagination query parameters.
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalize fills in defaults.
func (q *PageQuery) Normalize() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = 20
	}
}

// VerificationView is the verification part of a submission response.
type VerificationView struct {
	Status         string   `json:"status"`
	TranscriptHash string   `json:"transcript_hash"`
	Reasons        []string `json:"reasons"`
	NeedsReview    bool     `json:"needs_review"`
}

// FraudView is the fraud-check part of a submission response.
type FraudView struct {
	RiskLevel string   `json:"risk_level"`
	Score     float64  `json:"score"`
	Reasons   []string `json:"reasons"`
}

// LedgerView is the ledger part of a submission response.
type LedgerView struct {
	Submitted bool    `json:"submitted"`
	State     string  `json:"state"`
	LedgerRef *string `json:"ledger_ref,omitempty"`
	Block     *int64  `json:"block,omitempty"`
}

// SubmitTransactionResponse is returned on submission and confirmation.
type SubmitTransactionResponse struct {
	TransactionID string           `json:"transaction_id"`
	Verification  VerificationView `json:"verification"`
	FraudCheck    FraudView        `json:"fraud_check"`
	Ledger        LedgerView       `json:"ledger"`
}

// NewSubmitTransactionResponse maps a service result to the response body.
func NewSubmitTransactionResponse(res *ports.SubmitResult) SubmitTransactionResponse {
	tx := res.Transaction
	return SubmitTransactionResponse{
		TransactionID: tx.ID.String(),
		Verification: VerificationView{
			Status:         string(tx.Status),
			TranscriptHash: tx.TranscriptHash,
			Reasons:        nonNil(res.Decision.Reasons),
			NeedsReview:    tx.NeedsReview,
		},
		FraudCheck: FraudView{
			RiskLevel: string(res.Fraud.RiskLevel),
			Score:     res.Fraud.Score,
			Reasons:   nonNil(res.Fraud.Reasons),
		},
		Ledger: LedgerView{
			Submitted: res.LedgerSubmitted,
			State:     string(tx.LedgerState),
			LedgerRef: tx.LedgerRef,
			Block:     tx.LedgerBlock,
		},
	}
}

// TransactionResponse is the read view of a stored transaction.
type TransactionResponse struct {
	ID                    string   `json:"id"`
	AccountID             string   `json:"account_id"`
	CounterpartyID        string   `json:"counterparty_id"`
	Type                  string   `json:"type"`
	Amount                int64    `json:"amount"`
	TranscriptHash        string   `json:"transcript_hash"`
	Status                string   `json:"verification_status"`
	NeedsReview           bool     `json:"needs_review"`
	RiskLevel             string   `json:"risk_level"`
	RiskReasons           []string `json:"risk_reasons"`
	CounterpartyConfirmed bool     `json:"counterparty_confirmed"`
	LedgerState           string   `json:"ledger_state"`
	LedgerRef             *string  `json:"ledger_ref,omitempty"`
	LedgerBlock           *int64   `json:"ledger_block,omitempty"`
	LedgerAttempts        int      `json:"ledger_attempts"`
	LedgerErrorCode       *string  `json:"ledger_error_code,omitempty"`
	LedgerLastError       *string  `json:"ledger_last_error,omitempty"`
	BatchID               *string  `json:"batch_id,omitempty"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

// NewTransactionResponse maps a domain transaction to its read view.
func NewTransactionResponse(tx *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                    tx.ID.String(),
		AccountID:             tx.AccountID.String(),
		CounterpartyID:        tx.CounterpartyID.String(),
		Type:                  string(tx.Type),
		Amount:                tx.Amount,
		TranscriptHash:        tx.TranscriptHash,
		Status:                string(tx.Status),
		NeedsReview:           tx.NeedsReview,
		RiskLevel:             string(tx.RiskLevel),
		RiskReasons:           nonNil(tx.RiskReasons),
		CounterpartyConfirmed: tx.CounterpartyConfirmed,
		LedgerState:           string(tx.LedgerState),
		LedgerRef:             tx.LedgerRef,
		LedgerBlock:           tx.LedgerBlock,
		LedgerAttempts:        tx.LedgerAttempts,
		LedgerErrorCode:       tx.LedgerErrorCode,
		LedgerLastError:       tx.LedgerLastError,
		CreatedAt:             tx.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:             tx.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if tx.BatchID != nil {
		id := tx.BatchID.String()
		resp.BatchID = &id
	}
	return resp
}

// TransactionListResponse wraps a paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// NewTransactionListResponse builds a page of read views.
func NewTransactionListResponse(txs []domain.Transaction, total int64, q PageQuery) TransactionListResponse {
	items := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		items = append(items, NewTransactionResponse(&txs[i]))
	}
	pages := 0
	if q.PageSize > 0 {
		pages = int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	}
	return TransactionListResponse{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: pages,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
