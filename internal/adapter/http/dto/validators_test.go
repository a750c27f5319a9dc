package dto

import (
	"errors"
	"testing"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validRequest() SubmitTransactionRequest {
	return SubmitTransactionRequest{
		Transcript:     "Ramesh ko paanch sau udhaar",
		Type:           "credit",
		Amount:         50000,
		CounterpartyID: uuid.NewString(),
		AccountID:      uuid.NewString(),
	}
}

func TestSanitizeStruct_LeavesTranscriptAlone(t *testing.T) {
	req := validRequest()
	req.Transcript = "  do <b>sau</b> ka doodh  "
	req.Type = "  sale "
	req.ProductID = strPtr("  milk-1l ")
	SanitizeStruct(&req)

	assert.Equal(t, "  do <b>sau</b> ka doodh  ", req.Transcript)
	assert.Equal(t, "sale", req.Type)
	assert.Equal(t, "milk-1l", *req.ProductID)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := validRequest()
	req.Language = strPtr("<script>hi</script>")
	SanitizeStruct(&req)

	assert.Equal(t, "&lt;script&gt;hi&lt;/script&gt;", *req.Language)
}

func TestSanitizeStruct_NilPointerAndNonPointer(t *testing.T) {
	req := validRequest()
	SanitizeStruct(&req)
	assert.Nil(t, req.Language)

	SanitizeStruct("hello")
}

func TestSafeID(t *testing.T) {
	for _, tc := range []string{"milk-1l", "SKU_002", "a.b.c"} {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
	for _, tc := range []string{"milk 1l", "sku<1>", "a;DROP", "", "a\nb"} {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %q", tc)
	}
}

func TestLangTag(t *testing.T) {
	for _, tc := range []string{"hi", "kn", "hi-IN", "mai"} {
		assert.True(t, langTagRe.MatchString(tc), "expected valid: %s", tc)
	}
	for _, tc := range []string{"Hindi", "h", "hi_IN", "hi-IN-x"} {
		assert.False(t, langTagRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestBinding_ValidRequest(t *testing.T) {
	req := validRequest()
	req.Language = strPtr("hi-IN")
	req.ProductID = strPtr("atta-5kg")
	qty := 2
	req.Quantity = &qty

	assert.NoError(t, binding.Validator.ValidateStruct(&req))
}

func TestBinding_Reasons(t *testing.T) {
	req := validRequest()
	req.Type = "gift"
	req.Amount = 0
	req.AccountID = "not-a-uuid"
	req.ProductID = strPtr("bad id")

	err := binding.Validator.ValidateStruct(&req)
	require.Error(t, err)

	reasons := BindingReasons(err)
	assert.Contains(t, reasons, "type must be one of: sale credit repay")
	assert.Contains(t, reasons, "amount must be greater than 0")
	assert.Contains(t, reasons, "account_id must be a UUID")
	assert.Contains(t, reasons, "product_id may only contain letters, digits, '_', '-' and '.'")
}

func TestBindingReasons_NotValidationError(t *testing.T) {
	assert.Equal(t, []string{"request body is not valid JSON"}, BindingReasons(errors.New("unexpected EOF")))
}

func TestConfirmationRequest_RequiresField(t *testing.T) {
	err := binding.Validator.ValidateStruct(&ConfirmationRequest{})
	require.Error(t, err)
	assert.Equal(t, []string{"confirmed is required"}, BindingReasons(err))

	no := false
	assert.NoError(t, binding.Validator.ValidateStruct(&ConfirmationRequest{Confirmed: &no}))
}

func TestPageQuery_Normalize(t *testing.T) {
	q := PageQuery{}
	q.Normalize()
	assert.Equal(t, PageQuery{Page: 1, PageSize: 20}, q)
}

func TestNewSubmitTransactionResponse(t *testing.T) {
	ref := "0xfeed"
	block := int64(12)
	tx := &domain.Transaction{
		ID:             uuid.New(),
		Status:         domain.StatusVerified,
		TranscriptHash: "abc",
		LedgerState:    domain.LedgerStateConfirmed,
		LedgerRef:      &ref,
		LedgerBlock:    &block,
	}
	resp := NewSubmitTransactionResponse(&ports.SubmitResult{
		Transaction:     tx,
		Decision:        domain.Decision{Status: domain.StatusVerified, Reasons: []string{"confirmed by counterparty"}},
		Fraud:           domain.FraudResult{RiskLevel: domain.RiskLow},
		LedgerSubmitted: true,
	})

	assert.Equal(t, tx.ID.String(), resp.TransactionID)
	assert.Equal(t, "verified", resp.Verification.Status)
	assert.Equal(t, []string{"confirmed by counterparty"}, resp.Verification.Reasons)
	assert.Equal(t, "low", resp.FraudCheck.RiskLevel)
	assert.NotNil(t, resp.FraudCheck.Reasons)
	assert.True(t, resp.Ledger.Submitted)
	assert.Equal(t, "0xfeed", *resp.Ledger.LedgerRef)
	assert.Equal(t, int64(12), *resp.Ledger.Block)
}

func TestNewTransactionListResponse_Pages(t *testing.T) {
	txs := []domain.Transaction{{ID: uuid.New()}, {ID: uuid.New()}}
	resp := NewTransactionListResponse(txs, 41, PageQuery{Page: 2, PageSize: 20})

	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.Page)
}
