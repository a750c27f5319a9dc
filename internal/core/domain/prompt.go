package domain

import (
	"time"

	"github.com/google/uuid"
)

// PromptStatus is the delivery state of a confirmation prompt.
type PromptStatus string

const (
	PromptStatusPending   PromptStatus = "pending"
	PromptStatusDelivered PromptStatus = "delivered"
	PromptStatusFailed    PromptStatus = "failed"
)

// PromptDelivery records one attempt to ask a counterparty to confirm a transaction.
type PromptDelivery struct {
	ID            uuid.UUID    `json:"id"`
	TransactionID uuid.UUID    `json:"transaction_id"`
	URL           string       `json:"url"`
	Payload       string       `json:"payload"`
	HTTPStatus    *int         `json:"http_status"`
	Attempt       int          `json:"attempt"`
	Status        PromptStatus `json:"status"`
	LastError     *string      `json:"last_error"`
	CreatedAt     time.Time    `json:"created_at"`
}
