package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"vishwas-ledger/internal/core/domain"
	"vishwas-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultPromptRetryIntervals are the waits between prompt delivery attempts.
var DefaultPromptRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
}

// EventConfirmationRequested is the event type sent to the confirmation bot.
const EventConfirmationRequested = "CONFIRMATION_REQUESTED"

// PromptPayload is the JSON body posted to the confirmation bot.
type PromptPayload struct {
	EventType string            `json:"event_type"`
	Data      PromptPayloadData `json:"data"`
}

// PromptPayloadData identifies the transaction the counterparty must confirm.
type PromptPayloadData struct {
	TransactionID  string `json:"transaction_id"`
	AccountID      string `json:"account_id"`
	CounterpartyID string `json:"counterparty_id"`
	Type           string `json:"type"`
	Amount         int64  `json:"amount"`
	CallbackPath   string `json:"callback_path"`
	Timestamp      int64  `json:"timestamp"`
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// PromptNotifier implements ports.ConfirmationNotifier by posting a signed
// prompt to the chat bot that talks to the counterparty.
type PromptNotifier struct {
	url        string
	secret     string
	sigSvc     ports.SignatureService
	prompts    ports.PromptRepository
	httpClient HTTPClient
	intervals  []time.Duration
	log        zerolog.Logger

	// ctx outlives requests and is cancelled by Close.
	ctx      context.Context
	stop     context.CancelFunc
	inflight sync.WaitGroup
}

// NewPromptNotifier creates a notifier. Nil intervals means DefaultPromptRetryIntervals.
func NewPromptNotifier(
	url string,
	secret string,
	sigSvc ports.SignatureService,
	prompts ports.PromptRepository,
	httpClient HTTPClient,
	intervals []time.Duration,
	log zerolog.Logger,
) *PromptNotifier {
	if intervals == nil {
		intervals = DefaultPromptRetryIntervals
	}
	ctx, stop := context.WithCancel(context.Background())
	return &PromptNotifier{
		ctx:        ctx,
		stop:       stop,
		url:        url,
		secret:     secret,
		sigSvc:     sigSvc,
		prompts:    prompts,
		httpClient: httpClient,
		intervals:  intervals,
		log:        log,
	}
}

// Prompt sends the confirmation request asynchronously with retries. Deliveries
// stop when the notifier is closed; the request ctx is not used for them.
func (n *PromptNotifier) Prompt(_ context.Context, tx *domain.Transaction) error {
	if n.url == "" {
		n.log.Debug().Str("tx_id", tx.ID.String()).Msg("prompt: no bot URL configured, skipping")
		return nil
	}

	payload := PromptPayload{
		EventType: EventConfirmationRequested,
		Data: PromptPayloadData{
			TransactionID:  tx.ID.String(),
			AccountID:      tx.AccountID.String(),
			CounterpartyID: tx.CounterpartyID.String(),
			Type:           string(tx.Type),
			Amount:         tx.Amount,
			CallbackPath:   fmt.Sprintf("/api/v1/transactions/%s/confirmation", tx.ID),
			Timestamp:      time.Now().Unix(),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal prompt: %w", err)
	}

	if n.ctx.Err() != nil {
		n.log.Warn().Str("tx_id", tx.ID.String()).Msg("prompt: notifier closed, not sending")
		return nil
	}

	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		n.deliverWithRetries(n.ctx, tx.ID, body)
	}()
	return nil
}

// Close cancels pending deliveries and waits for their goroutines to return.
func (n *PromptNotifier) Close() {
	n.stop()
	n.inflight.Wait()
}

func (n *PromptNotifier) deliverWithRetries(ctx context.Context, txID uuid.UUID, body []byte) {
	for attempt := 1; attempt <= len(n.intervals)+1; attempt++ {
		if attempt > 1 && !sleepCtx(ctx, n.intervals[attempt-2]) {
			n.log.Warn().Str("tx_id", txID.String()).Int("next_attempt", attempt).Msg("prompt: shutting down, retries abandoned")
			return
		}

		status, err := n.deliver(ctx, body)
		delivery := &domain.PromptDelivery{
			ID:            uuid.New(),
			TransactionID: txID,
			URL:           n.url,
			Payload:       string(body),
			Attempt:       attempt,
			Status:        domain.PromptStatusFailed,
			CreatedAt:     time.Now().UTC(),
		}
		if status != 0 {
			delivery.HTTPStatus = &status
		}
		if err == nil {
			delivery.Status = domain.PromptStatusDelivered
		} else {
			msg := err.Error()
			delivery.LastError = &msg
		}
		if rerr := n.prompts.Create(context.WithoutCancel(ctx), delivery); rerr != nil {
			n.log.Error().Err(rerr).Str("tx_id", txID.String()).Msg("prompt: failed to log delivery")
		}

		if err == nil {
			n.log.Info().Str("tx_id", txID.String()).Int("attempt", attempt).Int("status", status).Msg("prompt: delivered")
			return
		}
		n.log.Warn().Err(err).Str("tx_id", txID.String()).Int("attempt", attempt).Msg("prompt: delivery failed")
	}

	n.log.Error().Str("tx_id", txID.String()).Msg("prompt: all retry attempts exhausted")
}

func (n *PromptNotifier) deliver(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	ts := time.Now().Unix()
	nonce := uuid.NewString()
	canonical := n.sigSvc.BuildCanonicalString(http.MethodPost, req.URL.Path, ts, nonce, string(body))

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Timestamp", strconv.FormatInt(ts, 10))
	req.Header.Set("X-Nonce", nonce)
	req.Header.Set("X-Signature", n.sigSvc.Sign(n.secret, canonical))

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("bot answered %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

// sleepCtx waits for d and reports false if ctx ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
