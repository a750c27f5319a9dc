// Package formance writes ledger entries to a Formance Stack ledger.
package formance

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"vishwas-ledger/internal/core/domain"

	v3 "github.com/formancehq/formance-sdk-go/v3"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/operations"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/sdkerrors"
	"github.com/formancehq/formance-sdk-go/v3/pkg/models/shared"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Config selects the stack, ledger and asset.
type Config struct {
	StackURL     string
	ClientID     string
	ClientSecret string
	LedgerName   string
	Asset        string // UMN notation, e.g. INR/2
	Submitter    string
}

// ledgerAPI is the subset of the Formance v2 ledger API the client calls.
type ledgerAPI interface {
	CreateLedger(ctx context.Context, request operations.V2CreateLedgerRequest, opts ...operations.Option) (*operations.V2CreateLedgerResponse, error)
	GetLedger(ctx context.Context, request operations.V2GetLedgerRequest, opts ...operations.Option) (*operations.V2GetLedgerResponse, error)
	CreateTransaction(ctx context.Context, request operations.V2CreateTransactionRequest, opts ...operations.Option) (*operations.V2CreateTransactionResponse, error)
	ListTransactions(ctx context.Context, request operations.V2ListTransactionsRequest, opts ...operations.Option) (*operations.V2ListTransactionsResponse, error)
	GetAccount(ctx context.Context, request operations.V2GetAccountRequest, opts ...operations.Option) (*operations.V2GetAccountResponse, error)
	AddMetadataToAccount(ctx context.Context, request operations.V2AddMetadataToAccountRequest, opts ...operations.Option) (*operations.V2AddMetadataToAccountResponse, error)
}

// numscriptRecord posts the entry amount into the shop's per-type account.
// Everything needed to rebuild the entry is kept in transaction metadata.
const numscriptRecord = `vars {
  asset $asset
  number $amount
  account $address
  account $entry_type
  string $ledger_key
  string $hash
  string $type_code
  string $kind
  string $subject_id
  string $amount_human
}

send [$asset $amount] (
  source = @world
  destination = @shops:$address:$entry_type
)

set_tx_meta("ledger_key", $ledger_key)
set_tx_meta("hash", $hash)
set_tx_meta("address", $address)
set_tx_meta("amount", $amount)
set_tx_meta("type_code", $type_code)
set_tx_meta("kind", $kind)
set_tx_meta("subject_id", $subject_id)
set_tx_meta("amount_human", $amount_human)
`

const registeredMetaKey = "registered"

// Client implements ports.LedgerClient on Formance.
type Client struct {
	api    ledgerAPI
	cfg    Config
	log    zerolog.Logger
	known  sync.Map // address -> struct{}, registered addresses seen by this process
	digits int32
}

// New connects to the stack and creates the ledger if it does not exist yet.
func New(ctx context.Context, cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.StackURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("formance ledger requires stack_url, client_id and client_secret")
	}
	sdk := v3.New(
		v3.WithServerURL(cfg.StackURL),
		v3.WithSecurity(shared.Security{
			ClientID:     v3.Pointer(cfg.ClientID),
			ClientSecret: v3.Pointer(cfg.ClientSecret),
		}),
	)

	c := newClient(sdk.Ledger.V2, cfg, log)
	if err := c.ensureLedger(ctx); err != nil {
		return nil, fmt.Errorf("ensure formance ledger %s: %w", cfg.LedgerName, err)
	}
	c.log.Info().Str("stack_url", cfg.StackURL).Msg("formance ledger client ready")
	return c, nil
}

func newClient(api ledgerAPI, cfg Config, log zerolog.Logger) *Client {
	if cfg.Asset == "" {
		cfg.Asset = "INR/2"
	}
	return &Client{
		api:    api,
		cfg:    cfg,
		log:    log.With().Str("ledger", "formance").Str("ledger_name", cfg.LedgerName).Logger(),
		digits: assetDigits(cfg.Asset),
	}
}

func (c *Client) ensureLedger(ctx context.Context) error {
	_, err := c.api.CreateLedger(ctx, operations.V2CreateLedgerRequest{
		Ledger: c.cfg.LedgerName,
		V2CreateLedgerRequest: shared.V2CreateLedgerRequest{
			Metadata: map[string]string{"application": "vishwas-ledger"},
		},
	})
	if err != nil && !hasErrorCode(err, shared.V2ErrorsEnumLedgerAlreadyExists) {
		return err
	}
	return nil
}

// Name returns the backend name.
func (c *Client) Name() string { return "formance" }

// Ping checks the ledger is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.GetLedger(ctx, operations.V2GetLedgerRequest{Ledger: c.cfg.LedgerName}); err != nil {
		return fmt.Errorf("formance get ledger: %w", err)
	}
	return nil
}

// RegisterAccount marks the shop account as registered in its metadata.
func (c *Client) RegisterAccount(ctx context.Context, address string) error {
	_, err := c.api.AddMetadataToAccount(ctx, operations.V2AddMetadataToAccountRequest{
		Ledger:      c.cfg.LedgerName,
		Address:     shopAccount(address),
		RequestBody: map[string]string{registeredMetaKey: "true"},
	})
	if err != nil {
		return classify("register account", err)
	}
	c.known.Store(address, struct{}{})
	c.log.Info().Str("address", address).Msg("account registered on ledger")
	return nil
}

// RecordTransaction writes one credit or repay entry.
func (c *Client) RecordTransaction(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerReceipt, error) {
	return c.record(ctx, entry)
}

// RecordBatch writes one daily sales batch.
func (c *Client) RecordBatch(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerReceipt, error) {
	return c.record(ctx, entry)
}

func (c *Client) record(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerReceipt, error) {
	if err := c.requireRegistered(ctx, entry.Address); err != nil {
		return nil, err
	}

	ts := entry.Timestamp.UTC().Truncate(time.Second)
	resp, err := c.api.CreateTransaction(ctx, operations.V2CreateTransactionRequest{
		Ledger: c.cfg.LedgerName,
		V2PostTransaction: shared.V2PostTransaction{
			Reference: v3.Pointer(entry.Key),
			Timestamp: &ts,
			Script: &shared.V2PostTransactionScript{
				Plain: numscriptRecord,
				Vars: map[string]string{
					"asset":        c.cfg.Asset,
					"amount":       strconv.FormatInt(entry.Amount, 10),
					"address":      entry.Address,
					"entry_type":   entryType(entry),
					"ledger_key":   entry.Key,
					"hash":         entry.Hash,
					"type_code":    strconv.Itoa(int(entry.TypeCode)),
					"kind":         string(entry.Kind),
					"subject_id":   entry.SubjectID.String(),
					"amount_human": decimal.New(entry.Amount, -c.digits).StringFixed(c.digits),
				},
			},
		},
	})
	if err != nil {
		if hasErrorCode(err, shared.V2ErrorsEnumConflict) {
			return c.existing(ctx, entry.Key)
		}
		return nil, classify("create transaction", err)
	}
	if resp == nil || resp.V2CreateTransactionResponse == nil {
		return nil, domain.NewLedgerError(domain.ErrLedgerRejected, "empty create transaction response", nil)
	}

	tx := resp.V2CreateTransactionResponse.Data
	receipt := &domain.LedgerReceipt{Ref: entry.Key, Block: txID(tx)}
	c.log.Debug().Str("ledger_key", entry.Key).Int64("block", receipt.Block).Msg("entry committed")
	return receipt, nil
}

// existing resolves a reference conflict to the receipt of the stored transaction.
func (c *Client) existing(ctx context.Context, key string) (*domain.LedgerReceipt, error) {
	tx, err := c.findByReference(ctx, key)
	if err != nil || tx == nil {
		c.log.Warn().Err(err).Str("ledger_key", key).Msg("conflicting reference could not be read back")
		return &domain.LedgerReceipt{Ref: key, AlreadyRecorded: true}, nil
	}
	return &domain.LedgerReceipt{Ref: key, Block: txID(*tx), AlreadyRecorded: true}, nil
}

func (c *Client) findByReference(ctx context.Context, ref string) (*shared.V2Transaction, error) {
	pageSize := int64(1)
	resp, err := c.api.ListTransactions(ctx, operations.V2ListTransactionsRequest{
		Ledger:   c.cfg.LedgerName,
		PageSize: &pageSize,
		RequestBody: map[string]any{
			"$match": map[string]any{"reference": ref},
		},
	})
	if err != nil {
		return nil, classify("list transactions", err)
	}
	if resp == nil || resp.V2TransactionsCursorResponse == nil || len(resp.V2TransactionsCursorResponse.Cursor.Data) == 0 {
		return nil, nil
	}
	tx := resp.V2TransactionsCursorResponse.Cursor.Data[0]
	return &tx, nil
}

// GetTransaction reads an entry back by its reference.
func (c *Client) GetTransaction(ctx context.Context, ref string) (*domain.LedgerRecord, error) {
	tx, err := c.findByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.NewLedgerError(domain.ErrRecordNotFound, ref, nil)
	}

	meta := tx.Metadata
	amount, _ := strconv.ParseInt(meta["amount"], 10, 64)
	typeCode, _ := strconv.ParseUint(meta["type_code"], 10, 8)
	return &domain.LedgerRecord{
		Ref:       ref,
		Block:     txID(*tx),
		Key:       meta["ledger_key"],
		Hash:      meta["hash"],
		Address:   meta["address"],
		Amount:    amount,
		TypeCode:  uint8(typeCode),
		Kind:      domain.EntryKind(meta["kind"]),
		Timestamp: tx.Timestamp,
	}, nil
}

// FeeBalance returns the balance of the submitter's fee account.
func (c *Client) FeeBalance(ctx context.Context) (int64, error) {
	resp, err := c.api.GetAccount(ctx, operations.V2GetAccountRequest{
		Ledger:  c.cfg.LedgerName,
		Address: "fees:" + c.cfg.Submitter,
		Expand:  v3.Pointer("volumes"),
	})
	if err != nil {
		if hasErrorCode(err, shared.V2ErrorsEnumNotFound) {
			return 0, nil
		}
		return 0, classify("fee balance", err)
	}
	if resp == nil || resp.V2AccountResponse == nil {
		return 0, nil
	}
	vol, ok := resp.V2AccountResponse.Data.Volumes[c.cfg.Asset]
	if !ok || vol.Balance == nil {
		return 0, nil
	}
	return vol.Balance.Int64(), nil
}

// requireRegistered fails with ErrAccountNotRegistered until RegisterAccount has run for address.
func (c *Client) requireRegistered(ctx context.Context, address string) error {
	if _, ok := c.known.Load(address); ok {
		return nil
	}
	resp, err := c.api.GetAccount(ctx, operations.V2GetAccountRequest{
		Ledger:  c.cfg.LedgerName,
		Address: shopAccount(address),
	})
	if err != nil && !hasErrorCode(err, shared.V2ErrorsEnumNotFound) {
		return classify("get account", err)
	}
	if err == nil && resp != nil && resp.V2AccountResponse != nil &&
		resp.V2AccountResponse.Data.Metadata[registeredMetaKey] == "true" {
		c.known.Store(address, struct{}{})
		return nil
	}
	return domain.NewLedgerError(domain.ErrAccountNotRegistered, address, nil)
}

func shopAccount(address string) string { return "shops:" + address }

func entryType(e domain.LedgerEntry) string {
	if e.Kind == domain.EntryKindBatch {
		return "sales"
	}
	switch e.TypeCode {
	case 1:
		return "credit"
	case 2:
		return "repay"
	}
	return "sales"
}

func txID(tx shared.V2Transaction) int64 {
	if tx.ID == nil {
		return 0
	}
	return tx.ID.Int64()
}

// assetDigits reads the precision from UMN notation; INR/2 -> 2.
func assetDigits(asset string) int32 {
	for i := len(asset) - 1; i >= 0; i-- {
		if asset[i] == '/' {
			if d, err := strconv.Atoi(asset[i+1:]); err == nil {
				return int32(d)
			}
			break
		}
	}
	return 0
}

func hasErrorCode(err error, code shared.V2ErrorsEnum) bool {
	var apiErr *sdkerrors.V2ErrorResponse
	return errors.As(err, &apiErr) && apiErr.ErrorCode == code
}

// classify maps SDK errors onto ledger error kinds. Validation-type API
// errors are rejections; transport failures and server errors are retryable.
func classify(op string, err error) error {
	var apiErr *sdkerrors.V2ErrorResponse
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode {
		case shared.V2ErrorsEnumInternal:
			return domain.NewLedgerError(domain.ErrLedgerUnavailable, op, err)
		case shared.V2ErrorsEnumInsufficientFund:
			return domain.NewLedgerError(domain.ErrInsufficientFunds, op, err)
		default:
			return domain.NewLedgerError(domain.ErrLedgerRejected, op+": "+string(apiErr.ErrorCode), err)
		}
	}
	return domain.NewLedgerError(domain.ErrLedgerUnavailable, op, err)
}
