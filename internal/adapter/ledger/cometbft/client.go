// Package cometbft writes ledger entries as transactions on a CometBFT chain.
package cometbft

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vishwas-ledger/internal/core/domain"

	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	cmthttp "github.com/cometbft/cometbft/rpc/client/http"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/rs/zerolog"
)

// CheckTx codes returned by the shop-ledger ABCI application.
const (
	CodeOK            uint32 = 0
	CodeMalformed     uint32 = 1
	CodeNotRegistered uint32 = 2
	CodeDuplicate     uint32 = 3
)

const (
	opRecordTransaction = "record_transaction"
	opRecordBatch       = "record_batch"
	opRegisterAccount   = "register_account"
)

// rpcClient is the part of the CometBFT RPC client the ledger uses.
type rpcClient interface {
	BroadcastTxCommit(ctx context.Context, tx cmttypes.Tx) (*coretypes.ResultBroadcastTxCommit, error)
	Tx(ctx context.Context, hash []byte, prove bool) (*coretypes.ResultTx, error)
	ABCIQuery(ctx context.Context, path string, data cmtbytes.HexBytes) (*coretypes.ResultABCIQuery, error)
	Status(ctx context.Context) (*coretypes.ResultStatus, error)
}

// envelope is the on-chain payload. Fields are fixed-order so equal entries
// encode to equal bytes and therefore equal tx hashes.
type envelope struct {
	Op        string `json:"op"`
	Key       string `json:"key,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Hash      string `json:"hash,omitempty"`
	Address   string `json:"address"`
	Amount    int64  `json:"amount,omitempty"`
	TypeCode  uint8  `json:"type_code"`
	SubjectID string `json:"subject_id,omitempty"`
	Timestamp int64  `json:"ts,omitempty"`
}

// Client implements ports.LedgerClient on CometBFT.
type Client struct {
	rpc       rpcClient
	submitter string
	log       zerolog.Logger
}

// New connects to a CometBFT node's RPC endpoint.
func New(rpcAddr, submitter string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	httpClient, err := cmthttp.NewWithClient(rpcAddr, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("create cometbft client: %w", err)
	}
	if err := httpClient.Start(); err != nil {
		return nil, fmt.Errorf("start cometbft client: %w", err)
	}

	log.Info().Str("rpc", rpcAddr).Str("submitter", submitter).Msg("cometbft ledger client ready")
	return newClient(httpClient, submitter, log), nil
}

func newClient(rpc rpcClient, submitter string, log zerolog.Logger) *Client {
	return &Client{rpc: rpc, submitter: submitter, log: log.With().Str("ledger", "cometbft").Logger()}
}

// Name returns the backend name.
func (c *Client) Name() string { return "cometbft" }

// Ping checks the node answers status requests.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.rpc.Status(ctx); err != nil {
		return fmt.Errorf("cometbft status: %w", err)
	}
	return nil
}

// RegisterAccount creates the shop address on-chain. Registering twice is fine.
func (c *Client) RegisterAccount(ctx context.Context, address string) error {
	tx, err := encode(envelope{Op: opRegisterAccount, Address: address})
	if err != nil {
		return err
	}
	res, err := c.rpc.BroadcastTxCommit(ctx, tx)
	if err != nil {
		if isAlreadyInCache(err) {
			return nil
		}
		return domain.NewLedgerError(domain.ErrLedgerUnavailable, "register account", err)
	}
	switch code := res.CheckTx.Code; code {
	case CodeOK, CodeDuplicate:
		c.log.Info().Str("address", address).Msg("account registered on chain")
		return nil
	default:
		return domain.NewLedgerError(domain.ErrLedgerRejected,
			fmt.Sprintf("register account: code %d: %s", code, res.CheckTx.Log), nil)
	}
}

// RecordTransaction writes one credit or repay entry.
func (c *Client) RecordTransaction(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerReceipt, error) {
	return c.record(ctx, opRecordTransaction, entry)
}

// RecordBatch writes one daily sales batch.
func (c *Client) RecordBatch(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerReceipt, error) {
	return c.record(ctx, opRecordBatch, entry)
}

func (c *Client) record(ctx context.Context, op string, entry domain.LedgerEntry) (*domain.LedgerReceipt, error) {
	tx, err := encode(envelope{
		Op:        op,
		Key:       entry.Key,
		Kind:      string(entry.Kind),
		Hash:      entry.Hash,
		Address:   entry.Address,
		Amount:    entry.Amount,
		TypeCode:  entry.TypeCode,
		SubjectID: entry.SubjectID.String(),
		Timestamp: entry.Timestamp.Unix(),
	})
	if err != nil {
		return nil, err
	}

	// A previous attempt may have committed before its response was lost.
	if existing, err := c.lookup(ctx, tx.Hash()); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	res, err := c.rpc.BroadcastTxCommit(ctx, tx)
	if err != nil {
		if isAlreadyInCache(err) {
			return &domain.LedgerReceipt{Ref: hex.EncodeToString(tx.Hash()), AlreadyRecorded: true}, nil
		}
		return nil, domain.NewLedgerError(domain.ErrLedgerUnavailable, "broadcast", err)
	}

	switch code := res.CheckTx.Code; code {
	case CodeOK:
	case CodeNotRegistered:
		return nil, domain.NewLedgerError(domain.ErrAccountNotRegistered, entry.Address, nil)
	case CodeDuplicate:
		if existing, err := c.lookup(ctx, tx.Hash()); err == nil && existing != nil {
			return existing, nil
		}
		return &domain.LedgerReceipt{Ref: hex.EncodeToString(tx.Hash()), AlreadyRecorded: true}, nil
	default:
		return nil, domain.NewLedgerError(domain.ErrLedgerRejected,
			fmt.Sprintf("check tx code %d: %s", code, res.CheckTx.Log), nil)
	}
	if res.TxResult.Code != CodeOK {
		return nil, domain.NewLedgerError(domain.ErrLedgerRejected,
			fmt.Sprintf("exec tx code %d: %s", res.TxResult.Code, res.TxResult.Log), nil)
	}

	receipt := &domain.LedgerReceipt{Ref: hex.EncodeToString(res.Hash), Block: res.Height}
	c.log.Debug().Str("ledger_key", entry.Key).Str("ledger_ref", receipt.Ref).Int64("block", receipt.Block).
		Msg("entry committed")
	return receipt, nil
}

// lookup returns a receipt when the tx is already in a block, nil when unknown.
func (c *Client) lookup(ctx context.Context, hash []byte) (*domain.LedgerReceipt, error) {
	res, err := c.rpc.Tx(ctx, hash, false)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewLedgerError(domain.ErrLedgerUnavailable, "tx lookup", err)
	}
	return &domain.LedgerReceipt{Ref: hex.EncodeToString(res.Hash), Block: res.Height, AlreadyRecorded: true}, nil
}

// GetTransaction reads an entry back by its tx hash.
func (c *Client) GetTransaction(ctx context.Context, ref string) (*domain.LedgerRecord, error) {
	hash, err := hex.DecodeString(ref)
	if err != nil {
		return nil, domain.NewLedgerError(domain.ErrRecordNotFound, "malformed ref "+ref, nil)
	}
	res, err := c.rpc.Tx(ctx, hash, false)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewLedgerError(domain.ErrRecordNotFound, ref, nil)
		}
		return nil, domain.NewLedgerError(domain.ErrLedgerUnavailable, "tx lookup", err)
	}

	var env envelope
	if err := json.Unmarshal(res.Tx, &env); err != nil {
		return nil, fmt.Errorf("decode ledger tx %s: %w", ref, err)
	}
	return &domain.LedgerRecord{
		Ref:       ref,
		Block:     res.Height,
		Key:       env.Key,
		Hash:      env.Hash,
		Address:   env.Address,
		Amount:    env.Amount,
		TypeCode:  env.TypeCode,
		Kind:      domain.EntryKind(env.Kind),
		Timestamp: time.Unix(env.Timestamp, 0).UTC(),
	}, nil
}

// FeeBalance asks the application for the submitter's fee balance.
func (c *Client) FeeBalance(ctx context.Context) (int64, error) {
	res, err := c.rpc.ABCIQuery(ctx, "/fees/balance/"+c.submitter, nil)
	if err != nil {
		return 0, domain.NewLedgerError(domain.ErrLedgerUnavailable, "fee balance query", err)
	}
	if res.Response.Code != CodeOK {
		return 0, domain.NewLedgerError(domain.ErrLedgerUnavailable,
			fmt.Sprintf("fee balance query code %d: %s", res.Response.Code, res.Response.Log), nil)
	}
	raw := strings.TrimSpace(string(res.Response.Value))
	if raw == "" {
		return 0, nil
	}
	balance, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse fee balance %q: %w", raw, err)
	}
	return balance, nil
}

func encode(env envelope) (cmttypes.Tx, error) {
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode ledger tx: %w", err)
	}
	return cmttypes.Tx(b), nil
}

func isNotFound(err error) bool {
	return strings.Contains(err.Error(), "not found")
}

func isAlreadyInCache(err error) bool {
	return strings.Contains(err.Error(), "tx already exists in cache")
}
