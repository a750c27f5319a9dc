// Package ledger builds the configured immutable-ledger backend.
package ledger

import (
	"context"
	"fmt"

	"vishwas-ledger/config"
	"vishwas-ledger/internal/adapter/ledger/cometbft"
	"vishwas-ledger/internal/adapter/ledger/formance"
	"vishwas-ledger/internal/adapter/ledger/memory"
	"vishwas-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// Client is a ledger backend that can also report its health.
type Client interface {
	ports.LedgerClient
	ports.HealthChecker
}

var (
	_ Client = (*cometbft.Client)(nil)
	_ Client = (*formance.Client)(nil)
	_ Client = (*memory.Client)(nil)
)

// New creates the backend named by cfg.Driver.
func New(ctx context.Context, cfg config.LedgerConfig, log zerolog.Logger) (Client, error) {
	switch cfg.Driver {
	case "cometbft":
		return cometbft.New(cfg.CometBFT.RPCURL, cfg.Submitter, cfg.Timeout, log)
	case "formance":
		return formance.New(ctx, formance.Config{
			StackURL:     cfg.Formance.StackURL,
			ClientID:     cfg.Formance.ClientID,
			ClientSecret: cfg.Formance.ClientSecret,
			LedgerName:   cfg.Formance.LedgerName,
			Asset:        cfg.Formance.Asset,
			Submitter:    cfg.Submitter,
		}, log)
	case "memory":
		log.Warn().Msg("using in-memory ledger; entries are lost on restart")
		return memory.New(cfg.Memory.FeeBalance), nil
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", cfg.Driver)
	}
}
