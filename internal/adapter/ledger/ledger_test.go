package ledger

import (
	"context"
	"testing"

	"vishwas-ledger/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Memory(t *testing.T) {
	c, err := New(context.Background(), config.LedgerConfig{
		Driver: "memory",
		Memory: config.MemLedgerConfig{FeeBalance: 42},
	}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "memory", c.Name())
	bal, err := c.FeeBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), bal)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestNew_FormanceNeedsCredentials(t *testing.T) {
	_, err := New(context.Background(), config.LedgerConfig{Driver: "formance"}, zerolog.Nop())
	assert.ErrorContains(t, err, "client_id")
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.LedgerConfig{Driver: "sqlite"}, zerolog.Nop())
	assert.ErrorContains(t, err, `unknown ledger driver "sqlite"`)
}
