package middleware

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"

	"vishwas-ledger/internal/core/ports"
	"vishwas-ledger/pkg/apperror"
	"vishwas-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Headers the confirmation bot signs every callback with.
const (
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Timestamp"
	HeaderNonce     = "X-Nonce"
)

// Context keys set by the auth middleware.
const (
	CtxOperatorID   = "operator_id"
	CtxOperatorRole = "operator_role"
	CtxSignedCaller = "signed_caller"
)

const (
	defaultMaxDrift = time.Minute
	defaultNonceTTL = 2 * time.Minute

	// botCaller namespaces bot nonces in the nonce store and names the caller
	// for rate limiting.
	botCaller = "confirmation"
)

// ConfirmationAuthConfig configures ConfirmationAuth. Zero durations fall back
// to a one minute drift window and a two minute nonce TTL.
type ConfirmationAuthConfig struct {
	Secret   string
	Signer   ports.SignatureService
	Nonces   ports.NonceStore
	MaxDrift time.Duration
	NonceTTL time.Duration
	Now      func() time.Time
	Logger   zerolog.Logger
}

func (c ConfirmationAuthConfig) withDefaults() ConfirmationAuthConfig {
	if c.MaxDrift <= 0 {
		c.MaxDrift = defaultMaxDrift
	}
	if c.NonceTTL <= 0 {
		c.NonceTTL = defaultNonceTTL
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

func reject(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err)
	c.Abort()
}

// ConfirmationAuth admits only callbacks signed by the confirmation bot.
// A request must carry a fresh timestamp, an unseen nonce and a valid
// signature over method, path, timestamp, nonce and body. If the nonce store
// is unreachable the request is let through on its signature alone.
func ConfirmationAuth(cfg ConfirmationAuthConfig) gin.HandlerFunc {
	cfg = cfg.withDefaults()

	return func(c *gin.Context) {
		sig := c.GetHeader(HeaderSignature)
		rawTs := c.GetHeader(HeaderTimestamp)
		nonce := c.GetHeader(HeaderNonce)
		if sig == "" || rawTs == "" || nonce == "" {
			reject(c, apperror.ErrInvalidSignature())
			return
		}

		ts, err := strconv.ParseInt(rawTs, 10, 64)
		if err != nil {
			reject(c, apperror.ErrTimestampExpired())
			return
		}
		drift := cfg.Now().Sub(time.Unix(ts, 0))
		if drift < -cfg.MaxDrift || drift > cfg.MaxDrift {
			reject(c, apperror.ErrTimestampExpired())
			return
		}

		fresh, err := cfg.Nonces.CheckAndSet(c.Request.Context(), botCaller, nonce, cfg.NonceTTL)
		switch {
		case err != nil:
			cfg.Logger.Warn().Err(err).Msg("nonce store unavailable, skipping replay check")
		case !fresh:
			reject(c, apperror.ErrNonceUsed())
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			reject(c, apperror.Validation("cannot read request body"))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		canonical := cfg.Signer.BuildCanonicalString(c.Request.Method, c.Request.URL.Path, ts, nonce, string(body))
		if !cfg.Signer.Verify(cfg.Secret, canonical, sig) {
			cfg.Logger.Warn().Str("path", c.Request.URL.Path).Msg("confirmation signature mismatch")
			reject(c, apperror.ErrInvalidSignature())
			return
		}

		c.Set(CtxSignedCaller, botCaller)
		c.Next()
	}
}

// OperatorAuth admits requests carrying a valid operator bearer token.
func OperatorAuth(tokens ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			reject(c, apperror.ErrInvalidToken())
			return
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			log.Debug().Err(err).Msg("operator token rejected")
			reject(c, apperror.ErrInvalidToken())
			return
		}

		c.Set(CtxOperatorID, claims.OperatorID)
		c.Set(CtxOperatorRole, claims.Role)
		c.Next()
	}
}
