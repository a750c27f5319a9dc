package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Audit actions recorded for state-changing requests.
const (
	AuditActionSubmit    = "transaction.submit"
	AuditActionConfirm   = "transaction.confirm"
	AuditActionReconcile = "ledger.reconcile"
)

// AuditLog writes one audit event per successful state-changing request.
// Events carry the route template, never the body.
func AuditLog(log zerolog.Logger) gin.HandlerFunc {
	audit := log.With().Str("component", "audit").Logger()
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		action := mapRouteToAction(c.Request.Method, c.FullPath())
		if action == "" {
			return
		}

		event := audit.Info().
			Str("action", action).
			Str("route", c.FullPath()).
			Int("status", status).
			Str("client_ip", c.ClientIP())
		if id := c.Param("id"); id != "" {
			event = event.Str("tx_id", id)
		}
		if op := c.GetString(CtxOperatorID); op != "" {
			event = event.Str("operator_id", op)
		}
		event.Msg("audit")
	}
}

func mapRouteToAction(method, route string) string {
	if method != http.MethodPost {
		return ""
	}
	switch route {
	case "/api/v1/transactions":
		return AuditActionSubmit
	case "/api/v1/transactions/:id/confirmation":
		return AuditActionConfirm
	case "/api/v1/operator/reconcile":
		return AuditActionReconcile
	}
	return ""
}
