package config

// defaults covers every key so a deployment can run on VSL_* variables alone.
var defaults = map[string]any{
	"server.host": "0.0.0.0",
	"server.port": 8080,
	"server.mode": "debug",

	"database.host":              "localhost",
	"database.port":              5432,
	"database.user":              "postgres",
	"database.password":          "postgres",
	"database.dbname":            "vishwas",
	"database.sslmode":           "disable",
	"database.max_conns":         20,
	"database.min_conns":         5,
	"database.conn_max_lifetime": "30m",

	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret": "",
	"jwt.issuer": "vishwas-dashboard",

	"confirmation.secret":       "",
	"confirmation.prompt_url":   "",
	"confirmation.http_timeout": "10s",
	"confirmation.max_drift":    "60s",
	"confirmation.nonce_ttl":    "120s",

	"log.level":  "info",
	"log.pretty": false,

	"ledger.driver":               "memory",
	"ledger.submitter":            "vishwas-node",
	"ledger.fee_per_write":        1,
	"ledger.timeout":              "15s",
	"ledger.pending":              "redis",
	"ledger.cometbft.rpc_url":     "http://localhost:26657",
	"ledger.formance.stack_url":   "http://localhost:3068",
	"ledger.formance.ledger_name": "vishwas",
	"ledger.formance.asset":       "INR/2",
	"ledger.memory.fee_balance":   1_000_000,

	"fraud.credit_multiple":  2.0,
	"fraud.frequency_limit":  3,
	"fraud.frequency_window": "24h",
	"fraud.off_hours_start":  22,
	"fraud.off_hours_end":    6,
	"fraud.price_band":       0.20,
	"fraud.critical_score":   0.85,
	"fraud.timezone":         "Asia/Kolkata",
	"fraud.history_ttl":      "30s",

	"reconcile.interval":     "5m",
	"reconcile.grace_period": "2m",
	"reconcile.max_retries":  5,
	"reconcile.backoff_base": "1m",
	"reconcile.backoff_max":  "1h",
	"reconcile.batch_size":   200,
	"reconcile.lock_ttl":     "4m",

	"aggregator.cutover":  "23:55",
	"aggregator.timezone": "Asia/Kolkata",

	"queue.workers": 4,
	"queue.size":    256,

	"ratelimit.backend": "redis",
}
