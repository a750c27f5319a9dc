package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id                 UUID PRIMARY KEY,
		name               TEXT NOT NULL,
		ledger_address     TEXT NOT NULL UNIQUE,
		ledger_registered  BOOLEAN NOT NULL DEFAULT FALSE,
		total_sales        BIGINT NOT NULL DEFAULT 0,
		credit_outstanding BIGINT NOT NULL DEFAULT 0,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS counterparties (
		id                 UUID PRIMARY KEY,
		account_id         UUID NOT NULL REFERENCES accounts(id),
		name               TEXT NOT NULL,
		credit_outstanding BIGINT NOT NULL DEFAULT 0,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_items (
		account_id UUID NOT NULL REFERENCES accounts(id),
		product_id TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		unit_price BIGINT NOT NULL CHECK (unit_price > 0),
		PRIMARY KEY (account_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_batches (
		id                   UUID PRIMARY KEY,
		account_id           UUID NOT NULL REFERENCES accounts(id),
		business_date        TEXT NOT NULL,
		total                BIGINT NOT NULL CHECK (total > 0),
		sale_count           INT NOT NULL,
		batch_hash           TEXT NOT NULL,
		ledger_state         TEXT NOT NULL,
		ledger_ref           TEXT,
		ledger_block         BIGINT,
		ledger_attempts      INT NOT NULL DEFAULT 0,
		ledger_next_retry_at TIMESTAMPTZ,
		ledger_last_error    TEXT,
		created_at           TIMESTAMPTZ NOT NULL,
		updated_at           TIMESTAMPTZ NOT NULL,
		UNIQUE (account_id, business_date)
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id                     UUID PRIMARY KEY,
		account_id             UUID NOT NULL REFERENCES accounts(id),
		counterparty_id        UUID NOT NULL REFERENCES counterparties(id),
		type                   TEXT NOT NULL CHECK (type IN ('sale', 'credit', 'repay')),
		amount                 BIGINT NOT NULL CHECK (amount > 0),
		transcript             TEXT NOT NULL,
		transcript_hash        TEXT NOT NULL,
		language               TEXT,
		product_id             TEXT,
		quantity               INT NOT NULL DEFAULT 1,
		status                 TEXT NOT NULL,
		risk_level             TEXT NOT NULL,
		risk_score             DOUBLE PRECISION NOT NULL DEFAULT 0,
		risk_reasons           TEXT[] NOT NULL DEFAULT '{}',
		needs_review           BOOLEAN NOT NULL DEFAULT FALSE,
		counterparty_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
		confirmed_at           TIMESTAMPTZ,
		ledger_state           TEXT NOT NULL,
		ledger_ref             TEXT,
		ledger_block           BIGINT,
		ledger_attempts        INT NOT NULL DEFAULT 0,
		ledger_next_retry_at   TIMESTAMPTZ,
		ledger_last_error      TEXT,
		ledger_error_code      TEXT,
		batch_id               UUID REFERENCES daily_batches(id),
		created_at             TIMESTAMPTZ NOT NULL,
		updated_at             TIMESTAMPTZ NOT NULL,
		CHECK (ledger_ref IS NULL OR status = 'verified')
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_ledger_pending
		ON transactions (created_at)
		WHERE status = 'verified' AND ledger_ref IS NULL AND type IN ('credit', 'repay')`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_unbatched_sales
		ON transactions (account_id, created_at)
		WHERE type = 'sale' AND status = 'verified' AND batch_id IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_counterparty ON transactions (counterparty_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions (account_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS ledger_attempts (
		id           UUID PRIMARY KEY,
		subject_type TEXT NOT NULL,
		subject_id   UUID NOT NULL,
		ledger_key   TEXT NOT NULL,
		outcome      TEXT NOT NULL,
		error        TEXT,
		ledger_ref   TEXT,
		attempted_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_attempts_subject ON ledger_attempts (subject_id, attempted_at)`,
	`CREATE TABLE IF NOT EXISTS prompt_deliveries (
		id             UUID PRIMARY KEY,
		transaction_id UUID NOT NULL REFERENCES transactions(id),
		url            TEXT NOT NULL,
		payload        TEXT NOT NULL,
		http_status    INT,
		attempt        INT NOT NULL,
		status         TEXT NOT NULL,
		last_error     TEXT,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
}
