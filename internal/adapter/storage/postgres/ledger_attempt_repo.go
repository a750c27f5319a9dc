package postgres

import (
	"context"
	"fmt"

	"vishwas-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// LedgerAttemptRepo implements ports.LedgerAttemptRepository. Rows are append-only.
type LedgerAttemptRepo struct {
	pool Pool
}

// NewLedgerAttemptRepo creates a new LedgerAttemptRepo.
func NewLedgerAttemptRepo(pool Pool) *LedgerAttemptRepo {
	return &LedgerAttemptRepo{pool: pool}
}

// Create appends one attempt to the log.
func (r *LedgerAttemptRepo) Create(ctx context.Context, a *domain.LedgerAttempt) error {
	query := `INSERT INTO ledger_attempts (id, subject_type, subject_id, ledger_key, outcome, error, ledger_ref, attempted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.SubjectType, a.SubjectID, a.LedgerKey, a.Outcome, a.Error, a.LedgerRef, a.AttemptedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger attempt: %w", err)
	}
	return nil
}

// ListBySubject returns the attempts for a transaction or batch, oldest first.
func (r *LedgerAttemptRepo) ListBySubject(ctx context.Context, subjectID uuid.UUID) ([]domain.LedgerAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, subject_type, subject_id, ledger_key, outcome, error, ledger_ref, attempted_at
		FROM ledger_attempts WHERE subject_id = $1 ORDER BY attempted_at ASC`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list ledger attempts: %w", err)
	}
	defer rows.Close()

	var out []domain.LedgerAttempt
	for rows.Next() {
		var a domain.LedgerAttempt
		if err := rows.Scan(
			&a.ID, &a.SubjectType, &a.SubjectID, &a.LedgerKey, &a.Outcome, &a.Error, &a.LedgerRef, &a.AttemptedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// PromptRepo implements ports.PromptRepository.
type PromptRepo struct {
	pool Pool
}

// NewPromptRepo creates a new PromptRepo.
func NewPromptRepo(pool Pool) *PromptRepo {
	return &PromptRepo{pool: pool}
}

// Create logs one confirmation prompt delivery attempt.
func (r *PromptRepo) Create(ctx context.Context, d *domain.PromptDelivery) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO prompt_deliveries (id, transaction_id, url, payload, http_status, attempt, status, last_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.TransactionID, d.URL, d.Payload, d.HTTPStatus, d.Attempt, d.Status, d.LastError, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prompt delivery: %w", err)
	}
	return nil
}
