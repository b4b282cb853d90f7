package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
)

type ClaimLedgerRepository struct {
	db *sqlx.DB
}

func NewClaimLedgerRepo(db *sqlx.DB) *ClaimLedgerRepository {
	return &ClaimLedgerRepository{db: db}
}

type claimRow struct {
	ID                uuid.UUID            `db:"id"`
	ProfileAddress    string               `db:"profile_address"`
	XPAmount          string               `db:"xp_amount"`
	Status            domain.XPClaimStatus `db:"status"`
	Error             *string              `db:"error"`
	TransactionResult *string              `db:"transaction_result"`
	CreatedAt         time.Time            `db:"created_at"`
}

func (r claimRow) toDomain() domain.XPClaimRecord {
	rec := domain.XPClaimRecord{
		ID:             r.ID,
		ProfileAddress: r.ProfileAddress,
		XPAmount:       r.XPAmount,
		Status:         r.Status,
		Error:          r.Error,
		CreatedAt:      r.CreatedAt,
	}
	if r.TransactionResult != nil {
		rec.TransactionResult = json.RawMessage(*r.TransactionResult)
	}
	return rec
}

func (r *ClaimLedgerRepository) Record(ctx context.Context, record domain.XPClaimRecord) error {
	const query = `
		INSERT INTO xp_claims (id, profile_address, xp_amount, status, error, transaction_result, created_at)
		VALUES ($1, $2, $3::numeric, $4, $5, $6::jsonb, $7)
	`

	var result *string
	if len(record.TransactionResult) > 0 {
		s := string(record.TransactionResult)
		result = &s
	}

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.ProfileAddress,
		record.XPAmount,
		string(record.Status),
		record.Error,
		result,
		record.CreatedAt,
	)
	return err
}

func (r *ClaimLedgerRepository) ListByProfile(ctx context.Context, profileAddress string, limit, offset int) ([]domain.XPClaimRecord, error) {
	const query = `
		SELECT
			id,
			profile_address,
			xp_amount::text AS xp_amount,
			status,
			error,
			transaction_result::text AS transaction_result,
			created_at
		FROM xp_claims
		WHERE profile_address = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	var rows []claimRow
	if err := r.db.SelectContext(ctx, &rows, query, profileAddress, limit, offset); err != nil {
		return nil, err
	}

	records := make([]domain.XPClaimRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toDomain())
	}
	return records, nil
}
