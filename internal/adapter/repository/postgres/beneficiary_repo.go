package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkotenko/bankcore/internal/domain"
)

// BeneficiaryRepository implements usecase.BeneficiaryRepository.
type BeneficiaryRepository struct {
	pool *pgxpool.Pool
}

// NewBeneficiaryRepository creates a new BeneficiaryRepository.
func NewBeneficiaryRepository(pool *pgxpool.Pool) *BeneficiaryRepository {
	return &BeneficiaryRepository{pool: pool}
}

// Add saves a beneficiary edge. The (user, beneficiary) pair is unique.
func (r *BeneficiaryRepository) Add(ctx context.Context, edge *domain.Beneficiary) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO beneficiaries (user_id, beneficiary_user_id, added_at)
		VALUES ($1, $2, $3)`,
		edge.UserID,
		edge.BeneficiaryUserID,
		timeToPgTimestamptz(edge.AddedAt),
	)
	if isUniqueViolation(err) {
		return domain.ErrBeneficiaryExists
	}

	return err
}

// Remove deletes a beneficiary edge.
func (r *BeneficiaryRepository) Remove(ctx context.Context, userID, beneficiaryUserID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM beneficiaries
		WHERE user_id = $1 AND beneficiary_user_id = $2`,
		userID, beneficiaryUserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBeneficiaryNotFound
	}

	return nil
}

// ListByUser lists a user's beneficiary edges, oldest first.
func (r *BeneficiaryRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Beneficiary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, beneficiary_user_id, added_at
		FROM beneficiaries
		WHERE user_id = $1
		ORDER BY added_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edges := make([]*domain.Beneficiary, 0)
	for rows.Next() {
		var (
			edge    domain.Beneficiary
			addedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&edge.UserID, &edge.BeneficiaryUserID, &addedAt); err != nil {
			return nil, err
		}
		edge.AddedAt = addedAt.Time
		edges = append(edges, &edge)
	}

	return edges, rows.Err()
}
