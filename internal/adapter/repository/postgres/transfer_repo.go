package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkotenko/bankcore/internal/domain"
	"github.com/dkotenko/bankcore/internal/usecase"
)

const transferColumns = `id, transaction_id, from_account_id, to_account_id,
	amount, currency, created_at`

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// Create inserts a transfer inside the given database transaction.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transfers (`+transferColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		transfer.ID,
		transfer.TransactionID,
		transfer.FromAccountID,
		transfer.ToAccountID,
		decimalToNumeric(transfer.Amount),
		string(transfer.Currency),
		timeToPgTimestamptz(transfer.CreatedAt),
	)

	return err
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transferColumns+`
		FROM transfers
		WHERE id = $1`, id)

	var (
		transfer domain.Transfer
		amount   pgtype.Numeric
		currency string
		created  pgtype.Timestamptz
	)

	err := row.Scan(
		&transfer.ID,
		&transfer.TransactionID,
		&transfer.FromAccountID,
		&transfer.ToAccountID,
		&amount,
		&currency,
		&created,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	transfer.Amount = numericToDecimal(amount)
	transfer.Currency = domain.Currency(currency)
	transfer.CreatedAt = created.Time

	return &transfer, nil
}
