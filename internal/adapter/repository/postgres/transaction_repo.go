package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkotenko/bankcore/internal/domain"
	"github.com/dkotenko/bankcore/internal/usecase"
)

const transactionColumns = `id, type, status, reference_number, description,
	initiated_at, completed_at, created_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transaction inside the given database transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		txn.ID,
		string(txn.Type),
		string(txn.Status),
		txn.ReferenceNumber,
		txn.Description,
		timeToPgTimestamptz(txn.InitiatedAt),
		timePtrToPgTimestamptz(txn.CompletedAt),
		timeToPgTimestamptz(txn.CreatedAt),
	)

	return err
}

// MarkCompleted transitions a transaction to COMPLETED.
func (r *TransactionRepository) MarkCompleted(ctx context.Context, tx usecase.Transaction, id string, completedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE transactions
		SET status = $2, completed_at = $3
		WHERE id = $1`,
		id, string(domain.TransactionStatusCompleted), timeToPgTimestamptz(completedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1`, id)

	return scanTransaction(row)
}

// ListByFilter lists transactions matching the filter, completed_at
// descending with not-yet-completed rows last.
func (r *TransactionRepository) ListByFilter(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	var (
		conditions []string
		args       []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.IDs) > 0 {
		conditions = append(conditions, "id = ANY("+arg(filter.IDs)+")")
	}
	if filter.Type != nil {
		conditions = append(conditions, "type = "+arg(string(*filter.Type)))
	}
	if filter.From != nil {
		conditions = append(conditions, "completed_at >= "+arg(timeToPgTimestamptz(*filter.From)))
	}
	if filter.To != nil {
		conditions = append(conditions, "completed_at < "+arg(timeToPgTimestamptz(*filter.To)))
	}

	query := "SELECT " + transactionColumns + " FROM transactions"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY completed_at DESC NULLS LAST, created_at DESC"
	query += " LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]*domain.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn       domain.Transaction
		txnType   string
		status    string
		initiated pgtype.Timestamptz
		completed pgtype.Timestamptz
		created   pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txnType,
		&status,
		&txn.ReferenceNumber,
		&txn.Description,
		&initiated,
		&completed,
		&created,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	txn.Type = domain.TransactionType(txnType)
	txn.Status = domain.TransactionStatus(status)
	txn.InitiatedAt = initiated.Time
	txn.CompletedAt = pgTimestamptzToTimePtr(completed)
	txn.CreatedAt = created.Time

	return &txn, nil
}
