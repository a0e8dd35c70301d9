package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkotenko/bankcore/internal/domain"
	"github.com/dkotenko/bankcore/internal/usecase"
)

const entryColumns = `id, account_id, transaction_id, amount, currency, created_at`

// EntryRepository implements usecase.EntryRepository. Entries are
// append-only; there is no update or delete path.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create inserts an entry inside the given database transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID,
		entry.AccountID,
		entry.TransactionID,
		decimalToNumeric(entry.Amount),
		string(entry.Currency),
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// GetByTransaction returns all entries of a transaction.
func (r *EntryRepository) GetByTransaction(ctx context.Context, transactionID string) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE transaction_id = $1
		ORDER BY created_at`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByAccount returns an account's entries, newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	conditions := []string{"account_id = $1"}
	args := []any{filter.AccountID}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.From != nil {
		conditions = append(conditions, "created_at >= "+arg(timeToPgTimestamptz(*filter.From)))
	}
	if filter.To != nil {
		conditions = append(conditions, "created_at < "+arg(timeToPgTimestamptz(*filter.To)))
	}

	query := "SELECT " + entryColumns + " FROM entries WHERE " +
		strings.Join(conditions, " AND ") +
		" ORDER BY created_at DESC, id DESC LIMIT " + arg(filter.Limit) +
		" OFFSET " + arg(filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListTransactionIDs returns the distinct transaction IDs an account
// has entries in.
func (r *EntryRepository) ListTransactionIDs(ctx context.Context, accountID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT transaction_id
		FROM entries
		WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func scanEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	entries := make([]*domain.Entry, 0)
	for rows.Next() {
		var (
			entry    domain.Entry
			amount   pgtype.Numeric
			currency string
			created  pgtype.Timestamptz
		)

		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.TransactionID,
			&amount,
			&currency,
			&created,
		)
		if err != nil {
			return nil, err
		}

		entry.Amount = numericToDecimal(amount)
		entry.Currency = domain.Currency(currency)
		entry.CreatedAt = created.Time

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
