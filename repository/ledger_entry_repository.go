package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"karnalix/database"
	"karnalix/domain"
	"karnalix/domain/entities"

	"github.com/jackc/pgx/v5"
)

// LedgerEntryRepository implements the LedgerEntryRepository interface.
// The underlying table is append-only: rows are inserted, never updated,
// with the single exception of the completed->reversed status flip that
// accompanies a compensating entry.
type LedgerEntryRepository struct {
	q Queryable
}

// NewLedgerEntryRepository creates a new ledger entry repository
func NewLedgerEntryRepository(db *database.DB) *LedgerEntryRepository {
	return &LedgerEntryRepository{q: db.Pool}
}

// newLedgerEntryRepository creates a new ledger entry repository bound to a transaction
func newLedgerEntryRepository(tx Queryable) *LedgerEntryRepository {
	return &LedgerEntryRepository{q: tx}
}

// Create appends a new ledger entry
func (r *LedgerEntryRepository) Create(ctx context.Context, entry *entities.LedgerEntry) error {
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal entry metadata: %w", err)
	}

	var fromUserID *int64
	var fromWallet *entities.WalletKind
	if entry.From != nil {
		fromUserID = &entry.From.UserID
		fromWallet = &entry.From.Kind
	}
	var toUserID *int64
	var toWallet *entities.WalletKind
	if entry.To != nil {
		toUserID = &entry.To.UserID
		toWallet = &entry.To.Kind
	}

	query := `
		INSERT INTO ledger_entries
		(reference, from_user_id, from_wallet, to_user_id, to_wallet, amount, kind, status, description, metadata, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	if entry.Status == "" {
		entry.Status = entities.EntryStatusCompleted
	}

	err = r.q.QueryRow(ctx, query,
		entry.Reference,
		fromUserID,
		fromWallet,
		toUserID,
		toWallet,
		entry.Amount,
		entry.Kind,
		entry.Status,
		entry.Description,
		metadataJSON,
		entry.CreatedBy,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create ledger entry (%s): %w", entry.Kind, err)
	}

	return nil
}

// GetByID retrieves an entry by its ID
func (r *LedgerEntryRepository) GetByID(ctx context.Context, id int64) (*entities.LedgerEntry, error) {
	query := selectEntryColumns + ` WHERE id = $1`

	row := r.q.QueryRow(ctx, query, id)
	entry, err := scanEntry(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry %d: %w", id, err)
	}

	return entry, nil
}

// List returns entries matching the filter, newest first. When
// visibleUserIDs is non-nil, only entries touching those accounts are
// returned.
func (r *LedgerEntryRepository) List(ctx context.Context, filter entities.EntryFilter, visibleUserIDs []int64) ([]*entities.LedgerEntry, error) {
	query := selectEntryColumns + ` WHERE 1=1`
	args := []any{}
	argIdx := 1

	if visibleUserIDs != nil {
		query += fmt.Sprintf(` AND (from_user_id = ANY($%d) OR to_user_id = ANY($%d))`, argIdx, argIdx)
		args = append(args, visibleUserIDs)
		argIdx++
	}
	if filter.UserID != nil {
		query += fmt.Sprintf(` AND (from_user_id = $%d OR to_user_id = $%d)`, argIdx, argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Kind != nil {
		query += fmt.Sprintf(` AND kind = $%d`, argIdx)
		args = append(args, *filter.Kind)
		argIdx++
	}
	if filter.Since != nil {
		query += fmt.Sprintf(` AND created_at >= $%d`, argIdx)
		args = append(args, *filter.Since)
		argIdx++
	}
	if filter.Until != nil {
		query += fmt.Sprintf(` AND created_at < $%d`, argIdx)
		args = append(args, *filter.Until)
		argIdx++
	}

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, argIdx)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*entities.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// MarkReversed flips an entry's status to reversed. Zero rows affected
// means the entry was already reversed (or never existed), which the
// caller must treat as a terminal-state conflict.
func (r *LedgerEntryRepository) MarkReversed(ctx context.Context, id int64) error {
	query := `
		UPDATE ledger_entries
		SET status = 'reversed'
		WHERE id = $1 AND status = 'completed'
	`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark ledger entry %d reversed: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.CodeAlreadySettled, "ledger entry %d already reversed", id)
	}

	return nil
}

const selectEntryColumns = `
	SELECT id, reference, from_user_id, from_wallet, to_user_id, to_wallet,
	       amount, kind, status, description, metadata, created_by, created_at
	FROM ledger_entries`

// scanEntry reads one entry row, reassembling the optional account refs
func scanEntry(row pgx.Row) (*entities.LedgerEntry, error) {
	var entry entities.LedgerEntry
	var fromUserID, toUserID *int64
	var fromWallet, toWallet *entities.WalletKind
	var metadataJSON []byte

	err := row.Scan(
		&entry.ID,
		&entry.Reference,
		&fromUserID,
		&fromWallet,
		&toUserID,
		&toWallet,
		&entry.Amount,
		&entry.Kind,
		&entry.Status,
		&entry.Description,
		&metadataJSON,
		&entry.CreatedBy,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fromUserID != nil && fromWallet != nil {
		entry.From = &entities.AccountRef{UserID: *fromUserID, Kind: *fromWallet}
	}
	if toUserID != nil && toWallet != nil {
		entry.To = &entities.AccountRef{UserID: *toUserID, Kind: *toWallet}
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry metadata: %w", err)
		}
	}

	return &entry, nil
}

// SumIssuanceNet returns total issuance minus total destruction. Entries
// with a nil source create value, entries with a nil destination destroy
// it, and internal moves net to zero.
func (r *LedgerEntryRepository) SumIssuanceNet(ctx context.Context) (int64, error) {
	var net int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN from_user_id IS NULL THEN amount ELSE 0 END), 0)
		     - COALESCE(SUM(CASE WHEN to_user_id IS NULL THEN amount ELSE 0 END), 0)
		FROM ledger_entries`).Scan(&net)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger issuance: %w", err)
	}
	return net, nil
}
