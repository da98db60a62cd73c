package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlite3 "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/navin-oss/CropChain/pkg/types"
)

const batchColumns = `batch_id, farmer_id, crop_type, quantity, harvest_date,
	origin, current_stage, is_recalled, integrity_hash, qr_code, updates,
	created_at, updated_at`

// BatchFilter narrows ListBatches results. Zero values match everything.
type BatchFilter struct {
	FarmerID string
	Stage    string
	Recalled *bool
	Limit    int
	Offset   int
}

// InsertBatch writes a new batch row inside the caller's transaction. A
// primary-key collision on batch_id is mapped to types.ErrDuplicateBatchID
// so the orchestrator's retry loop can distinguish it from every other
// failure.
func (s *Store) InsertBatch(ctx context.Context, tx *sql.Tx, b *types.Batch) error {
	updatesJSON, err := json.Marshal(b.Updates)
	if err != nil {
		return fmt.Errorf("marshaling updates: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batches (`+batchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.BatchID, b.FarmerID, b.CropType, b.Quantity,
		b.HarvestDate.UTC().Format(time.RFC3339Nano),
		b.Origin, b.CurrentStage, boolToInt(b.IsRecalled),
		b.IntegrityHash, nullString(b.QRCode), string(updatesJSON),
		b.CreatedAt.UTC().Format(time.RFC3339Nano),
		b.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", types.ErrDuplicateBatchID, b.BatchID)
		}
		return fmt.Errorf("inserting batch %s: %w", b.BatchID, err)
	}
	return nil
}

// GetBatch retrieves a batch with its embedded timeline in a single fetch.
// Returns types.ErrNotFound if no row exists under the identifier.
func (s *Store) GetBatch(ctx context.Context, batchID string) (*types.Batch, error) {
	if batchID == "" {
		return nil, fmt.Errorf("%w: empty batch identifier", types.ErrValidation)
	}
	row := s.db.QueryRowContext(ctx,
		"SELECT "+batchColumns+" FROM batches WHERE batch_id = ?", batchID)
	b, err := scanBatch(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, batchID)
	}
	if err != nil {
		return nil, fmt.Errorf("getting batch %s: %w", batchID, err)
	}
	return b, nil
}

// ListBatches returns batches matching the filter, newest first.
func (s *Store) ListBatches(ctx context.Context, filter BatchFilter) ([]*types.Batch, error) {
	query := "SELECT " + batchColumns + " FROM batches"
	var conditions []string
	var args []any

	if filter.FarmerID != "" {
		conditions = append(conditions, "farmer_id = ?")
		args = append(args, filter.FarmerID)
	}
	if filter.Stage != "" {
		conditions = append(conditions, "current_stage = ?")
		args = append(args, filter.Stage)
	}
	if filter.Recalled != nil {
		conditions = append(conditions, "is_recalled = ?")
		args = append(args, boolToInt(*filter.Recalled))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, batch_id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	var results []*types.Batch
	for rows.Next() {
		b, err := scanBatch(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}
		results = append(results, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating batches: %w", err)
	}
	if results == nil {
		results = []*types.Batch{}
	}
	return results, nil
}

// UpdateTimeline persists an appended timeline in one conditional write:
// the updates array, the new current stage, and the recomputed integrity
// hash land together or not at all. The write matches only while the
// stored timeline still has the length the caller appended onto, so two
// writers who both loaded the batch cannot overwrite each other's entry:
// the first commit wins and the second matches zero rows. Zero rows
// affected (a concurrent append or deletion) surfaces as
// types.ErrUpdateFailed and is never retried; the caller re-reads and
// decides.
func (s *Store) UpdateTimeline(ctx context.Context, b *types.Batch) error {
	updatesJSON, err := json.Marshal(b.Updates)
	if err != nil {
		return fmt.Errorf("marshaling updates: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE batches
		SET updates = ?, current_stage = ?, integrity_hash = ?, updated_at = ?
		WHERE batch_id = ? AND json_array_length(updates) = ?`,
		string(updatesJSON), b.CurrentStage, b.IntegrityHash,
		b.UpdatedAt.UTC().Format(time.RFC3339Nano), b.BatchID, len(b.Updates)-1)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrUpdateFailed, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrUpdateFailed, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: batch %s was deleted or modified concurrently",
			types.ErrUpdateFailed, b.BatchID)
	}
	return nil
}

// MarkRecalled flips the one-way recall flag. The write is conditional on
// is_recalled still being unset, so two racing recalls cannot both
// succeed: the loser observes zero affected rows and reports
// types.ErrAlreadyRecalled (or types.ErrNotFound if the batch is gone).
func (s *Store) MarkRecalled(ctx context.Context, b *types.Batch) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE batches
		SET is_recalled = 1, integrity_hash = ?, updated_at = ?
		WHERE batch_id = ? AND is_recalled = 0`,
		b.IntegrityHash, b.UpdatedAt.UTC().Format(time.RFC3339Nano), b.BatchID)
	if err != nil {
		return fmt.Errorf("recalling batch %s: %w", b.BatchID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("recalling batch %s: %w", b.BatchID, err)
	}
	if affected == 1 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx,
		"SELECT 1 FROM batches WHERE batch_id = ?", b.BatchID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", types.ErrNotFound, b.BatchID)
	}
	if err != nil {
		return fmt.Errorf("checking batch %s: %w", b.BatchID, err)
	}
	return fmt.Errorf("%w: %s", types.ErrAlreadyRecalled, b.BatchID)
}

// DeleteBatch removes a batch row. Returns types.ErrNotFound if no row
// exists under the identifier.
func (s *Store) DeleteBatch(ctx context.Context, batchID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM batches WHERE batch_id = ?", batchID)
	if err != nil {
		return fmt.Errorf("deleting batch %s: %w", batchID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting batch %s: %w", batchID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", types.ErrNotFound, batchID)
	}
	return nil
}

// scanBatch hydrates one row into a *types.Batch. The scan argument
// abstracts over sql.Row and sql.Rows.
func scanBatch(scan func(...any) error) (*types.Batch, error) {
	var b types.Batch
	var harvestDate, createdAt, updatedAt, updatesJSON string
	var qrCode sql.NullString
	var recalled int

	err := scan(&b.BatchID, &b.FarmerID, &b.CropType, &b.Quantity,
		&harvestDate, &b.Origin, &b.CurrentStage, &recalled,
		&b.IntegrityHash, &qrCode, &updatesJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	b.IsRecalled = recalled != 0
	if qrCode.Valid {
		b.QRCode = qrCode.String
	}
	if b.HarvestDate, err = time.Parse(time.RFC3339Nano, harvestDate); err != nil {
		return nil, fmt.Errorf("parsing harvest_date: %w", err)
	}
	if b.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if b.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	if err := json.Unmarshal([]byte(updatesJSON), &b.Updates); err != nil {
		return nil, fmt.Errorf("parsing updates: %w", err)
	}
	return &b, nil
}

// isUniqueViolation reports whether err is a SQLite unique or primary-key
// constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY ||
		se.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
