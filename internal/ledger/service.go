// Package ledger implements the batch-creation and update pipeline on top
// of the SQLite store: identifier allocation with bounded collision retry,
// the ownership gate, the append-only update path, and the one-way recall
// flag.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/navin-oss/CropChain/internal/sqlite"
	"github.com/navin-oss/CropChain/pkg/types"
)

// createAttempts bounds the identifier-collision retry loop. The system
// tolerates at least two retries; anything past that indicates a problem
// retrying will not fix.
const createAttempts = 3

// Service composes the store, the integrity hasher, and a clock into the
// ledger operations. Safe for concurrent use; it holds no mutable state of
// its own.
type Service struct {
	store  *sqlite.Store
	hasher Hasher
	log    zerolog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithHasher replaces the default SHA-256 integrity hasher.
func WithHasher(h Hasher) Option {
	return func(s *Service) { s.hasher = h }
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService creates a ledger service over the given store.
func NewService(store *sqlite.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		hasher: SHA256Hasher{},
		log:    zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePayload carries the caller-supplied fields for batch creation. The
// QR code and notes are opaque to the pipeline.
type CreatePayload struct {
	FarmerID    string    `json:"farmerId"`
	CropType    string    `json:"cropType"`
	Quantity    float64   `json:"quantity"`
	HarvestDate time.Time `json:"harvestDate"`
	Origin      string    `json:"origin"`
	QRCode      string    `json:"qrCode,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// CreateBatch allocates the next batch identifier and inserts the batch.
// The sequence is drawn in its own committed transaction before the insert
// is attempted: an insert failure therefore never rolls the counter back,
// so a consumed sequence value stays consumed and every retry draws a
// fresh one. Gaps in the identifier space are acceptable, reuse is not.
//
// An identifier collision aborts only the insert and retries with a newly
// allocated sequence, bounded by createAttempts. Only the distinguishable
// duplicate-identifier error triggers a retry; validation failures and
// every other store failure surface immediately. Callers issuing N
// concurrent creations receive N batches with N distinct identifiers,
// never a duplicate-identifier error.
func (s *Service) CreateBatch(ctx context.Context, p CreatePayload) (*types.Batch, error) {
	now := s.now().UTC()

	candidate := &types.Batch{
		FarmerID:    p.FarmerID,
		CropType:    p.CropType,
		Quantity:    p.Quantity,
		HarvestDate: p.HarvestDate,
		Origin:      p.Origin,
		QRCode:      p.QRCode,
	}
	if err := candidate.Validate(now); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= createAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrCreationFailed, err)
		}

		var seq int64
		err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
			var err error
			seq, err = s.store.NextSequence(ctx, tx, types.CounterBatchID)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrCreationFailed, err)
		}
		batchID, err := types.FormatBatchID(now.Year(), seq)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrCreationFailed, err)
		}

		b := *candidate
		b.BatchID = batchID
		b.CurrentStage = types.StageFarmer
		b.IsRecalled = false
		b.Updates = []types.Update{{
			UpdateID:  newUpdateID(),
			Stage:     types.StageFarmer,
			Actor:     b.FarmerID,
			Location:  b.Origin,
			Timestamp: now,
			Notes:     p.Notes,
		}}
		b.CreatedAt = now
		b.UpdatedAt = now
		b.IntegrityHash = s.hasher.Hash(&b)

		err = s.store.WithTx(ctx, func(tx *sql.Tx) error {
			return s.store.InsertBatch(ctx, tx, &b)
		})
		if err == nil {
			s.log.Info().Str("batch_id", b.BatchID).
				Str("farmer_id", b.FarmerID).Msg("batch created")
			return &b, nil
		}
		if errors.Is(err, types.ErrDuplicateBatchID) {
			s.log.Warn().Int("attempt", attempt).Err(err).
				Msg("batch identifier collision, retrying")
			continue
		}
		return nil, fmt.Errorf("%w: %v", types.ErrCreationFailed, err)
	}
	return nil, fmt.Errorf("%w: identifier collisions exhausted %d attempts",
		types.ErrCreationFailed, createAttempts)
}

// Authorize loads the batch and decides whether the caller may modify it.
// Administrators pass unconditionally; everyone else must own the batch by
// farmer identity. On success the loaded batch is returned so the caller
// operates on this exact value instead of re-fetching it, closing the
// window where a second lookup could observe different state.
func (s *Service) Authorize(ctx context.Context, caller types.Caller, batchID string) (*types.Batch, error) {
	b, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if caller.IsAdmin() {
		return b, nil
	}
	if caller.Owns(b.FarmerID) {
		return b, nil
	}
	return nil, fmt.Errorf("%w: caller %s, batch %s", types.ErrForbidden, caller.ID, batchID)
}

// AppendUpdate validates the update, appends it to the timeline of an
// already-authorized batch, advances the current stage, and recomputes the
// integrity hash, all persisted as one conditional write. The write only
// matches the timeline the caller observed, so an entry appended by a
// concurrent writer is never overwritten; the loser gets ErrUpdateFailed,
// as does an append against a concurrently deleted batch. Neither is
// retried, and on failure the caller's batch value is left untouched.
//
// Stage adjacency is deliberately not enforced: any recognized stage may
// follow any other, e.g. retailer directly after farmer.
func (s *Service) AppendUpdate(ctx context.Context, b *types.Batch, upd types.Update) (*types.Batch, error) {
	now := s.now().UTC()
	if upd.Timestamp.IsZero() {
		upd.Timestamp = now
	}
	if err := upd.Validate(now); err != nil {
		return nil, err
	}
	upd.UpdateID = newUpdateID()

	next := *b
	next.Updates = append(append([]types.Update(nil), b.Updates...), upd)
	next.CurrentStage = upd.Stage
	next.UpdatedAt = now
	next.IntegrityHash = s.hasher.Hash(&next)

	if err := s.store.UpdateTimeline(ctx, &next); err != nil {
		return nil, err
	}
	*b = next
	s.log.Info().Str("batch_id", b.BatchID).Str("stage", upd.Stage).
		Int("updates", len(b.Updates)).Msg("update appended")
	return b, nil
}

// Recall sets the one-way recall flag. Administrator only. A second recall
// attempt fails with ErrAlreadyRecalled rather than succeeding silently,
// so operators learn the recall already happened. There is no un-recall.
// Excluding recalled batches from update flows is the caller's concern.
func (s *Service) Recall(ctx context.Context, caller types.Caller, batchID string) (*types.Batch, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: recall requires the admin role", types.ErrForbidden)
	}

	b, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if b.IsRecalled {
		return nil, fmt.Errorf("%w: %s", types.ErrAlreadyRecalled, batchID)
	}

	b.IsRecalled = true
	b.UpdatedAt = s.now().UTC()
	b.IntegrityHash = s.hasher.Hash(b)

	// The conditional write guards the race between the read above and two
	// concurrent recalls: only one wins, the other gets ErrAlreadyRecalled.
	if err := s.store.MarkRecalled(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info().Str("batch_id", batchID).Str("admin_id", caller.ID).Msg("batch recalled")
	return b, nil
}

// GetBatch returns a batch with its full timeline.
func (s *Service) GetBatch(ctx context.Context, batchID string) (*types.Batch, error) {
	return s.store.GetBatch(ctx, batchID)
}

// ListBatches returns batches matching the filter, newest first.
func (s *Service) ListBatches(ctx context.Context, filter sqlite.BatchFilter) ([]*types.Batch, error) {
	return s.store.ListBatches(ctx, filter)
}

// DeleteBatch removes a batch. Administrator only.
func (s *Service) DeleteBatch(ctx context.Context, caller types.Caller, batchID string) error {
	if !caller.IsAdmin() {
		return fmt.Errorf("%w: delete requires the admin role", types.ErrForbidden)
	}
	if err := s.store.DeleteBatch(ctx, batchID); err != nil {
		return err
	}
	s.log.Info().Str("batch_id", batchID).Str("admin_id", caller.ID).Msg("batch deleted")
	return nil
}

// newUpdateID generates a UUID v7 string for a timeline entry.
func newUpdateID() string {
	return uuid.Must(uuid.NewV7()).String()
}
