package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navin-oss/CropChain/pkg/types"
)

func TestInsertAndGetBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := testBatch("CROP-2024-001", "farmer-1")
	b.QRCode = "qr-opaque-token"
	insertTestBatch(t, s, b)

	got, err := s.GetBatch(ctx, "CROP-2024-001")
	require.NoError(t, err)
	assert.Equal(t, b.BatchID, got.BatchID)
	assert.Equal(t, b.FarmerID, got.FarmerID)
	assert.Equal(t, types.CropRice, got.CropType)
	assert.Equal(t, b.Quantity, got.Quantity)
	assert.Equal(t, types.StageFarmer, got.CurrentStage)
	assert.False(t, got.IsRecalled)
	assert.Equal(t, "qr-opaque-token", got.QRCode)
	require.Len(t, got.Updates, 1)
	assert.Equal(t, types.StageFarmer, got.Updates[0].Stage)
	assert.True(t, got.HarvestDate.Equal(b.HarvestDate))
}

func TestGetBatchNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetBatch(context.Background(), "CROP-2024-999")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestInsertBatchDuplicateID(t *testing.T) {
	s := newTestStore(t)

	insertTestBatch(t, s, testBatch("CROP-2024-001", "farmer-1"))

	dup := testBatch("CROP-2024-001", "farmer-2")
	err := s.WithTx(context.Background(), func(tx *sql.Tx) error {
		return s.InsertBatch(context.Background(), tx, dup)
	})
	assert.ErrorIs(t, err, types.ErrDuplicateBatchID)
}

func TestListBatchesFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b1 := testBatch("CROP-2024-001", "farmer-1")
	b2 := testBatch("CROP-2024-002", "farmer-2")
	b2.CurrentStage = types.StageMandi
	b3 := testBatch("CROP-2024-003", "farmer-1")
	b3.IsRecalled = true
	for _, b := range []*types.Batch{b1, b2, b3} {
		insertTestBatch(t, s, b)
	}

	all, err := s.ListBatches(ctx, BatchFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byFarmer, err := s.ListBatches(ctx, BatchFilter{FarmerID: "farmer-1"})
	require.NoError(t, err)
	assert.Len(t, byFarmer, 2)

	byStage, err := s.ListBatches(ctx, BatchFilter{Stage: types.StageMandi})
	require.NoError(t, err)
	require.Len(t, byStage, 1)
	assert.Equal(t, "CROP-2024-002", byStage[0].BatchID)

	recalled := true
	byRecall, err := s.ListBatches(ctx, BatchFilter{Recalled: &recalled})
	require.NoError(t, err)
	require.Len(t, byRecall, 1)
	assert.Equal(t, "CROP-2024-003", byRecall[0].BatchID)

	limited, err := s.ListBatches(ctx, BatchFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListBatchesEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.ListBatches(context.Background(), BatchFilter{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListBatchesNewestFirst(t *testing.T) {
	s := newTestStore(t)

	older := testBatch("CROP-2024-001", "farmer-1")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	newer := testBatch("CROP-2024-002", "farmer-1")
	insertTestBatch(t, s, older)
	insertTestBatch(t, s, newer)

	got, err := s.ListBatches(context.Background(), BatchFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "CROP-2024-002", got[0].BatchID)
	assert.Equal(t, "CROP-2024-001", got[1].BatchID)
}

func TestUpdateTimeline(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := testBatch("CROP-2024-001", "farmer-1")
	insertTestBatch(t, s, b)

	b.Updates = append(b.Updates, types.Update{
		UpdateID:  "upd-2",
		Stage:     types.StageTransport,
		Actor:     "farmer-1",
		Location:  "Warehouse A",
		Timestamp: time.Now().UTC(),
	})
	b.CurrentStage = types.StageTransport
	b.IntegrityHash = "hash-1"
	b.UpdatedAt = time.Now().UTC()

	require.NoError(t, s.UpdateTimeline(ctx, b))

	got, err := s.GetBatch(ctx, b.BatchID)
	require.NoError(t, err)
	require.Len(t, got.Updates, 2)
	assert.Equal(t, types.StageTransport, got.CurrentStage)
	assert.Equal(t, types.StageTransport, got.Updates[1].Stage)
	assert.Equal(t, "hash-1", got.IntegrityHash)
}

// A write whose base timeline is stale must not land: the first writer's
// appended entry stays, the second write matches zero rows.
func TestUpdateTimelineStaleTimeline(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := testBatch("CROP-2024-001", "farmer-1")
	insertTestBatch(t, s, base)

	winner := *base
	winner.Updates = append(append([]types.Update(nil), base.Updates...), types.Update{
		UpdateID:  "upd-winner",
		Stage:     types.StageTransport,
		Actor:     "farmer-1",
		Location:  "Warehouse A",
		Timestamp: time.Now().UTC(),
	})
	winner.CurrentStage = types.StageTransport
	winner.IntegrityHash = "hash-winner"
	winner.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.UpdateTimeline(ctx, &winner))

	loser := *base
	loser.Updates = append(append([]types.Update(nil), base.Updates...), types.Update{
		UpdateID:  "upd-loser",
		Stage:     types.StageMandi,
		Actor:     "farmer-1",
		Location:  "Mandi Yard",
		Timestamp: time.Now().UTC(),
	})
	loser.CurrentStage = types.StageMandi
	loser.IntegrityHash = "hash-loser"
	loser.UpdatedAt = time.Now().UTC()
	err := s.UpdateTimeline(ctx, &loser)
	assert.ErrorIs(t, err, types.ErrUpdateFailed)

	got, err := s.GetBatch(ctx, "CROP-2024-001")
	require.NoError(t, err)
	require.Len(t, got.Updates, 2)
	assert.Equal(t, "upd-winner", got.Updates[1].UpdateID)
	assert.Equal(t, types.StageTransport, got.CurrentStage)
}

func TestUpdateTimelineMissingBatch(t *testing.T) {
	s := newTestStore(t)

	b := testBatch("CROP-2024-404", "farmer-1")
	err := s.UpdateTimeline(context.Background(), b)
	assert.ErrorIs(t, err, types.ErrUpdateFailed)
}

func TestMarkRecalled(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := testBatch("CROP-2024-001", "farmer-1")
	insertTestBatch(t, s, b)

	b.IntegrityHash = "hash-recalled"
	b.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.MarkRecalled(ctx, b))

	got, err := s.GetBatch(ctx, b.BatchID)
	require.NoError(t, err)
	assert.True(t, got.IsRecalled)
	assert.Equal(t, "hash-recalled", got.IntegrityHash)

	// Second recall reports, never silently succeeds.
	err = s.MarkRecalled(ctx, b)
	assert.ErrorIs(t, err, types.ErrAlreadyRecalled)
}

func TestMarkRecalledMissingBatch(t *testing.T) {
	s := newTestStore(t)
	b := testBatch("CROP-2024-404", "farmer-1")
	err := s.MarkRecalled(context.Background(), b)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDeleteBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestBatch(t, s, testBatch("CROP-2024-001", "farmer-1"))
	require.NoError(t, s.DeleteBatch(ctx, "CROP-2024-001"))

	_, err := s.GetBatch(ctx, "CROP-2024-001")
	assert.ErrorIs(t, err, types.ErrNotFound)

	err = s.DeleteBatch(ctx, "CROP-2024-001")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
