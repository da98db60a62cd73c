package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func validBatch() *Batch {
	return &Batch{
		FarmerID:    "farmer-1",
		CropType:    CropRice,
		Quantity:    100,
		HarvestDate: testNow.AddDate(0, 0, -2),
		Origin:      "Nashik",
	}
}

func TestBatchValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Batch)
		wantErr bool
	}{
		{
			name:   "valid batch",
			mutate: func(b *Batch) {},
		},
		{
			name:   "crop type normalized to lowercase",
			mutate: func(b *Batch) { b.CropType = " Wheat " },
		},
		{
			name:    "missing farmer",
			mutate:  func(b *Batch) { b.FarmerID = "  " },
			wantErr: true,
		},
		{
			name:    "unknown crop",
			mutate:  func(b *Batch) { b.CropType = "barley" },
			wantErr: true,
		},
		{
			name:    "zero quantity",
			mutate:  func(b *Batch) { b.Quantity = 0 },
			wantErr: true,
		},
		{
			name:    "negative quantity",
			mutate:  func(b *Batch) { b.Quantity = -5 },
			wantErr: true,
		},
		{
			name:    "quantity above bound",
			mutate:  func(b *Batch) { b.Quantity = MaxQuantity + 1 },
			wantErr: true,
		},
		{
			name:   "quantity at bound",
			mutate: func(b *Batch) { b.Quantity = MaxQuantity },
		},
		{
			name:    "missing harvest date",
			mutate:  func(b *Batch) { b.HarvestDate = time.Time{} },
			wantErr: true,
		},
		{
			name:    "future harvest date",
			mutate:  func(b *Batch) { b.HarvestDate = testNow.AddDate(0, 0, 1) },
			wantErr: true,
		},
		{
			name:   "harvest date today",
			mutate: func(b *Batch) { b.HarvestDate = testNow },
		},
		{
			name:    "missing origin",
			mutate:  func(b *Batch) { b.Origin = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBatch()
			tt.mutate(b)
			err := b.Validate(testNow)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation), "want ErrValidation, got %v", err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestBatchValidateNormalizesCrop(t *testing.T) {
	b := validBatch()
	b.CropType = " TOMATO "
	require.NoError(t, b.Validate(testNow))
	assert.Equal(t, CropTomato, b.CropType)
}

func TestUpdateValidate(t *testing.T) {
	base := Update{
		Stage:     StageMandi,
		Actor:     "farmer-1",
		Location:  "Mandi Yard 4",
		Timestamp: testNow.Add(-time.Hour),
	}

	tests := []struct {
		name    string
		mutate  func(*Update)
		wantErr bool
	}{
		{
			name:   "valid update",
			mutate: func(u *Update) {},
		},
		{
			name:   "stage normalized",
			mutate: func(u *Update) { u.Stage = "Transport" },
		},
		{
			name:    "unknown stage",
			mutate:  func(u *Update) { u.Stage = "warehouse" },
			wantErr: true,
		},
		{
			name:    "missing actor",
			mutate:  func(u *Update) { u.Actor = "" },
			wantErr: true,
		},
		{
			name:    "missing location",
			mutate:  func(u *Update) { u.Location = "" },
			wantErr: true,
		},
		{
			name:    "future timestamp",
			mutate:  func(u *Update) { u.Timestamp = testNow.Add(time.Minute) },
			wantErr: true,
		},
		{
			name:   "timestamp exactly now",
			mutate: func(u *Update) { u.Timestamp = testNow },
		},
		{
			name:    "notes too long",
			mutate:  func(u *Update) { u.Notes = string(make([]byte, MaxNotesChars+1)) },
			wantErr: true,
		},
		{
			name:   "notes at bound",
			mutate: func(u *Update) { u.Notes = string(make([]byte, MaxNotesChars)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := base
			tt.mutate(&u)
			err := u.Validate(testNow)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation), "want ErrValidation, got %v", err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUpdateValidateNormalizesStage(t *testing.T) {
	u := Update{Stage: " RETAILER ", Actor: "a", Location: "l", Timestamp: testNow}
	require.NoError(t, u.Validate(testNow))
	assert.Equal(t, StageRetailer, u.Stage)
}

func TestLastUpdate(t *testing.T) {
	b := &Batch{}
	assert.Nil(t, b.LastUpdate())

	b.Updates = []Update{
		{UpdateID: "u1", Stage: StageFarmer},
		{UpdateID: "u2", Stage: StageMandi},
	}
	last := b.LastUpdate()
	require.NotNil(t, last)
	assert.Equal(t, "u2", last.UpdateID)
	assert.Equal(t, StageMandi, last.Stage)
}
