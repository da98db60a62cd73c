package types

import (
	"fmt"
	"strings"
	"time"
)

// Supply-chain stages. A batch occupies exactly one stage at a time; the
// current stage always equals the stage of the most recently appended
// update.
const (
	StageFarmer    = "farmer"
	StageMandi     = "mandi"
	StageTransport = "transport"
	StageRetailer  = "retailer"
)

// validStages is the set of recognized stage values.
var validStages = map[string]bool{
	StageFarmer:    true,
	StageMandi:     true,
	StageTransport: true,
	StageRetailer:  true,
}

// Recognized crop types.
const (
	CropRice   = "rice"
	CropWheat  = "wheat"
	CropCorn   = "corn"
	CropTomato = "tomato"
)

// validCrops is the set of recognized crop type values.
var validCrops = map[string]bool{
	CropRice:   true,
	CropWheat:  true,
	CropCorn:   true,
	CropTomato: true,
}

// Field bounds for batch and update validation.
const (
	MaxQuantity   = 1_000_000
	MaxNotesChars = 500
)

// NormalizeStage lowercases and trims a stage value and reports whether the
// result is a recognized stage.
func NormalizeStage(stage string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(stage))
	return s, validStages[s]
}

// NormalizeCrop lowercases and trims a crop type and reports whether the
// result is a recognized crop.
func NormalizeCrop(crop string) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(crop))
	return c, validCrops[c]
}

// Update is one immutable, timestamped entry in a batch's append-only
// timeline. Updates are created by batch creation (the initial farmer
// entry) or by the update appender; they are never mutated or removed.
type Update struct {
	UpdateID  string    `json:"updateId"`  // UUID v7, generated on append.
	Stage     string    `json:"stage"`     // One of the Stage constants.
	Actor     string    `json:"actor"`     // Who recorded the update.
	Location  string    `json:"location"`  // Where the batch was at the time.
	Timestamp time.Time `json:"timestamp"` // Must not be in the future.
	Notes     string    `json:"notes,omitempty"`
}

// Validate checks the update shape against the data-model constraints and
// normalizes the stage to its canonical lowercase form. The timestamp is
// compared against now, which the caller supplies so clock handling stays
// in one place.
func (u *Update) Validate(now time.Time) error {
	stage, ok := NormalizeStage(u.Stage)
	if !ok {
		return fmt.Errorf("%w: unknown stage %q", ErrValidation, u.Stage)
	}
	u.Stage = stage
	if strings.TrimSpace(u.Actor) == "" {
		return fmt.Errorf("%w: actor is required", ErrValidation)
	}
	if strings.TrimSpace(u.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrValidation)
	}
	if u.Timestamp.After(now) {
		return fmt.Errorf("%w: update timestamp is in the future", ErrValidation)
	}
	if len(u.Notes) > MaxNotesChars {
		return fmt.Errorf("%w: notes exceed %d characters", ErrValidation, MaxNotesChars)
	}
	return nil
}

// Batch is one tracked unit of harvested produce and its full supply-chain
// history. The update timeline is embedded in the batch row so a single
// fetch reads the batch and its history consistently.
type Batch struct {
	BatchID       string    `json:"batchId"`  // CROP-<year>-<seq>, immutable once assigned.
	FarmerID      string    `json:"farmerId"` // Owner reference; string equality, no foreign key.
	CropType      string    `json:"cropType"`
	Quantity      float64   `json:"quantity"` // Positive, at most MaxQuantity.
	HarvestDate   time.Time `json:"harvestDate"`
	Origin        string    `json:"origin"`
	CurrentStage  string    `json:"currentStage"`
	IsRecalled    bool      `json:"isRecalled"`
	IntegrityHash string    `json:"integrityHash"` // Opaque; recomputed on every mutation.
	QRCode        string    `json:"qrCode,omitempty"`
	Updates       []Update  `json:"updates"` // Append-only, never empty after creation.
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Validate checks the creation-time field constraints and normalizes the
// crop type. The batch identifier and timeline are not checked here; the
// orchestrator assigns them.
func (b *Batch) Validate(now time.Time) error {
	if strings.TrimSpace(b.FarmerID) == "" {
		return fmt.Errorf("%w: farmerId is required", ErrValidation)
	}
	crop, ok := NormalizeCrop(b.CropType)
	if !ok {
		return fmt.Errorf("%w: unknown crop type %q", ErrValidation, b.CropType)
	}
	b.CropType = crop
	if b.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if b.Quantity > MaxQuantity {
		return fmt.Errorf("%w: quantity exceeds %d", ErrValidation, MaxQuantity)
	}
	if b.HarvestDate.IsZero() {
		return fmt.Errorf("%w: harvestDate is required", ErrValidation)
	}
	if b.HarvestDate.After(now) {
		return fmt.Errorf("%w: harvestDate is in the future", ErrValidation)
	}
	if strings.TrimSpace(b.Origin) == "" {
		return fmt.Errorf("%w: origin is required", ErrValidation)
	}
	return nil
}

// LastUpdate returns the most recently appended timeline entry, or nil if
// the timeline is empty (only possible before creation completes).
func (b *Batch) LastUpdate() *Update {
	if len(b.Updates) == 0 {
		return nil
	}
	return &b.Updates[len(b.Updates)-1]
}
