package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/navin-oss/CropChain/pkg/types"
)

// Hasher produces the opaque integrity token stored alongside a batch. The
// pipeline only stores the result; swapping the implementation (e.g. an
// external signing service) does not touch the pipeline.
type Hasher interface {
	Hash(b *types.Batch) string
}

// SHA256Hasher hashes the batch fields and full timeline into a hex-encoded
// SHA-256 digest. The same batch state always yields the same token, so a
// reader can detect out-of-band row tampering by recomputing it.
type SHA256Hasher struct{}

// Hash implements Hasher.
func (SHA256Hasher) Hash(b *types.Batch) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%g|%s|%s|%s|%t\n",
		b.BatchID, b.FarmerID, b.CropType, b.Quantity,
		b.HarvestDate.UTC().Format(time.RFC3339Nano),
		b.Origin, b.CurrentStage, b.IsRecalled)
	for _, u := range b.Updates {
		fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s\n",
			u.UpdateID, u.Stage, u.Actor, u.Location,
			u.Timestamp.UTC().Format(time.RFC3339Nano), u.Notes)
	}
	return hex.EncodeToString(h.Sum(nil))
}
