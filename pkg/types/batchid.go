package types

import "fmt"

// CounterBatchID is the allocator name under which batch identifier
// sequences are issued.
const CounterBatchID = "batchId"

// FormatBatchID renders an allocated sequence number as the external batch
// identifier: "CROP-<year>-<sequence zero-padded to 3 digits>". Padding is
// a minimum width, never a truncation: sequence 7 in 2024 yields
// CROP-2024-007 and sequence 1000 yields CROP-2024-1000.
func FormatBatchID(year int, sequence int64) (string, error) {
	if year < 1 {
		return "", fmt.Errorf("%w: year must be positive, got %d", ErrValidation, year)
	}
	if sequence < 1 {
		return "", fmt.Errorf("%w: sequence must be positive, got %d", ErrValidation, sequence)
	}
	return fmt.Sprintf("CROP-%d-%03d", year, sequence), nil
}
