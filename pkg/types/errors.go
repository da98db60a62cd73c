package types

import "errors"

// Standard errors returned by the store and ledger operations. Callers
// match them with errors.Is; lower layers wrap them with context via
// fmt.Errorf("...: %w", err).
var (
	// ErrValidation marks malformed input. Never retried internally; the
	// caller corrects the input and resubmits.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means no batch exists under the given identifier.
	ErrNotFound = errors.New("batch not found")

	// ErrForbidden means the caller is authenticated but does not own the
	// batch and is not an administrator.
	ErrForbidden = errors.New("caller does not own this batch")

	// ErrAlreadyRecalled reports a recall attempt on a batch whose recall
	// flag is already set. Reported rather than swallowed so operators
	// learn a recall already happened.
	ErrAlreadyRecalled = errors.New("batch is already recalled")

	// ErrCreationFailed means batch creation exhausted its identifier
	// retries or hit a non-collision store failure.
	ErrCreationFailed = errors.New("batch creation failed")

	// ErrUpdateFailed means a write against an existing batch failed,
	// typically because the batch was deleted concurrently. Not retried.
	ErrUpdateFailed = errors.New("batch update failed")

	// ErrDuplicateBatchID is the distinguishable identifier-collision
	// variant that drives the creation retry loop. It never surfaces to
	// API callers.
	ErrDuplicateBatchID = errors.New("batch identifier already exists")
)
