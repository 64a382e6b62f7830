package pool

import "errors"

var (
	// ErrUnauthorizedCaller is returned when a privileged callback is invoked
	// by an account other than the pool one.
	ErrUnauthorizedCaller = errors.New("caller is not allowed to invoke this method")
	// ErrTransferDispatchFailed is returned when the ledger didn't accept the
	// payout transfer of a swap. The swap is aborted.
	ErrTransferDispatchFailed = errors.New("failed to dispatch payout transfer")
	ErrServiceUnavailable     = errors.New("service is unavailable, retry later")
	// ErrPoolMismatch is returned when the stored pool doesn't match the
	// configured operator and assets.
	ErrPoolMismatch = errors.New("stored pool does not match configuration")
	// ErrSwapNotInFlight is returned when the operator tries to abort a swap
	// that is not the one waiting for settlement.
	ErrSwapNotInFlight = errors.New("swap is not in flight")
	// ErrSwapAbortedByOperator is the failure reason of an in-flight swap
	// released by the operator.
	ErrSwapAbortedByOperator = errors.New("swap aborted by operator")
	// ErrSwapAlreadyInFlight is the failure reason of a dispatched swap found
	// at startup while another one is already in flight.
	ErrSwapAlreadyInFlight = errors.New("another swap was already in flight")
)
