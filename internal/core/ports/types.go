package ports

import (
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

// TransferOutcome is the result of an outbound transfer as reported by the
// ledger transport.
type TransferOutcome int

const (
	// TransferOutcomeNotReady means the outcome of the transfer is not known
	// yet.
	TransferOutcomeNotReady TransferOutcome = iota
	TransferOutcomeSuccess
	TransferOutcomeFailed
)

var transferOutcomeLabels = map[TransferOutcome]string{
	TransferOutcomeNotReady: "not_ready",
	TransferOutcomeSuccess:  "success",
	TransferOutcomeFailed:   "failed",
}

func (o TransferOutcome) String() string {
	if label, ok := transferOutcomeLabels[o]; ok {
		return label
	}
	return "unknown"
}

// ParseTransferOutcome returns the outcome matching the given label.
func ParseTransferOutcome(label string) (TransferOutcome, bool) {
	for outcome, l := range transferOutcomeLabels {
		if l == label {
			return outcome, true
		}
	}
	return TransferOutcomeNotReady, false
}

// Deposit is the notification that some funds have been irrevocably moved
// into the custody of the pool.
type Deposit interface {
	GetAsset() string
	GetSender() string
	GetAmount() mathutil.Uint128
}

// Settlement is the notification of the outcome of an outbound transfer.
type Settlement interface {
	// GetReference returns the id of the swap the transfer was dispatched for.
	GetReference() string
	GetOutcome() TransferOutcome
}

// TransferRequest defines an outbound transfer of Amount of Asset to
// Recipient. Reference is echoed back with the settlement.
type TransferRequest struct {
	Asset     string
	Recipient string
	Amount    mathutil.Uint128
	Reference string
}
