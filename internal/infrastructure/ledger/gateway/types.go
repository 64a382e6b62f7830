package gateway

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

var (
	ErrMissingURL       = errors.New("missing ledger gateway url")
	ErrMissingAccountID = errors.New("missing pool account id")
	ErrMissingSecret    = errors.New("missing auth secret")
)

type metadataResponse struct {
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

type transferRequest struct {
	Asset     string           `json:"asset"`
	Recipient string           `json:"recipient"`
	Amount    mathutil.Uint128 `json:"amount"`
	Reference string           `json:"reference"`
}

// responseError builds an error out of a non-successful response of the
// gateway.
func responseError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("ledger gateway responded with status %d", status)
	}
	return fmt.Errorf("ledger gateway responded with status %d: %s", status, msg)
}
