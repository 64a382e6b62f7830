package circuitbreaker_test

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-amm/pkg/circuitbreaker"
)

func TestCircuitBreaker(t *testing.T) {
	cb := circuitbreaker.NewCircuitBreaker("ledger")
	require.Equal(t, "ledger", cb.Name())

	failure := errors.New("unreachable")
	for i := 0; i <= circuitbreaker.MaxNumOfFailingRequests; i++ {
		_, err := cb.Execute(func() (interface{}, error) {
			return nil, failure
		})
		require.ErrorIs(t, err, failure)
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Execute(func() (interface{}, error) {
		return nil, nil
	})
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}
