package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-amm/internal/core/application/pool"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/pkg/jwtutil"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

var (
	ErrMissingToken     = errors.New("missing bearer token")
	ErrInvalidOutcome   = errors.New("invalid settlement outcome")
	ErrMissingSender    = errors.New("missing sender id")
	ErrMissingReference = errors.New("missing settlement reference")
)

var statusByError = []struct {
	err    error
	status int
}{
	{ErrMissingToken, http.StatusUnauthorized},
	{jwtutil.ErrInvalidToken, http.StatusUnauthorized},
	{jwtutil.ErrMissingSubject, http.StatusUnauthorized},
	{pool.ErrUnauthorizedCaller, http.StatusForbidden},
	{domain.ErrSwapNotFound, http.StatusNotFound},
	{ErrInvalidOutcome, http.StatusBadRequest},
	{ErrMissingSender, http.StatusBadRequest},
	{ErrMissingReference, http.StatusBadRequest},
	{mathutil.ErrInvalidUint128, http.StatusBadRequest},
	{domain.ErrUnsupportedAsset, http.StatusBadRequest},
	{domain.ErrZeroAmount, http.StatusBadRequest},
	{domain.ErrOverflow, http.StatusUnprocessableEntity},
	{domain.ErrInsufficientLiquidity, http.StatusUnprocessableEntity},
	{domain.ErrSwapAmountTooLow, http.StatusUnprocessableEntity},
	{domain.ErrSettlementNotReady, http.StatusConflict},
	{domain.ErrSwapMustBeReceived, http.StatusConflict},
	{domain.ErrSwapMustBeQuoted, http.StatusConflict},
	{domain.ErrSwapMustBeDispatched, http.StatusConflict},
	{pool.ErrSwapNotInFlight, http.StatusConflict},
	{pool.ErrTransferDispatchFailed, http.StatusBadGateway},
	{pool.ErrServiceUnavailable, http.StatusServiceUnavailable},
	{domain.ErrMetadataFetchFailed, http.StatusServiceUnavailable},
}

func errorStatus(err error) int {
	var badRequest *badRequestError
	if errors.As(err, &badRequest) {
		return http.StatusBadRequest
	}
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("internal error")
		msg = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Debug("failed to write response")
	}
}
