package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tdex-network/tdex-amm/internal/core/application/pool"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

const maxBodySize = 1 << 16

type handler struct {
	poolSvc PoolService
}

// deposit is invoked by the ledger of an asset when funds are moved into the
// custody of the pool, the token subject is the asset itself.
func (h handler) deposit(w http.ResponseWriter, r *http.Request) {
	asset := callerFromContext(r.Context())

	var req depositRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sender := strings.TrimSpace(req.SenderID)
	if sender == "" {
		writeError(w, ErrMissingSender)
		return
	}

	swap, err := h.poolSvc.OnFundsReceived(
		r.Context(), pool.NewDeposit(asset, sender, req.Amount),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := depositResponse{}
	if swap != nil {
		resp.Swap = newSwapInfo(*swap)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h handler) settlement(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context())

	var req settlementRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Reference == "" {
		writeError(w, ErrMissingReference)
		return
	}
	outcome, ok := ports.ParseTransferOutcome(strings.ToLower(req.Outcome))
	if !ok {
		writeError(w, ErrInvalidOutcome)
		return
	}

	err := h.poolSvc.OnTransferSettled(
		r.Context(), caller, pool.NewSettlement(req.Reference, outcome),
	)
	// A failed transfer is acknowledged like a successful one, the swap
	// reports it.
	if err != nil && !errors.Is(err, domain.ErrSettlementFailed) {
		writeError(w, err)
		return
	}

	swap, err := h.poolSvc.GetSwap(r.Context(), req.Reference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, depositResponse{Swap: newSwapInfo(*swap)})
}

// abortSwap is invoked by the operator to release the in-flight swap.
func (h handler) abortSwap(w http.ResponseWriter, r *http.Request) {
	swap, err := h.poolSvc.AbortInFlightSwap(
		r.Context(), callerFromContext(r.Context()), chi.URLParam(r, "id"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, depositResponse{Swap: newSwapInfo(*swap)})
}

func (h handler) getReserves(w http.ResponseWriter, r *http.Request) {
	info, err := h.poolSvc.GetReservesInfo(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h handler) getInvariant(w http.ResponseWriter, r *http.Request) {
	invariant, err := h.poolSvc.GetInvariant(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invariantResponse{invariant})
}

func (h handler) previewSwap(w http.ResponseWriter, r *http.Request) {
	asset := r.URL.Query().Get("asset")
	amount, err := mathutil.ParseUint128(r.URL.Query().Get("amount"))
	if err != nil {
		writeError(w, err)
		return
	}

	preview, err := h.poolSvc.PreviewSwap(r.Context(), asset, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (h handler) listSwaps(w http.ResponseWriter, r *http.Request) {
	swaps, err := h.poolSvc.ListSwaps(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*swapInfo, 0, len(swaps))
	for _, s := range swaps {
		resp = append(resp, newSwapInfo(s))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"swaps": resp})
}

func (h handler) getSwap(w http.ResponseWriter, r *http.Request) {
	swap, err := h.poolSvc.GetSwap(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSwapInfo(*swap))
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, mathutil.ErrInvalidUint128) ||
			errors.Is(err, mathutil.ErrOverflow) {
			return err
		}
		return &badRequestError{err}
	}
	return nil
}

type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string {
	return "invalid request body: " + e.err.Error()
}

func (e *badRequestError) Unwrap() error {
	return e.err
}
