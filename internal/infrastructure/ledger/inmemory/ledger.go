// Package inmemory implements ports.Ledger as an in-process simulation of
// the ledgers of the pool assets. Accounts hold balances per asset, deposits
// move funds into the custody of the pool and notify the registered deposit
// handler, while transfers out of the pool are settled asynchronously and
// their outcome is notified to the registered settlement handler.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
	"github.com/tdex-network/tdex-amm/pkg/mathutil"
)

var (
	ErrUnknownAsset        = errors.New("unknown asset")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDuplicatedReference = errors.New("transfer reference already used")
)

// DepositHandler is notified of funds moved into the custody of the pool.
type DepositHandler func(ctx context.Context, deposit ports.Deposit) error

// SettlementHandler is notified of the outcome of a transfer.
type SettlementHandler func(ctx context.Context, settlement ports.Settlement) error

type Ledger struct {
	lock sync.Mutex
	wg   sync.WaitGroup

	poolAccount string
	metadata    map[string]domain.AssetMetadata
	balances    map[string]map[string]mathutil.Uint128
	transfers   []ports.TransferRequest
	references  map[string]struct{}
	failing     map[string]struct{}
	unavailable map[string]error

	onDeposit DepositHandler
	onSettled SettlementHandler
}

// NewLedger returns an empty ledger where poolAccount is the custody account
// of the pool.
func NewLedger(poolAccount string) *Ledger {
	return &Ledger{
		poolAccount: poolAccount,
		metadata:    make(map[string]domain.AssetMetadata),
		balances:    make(map[string]map[string]mathutil.Uint128),
		references:  make(map[string]struct{}),
		failing:     make(map[string]struct{}),
		unavailable: make(map[string]error),
	}
}

// RegisterHandlers sets the handlers notified of deposits and settlements.
func (l *Ledger) RegisterHandlers(
	onDeposit DepositHandler, onSettled SettlementHandler,
) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.onDeposit = onDeposit
	l.onSettled = onSettled
}

// AddAsset creates the ledger of a new asset.
func (l *Ledger) AddAsset(asset string, metadata domain.AssetMetadata) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.metadata[asset] = metadata
	if _, ok := l.balances[asset]; !ok {
		l.balances[asset] = make(map[string]mathutil.Uint128)
	}
}

// Mint credits amount of asset to account.
func (l *Ledger) Mint(asset, account string, amount mathutil.Uint128) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	balances, ok := l.balances[asset]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, asset)
	}
	balance, err := balances[account].Add(amount)
	if err != nil {
		return err
	}
	balances[account] = balance
	return nil
}

// BalanceOf returns the balance of account for asset.
func (l *Ledger) BalanceOf(asset, account string) mathutil.Uint128 {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.balances[asset][account]
}

// FailTransfersTo makes every following transfer to recipient fail.
func (l *Ledger) FailTransfersTo(recipient string) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.failing[recipient] = struct{}{}
}

// SetUnavailable makes the metadata queries of asset fail with err. A nil
// err restores the asset.
func (l *Ledger) SetUnavailable(asset string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err == nil {
		delete(l.unavailable, asset)
		return
	}
	l.unavailable[asset] = err
}

// Transfers returns all the transfer requests accepted so far.
func (l *Ledger) Transfers() []ports.TransferRequest {
	l.lock.Lock()
	defer l.lock.Unlock()

	return append([]ports.TransferRequest{}, l.transfers...)
}

// Wait blocks until every accepted transfer has been settled and its outcome
// notified.
func (l *Ledger) Wait() {
	l.wg.Wait()
}

// Deposit moves amount of asset from sender to the pool account and notifies
// the deposit handler. The funds stay in custody whatever the handler
// returns.
func (l *Ledger) Deposit(
	ctx context.Context, asset, sender string, amount mathutil.Uint128,
) error {
	if err := l.move(asset, sender, l.poolAccount, amount); err != nil {
		return err
	}

	l.lock.Lock()
	onDeposit := l.onDeposit
	l.lock.Unlock()

	if onDeposit == nil {
		return nil
	}
	return onDeposit(ctx, deposit{asset, sender, amount})
}

func (l *Ledger) GetMetadata(
	_ context.Context, asset string,
) (domain.AssetMetadata, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := l.unavailable[asset]; err != nil {
		return domain.AssetMetadata{}, err
	}
	metadata, ok := l.metadata[asset]
	if !ok {
		return domain.AssetMetadata{}, fmt.Errorf("%w: %s", ErrUnknownAsset, asset)
	}
	return metadata, nil
}

// Transfer accepts the request and settles it in background.
func (l *Ledger) Transfer(ctx context.Context, req ports.TransferRequest) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if _, ok := l.balances[req.Asset]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, req.Asset)
	}
	if _, ok := l.references[req.Reference]; ok {
		return ErrDuplicatedReference
	}

	l.references[req.Reference] = struct{}{}
	l.transfers = append(l.transfers, req)

	l.wg.Add(1)
	go l.settle(context.WithoutCancel(ctx), req)
	return nil
}

func (l *Ledger) settle(ctx context.Context, req ports.TransferRequest) {
	defer l.wg.Done()

	outcome := ports.TransferOutcomeSuccess
	l.lock.Lock()
	_, mustFail := l.failing[req.Recipient]
	onSettled := l.onSettled
	l.lock.Unlock()

	if mustFail {
		outcome = ports.TransferOutcomeFailed
	} else if err := l.move(
		req.Asset, l.poolAccount, req.Recipient, req.Amount,
	); err != nil {
		log.WithError(err).Warnf("transfer %s failed", req.Reference)
		outcome = ports.TransferOutcomeFailed
	}

	if onSettled == nil {
		return
	}
	if err := onSettled(ctx, settlement{req.Reference, outcome}); err != nil {
		log.WithError(err).Debugf(
			"settlement handler of transfer %s returned error", req.Reference,
		)
	}
}

func (l *Ledger) move(asset, from, to string, amount mathutil.Uint128) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	balances, ok := l.balances[asset]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, asset)
	}
	fromBalance, err := balances[from].Sub(amount)
	if err != nil {
		return fmt.Errorf(
			"%w: %s has %s %s", ErrInsufficientBalance, from, balances[from], asset,
		)
	}
	toBalance, err := balances[to].Add(amount)
	if err != nil {
		return err
	}
	balances[from] = fromBalance
	balances[to] = toBalance
	return nil
}

type deposit struct {
	asset  string
	sender string
	amount mathutil.Uint128
}

func (d deposit) GetAsset() string {
	return d.asset
}
func (d deposit) GetSender() string {
	return d.sender
}
func (d deposit) GetAmount() mathutil.Uint128 {
	return d.amount
}

type settlement struct {
	reference string
	outcome   ports.TransferOutcome
}

func (s settlement) GetReference() string {
	return s.reference
}
func (s settlement) GetOutcome() ports.TransferOutcome {
	return s.outcome
}
