package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	poolDbDir = "pool"

	maxTxRetries = 5
)

type txKey struct{}

type repoManager struct {
	store *badgerhold.Store

	poolRepository domain.PoolRepository
	swapRepository domain.SwapRepository

	closeGC func()
}

// NewRepoManager opens (or creates if not exists) the badger store in the
// given base directory. The store is kept in memory if baseDbDir is empty.
func NewRepoManager(
	baseDbDir string, logger badger.Logger,
) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, poolDbDir)
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening pool db: %w", err)
	}

	closeGC := func() {}
	if len(dbDir) > 0 {
		closeGC = runValueLogGC(store)
	}

	return &repoManager{
		store:          store,
		poolRepository: NewPoolRepositoryImpl(store),
		swapRepository: NewSwapRepositoryImpl(store),
		closeGC:        closeGC,
	}, nil
}

func (r *repoManager) PoolRepository() domain.PoolRepository {
	return r.poolRepository
}

func (r *repoManager) SwapRepository() domain.SwapRepository {
	return r.swapRepository
}

// RunTransaction runs the handler with a badger transaction carried in the
// context, so that every repository call made within it is part of the same
// transaction. The transaction is retried on write conflicts.
func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	for i := 0; ; i++ {
		tx := r.store.Badger().NewTransaction(!readOnly)
		res, err := handler(context.WithValue(ctx, txKey{}, tx))
		if err != nil {
			tx.Discard()
			return nil, err
		}
		if readOnly {
			tx.Discard()
			return res, nil
		}

		if err := tx.Commit(); err != nil {
			if errors.Is(err, badger.ErrConflict) && i < maxTxRetries {
				log.Debugf("db transaction conflict, retrying (%d)", i+1)
				continue
			}
			return nil, err
		}
		return res, nil
	}
}

func (r *repoManager) Close() {
	r.closeGC()
	if err := r.store.Close(); err != nil {
		log.WithError(err).Warn("failed to close pool db")
	}
}

func txFromContext(ctx context.Context) *badger.Txn {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return tx
	}
	return nil
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

func runValueLogGC(store *badgerhold.Store) func() {
	ticker := time.NewTicker(30 * time.Minute)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := store.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.Error(err)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
