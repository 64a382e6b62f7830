// Package httpinterface exposes the pool over HTTP: the callbacks invoked by
// the ledgers of the assets, authenticated with bearer tokens, and the
// read-only queries. Pool events are streamed over websocket.
package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-amm/internal/interfaces"
)

const shutdownTimeout = 5 * time.Second

type ServiceOpts struct {
	Address string

	PoolSvc    PoolService
	AuthSecret []byte
	// Events serves the websocket stream of pool events.
	Events http.Handler
	// Metrics serves the prometheus metrics.
	Metrics        http.Handler
	EnableProfiler bool
}

func (o ServiceOpts) validate() error {
	if o.Address == "" {
		return fmt.Errorf("missing listening address")
	}
	if o.PoolSvc == nil {
		return fmt.Errorf("missing pool service")
	}
	if len(o.AuthSecret) <= 0 {
		return fmt.Errorf("missing auth secret")
	}
	return nil
}

type service struct {
	opts   ServiceOpts
	server *http.Server
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}

	return &service{
		opts: opts,
		server: &http.Server{
			Addr:              opts.Address,
			Handler:           NewHandler(opts),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (s *service) Start() error {
	errC := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return err
	case <-time.After(100 * time.Millisecond):
	}

	log.Infof("http interface is listening on %s", s.opts.Address)
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http interface")
	}
	log.Debug("stopped http interface")
}

// NewHandler returns the router serving every route of the interface.
func NewHandler(opts ServiceOpts) http.Handler {
	h := handler{opts.PoolSvc}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}
	if opts.EnableProfiler {
		r.Mount("/debug", middleware.Profiler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticate(opts.AuthSecret))
			r.Post("/deposits", h.deposit)
			r.Post("/settlements", h.settlement)
			r.Post("/swaps/{id}/abort", h.abortSwap)
		})

		r.Get("/reserves", h.getReserves)
		r.Get("/invariant", h.getInvariant)
		r.Get("/preview", h.previewSwap)
		r.Get("/swaps", h.listSwaps)
		r.Get("/swaps/{id}", h.getSwap)
		if opts.Events != nil {
			r.Handle("/events", opts.Events)
		}
	})

	return r
}
