// Package gateway implements ports.Ledger on top of the HTTP API of a ledger
// gateway: a service that holds the custody accounts of the pool on the
// ledgers of both assets. Requests are rate limited and go through a circuit
// breaker, and each of them is authenticated with a token whose subject is
// the pool account.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/tdex-amm/internal/core/domain"
	"github.com/tdex-network/tdex-amm/internal/core/ports"
	"github.com/tdex-network/tdex-amm/pkg/circuitbreaker"
	"github.com/tdex-network/tdex-amm/pkg/jwtutil"
	"github.com/tdex-network/tdex-amm/pkg/stats"
	"go.uber.org/ratelimit"
)

const (
	defaultRateLimit = 50
	defaultTimeout   = 15 * time.Second
	tokenTTL         = time.Minute

	methodGetMetadata = "get_metadata"
	methodTransfer    = "transfer"
)

type Config struct {
	URL       string
	AccountID string
	Secret    []byte
	// RateLimit is the max number of requests per second, defaults to 50.
	RateLimit int
	// Timeout of a single request, defaults to 15s.
	Timeout time.Duration
	Metrics *stats.PoolMetrics
}

func (c Config) validate() error {
	if c.URL == "" {
		return ErrMissingURL
	}
	if _, err := url.ParseRequestURI(c.URL); err != nil {
		return fmt.Errorf("invalid ledger gateway url: %w", err)
	}
	if c.AccountID == "" {
		return ErrMissingAccountID
	}
	if len(c.Secret) <= 0 {
		return ErrMissingSecret
	}
	return nil
}

type service struct {
	baseURL   string
	accountID string
	secret    []byte

	httpClient *client
	cb         *gobreaker.CircuitBreaker
	limiter    ratelimit.Limiter
	metrics    *stats.PoolMetrics
}

// NewLedger returns a ports.Ledger that talks with the gateway at cfg.URL.
func NewLedger(cfg Config) (ports.Ledger, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &service{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		accountID:  cfg.AccountID,
		secret:     cfg.Secret,
		httpClient: newHTTPClient(timeout),
		cb:         circuitbreaker.NewCircuitBreaker("ledger gateway"),
		limiter:    ratelimit.New(rateLimit),
		metrics:    cfg.Metrics,
	}, nil
}

func (s *service) GetMetadata(
	ctx context.Context, asset string,
) (domain.AssetMetadata, error) {
	endpoint := fmt.Sprintf(
		"%s/v1/assets/%s/metadata", s.baseURL, url.PathEscape(asset),
	)

	res, err := s.cb.Execute(func() (interface{}, error) {
		headers, err := s.headers()
		if err != nil {
			return nil, err
		}

		s.limiter.Take()
		status, body, err := s.httpClient.get(ctx, endpoint, headers)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, responseError(status, body)
		}

		var resp metadataResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("invalid metadata response: %w", err)
		}
		return domain.AssetMetadata{
			Name:      resp.Name,
			Precision: resp.Decimals,
		}, nil
	})
	s.metrics.ObserveLedgerRequest(methodGetMetadata, err)
	if err != nil {
		return domain.AssetMetadata{}, err
	}

	metadata := res.(domain.AssetMetadata)
	log.Debugf(
		"fetched metadata of %s: %s (%d decimals)",
		asset, metadata.Name, metadata.Precision,
	)
	return metadata, nil
}

// Transfer requests the gateway to move funds out of the custody of the
// pool. The gateway accepts the request and settles it later by notifying
// the outcome to the pool.
func (s *service) Transfer(ctx context.Context, req ports.TransferRequest) error {
	endpoint := fmt.Sprintf("%s/v1/transfers", s.baseURL)
	payload, err := json.Marshal(transferRequest{
		Asset:     req.Asset,
		Recipient: req.Recipient,
		Amount:    req.Amount,
		Reference: req.Reference,
	})
	if err != nil {
		return err
	}

	_, err = s.cb.Execute(func() (interface{}, error) {
		headers, err := s.headers()
		if err != nil {
			return nil, err
		}
		headers["Content-Type"] = "application/json"

		s.limiter.Take()
		status, body, err := s.httpClient.post(ctx, endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK && status != http.StatusAccepted {
			return nil, responseError(status, body)
		}
		return nil, nil
	})
	s.metrics.ObserveLedgerRequest(methodTransfer, err)
	if err != nil {
		return err
	}

	log.Debugf(
		"transfer of %s %s to %s accepted by gateway (ref %s)",
		req.Amount, req.Asset, req.Recipient, req.Reference,
	)
	return nil
}

func (s *service) headers() (map[string]string, error) {
	token, err := jwtutil.NewToken(s.secret, s.accountID, tokenTTL)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}, nil
}
