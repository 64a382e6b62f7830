package gateway

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

type client struct {
	*http.Client
}

func newHTTPClient(requestTimeout time.Duration) *client {
	return &client{&http.Client{Timeout: requestTimeout}}
}

func (c *client) get(
	ctx context.Context, url string, header map[string]string,
) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	for key, value := range header {
		req.Header.Set(key, value)
	}
	return c.doRequest(req)
}

func (c *client) post(
	ctx context.Context, url string, body []byte, header map[string]string,
) (int, []byte, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, url, bytes.NewReader(body),
	)
	if err != nil {
		return 0, nil, err
	}
	for key, value := range header {
		req.Header.Set(key, value)
	}
	return c.doRequest(req)
}

func (c *client) doRequest(req *http.Request) (int, []byte, error) {
	rs, err := c.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer rs.Body.Close()

	bodyBytes, err := io.ReadAll(rs.Body)
	if err != nil {
		return -1, nil, err
	}
	return rs.StatusCode, bodyBytes, nil
}
