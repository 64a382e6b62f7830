package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func withTempState(t *testing.T) {
	dataDir, path := ammDataDir, statePath
	ammDataDir = filepath.Join(t.TempDir(), "amm-cli")
	statePath = filepath.Join(ammDataDir, "state.json")
	t.Cleanup(func() {
		ammDataDir, statePath = dataDir, path
	})
}

func TestState(t *testing.T) {
	withTempState(t)

	_, err := getState()
	require.Error(t, err)

	require.NoError(t, setState(map[string]string{"rpcserver": "localhost:9945"}))
	require.NoError(t, setState(map[string]string{"foo": "bar"}))

	state, err := getState()
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"rpcserver": "localhost:9945",
		"foo":       "bar",
	}, state)
}

func TestGetFromDaemon(t *testing.T) {
	withTempState(t)

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/v1/preview":
				require.Equal(t, "token-a.near", r.URL.Query().Get("asset"))
				require.Equal(t, "5000000000", r.URL.Query().Get("amount"))
				w.Write([]byte(`{"amount_out":"4000000000"}`))
			default:
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":"swap not found"}`))
			}
		},
	))
	defer server.Close()

	require.NoError(t, setState(map[string]string{"rpcserver": server.URL}))

	query := url.Values{}
	query.Set("asset", "token-a.near")
	query.Set("amount", "5000000000")
	body, err := getFromDaemon("/v1/preview", query)
	require.NoError(t, err)
	require.JSONEq(t, `{"amount_out":"4000000000"}`, string(body))

	_, err = getFromDaemon("/v1/swaps/unknown", nil)
	require.EqualError(t, err, "swap not found")
}

func TestPostToDaemon(t *testing.T) {
	withTempState(t)

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.Method != http.MethodPost ||
				r.Header.Get("Authorization") != "Bearer operator-token" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"missing bearer token"}`))
				return
			}
			w.Write([]byte(`{"swap":{"id":"swap-id","status":"DISPATCHED_ABORTED"}}`))
		},
	))
	defer server.Close()

	require.NoError(t, setState(map[string]string{"rpcserver": server.URL}))

	body, err := postToDaemon("/v1/swaps/swap-id/abort", "operator-token")
	require.NoError(t, err)
	require.Contains(t, string(body), "DISPATCHED_ABORTED")

	_, err = postToDaemon("/v1/swaps/swap-id/abort", "")
	require.EqualError(t, err, "missing bearer token")
}
