package jwtutil_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-amm/pkg/jwtutil"
)

var secret = []byte("supersecret")

func TestToken(t *testing.T) {
	t.Parallel()

	token, err := jwtutil.NewToken(secret, "amm.near", time.Minute)
	require.NoError(t, err)

	subject, err := jwtutil.ParseSubject(secret, token)
	require.NoError(t, err)
	require.Equal(t, "amm.near", subject)

	subject = jwtutil.BearerToken("Bearer " + token)
	require.Equal(t, token, subject)
}

func TestFailingToken(t *testing.T) {
	t.Parallel()

	expired, err := jwtutil.NewToken(secret, "amm.near", -time.Hour)
	require.NoError(t, err)
	otherSecret, err := jwtutil.NewToken([]byte("other"), "amm.near", 0)
	require.NoError(t, err)

	tests := []struct {
		name          string
		token         string
		expectedError error
	}{
		{"expired", expired, jwtutil.ErrInvalidToken},
		{"wrong_secret", otherSecret, jwtutil.ErrInvalidToken},
		{"malformed", "not-a-token", jwtutil.ErrInvalidToken},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			subject, err := jwtutil.ParseSubject(secret, tt.token)
			require.ErrorIs(t, err, tt.expectedError)
			require.Empty(t, subject)
		})
	}

	_, err = jwtutil.NewToken(secret, "", 0)
	require.ErrorIs(t, err, jwtutil.ErrMissingSubject)
	_, err = jwtutil.NewToken(nil, "amm.near", 0)
	require.ErrorIs(t, err, jwtutil.ErrMissingSecret)
	require.Empty(t, jwtutil.BearerToken("Basic abc"))
}
