package httpinterface

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-amm/pkg/jwtutil"
)

type contextKey struct{}

// authenticate verifies the bearer token of the request and stores its
// subject in the request context as the caller identity.
func authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := jwtutil.BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeError(w, ErrMissingToken)
				return
			}
			caller, err := jwtutil.ParseSubject(secret, token)
			if err != nil {
				log.WithError(err).Debug("rejected token")
				writeError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), contextKey{}, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func callerFromContext(ctx context.Context) string {
	caller, _ := ctx.Value(contextKey{}).(string)
	return caller
}

func logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debugf(
			"%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start),
		)
	})
}
