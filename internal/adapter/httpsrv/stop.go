package httpsrv

import (
	"context"
	"net/http"
)

type Stopper interface {
	Stop(ctx context.Context) error
}

// stopHandler blocks until the active run has fully stopped.
func stopHandler(s Stopper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Stop(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Stopped"))
	}
}
