package httpsrv

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Status   string `json:"status"`
	RunState string `json:"run_state,omitempty"`
	Current  string `json:"current,omitempty"`
}

func healthHandler(runState, current func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := healthResponse{Status: "ok"}
		if runState != nil {
			resp.RunState = runState()
		}

		if current != nil {
			resp.Current = current()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
