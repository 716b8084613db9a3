package api

import (
	"errors"
	"math"
	"net/http"

	"github.com/ckgxrg/dwsh/logger"
	"github.com/ckgxrg/dwsh/status"
)

type levelRequest struct {
	Value *float64 `json:"value"`
}

type toggleRequest struct {
	Enabled *bool `json:"enabled"`
}

func validateLevel(req *levelRequest) error {
	if req.Value == nil {
		return errors.New("missing value")
	}
	if math.IsNaN(*req.Value) || math.IsInf(*req.Value, 0) {
		return errors.New("value must be a finite number")
	}
	return nil
}

func validateToggle(req *toggleRequest) error {
	if req.Enabled == nil {
		return errors.New("missing enabled")
	}
	return nil
}

// handleApplyError maps a failed hardware call to 502: the request was valid
// but the device behind it refused.
func handleApplyError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	logger.Warn("[api] %s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, err.Error(), http.StatusBadGateway)
}

func withLevel(p *status.Poller, apply func(*status.Poller, float64) error) http.HandlerFunc {
	return withBody(validateLevel, func(w http.ResponseWriter, r *http.Request, req *levelRequest) {
		handleApplyError(w, r, apply(p, *req.Value))
	})
}

func withToggle(p *status.Poller, apply func(*status.Poller, bool) error) http.HandlerFunc {
	return withBody(validateToggle, func(w http.ResponseWriter, r *http.Request, req *toggleRequest) {
		handleApplyError(w, r, apply(p, *req.Enabled))
	})
}
