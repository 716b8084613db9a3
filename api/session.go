package api

import (
	"net/http"

	"github.com/ckgxrg/dwsh/backend"
	"github.com/ckgxrg/dwsh/session"
)

type capabilityEntry struct {
	Action     string `json:"action"`
	Label      string `json:"label"`
	Key        string `json:"key"`
	Capability string `json:"capability"`
}

// capabilitiesHandler lists every action with its key binding and logind's
// answer. Without logind every capability is reported as "unknown".
func capabilitiesHandler(b *backend.Backend) http.HandlerFunc {
	return JSONHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
		return probeAll(b.Prober())
	})
}

func probeAll(prober session.CapabilityProber) ([]capabilityEntry, error) {
	out := make([]capabilityEntry, 0, len(session.Actions))
	for _, a := range session.Actions {
		entry := capabilityEntry{
			Action:     a.Name(),
			Label:      a.String(),
			Key:        session.KeyFor(a),
			Capability: "unknown",
		}
		if prober != nil {
			answer, err := prober.Probe(a)
			if err != nil {
				return nil, err
			}
			entry.Capability = answer
		}
		out = append(out, entry)
	}
	return out, nil
}
