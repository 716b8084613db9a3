package session

import "github.com/ckgxrg/dwsh/logger"

// CapabilityProber answers whether the system allows an action, using the
// logind vocabulary: "yes", "no", "challenge", "na".
type CapabilityProber interface {
	Probe(a Action) (string, error)
}

// CheckCapabilities asks the prober about every action and logs the ones that
// will likely fail. The overlay still offers them: the compositor may have
// other means to honour the request.
func CheckCapabilities(p CapabilityProber) map[Action]string {
	result := make(map[Action]string, len(Actions))
	if p == nil {
		return result
	}
	for _, a := range Actions {
		answer, err := p.Probe(a)
		if err != nil {
			logger.Warn("[session] could not check %s capability: %v", a.Name(), err)
			continue
		}
		result[a] = answer
		switch answer {
		case "yes", "na":
		case "challenge":
			logger.Info("[session] %s requires authentication", a.Name())
		default:
			logger.Warn("[session] %s reported as %q by logind", a.Name(), answer)
		}
	}
	return result
}
