package events

import "slices"

const (
	TypeServerInfo    = "server.info"
	TypeStatusClock   = "status.clock"
	TypeStatusBattery = "status.battery"
	TypeStatusLevels  = "status.levels"
	TypeStatusToggles = "status.toggles"
)

// BackendTypes groups event types by the source that emits them, so that
// clients can subscribe with ?backend=battery instead of listing types.
var BackendTypes = map[string][]string{
	"clock":   {TypeStatusClock},
	"battery": {TypeStatusBattery},
	"levels":  {TypeStatusLevels},
	"toggles": {TypeStatusToggles},
}

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// NewFilter combines an include list and an exclude list. An empty include
// list means every type not excluded passes.
func NewFilter(include, exclude []string) func(Event) bool {
	if len(include) == 0 && len(exclude) == 0 {
		return nil
	}
	return func(e Event) bool {
		if slices.Contains(exclude, e.Type) {
			return false
		}
		return len(include) == 0 || slices.Contains(include, e.Type)
	}
}
