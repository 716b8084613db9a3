package status

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestState_YAMLFlattensLevelsAndToggles(t *testing.T) {
	s := State{
		Levels:  Levels{Volume: 0.5},
		Toggles: Toggles{RotationLock: true},
	}
	out, err := yaml.Marshal(s)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	for _, line := range []string{"volume: 0.5", "rotation_lock: true", "battery: null"} {
		if !strings.Contains(string(out), "\n"+line+"\n") {
			t.Errorf("missing top-level %q in:\n%s", line, out)
		}
	}
}
