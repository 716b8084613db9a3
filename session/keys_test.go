package session

import "testing"

func TestIdentifyKey(t *testing.T) {
	tests := []struct {
		key    string
		want   Action
		mapped bool
	}{
		{"Escape", None, true},
		{"s", Poweroff, true},
		{"r", Reboot, true},
		{"l", Lock, true},
		{"e", Logout, true},
		{"u", Suspend, true},
		{"S", None, false},
		{"q", None, false},
		{"Return", None, false},
		{"", None, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			for i := 0; i < 2; i++ {
				got, ok := IdentifyKey(tt.key)
				if ok != tt.mapped || got != tt.want {
					t.Errorf("IdentifyKey(%q) = (%v, %v), want (%v, %v)", tt.key, got, ok, tt.want, tt.mapped)
				}
			}
		})
	}
}

func TestKeyForEveryAction(t *testing.T) {
	for _, a := range append([]Action{None}, Actions...) {
		key := KeyFor(a)
		if key == "" {
			t.Errorf("no key bound to %v", a.Name())
			continue
		}
		if got, ok := IdentifyKey(key); !ok || got != a {
			t.Errorf("IdentifyKey(KeyFor(%v)) = %v, %v", a.Name(), got, ok)
		}
	}
}
