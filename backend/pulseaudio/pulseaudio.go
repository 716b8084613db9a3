package pulseaudio

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/the-jonsey/pulseaudio"

	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/logger"
)

// New connects to the PulseAudio (or pipewire-pulse) native socket. It
// returns nil, nil when the backend is disabled.
func New(ctx context.Context, cfg *config.PulseAudioConfig) (*PulseAudioBackend, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	address := filepath.Join(cfg.RuntimeDir, "pulse", "native")
	c, err := pulseaudio.NewClient(address)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", address, err)
	}
	server, err := c.ServerInfo()
	if err != nil {
		c.Close()
		return nil, err
	}

	backend := newBackend(ctx, c, detectServerKind(server))
	backend.name = server.PackageName
	logger.Info("[pulseaudio] connected to %s %s", server.PackageName, server.PackageVersion)
	return backend, nil
}

func newBackend(ctx context.Context, c audioClient, kind AudioServerKind) *PulseAudioBackend {
	return &PulseAudioBackend{
		client: c,
		kind:   kind,
		ctx:    ctx,
	}
}

// Start reads the current volume and begins watching the server for changes
// made by other clients. onChange may be nil.
func (pa *PulseAudioBackend) Start(onChange func(float64)) error {
	if _, err := pa.Volume(); err != nil {
		return err
	}

	pa.listener = NewListener(pa, onChange)
	return pa.listener.Start()
}

// Volume returns the master volume of the default sink as a fraction.
func (pa *PulseAudioBackend) Volume() (float64, error) {
	v, err := pa.client.Volume()
	if err != nil {
		return 0, fmt.Errorf("get volume: %w", err)
	}
	vol := roundVolume(v)

	pa.mu.Lock()
	pa.last = vol
	pa.mu.Unlock()
	return vol, nil
}

// SetVolume sets the master volume. Values outside [0, 1] are clamped so
// the sink is never amplified past 100%.
func (pa *PulseAudioBackend) SetVolume(v float64) error {
	v = math.Max(0, math.Min(1, v))
	if err := pa.client.SetVolume(float32(v)); err != nil {
		return fmt.Errorf("set volume: %w", err)
	}

	pa.mu.Lock()
	pa.last = v
	pa.mu.Unlock()
	logger.Debug("[pulseaudio] volume set to %.2f", v)
	return nil
}

// ServerInfo describes the connected audio server.
func (pa *PulseAudioBackend) ServerInfo() ServerInfo {
	pa.mu.Lock()
	defer pa.mu.Unlock()
	return ServerInfo{Kind: pa.kind, Name: pa.name, Volume: pa.last}
}

// changed records v and reports whether it differs from the last known volume.
func (pa *PulseAudioBackend) changed(v float64) bool {
	pa.mu.Lock()
	defer pa.mu.Unlock()
	if v == pa.last {
		return false
	}
	pa.last = v
	return true
}

// Close stops the listener and the client connection.
func (pa *PulseAudioBackend) Close() {
	if pa.listener != nil {
		pa.listener.Stop()
	}
	if pa.client != nil {
		pa.client.Close()
	}
}

func detectServerKind(s *pulseaudio.Server) AudioServerKind {
	if strings.Contains(strings.ToLower(s.PackageName), "pipewire") {
		return ServerPipeWire
	}
	return ServerPulse
}

// roundVolume drops float32 noise: 0.4 comes back as 0.39999998.
func roundVolume(v float32) float64 {
	return math.Round(float64(v)*1000) / 1000
}
