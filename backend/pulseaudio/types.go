package pulseaudio

import (
	"context"
	"sync"
)

type AudioServerKind string

const (
	ServerPulse    AudioServerKind = "pulseaudio"
	ServerPipeWire AudioServerKind = "pipewire"
)

// audioClient is the subset of *pulseaudio.Client the backend uses.
type audioClient interface {
	Volume() (float32, error)
	SetVolume(volume float32) error
	Updates() (<-chan struct{}, error)
	Close()
}

// PulseAudioBackend controls the master volume of the default sink.
type PulseAudioBackend struct {
	client audioClient
	kind   AudioServerKind
	name   string

	ctx      context.Context
	listener *Listener

	mu   sync.Mutex
	last float64
}

type ServerInfo struct {
	Kind   AudioServerKind `json:"kind"`
	Name   string          `json:"name"`
	Volume float64         `json:"volume"`
}
