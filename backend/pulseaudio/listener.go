package pulseaudio

import (
	"context"

	"github.com/ckgxrg/dwsh/logger"
)

// Listener follows server change notifications and reports master volume
// changes made outside dwsh (media keys, pavucontrol).
type Listener struct {
	backend  *PulseAudioBackend
	onChange func(float64)
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewListener(backend *PulseAudioBackend, onChange func(float64)) *Listener {
	parent := backend.ctx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Listener{
		backend:  backend,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start subscribes to server updates.
func (l *Listener) Start() error {
	updates, err := l.backend.client.Updates()
	if err != nil {
		close(l.done)
		return err
	}

	go l.listen(updates)

	logger.Debug("[pulseaudio] listener started")
	return nil
}

func (l *Listener) listen(updates <-chan struct{}) {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			return

		case _, ok := <-updates:
			if !ok {
				logger.Warn("[pulseaudio] update stream closed")
				return
			}
			l.refresh()
		}
	}
}

func (l *Listener) refresh() {
	v, err := l.backend.client.Volume()
	if err != nil {
		logger.Warn("[pulseaudio] failed to read volume: %v", err)
		return
	}
	vol := roundVolume(v)
	if !l.backend.changed(vol) {
		return
	}
	logger.Debug("[pulseaudio] volume changed to %.2f", vol)
	if l.onChange != nil {
		l.onChange(vol)
	}
}

// Stop cancels the listener and waits for it to exit.
func (l *Listener) Stop() {
	logger.Debug("[pulseaudio] stopping listener")
	l.cancel()
	<-l.done
}
