package zeroconf

import (
	"context"
	"errors"
	"sync"

	"github.com/grandcat/zeroconf"

	"github.com/ckgxrg/dwsh/config"
	"github.com/ckgxrg/dwsh/logger"
)

var ErrAlreadyStarted = errors.New("service already published")

type server interface {
	Shutdown()
}

type registerFunc func(instance, service, domain string, port int, text []string) (server, error)

// ZeroConfBackend advertises the HTTP API over mDNS.
type ZeroConfBackend struct {
	Config *config.ZeroConfig

	register registerFunc
	server   server
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
}

func registerMDNS(instance, service, domain string, port int, text []string) (server, error) {
	s, err := zeroconf.Register(instance, service, domain, port, text, nil)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// New prepares the advertisement. It returns nil, nil when disabled.
func New(ctx context.Context, cfg *config.ZeroConfig) (*ZeroConfBackend, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	subCtx, cancel := context.WithCancel(ctx)

	return &ZeroConfBackend{
		Config:   cfg,
		register: registerMDNS,
		ctx:      subCtx,
		cancel:   cancel,
	}, nil
}

// Start publishes the service. It is withdrawn when the context passed to
// New is cancelled or Shutdown is called.
func (z *ZeroConfBackend) Start() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.server != nil {
		return ErrAlreadyStarted
	}

	s, err := z.register(
		z.Config.InstanceName,
		z.Config.ServiceType,
		z.Config.Domain,
		z.Config.Port,
		z.Config.TxtRecords,
	)
	if err != nil {
		return err
	}

	z.server = s
	logger.Info("[discovery] published %q (type %s, port %d)",
		z.Config.InstanceName, z.Config.ServiceType, z.Config.Port)

	ctx := z.ctx
	go func() {
		<-ctx.Done()
		z.Shutdown()
	}()

	return nil
}

// Shutdown withdraws the advertisement. Safe to call more than once.
func (z *ZeroConfBackend) Shutdown() {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.server != nil {
		z.server.Shutdown()
		z.server = nil
		logger.Debug("[discovery] %q withdrawn", z.Config.InstanceName)
	}

	if z.cancel != nil {
		z.cancel()
		z.cancel = nil
	}
}
