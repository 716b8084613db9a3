package api

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ckgxrg/dwsh/backend"
	"github.com/ckgxrg/dwsh/events"
	"github.com/ckgxrg/dwsh/logger"
)

const (
	defaultKeepAlive = 30 * time.Second
	minKeepAlive     = 10 * time.Second
	maxKeepAlive     = 120 * time.Second
)

// eventSink is one connected client of /events or /ws.
type eventSink interface {
	send(e events.Event) error
	// heartbeat keeps idle connections alive through proxies.
	heartbeat() error
}

// streamOptions are the query parameters shared by /events and /ws.
type streamOptions struct {
	filter    func(events.Event) bool
	keepAlive time.Duration
}

func parseStreamOptions(r *http.Request) (streamOptions, error) {
	filter, err := parseFilter(r)
	if err != nil {
		return streamOptions{}, err
	}
	keepAlive, err := parseKeepAlive(r)
	if err != nil {
		return streamOptions{}, err
	}
	return streamOptions{filter: filter, keepAlive: keepAlive}, nil
}

// stream forwards broadcaster events to sink until ctx ends, gone is closed
// or a write fails. The client is greeted with server.info "connected" and
// told "bye" on shutdown.
func stream(ctx context.Context, b *backend.Broadcaster, opts streamOptions, sink eventSink, gone <-chan struct{}) {
	ch := b.SubscribeFunc(opts.filter)
	defer b.Unsubscribe(ch)

	if err := sink.send(serverInfo("connected")); err != nil {
		return
	}

	heartbeat := time.NewTicker(opts.keepAlive)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := sink.send(serverInfo("bye")); err != nil {
				logger.Debug("[api] failed to say bye: %v", err)
			}
			return
		case <-gone:
			return
		case <-heartbeat.C:
			if err := sink.heartbeat(); err != nil {
				logger.Debug("[api] heartbeat failed, closing: %v", err)
				return
			}
		case e, ok := <-ch:
			if !ok {
				return
			}
			if err := sink.send(e); err != nil {
				logger.Debug("[api] write failed, closing: %v", err)
				return
			}
		}
	}
}

func serverInfo(message string) events.Event {
	return events.Event{Type: events.TypeServerInfo, Data: message}
}

// parseKeepAlive reads the optional ?keepalive=<seconds> query parameter.
func parseKeepAlive(r *http.Request) (time.Duration, error) {
	raw := r.URL.Query().Get("keepalive")
	if raw == "" {
		return defaultKeepAlive, nil
	}
	secs, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("keepalive must be an integer (seconds)")
	}
	d := time.Duration(secs) * time.Second
	if d < minKeepAlive || d > maxKeepAlive {
		return 0, errors.New("keepalive must be between 10 and 120 seconds")
	}
	return d, nil
}

// parseFilter builds an event filter from the request's query parameters:
//   - ?types=status.battery,status.levels  event types to include
//   - ?backend=battery,toggles             sources to include (see events.BackendTypes)
//   - ?exclude=status.clock                event types to exclude
//
// server.info always passes and cannot be excluded.
func parseFilter(r *http.Request) (func(events.Event) bool, error) {
	q := r.URL.Query()

	include := splitList(q.Get("types"))
	for _, name := range splitList(q.Get("backend")) {
		include = append(include, events.BackendTypes[name]...)
	}
	if len(include) > 0 && !slices.Contains(include, events.TypeServerInfo) {
		include = append(include, events.TypeServerInfo)
	}

	exclude := splitList(q.Get("exclude"))
	if slices.Contains(exclude, events.TypeServerInfo) {
		return nil, errors.New("server.info cannot be excluded")
	}

	return events.NewFilter(include, exclude), nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
