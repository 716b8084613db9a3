package api

import (
	"net/http"

	"github.com/ckgxrg/dwsh/logger"
)

func (s *Server) registerServerRoutes() {
	s.mux.HandleFunc(
		"GET /server",
		JSONHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
			return s.backend.GetServerDeviceInfo(s.poller.Snapshot().Battery), nil
		}),
	)
}

func (s *Server) registerStatusRoutes() {
	s.mux.HandleFunc(
		"GET /status",
		JSONHandler(func(w http.ResponseWriter, r *http.Request) (any, error) {
			return s.poller.Snapshot(), nil
		}),
	)
	s.mux.HandleFunc(
		"POST /status/volume",
		withLevel(s.poller, s.backend.ApplyVolume),
	)
	s.mux.HandleFunc(
		"POST /status/brightness",
		withLevel(s.poller, s.backend.ApplyBrightness),
	)
	s.mux.HandleFunc(
		"POST /status/idle_inhibit",
		withToggle(s.poller, s.backend.ApplyIdleInhibit),
	)
	s.mux.HandleFunc(
		"POST /status/rotation_lock",
		withToggle(s.poller, s.backend.ApplyRotationLock),
	)
	s.mux.HandleFunc(
		"POST /status/osk",
		withToggle(s.poller, s.backend.ApplyOnScreenKeyboard),
	)
}

func (s *Server) registerSessionRoutes() {
	s.mux.HandleFunc(
		"GET /session/capabilities",
		capabilitiesHandler(s.backend),
	)
}

func (s *Server) registerEventRoutes() {
	s.mux.HandleFunc("GET /events", sseHandler(s.broadcaster))
	s.mux.HandleFunc("GET /ws", wsHandler(s.broadcaster))
	logger.Info("[api] event routes registered at /events and /ws")
}
