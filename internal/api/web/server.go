package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"line-inspector/internal/domain/entity"
)

//go:embed dashboard.html
var dashboardHTML []byte

// Inspection последний результат цикла контроля
type Inspection interface {
	LatestFrame() ([]byte, bool)
	LastResult() entity.LastResult
}

// Stats счётчики и FPS
type Stats interface {
	Snapshot() entity.ProductionStats
	FPS() int
}

// StatusResponse ответ GET /api/status
type StatusResponse struct {
	IsRunning  bool                   `json:"is_running"`
	FPS        int                    `json:"fps"`
	Stats      entity.ProductionStats `json:"stats"`
	NGRate     float64                `json:"ng_rate"`
	LastResult *entity.LastResult     `json:"last_result,omitempty"`
	Clients    int                    `json:"clients"`
}

// Server HTTP-сервер панели оператора
type Server struct {
	hub        *Hub
	exec       CommandExecutor
	inspection Inspection
	stats      Stats
	upgrader   websocket.Upgrader
	httpServer *http.Server
}

// NewServer собирает маршруты; metrics может быть nil
func NewServer(addr string, hub *Hub, exec CommandExecutor, inspection Inspection, stats Stats, metrics http.Handler) *Server {
	s := &Server{
		hub:        hub,
		exec:       exec,
		inspection: inspection,
		stats:      stats,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			// панель может открываться с любого адреса в цеховой сети
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/snapshot.jpg", s.handleSnapshot)
	mux.HandleFunc("POST /api/commands/{command}", s.handleCommand)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler маршрутизатор сервера
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe блокируется до Shutdown
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown закрывает WebSocket-клиентов и останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(dashboardHTML)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade")
		return
	}
	s.hub.Serve(conn)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	stats := s.stats.Snapshot()
	resp := StatusResponse{
		IsRunning: s.exec.Status().IsRunning,
		FPS:       s.stats.FPS(),
		Stats:     stats,
		NGRate:    stats.NGRate(),
		Clients:   s.hub.Count(),
	}
	if last := s.inspection.LastResult(); !last.At.IsZero() {
		resp.LastResult = &last
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	frame, ok := s.inspection.LatestFrame()
	if !ok {
		http.Error(w, "no frame yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(frame)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(frame)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	cmd := entity.Command(r.PathValue("command"))
	if !cmd.Valid() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown command: " + string(cmd)})
		return
	}

	// разрыв HTTP-соединения не должен прерывать перезапуск камеры
	status, err := s.exec.Execute(context.WithoutCancel(r.Context()), cmd)
	code := http.StatusOK
	if err != nil {
		log.Warn().Err(err).Str("command", string(cmd)).Msg("command failed")
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write json response")
	}
}
