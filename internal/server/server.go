package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/rebound/internal/config"
	"github.com/zeusync/rebound/internal/core/events/bus"
	"github.com/zeusync/rebound/internal/core/observability/log"
	"github.com/zeusync/rebound/internal/core/sandbox"
	"github.com/zeusync/rebound/internal/core/systems/physics"
)

// Controller is the part of the sandbox driven by clients.
type Controller interface {
	BeginLaunch(p physics.Vec2) error
	DragTo(p physics.Vec2) (physics.AimPreview, error)
	Release(p physics.Vec2) (physics.Vec2, error)
	Abort() error
	Resize(w, h float64) error
	Snapshot() sandbox.Frame
}

// Server exposes a sandbox over WebSocket and plain HTTP.
type Server struct {
	config     config.Server
	controller Controller
	bus        bus.EventBus
	logger     log.Log
	upgrader   websocket.Upgrader
	httpServer *http.Server

	clients     sync.Map // map[string]*client
	clientCount atomic.Int64

	subsMu   sync.Mutex
	subs     []bus.Subscription
	observer *deliveryObserver

	// guards the digest of the last broadcast frame
	frameMu    sync.Mutex
	lastDigest uint64
	sentFrame  bool

	running atomic.Bool
	closed  atomic.Bool
}

// NewServer wires the server to the sandbox events on eventBus.
func NewServer(cfg config.Server, controller Controller, eventBus bus.EventBus, logger log.Log) (*Server, error) {
	s := &Server{
		config:     cfg,
		controller: controller,
		bus:        eventBus,
		logger:     logger.With(log.String("component", "server")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	handlers := map[string]bus.EventHandler{
		sandbox.EventFrame:    s.onFrame,
		sandbox.EventAiming:   s.onFrame,
		sandbox.EventRebounds: s.onRebounds,
		sandbox.EventLaunched: s.onLaunched,
		sandbox.EventStopped:  s.onStopped,
	}
	for eventType, handler := range handlers {
		sub, err := eventBus.Subscribe(eventType, handler)
		if err != nil {
			s.unsubscribe()
			return nil, err
		}
		s.subs = append(s.subs, sub)
	}
	s.observer = &deliveryObserver{logger: s.logger}
	eventBus.AddObserver(s.observer)

	s.logger.Info("Server created",
		log.String("listen_addr", cfg.ListenAddr),
		log.Int("max_clients", cfg.MaxClients))

	return s, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.closed.Load() {
		_ = ln.Close()
		return ErrServerClosed
	}
	if !s.running.CompareAndSwap(false, true) {
		_ = ln.Close()
		return ErrServerAlreadyRunning
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", log.String("addr", ln.Addr().String()))
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting connections and disconnects every client.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Info("Stopping server")

	s.unsubscribe()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	s.clients.Range(func(_, value any) bool {
		value.(*client).close()
		return true
	})

	s.running.Store(false)
	s.logger.Info("Server stopped")
	return err
}

func (s *Server) ClientCount() int {
	return int(s.clientCount.Load())
}

func (s *Server) unsubscribe() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, sub := range s.subs {
		_ = s.bus.Unsubscribe(sub)
	}
	s.subs = nil
	if s.observer != nil {
		s.bus.RemoveObserver(s.observer)
		s.observer = nil
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.controller.Snapshot()); err != nil {
		s.logger.Warn("Failed to write state", log.Error(err))
	}
}

// Health is the /healthz body.
type Health struct {
	Status    string              `json:"status"`
	Clients   int                 `json:"clients"`
	EventsBus bus.EventBusMetrics `json:"event_bus"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	health := Health{
		Status:    "ok",
		Clients:   s.ClientCount(),
		EventsBus: s.bus.GetMetrics(),
	}
	status := http.StatusOK
	if s.closed.Load() {
		health.Status = "closing"
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(health); err != nil {
		s.logger.Warn("Failed to write health", log.Error(err))
	}
}

// deliveryObserver reports failing bus handlers. Registering it also turns on
// the bus metrics served by /healthz.
type deliveryObserver struct {
	logger log.Log
}

func (o *deliveryObserver) OnPublish(string, bus.Event) {}

func (o *deliveryObserver) OnDelivered(eventType string, handlers int, err error, durationMicros int64) {
	if err != nil {
		o.logger.Warn("Event delivery failed",
			log.String("event", eventType),
			log.Int("handlers", handlers),
			log.Int64("duration_us", durationMicros),
			log.Error(err))
	}
}

// broadcast queues msg on every client. Slow clients whose queue is full are
// disconnected.
func (s *Server) broadcast(msg OutboundMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Failed to encode message", log.String("type", msg.Type), log.Error(err))
		return
	}
	s.clients.Range(func(_, value any) bool {
		c := value.(*client)
		if err := c.enqueue(data); err != nil {
			c.logger.Warn("Dropping slow client", log.Error(err))
			c.close()
		}
		return true
	})
}

func (s *Server) onFrame(e bus.Event) error {
	frame, ok := e.Data().(sandbox.Frame)
	if !ok {
		return ErrInvalidMessage
	}

	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if s.sentFrame && s.lastDigest == frame.Digest {
		return nil
	}
	s.lastDigest = frame.Digest
	s.sentFrame = true
	s.broadcast(OutboundMessage{Type: MsgFrame, Frame: &frame})
	return nil
}

func (s *Server) onRebounds(e bus.Event) error {
	update, ok := e.Data().(sandbox.ReboundUpdate)
	if !ok {
		return ErrInvalidMessage
	}
	s.broadcast(OutboundMessage{Type: MsgRebounds, Rebounds: &update})
	return nil
}

func (s *Server) onLaunched(e bus.Event) error {
	info, ok := e.Data().(sandbox.LaunchInfo)
	if !ok {
		return ErrInvalidMessage
	}
	s.broadcast(OutboundMessage{Type: MsgLaunched, Launch: &info})
	return nil
}

func (s *Server) onStopped(e bus.Event) error {
	info, ok := e.Data().(sandbox.StopInfo)
	if !ok {
		return ErrInvalidMessage
	}
	s.broadcast(OutboundMessage{Type: MsgStopped, Stop: &info})
	return nil
}
