package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/rebound/internal/core/observability/log"
)

type client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	logger log.Log

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(conn *websocket.Conn, queueSize int, logger log.Log) *client {
	if queueSize <= 0 {
		queueSize = 1
	}
	id := uuid.NewString()
	ctx := log.WithClientID(context.Background(), id)
	return &client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, queueSize),
		logger: logger.WithContext(ctx),
		done:   make(chan struct{}),
	}
}

func (c *client) enqueue(data []byte) error {
	select {
	case <-c.done:
		return nil
	default:
	}
	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendQueueFull
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.closed.Load() {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	if s.clientCount.Add(1) > int64(s.config.MaxClients) {
		s.clientCount.Add(-1)
		s.logger.Warn("Maximum clients reached, rejecting connection",
			log.String("remote_addr", r.RemoteAddr))
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.clientCount.Add(-1)
		s.logger.Warn("WebSocket upgrade failed", log.Error(err))
		return
	}

	c := newClient(conn, s.config.SendQueueSize, s.logger)
	s.clients.Store(c.id, c)
	c.logger.Info("Client connected",
		log.String("remote_addr", conn.RemoteAddr().String()),
		log.Int64("total_clients", s.clientCount.Load()))

	frame := s.controller.Snapshot()
	if err := s.sendTo(c, OutboundMessage{Type: MsgWelcome, ClientID: c.id, Frame: &frame}); err != nil {
		c.logger.Warn("Failed to greet client", log.Error(err))
	}

	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) readLoop(c *client) {
	defer func() {
		c.close()
		s.clients.Delete(c.id)
		s.clientCount.Add(-1)
		c.logger.Info("Client disconnected",
			log.Int64("total_clients", s.clientCount.Load()))
	}()

	for {
		var msg InboundMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				_ = s.sendTo(c, OutboundMessage{Type: MsgError, Error: fmt.Sprintf("%v: %v", ErrInvalidMessage, err)})
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("Read failed", log.Error(err))
			}
			return
		}

		if err := s.handleMessage(c, msg); err != nil {
			c.logger.Debug("Message rejected",
				log.String("type", msg.Type),
				log.Error(err))
			_ = s.sendTo(c, OutboundMessage{Type: MsgError, Error: err.Error()})
		}
	}
}

func (s *Server) handleMessage(c *client, msg InboundMessage) error {
	switch msg.Type {
	case MsgBegin:
		return s.controller.BeginLaunch(msg.Point())
	case MsgDrag:
		preview, err := s.controller.DragTo(msg.Point())
		if err != nil {
			return err
		}
		return s.sendTo(c, OutboundMessage{Type: MsgAim, Aim: newAimMessage(preview)})
	case MsgRelease:
		_, err := s.controller.Release(msg.Point())
		return err
	case MsgResize:
		return s.controller.Resize(msg.W, msg.H)
	case MsgAbort:
		return s.controller.Abort()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}
}

func (s *Server) sendTo(c *client, msg OutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.enqueue(data)
}

func (s *Server) writeLoop(c *client) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if s.config.WriteTimeout > 0 {
				_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("Write failed", log.Error(err))
				c.close()
				return
			}
		}
	}
}
