package public

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jejak-app/jejak/api/internal/geo"
	"github.com/jejak-app/jejak/api/internal/metrics"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = 54 * time.Second
	liveReadLimit  = 4096
)

// geoLiveHandler upgrades to a WebSocket that drives one location resolver. The client sends
// search, reverse and select messages and receives a state message after every change.
func (h *Handler) geoLiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Debug("live search upgrade failed", zap.Error(err))
			return
		}
		metrics.LiveSearchSessions.Inc()
		defer metrics.LiveSearchSessions.Dec()

		session := newLiveSession(conn, h.logger)
		resolver := geo.NewResolver(h.geo,
			geo.WithDebounce(h.debounce),
			geo.WithLogger(h.logger),
			geo.WithListener(session.pushState),
		)
		ctx, cancel := context.WithCancel(context.Background())

		go session.writePump()
		session.readPump(ctx, resolver)

		cancel()
		resolver.Close()
		close(session.done)
		conn.Close()
	}
}

// liveSession serialises writes to one connection. States are coalesced so a slow client only
// ever receives the newest one.
type liveSession struct {
	conn   *websocket.Conn
	logger *zap.Logger

	mu     sync.Mutex
	latest *geo.State
	wake   chan struct{}
	outbox chan liveMessage
	done   chan struct{}
}

func newLiveSession(conn *websocket.Conn, logger *zap.Logger) *liveSession {
	return &liveSession{
		conn:   conn,
		logger: logger,
		wake:   make(chan struct{}, 1),
		outbox: make(chan liveMessage, 8),
		done:   make(chan struct{}),
	}
}

func (s *liveSession) pushState(state geo.State) {
	s.mu.Lock()
	if s.latest == nil || state.Version > s.latest.Version {
		s.latest = &state
	}
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *liveSession) send(msg liveMessage) {
	select {
	case s.outbox <- msg:
	default:
		s.logger.Debug("live search outbox full, message dropped", zap.String("type", msg.Type))
	}
}

func (s *liveSession) takeState() *geo.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.latest
	s.latest = nil
	return state
}

func (s *liveSession) readPump(ctx context.Context, resolver *geo.Resolver) {
	s.conn.SetReadLimit(liveReadLimit)
	s.conn.SetReadDeadline(time.Now().Add(livePongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("live search connection closed", zap.Error(err))
			}
			return
		}
		var req liveRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			s.send(liveMessage{Type: "error", Error: "pesan tidak valid"})
			continue
		}

		switch req.Type {
		case "search":
			resolver.Search(req.Query)
		case "reverse":
			if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
				s.send(liveMessage{Type: "error", Error: "koordinat tidak valid"})
				continue
			}
			go func(lat, lng float64) {
				rctx, cancel := context.WithTimeout(ctx, geoTimeout)
				defer cancel()
				resolver.ReverseGeocode(rctx, lat, lng)
			}(req.Lat, req.Lng)
		case "select":
			picked, err := resolver.Select(req.Index)
			if err != nil {
				s.send(liveMessage{Type: "error", Error: "hasil pencarian tidak ditemukan"})
				continue
			}
			s.send(liveMessage{Type: "selected", Selected: &picked})
		default:
			s.send(liveMessage{Type: "error", Error: "jenis pesan tidak dikenal"})
		}
	}
}

func (s *liveSession) writePump() {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-s.wake:
			if state := s.takeState(); state != nil {
				if !s.write(liveMessage{Type: "state", State: state}) {
					return
				}
			}
		case msg := <-s.outbox:
			if !s.write(msg) {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *liveSession) write(msg liveMessage) bool {
	s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Debug("live search write failed", zap.Error(err))
		return false
	}
	return true
}
