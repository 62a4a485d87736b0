package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

// writeWait bounds a single event write
const writeWait = 5 * time.Second

// The default origin check accepts clients that send no Origin header (the
// CLI and TUI) and rejects browser pages served from another host.
var upgrader = websocket.Upgrader{}

type subscriber struct {
	conn *websocket.Conn
	user string
}

// hub fans change events out to websocket subscribers of the affected user
type hub struct {
	log       logrus.FieldLogger
	clients   map[*subscriber]bool
	clientsMu sync.RWMutex
	broadcast chan models.ChangeEvent
	done      chan struct{}
	closeOnce sync.Once
}

func newHub(log logrus.FieldLogger) *hub {
	h := &hub{
		log:       log,
		clients:   make(map[*subscriber]bool),
		broadcast: make(chan models.ChangeEvent, 256),
		done:      make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *hub) publish(ev models.ChangeEvent) {
	select {
	case h.broadcast <- ev:
	case <-h.done:
	default:
		h.log.WithField("user", ev.User).Warnln("events: broadcast queue full, dropping event")
	}
}

func (h *hub) run() {
	for {
		select {
		case ev := <-h.broadcast:
			h.deliver(ev)
		case <-h.done:
			return
		}
	}
}

func (h *hub) deliver(ev models.ChangeEvent) {
	h.clientsMu.RLock()
	var targets []*subscriber
	for sub := range h.clients {
		if sub.user == ev.User {
			targets = append(targets, sub)
		}
	}
	h.clientsMu.RUnlock()

	for _, sub := range targets {
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteJSON(ev); err != nil {
			h.log.WithError(err).WithField("user", sub.user).Debugln("events: dropping subscriber")
			sub.conn.Close()
			h.remove(sub)
		}
	}
}

func (h *hub) add(sub *subscriber) {
	h.clientsMu.Lock()
	h.clients[sub] = true
	h.clientsMu.Unlock()
}

func (h *hub) remove(sub *subscriber) {
	h.clientsMu.Lock()
	delete(h.clients, sub)
	h.clientsMu.Unlock()
}

func (h *hub) count() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *hub) close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.clientsMu.Lock()
		for sub := range h.clients {
			sub.conn.Close()
			delete(h.clients, sub)
		}
		h.clientsMu.Unlock()
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		FromRequest(r).WithError(err).Warnln("events: websocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := &subscriber{conn: conn, user: userFrom(r)}
	s.hub.add(sub)
	FromRequest(r).Debugln("events: subscriber connected")

	// wait for the client to go away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.hub.remove(sub)
	FromRequest(r).Debugln("events: subscriber disconnected")
}
