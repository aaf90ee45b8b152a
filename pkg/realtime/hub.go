package realtime

import (
	"encoding/json"
	"net"
	"sync"

	"github.com/gobwas/ws"
	"github.com/labstack/echo"
	"github.com/saieshwardev-lab/UrbanEye/pkg/metrics"
	log "github.com/sirupsen/logrus"
)

// Hub tracks all currently-connected realtime subscribers of this process
// and fans broadcasts out to them. There is no persistence or replay for
// subscribers that connect later and no delivery confirmation.
type Hub struct {
	sessions map[int32]*Session
	nextID   int32
	sync.RWMutex
}

// NewHub creates an empty broadcast hub.
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[int32]*Session),
	}
}

// Broadcast delivers the envelope to every currently-connected subscriber.
// Delivery is fire-and-forget: subscribers with a full outbox are skipped.
func (h *Hub) Broadcast(event string, data interface{}) {
	out, err := json.Marshal(&Envelope{Event: event, Data: data})
	if err != nil {
		log.Error("realtime: failed to marshal broadcast envelope: ", err)
		return
	}

	metrics.BroadcastsTotal.WithLabelValues(event).Inc()
	h.broadcast(out)
}

func (h *Hub) broadcast(data []byte) {
	h.RLock()
	defer h.RUnlock()

	for _, sess := range h.sessions {
		sess.send(data)
	}
}

// SessionCount returns the number of currently-connected subscribers.
func (h *Hub) SessionCount() int {
	h.RLock()
	defer h.RUnlock()
	return len(h.sessions)
}

// ServeConn registers the websocket connection as a subscriber and blocks
// until the client disconnects or the connection fails.
func (h *Hub) ServeConn(conn net.Conn) {
	sess := h.add(conn)
	defer h.remove(sess)

	go sess.outboxWorker()
	sess.inboxWorker()
}

// Handler returns an echo handler that upgrades the request to a websocket
// subscriber connection.
func (h *Hub) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, _, _, err := ws.UpgradeHTTP(c.Request(), c.Response())
		if err != nil {
			log.Error("realtime: failed to upgrade to websocket: ", err)
			return nil
		}

		h.ServeConn(conn)
		return nil
	}
}

// Close disconnects all subscribers, e.g. on server shutdown.
func (h *Hub) Close() {
	h.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, sess := range h.sessions {
		sessions = append(sessions, sess)
	}
	h.RUnlock()

	for _, sess := range sessions {
		h.remove(sess)
	}
}

func (h *Hub) add(conn net.Conn) *Session {
	h.Lock()
	defer h.Unlock()

	h.nextID++
	sess := newSession(h.nextID, conn)
	h.sessions[sess.id] = sess

	metrics.ConnectedClients.Inc()
	log.Infof("realtime: client connected with session ID: %d", sess.id)

	return sess
}

func (h *Hub) remove(sess *Session) {
	h.Lock()
	_, ok := h.sessions[sess.id]
	delete(h.sessions, sess.id)
	h.Unlock()

	if !ok {
		return
	}

	sess.close()
	metrics.ConnectedClients.Dec()
	log.Infof("realtime: client disconnected with session ID: %d", sess.id)
}
