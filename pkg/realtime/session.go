package realtime

import (
	"encoding/json"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	log "github.com/sirupsen/logrus"
)

// Session is a single connected realtime subscriber. It lives for the
// duration of the websocket connection and is removed from the hub when the
// connection closes.
type Session struct {
	id   int32
	conn net.Conn

	outboxCh  chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once
}

func newSession(id int32, conn net.Conn) *Session {
	return &Session{
		id:       id,
		conn:     conn,
		outboxCh: make(chan []byte, 100),
		closeCh:  make(chan struct{}),
	}
}

// send enqueues data for delivery without blocking the broadcaster. A slow
// subscriber with a full outbox loses the frame.
func (sess *Session) send(data []byte) {
	select {
	case sess.outboxCh <- data:
	default:
		log.Warnf("realtime: dropping frame for slow session %d", sess.id)
	}
}

func (sess *Session) close() {
	sess.closeOnce.Do(func() {
		close(sess.closeCh)
		sess.conn.Close()
	})
}

func (sess *Session) inboxWorker() {
	state := ws.StateServerSide
	ch := wsutil.ControlFrameHandler(sess.conn, state)

	r := &wsutil.Reader{
		Source:         sess.conn,
		State:          state,
		CheckUTF8:      true,
		OnIntermediate: ch,
	}

	for {
		h, err := r.NextFrame()
		if err != nil {
			if err != io.EOF {
				log.Errorf("realtime: websocket read message error: %v", err)
			}
			return
		}

		// We received an operation control frame and handle it before
		// continuation.
		if h.OpCode.IsControl() {
			// Check for OpClose before handling the control frame. On
			// OpClose the socket was closed by the client. We can exit our
			// handler now.
			if h.OpCode == ws.OpClose {
				log.Debugf("realtime: session %d closed gracefully", sess.id)
				return
			}

			if err = ch(h, r); err != nil {
				log.Errorf("realtime: websocket handles control frame error: %v", err)
				return
			}
			continue
		}

		// Read all data from websocket client
		req, err := io.ReadAll(r)
		if err != nil {
			log.Errorf("realtime: websocket read error: %v", err)
			return
		}

		sess.handleMessage(req)
	}
}

// handleMessage processes an application-level message from the subscriber.
// The only supported client message is a ping, answered with a pong echoing
// the payload plus a server timestamp. Anything else is ignored.
func (sess *Session) handleMessage(data []byte) {
	env := Envelope{}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Debugf("realtime: session %d sent malformed message: %v", sess.id, err)
		return
	}

	if env.Event != "ping" {
		log.Debugf("realtime: session %d sent unsupported event %q", sess.id, env.Event)
		return
	}

	out, err := json.Marshal(&Envelope{
		Event: "pong",
		Data: map[string]interface{}{
			"payload": env.Data,
			"ts":      time.Now().UnixMilli(),
		},
	})
	if err != nil {
		log.Error("realtime: failed to marshal pong: ", err)
		return
	}

	sess.send(out)
}

func (sess *Session) outboxWorker() {
	state := ws.StateServerSide
	w := wsutil.NewWriter(sess.conn, state, 0)

	for {
		select {
		case data := <-sess.outboxCh:
			webSocketWrite(sess.conn, w, state, data)
		case <-sess.closeCh:
			return
		}
	}
}

func webSocketWrite(conn net.Conn, w *wsutil.Writer, state ws.State, data []byte) {
	var err error

	w.Reset(conn, state, ws.OpText)
	if _, err = w.Write(data); err == nil {
		err = w.Flush()
	}
	if err != nil {
		log.Errorf("realtime: websocket write error: %s", err)
	}
}
