package realtime

import (
	"encoding/json"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/saieshwardev-lab/UrbanEye/pkg/metrics"
	log "github.com/sirupsen/logrus"
)

const subjectPrefix = "urbaneye.v1.events."

// Bridge routes broadcasts through NATS so other processes (dashboards,
// workers) can observe or emit realtime events. Broadcasts are published to
// urbaneye.v1.events.<event> and every message arriving in that subject
// space is fanned out to the local hub. Without a NATS connection the
// bridge degrades to the plain in-process hub.
type Bridge struct {
	nc  *nats.Conn
	hub *Hub
}

// NewBridge wraps the hub with a NATS connection. nc may be nil.
func NewBridge(nc *nats.Conn, hub *Hub) *Bridge {
	return &Bridge{
		nc:  nc,
		hub: hub,
	}
}

// Subscribe starts forwarding NATS events into the local hub. Local
// broadcasts reach the hub through this subscription, which keeps delivery
// single-path whether an event originates here or in another process.
func (b *Bridge) Subscribe() error {
	if b.nc == nil {
		return nil
	}

	_, err := b.nc.Subscribe(subjectPrefix+">", func(msg *nats.Msg) {
		env := Envelope{}
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			log.Debug("realtime: dropping malformed bridge message: ", err)
			return
		}

		metrics.BroadcastsTotal.WithLabelValues(env.Event).Inc()
		b.hub.broadcast(msg.Data)
	})
	return err
}

// Broadcast implements Notifier. With NATS connected the envelope takes the
// round trip through the bridge subscription; publish errors are logged and
// swallowed. Without NATS it goes straight to the hub.
func (b *Bridge) Broadcast(event string, data interface{}) {
	if b.nc == nil {
		b.hub.Broadcast(event, data)
		return
	}

	out, err := json.Marshal(&Envelope{Event: event, Data: data})
	if err != nil {
		log.Error("realtime: failed to marshal broadcast envelope: ", err)
		return
	}

	if err := b.nc.Publish(subjectPrefix+subjectToken(event), out); err != nil {
		log.Error("realtime: failed to publish broadcast to nats: ", err)
	}
}

// subjectToken makes an event name safe for use as a NATS subject token.
func subjectToken(event string) string {
	return strings.NewReplacer(":", "-", ".", "-", " ", "-").Replace(event)
}
