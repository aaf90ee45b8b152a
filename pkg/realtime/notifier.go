package realtime

// Notifier is a best-effort publish point for realtime events. Broadcast
// returns nothing and never propagates delivery failures; it is not part of
// any calling operation's success contract. A nil Notifier is valid for
// callers that guard the publication step.
type Notifier interface {
	Broadcast(event string, data interface{})
}

// Envelope is the wire format for every server-emitted realtime message.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
