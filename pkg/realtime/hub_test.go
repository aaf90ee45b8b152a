package realtime

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/gobwas/ws/wsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attachTestClient(t *testing.T, hub *Hub) net.Conn {
	t.Helper()

	server, client := net.Pipe()
	go hub.ServeConn(server)

	require.Eventually(t, func() bool {
		return hub.SessionCount() == 1
	}, time.Second, 5*time.Millisecond, "session not registered")

	return client
}

func readEnvelope(t *testing.T, client net.Conn) Envelope {
	t.Helper()

	client.SetReadDeadline(time.Now().Add(time.Second))
	data, err := wsutil.ReadServerText(client)
	require.NoError(t, err)

	env := Envelope{}
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestHubBroadcastReachesSubscriber(t *testing.T) {
	hub := NewHub()
	client := attachTestClient(t, hub)
	defer client.Close()

	hub.Broadcast("job:updated", map[string]interface{}{"job": map[string]interface{}{"id": "j1"}})

	env := readEnvelope(t, client)
	assert.Equal(t, "job:updated", env.Event)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	job, ok := data["job"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "j1", job["id"])
}

func TestHubBroadcastWithoutSubscribers(t *testing.T) {
	hub := NewHub()

	// Fire-and-forget: nothing to assert beyond not blocking or panicking.
	hub.Broadcast("job:updated", map[string]interface{}{"job": nil})
	assert.Equal(t, 0, hub.SessionCount())
}

func TestSessionPingPong(t *testing.T) {
	hub := NewHub()
	client := attachTestClient(t, hub)
	defer client.Close()

	require.NoError(t, wsutil.WriteClientText(client, []byte(`{"event":"ping","data":{"n":1}}`)))

	env := readEnvelope(t, client)
	require.Equal(t, "pong", env.Event)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotNil(t, data["ts"])

	payload, ok := data["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1.0, payload["n"])
}

func TestSessionRemovedOnDisconnect(t *testing.T) {
	hub := NewHub()
	client := attachTestClient(t, hub)

	client.Close()

	require.Eventually(t, func() bool {
		return hub.SessionCount() == 0
	}, time.Second, 5*time.Millisecond, "session not removed after disconnect")
}

func TestHubCloseDisconnectsSubscribers(t *testing.T) {
	hub := NewHub()
	client := attachTestClient(t, hub)
	defer client.Close()

	hub.Close()
	assert.Equal(t, 0, hub.SessionCount())
}

func TestBridgeWithoutNATSDelegatesToHub(t *testing.T) {
	hub := NewHub()
	client := attachTestClient(t, hub)
	defer client.Close()

	bridge := NewBridge(nil, hub)
	require.NoError(t, bridge.Subscribe())
	bridge.Broadcast("job:updated", map[string]interface{}{"job": map[string]interface{}{"id": "j2"}})

	env := readEnvelope(t, client)
	assert.Equal(t, "job:updated", env.Event)
}

func TestSubjectToken(t *testing.T) {
	assert.Equal(t, "job-updated", subjectToken("job:updated"))
	assert.Equal(t, "a-b-c", subjectToken("a.b c"))
}
