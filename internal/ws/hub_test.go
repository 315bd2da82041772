package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zap.NewNop())
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

// recvEvent waits for the next event queued to a client. Register and
// unregister run through the hub loop, so a received event doubles as proof
// that every earlier operation has been processed.
func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case payload, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var ev Event
		require.NoError(t, json.Unmarshal(payload, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func eventUserID(t *testing.T, ev Event) string {
	t.Helper()
	data, ok := ev.Data.(map[string]interface{})
	require.True(t, ok, "event data is not an object")
	id, ok := data["user_id"].(string)
	require.True(t, ok, "event data has no user_id")
	return id
}

func TestPresenceBroadcasts(t *testing.T) {
	req := require.New(t)
	hub := newRunningHub(t)

	// The watcher only observes; its own connect event is drained first.
	watcher := NewClient(hub, nil, "watcher")
	hub.Register(watcher)
	ev := recvEvent(t, watcher)
	req.Equal(TypeUserOnline, ev.Type)
	req.Equal("watcher", eventUserID(t, ev))

	alice1 := NewClient(hub, nil, "alice")
	alice2 := NewClient(hub, nil, "alice")
	hub.Register(alice1)
	hub.Register(alice2)

	ev = recvEvent(t, watcher)
	req.Equal(TypeUserOnline, ev.Type)
	req.Equal("alice", eventUserID(t, ev))

	// A second tab announces nothing, so the next event the watcher sees
	// is bob's, not a duplicate for alice.
	bob := NewClient(hub, nil, "bob")
	hub.Register(bob)
	ev = recvEvent(t, watcher)
	req.Equal(TypeUserOnline, ev.Type)
	req.Equal("bob", eventUserID(t, ev))
	req.True(hub.Online("alice"))

	hub.unregister <- alice1
	hub.unregister <- alice2

	ev = recvEvent(t, watcher)
	req.Equal(TypeUserOffline, ev.Type)
	req.Equal("alice", eventUserID(t, ev))
	req.False(hub.Online("alice"))
	req.True(hub.Online("bob"))
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	req := require.New(t)
	hub := newRunningHub(t)

	client := NewClient(hub, nil, "carol")
	hub.Register(client)
	ev := recvEvent(t, client)
	req.Equal(TypeUserOnline, ev.Type)

	hub.unregister <- client

	select {
	case _, ok := <-client.send:
		req.False(ok, "expected closed send channel")
	case <-time.After(time.Second):
		t.Fatal("send channel never closed")
	}
}

func TestNotifyReachesEveryConnectionOfUser(t *testing.T) {
	req := require.New(t)
	hub := newRunningHub(t)

	alice1 := NewClient(hub, nil, "alice")
	alice2 := NewClient(hub, nil, "alice")
	bob := NewClient(hub, nil, "bob")
	hub.Register(alice1)
	hub.Register(alice2)
	hub.Register(bob)

	// Drain the presence events; bob's online reaching alice1 proves all
	// three registrations went through.
	req.Equal(TypeUserOnline, recvEvent(t, alice1).Type)
	req.Equal(TypeUserOnline, recvEvent(t, alice1).Type)
	req.Equal(TypeUserOnline, recvEvent(t, alice2).Type)
	req.Equal(TypeUserOnline, recvEvent(t, bob).Type)

	hub.Notify("alice", TypeMessageNew, map[string]string{"chat_id": "alice_bob"})

	for _, c := range []*Client{alice1, alice2} {
		ev := recvEvent(t, c)
		req.Equal(TypeMessageNew, ev.Type)
		data, ok := ev.Data.(map[string]interface{})
		req.True(ok)
		req.Equal("alice_bob", data["chat_id"])
	}

	// Notify queues synchronously, so an empty channel here is conclusive.
	select {
	case payload := <-bob.send:
		t.Fatalf("bob received someone else's event: %s", payload)
	default:
	}
}

func TestNotifyDropsEventsForSlowClient(t *testing.T) {
	req := require.New(t)
	hub := newRunningHub(t)

	snail := NewClient(hub, nil, "snail")
	hub.Register(snail)
	req.Equal(TypeUserOnline, recvEvent(t, snail).Type)

	for i := 0; i < cap(snail.send); i++ {
		hub.Notify("snail", TypeMessageNew, map[string]int{"seq": i})
	}
	req.Equal(cap(snail.send), len(snail.send))

	// The queue is full; the overflow event is dropped instead of blocking.
	hub.Notify("snail", TypeMessageNew, map[string]string{"overflow": "yes"})
	req.Equal(cap(snail.send), len(snail.send))

	// The hub stays responsive for everyone else.
	other := NewClient(hub, nil, "other")
	hub.Register(other)
	req.Equal(TypeUserOnline, recvEvent(t, other).Type)
}
