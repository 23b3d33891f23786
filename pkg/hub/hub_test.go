package hub

import (
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestBroadcastDelivery(t *testing.T) {
	h := New("test")
	go h.Run()

	client := &Client{hub: h, send: make(chan Message, 4)}
	h.register <- client
	waitFor(t, func() bool { return h.ClientCount() == 1 }, "client registered")

	h.Broadcast(Message(`{"response":"ok"}`))

	select {
	case msg := <-client.send:
		if string(msg) != `{"response":"ok"}` {
			t.Errorf("unexpected message: %s", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message never delivered")
	}
}

func TestSlowClientDroppedUnderConcurrentCount(t *testing.T) {
	h := New("test")
	go h.Run()

	// Unbuffered send with no reader: the first broadcast hits the
	// drop branch, which removes the client from the map.
	client := &Client{hub: h, send: make(chan Message)}
	h.register <- client
	waitFor(t, func() bool { return h.ClientCount() == 1 }, "client registered")

	// Hammer the counter while the drop happens. Run under -race this
	// catches any map mutation done without the write lock.
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				h.ClientCount()
			}
		}
	}()

	h.Broadcast(Message(`{"x":1}`))

	waitFor(t, func() bool { return h.ClientCount() == 0 }, "slow client dropped")
	close(done)

	// The dropped client's channel is closed.
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected closed send channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("send channel never closed")
	}
}

func TestIsRunning(t *testing.T) {
	h := New("test")
	if h.IsRunning() {
		t.Error("hub should not report running before Run")
	}

	go h.Run()
	waitFor(t, h.IsRunning, "hub running")
}

func TestBroadcastJSON(t *testing.T) {
	h := New("test")
	go h.Run()

	client := &Client{hub: h, send: make(chan Message, 1)}
	h.register <- client
	waitFor(t, func() bool { return h.ClientCount() == 1 }, "client registered")

	if err := h.BroadcastJSON(map[string]string{"role": "user"}); err != nil {
		t.Fatalf("BroadcastJSON: %v", err)
	}

	select {
	case msg := <-client.send:
		if string(msg) != `{"role":"user"}` {
			t.Errorf("unexpected payload: %s", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message never delivered")
	}

	if err := h.BroadcastJSON(func() {}); err == nil {
		t.Error("expected error for unencodable value")
	}
}
