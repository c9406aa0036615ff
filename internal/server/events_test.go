package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func TestEventHubFanOut(t *testing.T) {
	h := newEventHub()
	a := h.subscribe()
	b := h.subscribe()

	h.publish(Event{Kind: "account", Op: "created", ID: "x"})

	for _, ch := range []chan Event{a, b} {
		select {
		case ev := <-ch:
			if ev.Kind != "account" || ev.Op != "created" || ev.ID != "x" {
				t.Errorf("event = %+v", ev)
			}
		default:
			t.Fatal("subscriber did not receive the event")
		}
	}

	h.unsubscribe(a)
	h.publish(Event{Kind: "account", Op: "deleted", ID: "x"})
	if _, ok := <-a; ok {
		t.Error("unsubscribed channel still open")
	}
	if ev := <-b; ev.Op != "deleted" {
		t.Errorf("remaining subscriber got %+v", ev)
	}
}

func TestEventHubDropsSlowSubscriber(t *testing.T) {
	h := newEventHub()
	slow := h.subscribe()

	// Fill the buffer and then one more: the overflow closes the channel.
	for i := 0; i < cap(slow)+1; i++ {
		h.publish(Event{Kind: "transaction", Op: "created"})
	}

	n := 0
	for range slow {
		n++
	}
	if n != cap(slow) {
		t.Errorf("drained %d events before drop, want %d", n, cap(slow))
	}
}

func TestEventsWebsocketFeed(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+srv.URL[len("http"):]+"/api/v1/events", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	// Give the handler a moment to register the subscription.
	time.Sleep(200 * time.Millisecond)

	rec := do(t, s, http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Feed Test", "type": "bank", "subtype": "Savings",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account: status %d", rec.Code)
	}

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Kind != "account" || ev.Op != "created" || ev.ID == "" {
		t.Errorf("event = %+v, want account created with id", ev)
	}
}
