package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: UserRoom("u1"),
	}

	hub.register <- client

	hub.EmitToUser("u1", Event{Type: "order_placed", Data: map[string]string{"orderId": "o1"}})

	select {
	case got := <-client.Send:
		var ev Event
		if err := json.Unmarshal(got, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type != "order_placed" {
			t.Fatalf("expected order_placed, got %s", ev.Type)
		}
		if ev.Timestamp == 0 {
			t.Fatal("timestamp not set")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestHubAdminsRoomIsolated(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	admin := &Client{Send: make(chan []byte, 10), Room: AdminsRoom}
	customer := &Client{Send: make(chan []byte, 10), Room: UserRoom("u2")}

	hub.register <- admin
	hub.register <- customer

	hub.EmitToAdmins(Event{Type: "new_order"})

	select {
	case <-admin.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("admin did not receive event")
	}

	select {
	case msg := <-customer.Send:
		t.Fatalf("customer should not receive admin event, got %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
