package models

import "testing"

func TestCanTransitionForwardChain(t *testing.T) {
	chain := []string{OrderPlaced, OrderConfirmed, OrderPacked, OrderShipped, OrderDelivered}
	for i := 0; i < len(chain)-1; i++ {
		if !CanTransition(chain[i], chain[i+1]) {
			t.Errorf("expected %s -> %s to be allowed", chain[i], chain[i+1])
		}
	}
}

func TestCanTransitionNoSkips(t *testing.T) {
	if CanTransition(OrderPlaced, OrderShipped) {
		t.Error("Placed -> Shipped should not skip intermediate steps")
	}
	if CanTransition(OrderConfirmed, OrderDelivered) {
		t.Error("Confirmed -> Delivered should not skip intermediate steps")
	}
	if CanTransition(OrderPacked, OrderConfirmed) {
		t.Error("backward transition should be rejected")
	}
}

func TestCanTransitionCancel(t *testing.T) {
	for _, from := range []string{OrderPlaced, OrderConfirmed, OrderPacked, OrderShipped} {
		if !CanTransition(from, OrderCancelled) {
			t.Errorf("expected %s -> Cancelled to be allowed", from)
		}
	}
	if CanTransition(OrderDelivered, OrderCancelled) {
		t.Error("Delivered orders cannot be cancelled")
	}
	if CanTransition(OrderCancelled, OrderCancelled) {
		t.Error("Cancelled orders cannot be cancelled again")
	}
}

func TestTerminalStatusesAreFinal(t *testing.T) {
	for _, terminal := range []string{OrderDelivered, OrderCancelled} {
		for _, to := range []string{OrderPlaced, OrderConfirmed, OrderPacked, OrderShipped, OrderDelivered, OrderCancelled} {
			if CanTransition(terminal, to) {
				t.Errorf("terminal status %s must not transition to %s", terminal, to)
			}
		}
	}
}

func TestAppendStatus(t *testing.T) {
	o := Order{OrderStatus: OrderPlaced}
	o.AppendStatus(OrderConfirmed, "payment received")

	if o.OrderStatus != OrderConfirmed {
		t.Fatalf("orderStatus = %q, want Confirmed", o.OrderStatus)
	}
	if len(o.StatusHistory) != 1 {
		t.Fatalf("statusHistory length = %d, want 1", len(o.StatusHistory))
	}
	if o.StatusHistory[0].Status != OrderConfirmed || o.StatusHistory[0].Note != "payment received" {
		t.Fatalf("unexpected history entry %+v", o.StatusHistory[0])
	}
	if o.StatusHistory[0].Timestamp.IsZero() {
		t.Fatal("history timestamp not set")
	}
}

func TestIsCancellable(t *testing.T) {
	o := Order{OrderStatus: OrderShipped}
	if !o.IsCancellable() {
		t.Error("shipped order should be cancellable")
	}
	o.OrderStatus = OrderDelivered
	if o.IsCancellable() {
		t.Error("delivered order should not be cancellable")
	}
}
