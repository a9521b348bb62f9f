package models

import "testing"

func TestWishlistTogglePair(t *testing.T) {
	w := Wishlist{}

	if action := w.Toggle("p1"); action != "added" {
		t.Fatalf("first toggle = %q, want added", action)
	}
	if !w.Has("p1") {
		t.Fatal("product should be present after add")
	}

	if action := w.Toggle("p1"); action != "removed" {
		t.Fatalf("second toggle = %q, want removed", action)
	}
	if w.Has("p1") {
		t.Fatal("product should be absent after remove")
	}
	if len(w.Products) != 0 {
		t.Fatalf("products length = %d, want 0", len(w.Products))
	}
}

func TestWishlistToggleKeepsOthers(t *testing.T) {
	w := Wishlist{}
	w.Toggle("p1")
	w.Toggle("p2")
	w.Toggle("p1")

	if w.Has("p1") {
		t.Fatal("p1 should have been removed")
	}
	if !w.Has("p2") {
		t.Fatal("p2 should still be present")
	}
}
