package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"sparex/globals"
)

func sign(orderID, paymentID string) string {
	h := hmac.New(sha256.New, globals.GatewayKeySecret)
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifySignatureValid(t *testing.T) {
	sig := sign("order_abc123", "pay_xyz789")
	if !verifySignature("order_abc123", "pay_xyz789", sig) {
		t.Fatal("valid signature rejected")
	}
}

func TestVerifySignatureTampered(t *testing.T) {
	sig := sign("order_abc123", "pay_xyz789")

	if verifySignature("order_abc124", "pay_xyz789", sig) {
		t.Fatal("signature accepted for a different gateway order")
	}
	if verifySignature("order_abc123", "pay_xyz790", sig) {
		t.Fatal("signature accepted for a different payment")
	}
	if verifySignature("order_abc123", "pay_xyz789", sig[:len(sig)-1]+"g") {
		t.Fatal("mutated signature accepted")
	}
	if verifySignature("order_abc123", "pay_xyz789", "") {
		t.Fatal("empty signature accepted")
	}
}
