package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"sparex/globals"
)

// verifySignature checks the gateway callback signature: hex encoded
// HMAC-SHA256 over "<gatewayOrderId>|<gatewayPaymentId>" keyed with the
// gateway secret.
func verifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	h := hmac.New(sha256.New, globals.GatewayKeySecret)
	h.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
