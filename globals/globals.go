package globals

import (
	"context"
	"os"

	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load()
}

var (
	JwtSecret        = []byte(Env("JWT_SECRET", "change_me_in_production"))
	GatewayKeySecret = []byte(Env("GATEWAY_KEY_SECRET", "gateway_test_secret"))
)

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const RoleKey ContextKey = "role"

var Ctx = context.Background()

// Env returns the value of an environment variable or a fallback.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
