package test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/sandevgo/slackwatch/internal/config"
	"github.com/sandevgo/slackwatch/internal/discovery"
)

const TokenEnv = "SLACK_DISCOVERY_TOKEN"

// GetDiscoveryToken skips the test unless a real Discovery token is set.
func GetDiscoveryToken(t *testing.T) string {
	t.Helper()
	// values already in the environment win over the runtime .env
	_ = godotenv.Load(filepath.Join(config.GetRuntimePath(), ".env"))

	token := os.Getenv(TokenEnv)
	if token == "" {
		t.Skipf("%s is not set, skipping live Discovery API test", TokenEnv)
	}
	return token
}

// NewLiveGateway builds a gateway against the real API with a conservative
// request rate.
func NewLiveGateway(t *testing.T) *discovery.Gateway {
	t.Helper()
	client, err := discovery.NewClient(discovery.ClientOptions{
		BaseURL:           os.Getenv("SLACK_API_URL"),
		Token:             GetDiscoveryToken(t),
		Timeout:           30 * time.Second,
		RequestsPerMinute: 20,
		MaxRetries:        2,
	})
	if err != nil {
		t.Fatalf("failed to create discovery client: %v", err)
	}
	return discovery.NewGateway(client, discovery.PageOptions{})
}
