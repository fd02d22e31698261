package bootstrap

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:             "mongodb://localhost:27017",
		MongoDatabase:        "taskhub",
		JWTSecret:            "test-secret-test-secret-test-1234",
		AccessTTL:            15 * time.Minute,
		RefreshTTL:           7 * 24 * time.Hour,
		TokenCleanupInterval: time.Hour,
	}
}

func TestValidateConfig(t *testing.T) {
	log := zap.NewNop()

	if err := ValidateConfig(nil, validAppConfig(), log); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"empty mongo uri", func(c *AppConfig) { c.MongoURI = "" }},
		{"missing jwt secret", func(c *AppConfig) { c.JWTSecret = "" }},
		{"zero access ttl", func(c *AppConfig) { c.AccessTTL = 0 }},
		{"negative refresh ttl", func(c *AppConfig) { c.RefreshTTL = -time.Hour }},
		// A zero interval would panic time.NewTicker in the cleanup worker.
		{"zero cleanup interval", func(c *AppConfig) { c.TokenCleanupInterval = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validAppConfig()
			tc.mutate(&cfg)
			if err := ValidateConfig(nil, cfg, log); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
