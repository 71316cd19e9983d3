package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.UserStore != UserStoreSQLite || cfg.SQLite.Path != "domapp.db" {
		t.Fatalf("unexpected user store defaults: %+v", cfg)
	}
	if cfg.SessionStore != SessionStoreMemory {
		t.Fatalf("unexpected session store %q", cfg.SessionStore)
	}
	if cfg.Session.CookieName != "domapp_session" || cfg.Session.TTL != 14*24*time.Hour {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Security.BcryptCost != 10 || !cfg.Security.CSRFEnabled {
		t.Fatalf("unexpected security defaults: %+v", cfg.Security)
	}
	if cfg.IsProduction() {
		t.Fatalf("development must not be production")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":           "Production",
		"USER_STORE":    "Postgres",
		"DATABASE_URL":  "postgres://u:p@localhost/domapp",
		"SESSION_STORE": "redis",
		"REDIS_DB":      "2",
		"SESSION_TTL":   "30m",
		"CSRF_ENABLED":  "false",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.IsProduction() {
		t.Fatalf("expected production")
	}
	if cfg.UserStore != UserStorePostgres || cfg.SessionStore != SessionStoreRedis {
		t.Fatalf("unexpected stores: %s %s", cfg.UserStore, cfg.SessionStore)
	}
	if cfg.Redis.DB != 2 || cfg.Session.TTL != 30*time.Minute || cfg.Security.CSRFEnabled {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"postgres without dsn", map[string]string{"USER_STORE": "postgres"}, "DATABASE_URL"},
		{"unknown user store", map[string]string{"USER_STORE": "mysql"}, "USER_STORE"},
		{"unknown session store", map[string]string{"SESSION_STORE": "memcached"}, "SESSION_STORE"},
		{"bad ttl", map[string]string{"SESSION_TTL": "0s"}, "SESSION_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(tt.env))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}
