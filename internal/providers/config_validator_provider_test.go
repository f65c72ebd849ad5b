package providers

import (
	"nsxd/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		Role: "notifyExt",
		WebServer: structures.Server{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Presence: structures.PresenceConfig{
			NatsUrl: "nats://127.0.0.1:4222",
			Dir:     "/tmp/nsxd",
		},
		Store: structures.StoreConfig{
			Path: "/tmp/nsxd/payments.db",
		},
		Prefs: structures.PrefsConfig{
			Path: "/tmp/nsxd/prefs.json",
		},
		Timers: structures.TimersConfig{
			Deadline:  29500 * time.Millisecond,
			Settle:    5 * time.Second,
			Heartbeat: 2 * time.Second,
		},
		Housekeeping: structures.HousekeepingConfig{
			Interval:  time.Hour,
			Retention: 30 * 24 * time.Hour,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyRole(t *testing.T) {
	c := validConfig()
	c.Role = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_UnknownRole(t *testing.T) {
	c := validConfig()
	c.Role = "sidecar"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_RelativeStorePath(t *testing.T) {
	c := validConfig()
	c.Store.Path = "payments.db"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_SettleNotBelowDeadline(t *testing.T) {
	c := validConfig()
	c.Timers.Settle = c.Timers.Deadline
	v := NewCnfValidator(c)
	err := v.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "timers.settle")
}

func TestConfigValidator_MissingNatsUrl(t *testing.T) {
	c := validConfig()
	c.Presence.NatsUrl = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
