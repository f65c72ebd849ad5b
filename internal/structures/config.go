package structures

import "time"

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type PresenceConfig struct {
	NatsUrl string `yaml:"natsUrl" validate:"required"`
	Dir     string `yaml:"dir" validate:"required|unixPath"`
}

type StoreConfig struct {
	Path string `yaml:"path" validate:"required|unixPath"`
}

type PrefsConfig struct {
	Path string `yaml:"path" validate:"required|unixPath"`
}

// TimersConfig holds the three lifecycle timers. Deadline must stay strictly
// below the budget the notification host grants per push, leaving margin for
// cleanup. Settle delays finalization so near-simultaneous payments can be
// folded into one response.
type TimersConfig struct {
	Deadline  time.Duration `yaml:"deadline" validate:"required|min:1"`
	Settle    time.Duration `yaml:"settle" validate:"required|min:1"`
	Heartbeat time.Duration `yaml:"heartbeat" validate:"required|min:1"`
}

type HousekeepingConfig struct {
	Interval  time.Duration `yaml:"interval" validate:"required|min:1"`
	Retention time.Duration `yaml:"retention" validate:"required|min:1"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName      string
	Debug        bool
	Path         string
	Role         string             `yaml:"role" validate:"required|in:mainApp,notifyExt"`
	WebServer    Server             `yaml:"webServer"`
	Presence     PresenceConfig     `yaml:"presence"`
	Store        StoreConfig        `yaml:"store"`
	Prefs        PrefsConfig        `yaml:"prefs"`
	Timers       TimersConfig       `yaml:"timers"`
	Housekeeping HousekeepingConfig `yaml:"housekeeping"`
	Logger       LoggerConfig       `yaml:"logger"`
	Cache        CacheConfig        `yaml:"cache"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}
