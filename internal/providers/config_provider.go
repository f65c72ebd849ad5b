package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"nsxd/internal/structures"
	"path/filepath"
	"strings"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("role", "NSXD_ROLE")
	viper.BindEnv("logger.level", "NSXD_LOG_LEVEL")
	viper.BindEnv("presence.natsUrl", "NSXD_NATS_URL")
	viper.BindEnv("store.path", "NSXD_STORE_PATH")
	viper.BindEnv("timers.deadline", "NSXD_DEADLINE")
	viper.BindEnv("timers.settle", "NSXD_SETTLE_DELAY")
	viper.BindEnv("cache.enabled", "NSXD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "NSXD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "NotifySrvExtDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
