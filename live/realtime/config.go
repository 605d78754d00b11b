package realtime

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	InitialDelay   time.Duration `mapstructure:"initial_delay"`
	MaxDelay       time.Duration `mapstructure:"max_delay"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	HealthInterval time.Duration `mapstructure:"health_interval"`
	ProbeTimeout   time.Duration `mapstructure:"probe_timeout"`
	ReadyTimeout   time.Duration `mapstructure:"ready_timeout"`
	TopicPrefix    string        `mapstructure:"topic_prefix"`
	// Provider selects the channel backend: redis or etcd.
	Provider string `mapstructure:"provider"`
}

func Setup(v *viper.Viper, prefix string) {
	p := func(key string) string { return prefix + "." + key }

	v.SetDefault(p("initial_delay"), "1s")
	v.SetDefault(p("max_delay"), "30s")
	v.SetDefault(p("max_attempts"), 5)
	// 0 disables periodic health checks
	v.SetDefault(p("health_interval"), "30s")
	v.SetDefault(p("probe_timeout"), "2s")
	v.SetDefault(p("ready_timeout"), "10s")
	v.SetDefault(p("topic_prefix"), "notifications:")
	v.SetDefault(p("provider"), "redis")
}

func DefaultConfig() *Config {
	return &Config{
		InitialDelay:   defaultInitialDelay,
		MaxDelay:       defaultMaxDelay,
		MaxAttempts:    5,
		HealthInterval: 30 * time.Second,
		ProbeTimeout:   2 * time.Second,
		ReadyTimeout:   10 * time.Second,
		TopicPrefix:    "notifications:",
		Provider:       "redis",
	}
}
