package channel

import (
	"time"

	"github.com/spf13/viper"

	"github.com/imtaco/resonare-live/internal/retry"
)

type Config struct {
	// JoinTimeout bounds the wait for the server to confirm a subscription.
	JoinTimeout time.Duration `mapstructure:"join_timeout"`
	// EtcdPrefix roots every topic key when the etcd provider is used.
	EtcdPrefix string        `mapstructure:"etcd_prefix"`
	EventTTL   time.Duration `mapstructure:"event_ttl"`

	PublishInitialInterval time.Duration `mapstructure:"publish_initial_interval"`
	PublishMaxInterval     time.Duration `mapstructure:"publish_max_interval"`
	PublishMaxElapsed      time.Duration `mapstructure:"publish_max_elapsed"`
}

func Setup(v *viper.Viper, prefix string) {
	p := func(key string) string { return prefix + "." + key }

	v.SetDefault(p("join_timeout"), "10s")
	v.SetDefault(p("etcd_prefix"), "/live/events/")
	v.SetDefault(p("event_ttl"), "60s")
	v.SetDefault(p("publish_initial_interval"), "100ms")
	v.SetDefault(p("publish_max_interval"), "1s")
	v.SetDefault(p("publish_max_elapsed"), "5s")
}

func DefaultConfig() Config {
	return Config{
		JoinTimeout:            10 * time.Second,
		EtcdPrefix:             "/live/events/",
		EventTTL:               time.Minute,
		PublishInitialInterval: 100 * time.Millisecond,
		PublishMaxInterval:     time.Second,
		PublishMaxElapsed:      5 * time.Second,
	}
}

// PublishPolicy is the retry policy publishers apply to a failed publish.
func (c Config) PublishPolicy() retry.Policy {
	return retry.Policy{
		InitialInterval: c.PublishInitialInterval,
		MaxInterval:     c.PublishMaxInterval,
		MaxElapsedTime:  c.PublishMaxElapsed,
	}
}
