package sqlite

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

func Setup(v *viper.Viper, prefix string) {
	p := func(key string) string { return prefix + "." + key }

	v.SetDefault(p("path"), "data/live.db")
	v.SetDefault(p("busy_timeout"), "5s")
}
