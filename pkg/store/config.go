package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Backend names accepted by the backend setting.
const (
	BackendDiskv = "diskv"
	BackendRedis = "redis"
)

// Config is what Load needs to open a store.
type Config interface {
	BasePath() string
}

// Settings is the decoded .agenda.yaml file, overlaid with AGENDA_* env vars.
type Settings struct {
	Path    string        `mapstructure:"path"`
	Backend string        `mapstructure:"backend"`
	Redis   RedisSettings `mapstructure:"redis"`
	UI      UISettings    `mapstructure:"ui"`
}

// RedisSettings configures the redis backend.
type RedisSettings struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// UISettings tunes the list view.
type UISettings struct {
	ShowOnlySelectedDay bool          `mapstructure:"show_only_selected_day"`
	ScrollThrottle      time.Duration `mapstructure:"scroll_throttle"`
	SettleDelay         time.Duration `mapstructure:"settle_delay"`
	EstimatedRowHeight  float64       `mapstructure:"estimated_row_height"`
	ForwardDays         int           `mapstructure:"forward_days"`
}

// BasePath implements Config.
func (s *Settings) BasePath() string { return s.Path }

func setDefaults(v *viper.Viper) {
	v.SetDefault("path", "~/.agenda.db")
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "agenda")
	v.SetDefault("ui.show_only_selected_day", false)
	v.SetDefault("ui.scroll_throttle", 200*time.Millisecond)
	v.SetDefault("ui.settle_delay", 150*time.Millisecond)
	v.SetDefault("ui.estimated_row_height", 3)
	v.SetDefault("ui.forward_days", 31)
}

// LoadSettings reads .agenda.yaml from $AGENDA_CONFIG_PATH or the working
// directory. A missing file is not an error.
func LoadSettings() (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName(".agenda") // .yaml is implicit
	v.SetEnvPrefix("AGENDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("AGENDA_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("store: decode config: %w", err)
	}
	path, err := homedir.Expand(s.Path)
	if err != nil {
		return nil, fmt.Errorf("store: expand path %q: %w", s.Path, err)
	}
	s.Path = path
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	return s, nil
}
