package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// TrackerConfig tunes the focus state machine.
type TrackerConfig struct {
	SnapshotIntervalSeconds int  `mapstructure:"snapshot_interval_seconds"`
	MinDistractionSeconds   int  `mapstructure:"min_distraction_seconds"`
	IdleTimeoutSeconds      int  `mapstructure:"idle_timeout_seconds"`
	ShowShortDistractions   bool `mapstructure:"show_short_distractions"`
	AutoDismissSeconds      int  `mapstructure:"auto_dismiss_seconds"`
	HistoryCapacity         int  `mapstructure:"history_capacity"`

	// Overrides applied on top of the classifier's category.
	ProductiveApps  []string `mapstructure:"productive_apps"`
	DistractingApps []string `mapstructure:"distracting_apps"`
}

type Config struct {
	CollectionIntervalSeconds int           `mapstructure:"collection_interval_seconds"`
	QueueCapacity             int           `mapstructure:"queue_capacity"` // power of two
	SocketPath                string        `mapstructure:"socket_path"`
	Tracker                   TrackerConfig `mapstructure:"tracker"`
}

func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/neurofocus")
		viper.AddConfigPath("/etc/neurofocus/")
	}

	viper.SetEnvPrefix("NEUROFOCUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("collection_interval_seconds", 2)
	viper.SetDefault("queue_capacity", 65536)
	viper.SetDefault("socket_path", "/tmp/neurofocus.sock")
	viper.SetDefault("tracker.snapshot_interval_seconds", 30)
	viper.SetDefault("tracker.min_distraction_seconds", 30)
	viper.SetDefault("tracker.idle_timeout_seconds", 120)
	viper.SetDefault("tracker.show_short_distractions", false)
	viper.SetDefault("tracker.auto_dismiss_seconds", 5)
	viper.SetDefault("tracker.history_capacity", 20)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using defaults.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.CollectionIntervalSeconds < 1 {
		log.Println("Warning: collection_interval_seconds too low, setting to 1")
		cfg.CollectionIntervalSeconds = 1
	}
	if cfg.QueueCapacity < 2 || cfg.QueueCapacity&(cfg.QueueCapacity-1) != 0 {
		log.Printf("Warning: queue_capacity %d is not a power of two, defaulting to 65536", cfg.QueueCapacity)
		cfg.QueueCapacity = 65536
	}
	if cfg.Tracker.SnapshotIntervalSeconds < 1 {
		log.Println("Warning: tracker.snapshot_interval_seconds too low, setting to 1")
		cfg.Tracker.SnapshotIntervalSeconds = 1
	}
	if cfg.Tracker.HistoryCapacity < 1 {
		cfg.Tracker.HistoryCapacity = 20
	}

	log.Printf("Configuration loaded: %+v", cfg)
	return &cfg, nil
}

func (t TrackerConfig) SnapshotInterval() time.Duration {
	return time.Duration(t.SnapshotIntervalSeconds) * time.Second
}

func (t TrackerConfig) MinDistraction() time.Duration {
	return time.Duration(t.MinDistractionSeconds) * time.Second
}

func (t TrackerConfig) IdleTimeout() time.Duration {
	return time.Duration(t.IdleTimeoutSeconds) * time.Second
}

func (t TrackerConfig) AutoDismiss() time.Duration {
	return time.Duration(t.AutoDismissSeconds) * time.Second
}
