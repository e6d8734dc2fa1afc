package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/laytan/snowflake/pkg/snowflake"
)

type Config struct {
	Server    ServerConfig
	Snowflake SnowflakeConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type SnowflakeConfig struct {
	NodeID int64 `mapstructure:"node_id"`
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from ./config/config.yaml (if present) and
// environment variables, applying defaults for anything unset. The
// node id is validated here so an out-of-range value fails at startup
// instead of panicking on the first request.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("snowflake.node_id", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("snowflake.node_id", "SNOWFLAKE_NODE_ID")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, rely on defaults and env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Snowflake.NodeID < 0 || cfg.Snowflake.NodeID > snowflake.MaxNodeID {
		return nil, fmt.Errorf("snowflake.node_id must be between 0 and %d, got %d",
			snowflake.MaxNodeID, cfg.Snowflake.NodeID)
	}

	return &cfg, nil
}
