// Package config loads pubgcoach settings from flags, environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config keys, shared by flags, the config file and PUBGCOACH_* variables.
const (
	KeyDB              = "db"
	KeyVerbose         = "verbose"
	KeyAPIKey          = "api_key"
	KeyShard           = "shard"
	KeyAnthropicAPIKey = "anthropic_api_key"
	KeyModel           = "model"
)

const (
	EnvPrefix    = "PUBGCOACH"
	DefaultDB    = "pubgcoach.db"
	DefaultShard = "steam"
	DefaultModel = "claude-sonnet-4-5"
)

// Config is the resolved configuration.
type Config struct {
	DBPath          string
	Verbose         bool
	APIKey          string
	Shard           string
	AnthropicAPIKey string
	Model           string
}

// Init points v at the config file (cfgFile, or $HOME/.pubgcoach.yaml when
// empty) and the PUBGCOACH_* environment. A missing default file is not an
// error; a missing explicit file is.
func Init(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".pubgcoach")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDB, DefaultDB)
	v.SetDefault(KeyShard, DefaultShard)
	v.SetDefault(KeyModel, DefaultModel)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load resolves a Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DBPath:          v.GetString(KeyDB),
		Verbose:         v.GetBool(KeyVerbose),
		APIKey:          v.GetString(KeyAPIKey),
		Shard:           v.GetString(KeyShard),
		AnthropicAPIKey: v.GetString(KeyAnthropicAPIKey),
		Model:           v.GetString(KeyModel),
	}
	if cfg.DBPath == "" {
		return Config{}, errors.New("db path is empty")
	}
	if cfg.Shard == "" {
		cfg.Shard = DefaultShard
	}
	return cfg, nil
}

// RequireAPIKey fails when no upstream data API key is configured.
func (c Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("%s is not set (flag --api-key, config %q or env %s_API_KEY)", KeyAPIKey, KeyAPIKey, EnvPrefix)
	}
	return nil
}
