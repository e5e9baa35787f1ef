// Package config loads the pool configuration of the tpool command from a
// YAML file, TPOOL_* environment variables and command line flags.
package config

import (
	"io"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lnquy/threadpool"
)

const (
	EnvPrefix         = "TPOOL"
	defaultConfigName = ".tpool"
)

// Keys match the yaml tags of threadpool.Config so Dump output can be fed
// back as a config file.
const (
	KeyMode              = "mode"
	KeyInitWorkers       = "init_workers"
	KeyQueueCapacity     = "queue_capacity"
	KeyMaxWorkers        = "max_workers"
	KeyIdleTimeout       = "idle_timeout"
	KeySubmitTimeout     = "submit_timeout"
	KeyIdleCheckInterval = "idle_check_interval"
)

// SetDefaults registers the library defaults on v.
func SetDefaults(v *viper.Viper) {
	def := threadpool.DefaultConfig()
	v.SetDefault(KeyMode, def.Mode.String())
	v.SetDefault(KeyInitWorkers, def.InitWorkers)
	v.SetDefault(KeyQueueCapacity, def.QueueCapacity)
	v.SetDefault(KeyMaxWorkers, def.MaxWorkers)
	v.SetDefault(KeyIdleTimeout, def.IdleTimeout)
	v.SetDefault(KeySubmitTimeout, def.SubmitTimeout)
	v.SetDefault(KeyIdleCheckInterval, def.IdleCheckInterval)
}

// ReadFile points v at path, or at $HOME/.tpool.yaml when path is empty,
// and enables TPOOL_* environment overrides. A missing default file is
// not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get home directory")
		}
		v.AddConfigPath(home)
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && path == "" {
			return nil
		}
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}

// Load decodes the values resolved by v into a threadpool.Config.
// Mode goes through its UnmarshalText, durations accept "30s" style strings.
func Load(v *viper.Viper) (threadpool.Config, error) {
	var conf threadpool.Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&conf, hook); err != nil {
		return threadpool.Config{}, errors.Wrap(err, "failed to decode config")
	}
	return conf, nil
}

// Dump writes conf as YAML.
func Dump(w io.Writer, conf threadpool.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(conf); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return enc.Close()
}
