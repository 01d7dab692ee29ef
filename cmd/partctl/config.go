package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/joshuapare/partkit/partition"
)

// Config is the partctl configuration. Values come from, in increasing
// priority: defaults, the config file, PARTCTL_* environment variables and
// command-line flags.
type Config struct {
	// State is the path of the JSON state file holding the table.
	State string `mapstructure:"state"`

	// Partitions is the capacity list used by init when none are given.
	Partitions []int `mapstructure:"partitions"`

	// Policy is the selection policy used by init: first-fit, best-fit or worst-fit.
	Policy string `mapstructure:"policy"`

	// UniqueNames makes init create a table that rejects duplicate resident names.
	UniqueNames bool `mapstructure:"unique_names"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Lang is a BCP 47 tag used to group digits in text output.
	Lang string `mapstructure:"lang"`
}

func init() {
	viper.SetDefault("state", "partctl.state.json")
	viper.SetDefault("partitions", []int{100, 150, 200, 250, 300})
	viper.SetDefault("policy", partition.FirstFit.String())
	viper.SetDefault("unique_names", false)
	viper.SetDefault("log_format", "text")
	viper.SetDefault("lang", "en")

	_ = viper.BindEnv("state", "PARTCTL_STATE")
	_ = viper.BindEnv("partitions", "PARTCTL_PARTITIONS")
	_ = viper.BindEnv("policy", "PARTCTL_POLICY")
	_ = viper.BindEnv("unique_names", "PARTCTL_UNIQUE_NAMES")
	_ = viper.BindEnv("log_level", "PARTCTL_LOG_LEVEL")
	_ = viper.BindEnv("log_format", "PARTCTL_LOG_FORMAT")
	_ = viper.BindEnv("lang", "PARTCTL_LANG")
}

// loadConfig reads path (or ./partctl.yaml when path is empty and the file
// exists) and decodes the merged settings.
func loadConfig(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		viper.SetConfigName("partctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if _, err := partition.ParsePolicy(c.Policy); err != nil {
		return nil, errors.Wrap(err, "config policy")
	}
	if c.State == "" {
		return nil, errors.New("config: state path must not be empty")
	}
	return &c, nil
}

// policy returns the parsed selection policy.
func (c *Config) policy() partition.Policy {
	p, _ := partition.ParsePolicy(c.Policy)
	return p
}
