package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings shared by all subcommands.
type Config struct {
	Step     float64
	Steps    []float64
	Format   string
	Output   string
	Plot     string
	Verify   bool
	Workers  int
	LogLevel string
}

const envPrefix = "POISSON"

var formats = map[string]bool{"table": true, "csv": true, "yaml": true}

func setDefaults(v *viper.Viper) {
	v.SetDefault("step", 0.01)
	v.SetDefault("steps", []string{"0.1", "0.05", "0.02", "0.01"})
	v.SetDefault("format", "table")
	v.SetDefault("output", "")
	v.SetDefault("plot", "")
	v.SetDefault("verify", false)
	v.SetDefault("workers", 4)
	v.SetDefault("log_level", "info")
}

// newViper returns a viper instance with defaults, environment lookup and
// the given flags bound to their config keys.  Flag names use dashes, keys
// use underscores.
func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || err != nil {
			return
		}
		err = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	return v, err
}

// loadConfig reads the optional YAML config file at path into v and returns
// the merged configuration.
func loadConfig(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %v: %w", path, err)
		}
	}

	cfg := Config{
		Step:     v.GetFloat64("step"),
		Format:   strings.ToLower(v.GetString("format")),
		Output:   v.GetString("output"),
		Plot:     v.GetString("plot"),
		Verify:   v.GetBool("verify"),
		Workers:  v.GetInt("workers"),
		LogLevel: v.GetString("log_level"),
	}

	for _, s := range v.GetStringSlice("steps") {
		for _, field := range strings.Split(s, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			h, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Config{}, fmt.Errorf("steps: %w", err)
			}
			cfg.Steps = append(cfg.Steps, h)
		}
	}

	if !formats[cfg.Format] {
		return Config{}, fmt.Errorf("unknown output format %q", cfg.Format)
	}
	if cfg.Workers <= 0 {
		return Config{}, fmt.Errorf("workers must be positive, got %v", cfg.Workers)
	}
	return cfg, nil
}

func setupLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(lvl)
	return logger, nil
}
