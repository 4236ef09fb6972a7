// Package config loads process settings from an optional key=value file
// and the environment, with the environment taking precedence.
package config

import (
	"time"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type Config struct {
	TickRate    int    `config:"LOCKSTEP_TICK_RATE"`
	MaxSteps    int    `config:"LOCKSTEP_MAX_STEPS"`
	Scene       string `config:"LOCKSTEP_SCENE"`
	Watch       bool   `config:"LOCKSTEP_WATCH"`
	LogLevel    string `config:"LOCKSTEP_LOG_LEVEL"`
	RedisAddr   string `config:"LOCKSTEP_REDIS_ADDR"`
	RedisStream string `config:"LOCKSTEP_REDIS_STREAM"`
	WSAddr      string `config:"LOCKSTEP_WS_ADDR"`
	StatsdAddr  string `config:"LOCKSTEP_STATSD_ADDR"`
}

// Default is the configuration used when nothing is set.
func Default() Config {
	return Config{
		TickRate:    60,
		LogLevel:    "info",
		RedisStream: "lockstep:state",
	}
}

// Load starts from Default, applies file when it is non-empty, then the
// environment. The result is not validated so callers can apply flag
// overrides first; call Validate before use.
func Load(file string) (Config, error) {
	cfg := Default()
	b := config.FromEnv()
	if file != "" {
		b = config.From(file).FromEnv()
	}
	if err := b.To(&cfg); err != nil {
		return Config{}, eris.Wrap(err, "load config")
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return eris.Errorf("tick rate must be positive, got %d", c.TickRate)
	}
	if c.MaxSteps < 0 {
		return eris.Errorf("max steps must not be negative, got %d", c.MaxSteps)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return eris.Wrapf(err, "log level %q", c.LogLevel)
	}
	return nil
}

// FixedStep is the duration of one simulation step.
func (c Config) FixedStep() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Level is the parsed log level; Validate guarantees it parses.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
