package main

import (
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/milk9111/lockstep/config"
	"github.com/milk9111/lockstep/host"
)

func main() {
	configFile := flag.String("config", "", "optional KEY=value config file, overridden by the environment")
	sceneName := flag.String("scene", "", "scene file (defaults to the embedded default scene)")
	tickRate := flag.Int("tick-rate", 0, "simulation ticks per second")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fatal := zerolog.New(os.Stderr)
		fatal.Fatal().Err(err).Msg("invalid configuration")
	}
	if *sceneName != "" {
		cfg.Scene = *sceneName
	}
	if *tickRate > 0 {
		cfg.TickRate = *tickRate
	}
	if *debug {
		cfg.LogLevel = zerolog.LevelDebugValue
	}
	if err := cfg.Validate(); err != nil {
		fatal := zerolog.New(os.Stderr)
		fatal.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(cfg.Level()).
		With().Timestamp().Logger()

	game := NewGame(logger)
	world, err := host.New(host.Options{Config: cfg, Logger: logger, Renderer: game})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load scene")
	}
	game.world = world

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("lockstep viewer - " + world.SceneName())

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal().Err(err).Msg("viewer stopped")
	}
}
