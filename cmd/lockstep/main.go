package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/milk9111/lockstep/config"
	"github.com/milk9111/lockstep/host"
	"github.com/milk9111/lockstep/scene"
	"github.com/milk9111/lockstep/telemetry"
)

func main() {
	configFile := flag.String("config", "", "optional KEY=value config file, overridden by the environment")
	sceneName := flag.String("scene", "", "scene file (defaults to the embedded default scene)")
	tickRate := flag.Int("tick-rate", 0, "simulation ticks per second")
	maxSteps := flag.Int("max-steps", -1, "cap on fixed steps per frame (0 = uncapped)")
	watch := flag.Bool("watch", false, "reload the scene when it changes on disk")
	logLevel := flag.String("log-level", "", "zerolog level")
	savePath := flag.String("save", "", "write the final registry to this scene file on exit")
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
	if *maxSteps >= 0 {
		cfg.MaxSteps = *maxSteps
	}
	if *watch {
		cfg.Watch = true
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fatal := zerolog.New(os.Stderr)
		fatal.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(cfg.Level()).
		With().Timestamp().Logger()

	if err := run(cfg, logger, *savePath); err != nil {
		logger.Fatal().Err(err).Msg("lockstep stopped")
	}
}

func run(cfg config.Config, logger zerolog.Logger, savePath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := telemetry.New(cfg.StatsdAddr, []string{"service:lockstep"})
	if err != nil {
		return err
	}
	defer stats.Close()

	sinks, err := host.OpenSinks(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sinks.Close()

	world, err := host.New(host.Options{
		Config:  cfg,
		Logger:  logger,
		Metrics: telemetry.Logged(stats, logger),
		Sink:    sinks.Sink(),
	})
	if err != nil {
		return err
	}

	var reload <-chan string
	dirs := watchDirs(cfg.Scene)
	if cfg.Watch && len(dirs) == 0 {
		logger.Warn().Msg("watch ignored: the embedded default scene cannot change, pass -scene to watch a file")
	}
	if cfg.Watch && len(dirs) > 0 {
		watcher, err := scene.NewWatcher(dirs...)
		if err != nil {
			return err
		}
		defer watcher.Close()
		reload = watcher.Events
		go func() {
			for err := range watcher.Errors {
				logger.Warn().Err(err).Msg("scene watcher")
			}
		}()
	}

	ticker := time.NewTicker(world.Scheduler.FixedStep())
	defer ticker.Stop()
	last := time.Now()
	logger.Info().
		Int("tick_rate", cfg.TickRate).
		Int("max_steps", cfg.MaxSteps).
		Msg("running")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Uint64("tick", world.Scheduler.Tick()).Msg("shutting down")
			if savePath != "" {
				doc, err := world.Save()
				if err != nil {
					return err
				}
				return scene.WriteFile(savePath, doc)
			}
			return nil
		case path := <-reload:
			// Reloads run between frames, never inside Update.
			if err := world.Reload(); err != nil {
				logger.Error().Err(err).Str("changed", path).Msg("reload failed, keeping current scene")
			}
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			world.Frame(dt)
		}
	}
}

// watchDirs lists the directories to watch for a scene on disk, plus a
// local scripts directory when there is one. The embedded scene has none.
func watchDirs(sceneFile string) []string {
	if sceneFile == "" {
		return nil
	}
	dirs := []string{filepath.Dir(sceneFile)}
	if info, err := os.Stat("scripts"); err == nil && info.IsDir() {
		dirs = append(dirs, "scripts")
	}
	return dirs
}
