package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OCharnyshevich/voxels/internal/render"
	"github.com/OCharnyshevich/voxels/internal/render/config"
	"github.com/OCharnyshevich/voxels/internal/render/march"
	"github.com/OCharnyshevich/voxels/internal/render/storage"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "", "YAML scene file (flags override its values)")
	saveEvery := flag.Int("save-every", 0, "write a PNG every N frames (0 = last frame only)")
	debug := flag.Bool("debug", false, "enable debug logging")

	flag.IntVar(&cfg.WorldDim, "dim", cfg.WorldDim, "world side length in voxels")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "terrain seed")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "frame width in pixels")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "frame height in pixels")
	flag.IntVar(&cfg.RaySteps, "steps", cfg.RaySteps, "march steps per ray")
	stepSize := flag.Float64("step-size", float64(cfg.StepSize), "march step length")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "render workers (0 = one per CPU)")
	flag.IntVar(&cfg.TPS, "tps", cfg.TPS, "simulation ticks per second")
	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "camera mode: orbit or fly")
	flag.IntVar(&cfg.Frames, "frames", cfg.Frames, "frames to render (0 = until interrupted)")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "output directory")
	flag.Parse()
	cfg.StepSize = float32(*stepSize)

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			log.Error("load config", "error", err)
			os.Exit(1)
		}
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.Merge(cfg, fromFile, explicit)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *saveEvery, log); err != nil {
		log.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, saveEvery int, log *slog.Logger) error {
	store, err := storage.New(cfg.OutputDir, log)
	if err != nil {
		return err
	}
	if err := store.SaveConfig(cfg); err != nil {
		return err
	}

	engine, err := render.New(cfg, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	frameLog, err := store.OpenFrameLog()
	if err != nil {
		return err
	}
	defer frameLog.Close()

	start := time.Now()
	last := time.Now()
	err = engine.Run(ctx, cfg.Frames, func(n int, f *march.Frame) error {
		now := time.Now()
		s := engine.Stats()
		rec := storage.FrameRecord{
			Frame:     n,
			Tick:      s.Tick,
			CameraPos: s.CameraPos,
			CameraDir: s.CameraDir,
			Hits:      f.Hits,
			Pending:   len(f.Pending),
			Generated: s.Generated,
			Chunks:    s.Chunks,
			RenderMS:  float64(now.Sub(last).Microseconds()) / 1000,
		}
		last = now
		if err := frameLog.Write(rec); err != nil {
			return err
		}

		if (saveEvery > 0 && n%saveEvery == 0) || n == cfg.Frames-1 {
			path, err := store.SaveFrame(n, f.Image())
			if err != nil {
				return err
			}
			log.Info("frame written", "frame", n, "path", path, "chunks", s.Chunks)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s := engine.Stats()
	log.Info("render finished",
		"frames", s.Frames,
		"ticks", s.Tick,
		"chunks", s.Chunks,
		"generated", s.Generated,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return frameLog.Close()
}
