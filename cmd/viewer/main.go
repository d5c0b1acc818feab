package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/OCharnyshevich/voxels/internal/display"
	"github.com/OCharnyshevich/voxels/internal/render"
	"github.com/OCharnyshevich/voxels/internal/render/config"
	"github.com/OCharnyshevich/voxels/internal/render/march"
	"github.com/OCharnyshevich/voxels/internal/render/storage"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "", "YAML scene file (flags override its values)")
	scale := flag.Int("scale", 8, "window pixels per frame pixel")

	flag.IntVar(&cfg.WorldDim, "dim", cfg.WorldDim, "world side length in voxels")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "terrain seed")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "frame width in pixels")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "frame height in pixels")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "render workers (0 = one per CPU)")
	flag.IntVar(&cfg.TPS, "tps", cfg.TPS, "simulation ticks per second")
	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "camera mode: orbit or fly")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "snapshot directory")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

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

	engine, err := render.New(cfg, log)
	if err != nil {
		log.Error("create engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	var snapshots int
	opts := display.Options{
		Title: "Voxels",
		Scale: *scale,
		TPS:   cfg.TPS,
		Snapshot: func(f *march.Frame) error {
			store, err := storage.New(cfg.OutputDir, log)
			if err != nil {
				return err
			}
			path, err := store.SaveFrame(snapshots, f.Image())
			if err != nil {
				return err
			}
			snapshots++
			log.Info("snapshot saved", "path", path)
			return nil
		},
	}

	log.Info("controls: WASD move, space/ctrl up/down, Q/E rotate, T/G viewplane, shift fast, R reset, M mode, P snapshot, Esc quit")
	if err := display.RunWindow(engine, opts, log); err != nil {
		log.Error("window", "error", err)
		os.Exit(1)
	}
}
