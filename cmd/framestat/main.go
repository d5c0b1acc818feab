package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/OCharnyshevich/voxels/internal/render/storage"
)

func main() {
	path := flag.String("log", "out/frames.jsonl.zst", "frame log written by voxels")
	verbose := flag.Bool("v", false, "print every frame")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	recs, err := storage.ReadFrameLog(*path)
	if err != nil {
		log.Error("read frame log", "error", err)
		os.Exit(1)
	}
	if len(recs) == 0 {
		log.Warn("frame log is empty", "path", *path)
		return
	}

	if *verbose {
		for _, r := range recs {
			fmt.Printf("%5d tick=%-6d hits=%-6d pending=%-4d chunks=%-6d %.2fms\n",
				r.Frame, r.Tick, r.Hits, r.Pending, r.Chunks, r.RenderMS)
		}
	}

	times := make([]float64, len(recs))
	for i, r := range recs {
		times[i] = r.RenderMS
	}
	sort.Float64s(times)
	last := recs[len(recs)-1]

	fmt.Printf("frames:    %d\n", len(recs))
	fmt.Printf("chunks:    %d (%d generated)\n", last.Chunks, last.Generated)
	fmt.Printf("frame ms:  p50 %.2f  p95 %.2f  max %.2f\n",
		percentile(times, 0.50), percentile(times, 0.95), times[len(times)-1])
}

// percentile expects sorted values.
func percentile(sorted []float64, p float64) float64 {
	i := int(p * float64(len(sorted)-1))
	return sorted[i]
}
