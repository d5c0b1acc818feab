// Package scheduler generates the chunks a render pass discovered, once per
// simulation step.
package scheduler

import (
	"log/slog"
	"sort"

	"github.com/OCharnyshevich/voxels/internal/render/world"
)

// Generator materializes one chunk. It returns false when the chunk was
// already present.
type Generator interface {
	GenTerrain(c world.ChunkPos) bool
}

// Scheduler accumulates pending chunk coordinates between flushes.
// It is not safe for concurrent use.
type Scheduler struct {
	gen     Generator
	log     *slog.Logger
	pending map[world.ChunkPos]struct{}

	generated int
}

// New creates a Scheduler that generates through gen.
func New(gen Generator, log *slog.Logger) *Scheduler {
	return &Scheduler{
		gen:     gen,
		log:     log.With("component", "scheduler"),
		pending: make(map[world.ChunkPos]struct{}),
	}
}

// Submit queues coords; duplicates collapse.
func (s *Scheduler) Submit(coords []world.ChunkPos) {
	for _, c := range coords {
		s.pending[c] = struct{}{}
	}
}

// Pending returns the number of queued coordinates.
func (s *Scheduler) Pending() int { return len(s.pending) }

// Generated returns the total number of chunks generated so far.
func (s *Scheduler) Generated() int { return s.generated }

// Flush generates every queued coordinate once and clears the queue.
// It returns how many chunks were actually generated.
func (s *Scheduler) Flush() int {
	if len(s.pending) == 0 {
		return 0
	}
	batch := make([]world.ChunkPos, 0, len(s.pending))
	for c := range s.pending {
		batch = append(batch, c)
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Less(batch[j]) })
	clear(s.pending)

	n := 0
	for _, c := range batch {
		if s.gen.GenTerrain(c) {
			n++
		}
	}
	s.generated += n
	s.log.Debug("generated chunks", "batch", len(batch), "generated", n, "total", s.generated)
	return n
}
