package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/voxels/internal/render/config"
)

// Storage handles file output for rendered frames, the frame log and the
// scene config.
type Storage struct {
	dir string
	log *slog.Logger
}

// New creates a new Storage rooted at dir, creating subdirectories as needed.
func New(dir string, log *slog.Logger) (*Storage, error) {
	dirs := []string{
		dir,
		filepath.Join(dir, "frames"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", d, err)
		}
	}
	return &Storage{dir: dir, log: log.With("component", "storage")}, nil
}

// Dir returns the storage root.
func (s *Storage) Dir() string { return s.dir }

// LoadConfig reads config.yaml into cfg. If the file does not exist, cfg is unchanged.
func (s *Storage) LoadConfig(cfg *config.Config) error {
	path := filepath.Join(s.dir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	s.log.Info("loaded config from file", "path", path)
	return nil
}

// SaveConfig writes cfg to config.yaml atomically.
func (s *Storage) SaveConfig(cfg *config.Config) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return atomicWrite(filepath.Join(s.dir, "config.yaml"), data)
}

// FramePath returns the PNG path for frame n.
func (s *Storage) FramePath(n int) string {
	return filepath.Join(s.dir, "frames", fmt.Sprintf("frame-%05d.png", n))
}

// SaveFrame encodes img as PNG and writes it atomically.
func (s *Storage) SaveFrame(n int, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode frame %d: %w", n, err)
	}
	path := s.FramePath(n)
	if err := atomicWrite(path, buf.Bytes()); err != nil {
		return "", err
	}
	s.log.Debug("frame saved", "frame", n, "path", path)
	return path, nil
}

// OpenFrameLog opens the compressed per-frame stats log.
func (s *Storage) OpenFrameLog() (*FrameLog, error) {
	return OpenFrameLog(filepath.Join(s.dir, "frames.jsonl.zst"))
}

// atomicWrite writes data using a temp file + rename.
func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
