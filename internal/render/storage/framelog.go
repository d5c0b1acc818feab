package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// FrameRecord is one line of the frame log.
type FrameRecord struct {
	Frame     int        `json:"frame"`
	Tick      uint64     `json:"tick"`
	CameraPos [3]float32 `json:"camera_pos"`
	CameraDir [3]float32 `json:"camera_dir"`
	Hits      int        `json:"hits"`
	Pending   int        `json:"pending"`
	Generated int        `json:"generated"`
	Chunks    int        `json:"chunks"`
	RenderMS  float64    `json:"render_ms"`
}

// FrameLog writes FrameRecords as zstd-compressed JSON lines.
type FrameLog struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// OpenFrameLog creates or truncates the log at path.
func OpenFrameLog(path string) (*FrameLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open frame log: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &FrameLog{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// Write appends one record.
func (l *FrameLog) Write(rec FrameRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return os.ErrClosed
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := l.w.Write(b); err != nil {
		return err
	}
	return l.w.WriteByte('\n')
}

// Close flushes and closes the log. Calling Close twice is a no-op.
func (l *FrameLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return nil
	}

	var first error
	if err := l.w.Flush(); err != nil {
		first = err
	}
	if err := l.enc.Close(); err != nil && first == nil {
		first = err
	}
	if err := l.f.Close(); err != nil && first == nil {
		first = err
	}
	l.w, l.enc, l.f = nil, nil, nil
	return first
}

// ReadFrameLog decodes every record in the log at path.
func ReadFrameLog(path string) ([]FrameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame log: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []FrameRecord
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var rec FrameRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("decode frame %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
	return out, sc.Err()
}
