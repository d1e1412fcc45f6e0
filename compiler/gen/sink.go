package gen

import (
	"bytes"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Sink receives generated units. Create is called once per unit; the unit
// is complete when the returned writer is closed. Implementations must be
// safe for concurrent use.
type Sink interface {
	Create(u *Unit) (io.WriteCloser, error)
}

// Outcome tells what a sink did with a unit.
type Outcome uint8

const (
	// Written means the unit was written.
	Written Outcome = iota
	// Unchanged means the unit matched the cached content and was skipped.
	Unchanged
	// Skipped means the unit was rendered but not written (dry run).
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Unchanged:
		return "unchanged"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// FileSink writes units next to their type declaration, or into Target.
type FileSink struct {
	Target string
	Cache  *Cache
	DryRun bool
	Logger *zap.Logger

	mu       sync.Mutex
	outcomes map[string]Outcome
}

// NewFileSink creates a file sink from the output settings of cfg.
func NewFileSink(cfg *Config, cache *Cache) *FileSink {
	out := cfg.Output()
	return &FileSink{
		Target: out.Target,
		Cache:  cache,
		DryRun: out.DryRun,
		Logger: cfg.Logger,
	}
}

// Path returns the file a unit is written to.
func (s *FileSink) Path(u *Unit) string {
	return OutputConfig{Target: s.Target}.Path(u.Dir, u.File)
}

// Create implements Sink.
func (s *FileSink) Create(u *Unit) (io.WriteCloser, error) {
	return &fileWriter{sink: s, unit: u, path: s.Path(u)}, nil
}

// Outcomes returns what happened to every file, keyed by path.
func (s *FileSink) Outcomes() map[string]Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.outcomes)
}

// Files returns the paths of the units handled so far, sorted.
func (s *FileSink) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.outcomes))
}

func (s *FileSink) record(path string, o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcomes == nil {
		s.outcomes = make(map[string]Outcome)
	}
	s.outcomes[path] = o
}

func (s *FileSink) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// fileWriter buffers a unit and writes it on Close.
type fileWriter struct {
	sink   *FileSink
	unit   *Unit
	path   string
	buf    bytes.Buffer
	closed bool
}

func (w *fileWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *fileWriter) Close() error {
	if w.closed {
		return os.ErrClosed
	}
	w.closed = true
	s, content := w.sink, w.buf.Bytes()
	log := s.logger().With(zap.String("unit", w.unit.Name), zap.String("file", w.path))
	switch {
	case s.DryRun:
		s.record(w.path, Skipped)
		log.Debug("dry run, unit not written")
		return nil
	case s.Cache.Fresh(w.path, content):
		s.record(w.path, Unchanged)
		log.Debug("unit unchanged")
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return NewGenerationError("create", w.unit.Name, w.path, err)
	}
	if err := os.WriteFile(w.path, content, 0o644); err != nil {
		return NewGenerationError("write", w.unit.Name, w.path, err)
	}
	s.Cache.Store(w.path, w.unit.Name, content)
	s.record(w.path, Written)
	log.Debug("unit written", zap.Int("bytes", len(content)))
	return nil
}

// MemorySink keeps units in memory, keyed by unit name.
type MemorySink struct {
	mu    sync.Mutex
	units map[string][]byte
	files map[string]string
}

// NewMemorySink returns an empty memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{units: make(map[string][]byte), files: make(map[string]string)}
}

// Create implements Sink.
func (s *MemorySink) Create(u *Unit) (io.WriteCloser, error) {
	return &memoryWriter{sink: s, name: u.Name, file: u.File}, nil
}

// Unit returns the content of a unit.
func (s *MemorySink) Unit(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.units[name]
	return b, ok
}

// File returns the file name a unit would be written to.
func (s *MemorySink) File(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[name]
}

// Names returns the unit names, sorted.
func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.units))
}

type memoryWriter struct {
	sink       *MemorySink
	name, file string
	buf        bytes.Buffer
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memoryWriter) Close() error {
	w.sink.mu.Lock()
	defer w.sink.mu.Unlock()
	w.sink.units[w.name] = bytes.Clone(w.buf.Bytes())
	w.sink.files[w.name] = w.file
	return nil
}
