package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// MaxLogBytes is the rotation threshold: once the log grows past it, the
// file is renamed to the single backup slot and a fresh log begins.
const MaxLogBytes = 1_000_000

// Entry is the immutable record of one invocation. Exactly one entry is
// appended per invocation, whatever the outcome, and never mutated after
// write.
type Entry struct {
	Timestamp        string   `json:"ts"`
	RunID            string   `json:"run_id,omitempty"`
	WorkingDirectory string   `json:"cwd"`
	Argv             []string `json:"argv"`
	ExitCode         int      `json:"exit_code"`
	GeneratedCommand *string  `json:"generated_command,omitempty"`
	Relaxed          bool     `json:"relaxed"`
	Confirm          bool     `json:"confirm"`
	Explain          bool     `json:"explain"`
	Scope            *string  `json:"scope,omitempty"`
	PeekFiles        []string `json:"peek_files"`
	Note             *string  `json:"note,omitempty"`
}

// Store appends and reads the invocation log: one self-describing JSON
// record per line, append-only, with a single rotated backup generation.
//
// The store does not lock across processes. Concurrent appends of small
// records interleave at line granularity, which is tolerable; two
// processes racing the rotation rename can lose entries written between
// the size check and the rename. Known limitation.
type Store struct {
	path     string
	maxBytes int64
	logger   *slog.Logger
}

type Config struct {
	Path     string
	MaxBytes int64 // rotation threshold; defaults to MaxLogBytes
	Logger   *slog.Logger
}

func NewStore(cfg Config) *Store {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = MaxLogBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Store{path: cfg.Path, maxBytes: cfg.MaxBytes, logger: cfg.Logger}
}

// DefaultPath returns the log location under the nlrun config directory.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "history.log")
}

// Append serializes the entry, appends it as one line, and rotates the
// log when it has grown past the threshold.
func (s *Store) Append(entry Entry) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history directory %s: %w", dir, err)
		}
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open history log %s: %w", s.path, err)
	}

	_, werr := f.Write(append(line, '\n'))
	if werr == nil {
		werr = f.Sync()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("append history entry to %s: %w", s.path, werr)
	}

	return s.rotateIfNeeded()
}

// ReadLatest returns the most recent parseable entry, falling back to
// the backup generation, or nil when no record exists. Malformed lines
// are skipped, never fatal.
func (s *Store) ReadLatest() (*Entry, error) {
	entry, err := s.readLatestFrom(s.path)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return entry, nil
	}
	return s.readLatestFrom(s.backupPath())
}

func (s *Store) readLatestFrom(path string) (*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history log %s: %w", path, err)
	}
	defer f.Close()

	var last *Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			s.logger.Debug("skipping malformed history entry", "path", path, "err", err)
			continue
		}
		last = &e
	}
	if err := scanner.Err(); err != nil {
		// Keep whatever parsed before the read error.
		s.logger.Debug("history read stopped early", "path", path, "err", err)
	}

	return last, nil
}

// rotateIfNeeded renames the log to the single backup slot once it
// exceeds the threshold. At most one backup generation exists; the
// previous one is replaced, never chained.
func (s *Store) rotateIfNeeded() error {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil
	}
	if info.Size() <= s.maxBytes {
		return nil
	}

	backup := s.backupPath()
	if err := os.Rename(s.path, backup); err != nil {
		return fmt.Errorf("rotate history log %s -> %s: %w", s.path, backup, err)
	}
	return nil
}

func (s *Store) backupPath() string {
	return s.path + ".1"
}

// Now returns the timestamp format used by history entries: UTC RFC3339
// at second precision, sortable as text.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
