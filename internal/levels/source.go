// Package levels provides level sources: story files on disk and the
// built-in story compiled into the binary.
package levels

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/phrasedrill/internal/domain"
	"github.com/hammamikhairi/phrasedrill/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.LevelSource = (*FileSource)(nil)
	_ domain.LevelSource = (*MemorySource)(nil)
)

// ErrUnknownFormat is returned for story files with an unsupported extension.
var ErrUnknownFormat = errors.New("unknown story format")

//go:embed story.yaml
var builtinStory []byte

// FileSource reads a story from a YAML (.yaml, .yml) or JSON-with-comments
// (.json, .hujson, .jsonc) file. The file holds a top-level list of levels.
type FileSource struct {
	path string
	log  *logger.Logger
}

// NewFileSource creates a source for the story file at path.
func NewFileSource(path string, log *logger.Logger) *FileSource {
	return &FileSource{path: path, log: log}
}

// Load reads, decodes and validates the story file.
func (s *FileSource) Load(ctx context.Context) ([]domain.Level, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading story: %w", err)
	}
	levels, err := Decode(filepath.Ext(s.path), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	if err := check(levels, s.log); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.log.Info("loaded %d levels from %s", len(levels), s.path)
	return levels, nil
}

// Decode parses story data. ext selects the format and includes the dot.
func Decode(ext string, data []byte) ([]domain.Level, error) {
	var levels []domain.Level
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &levels); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case ".json", ".hujson", ".jsonc":
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("invalid JSONC: %w", err)
		}
		if err := json.Unmarshal(std, &levels); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return levels, nil
}

// MemorySource holds a story in memory. Safe for concurrent use.
type MemorySource struct {
	mu     sync.RWMutex
	levels []domain.Level
	log    *logger.Logger
}

// NewMemorySource creates a source over the given levels.
func NewMemorySource(levels []domain.Level, log *logger.Logger) *MemorySource {
	return &MemorySource{levels: slices.Clone(levels), log: log}
}

// Builtin returns a source for the story compiled into the binary.
func Builtin(log *logger.Logger) (*MemorySource, error) {
	levels, err := Decode(".yaml", builtinStory)
	if err != nil {
		return nil, fmt.Errorf("built-in story: %w", err)
	}
	return NewMemorySource(levels, log), nil
}

// Load validates and returns a copy of the stored levels.
func (s *MemorySource) Load(ctx context.Context) ([]domain.Level, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := check(s.levels, s.log); err != nil {
		return nil, err
	}
	s.log.Debug("serving %d levels from memory", len(s.levels))
	return slices.Clone(s.levels), nil
}

// Replace swaps the stored story.
func (s *MemorySource) Replace(levels []domain.Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels = slices.Clone(levels)
}

// check rejects malformed levels and warns about unsolvable ones. An
// unsolvable level is still playable, it just never ends.
func check(levels []domain.Level, log *logger.Logger) error {
	if err := domain.ValidateStory(levels); err != nil {
		return err
	}
	if len(levels) == 0 {
		log.Warn("story has no levels")
	}
	for i, lvl := range levels {
		if !Solvable(lvl) {
			log.Warn("level %d (%s): no combination of options spells %q", i+1, lvl.Title, lvl.Goal)
		}
	}
	return nil
}
