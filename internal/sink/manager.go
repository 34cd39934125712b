package sink

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ErrSinkNotFound is returned when a requested sink cannot be found.
var ErrSinkNotFound = errors.New("sink not found")

// Manager manages sink discovery and access.
type Manager struct {
	dir    string
	sinks  map[string]*Sink
	logger *zap.Logger
	mu     sync.RWMutex
}

// NewManager creates a new sink Manager for the given directory.
func NewManager(dir string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		dir:    dir,
		sinks:  make(map[string]*Sink),
		logger: logger.Named("sinks"),
	}
}

// Discover scans the sink directory. Each subdirectory holding a sink.json
// manifest is one sink; unreadable or incomplete manifests are skipped.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sinks = make(map[string]*Sink)

	info, err := os.Stat(m.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		sinkPath := filepath.Join(m.dir, entry.Name())
		manifestData, err := os.ReadFile(filepath.Join(sinkPath, ManifestFile))
		if err != nil {
			continue
		}

		var manifest Manifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			m.logger.Warn("skipping sink with invalid manifest",
				zap.String("path", sinkPath), zap.Error(err))
			continue
		}
		if manifest.Name == "" || manifest.Executable == "" {
			m.logger.Warn("skipping sink without name or executable", zap.String("path", sinkPath))
			continue
		}

		m.sinks[manifest.Name] = &Sink{
			Manifest:   manifest,
			Path:       sinkPath,
			Executable: filepath.Join(sinkPath, manifest.Executable),
		}
	}

	m.logger.Info("sinks discovered", zap.Int("count", len(m.sinks)), zap.String("dir", m.dir))
	return nil
}

// Get returns a sink by name.
func (m *Manager) Get(name string) (*Sink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sinks[name]
	if !ok {
		return nil, ErrSinkNotFound
	}
	return s, nil
}

// List returns all discovered sinks ordered by name.
func (m *Manager) List() []*Sink {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sinks := make([]*Sink, 0, len(m.sinks))
	for _, s := range m.sinks {
		sinks = append(sinks, s)
	}
	sort.Slice(sinks, func(i, j int) bool {
		return sinks[i].Manifest.Name < sinks[j].Manifest.Name
	})
	return sinks
}

// Dir returns the sink directory path.
func (m *Manager) Dir() string {
	return m.dir
}
