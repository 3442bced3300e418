// Package store resolves LSC configuration sources on the local filesystem.
// It finds the primary property file and the fragment directory along a
// search path with a working-directory fallback, and writes persisted
// snapshots back to the location the primary was loaded from.
package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/magiconair/properties"
	"github.com/rs/zerolog"

	"github.com/aakarshsingh/lsc/config"
)

// Well-known file names of an LSC deployment.
const (
	// DefaultProperties is the primary configuration file name
	DefaultProperties = "lsc.properties"
	// DefaultDirectory is the fragment directory name
	DefaultDirectory = "lsc.d"
)

type (
	// Configuration holds the lookup settings of a FileStore.
	// Explicit options win over environment variables, which win over the
	// built-in defaults; zero fields fall through to the next layer.
	Configuration struct {
		// Properties is the primary source file name
		Properties string `env:"LSC_PROPERTIES"`
		// Directory is the fragment directory name
		Directory string `env:"LSC_CONFIG_DIR"`
		// SearchPath lists the directories probed before the working directory
		SearchPath []string `env:"LSC_PATH" envSeparator:":"`
	}

	// Option configures FileStore behavior using the functional options pattern.
	Option func(*settings)

	// settings collects option state before the layers are merged.
	settings struct {
		Configuration

		logger zerolog.Logger
	}

	// FileStore implements config.Store over the local filesystem.
	//
	// The primary file and the fragment directory are looked up independently
	// along the same deterministic order: every SearchPath entry first, the
	// working directory last; the first hit wins. Once the primary resolves,
	// its path is remembered and later persists target it.
	FileStore struct {
		mutex *sync.Mutex

		log zerolog.Logger
		cfg Configuration

		// resolved is the path the primary was found at, set by the first lookup
		resolved string
	}
)

// New creates a FileStore. Lookup settings left unset by options are read
// from the LSC_PROPERTIES, LSC_CONFIG_DIR and LSC_PATH environment variables,
// then topped up with the built-in defaults.
//
// Parameters:
//   - opts: Optional configuration functions to customize lookup behavior
//
// Returns:
//   - A new FileStore
//   - An error when the environment can't be read or the layers can't merge
//
// Example:
//
//	// Probe /etc/lsc before the working directory
//	st, err := New(SetSearchPath("/etc/lsc"))
//
//	conf := config.NewLayered(st)
func New(opts ...Option) (*FileStore, error) {
	s := settings{
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(&s)
	}

	var envCfg Configuration
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("can't read store settings from environment: %w", err)
	}
	if err := mergo.Merge(&s.Configuration, envCfg); err != nil {
		return nil, fmt.Errorf("can't layer environment store settings: %w", err)
	}
	if err := mergo.Merge(&s.Configuration, defaultConfiguration()); err != nil {
		return nil, fmt.Errorf("can't layer default store settings: %w", err)
	}

	return &FileStore{
		mutex: new(sync.Mutex),
		log:   s.logger,
		cfg:   s.Configuration,
	}, nil
}

// SetProperties configures the primary source file name.
func SetProperties(name string) Option {
	return func(s *settings) {
		s.Properties = name
	}
}

// SetDirectory configures the fragment directory name.
func SetDirectory(name string) Option {
	return func(s *settings) {
		s.Directory = name
	}
}

// SetSearchPath configures the directories probed before the working directory.
func SetSearchPath(dirs ...string) Option {
	return func(s *settings) {
		s.SearchPath = dirs
	}
}

// SetLogger configures the logger the store emits lookup and persist events
// through. Without it the store stays silent.
func SetLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// Primary resolves and reads the primary configuration file.
//
// Parameters:
//   - ctx: Unused; filesystem reads aren't cancellable
//
// Returns:
//   - The primary source, named after the configured file name
//   - A config.SourceNotFoundError when no search location has the file
func (s *FileStore) Primary(ctx context.Context) (*config.Source, error) {
	p, err := s.resolve()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, config.SourceNotFoundError{
			Name: s.cfg.Properties,
			Err:  err,
		}
	}

	s.log.Debug().Str("path", p).Msg("resolved primary configuration file")
	return &config.Source{
		Name: s.cfg.Properties,
		Data: data,
	}, nil
}

// Fragments reads the regular files of the first fragment directory found
// along the search order. Source names are directory-qualified with forward
// slashes ("lsc.d/10-db.properties") regardless of platform, so the engine's
// lexicographic ordering behaves identically everywhere.
//
// Parameters:
//   - ctx: Unused; filesystem reads aren't cancellable
//
// Returns:
//   - The fragment sources, nil when no search location has the directory
//   - An error when an existing directory or one of its files can't be read
func (s *FileStore) Fragments(ctx context.Context) ([]*config.Source, error) {
	dir := s.fragmentsDir()
	if len(dir) == 0 {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("can't list configuration directory %s: %w", dir, err)
	}

	var sources []*config.Source
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}

		p := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("can't read configuration fragment %s: %w", p, err)
		}

		sources = append(sources, &config.Source{
			Name: path.Join(s.cfg.Directory, e.Name()),
			Data: data,
		})
	}

	s.log.Debug().Str("path", dir).Int("fragments", len(sources)).Msg("resolved configuration directory")
	return sources, nil
}

// Persist serializes the snapshot as flat property syntax, keys sorted, and
// writes it to the path the primary was loaded from. When the primary never
// resolved, the file is created at the head of the search order instead.
//
// Parameters:
//   - ctx: Unused; filesystem writes aren't cancellable
//   - snapshot: The full key/value state to store
//
// Returns:
//   - An error when the snapshot can't be serialized or written
func (s *FileStore) Persist(ctx context.Context, snapshot map[string]string) error {
	target := s.persistTarget()

	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := properties.NewProperties()
	p.DisableExpansion = true
	for _, k := range keys {
		if _, _, err := p.Set(k, snapshot[k]); err != nil {
			return fmt.Errorf("can't encode property %s: %w", k, err)
		}
	}

	var buf bytes.Buffer
	if _, err := p.Write(&buf, properties.UTF8); err != nil {
		return fmt.Errorf("can't serialize configuration snapshot: %w", err)
	}

	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("can't write configuration snapshot to %s: %w", target, err)
	}

	s.log.Debug().Str("path", target).Int("keys", len(snapshot)).Msg("wrote configuration snapshot")
	return nil
}

// resolve finds the primary file along the search order, remembering the hit
// so later persists write back to the same location.
func (s *FileStore) resolve() (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.resolved) > 0 {
		return s.resolved, nil
	}

	dirs := s.searchDirs()
	for _, dir := range dirs {
		p := filepath.Join(dir, s.cfg.Properties)
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			s.resolved = p
			return p, nil
		}
	}

	return "", config.SourceNotFoundError{
		Name: s.cfg.Properties,
		Err:  fmt.Errorf("not found in %s: %w", strings.Join(dirs, ", "), os.ErrNotExist),
	}
}

// fragmentsDir returns the first existing fragment directory along the search
// order, or empty when there is none.
func (s *FileStore) fragmentsDir() string {
	for _, dir := range s.searchDirs() {
		p := filepath.Join(dir, s.cfg.Directory)
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			return p
		}
	}
	return ""
}

// persistTarget returns where a snapshot should be written.
func (s *FileStore) persistTarget() string {
	if p, err := s.resolve(); err == nil {
		return p
	}
	return filepath.Join(s.searchDirs()[0], s.cfg.Properties)
}

// searchDirs returns the lookup order: the search path, working directory last.
func (s *FileStore) searchDirs() []string {
	return append(append(make([]string, 0, len(s.cfg.SearchPath)+1), s.cfg.SearchPath...), ".")
}

// defaultConfiguration returns the built-in lookup settings.
func defaultConfiguration() Configuration {
	return Configuration{
		Properties: DefaultProperties,
		Directory:  DefaultDirectory,
	}
}
