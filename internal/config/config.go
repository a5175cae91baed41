package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config keys.
const (
	KeyDefaultIndexer = "default-indexer"
	KeyOutputDir      = "output-dir"
)

// Indexer sub-keys, addressed as "<indexer>.<field>".
const (
	FieldURL      = "url"
	FieldKey      = "key"
	FieldRequests = "requests"
	FieldWindow   = "window"
)

// Environment variable fallbacks.
const (
	EnvIndexer   = "GAZELLE_INDEXER"
	EnvOutputDir = "GAZELLE_OUTPUT_DIR"
	EnvURL       = "GAZELLE_URL"
	EnvAPIKey    = "GAZELLE_API_KEY"
)

// FallbackIndexerName names the indexer defined only by environment
// variables when GAZELLE_INDEXER is unset.
const FallbackIndexerName = "default"

var (
	// ErrUnknownKey indicates a config key that is not recognized.
	ErrUnknownKey = errors.New("unknown config key")

	// ErrInvalidValue indicates a value that cannot be stored under its key.
	ErrInvalidValue = errors.New("invalid config value")

	// ErrIndexerNotFound indicates no indexer matches the requested name.
	ErrIndexerNotFound = errors.New("indexer not configured")

	// ErrNotDirectory indicates output-dir points at a file.
	ErrNotDirectory = errors.New("path is not a directory")

	// ErrNotWritable indicates output-dir cannot be written to.
	ErrNotWritable = errors.New("directory is not writable")
)

// Indexer holds the connection settings of one Gazelle tracker.
// Zero Requests or Window means the client default.
type Indexer struct {
	URL      string        `yaml:"url"`
	Key      string        `yaml:"key"`
	Requests int           `yaml:"requests,omitempty"`
	Window   time.Duration `yaml:"window,omitempty"`
}

// Config holds user configuration loaded from ~/.config/gazelle-api/config.yml.
type Config struct {
	DefaultIndexer string             `yaml:"default_indexer,omitempty"`
	OutputDir      string             `yaml:"output_dir,omitempty"`
	Indexers       map[string]Indexer `yaml:"indexers,omitempty"`
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/gazelle-api.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gazelle-api"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gazelle-api"), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yml"), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks.
// Returns an empty Config if the file doesn't exist (not an error).
func Load() (Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return cfg, err
	}

	// Environment variable fallback (only if not set in config).
	if cfg.DefaultIndexer == "" {
		cfg.DefaultIndexer = os.Getenv(EnvIndexer)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = os.Getenv(EnvOutputDir)
	}

	envURL, envKey := os.Getenv(EnvURL), os.Getenv(EnvAPIKey)
	if envURL != "" || envKey != "" {
		name := cfg.DefaultIndexer
		if name == "" {
			name = FallbackIndexerName
			cfg.DefaultIndexer = name
		}
		idx := cfg.Indexers[name]
		if idx.URL == "" {
			idx.URL = envURL
		}
		if idx.Key == "" {
			idx.Key = envKey
		}
		if cfg.Indexers == nil {
			cfg.Indexers = make(map[string]Indexer)
		}
		cfg.Indexers[name] = idx
	}

	return cfg, nil
}

// loadFile reads the config file only, without environment fallbacks.
func loadFile() (Config, error) {
	p, err := path()
	if err != nil {
		return Config{}, err
	}
	cfg, err := readFile(p)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return cfg, nil
}

// readFile parses a YAML config file.
func readFile(p string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid YAML in %s: %w", p, err)
	}
	return cfg, nil
}

// writeFile writes cfg as YAML. The file holds API keys, so it is created
// readable by the owner only.
func writeFile(p string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// #nosec G304 -- path from home dir
	if err := os.WriteFile(p, data, 0600); err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return nil
}

// Save writes a single key to the config file.
// Creates the config directory and file if they don't exist.
// Environment fallbacks are never written to the file.
func Save(key, value string) error {
	p, err := path()
	if err != nil {
		return err
	}

	// Ensure config directory exists.
	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	cfg, err := loadFile()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	return writeFile(p, cfg)
}

// Get reads a single value from the config file.
// Returns empty string if the key doesn't exist.
func Get(key string) (string, error) {
	cfg, err := loadFile()
	if err != nil {
		return "", err
	}
	return cfg.Value(key)
}

// List returns all config file values keyed as accepted by Save.
func List() (map[string]string, error) {
	cfg, err := loadFile()
	if err != nil {
		return nil, err
	}
	return cfg.Flatten(), nil
}

// splitKey separates "<indexer>.<field>" keys. Top-level keys return an
// empty indexer name.
func splitKey(key string) (indexer, field string, err error) {
	switch key {
	case KeyDefaultIndexer, KeyOutputDir:
		return "", key, nil
	}
	name, field, ok := strings.Cut(key, ".")
	if !ok || name == "" {
		return "", "", fmt.Errorf("%q: %w", key, ErrUnknownKey)
	}
	switch field {
	case FieldURL, FieldKey, FieldRequests, FieldWindow:
		return name, field, nil
	}
	return "", "", fmt.Errorf("%q: %w", key, ErrUnknownKey)
}

// Set validates value and stores it under key.
func (c *Config) Set(key, value string) error {
	name, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch field {
	case KeyDefaultIndexer:
		c.DefaultIndexer = value
		return nil
	case KeyOutputDir:
		c.OutputDir = value
		return nil
	}

	if c.Indexers == nil {
		c.Indexers = make(map[string]Indexer)
	}
	idx := c.Indexers[name]
	switch field {
	case FieldURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s=%q must be an http(s) URL: %w", key, value, ErrInvalidValue)
		}
		idx.URL = strings.TrimSuffix(value, "/")
	case FieldKey:
		idx.Key = value
	case FieldRequests:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s=%q must be a positive integer: %w", key, value, ErrInvalidValue)
		}
		idx.Requests = n
	case FieldWindow:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%s=%q must be a positive duration such as 10s: %w", key, value, ErrInvalidValue)
		}
		idx.Window = d
	}
	c.Indexers[name] = idx
	return nil
}

// Value returns the value stored under key, or "" if unset.
func (c Config) Value(key string) (string, error) {
	name, field, err := splitKey(key)
	if err != nil {
		return "", err
	}
	switch field {
	case KeyDefaultIndexer:
		return c.DefaultIndexer, nil
	case KeyOutputDir:
		return c.OutputDir, nil
	}
	idx, ok := c.Indexers[name]
	if !ok {
		return "", nil
	}
	return indexerField(idx, field), nil
}

func indexerField(idx Indexer, field string) string {
	switch field {
	case FieldURL:
		return idx.URL
	case FieldKey:
		return idx.Key
	case FieldRequests:
		if idx.Requests > 0 {
			return strconv.Itoa(idx.Requests)
		}
	case FieldWindow:
		if idx.Window > 0 {
			return idx.Window.String()
		}
	}
	return ""
}

// Flatten returns every non-empty value keyed as accepted by Set.
func (c Config) Flatten() map[string]string {
	out := make(map[string]string)
	if c.DefaultIndexer != "" {
		out[KeyDefaultIndexer] = c.DefaultIndexer
	}
	if c.OutputDir != "" {
		out[KeyOutputDir] = c.OutputDir
	}
	for name, idx := range c.Indexers {
		for _, field := range []string{FieldURL, FieldKey, FieldRequests, FieldWindow} {
			if v := indexerField(idx, field); v != "" {
				out[name+"."+field] = v
			}
		}
	}
	return out
}

// IndexerNames returns the configured indexer names, sorted.
func (c Config) IndexerNames() []string {
	names := make([]string, 0, len(c.Indexers))
	for name := range c.Indexers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Indexer selects an indexer by name. An empty name selects the default
// indexer, or the only configured one. The resolved name is returned with it.
func (c Config) Indexer(name string) (string, Indexer, error) {
	if name == "" {
		name = c.DefaultIndexer
	}
	if name == "" && len(c.Indexers) == 1 {
		for only := range c.Indexers {
			name = only
		}
	}
	if name == "" {
		return "", Indexer{}, fmt.Errorf("no indexer selected and no %s set (configured: %s): %w",
			KeyDefaultIndexer, strings.Join(c.IndexerNames(), ", "), ErrIndexerNotFound)
	}
	idx, ok := c.Indexers[name]
	if !ok {
		return name, Indexer{}, fmt.Errorf("%q: %w", name, ErrIndexerNotFound)
	}
	return name, idx, nil
}

// ResolveOutputPath resolves the final output path using the following precedence:
//  1. If output is absolute, use it as-is
//  2. If output is relative and outputDir is set, join them
//  3. If output is empty, use defaultName in outputDir (or cwd if no outputDir)
//
// outputDir can come from config or flag.
// All paths are cleaned using filepath.Clean to normalize separators and remove redundant elements.
func ResolveOutputPath(output, outputDir, defaultName string) string {
	// Case 1: Explicit absolute path - use as-is.
	if output != "" && filepath.IsAbs(output) {
		return filepath.Clean(output)
	}

	// Case 2: Explicit relative path - combine with outputDir if set.
	if output != "" {
		if outputDir != "" {
			return filepath.Clean(filepath.Join(outputDir, output))
		}
		return filepath.Clean(output)
	}

	// Case 3: No output specified - use default name.
	if outputDir != "" {
		return filepath.Clean(filepath.Join(outputDir, defaultName))
	}
	return filepath.Clean(defaultName)
}

// ValidOutputDir checks if a directory path is valid for use as output-dir.
// Missing directories are created. Returns nil if valid, or an error
// describing the problem.
func ValidOutputDir(d string) error {
	if d == "" {
		return fmt.Errorf("output-dir cannot be empty")
	}
	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user output dir
				return fmt.Errorf("cannot create directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s: %w", d, ErrNotDirectory)
	}

	// Check if writable by attempting to create a temp file.
	f, err := os.CreateTemp(d, ".gazelle-write-test-*")
	if err != nil {
		return fmt.Errorf("%s: %w: %w", d, ErrNotWritable, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name) // Best effort cleanup, ignore error

	return nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}

// Dir returns the configuration directory path (exported for testing).
func Dir() (string, error) {
	return dir()
}

// ReadFile parses a YAML config file (exported for testing).
func ReadFile(p string) (Config, error) {
	return readFile(p)
}
