package cli

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/RogueOneEcho/gazelle-api/internal/config"
	"github.com/RogueOneEcho/gazelle-api/internal/interrupt"
	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
	"github.com/RogueOneEcho/gazelle-api/pkg/ratelimit"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	ConfigLoader  ConfigLoader
	ClientFactory ClientFactory

	// Interrupts installs the Ctrl+C handler used by batch commands.
	Interrupts func(parent context.Context) (*interrupt.Handler, context.Context)
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// ClientSettings carries everything needed to build an API client for one
// indexer. The limiter is built by the CLI so the limit command can inspect
// it without a client.
type ClientSettings struct {
	BaseURL string
	APIKey  string
	Limiter *ratelimit.Limiter
	Logger  *zap.Logger
	Metrics *gazelle.Metrics
}

// ClientFactory creates API clients.
type ClientFactory interface {
	NewClient(s ClientSettings) (gazelle.API, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithClientFactory sets the client factory.
func WithClientFactory(f ClientFactory) EnvOption {
	return func(e *Env) {
		e.ClientFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		Getenv:        os.Getenv,
		ConfigLoader:  &defaultConfigLoader{},
		ClientFactory: &defaultClientFactory{},
		Interrupts:    interrupt.NewHandler,
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultClientFactory implements ClientFactory with gazelle.NewClient.
type defaultClientFactory struct{}

func (defaultClientFactory) NewClient(s ClientSettings) (gazelle.API, error) {
	return gazelle.NewClient(
		gazelle.WithBaseURL(s.BaseURL),
		gazelle.WithAPIKey(s.APIKey),
		gazelle.WithLimiter(s.Limiter),
		gazelle.WithLogger(s.Logger),
		gazelle.WithMetrics(s.Metrics),
	)
}

// Compile-time interface verification.
var (
	_ ConfigLoader  = (*defaultConfigLoader)(nil)
	_ ClientFactory = (*defaultClientFactory)(nil)
)
