package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RogueOneEcho/gazelle-api/internal/apierr"
	"github.com/RogueOneEcho/gazelle-api/internal/config"
	"github.com/RogueOneEcho/gazelle-api/internal/format"
	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
	"github.com/RogueOneEcho/gazelle-api/pkg/ratelimit"
)

// Global flag names.
const (
	flagIndexer     = "indexer"
	flagVerbose     = "verbose"
	flagRetries     = "retries"
	flagJSON        = "json"
	flagMetricsDump = "metrics-dump"
)

// AddGlobalFlags registers the flags shared by every command on root.
func AddGlobalFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.StringP(flagIndexer, "i", "", "Indexer name from config (default: default-indexer)")
	pf.BoolP(flagVerbose, "v", false, "Log requests and rate limiter waits to stderr")
	pf.Int(flagRetries, 0, "Retry rate limited, transport and 5xx failures this many times")
	pf.Bool(flagJSON, false, "Print results as JSON")
	pf.Bool(flagMetricsDump, false, "Print Prometheus metrics to stderr after the command")
}

// globals holds parsed global flag values.
type globals struct {
	indexer     string
	verbose     bool
	retries     int
	json        bool
	metricsDump bool
}

// readGlobals reads the global flags. Missing flags read as zero values so
// commands can run without AddGlobalFlags in tests.
func readGlobals(cmd *cobra.Command) globals {
	var g globals
	flags := cmd.Flags()
	g.indexer, _ = flags.GetString(flagIndexer)
	g.verbose, _ = flags.GetBool(flagVerbose)
	g.retries, _ = flags.GetInt(flagRetries)
	g.json, _ = flags.GetBool(flagJSON)
	g.metricsDump, _ = flags.GetBool(flagMetricsDump)
	return g
}

// target is the indexer a command talks to.
type target struct {
	name    string
	indexer config.Indexer
	cfg     config.Config
}

// resolveTarget loads config and selects the indexer named by --indexer.
// The API key is not required here.
func resolveTarget(env *Env, name string) (target, error) {
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return target{}, err
	}
	resolved, idx, err := cfg.Indexer(name)
	if err != nil {
		return target{}, fmt.Errorf("%w: %w", ErrIndexerNotConfigured, err)
	}
	if idx.URL == "" {
		return target{}, fmt.Errorf("%w: %q has no URL (set %s.%s or %s)",
			ErrIndexerNotConfigured, resolved, resolved, config.FieldURL, config.EnvURL)
	}
	return target{name: resolved, indexer: idx, cfg: cfg}, nil
}

// newLimiter builds the limiter for t, falling back to library defaults.
func (t target) newLimiter(logger *zap.Logger) (*ratelimit.Limiter, error) {
	requests, window := t.indexer.Requests, t.indexer.Window
	if requests <= 0 {
		requests = ratelimit.DefaultCapacity
	}
	if window <= 0 {
		window = ratelimit.DefaultWindow
	}
	return ratelimit.New(requests, window, ratelimit.WithLogger(logger))
}

// session is the per-invocation state shared by API commands.
type session struct {
	env      *Env
	target   target
	globals  globals
	client   gazelle.API
	limiter  *ratelimit.Limiter
	logger   *zap.Logger
	registry *prometheus.Registry
	retry    apierr.RetryConfig
}

// openSession resolves the indexer and builds its client.
// Callers must defer close.
func openSession(cmd *cobra.Command, env *Env) (*session, error) {
	g := readGlobals(cmd)
	t, err := resolveTarget(env, g.indexer)
	if err != nil {
		return nil, err
	}
	if t.indexer.Key == "" {
		return nil, fmt.Errorf("%w for %q (set %s.%s or %s)",
			ErrAPIKeyMissing, t.name, t.name, config.FieldKey, config.EnvAPIKey)
	}

	logger := newLogger(env.Stderr, g.verbose).With(zap.String("indexer", t.name))
	limiter, err := t.newLimiter(logger)
	if err != nil {
		return nil, fmt.Errorf("invalid rate for %q: %w", t.name, err)
	}
	registry := prometheus.NewRegistry()

	client, err := env.ClientFactory.NewClient(ClientSettings{
		BaseURL: t.indexer.URL,
		APIKey:  t.indexer.Key,
		Limiter: limiter,
		Logger:  logger,
		Metrics: gazelle.NewMetrics(registry),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexerNotConfigured, err)
	}

	s := &session{
		env:      env,
		target:   t,
		globals:  g,
		client:   client,
		limiter:  limiter,
		logger:   logger,
		registry: registry,
		retry:    apierr.DefaultRetryConfig(g.retries),
	}
	s.retry.OnRetry = func(attempt int, err error, delay time.Duration) {
		fmt.Fprintf(env.Stderr, "Retry %d/%d in %s: %v\n", attempt, g.retries, format.Duration(delay), err)
	}
	return s, nil
}

// close flushes logs and prints metrics when requested.
func (s *session) close() {
	if s.globals.metricsDump {
		if err := dumpMetrics(s.env.Stderr, s.registry); err != nil {
			fmt.Fprintf(s.env.Stderr, "Warning: metrics dump failed: %v\n", err)
		}
	}
	_ = s.logger.Sync()
}

// withRetry runs fn under the session retry policy.
func withRetry[T any](ctx context.Context, s *session, fn func(context.Context) (T, error)) (T, error) {
	return apierr.Retry(ctx, s.retry, func() (T, error) {
		return fn(ctx)
	})
}

// newLogger returns a console logger on w when verbose, a no-op logger otherwise.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}

// dumpMetrics writes the gathered metrics in the text exposition format.
func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// stdout returns env.Stdout, defaulting to os.Stdout.
func (e *Env) stdout() io.Writer {
	if e.Stdout == nil {
		return os.Stdout
	}
	return e.Stdout
}
