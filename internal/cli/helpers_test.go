package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/RogueOneEcho/gazelle-api/internal/config"
	"github.com/RogueOneEcho/gazelle-api/internal/interrupt"
	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testIndexers is the config used by most command tests.
func testIndexers() config.Config {
	return config.Config{
		DefaultIndexer: "ops",
		Indexers: map[string]config.Indexer{
			"ops": {URL: "https://orpheus.network", Key: "ops-key-1234"},
			"red": {URL: "https://redacted.sh", Key: "red-key-5678", Requests: 10, Window: 10 * time.Second},
		},
	}
}

// testHarness groups an Env with its captured output and mocks.
type testHarness struct {
	env     *Env
	stdout  *syncBuffer
	stderr  *syncBuffer
	loader  *mockConfigLoader
	factory *mockClientFactory
}

// newHarness returns an Env that loads cfg and hands out api.
// A nil api means gazelletest.NewDefault().
func newHarness(cfg config.Config, api gazelle.API) *testHarness {
	h := &testHarness{
		stdout:  &syncBuffer{},
		stderr:  &syncBuffer{},
		loader:  &mockConfigLoader{LoadFunc: func() (config.Config, error) { return cfg, nil }},
		factory: &mockClientFactory{Client: api},
	}
	h.env = &Env{
		Stdout:        h.stdout,
		Stderr:        h.stderr,
		Getenv:        staticEnv(nil),
		ConfigLoader:  h.loader,
		ClientFactory: h.factory,
		Interrupts:    quietInterrupts,
	}
	return h
}

// run executes cmd under a root carrying the global flags.
func (h *testHarness) run(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	root := &cobra.Command{Use: "gazelle", SilenceErrors: true, SilenceUsage: true}
	AddGlobalFlags(root)
	root.AddCommand(cmd)
	root.SetArgs(append([]string{cmd.Name()}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

// quietInterrupts installs a handler that never receives signals.
func quietInterrupts(parent context.Context) (*interrupt.Handler, context.Context) {
	return interrupt.NewHandlerWithOptions(parent, interrupt.Options{Stderr: io.Discard})
}

// signalInterrupts returns an Interrupts func driven by sigCh. The created
// handler is published on handlers.
func signalInterrupts(sigCh chan os.Signal, handlers chan<- *interrupt.Handler) func(context.Context) (*interrupt.Handler, context.Context) {
	return func(parent context.Context) (*interrupt.Handler, context.Context) {
		h, ctx := interrupt.NewHandlerWithOptions(parent, interrupt.Options{
			SigCh:  sigCh,
			Stderr: io.Discard,
		})
		handlers <- h
		return h, ctx
	}
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// createTorrentFile creates a temporary .torrent file for upload tests.
func createTorrentFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("d8:announce0:e"), 0644); err != nil {
		t.Fatalf("failed to create test torrent: %v", err)
	}
	return path
}
