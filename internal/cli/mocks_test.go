package cli

import (
	"context"
	"sync"

	"github.com/RogueOneEcho/gazelle-api/internal/config"
	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle/gazelletest"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock ClientFactory
// ---------------------------------------------------------------------------

type mockClientFactory struct {
	// Client is returned by NewClient. Defaults to gazelletest.NewDefault().
	Client gazelle.API
	Err    error

	mu       sync.Mutex
	settings []ClientSettings
}

func (m *mockClientFactory) NewClient(s ClientSettings) (gazelle.API, error) {
	m.mu.Lock()
	m.settings = append(m.settings, s)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Client == nil {
		return gazelletest.NewDefault(), nil
	}
	return m.Client, nil
}

func (m *mockClientFactory) Settings() []ClientSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ClientSettings(nil), m.settings...)
}

// ---------------------------------------------------------------------------
// hookedAPI - runs a hook before delegating downloads
// ---------------------------------------------------------------------------

// hookedAPI wraps an API so tests can act while a download is in flight.
type hookedAPI struct {
	gazelle.API
	beforeDownload func(ctx context.Context, id int) error
}

func (h *hookedAPI) DownloadTorrent(ctx context.Context, id int) ([]byte, error) {
	if h.beforeDownload != nil {
		if err := h.beforeDownload(ctx, id); err != nil {
			return nil, err
		}
	}
	return h.API.DownloadTorrent(ctx, id)
}

// Compile-time interface verification.
var (
	_ ConfigLoader  = (*mockConfigLoader)(nil)
	_ ClientFactory = (*mockClientFactory)(nil)
	_ gazelle.API   = (*hookedAPI)(nil)
)
