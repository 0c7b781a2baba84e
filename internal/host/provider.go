package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/joeblew999/plat-crash/internal/panel"
)

// Provider is the host data provider: it pairs the crash source with
// the settings store and pushes fresh datasets into the panel on every
// load or settings change, the way a host application re-binds data
// when its configuration changes.
type Provider struct {
	source *CrashSource
	store  *SettingsStore
	panel  *panel.Panel

	mu      sync.Mutex
	current string
}

// NewProvider wires a provider to the panel it feeds.
func NewProvider(source *CrashSource, store *SettingsStore, p *panel.Panel) *Provider {
	return &Provider{source: source, store: store, panel: p}
}

// List returns the loadable crash data files.
func (p *Provider) List() ([]SourceFile, error) {
	if p.source == nil {
		return nil, fmt.Errorf("data source not available")
	}
	return p.source.List()
}

// Settings returns the current panel settings.
func (p *Provider) Settings() Settings {
	return p.store.Get()
}

// Load reads a source file and pushes the resulting dataset into the
// panel.
func (p *Provider) Load(ctx context.Context, filename string) error {
	if p.source == nil {
		return fmt.Errorf("data source not available")
	}
	view, err := p.source.LoadDataView(ctx, filename, p.store.Get())
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.current = filename
	p.mu.Unlock()

	p.panel.Update(view)
	return nil
}

// UpdateSettings persists new settings and, when a dataset is loaded,
// re-binds it under the new metric so the panel gets a fresh update.
func (p *Provider) UpdateSettings(ctx context.Context, settings Settings) error {
	if err := p.store.Put(settings); err != nil {
		return err
	}

	p.mu.Lock()
	current := p.current
	p.mu.Unlock()

	if current == "" {
		return nil
	}
	return p.Load(ctx, current)
}
