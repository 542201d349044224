// Package tenant derives the current restaurant context from a URL slug
// and keeps it in sync with the configuration store.
package tenant

import (
	"log/slog"
	"sync"

	"brewtab/models"
)

type ConfigSubscriber interface {
	SubscribeToConfig(slug string, onUpdate func(*models.Restaurant), onError func(error)) (func(), error)
}

// ThemeSink receives the tenant's theme colors as they load. Passing it in
// explicitly keeps presentation state out of package globals.
type ThemeSink interface {
	SetPrimary(color string)
	SetAccent(color string)
}

type Snapshot struct {
	Config       *models.Restaurant
	IsLoading    bool
	RestaurantID string
}

// Provider resolves a slug to that restaurant's live configuration. It
// holds at most one config subscription at a time: SetSlug closes the
// previous one before opening the next, Close releases the last. A failed
// lookup is terminal for that slug; there is no retry.
type Provider struct {
	configs ConfigSubscriber
	sink    ThemeSink

	// OnChange, when set before the first SetSlug, is invoked after every
	// state transition with the new snapshot.
	OnChange func(Snapshot)

	mu        sync.Mutex
	gen       int
	config    *models.Restaurant
	isLoading bool
	release   func()
}

func NewProvider(configs ConfigSubscriber, sink ThemeSink) *Provider {
	return &Provider{configs: configs, sink: sink, isLoading: true}
}

// SetSlug points the provider at a new slug. An empty slug settles the
// provider to no config without subscribing.
func (p *Provider) SetSlug(slug string) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	old := p.release
	p.release = nil

	if slug == "" {
		p.config = nil
		p.isLoading = false
		p.mu.Unlock()
		if old != nil {
			old()
		}
		p.notify()
		return
	}

	p.isLoading = true
	p.mu.Unlock()

	if old != nil {
		old()
	}

	release, err := p.configs.SubscribeToConfig(slug,
		func(config *models.Restaurant) { p.onConfig(gen, config) },
		func(err error) { p.onError(gen, slug, err) },
	)
	if err != nil {
		slog.Warn("config subscription failed", "slug", slug, "error", err)
		p.mu.Lock()
		if gen == p.gen {
			p.config = nil
			p.isLoading = false
		}
		p.mu.Unlock()
		p.notify()
		return
	}

	p.mu.Lock()
	if gen == p.gen {
		p.release = release
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	// A newer SetSlug or Close raced us; this subscription is stale.
	release()
}

func (p *Provider) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Close releases the live subscription. Safe to call more than once.
func (p *Provider) Close() {
	p.mu.Lock()
	p.gen++
	release := p.release
	p.release = nil
	p.mu.Unlock()
	if release != nil {
		release()
	}
}

func (p *Provider) onConfig(gen int, config *models.Restaurant) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.config = config
	p.isLoading = false
	p.mu.Unlock()

	if config != nil && p.sink != nil {
		if config.Theme.Primary_color != "" {
			p.sink.SetPrimary(config.Theme.Primary_color)
		}
		if config.Theme.Accent_color != "" {
			p.sink.SetAccent(config.Theme.Accent_color)
		}
	}
	p.notify()
}

func (p *Provider) onError(gen int, slug string, err error) {
	slog.Warn("restaurant config unavailable", "slug", slug, "error", err)
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.config = nil
	p.isLoading = false
	p.mu.Unlock()
	p.notify()
}

func (p *Provider) snapshotLocked() Snapshot {
	snap := Snapshot{Config: p.config, IsLoading: p.isLoading}
	if p.config != nil {
		snap.RestaurantID = p.config.Restaurant_id
	}
	return snap
}

func (p *Provider) notify() {
	if p.OnChange == nil {
		return
	}
	p.mu.Lock()
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.OnChange(snap)
}
