package tenant

import (
	"fmt"
	"sync"
	"testing"

	"brewtab/models"
)

// fakeConfigSubscriber delivers the configured restaurant synchronously on
// subscribe and counts releases per slug.
type fakeConfigSubscriber struct {
	mu       sync.Mutex
	configs  map[string]*models.Restaurant
	active   int
	released map[string]int
	updaters map[string]func(*models.Restaurant)
}

func newFakeConfigSubscriber() *fakeConfigSubscriber {
	return &fakeConfigSubscriber{
		configs:  make(map[string]*models.Restaurant),
		released: make(map[string]int),
		updaters: make(map[string]func(*models.Restaurant)),
	}
}

func (f *fakeConfigSubscriber) SubscribeToConfig(slug string, onUpdate func(*models.Restaurant), onError func(error)) (func(), error) {
	f.mu.Lock()
	f.active++
	f.updaters[slug] = onUpdate
	config := f.configs[slug]
	f.mu.Unlock()

	if config != nil {
		onUpdate(config)
	} else {
		onError(fmt.Errorf("restaurant %q not found", slug))
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.active--
			f.released[slug]++
			f.mu.Unlock()
		})
	}, nil
}

func (f *fakeConfigSubscriber) push(slug string, config *models.Restaurant) {
	f.mu.Lock()
	onUpdate := f.updaters[slug]
	f.mu.Unlock()
	onUpdate(config)
}

func joesCoffee() *models.Restaurant {
	return &models.Restaurant{
		Restaurant_id: "joes-coffee-id",
		Name:          "Joe's Coffee",
		Slug:          "joes-coffee",
		Subscription:  "barista",
		Theme: models.Theme{
			Primary_color: "#6f4e37",
			Accent_color:  "#d2b48c",
		},
	}
}

func TestEmptySlugSettlesWithoutSubscribing(t *testing.T) {
	configs := newFakeConfigSubscriber()
	provider := NewProvider(configs, NewStyleVars())
	defer provider.Close()

	provider.SetSlug("")

	snap := provider.Snapshot()
	if snap.Config != nil || snap.IsLoading {
		t.Errorf("expected settled empty state, got %+v", snap)
	}
	if configs.active != 0 {
		t.Errorf("expected no subscription for empty slug, got %d", configs.active)
	}
}

func TestUnknownSlugSettlesToNilConfig(t *testing.T) {
	configs := newFakeConfigSubscriber()
	provider := NewProvider(configs, NewStyleVars())
	defer provider.Close()

	provider.SetSlug("nobody-here")

	snap := provider.Snapshot()
	if snap.Config != nil {
		t.Error("expected nil config for unknown slug")
	}
	if snap.IsLoading {
		t.Error("expected isLoading false after a failed lookup")
	}
	if snap.RestaurantID != "" {
		t.Errorf("expected empty restaurant id, got %q", snap.RestaurantID)
	}
}

func TestLoadsConfigAndAppliesTheme(t *testing.T) {
	configs := newFakeConfigSubscriber()
	configs.configs["joes-coffee"] = joesCoffee()
	styles := NewStyleVars()
	provider := NewProvider(configs, styles)
	defer provider.Close()

	provider.SetSlug("joes-coffee")

	snap := provider.Snapshot()
	if snap.Config == nil {
		t.Fatal("expected config to load")
	}
	if snap.IsLoading {
		t.Error("expected isLoading false once loaded")
	}
	if snap.RestaurantID != "joes-coffee-id" {
		t.Errorf("expected restaurant id joes-coffee-id, got %q", snap.RestaurantID)
	}
	if got := styles.Get(SlotPrimary); got != "#6f4e37" {
		t.Errorf("expected primary slot #6f4e37, got %q", got)
	}
	if got := styles.Get(SlotAccent); got != "#d2b48c" {
		t.Errorf("expected accent slot #d2b48c, got %q", got)
	}
}

func TestConfigUpdatePropagates(t *testing.T) {
	configs := newFakeConfigSubscriber()
	configs.configs["joes-coffee"] = joesCoffee()
	styles := NewStyleVars()
	provider := NewProvider(configs, styles)
	defer provider.Close()

	provider.SetSlug("joes-coffee")

	updated := joesCoffee()
	updated.Theme.Primary_color = "#222222"
	configs.push("joes-coffee", updated)

	if got := provider.Snapshot().Config.Theme.Primary_color; got != "#222222" {
		t.Errorf("expected updated primary color, got %q", got)
	}
	if got := styles.Get(SlotPrimary); got != "#222222" {
		t.Errorf("expected theme re-applied on update, got %q", got)
	}
}

func TestSlugChangeClosesPriorSubscription(t *testing.T) {
	configs := newFakeConfigSubscriber()
	configs.configs["joes-coffee"] = joesCoffee()
	configs.configs["marias-cafe"] = &models.Restaurant{
		Restaurant_id: "marias-cafe-id",
		Name:          "Maria's Cafe",
		Slug:          "marias-cafe",
		Subscription:  "free",
	}
	provider := NewProvider(configs, NewStyleVars())
	defer provider.Close()

	provider.SetSlug("joes-coffee")
	provider.SetSlug("marias-cafe")

	if got := configs.released["joes-coffee"]; got != 1 {
		t.Errorf("expected prior subscription released exactly once, got %d", got)
	}
	if configs.active != 1 {
		t.Errorf("expected exactly one live subscription, got %d", configs.active)
	}
	if got := provider.Snapshot().RestaurantID; got != "marias-cafe-id" {
		t.Errorf("expected new tenant id, got %q", got)
	}
}

func TestCloseReleasesExactlyOnce(t *testing.T) {
	configs := newFakeConfigSubscriber()
	configs.configs["joes-coffee"] = joesCoffee()
	provider := NewProvider(configs, NewStyleVars())

	provider.SetSlug("joes-coffee")
	provider.Close()
	provider.Close()

	if got := configs.released["joes-coffee"]; got != 1 {
		t.Errorf("expected a single release, got %d", got)
	}
	if configs.active != 0 {
		t.Errorf("expected no live subscriptions after close, got %d", configs.active)
	}
}

func TestOnChangeNotifies(t *testing.T) {
	configs := newFakeConfigSubscriber()
	configs.configs["joes-coffee"] = joesCoffee()
	provider := NewProvider(configs, NewStyleVars())
	defer provider.Close()

	var snapshots []Snapshot
	provider.OnChange = func(snap Snapshot) {
		snapshots = append(snapshots, snap)
	}
	provider.SetSlug("joes-coffee")

	if len(snapshots) == 0 {
		t.Fatal("expected OnChange to fire")
	}
	last := snapshots[len(snapshots)-1]
	if last.RestaurantID != "joes-coffee-id" || last.IsLoading {
		t.Errorf("unexpected final snapshot %+v", last)
	}
}
