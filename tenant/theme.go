package tenant

import "sync"

// The two style slots the web client reads, mirroring its CSS custom
// properties.
const (
	SlotPrimary = "--color-primary"
	SlotAccent  = "--color-accent"
)

// StyleVars is a concurrency-safe ThemeSink holding the current theme
// values by slot.
type StyleVars struct {
	mu   sync.Mutex
	vars map[string]string
}

func NewStyleVars() *StyleVars {
	return &StyleVars{vars: make(map[string]string)}
}

func (s *StyleVars) SetPrimary(color string) { s.set(SlotPrimary, color) }

func (s *StyleVars) SetAccent(color string) { s.set(SlotAccent, color) }

func (s *StyleVars) Get(slot string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vars[slot]
}

// All returns a copy of the current slot values.
func (s *StyleVars) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make(map[string]string, len(s.vars))
	for slot, value := range s.vars {
		all[slot] = value
	}
	return all
}

func (s *StyleVars) set(slot, value string) {
	s.mu.Lock()
	s.vars[slot] = value
	s.mu.Unlock()
}
