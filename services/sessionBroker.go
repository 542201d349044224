package services

import (
	"sync"

	"brewtab/models"
)

// SessionBroker is the in-process auth-state stream: sign-ins and sign-outs
// are published to it, and every subscriber sees the current identity
// immediately on subscribe, then every later transition. A nil user means
// signed out.
type SessionBroker struct {
	mu          sync.Mutex
	subscribers map[int]func(*models.User)
	nextID      int
	current     *models.User
}

func NewSessionBroker() *SessionBroker {
	return &SessionBroker{subscribers: make(map[int]func(*models.User))}
}

// Subscribe registers onChange and replays the current state to it before
// returning. The release func is idempotent.
func (b *SessionBroker) Subscribe(onChange func(*models.User)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = onChange
	current := b.current
	b.mu.Unlock()

	onChange(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, id)
			b.mu.Unlock()
		})
	}
}

func (b *SessionBroker) Publish(user *models.User) {
	b.mu.Lock()
	b.current = user
	notify := make([]func(*models.User), 0, len(b.subscribers))
	for _, onChange := range b.subscribers {
		notify = append(notify, onChange)
	}
	b.mu.Unlock()

	for _, onChange := range notify {
		onChange(user)
	}
}

func (b *SessionBroker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
