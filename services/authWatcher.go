package services

import (
	"context"
	"log/slog"
	"sync"

	"brewtab/models"
)

type AuthState struct {
	User      *models.User
	AdminUser *models.User
	IsLoading bool
}

type AuthStream interface {
	Subscribe(onChange func(*models.User)) func()
}

type Authorizer interface {
	SignInAnonymously(ctx context.Context) (*models.User, string, error)
	CheckAdminAuthorization(ctx context.Context, user *models.User, slug string) (bool, error)
}

// AuthWatcher tracks the session stream for one client context. With a
// restaurant slug present (customer pages) it bootstraps an anonymous
// session whenever the stream reports signed-out; without one (dashboard)
// it settles signed-out. Non-anonymous identities additionally get an admin
// authorization lookup against the slug.
//
// It holds exactly one stream subscription at a time: SetSlug replaces it,
// Close releases it.
type AuthWatcher struct {
	stream AuthStream
	auth   Authorizer

	mu      sync.Mutex
	gen     int
	slug    string
	state   AuthState
	release func()
}

func NewAuthWatcher(stream AuthStream, auth Authorizer, slug string) *AuthWatcher {
	w := &AuthWatcher{
		stream: stream,
		auth:   auth,
		state:  AuthState{IsLoading: true},
	}
	w.SetSlug(slug)
	return w
}

// SetSlug switches the watcher to a new restaurant context, releasing the
// previous stream subscription before opening the next.
func (w *AuthWatcher) SetSlug(slug string) {
	w.mu.Lock()
	w.gen++
	gen := w.gen
	old := w.release
	w.release = nil
	w.slug = slug
	w.mu.Unlock()

	if old != nil {
		old()
	}

	release := w.stream.Subscribe(func(user *models.User) {
		w.handle(gen, user)
	})

	w.mu.Lock()
	if gen == w.gen {
		w.release = release
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	release()
}

func (w *AuthWatcher) State() AuthState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *AuthWatcher) Close() {
	w.mu.Lock()
	w.gen++
	release := w.release
	w.release = nil
	w.mu.Unlock()
	if release != nil {
		release()
	}
}

func (w *AuthWatcher) handle(gen int, user *models.User) {
	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		return
	}
	slug := w.slug

	if user == nil {
		w.state.IsLoading = false
		if slug == "" {
			w.state.User = nil
			w.state.AdminUser = nil
			w.mu.Unlock()
			return
		}
		w.mu.Unlock()
		// Fire and forget: the sign-in publishes a new session event,
		// which re-enters this handler with the anonymous identity.
		go func() {
			if _, _, err := w.auth.SignInAnonymously(context.Background()); err != nil {
				slog.Warn("anonymous sign-in failed", "error", err)
			}
		}()
		return
	}

	if user.Is_anonymous {
		w.state.User = user
		w.state.AdminUser = nil
		w.state.IsLoading = false
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	authorized, err := w.auth.CheckAdminAuthorization(context.Background(), user, slug)
	if err != nil {
		slog.Warn("admin authorization lookup failed", "slug", slug, "error", err)
		authorized = false
	}

	w.mu.Lock()
	if gen == w.gen {
		w.state.User = user
		if authorized {
			w.state.AdminUser = user
		} else {
			w.state.AdminUser = nil
		}
		w.state.IsLoading = false
	}
	w.mu.Unlock()
}
