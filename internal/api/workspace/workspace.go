// Package workspace keeps the per-browser state of the web console: the auth
// service bound to that browser's session scope, the resource collections it
// has loaded and its pending notices.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/core/ports"
	"github.com/hotelops/hms-console/internal/core/service"
	"github.com/hotelops/hms-console/internal/infrastructure/apiclient"
	"github.com/hotelops/hms-console/internal/infrastructure/session"
	"github.com/hotelops/hms-console/internal/metrics"
)

type Workspace struct {
	ID      string
	Auth    ports.AuthService
	Rooms   *service.Collection[domain.Room]
	Guests  *service.Collection[domain.Guest]
	Users   *service.Collection[domain.User]
	Notices *service.Notices

	mu       sync.Mutex
	redirect string
	lastSeen time.Time
}

// TakeRedirect returns the route the auth service last navigated to, or def,
// and forgets it.
func (w *Workspace) TakeRedirect(def string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	route := w.redirect
	w.redirect = ""
	if route == "" {
		return def
	}
	return route
}

func (w *Workspace) navigate(route string) {
	w.mu.Lock()
	w.redirect = route
	w.mu.Unlock()
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}

// Registry hands out one Workspace per browser id. Workspaces idle for longer
// than the idle limit are dropped; their session survives in the backend and is
// restored when the browser comes back.
type Registry struct {
	backend ports.SessionBackend
	api     *apiclient.Client
	idle    time.Duration
	log     zerolog.Logger
	now     func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewRegistry builds workspaces over backend and the unauthenticated client
// api. idle <= 0 keeps workspaces forever.
func NewRegistry(backend ports.SessionBackend, api *apiclient.Client, idle time.Duration, log zerolog.Logger) *Registry {
	return &Registry{
		backend:    backend,
		api:        api,
		idle:       idle,
		log:        log,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Open returns the workspace for id, creating it on first use. The auth state
// is recomputed from the session store on every call.
func (r *Registry) Open(ctx context.Context, id string) *Workspace {
	now := r.now()

	r.mu.Lock()
	r.sweep(now)
	ws, ok := r.workspaces[id]
	if !ok {
		ws = r.build(id)
		r.workspaces[id] = ws
		metrics.ConsoleWorkspaces.Set(float64(len(r.workspaces)))
	}
	r.mu.Unlock()

	ws.touch(now)
	ws.Auth.Restore(ctx)
	return ws
}

// Len reports how many workspaces are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

func (r *Registry) build(id string) *Workspace {
	log := r.log.With().Str("workspace", id).Logger()
	store := session.NewStore(r.backend, id)
	authed := r.api.Authenticated(store)

	ws := &Workspace{ID: id, Notices: &service.Notices{}}
	ws.Auth = service.NewAuthService(apiclient.NewAuthAPI(r.api), store, ports.NavigatorFunc(ws.navigate), log)
	ws.Rooms = service.NewCollection[domain.Room]("rooms",
		service.NewRoomService(apiclient.NewResource[domain.Room](authed, apiclient.Rooms), log), log)
	ws.Guests = service.NewCollection[domain.Guest]("guests",
		apiclient.NewResource[domain.Guest](authed, apiclient.Guests), log)
	ws.Users = service.NewCollection[domain.User]("users",
		apiclient.NewResource[domain.User](authed, apiclient.Users), log)
	return ws
}

// Rotate retires the workspace under oldID and returns a fresh, logged-out
// one under a new id. Whatever session oldID held is cleared; pending notices
// carry over.
func (r *Registry) Rotate(ctx context.Context, oldID string) (*Workspace, error) {
	if err := session.NewStore(r.backend, oldID).Clear(ctx); err != nil {
		return nil, fmt.Errorf("rotate workspace: %w", err)
	}
	now := r.now()
	id := ulid.Make().String()

	r.mu.Lock()
	ws := r.build(id)
	if old, ok := r.workspaces[oldID]; ok {
		old.Rooms.Cancel()
		old.Guests.Cancel()
		old.Users.Cancel()
		ws.Notices = old.Notices
		delete(r.workspaces, oldID)
	}
	r.workspaces[id] = ws
	metrics.ConsoleWorkspaces.Set(float64(len(r.workspaces)))
	r.mu.Unlock()

	ws.touch(now)
	ws.Auth.Restore(ctx)
	r.log.Debug().Str("workspace", oldID).Str("rotated_to", id).Msg("workspace rotated")
	return ws, nil
}

// sweep must be called with mu held.
func (r *Registry) sweep(now time.Time) {
	if r.idle <= 0 {
		return
	}
	for id, ws := range r.workspaces {
		if ws.idleSince(now) > r.idle {
			ws.Rooms.Cancel()
			ws.Guests.Cancel()
			ws.Users.Cancel()
			delete(r.workspaces, id)
			r.log.Debug().Str("workspace", id).Msg("idle workspace dropped")
		}
	}
	metrics.ConsoleWorkspaces.Set(float64(len(r.workspaces)))
}

// ContextKey is where the console middleware stores the request's workspace.
const ContextKey = "workspace"

const rotateKey = "workspace.rotate"

// ErrNoRotation is returned by Rotate when c carries no rotation hook.
var ErrNoRotation = errors.New("workspace: request cannot rotate its workspace")

// RotateFunc replaces the request's workspace and re-points the browser at it.
type RotateFunc func(ctx context.Context) (*Workspace, error)

// Bind attaches ws and the hook that rotates it to c.
func Bind(c echo.Context, ws *Workspace, rotate RotateFunc) {
	c.Set(ContextKey, ws)
	c.Set(rotateKey, rotate)
}

// From returns the workspace attached to c, or nil outside the console routes.
func From(c echo.Context) *Workspace {
	ws, _ := c.Get(ContextKey).(*Workspace)
	return ws
}

// Rotate swaps the workspace of c for a fresh one under a new id. Callers use
// it before an auth transition so an id known before login never becomes an
// authenticated one.
func Rotate(c echo.Context) (*Workspace, error) {
	rotate, ok := c.Get(rotateKey).(RotateFunc)
	if !ok || rotate == nil {
		return nil, ErrNoRotation
	}
	ws, err := rotate(c.Request().Context())
	if err != nil {
		return nil, err
	}
	c.Set(ContextKey, ws)
	return ws, nil
}
