package handler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hotelops/hms-console/internal/api/view"
	"github.com/hotelops/hms-console/internal/api/workspace"
	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/core/forms"
	"github.com/hotelops/hms-console/internal/core/service"
)

// ResourceHandler serves the table page and the add/edit/delete forms of one
// resource. Every mutation redirects back to the table with a notice.
type ResourceHandler[T domain.Entity] struct {
	path     string // "rooms"
	label    string // "Room"
	title    string
	page     string
	pick     func(*workspace.Workspace) *service.Collection[T]
	decode   func(url.Values) (T, error)
	resource string // singular, lower case
}

func NewRoomsHandler() *ResourceHandler[domain.Room] {
	return &ResourceHandler[domain.Room]{
		path: "rooms", label: "Room", resource: "room", title: "Rooms", page: view.Rooms,
		pick:   func(ws *workspace.Workspace) *service.Collection[domain.Room] { return ws.Rooms },
		decode: forms.Room,
	}
}

func NewGuestsHandler() *ResourceHandler[domain.Guest] {
	return &ResourceHandler[domain.Guest]{
		path: "guests", label: "Guest", resource: "guest", title: "Guests", page: view.Guests,
		pick:   func(ws *workspace.Workspace) *service.Collection[domain.Guest] { return ws.Guests },
		decode: forms.Guest,
	}
}

// List refreshes the collection and renders the table. ?edit=<id> opens the
// edit form for that row.
func (h *ResourceHandler[T]) List(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	col := h.pick(ws)

	if _, err := col.Refresh(c.Request().Context()); err != nil && !errors.Is(err, domain.ErrSuperseded) {
		ws.Notices.Failure(err, fmt.Sprintf("Failed to fetch %s", h.path))
	}

	body := view.Listing[T]{Items: col.Items(), Loaded: col.Loaded()}
	if edit := c.QueryParam("edit"); edit != "" {
		if id, err := strconv.ParseInt(edit, 10, 64); err == nil {
			if e, ok := col.Find(id); ok {
				body.Editing = &e
			}
		}
	}
	return render(c, ws, h.page, h.title, body)
}

func (h *ResourceHandler[T]) Create(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	values, err := postForm(c)
	if err != nil {
		return err
	}
	values.Del("id")

	draft, err := h.decode(values)
	if err != nil {
		ws.Notices.Failure(err, fmt.Sprintf("Failed to add %s", h.resource))
		return h.back(c)
	}
	if _, err := h.pick(ws).Create(c.Request().Context(), draft); err != nil {
		ws.Notices.Failure(err, fmt.Sprintf("Failed to add %s", h.resource))
		return h.back(c)
	}
	ws.Notices.Success("Success", h.label+" added successfully")
	return h.back(c)
}

// Update overwrites the entity at /:id with the submitted fields.
func (h *ResourceHandler[T]) Update(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	values, err := postForm(c)
	if err != nil {
		return err
	}
	values.Set("id", strconv.FormatInt(id, 10))

	entity, err := h.decode(values)
	if err != nil {
		ws.Notices.Failure(err, fmt.Sprintf("Failed to update %s", h.resource))
		return h.back(c)
	}
	return h.save(c, ws, entity, h.label+" updated successfully")
}

func (h *ResourceHandler[T]) Delete(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.pick(ws).Remove(c.Request().Context(), id); err != nil {
		ws.Notices.Failure(err, fmt.Sprintf("Failed to delete %s", h.resource))
		return h.back(c)
	}
	ws.Notices.Success("Success", h.label+" deleted successfully")
	return h.back(c)
}

func (h *ResourceHandler[T]) save(c echo.Context, ws *workspace.Workspace, entity T, okMsg string) error {
	if err := h.pick(ws).Update(c.Request().Context(), entity); err != nil {
		ws.Notices.Failure(err, fmt.Sprintf("Failed to update %s", h.resource))
		return h.back(c)
	}
	ws.Notices.Success("Success", okMsg)
	return h.back(c)
}

// lookup finds id in the collection, refreshing once when the row is not
// known yet.
func (h *ResourceHandler[T]) lookup(ctx context.Context, col *service.Collection[T], id int64) (T, bool) {
	if e, ok := col.Find(id); ok {
		return e, true
	}
	if _, err := col.Refresh(ctx); err != nil {
		var zero T
		return zero, false
	}
	return col.Find(id)
}

func (h *ResourceHandler[T]) back(c echo.Context) error {
	return seeOther(c, "/"+h.path)
}
