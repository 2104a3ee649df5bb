package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hotelops/hms-console/internal/core/domain"
)

// Kind names one REST collection: its path segment and the singular noun used
// in operator-facing messages.
type Kind struct {
	Path     string
	Singular string
}

var (
	Rooms  = Kind{Path: "rooms", Singular: "room"}
	Guests = Kind{Path: "guests", Singular: "guest"}
	Users  = Kind{Path: "users", Singular: "user"}
)

// Resource is the authenticated CRUD client of one collection.
type Resource[T domain.Entity] struct {
	c    *Client
	kind Kind
}

// NewResource binds kind to c. c should carry a token source.
func NewResource[T domain.Entity](c *Client, kind Kind) *Resource[T] {
	return &Resource[T]{c: c, kind: kind}
}

// List fetches the whole collection.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.c.Do(ctx, http.MethodGet, "/"+r.kind.Path, nil, &items); err != nil {
		return nil, r.fail("list", err, false, "Failed to fetch %s", r.kind.Path)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Create posts draft and returns the server-assigned entity.
func (r *Resource[T]) Create(ctx context.Context, draft T) (T, error) {
	var created T
	if err := r.c.Do(ctx, http.MethodPost, "/"+r.kind.Path, draft, &created); err != nil {
		var zero T
		return zero, r.fail("create", err, true, "Failed to add %s", r.kind.Singular)
	}
	return created, nil
}

// Update replaces the entity with entity's id.
func (r *Resource[T]) Update(ctx context.Context, entity T) error {
	id := entity.EntityID()
	if id == 0 {
		return domain.Invalid("id", domain.ErrMissingID)
	}
	if err := r.c.Do(ctx, http.MethodPut, r.itemPath(id), entity, nil); err != nil {
		return r.fail("update", err, true, "Failed to update %s", r.kind.Singular)
	}
	return nil
}

// Remove deletes by id.
func (r *Resource[T]) Remove(ctx context.Context, id int64) error {
	if err := r.c.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil); err != nil {
		return r.fail("remove", err, false, "Failed to delete %s", r.kind.Singular)
	}
	return nil
}

func (r *Resource[T]) itemPath(id int64) string {
	return fmt.Sprintf("/%s/%d", r.kind.Path, id)
}

// fail builds the FetchError for op. Create and update surface the server's
// message when it sent one; list and remove always use the generic text.
func (r *Resource[T]) fail(op string, err error, useServerText bool, format string, args ...any) error {
	fe := &domain.FetchError{
		Resource: r.kind.Path,
		Op:       op,
		Message:  fmt.Sprintf(format, args...),
		Err:      err,
	}
	var se *statusError
	if errors.As(err, &se) {
		fe.Status = se.Status
		if useServerText && se.Message != "" {
			fe.Message = se.Message
		}
	}
	return fe
}
