package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/hotelops/hms-console/internal/api/view"
	"github.com/hotelops/hms-console/internal/api/workspace"
	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/core/forms"
	"github.com/hotelops/hms-console/internal/core/service"
)

// UsersHandler is the users table plus the role toggle.
type UsersHandler struct {
	*ResourceHandler[domain.User]
}

func NewUsersHandler() *UsersHandler {
	return &UsersHandler{&ResourceHandler[domain.User]{
		path: "users", label: "User", resource: "user", title: "Users", page: view.Users,
		pick:   func(ws *workspace.Workspace) *service.Collection[domain.User] { return ws.Users },
		decode: forms.User,
	}}
}

// ToggleRole flips the user at /:id between admin and user with a full PUT.
func (h *UsersHandler) ToggleRole(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, ok := h.lookup(c.Request().Context(), ws.Users, id)
	if !ok {
		ws.Notices.Failure(domain.ErrNotFound, "User not found")
		return h.back(c)
	}
	user.Role = user.ToggledRole()
	user.Password = ""
	return h.save(c, ws, user, fmt.Sprintf("%s is now %s", user.Username, user.Role))
}
