package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hotelops/hms-console/internal/core/domain"
)

func TestResourceHandler_CreateInvalidForm(t *testing.T) {
	ws, srv := newWorkspace(t)
	c, rec := formContext(ws, "/rooms", url.Values{"number": {"101"}, "type": {"Deluxe"}, "price": {"abc"}})

	if err := NewRoomsHandler().Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get("Location") != "/rooms" {
		t.Fatalf("expected redirect to /rooms, got %q", rec.Header().Get("Location"))
	}
	notices := ws.Notices.Drain()
	if len(notices) != 1 || notices[0].Message != "price must be a number" {
		t.Fatalf("unexpected notices %+v", notices)
	}
	if n := srv.Requests(http.MethodGet, "/rooms"); n != 0 {
		t.Fatalf("invalid form must not reach the API")
	}
}

func TestResourceHandler_UpdateUsesPathID(t *testing.T) {
	ws, srv := newWorkspace(t)
	if err := ws.Auth.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	room := srv.SeedRoom(domain.Room{Number: "101", Type: "Deluxe", Price: 120})

	c, _ := formContext(ws, "/rooms/x", url.Values{"id": {"999"}, "number": {"101"}, "type": {"Suite"}, "price": {"200"}})
	c.SetParamNames("id")
	c.SetParamValues("2")
	if err := NewRoomsHandler().Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	notices := ws.Notices.Drain()
	if len(notices) != 1 || notices[0].Message != "Room updated successfully" {
		t.Fatalf("unexpected notices %+v", notices)
	}
	rooms, err := ws.Rooms.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != room.ID || rooms[0].Type != "Suite" {
		t.Fatalf("unexpected rooms %+v", rooms)
	}
}

func TestResourceHandler_BadPathID(t *testing.T) {
	ws, _ := newWorkspace(t)
	c, _ := formContext(ws, "/guests/abc/delete", nil)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := NewGuestsHandler().Delete(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestUsersHandler_ToggleRoleUnknownUser(t *testing.T) {
	ws, _ := newWorkspace(t)
	if err := ws.Auth.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	c, rec := formContext(ws, "/users/42/role", nil)
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := NewUsersHandler().ToggleRole(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get("Location") != "/users" {
		t.Fatalf("expected redirect to /users, got %q", rec.Header().Get("Location"))
	}
	notices := ws.Notices.Drain()
	if len(notices) != 1 || notices[0].Message != "User not found" {
		t.Fatalf("unexpected notices %+v", notices)
	}
}

func TestResourceHandler_CreateIgnoresCSRFField(t *testing.T) {
	ws, srv := newWorkspace(t)
	if err := ws.Auth.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	c, _ := formContext(ws, "/rooms", url.Values{
		"_csrf": {"tok123"}, "number": {"102"}, "type": {"Single"}, "price": {"80"},
	})

	if err := NewRoomsHandler().Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	notices := ws.Notices.Drain()
	if len(notices) != 1 || notices[0].Message != "Room added successfully" {
		t.Fatalf("unexpected notices %+v", notices)
	}
	if n := srv.Requests(http.MethodPost, "/rooms"); n != 1 {
		t.Fatalf("expected one create, got %d", n)
	}
}
