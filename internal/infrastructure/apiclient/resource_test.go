package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hotelops/hms-console/internal/apitest"
	"github.com/hotelops/hms-console/internal/core/domain"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

func roomsClient(t *testing.T, srv *apitest.Server) *Resource[domain.Room] {
	t.Helper()
	c := newTestClient(t, srv.URL).Authenticated(staticToken(srv.Token("alice")))
	return NewResource[domain.Room](c, Rooms)
}

func TestResource_CreateThenList(t *testing.T) {
	srv := apitest.New(t)
	rooms := roomsClient(t, srv)
	ctx := context.Background()

	created, err := rooms.Create(ctx, domain.Room{Number: "101", Type: "Deluxe", Price: 120})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected server-assigned id")
	}

	list, err := rooms.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	matches := 0
	for _, r := range list {
		if r == created {
			matches++
		}
	}
	if matches != 1 {
		t.Fatalf("expected exactly one %+v in %+v", created, list)
	}
}

func TestResource_UpdateThenList(t *testing.T) {
	srv := apitest.New(t)
	a := srv.SeedRoom(domain.Room{Number: "101", Type: "Deluxe", Price: 120})
	b := srv.SeedRoom(domain.Room{Number: "102", Type: "Single", Price: 80})
	rooms := roomsClient(t, srv)
	ctx := context.Background()

	updated := domain.Room{ID: a.ID, Number: "101", Type: "Suite", Price: 200}
	if err := rooms.Update(ctx, updated); err != nil {
		t.Fatalf("Update: %v", err)
	}
	list, err := rooms.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0] != updated || list[1] != b {
		t.Fatalf("unexpected list after update: %+v", list)
	}
}

func TestResource_RemoveTwice(t *testing.T) {
	srv := apitest.New(t)
	a := srv.SeedRoom(domain.Room{Number: "101", Type: "Deluxe", Price: 120})
	b := srv.SeedRoom(domain.Room{Number: "102", Type: "Single", Price: 80})
	rooms := roomsClient(t, srv)
	ctx := context.Background()

	if err := rooms.Remove(ctx, a.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	list, _ := rooms.List(ctx)
	if len(list) != 1 || list[0] != b {
		t.Fatalf("unexpected list after remove: %+v", list)
	}

	err := rooms.Remove(ctx, a.ID)
	var fe *domain.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("second remove: expected FetchError, got %v", err)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected 404, got status %d", fe.Status)
	}
	if fe.Message != "Failed to delete room" {
		t.Fatalf("unexpected message %q", fe.Message)
	}
	if again, _ := rooms.List(ctx); len(again) != 1 || again[0] != b {
		t.Fatalf("collection changed by failed remove: %+v", again)
	}
}

func TestResource_GuestCreateThenList(t *testing.T) {
	srv := apitest.New(t)
	c := newTestClient(t, srv.URL).Authenticated(staticToken(srv.Token("alice")))
	guests := NewResource[domain.Guest](c, Guests)
	ctx := context.Background()

	draft := domain.Guest{Name: "Bob", RoomNumber: "101", CheckInDate: "2024-01-01", CheckOutDate: "2024-01-05"}
	created, err := guests.Create(ctx, draft)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	draft.ID = created.ID
	if created != draft {
		t.Fatalf("created %+v, want %+v", created, draft)
	}

	// list rows come back snake_case
	list, err := guests.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0] != draft {
		t.Fatalf("unexpected guests %+v", list)
	}
}

func TestResource_CreateSurfacesServerError(t *testing.T) {
	srv := apitest.New(t)
	srv.SeedRoom(domain.Room{Number: "101", Type: "Deluxe", Price: 120})
	rooms := roomsClient(t, srv)

	_, err := rooms.Create(context.Background(), domain.Room{Number: "101", Type: "Single", Price: 50})
	var fe *domain.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Message != "Room number already exists" || fe.Status != http.StatusBadRequest {
		t.Fatalf("unexpected error %+v", fe)
	}
}

func TestResource_UpdateFallsBackToGenericMessage(t *testing.T) {
	srv := apitest.New(t)
	a := srv.SeedRoom(domain.Room{Number: "101", Type: "Deluxe", Price: 120})
	srv.FailNext(http.MethodPut, fmt.Sprintf("/rooms/%d", a.ID), http.StatusInternalServerError, "")
	rooms := roomsClient(t, srv)

	err := rooms.Update(context.Background(), a)
	if err == nil || err.Error() != "Failed to update room" {
		t.Fatalf("expected generic update message, got %v", err)
	}
}

func TestResource_ListFailureUsesGenericMessage(t *testing.T) {
	srv := apitest.New(t)
	srv.FailNext(http.MethodGet, "/rooms", http.StatusInternalServerError, "database locked")

	_, err := roomsClient(t, srv).List(context.Background())
	if err == nil || err.Error() != "Failed to fetch rooms" {
		t.Fatalf("expected generic list message, got %v", err)
	}
}

func TestResource_NoTokenFailsAtServer(t *testing.T) {
	srv := apitest.New(t)
	c := newTestClient(t, srv.URL).Authenticated(staticToken(""))

	_, err := NewResource[domain.Room](c, Rooms).List(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized FetchError, got %v", err)
	}
	if srv.Requests(http.MethodGet, "/rooms") != 1 {
		t.Fatalf("request must still reach the server")
	}
}

func TestResource_UpdateWithoutID(t *testing.T) {
	srv := apitest.New(t)
	err := roomsClient(t, srv).Update(context.Background(), domain.Room{Number: "101"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if srv.Requests(http.MethodPut, "/rooms/0") != 0 {
		t.Fatalf("no request expected")
	}
}

func TestClient_SendsRawToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL).Authenticated(staticToken("abc123"))
	list, err := NewResource[domain.User](c, Users).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got != "abc123" {
		t.Fatalf("Authorization = %q, want raw token", got)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
}

func TestNew_RejectsBadURL(t *testing.T) {
	if _, err := New("localhost:5000", zerolog.Nop()); err == nil {
		t.Fatalf("expected error for scheme-less url")
	}
}

func TestClient_Ping(t *testing.T) {
	srv := apitest.New(t)
	c := newTestClient(t, srv.URL)
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping against a 404 origin: %v", err)
	}

	srv.Close()
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("expected Ping to fail once the API is gone")
	}
}

func TestOptions_TimeoutKeepsCustomClient(t *testing.T) {
	redirects := func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	hc := &http.Client{Transport: http.DefaultTransport, CheckRedirect: redirects}

	for name, opts := range map[string][]Option{
		"timeout last":  {WithHTTPClient(hc), WithTimeout(3 * time.Second)},
		"timeout first": {WithTimeout(3 * time.Second), WithHTTPClient(hc)},
	} {
		t.Run(name, func(t *testing.T) {
			c, err := New("http://api.test", zerolog.Nop(), opts...)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if c.http.CheckRedirect == nil || c.http.Transport != http.DefaultTransport {
				t.Fatalf("custom client settings were dropped: %+v", c.http)
			}
		})
	}

	c, err := New("http://api.test", zerolog.Nop(), WithHTTPClient(hc), WithTimeout(3*time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.http.Timeout != 3*time.Second || hc.Timeout != 0 {
		t.Fatalf("timeout must apply to a copy: client %v, original %v", c.http.Timeout, hc.Timeout)
	}
}
