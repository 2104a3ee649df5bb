// Package apitest runs an in-process fake of the hotel REST API for tests. It
// mirrors the real server's routes, status codes and error envelopes, including
// the snake_case rows returned by GET /guests.
package apitest

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/hotelops/hms-console/internal/core/domain"
)

const defaultSecret = "apitest-secret"

type account struct {
	id   int64
	name string
	hash []byte
	role string
}

type failure struct {
	status int
	body   map[string]string
}

// Server is a running fake API. All methods are safe for concurrent use.
type Server struct {
	*httptest.Server

	secret string

	mu       sync.Mutex
	nextID   int64
	accounts []*account
	rooms    []domain.Room
	guests   []domain.Guest
	requests map[string]int
	failures map[string]failure
}

// New starts a fake API and stops it when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:   defaultSecret,
		requests: make(map[string]int),
		failures: make(map[string]failure),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.countRequests, s.injectFailures)

	e.POST("/register", s.register)
	e.POST("/login", s.login)

	authed := e.Group("", tokenRequired(s.secret))
	authed.GET("/rooms", s.listRooms)
	authed.POST("/rooms", s.addRoom)
	authed.PUT("/rooms/:id", s.updateRoom)
	authed.DELETE("/rooms/:id", s.deleteRoom)

	authed.GET("/guests", s.listGuests)
	authed.POST("/guests", s.addGuest)
	authed.PUT("/guests/:id", s.updateGuest)
	authed.DELETE("/guests/:id", s.deleteGuest)

	authed.GET("/users", s.listUsers)
	authed.POST("/users", s.addUser)
	authed.PUT("/users/:id", s.updateUser)
	authed.DELETE("/users/:id", s.deleteUser)
	return e
}

// Requests reports how many requests hit method and path (e.g. "POST", "/rooms").
func (s *Server) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+path]
}

// FailNext makes the next request to method and path answer status with an
// {"error": msg} body. An empty msg sends an empty object.
func (s *Server) FailNext(method, path string, status int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body := map[string]string{}
	if msg != "" {
		body["error"] = msg
	}
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// SeedAccount registers a login account directly.
func (s *Server) SeedAccount(username, password, role string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("apitest: hash password: %v", err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.accounts = append(s.accounts, &account{id: s.nextID, name: username, hash: hash, role: role})
}

// SeedRoom stores r with a fresh id and returns it.
func (s *Server) SeedRoom(r domain.Room) domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	s.rooms = append(s.rooms, r)
	return r
}

// SeedGuest stores g with a fresh id and returns it.
func (s *Server) SeedGuest(g domain.Guest) domain.Guest {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	g.ID = s.nextID
	s.guests = append(s.guests, g)
	return g
}

// Token mints a valid token for username without a login round trip.
func (s *Server) Token(username string) string {
	tok, err := signToken(s.secret, username, 24*time.Hour)
	if err != nil {
		panic(fmt.Sprintf("apitest: sign token: %v", err))
	}
	return tok
}

func (s *Server) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.requests[c.Request().Method+" "+c.Request().URL.Path]++
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) injectFailures(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Method + " " + c.Request().URL.Path
		s.mu.Lock()
		f, ok := s.failures[key]
		delete(s.failures, key)
		s.mu.Unlock()
		if ok {
			return c.JSON(f.status, f.body)
		}
		return next(c)
	}
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func blank(vals ...string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func parseID(c echo.Context) (int64, bool) {
	var id int64
	if _, err := fmt.Sscan(c.Param("id"), &id); err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
