package apitest

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/hotelops/hms-console/internal/core/domain"
)

const msgAllFieldsRequired = "All fields are required"

// ── rooms ─────────────────────────────────────────────────────────────────────

func (s *Server) listRooms(c echo.Context) error {
	s.mu.Lock()
	out := append([]domain.Room{}, s.rooms...)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, out)
}

func (s *Server) addRoom(c echo.Context) error {
	var r domain.Room
	if err := c.Bind(&r); err != nil || blank(r.Number, r.Type) || r.Price == 0 {
		return errorJSON(c, http.StatusBadRequest, msgAllFieldsRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roomNumberTaken(r.Number, 0) {
		return errorJSON(c, http.StatusBadRequest, "Room number already exists")
	}
	s.nextID++
	r.ID = s.nextID
	s.rooms = append(s.rooms, r)
	return c.JSON(http.StatusCreated, r)
}

func (s *Server) updateRoom(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, "Room not found")
	}
	var r domain.Room
	if err := c.Bind(&r); err != nil || blank(r.Number, r.Type) || r.Price == 0 {
		return errorJSON(c, http.StatusBadRequest, msgAllFieldsRequired)
	}
	r.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roomNumberTaken(r.Number, id) {
		return errorJSON(c, http.StatusBadRequest, "Room number already exists")
	}
	for i := range s.rooms {
		if s.rooms[i].ID == id {
			s.rooms[i] = r
			return c.JSON(http.StatusOK, map[string]string{"message": "Room updated successfully"})
		}
	}
	return errorJSON(c, http.StatusNotFound, "Room not found")
}

func (s *Server) deleteRoom(c echo.Context) error {
	id, _ := parseID(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rooms {
		if s.rooms[i].ID == id {
			s.rooms = append(s.rooms[:i], s.rooms[i+1:]...)
			return c.JSON(http.StatusOK, map[string]string{"message": "Room deleted successfully"})
		}
	}
	return errorJSON(c, http.StatusNotFound, "Room not found")
}

// roomNumberTaken must be called with s.mu held.
func (s *Server) roomNumberTaken(number string, exceptID int64) bool {
	for _, r := range s.rooms {
		if r.Number == number && r.ID != exceptID {
			return true
		}
	}
	return false
}

// ── guests ────────────────────────────────────────────────────────────────────

// guestRow is the list shape: raw table columns.
type guestRow struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	RoomNumber   string `json:"room_number"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
}

func (s *Server) listGuests(c echo.Context) error {
	s.mu.Lock()
	rows := make([]guestRow, 0, len(s.guests))
	for _, g := range s.guests {
		rows = append(rows, guestRow(g))
	}
	s.mu.Unlock()
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) addGuest(c echo.Context) error {
	var g domain.Guest
	if err := c.Bind(&g); err != nil || blank(g.Name, g.RoomNumber, g.CheckInDate, g.CheckOutDate) {
		return errorJSON(c, http.StatusBadRequest, msgAllFieldsRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	g.ID = s.nextID
	s.guests = append(s.guests, g)
	return c.JSON(http.StatusCreated, g)
}

func (s *Server) updateGuest(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, "Guest not found")
	}
	var g domain.Guest
	if err := c.Bind(&g); err != nil || blank(g.Name, g.RoomNumber, g.CheckInDate, g.CheckOutDate) {
		return errorJSON(c, http.StatusBadRequest, msgAllFieldsRequired)
	}
	g.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.guests {
		if s.guests[i].ID == id {
			s.guests[i] = g
			return c.JSON(http.StatusOK, map[string]string{"message": "Guest updated successfully"})
		}
	}
	return errorJSON(c, http.StatusNotFound, "Guest not found")
}

func (s *Server) deleteGuest(c echo.Context) error {
	id, _ := parseID(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.guests {
		if s.guests[i].ID == id {
			s.guests = append(s.guests[:i], s.guests[i+1:]...)
			return c.JSON(http.StatusOK, map[string]string{"message": "Guest deleted successfully"})
		}
	}
	return errorJSON(c, http.StatusNotFound, "Guest not found")
}

// ── users ─────────────────────────────────────────────────────────────────────

func (s *Server) listUsers(c echo.Context) error {
	s.mu.Lock()
	out := make([]domain.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, domain.User{ID: a.id, Username: a.name, Role: a.role})
	}
	s.mu.Unlock()
	return c.JSON(http.StatusOK, out)
}

func (s *Server) addUser(c echo.Context) error {
	var u domain.User
	if err := c.Bind(&u); err != nil || blank(u.Username, u.Password, u.Role) {
		return errorJSON(c, http.StatusBadRequest, msgAllFieldsRequired)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accountByName(u.Username) != nil {
		return errorJSON(c, http.StatusBadRequest, "Username already exists")
	}
	s.nextID++
	s.accounts = append(s.accounts, &account{id: s.nextID, name: u.Username, hash: hash, role: u.Role})
	return c.JSON(http.StatusCreated, domain.User{ID: s.nextID, Username: u.Username, Role: u.Role})
}

func (s *Server) updateUser(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, "User not found")
	}
	var u domain.User
	if err := c.Bind(&u); err != nil || blank(u.Username, u.Role) {
		return errorJSON(c, http.StatusBadRequest, msgAllFieldsRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.id != id {
			continue
		}
		if other := s.accountByName(u.Username); other != nil && other.id != id {
			return errorJSON(c, http.StatusBadRequest, "Username already exists")
		}
		a.name, a.role = u.Username, u.Role
		if u.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
			if err != nil {
				return err
			}
			a.hash = hash
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "User updated successfully"})
	}
	return errorJSON(c, http.StatusNotFound, "User not found")
}

func (s *Server) deleteUser(c echo.Context) error {
	id, _ := parseID(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.accounts {
		if a.id == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
		}
	}
	return errorJSON(c, http.StatusNotFound, "User not found")
}
