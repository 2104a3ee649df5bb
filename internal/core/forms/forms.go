// Package forms turns submitted key/value pairs into typed records, one
// constructor per record kind. Keys a record does not declare are rejected.
package forms

import (
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/metrics"
)

type roomRecord struct {
	ID     string `form:"id" validate:"omitempty,number"`
	Number string `form:"number" validate:"required"`
	Type   string `form:"type" validate:"required"`
	Price  string `form:"price" validate:"required,numeric"`
}

type guestRecord struct {
	ID           string `form:"id" validate:"omitempty,number"`
	Name         string `form:"name" validate:"required"`
	RoomNumber   string `form:"roomNumber" validate:"required"`
	CheckInDate  string `form:"checkInDate" validate:"required,datetime=2006-01-02"`
	CheckOutDate string `form:"checkOutDate" validate:"required,datetime=2006-01-02"`
}

type userRecord struct {
	ID       string `form:"id" validate:"omitempty,number"`
	Username string `form:"username" validate:"required"`
	Role     string `form:"role" validate:"required,oneof=admin user"`
	Password string `form:"password" validate:"required_without=ID"`
}

// Credentials is the login form.
type Credentials struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Registration is the signup form.
type Registration struct {
	Username        string `form:"username" validate:"required"`
	Password        string `form:"password" validate:"required"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

// Room builds a room from number, type, price and an optional id.
func Room(values url.Values) (domain.Room, error) {
	f, err := fields(values, "id", "number", "type", "price")
	if err != nil {
		return domain.Room{}, err
	}
	rec := roomRecord{ID: f["id"], Number: f["number"], Type: f["type"], Price: f["price"]}
	if err := check(rec); err != nil {
		return domain.Room{}, err
	}
	price, err := strconv.ParseFloat(rec.Price, 64)
	if err != nil {
		return domain.Room{}, invalid("price", "price must be a number")
	}
	if price < 0 {
		return domain.Room{}, invalid("price", "price must not be negative")
	}
	return domain.Room{ID: parseID(rec.ID), Number: rec.Number, Type: rec.Type, Price: price}, nil
}

// Guest builds a guest stay. Check-out may not precede check-in.
func Guest(values url.Values) (domain.Guest, error) {
	f, err := fields(values, "id", "name", "roomNumber", "checkInDate", "checkOutDate")
	if err != nil {
		return domain.Guest{}, err
	}
	rec := guestRecord{
		ID:           f["id"],
		Name:         f["name"],
		RoomNumber:   f["roomNumber"],
		CheckInDate:  f["checkInDate"],
		CheckOutDate: f["checkOutDate"],
	}
	if err := check(rec); err != nil {
		return domain.Guest{}, err
	}
	// ISO dates order lexically.
	if rec.CheckOutDate < rec.CheckInDate {
		return domain.Guest{}, invalid("checkOutDate", "checkOutDate must not be before checkInDate")
	}
	return domain.Guest{
		ID:           parseID(rec.ID),
		Name:         rec.Name,
		RoomNumber:   rec.RoomNumber,
		CheckInDate:  rec.CheckInDate,
		CheckOutDate: rec.CheckOutDate,
	}, nil
}

// User builds an account. A password is required only when there is no id yet.
func User(values url.Values) (domain.User, error) {
	f, err := fields(values, "id", "username", "role", "password")
	if err != nil {
		return domain.User{}, err
	}
	rec := userRecord{ID: f["id"], Username: f["username"], Role: f["role"], Password: f["password"]}
	if err := check(rec); err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: parseID(rec.ID), Username: rec.Username, Role: rec.Role, Password: rec.Password}, nil
}

func Login(values url.Values) (Credentials, error) {
	f, err := fields(values, "username", "password")
	if err != nil {
		return Credentials{}, err
	}
	rec := Credentials{Username: f["username"], Password: f["password"]}
	return rec, check(rec)
}

func Signup(values url.Values) (Registration, error) {
	f, err := fields(values, "username", "password", "confirmPassword")
	if err != nil {
		return Registration{}, err
	}
	rec := Registration{Username: f["username"], Password: f["password"], ConfirmPassword: f["confirmPassword"]}
	return rec, check(rec)
}

// Values renders an entity back into form values, the inverse of the
// constructors above. Passwords are never rendered.
func Values(e domain.Entity) url.Values {
	v := url.Values{}
	if id := e.EntityID(); id != 0 {
		v.Set("id", strconv.FormatInt(id, 10))
	}
	switch x := e.(type) {
	case domain.Room:
		v.Set("number", x.Number)
		v.Set("type", x.Type)
		v.Set("price", strconv.FormatFloat(x.Price, 'f', -1, 64))
	case domain.Guest:
		v.Set("name", x.Name)
		v.Set("roomNumber", x.RoomNumber)
		v.Set("checkInDate", x.CheckInDate)
		v.Set("checkOutDate", x.CheckOutDate)
	case domain.User:
		v.Set("username", x.Username)
		v.Set("role", x.Role)
	}
	return v
}

// ParsePairs reads key=value arguments. Later pairs override earlier ones.
func ParsePairs(args []string) (url.Values, error) {
	v := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, &domain.ValidationError{
				Field:   arg,
				Message: fmt.Sprintf("argument %q is not key=value", arg),
				Err:     domain.ErrInvalidField,
			}
		}
		v.Set(key, value)
	}
	return v, nil
}

// Overlay copies every key of patch over base.
func Overlay(base, patch url.Values) url.Values {
	out := url.Values{}
	for k, vs := range base {
		out[k] = slices.Clone(vs)
	}
	for k, vs := range patch {
		out[k] = slices.Clone(vs)
	}
	return out
}

// fields flattens values, trimming whitespace, after checking every key is
// one of allowed.
func fields(values url.Values, allowed ...string) (map[string]string, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if !slices.Contains(allowed, k) {
			metrics.ValidationRejectsTotal.WithLabelValues("unknown_field").Inc()
			return nil, &domain.ValidationError{
				Field:   k,
				Message: fmt.Sprintf("unknown field %q", k),
				Err:     domain.ErrUnknownField,
			}
		}
		out[k] = strings.TrimSpace(values.Get(k))
	}
	return out, nil
}

func parseID(s string) int64 {
	id, _ := strconv.ParseInt(s, 10, 64)
	return id
}
