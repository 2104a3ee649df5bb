package domain

import "encoding/json"

// Entity is implemented by every record served by a REST collection.
type Entity interface {
	EntityID() int64
}

// Room is a bookable room. Number is unique among rooms.
type Room struct {
	ID     int64   `json:"id,omitempty"`
	Number string  `json:"number"`
	Type   string  `json:"type"`
	Price  float64 `json:"price"`
}

func (r Room) EntityID() int64 { return r.ID }

// Guest is a stay booked against a room number.
type Guest struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name"`
	RoomNumber   string `json:"roomNumber"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
}

func (g Guest) EntityID() int64 { return g.ID }

// UnmarshalJSON accepts both the camelCase shape returned by create and the
// snake_case row shape the API returns from list.
func (g *Guest) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID              int64  `json:"id"`
		Name            string `json:"name"`
		RoomNumber      string `json:"roomNumber"`
		CheckInDate     string `json:"checkInDate"`
		CheckOutDate    string `json:"checkOutDate"`
		RoomNumberRow   string `json:"room_number"`
		CheckInDateRow  string `json:"check_in_date"`
		CheckOutDateRow string `json:"check_out_date"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*g = Guest{
		ID:           raw.ID,
		Name:         raw.Name,
		RoomNumber:   firstNonEmpty(raw.RoomNumber, raw.RoomNumberRow),
		CheckInDate:  firstNonEmpty(raw.CheckInDate, raw.CheckInDateRow),
		CheckOutDate: firstNonEmpty(raw.CheckOutDate, raw.CheckOutDateRow),
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
