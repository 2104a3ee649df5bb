package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/core/ports"
	"github.com/hotelops/hms-console/internal/metrics"
)

// RoomService is the rooms resource client with the duplicate-number guard in
// front of Create. The guard is advisory: two concurrent creates can still pass
// it, and the API has the final word.
type RoomService struct {
	rooms ports.ResourceClient[domain.Room]
	log   zerolog.Logger
}

func NewRoomService(rooms ports.ResourceClient[domain.Room], log zerolog.Logger) *RoomService {
	return &RoomService{rooms: rooms, log: log}
}

func (s *RoomService) List(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.List(ctx)
}

// Create re-fetches the rooms and refuses a number that is already taken
// without contacting the create endpoint.
func (s *RoomService) Create(ctx context.Context, draft domain.Room) (domain.Room, error) {
	existing, err := s.rooms.List(ctx)
	if err != nil {
		return domain.Room{}, err
	}
	for _, r := range existing {
		if r.Number == draft.Number {
			metrics.ValidationRejectsTotal.WithLabelValues("duplicate_room_number").Inc()
			s.log.Info().Str("number", draft.Number).Msg("room create rejected: number taken")
			return domain.Room{}, domain.Invalid("number", domain.ErrDuplicateRoomNumber)
		}
	}

	created, err := s.rooms.Create(ctx, draft)
	if err != nil {
		return domain.Room{}, err
	}
	s.log.Info().Int64("id", created.ID).Str("number", created.Number).Msg("room created")
	return created, nil
}

func (s *RoomService) Update(ctx context.Context, room domain.Room) error {
	return s.rooms.Update(ctx, room)
}

func (s *RoomService) Remove(ctx context.Context, id int64) error {
	return s.rooms.Remove(ctx, id)
}
