//go:generate go run go.uber.org/mock/mockgen -source=room_service.go -destination=../mocks/mock_room_service.go -package=mocks
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"room-relay/contract"
	"room-relay/domain"
	relayerrors "room-relay/errors"
	"room-relay/repositories"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const maxKeyAttempts = 5

type IRoomService interface {
	Create(ctx context.Context, name string) (domain.Room, error)
	Get(key domain.RoomKey) (domain.Room, error)
	List() ([]domain.Room, error)
	Delete(ctx context.Context, key domain.RoomKey) error
	Restore(ctx context.Context) (int, error)
}

type CreateRoomRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type RoomService struct {
	log        *slog.Logger
	repository repositories.IRoomRepository
	dispatcher contract.Dispatcher
	validate   *validator.Validate
	newKey     func() (domain.RoomKey, error)
}

func NewRoomService(log *slog.Logger, repository repositories.IRoomRepository, dispatcher contract.Dispatcher) *RoomService {
	return &RoomService{
		log:        log,
		repository: repository,
		dispatcher: dispatcher,
		validate:   validator.New(),
		newKey:     domain.NewRoomKey,
	}
}

// Create persists a room under a fresh key and makes it joinable.
// A colliding key is retried a bounded number of times.
func (s *RoomService) Create(ctx context.Context, name string) (domain.Room, error) {
	request := CreateRoomRequest{Name: strings.TrimSpace(name)}
	if err := s.validate.Struct(request); err != nil {
		return domain.Room{}, fmt.Errorf("%w: %v", relayerrors.ErrMalformedEvent, err)
	}

	for attempt := 1; attempt <= maxKeyAttempts; attempt++ {
		key, err := s.newKey()
		if err != nil {
			return domain.Room{}, err
		}
		room := domain.NewRoom(key, request.Name, time.Now().UTC())
		err = s.repository.Save(room)
		if errors.Is(err, relayerrors.ErrRoomAlreadyExists) {
			s.log.Debug("Room key collision", "room", key, "attempt", attempt)
			continue
		}
		if err != nil {
			return domain.Room{}, err
		}
		if err := s.dispatcher.Submit(ctx, domain.RegisterRoomCommand{Room: room}); err != nil {
			// A record the engine never saw would only become joinable after a restart
			if rollbackErr := s.repository.Delete(key); rollbackErr != nil {
				s.log.Error("Room rollback failed", "room", key, "error", rollbackErr)
			}
			return domain.Room{}, err
		}
		s.log.Info("Room created", "room", key, "name", room.Name)
		return room, nil
	}
	return domain.Room{}, fmt.Errorf("no free room key after %d attempts: %w", maxKeyAttempts, relayerrors.ErrRoomAlreadyExists)
}

func (s *RoomService) Get(key domain.RoomKey) (domain.Room, error) {
	return s.repository.Get(key)
}

func (s *RoomService) List() ([]domain.Room, error) {
	return s.repository.List()
}

// Delete drops the record and tells the engine to empty the room.
// The engine is told even when no record exists.
func (s *RoomService) Delete(ctx context.Context, key domain.RoomKey) error {
	if err := s.repository.Delete(key); err != nil {
		return err
	}
	if err := s.dispatcher.Submit(ctx, domain.DeleteRoomCommand{Room: key}); err != nil {
		return err
	}
	s.log.Info("Room deleted", "room", key)
	return nil
}

// Restore registers every persisted room with the engine. Presence is not persisted.
func (s *RoomService) Restore(ctx context.Context) (int, error) {
	rooms, err := s.repository.List()
	if err != nil {
		return 0, err
	}
	for _, room := range rooms {
		if err := s.dispatcher.Submit(ctx, domain.RegisterRoomCommand{Room: room}); err != nil {
			return 0, err
		}
	}
	s.log.Info("Rooms restored", "count", len(rooms))
	return len(rooms), nil
}
