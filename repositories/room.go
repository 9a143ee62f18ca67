//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"fmt"
	"room-relay/domain"
	"room-relay/errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

const roomPrefix = "room:"

type IRoomRepository interface {
	Save(room domain.Room) error
	Get(key domain.RoomKey) (domain.Room, error)
	List() ([]domain.Room, error)
	Delete(key domain.RoomKey) error
}

type RoomRepository struct {
	db *badger.DB
}

func NewRoomRepository(db *badger.DB) IRoomRepository {
	return &RoomRepository{db: db}
}

// DiskRoom is the persisted shape of a room. Presence is never stored.
type DiskRoom struct {
	Key       string `msgpack:"key"`
	Name      string `msgpack:"name"`
	CreatedAt int64  `msgpack:"created_at"`
}

func roomKey(key domain.RoomKey) []byte {
	return []byte(roomPrefix + string(key))
}

// Save persists a new room. An already used key is rejected.
func (r RoomRepository) Save(room domain.Room) error {
	data, err := msgpack.Marshal(fromRoom(room))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return claim(txn, roomKey(room.Key), data, errors.ErrRoomAlreadyExists)
	})
}

// claim writes data under a free key only, returning taken otherwise.
func claim(txn *badger.Txn, key, data []byte, taken error) error {
	_, err := txn.Get(key)
	switch {
	case err == nil:
		return taken
	case err != badger.ErrKeyNotFound:
		return fmt.Errorf("lookup of %q failed: %w", key, err)
	}
	return txn.Set(key, data)
}

func (r RoomRepository) Get(key domain.RoomKey) (domain.Room, error) {
	var disk DiskRoom
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(key))
		if err == badger.ErrKeyNotFound {
			return errors.ErrRoomNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &disk)
		})
	})
	if err != nil {
		return domain.Room{}, err
	}
	return toRoom(disk), nil
}

// List returns every persisted room, oldest first.
func (r RoomRepository) List() ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(roomPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk DiskRoom
			err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			rooms = append(rooms, toRoom(disk))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(rooms, func(a, b domain.Room) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return rooms, nil
}

// Delete removes the record. Deleting a missing room is not an error.
func (r RoomRepository) Delete(key domain.RoomKey) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(roomKey(key))
	})
}

func fromRoom(room domain.Room) DiskRoom {
	return DiskRoom{
		Key:       string(room.Key),
		Name:      room.Name,
		CreatedAt: room.CreatedAt.UnixNano(),
	}
}

func toRoom(disk DiskRoom) domain.Room {
	return domain.NewRoom(domain.RoomKey(disk.Key), disk.Name, time.Unix(0, disk.CreatedAt).UTC())
}
