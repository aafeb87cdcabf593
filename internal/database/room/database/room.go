package database

import (
	"encoding/json"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/impostor-games/impostor/internal/cache"
	"github.com/impostor-games/impostor/internal/database"
	"github.com/impostor-games/impostor/internal/database/room/model"
)

const prefix = "rooms"

var (
	ErrRoomNotFound = fmt.Errorf("room not found")

	// ErrRollback aborts a Mutate without committing anything. The
	// store returns it unchanged so callers can branch on it.
	ErrRollback = errors.New("rollback")
)

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{rDB: db, cache: cache, broker: newBroker()}
}

type DB struct {
	rDB    *database.DB
	cache  cache.Cache
	broker *broker
}

// Fetch returns the committed snapshot of a room.
func (db *DB) Fetch(id string) (model.Room, error) {
	if cached, ok := db.cache.Get(id); ok {
		if room, ok := cached.(model.Room); ok {
			return cloneRoom(room), nil
		}
	}

	var room model.Room
	if err := db.rDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix))
		if b == nil {
			return ErrRoomNotFound
		}

		data := b.Get([]byte(id))
		if data == nil {
			return ErrRoomNotFound
		}

		if err := json.Unmarshal(data, &room); err != nil {
			return fmt.Errorf("json unmarshal error, %w", err)
		}

		return nil
	}); err != nil {
		return model.Room{}, err
	}

	db.cache.Add(id, cloneRoom(room))
	return room, nil
}

// Mutate runs fn against the stored room inside one write transaction:
// the read, the computation and the commit are a single atomic unit, so
// two concurrent mutations of the same room serialize at the store.
//
// fn receives nil when the room does not exist and may return a new
// room to create it. Returning a nil room deletes the document.
func (db *DB) Mutate(id string, fn func(room *model.Room) (*model.Room, error)) (*model.Room, error) {
	var result *model.Room
	var deleted bool

	if err := db.rDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(prefix))
		if err != nil {
			return fmt.Errorf("can not create bucket: %w", err)
		}

		var current *model.Room
		if data := b.Get([]byte(id)); data != nil {
			var room model.Room
			if err := json.Unmarshal(data, &room); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			current = &room
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		if next == nil {
			if current == nil {
				return ErrRoomNotFound
			}
			deleted = true
			if err := b.Delete([]byte(id)); err != nil {
				return fmt.Errorf("delete from bucket error: %w", err)
			}
			return nil
		}

		next.ID = id
		next.Normalize()

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}

		if err := b.Put([]byte(id), data); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}

		result = next
		return nil
	}); err != nil {
		return nil, err
	}

	if deleted {
		db.cache.Delete(id)
		db.broker.publish(Event{RoomID: id, Deleted: true})
		return nil, nil
	}

	db.cache.Add(id, cloneRoom(*result))
	snapshot := cloneRoom(*result)
	db.broker.publish(Event{RoomID: id, Room: &snapshot})
	return result, nil
}

// Delete drops a room document outright.
func (db *DB) Delete(id string) error {
	if err := db.rDB.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix))
		if b == nil {
			return ErrRoomNotFound
		}
		if b.Get([]byte(id)) == nil {
			return ErrRoomNotFound
		}
		return b.Delete([]byte(id))
	}); err != nil {
		return err
	}

	db.cache.Delete(id)
	db.broker.publish(Event{RoomID: id, Deleted: true})
	return nil
}

// FetchAll lists every stored room, for admin and recovery tooling.
func (db *DB) FetchAll() ([]model.Room, error) {
	var list []model.Room

	if err := db.rDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix))
		if b == nil {
			return nil
		}

		if err := b.ForEach(func(k, v []byte) error {
			var room model.Room
			if err := json.Unmarshal(v, &room); err != nil {
				return fmt.Errorf("json unmarshal error, %w", err)
			}
			list = append(list, room)
			return nil
		}); err != nil {
			return fmt.Errorf("bucket for each: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	return list, nil
}

// Subscribe delivers the full committed snapshot on every change to the
// room until the returned cancel function runs.
func (db *DB) Subscribe(id string) (<-chan Event, func()) {
	return db.broker.subscribe(id)
}

// cloneRoom deep-copies a room so cached and published snapshots cannot
// alias the slices the caller keeps mutating.
func cloneRoom(r model.Room) model.Room {
	data, err := json.Marshal(r)
	if err != nil {
		return r
	}
	var clone model.Room
	if err := json.Unmarshal(data, &clone); err != nil {
		return r
	}
	return clone
}
