package database

import (
	"sync"

	"github.com/impostor-games/impostor/internal/database/room/model"
)

// Event is one committed change to a room. Room is nil when the
// document was deleted.
type Event struct {
	RoomID  string
	Room    *model.Room
	Deleted bool
}

const subscriberBuffer = 8

// broker fans committed snapshots out to per-room subscribers. Delivery
// is lossy on a slow consumer: clients always re-derive their state from
// the latest snapshot, so dropping a stale one is harmless.
type broker struct {
	mtx  sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func newBroker() *broker {
	return &broker{subs: map[string]map[chan Event]struct{}{}}
}

func (b *broker) subscribe(roomID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mtx.Lock()
	if b.subs[roomID] == nil {
		b.subs[roomID] = map[chan Event]struct{}{}
	}
	b.subs[roomID][ch] = struct{}{}
	b.mtx.Unlock()

	cancel := func() {
		b.mtx.Lock()
		defer b.mtx.Unlock()
		if set, ok := b.subs[roomID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(b.subs, roomID)
			}
		}
	}

	return ch, cancel
}

func (b *broker) publish(ev Event) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	for ch := range b.subs[ev.RoomID] {
		select {
		case ch <- ev:
		default:
			// drop the oldest snapshot, keep the freshest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
