package broadcastPkg

import (
	"sync"

	"VerifID/internal/entity"
	"github.com/sirupsen/logrus"
)

const EventVerificationUpdate = "verification_update"

// Event is the envelope delivered to dashboard subscribers.
type Event struct {
	Event string          `json:"event"`
	Data  entity.Snapshot `json:"data"`
}

// Subscriber is one dashboard connection. Both websocket conns and test
// fakes satisfy it.
type Subscriber interface {
	WriteJSON(v interface{}) error
}

// IBroadcast fans verification snapshots out to dashboard subscribers.
// Delivery is fire-and-forget and at-most-once: a slow subscriber has its
// oldest pending snapshot dropped, a failed write unregisters the
// subscriber, and nothing is replayed to late joiners.
type IBroadcast interface {
	Register(sub Subscriber) func()
	Publish(snapshot entity.Snapshot)
	SubscriberCount() int
}

type hub struct {
	log  *logrus.Logger
	mu   sync.Mutex
	subs map[Subscriber]chan entity.Snapshot
}

const pendingBuffer = 8

func NewHub(log *logrus.Logger) IBroadcast {
	return &hub{
		log:  log,
		subs: make(map[Subscriber]chan entity.Snapshot),
	}
}

// Register adds a subscriber and starts its write pump. The returned
// function unregisters it; calling it more than once is harmless.
func (h *hub) Register(sub Subscriber) func() {
	ch := make(chan entity.Snapshot, pendingBuffer)

	h.mu.Lock()
	h.subs[sub] = ch
	h.mu.Unlock()

	go h.pump(sub, ch)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.unregister(sub)
		})
	}
}

func (h *hub) unregister(sub Subscriber) {
	h.mu.Lock()
	ch, ok := h.subs[sub]
	if ok {
		delete(h.subs, sub)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *hub) pump(sub Subscriber, ch chan entity.Snapshot) {
	for snapshot := range ch {
		if err := sub.WriteJSON(Event{Event: EventVerificationUpdate, Data: snapshot}); err != nil {
			h.log.WithField("error", err.Error()).Warn("Dropping dashboard subscriber after failed write")
			h.unregister(sub)
			return
		}
	}
}

// Publish hands the snapshot to every subscriber without blocking the
// caller. When a subscriber's buffer is full its oldest snapshot is
// discarded; the dashboard fully replaces state per snapshot, so only the
// newest one matters.
func (h *hub) Publish(snapshot entity.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		for {
			select {
			case ch <- snapshot:
			default:
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

func (h *hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
