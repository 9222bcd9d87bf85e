package broadcastPkg

import (
	"errors"
	"sync"
	"testing"
	"time"

	"VerifID/internal/entity"
	"github.com/sirupsen/logrus"
)

type fakeSubscriber struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (f *fakeSubscriber) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("write failed")
	}
	f.events = append(f.events, v.(Event))
	return nil
}

func (f *fakeSubscriber) received() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Event, len(f.events))
	copy(out, f.events)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestPublishDeliversSnapshot(t *testing.T) {
	h := NewHub(logrus.New())
	sub := &fakeSubscriber{}
	defer h.Register(sub)()

	h.Publish(entity.Snapshot{SessionID: "s1", FirstName: true})

	waitFor(t, func() bool { return len(sub.received()) == 1 })

	got := sub.received()[0]
	if got.Event != EventVerificationUpdate {
		t.Fatalf("expected event %q, got %q", EventVerificationUpdate, got.Event)
	}
	if !got.Data.FirstName || got.Data.SessionID != "s1" {
		t.Fatalf("unexpected snapshot payload: %+v", got.Data)
	}
}

func TestPublishWithNoSubscribersDoesNotBlock(t *testing.T) {
	h := NewHub(logrus.New())

	done := make(chan struct{})
	go func() {
		h.Publish(entity.Snapshot{SessionID: "s1"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked with no subscribers")
	}
}

func TestFailedSubscriberIsDropped(t *testing.T) {
	h := NewHub(logrus.New())
	bad := &fakeSubscriber{fail: true}
	good := &fakeSubscriber{}
	defer h.Register(bad)()
	defer h.Register(good)()

	h.Publish(entity.Snapshot{SessionID: "s1"})

	waitFor(t, func() bool { return h.SubscriberCount() == 1 })
	waitFor(t, func() bool { return len(good.received()) == 1 })
}

func TestUnregisterIsIdempotent(t *testing.T) {
	h := NewHub(logrus.New())
	sub := &fakeSubscriber{}
	unregister := h.Register(sub)

	unregister()
	unregister()

	if h.SubscriberCount() != 0 {
		t.Fatalf("expected no subscribers, got %d", h.SubscriberCount())
	}

	h.Publish(entity.Snapshot{SessionID: "s1"})
	time.Sleep(20 * time.Millisecond)
	if len(sub.received()) != 0 {
		t.Fatalf("unregistered subscriber still received %d events", len(sub.received()))
	}
}
