package store

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/pkg/metrics"
)

// Event topics published on the store bus.
const (
	// TopicChanged carries the persisted key (string) of every committed
	// collection or settings record.
	TopicChanged = "store:changed"
	// TopicPersistFailed carries a PersistFailure.
	TopicPersistFailed = "store:persist-failed"
)

// PersistFailure describes a write the backend rejected. The in-memory
// snapshot was updated regardless. Reduced is set when a placeholder
// payload was attempted too.
type PersistFailure struct {
	Key     string
	Err     error
	Reduced bool
}

// Subscribe registers fn for topic. Handlers run synchronously after the
// commit that produced the event and must not call back into the store.
func (s *Store) Subscribe(topic string, fn interface{}) error {
	return s.bus.Subscribe(topic, fn)
}

func (s *Store) Unsubscribe(topic string, fn interface{}) error {
	return s.bus.Unsubscribe(topic, fn)
}

// ErrReadOnly is reported for every write while the store runs on
// defaults over data written by a newer schema.
var ErrReadOnly = errors.New("store: persisted data has a newer schema, writes disabled")

type event struct {
	topic string
	arg   interface{}
}

// txn collects the side effects of one commit. Events are dispatched only
// after the store lock is released.
type txn struct {
	s      *Store
	events []event
}

// write runs fn as one commit.
func (s *Store) write(fn func(tx *txn)) {
	s.checkOpen()
	tx := &txn{s: s}
	s.mu.Lock()
	func() {
		defer s.mu.Unlock()
		fn(tx)
	}()
	for _, ev := range tx.events {
		s.bus.Publish(ev.topic, ev.arg)
	}
}

// read runs fn under the read lock.
func (s *Store) read(fn func()) {
	s.checkOpen()
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// try encodes value and hands it to the backend.
func (tx *txn) try(key string, value interface{}) error {
	if tx.s.readOnly.Load() {
		return ErrReadOnly
	}
	data, err := json.MarshalToString(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return tx.s.backend.Set(key, data)
}

// save persists value under key. A failure is logged and published but
// the caller's in-memory update stands.
func (tx *txn) save(key string, value interface{}) {
	if err := tx.try(key, value); err != nil {
		tx.failed(key, err, false)
	}
	tx.changed(key)
}

func (tx *txn) changed(key string) {
	metrics.IncCounter("store_writes")
	tx.events = append(tx.events, event{topic: TopicChanged, arg: key})
}

func (tx *txn) failed(key string, err error, reduced bool) {
	metrics.IncCounter("store_persist_failures")
	zap.L().Warn("persist failed, keeping in-memory state",
		zap.String("key", key),
		zap.Bool("reduced", reduced),
		zap.Error(err))
	tx.events = append(tx.events, event{
		topic: TopicPersistFailed,
		arg:   PersistFailure{Key: key, Err: err, Reduced: reduced},
	})
}
