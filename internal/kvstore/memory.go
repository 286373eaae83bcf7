package kvstore

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// ErrInjected is returned by MemoryBackend writes armed with FailNext.
var ErrInjected = errors.New("kvstore: injected failure")

// MemoryBackend keeps values in a map. It honours a Quota and can be told
// to fail upcoming writes, which makes it the backend of choice in tests.
type MemoryBackend struct {
	mu       sync.Mutex
	data     map[string]string
	quota    Quota
	failNext int
	failErr  error
	closed   bool
	writes   int
}

func NewMemoryBackend(quota Quota) *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string), quota: quota}
}

// FailNext makes the next n Set calls return err (ErrQuotaExceeded when
// err is nil) without storing anything.
func (m *MemoryBackend) FailNext(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		err = errors.Wrap(ErrQuotaExceeded, "injected")
	}
	m.failNext = n
	m.failErr = err
}

// Writes returns the number of successful Set calls.
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.failNext > 0 {
		m.failNext--
		return m.failErr
	}
	others := 0
	for k, v := range m.data {
		if k != key {
			others += len(k) + len(v)
		}
	}
	if err := m.quota.check(key, value, others); err != nil {
		return err
	}
	m.data[key] = value
	m.writes++
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryBackend) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
