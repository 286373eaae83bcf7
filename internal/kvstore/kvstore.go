// Package kvstore implements the key/value persistence facility behind the
// content store. Values are opaque strings (JSON documents in practice).
package kvstore

import (
	"github.com/pkg/errors"
)

var (
	// ErrQuotaExceeded is returned by Set when the write would exceed the
	// configured size limits. The previous value is left untouched.
	ErrQuotaExceeded = errors.New("kvstore: quota exceeded")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("kvstore: backend closed")
)

// Backend is a synchronous string key/value store.
type Backend interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Keys lists all stored keys.
	Keys() ([]string, error)
	Close() error
}

// Quota bounds what a backend accepts. Zero disables a limit.
type Quota struct {
	MaxValueBytes int
	MaxTotalBytes int
}

// check reports ErrQuotaExceeded when storing value next to others
// (the summed size of every other key) breaks a limit.
func (q Quota) check(key, value string, others int) error {
	if q.MaxValueBytes > 0 && len(value) > q.MaxValueBytes {
		return errors.Wrapf(ErrQuotaExceeded, "%s: value of %d bytes exceeds %d", key, len(value), q.MaxValueBytes)
	}
	if q.MaxTotalBytes > 0 && others+len(key)+len(value) > q.MaxTotalBytes {
		return errors.Wrapf(ErrQuotaExceeded, "%s: total of %d bytes exceeds %d", key, others+len(key)+len(value), q.MaxTotalBytes)
	}
	return nil
}

// IsQuotaExceeded reports whether err stems from a quota violation.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}
