package kvstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var bucketName = []byte("storefront")

// BoltBackend stores every key in a single bbolt bucket.
type BoltBackend struct {
	db    *bolt.DB
	quota Quota
}

// OpenBolt opens (creating when needed) the bolt file at path.
func OpenBolt(path string, quota Quota) (*BoltBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create bolt dir")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create bucket")
	}
	return &BoltBackend{db: db, quota: quota}, nil
}

func (b *BoltBackend) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return "", false, ErrClosed
	}
	return value, found, errors.Wrapf(err, "get %s", key)
}

func (b *BoltBackend) Set(key, value string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if b.quota.MaxTotalBytes > 0 || b.quota.MaxValueBytes > 0 {
			others := 0
			_ = bucket.ForEach(func(k, v []byte) error {
				if string(k) != key {
					others += len(k) + len(v)
				}
				return nil
			})
			if err := b.quota.check(key, value, others); err != nil {
				return err
			}
		}
		return bucket.Put([]byte(key), []byte(value))
	})
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	if err != nil && !IsQuotaExceeded(err) {
		return errors.Wrapf(err, "set %s", key)
	}
	return err
}

func (b *BoltBackend) Delete(key string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return errors.Wrapf(err, "delete %s", key)
}

func (b *BoltBackend) Keys() ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if errors.Is(err, bolt.ErrDatabaseNotOpen) {
		return nil, ErrClosed
	}
	sort.Strings(keys)
	return keys, errors.Wrap(err, "list keys")
}

// Backup writes a consistent copy of the database to w.
func (b *BoltBackend) Backup(w io.Writer) error {
	return b.db.View(func(tx *bolt.Tx) error {
		_, err := tx.WriteTo(w)
		return err
	})
}

// BackupFile writes a timestamped copy into dir and keeps only the newest
// keep backups.
func (b *BoltBackend) BackupFile(dir string, keep int) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create backup dir")
	}
	name := filepath.Join(dir, fmt.Sprintf("storefront-%s.db", time.Now().Format("20060102150405")))
	f, err := os.Create(name)
	if err != nil {
		return "", errors.Wrap(err, "create backup file")
	}
	if err := b.Backup(f); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", errors.Wrap(err, "write backup")
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "close backup")
	}
	if keep > 0 {
		pruneBackups(dir, keep)
	}
	return name, nil
}

func pruneBackups(dir string, keep int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "storefront-") && strings.HasSuffix(e.Name(), ".db") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	for len(files) > keep {
		if err := os.Remove(filepath.Join(dir, files[0])); err != nil {
			zap.L().Warn("remove old backup failed", zap.String("file", files[0]), zap.Error(err))
		}
		files = files[1:]
	}
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}
