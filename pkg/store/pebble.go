package store

import (
	"bytes"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/pebble"

	"answerdb/pkg/errs"
	"answerdb/pkg/logger"
)

var db *pebble.DB
var dbPath string

// seq reduces key collisions when multiple session messages share the same
// nanosecond timestamp.
var seq uint64

// Key namespaces. Everything in the DB lives under one of these prefixes.
const (
	truthPrefix   = "truth:"
	cachePrefix   = "cache:"
	countPrefix   = "count:"
	sessionPrefix = "session:"
)

// Open opens (or creates) a Pebble database at the given path and keeps a
// global handle for simple usage in this package.
func Open(path string) error {
	var err error
	logger.Info("opening_pebble_db", "path", path)
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return err
	}
	dbPath = path
	logger.Info("pebble_opened", "path", path)
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Info("pebble_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	return db != nil
}

func notOpen() error {
	return errs.Store(fmt.Errorf("pebble not opened"), "call store.Open first")
}

// get returns the raw value for a key, or (nil, false, nil) when absent.
func get(key string) ([]byte, bool, error) {
	if db == nil {
		return nil, false, notOpen()
	}
	v, closer, err := db.Get([]byte(key))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, false, nil
		}
		logger.Error("get_key_failed", "key", key, "error", err)
		return nil, false, errs.Store(err, "get "+key)
	}
	out := append([]byte(nil), v...)
	if closer != nil {
		_ = closer.Close()
	}
	return out, true, nil
}

// set writes a raw key/value pair with a synchronous write.
func set(key string, value []byte) error {
	if db == nil {
		return notOpen()
	}
	if err := db.Set([]byte(key), value, pebble.Sync); err != nil {
		logger.Error("save_key_failed", "key", key, "error", err)
		return errs.Store(err, "set "+key)
	}
	logger.Debug("save_key_ok", "key", key, "len", len(value))
	return nil
}

// ListKeys returns all keys (as strings) that start with the given prefix.
func ListKeys(prefix string) ([]string, error) {
	if db == nil {
		return nil, notOpen()
	}
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, errs.Store(err, "new iterator")
	}
	defer iter.Close()
	pfx := []byte(prefix)
	var out []string
	for iter.SeekGE(pfx); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), pfx) {
			break
		}
		k := append([]byte(nil), iter.Key()...)
		out = append(out, string(k))
	}
	if err := iter.Error(); err != nil {
		return nil, errs.Store(err, "iterate "+prefix)
	}
	return out, nil
}

// listValues returns all values under a prefix in key order.
func listValues(prefix string) ([][]byte, error) {
	if db == nil {
		return nil, notOpen()
	}
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, errs.Store(err, "new iterator")
	}
	defer iter.Close()
	pfx := []byte(prefix)
	var out [][]byte
	for iter.SeekGE(pfx); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), pfx) {
			break
		}
		out = append(out, append([]byte(nil), iter.Value()...))
	}
	if err := iter.Error(); err != nil {
		return nil, errs.Store(err, "iterate "+prefix)
	}
	return out, nil
}

// deletePrefix removes every key under the given prefix.
func deletePrefix(prefix string) error {
	if db == nil {
		return notOpen()
	}
	start := []byte(prefix)
	end := append([]byte(prefix), 0xff)
	if err := db.DeleteRange(start, end, pebble.Sync); err != nil {
		logger.Error("delete_prefix_failed", "prefix", prefix, "error", err)
		return errs.Store(err, "delete range "+prefix)
	}
	return nil
}

// Delete removes a single key; deleting an absent key is not an error.
func Delete(key string) error {
	if db == nil {
		return notOpen()
	}
	if err := db.Delete([]byte(key), pebble.Sync); err != nil {
		logger.Error("delete_key_failed", "key", key, "error", err)
		return errs.Store(err, "delete "+key)
	}
	return nil
}

// nextMsgSuffix returns a sortable "<unix_nano_padded>-<seq>" fragment so
// prefix iteration yields messages in insertion order.
func nextMsgSuffix() string {
	ts := time.Now().UTC().UnixNano()
	s := atomic.AddUint64(&seq, 1)
	return fmt.Sprintf("%020d-%06d", ts, s)
}

// DBSet writes a raw key (bytes) into the DB. Low-level helper for admin
// utilities and tests.
func DBSet(key, value []byte) error {
	if db == nil {
		return notOpen()
	}
	return db.Set(key, value, pebble.Sync)
}
