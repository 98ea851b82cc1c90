package docstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const backendBadger = "badger"

type BadgerConfig struct {
	Path     string
	InMemory bool
}

// BadgerStore keeps BSON documents in an embedded Badger database. Keys are
// "<collection>/<_id hex>", so a prefix scan visits a collection in insertion order.
type BadgerStore struct {
	cfg    BadgerConfig
	logger ectologger.Logger

	mu sync.RWMutex
	db *badger.DB
}

func NewBadgerStore(cfg BadgerConfig, logger ectologger.Logger) *BadgerStore {
	return &BadgerStore{cfg: cfg, logger: logger}
}

func (s *BadgerStore) GetName() string {
	return "store"
}

func (s *BadgerStore) DependsOn() []string {
	return []string{"tracing"}
}

func (s *BadgerStore) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	var opts badger.Options
	if s.cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(filepath.Clean(s.cfg.Path))
		opts = opts.WithValueLogFileSize(1 << 26)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open badger: %w", err)
	}
	s.db = db

	log := s.logger.WithField("in_memory", s.cfg.InMemory)
	if !s.cfg.InMemory {
		log = log.WithField("path", s.cfg.Path)
	}
	log.Info("Opened Badger document store")
	return nil
}

func (s *BadgerStore) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *BadgerStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil || s.db.IsClosed() {
		return ErrNotConnected
	}
	return nil
}

func (s *BadgerStore) Collection(name string) Collection {
	return &badgerCollection{store: s, name: name, prefix: []byte(name + "/")}
}

// withDB runs fn while holding the store open.
func (s *BadgerStore) withDB(fn func(db *badger.DB) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return ErrNotConnected
	}
	return fn(s.db)
}

type badgerCollection struct {
	store  *BadgerStore
	name   string
	prefix []byte
}

func (c *badgerCollection) key(id string) []byte {
	return append(append([]byte{}, c.prefix...), id...)
}

func (c *badgerCollection) InsertOne(ctx context.Context, doc any) (res InsertResult, err error) {
	_, span := tracing.StartSpan(ctx, "docstore.Badger.InsertOne")
	defer span.End()
	defer observe(backendBadger, c.name, "insert_one", time.Now(), &err)

	encoded, id, err := encodeWithStoreID(doc)
	if err != nil {
		return InsertResult{}, fmt.Errorf("encode document for %s: %w", c.name, err)
	}

	key := c.key(id)
	err = c.store.withDB(func(db *badger.DB) error {
		return db.Update(func(txn *badger.Txn) error {
			if _, err := txn.Get(key); err == nil {
				return fmt.Errorf("duplicate %s %q", storeIDField, id)
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			return txn.Set(key, encoded)
		})
	})
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert into %s: %w", c.name, err)
	}
	return InsertResult{InsertedID: id}, nil
}

func (c *badgerCollection) Find(ctx context.Context, filter Filter, limit int64) (docs []bson.Raw, err error) {
	ctx, span := tracing.StartSpan(ctx, "docstore.Badger.Find")
	defer span.End()
	defer observe(backendBadger, c.name, "find", time.Now(), &err)

	docs = make([]bson.Raw, 0)
	err = c.store.withDB(func(db *badger.DB) error {
		return db.View(func(txn *badger.Txn) error {
			return c.scan(ctx, txn, filter, func(_ []byte, raw bson.Raw) (bool, error) {
				stripped, err := stripStoreID(raw)
				if err != nil {
					return false, err
				}
				docs = append(docs, stripped)
				return limit <= 0 || int64(len(docs)) < limit, nil
			})
		})
	})
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.name, err)
	}
	return docs, nil
}

func (c *badgerCollection) FindOne(ctx context.Context, filter Filter) (doc bson.Raw, err error) {
	ctx, span := tracing.StartSpan(ctx, "docstore.Badger.FindOne")
	defer span.End()
	defer observe(backendBadger, c.name, "find_one", time.Now(), &err)

	err = c.store.withDB(func(db *badger.DB) error {
		return db.View(func(txn *badger.Txn) error {
			return c.scan(ctx, txn, filter, func(_ []byte, raw bson.Raw) (bool, error) {
				stripped, err := stripStoreID(raw)
				if err != nil {
					return false, err
				}
				doc = stripped
				return false, nil
			})
		})
	})
	if err != nil {
		return nil, fmt.Errorf("find one in %s: %w", c.name, err)
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (c *badgerCollection) DeleteOne(ctx context.Context, filter Filter) (deleted int64, err error) {
	ctx, span := tracing.StartSpan(ctx, "docstore.Badger.DeleteOne")
	defer span.End()
	defer observe(backendBadger, c.name, "delete_one", time.Now(), &err)

	err = c.store.withDB(func(db *badger.DB) error {
		return db.Update(func(txn *badger.Txn) error {
			var target []byte
			err := c.scan(ctx, txn, filter, func(key []byte, _ bson.Raw) (bool, error) {
				target = key
				return false, nil
			})
			if err != nil || target == nil {
				return err
			}
			if err := txn.Delete(target); err != nil {
				return err
			}
			deleted = 1
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", c.name, err)
	}
	return deleted, nil
}

// scan visits the collection's matching documents in key order until visit returns false.
func (c *badgerCollection) scan(ctx context.Context, txn *badger.Txn, filter Filter, visit func(key []byte, raw bson.Raw) (bool, error)) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	for it.Seek(c.prefix); it.ValidForPrefix(c.prefix); it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		item := it.Item()
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		raw := bson.Raw(value)

		ok, err := matches(raw, filter)
		if err != nil {
			return fmt.Errorf("decode %s: %w", item.Key(), err)
		}
		if !ok {
			continue
		}

		more, err := visit(item.KeyCopy(nil), raw)
		if err != nil || !more {
			return err
		}
	}
	return nil
}

// encodeWithStoreID marshals doc and puts a fresh ObjectID in front when _id is absent.
func encodeWithStoreID(doc any) ([]byte, string, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, "", err
	}

	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, "", err
	}

	for _, e := range d {
		if e.Key == storeIDField {
			return raw, formatInsertedID(e.Value), nil
		}
	}

	oid := bson.NewObjectID()
	d = append(bson.D{{Key: storeIDField, Value: oid}}, d...)
	encoded, err := bson.Marshal(d)
	if err != nil {
		return nil, "", err
	}
	return encoded, oid.Hex(), nil
}

func stripStoreID(raw bson.Raw) (bson.Raw, error) {
	if _, err := raw.LookupErr(storeIDField); err != nil {
		return raw, nil
	}

	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	out := make(bson.D, 0, len(d))
	for _, e := range d {
		if e.Key != storeIDField {
			out = append(out, e)
		}
	}
	return bson.Marshal(out)
}

func matches(raw bson.Raw, filter Filter) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}

	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return false, err
	}
	for field, want := range filter {
		got, ok := m[field]
		if !ok || !valuesEqual(got, want) {
			return false, nil
		}
	}
	return true, nil
}

func valuesEqual(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)
		return ok && fa == fb
	}
	if ba, ok := a.([]byte); ok {
		bb, ok := b.([]byte)
		return ok && bytes.Equal(ba, bb)
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
