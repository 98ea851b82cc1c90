package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/tracing"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const backendMongo = "mongo"

type MongoConfig struct {
	URL      string
	Database string
	Timeout  time.Duration
}

// MongoStore is a Store backed by a MongoDB database. It is opened by Start and closed
// by Stop so it can be registered with the startup lifecycle.
type MongoStore struct {
	cfg    MongoConfig
	logger ectologger.Logger

	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(cfg MongoConfig, logger ectologger.Logger) *MongoStore {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &MongoStore{cfg: cfg, logger: logger}
}

func (s *MongoStore) GetName() string {
	return "store"
}

func (s *MongoStore) DependsOn() []string {
	return []string{"tracing"}
}

func (s *MongoStore) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return nil
	}

	opts := options.Client().
		ApplyURI(s.cfg.URL).
		SetConnectTimeout(s.cfg.Timeout).
		SetServerSelectionTimeout(s.cfg.Timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to reach mongo: %w", err)
	}

	s.client = client
	s.db = client.Database(s.cfg.Database)
	s.logger.WithField("database", s.cfg.Database).Info("Connected to MongoDB")
	return nil
}

func (s *MongoStore) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client = nil
	s.db = nil
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	if client == nil {
		return ErrNotConnected
	}
	return client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{store: s, name: name}
}

func (s *MongoStore) collection(name string) (*mongo.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotConnected
	}
	return s.db.Collection(name), nil
}

type mongoCollection struct {
	store *MongoStore
	name  string
}

// withoutStoreID is the projection that keeps _id out of returned documents.
var withoutStoreID = bson.M{storeIDField: 0}

func (c *mongoCollection) InsertOne(ctx context.Context, doc any) (res InsertResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "docstore.Mongo.InsertOne")
	defer span.End()
	defer observe(backendMongo, c.name, "insert_one", time.Now(), &err)

	coll, err := c.store.collection(c.name)
	if err != nil {
		return InsertResult{}, err
	}

	out, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert into %s: %w", c.name, err)
	}
	return InsertResult{InsertedID: formatInsertedID(out.InsertedID)}, nil
}

func (c *mongoCollection) Find(ctx context.Context, filter Filter, limit int64) (docs []bson.Raw, err error) {
	ctx, span := tracing.StartSpan(ctx, "docstore.Mongo.Find")
	defer span.End()
	defer observe(backendMongo, c.name, "find", time.Now(), &err)

	coll, err := c.store.collection(c.name)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetProjection(withoutStoreID)
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := coll.Find(ctx, mongoFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.name, err)
	}

	docs = make([]bson.Raw, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read cursor for %s: %w", c.name, err)
	}
	return docs, nil
}

func (c *mongoCollection) FindOne(ctx context.Context, filter Filter) (doc bson.Raw, err error) {
	ctx, span := tracing.StartSpan(ctx, "docstore.Mongo.FindOne")
	defer span.End()
	defer observe(backendMongo, c.name, "find_one", time.Now(), &err)

	coll, err := c.store.collection(c.name)
	if err != nil {
		return nil, err
	}

	doc, err = coll.FindOne(ctx, mongoFilter(filter), options.FindOne().SetProjection(withoutStoreID)).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find one in %s: %w", c.name, err)
	}
	return doc, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter Filter) (deleted int64, err error) {
	ctx, span := tracing.StartSpan(ctx, "docstore.Mongo.DeleteOne")
	defer span.End()
	defer observe(backendMongo, c.name, "delete_one", time.Now(), &err)

	coll, err := c.store.collection(c.name)
	if err != nil {
		return 0, err
	}

	out, err := coll.DeleteOne(ctx, mongoFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", c.name, err)
	}
	return out.DeletedCount, nil
}

func mongoFilter(filter Filter) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return bson.M(filter)
}
