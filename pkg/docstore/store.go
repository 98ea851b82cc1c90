// Package docstore is the document-store adapter behind the repositories. It hides
// whether records live in MongoDB or in an embedded Badger database.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/metrics"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	// ErrNotFound is returned by FindOne when no document matches the filter.
	ErrNotFound = errors.New("document not found")
	// ErrNotConnected is returned when a collection is used before the store started.
	ErrNotConnected = errors.New("document store is not connected")
)

// Filter is an equality filter on top-level document fields.
type Filter map[string]any

// InsertResult carries the identifier the store assigned to an inserted document.
type InsertResult struct {
	InsertedID string
}

// Collection is a named set of documents.
type Collection interface {
	// InsertOne stores doc. The store adds its own _id when doc has none.
	InsertOne(ctx context.Context, doc any) (InsertResult, error)
	// Find returns up to limit matching documents in storage order, without _id.
	Find(ctx context.Context, filter Filter, limit int64) ([]bson.Raw, error)
	// FindOne returns the first matching document without _id, or ErrNotFound.
	FindOne(ctx context.Context, filter Filter) (bson.Raw, error)
	// DeleteOne removes the first matching document and reports how many were removed.
	DeleteOne(ctx context.Context, filter Filter) (int64, error)
}

type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
}

// ID field the stores use for their own document identifier.
const storeIDField = "_id"

// formatInsertedID renders a driver-assigned id for logs.
func formatInsertedID(id any) string {
	switch v := id.(type) {
	case bson.ObjectID:
		return v.Hex()
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// observe records a store call. A miss is not counted as a failure.
func observe(backend, collection, operation string, start time.Time, err *error) {
	var opErr error
	if err != nil && !errors.Is(*err, ErrNotFound) {
		opErr = *err
	}
	metrics.RecordStoreOperation(backend, collection, operation, start, opErr)
}
