package statuscheck

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/docstore"
	"github.com/karthikgoud24/NeoGarden-Enhanced/pkg/models"
)

func newLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newStore(t *testing.T) *docstore.BadgerStore {
	t.Helper()
	store := docstore.NewBadgerStore(docstore.BadgerConfig{InMemory: true}, newLogger())
	require.NoError(t, store.Start(context.Background()))
	t.Cleanup(func() { _ = store.Stop(context.Background()) })
	return store
}

func TestRepository_CreateAndList(t *testing.T) {
	store := newStore(t)
	repo := NewRepository(store, 1000, newLogger())
	ctx := context.Background()

	created := time.Date(2024, 1, 2, 3, 4, 5, 600000000, time.UTC)
	require.NoError(t, repo.Create(ctx, models.StatusCheck{ID: "s-1", ClientName: "web", Timestamp: created}))
	require.NoError(t, repo.Create(ctx, models.StatusCheck{ID: "s-2", ClientName: "cli", Timestamp: created.Add(time.Second)}))

	raw, err := store.Collection(statusChecksCollection).FindOne(ctx, docstore.Filter{"id": "s-1"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T03:04:05.600000+00:00", raw.Lookup("timestamp").StringValue())

	checks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, checks, 2)
	assert.Equal(t, "s-1", checks[0].ID)
	assert.Equal(t, "web", checks[0].ClientName)
	assert.True(t, created.Equal(checks[0].Timestamp))
	assert.Equal(t, "s-2", checks[1].ID)
}

func TestRepository_ListHonoursFetchLimit(t *testing.T) {
	store := newStore(t)
	repo := NewRepository(store, 3, newLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, models.StatusCheck{ID: string(rune('a' + i)), ClientName: "c", Timestamp: time.Now()}))
	}

	checks, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, checks, 3)
}

func TestRepository_ListReadsLegacyDocuments(t *testing.T) {
	store := newStore(t)
	repo := NewRepository(store, 1000, newLogger())
	ctx := context.Background()
	coll := store.Collection(statusChecksCollection)

	when := time.Date(2023, 7, 1, 8, 0, 0, 0, time.UTC)
	_, err := coll.InsertOne(ctx, bson.M{"id": "naive", "client_name": "py", "timestamp": "2023-07-01T08:00:00"})
	require.NoError(t, err)
	_, err = coll.InsertOne(ctx, bson.M{"id": "native", "client_name": "py", "timestamp": bson.NewDateTimeFromTime(when), "extra": 1})
	require.NoError(t, err)

	checks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, checks, 2)
	assert.True(t, when.Equal(checks[0].Timestamp))
	assert.True(t, when.Equal(checks[1].Timestamp))
}

func TestRepository_ListRejectsUnreadableTimestamp(t *testing.T) {
	store := newStore(t)
	repo := NewRepository(store, 1000, newLogger())
	ctx := context.Background()

	_, err := store.Collection(statusChecksCollection).InsertOne(ctx, bson.M{"id": "bad", "client_name": "x", "timestamp": "soon"})
	require.NoError(t, err)

	_, err = repo.List(ctx)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, httperror.GetStatusCode(err))
}

type brokenStore struct{}

func (brokenStore) Collection(name string) docstore.Collection { return brokenCollection{} }
func (brokenStore) Ping(ctx context.Context) error              { return errors.New("down") }

type brokenCollection struct{}

func (brokenCollection) InsertOne(ctx context.Context, doc any) (docstore.InsertResult, error) {
	return docstore.InsertResult{}, errors.New("connection refused")
}
func (brokenCollection) Find(ctx context.Context, filter docstore.Filter, limit int64) ([]bson.Raw, error) {
	return nil, errors.New("connection refused")
}
func (brokenCollection) FindOne(ctx context.Context, filter docstore.Filter) (bson.Raw, error) {
	return nil, errors.New("connection refused")
}
func (brokenCollection) DeleteOne(ctx context.Context, filter docstore.Filter) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestRepository_StoreUnavailable(t *testing.T) {
	repo := NewRepository(brokenStore{}, 1000, newLogger())
	ctx := context.Background()

	err := repo.Create(ctx, models.StatusCheck{ID: "s"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, httperror.GetStatusCode(err))

	_, err = repo.List(ctx)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, httperror.GetStatusCode(err))
}
