package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = "1"
	return nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.data[key]
	return ok, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) SessionKey(accessID string) string { return "ws:session:" + accessID }

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Minute}, store
}

func TestRegisterAndRevoke(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager()

	id := NewAccessID()
	require.NoError(t, mgr.Register(ctx, id))

	has, err := mgr.HasSession(ctx, id)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, mgr.Revoke(ctx, id))

	has, err = mgr.HasSession(ctx, id)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestHasSessionEmptyID(t *testing.T) {
	mgr, _ := newTestManager()
	has, err := mgr.HasSession(context.Background(), " ")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRegisterRequiresID(t *testing.T) {
	mgr, _ := newTestManager()
	assert.Error(t, mgr.Register(context.Background(), ""))
}
