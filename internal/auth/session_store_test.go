package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum/internal/cache"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client), mr
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	err := store.Save(ctx, &Session{ID: "abc", UserID: 3, Username: "bob"}, time.Hour)
	require.NoError(t, err)
	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, &Session{ID: "abc", UserID: 3, Username: "bob"}, got)

	removed, err := store.Delete(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, removed)

	got, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Session{ID: "abc", UserID: 1}, time.Minute))
	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_RedisDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, err := store.Get(context.Background(), "abc")
	assert.Error(t, err)
	err = store.Save(context.Background(), &Session{ID: "abc"}, time.Minute)
	assert.Error(t, err)
}
