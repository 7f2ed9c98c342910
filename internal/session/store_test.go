package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCache хранит значения в памяти, имитируя redis-обёртку.
type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, result any) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func TestStore_SaveAndAuthHeader(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFakeCache(), time.Hour)

	err := store.Save(ctx, "user", "petar", "access-1", "refresh-1",
		map[string]any{"email": "petar@example.com"})
	require.NoError(t, err)

	header, err := store.AuthHeader(ctx, "user", "petar")
	require.NoError(t, err)
	assert.Equal(t, "Bearer access-1", header)

	sess, err := store.Get(ctx, "user", "petar")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "refresh-1", sess.RefreshToken)
	assert.Equal(t, "petar@example.com", sess.Identity["email"])
}

func TestStore_SaveOverwritesPreviousSession(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFakeCache(), time.Hour)

	require.NoError(t, store.Save(ctx, "user", "petar", "old", "old-r", nil))
	require.NoError(t, store.Save(ctx, "user", "petar", "new", "new-r", nil))

	sess, err := store.Get(ctx, "user", "petar")
	require.NoError(t, err)
	assert.Equal(t, "new", sess.AccessToken)
	assert.Equal(t, "new-r", sess.RefreshToken)
}

func TestStore_RolesAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFakeCache(), time.Hour)

	require.NoError(t, store.Save(ctx, "user", "petar", "user-access", "user-refresh", nil))
	require.NoError(t, store.Save(ctx, "administrator", "petar", "admin-access", "admin-refresh", nil))

	// Сброс пользовательской сессии не трогает административную.
	require.NoError(t, store.Clear(ctx, "user", "petar"))

	header, err := store.AuthHeader(ctx, "user", "petar")
	require.NoError(t, err)
	assert.Equal(t, AnonymousHeader, header)

	header, err = store.AuthHeader(ctx, "administrator", "petar")
	require.NoError(t, err)
	assert.Equal(t, "Bearer admin-access", header)
}

func TestStore_AuthHeaderWithoutSession(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFakeCache(), time.Hour)

	header, err := store.AuthHeader(ctx, "user", "nobody")
	require.NoError(t, err)
	assert.Equal(t, AnonymousHeader, header)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newFakeCache(), time.Hour)

	require.NoError(t, store.Save(ctx, "user", "petar", "a", "r", nil))
	require.NoError(t, store.Clear(ctx, "user", "petar"))
	require.NoError(t, store.Clear(ctx, "user", "petar"))

	sess, err := store.Get(ctx, "user", "petar")
	require.NoError(t, err)
	assert.Nil(t, sess)
}
