package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb), mr
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	value := map[string]any{"name": "Casque audio", "qty": float64(2)}
	require.NoError(t, store.Save(ctx, "cart:u1", value, time.Hour))

	// La valeur stockée porte l'enveloppe versionnée
	stored, err := mr.Get("cart:u1")
	require.NoError(t, err)
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(stored), &env))
	assert.Contains(t, env, "v")
	assert.Contains(t, env, "data")

	raw, ok := store.Load(ctx, "cart:u1")
	require.True(t, ok)
	var loaded map[string]any
	require.NoError(t, json.Unmarshal(raw, &loaded))
	assert.Equal(t, value, loaded)
}

func TestLoadMissingKey(t *testing.T) {
	store, _ := newTestStore(t)

	raw, ok := store.Load(context.Background(), "cart:inconnu")
	assert.False(t, ok)
	assert.Nil(t, raw)
}

func TestCorruptValueSelfHeals(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("cart:u1", "{pas du json"))

	_, ok := store.Load(ctx, "cart:u1")
	assert.False(t, ok)

	// La clé corrompue a été supprimée, pas laissée en place
	assert.False(t, mr.Exists("cart:u1"))
}

func TestLegacyValueWithoutEnvelope(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	// Valeur historique : tableau JSON nu, sans enveloppe
	require.NoError(t, mr.Set("wishlist:u1", `["p1","p2"]`))

	raw, ok := store.Load(ctx, "wishlist:u1")
	require.True(t, ok)

	var ids []string
	require.NoError(t, json.Unmarshal(raw, &ids))
	assert.Equal(t, []string{"p1", "p2"}, ids)
}

func TestClearIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "session:u1", map[string]string{"a": "b"}, time.Hour))
	require.NoError(t, store.Clear(ctx, "session:u1"))
	require.NoError(t, store.Clear(ctx, "session:u1"))

	_, ok := store.Load(ctx, "session:u1")
	assert.False(t, ok)
}

func TestSaveSetsTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "cart:u1", []string{}, 30*time.Minute))
	assert.Equal(t, 30*time.Minute, mr.TTL("cart:u1"))
}
