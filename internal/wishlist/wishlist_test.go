package wishlist

import (
	"context"
	"testing"

	"lumera_back_end/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIsIdempotent(t *testing.T) {
	w := New()

	w.Add("p1")
	w.Add("p1")
	w.Add("p2")

	assert.Equal(t, []string{"p1", "p2"}, w.IDs())
	assert.Equal(t, 2, w.Size())
}

func TestAddIgnoresEmptyID(t *testing.T) {
	w := New()
	w.Add("")
	assert.Empty(t, w.IDs())
}

func TestToggleIsAnInvolution(t *testing.T) {
	w := New()

	assert.True(t, w.Toggle("p1"))
	assert.True(t, w.Contains("p1"))

	assert.False(t, w.Toggle("p1"))
	assert.False(t, w.Contains("p1"))
	assert.Empty(t, w.IDs())
}

func TestRemovePreservesOrder(t *testing.T) {
	w := FromIDs([]string{"p1", "p2", "p3"})

	w.Remove("p2")

	assert.Equal(t, []string{"p1", "p3"}, w.IDs())
	w.Remove("inconnu") // no-op
	assert.Equal(t, []string{"p1", "p3"}, w.IDs())
}

func TestFromIDsDeduplicates(t *testing.T) {
	w := FromIDs([]string{"p1", "p2", "p1", "p3", "p2"})

	assert.Equal(t, []string{"p1", "p2", "p3"}, w.IDs())
}

func TestClear(t *testing.T) {
	w := FromIDs([]string{"p1", "p2"})
	w.Clear()

	assert.Empty(t, w.IDs())
	assert.False(t, w.Contains("p1"))

	// Réutilisable après Clear
	w.Add("p4")
	assert.Equal(t, []string{"p4"}, w.IDs())
}

func TestManagerSaveAndReload(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	m := NewManager(storage.New(rdb))
	ctx := context.Background()

	w := FromIDs([]string{"p1", "p2"})
	m.Save(ctx, "u1", w)

	reloaded := m.Get(ctx, "u1")
	assert.Equal(t, []string{"p1", "p2"}, reloaded.IDs())

	m.Clear(ctx, "u1")
	assert.False(t, mr.Exists(storage.WishlistKey("u1")))
	assert.Empty(t, m.Get(ctx, "u1").IDs())
}

func TestManagerCorruptWishlistResets(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	m := NewManager(storage.New(rdb))
	ctx := context.Background()

	require.NoError(t, mr.Set(storage.WishlistKey("u1"), `{"v":1,"data":42}`))

	w := m.Get(ctx, "u1")
	assert.Empty(t, w.IDs())
	assert.False(t, mr.Exists(storage.WishlistKey("u1")))
}
