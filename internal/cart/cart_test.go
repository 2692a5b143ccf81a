package cart

import (
	"context"
	"testing"

	"lumera_back_end/internal/models"
	"lumera_back_end/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(t *testing.T, name string, price float64, stock int) models.Product {
	t.Helper()
	return models.Product{
		ID:    gocql.TimeUUID(),
		Name:  name,
		Price: price,
		Stock: stock,
	}
}

func TestAddItemMergesQuantities(t *testing.T) {
	c := New()
	p := product(t, "Casque", 59.99, 10)

	c.AddItem(p, 2)
	c.AddItem(p, 3)

	require.Len(t, c.Items(), 1)
	assert.Equal(t, 5, c.Items()[0].Quantity)
	assert.Equal(t, 5, c.Count())
}

func TestAddItemBeyondStockIsNoOp(t *testing.T) {
	c := New()
	p := product(t, "Casque", 59.99, 3)

	c.AddItem(p, 2)
	c.AddItem(p, 2) // 2+2 > 3, rejeté

	require.Len(t, c.Items(), 1)
	assert.Equal(t, 2, c.Items()[0].Quantity)

	// Premier ajout déjà au-dessus du stock : rien n'entre
	c2 := New()
	c2.AddItem(p, 5)
	assert.Empty(t, c2.Items())
}

func TestAddItemIgnoresNonPositiveQuantity(t *testing.T) {
	c := New()
	p := product(t, "Casque", 59.99, 10)

	c.AddItem(p, 0)
	c.AddItem(p, -1)

	assert.Empty(t, c.Items())
}

func TestUpdateQuantityClampsToStock(t *testing.T) {
	c := New()
	p := product(t, "Casque", 59.99, 4)
	c.AddItem(p, 1)

	c.UpdateQuantity(p.ID.String(), 99)

	assert.Equal(t, 4, c.QuantityOf(p.ID.String()))
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	c := New()
	p := product(t, "Casque", 59.99, 4)
	c.AddItem(p, 2)

	c.UpdateQuantity(p.ID.String(), 0)

	assert.False(t, c.IsInCart(p.ID.String()))
	assert.Empty(t, c.Items())
}

func TestInsertionOrderPreserved(t *testing.T) {
	c := New()
	a := product(t, "A", 10, 10)
	b := product(t, "B", 20, 10)
	d := product(t, "D", 30, 10)

	c.AddItem(a, 1)
	c.AddItem(b, 1)
	c.AddItem(d, 1)
	c.AddItem(a, 1) // fusion, ne change pas la position

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, a.ID.String(), items[0].ProductID)
	assert.Equal(t, b.ID.String(), items[1].ProductID)
	assert.Equal(t, d.ID.String(), items[2].ProductID)
}

func TestTotalAndCount(t *testing.T) {
	c := New()
	a := product(t, "A", 10.50, 10)
	b := product(t, "B", 4.25, 10)

	c.AddItem(a, 2)
	c.AddItem(b, 3)

	assert.InDelta(t, 2*10.50+3*4.25, c.Total(), 0.001)
	assert.Equal(t, 5, c.Count())

	c.Clear()
	assert.Zero(t, c.Total())
	assert.Zero(t, c.Count())
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	c := New()
	p := product(t, "Casque", 59.99, 10)
	c.AddItem(p, 1)

	c.RemoveItem(p.ID.String())
	c.RemoveItem(p.ID.String())

	assert.Empty(t, c.Items())
}

func TestManagerSaveAndReload(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	m := NewManager(storage.New(rdb), rdb)
	ctx := context.Background()

	p := product(t, "Casque", 59.99, 10)
	c := New()
	c.AddItem(p, 2)
	m.Save(ctx, "u1", c)

	reloaded := m.Get(ctx, "u1")
	require.Len(t, reloaded.Items(), 1)
	assert.Equal(t, p.ID.String(), reloaded.Items()[0].ProductID)
	assert.Equal(t, 2, reloaded.Items()[0].Quantity)
	assert.InDelta(t, 59.99, reloaded.Items()[0].UnitPrice, 0.001)
}

func TestManagerCorruptCartResets(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	m := NewManager(storage.New(rdb), rdb)
	ctx := context.Background()

	// JSON valide mais pas un tableau de lignes
	require.NoError(t, mr.Set(storage.CartKey("u1"), `{"v":1,"data":{"pas":"un tableau"}}`))

	c := m.Get(ctx, "u1")
	assert.Empty(t, c.Items())

	// La clé illisible a été purgée
	assert.False(t, mr.Exists(storage.CartKey("u1")))
}

func TestManagerClearRemovesKey(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	m := NewManager(storage.New(rdb), rdb)
	ctx := context.Background()

	c := New()
	c.AddItem(product(t, "Casque", 59.99, 10), 1)
	m.Save(ctx, "u1", c)
	m.Clear(ctx, "u1")

	assert.False(t, mr.Exists(storage.CartKey("u1")))
	assert.Empty(t, m.Get(ctx, "u1").Items())
}
