package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID     string
	Name   string
	Price  float64
	Status string
}

func testView(mode Mode) View[row] {
	return View[row]{
		Mode: mode,
		Key:  func(r row) string { return r.ID },
		Columns: []Column[row]{
			{Key: "name", Header: "Nom", Value: func(r row) any { return r.Name }, Sortable: true},
			{Key: "price", Header: "Prix", Value: func(r row) any { return r.Price }, Sortable: true},
			{Key: "status", Header: "Statut", Value: func(r row) any { return r.Status }, FilterOptions: []string{"paid", "pending"}},
		},
	}
}

func sampleRows() []row {
	return []row{
		{ID: "1", Name: "Casque", Price: 59.99, Status: "paid"},
		{ID: "2", Name: "Clavier", Price: 39.99, Status: "pending"},
		{ID: "3", Name: "Souris", Price: 19.99, Status: "paid"},
		{ID: "4", Name: "Webcam", Price: 59.99, Status: "pending"},
	}
}

func keys(r Result) []string {
	out := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		out = append(out, row.Key)
	}
	return out
}

func TestSortAscendingAndDescendingAreReverses(t *testing.T) {
	v := testView(ClientSide)
	data := sampleRows()

	asc := v.Render(data, Params{SortKey: "name"}, 0)
	desc := v.Render(data, Params{SortKey: "name", Descending: true}, 0)

	ascKeys := keys(asc)
	descKeys := keys(desc)
	require.Len(t, ascKeys, 4)
	for i := range ascKeys {
		assert.Equal(t, ascKeys[i], descKeys[len(descKeys)-1-i])
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ascKeys)
}

func TestSortIsStableOnTies(t *testing.T) {
	v := testView(ClientSide)
	data := sampleRows()

	// Deux lignes à 59.99 : l'ordre d'origine (1 avant 4) est conservé
	result := v.Render(data, Params{SortKey: "price"}, 0)
	assert.Equal(t, []string{"3", "2", "1", "4"}, keys(result))
}

func TestUnknownOrNonSortableKeyLeavesOrder(t *testing.T) {
	v := testView(ClientSide)
	data := sampleRows()

	result := v.Render(data, Params{SortKey: "status"}, 0) // non triable
	assert.Equal(t, []string{"1", "2", "3", "4"}, keys(result))

	result = v.Render(data, Params{SortKey: "inconnu"}, 0)
	assert.Equal(t, []string{"1", "2", "3", "4"}, keys(result))
}

func TestFilterAppliesBeforePagination(t *testing.T) {
	v := testView(ClientSide)
	data := sampleRows()

	result := v.Render(data, Params{
		Limit:   1,
		Filters: map[string][]string{"status": {"paid"}},
	}, 0)

	// Le total reflète l'ensemble filtré, pas la page
	assert.Equal(t, 2, result.Pagination.Total)
	assert.Equal(t, 2, result.Pagination.TotalPages)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "1", result.Rows[0].Key)
}

func TestFilterAcceptsMultipleValues(t *testing.T) {
	v := testView(ClientSide)
	data := sampleRows()

	result := v.Render(data, Params{
		Filters: map[string][]string{"status": {"paid", "pending"}},
	}, 0)
	assert.Equal(t, 4, result.Pagination.Total)
}

func TestClientSidePagination(t *testing.T) {
	v := testView(ClientSide)
	data := sampleRows()

	page2 := v.Render(data, Params{Page: 2, Limit: 3}, 0)
	assert.Equal(t, []string{"4"}, keys(page2))
	assert.Equal(t, 4, page2.Pagination.Total)
	assert.Equal(t, 2, page2.Pagination.TotalPages)

	// Page au-delà de la fin : vide, pas d'erreur
	beyond := v.Render(data, Params{Page: 9, Limit: 3}, 0)
	assert.Empty(t, beyond.Rows)
}

func TestServerSideTrustsProvidedTotal(t *testing.T) {
	v := testView(ServerSide)
	// La page courante seulement, le backend en connaît 42
	data := sampleRows()[:2]

	result := v.Render(data, Params{Page: 3, Limit: 2}, 42)

	assert.Len(t, result.Rows, 2)
	assert.Equal(t, 42, result.Pagination.Total)
	assert.Equal(t, 21, result.Pagination.TotalPages)
}

func TestParamsNormalization(t *testing.T) {
	p := normalize(Params{Page: 0, Limit: -5})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)

	p = normalize(Params{Page: 2, Limit: 5000})
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestRenderCellsAndHeaders(t *testing.T) {
	v := testView(ClientSide)
	v.Detail = func(r row) any { return r.Status }
	data := sampleRows()[:1]

	result := v.Render(data, Params{}, 0)

	assert.Equal(t, []string{"Nom", "Prix", "Statut"}, result.Headers)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Casque", result.Rows[0].Cells["name"])
	assert.Equal(t, 59.99, result.Rows[0].Cells["price"])
	assert.Equal(t, "paid", result.Rows[0].Detail)
}
