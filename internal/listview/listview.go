// Package listview est la vue tabulaire générique utilisée par tous
// les écrans d'administration : colonnes déclaratives, tri stable,
// filtres par colonne, pagination côté client ou côté serveur, et
// lignes dépliables.
package listview

import (
	"fmt"
	"sort"
	"time"

	"lumera_back_end/internal/models"
)

type Mode int

const (
	// ClientSide : le composant filtre, trie et découpe lui-même
	// le tableau complet qu'on lui donne
	ClientSide Mode = iota
	// ServerSide : le tableau reçu est déjà la page courante, la
	// pagination est déléguée à l'appelant (total fourni à part)
	ServerSide
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Column décrit une colonne : extraction de la valeur, tri optionnel,
// valeurs de filtre optionnelles
type Column[T any] struct {
	Key           string
	Header        string
	Value         func(T) any
	Sortable      bool
	FilterOptions []string
}

// Params porte l'état de la vue demandée par le client
type Params struct {
	Page       int
	Limit      int
	SortKey    string
	Descending bool
	Filters    map[string][]string
}

type Row struct {
	Key    string         `json:"key"`
	Cells  map[string]any `json:"cells"`
	Detail any            `json:"detail,omitempty"`
}

type Result struct {
	Headers    []string          `json:"headers"`
	Rows       []Row             `json:"rows"`
	Pagination models.Pagination `json:"pagination"`
}

// View lie les colonnes à un type de ligne. Key identifie chaque
// ligne, Detail (optionnel) fournit le contenu dépliable.
type View[T any] struct {
	Columns []Column[T]
	Key     func(T) string
	Detail  func(T) any
	Mode    Mode
}

// Render produit la page demandée. En mode ServerSide, total est le
// nombre total d'éléments côté backend ; en ClientSide il est ignoré
// et recalculé après filtrage.
func (v View[T]) Render(data []T, p Params, total int) Result {
	p = normalize(p)

	rows := data
	if v.Mode == ClientSide {
		rows = v.filter(rows, p.Filters)
		total = len(rows)
	}

	rows = v.sort(rows, p)

	if v.Mode == ClientSide {
		rows = paginate(rows, p.Page, p.Limit)
	}

	result := Result{
		Headers: make([]string, 0, len(v.Columns)),
		Rows:    make([]Row, 0, len(rows)),
		Pagination: models.Pagination{
			Page:       p.Page,
			Total:      total,
			TotalPages: totalPages(total, p.Limit),
		},
	}
	for _, col := range v.Columns {
		result.Headers = append(result.Headers, col.Header)
	}

	for _, item := range rows {
		row := Row{
			Key:   v.Key(item),
			Cells: make(map[string]any, len(v.Columns)),
		}
		for _, col := range v.Columns {
			row.Cells[col.Key] = col.Value(item)
		}
		if v.Detail != nil {
			row.Detail = v.Detail(item)
		}
		result.Rows = append(result.Rows, row)
	}

	return result
}

// filter applique un test d'appartenance par colonne, avant pagination
func (v View[T]) filter(data []T, filters map[string][]string) []T {
	if len(filters) == 0 {
		return data
	}

	kept := make([]T, 0, len(data))
	for _, item := range data {
		match := true
		for key, wanted := range filters {
			col, ok := v.column(key)
			if !ok || len(wanted) == 0 {
				continue
			}
			cell := fmt.Sprint(col.Value(item))
			found := false
			for _, w := range wanted {
				if cell == w {
					found = true
					break
				}
			}
			if !found {
				match = false
				break
			}
		}
		if match {
			kept = append(kept, item)
		}
	}
	return kept
}

// sort trie de façon stable : les égalités conservent l'ordre d'insertion
func (v View[T]) sort(data []T, p Params) []T {
	if p.SortKey == "" {
		return data
	}
	col, ok := v.column(p.SortKey)
	if !ok || !col.Sortable {
		return data
	}

	sorted := make([]T, len(data))
	copy(sorted, data)
	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := compare(col.Value(sorted[i]), col.Value(sorted[j]))
		if p.Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return sorted
}

func (v View[T]) column(key string) (Column[T], bool) {
	for _, col := range v.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column[T]{}, false
}

func normalize(p Params) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func paginate[T any](data []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(data) {
		return nil
	}
	end := start + limit
	if end > len(data) {
		end = len(data)
	}
	return data[start:end]
}

func totalPages(total, limit int) int {
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// compare ordonne les valeurs de cellule selon leur type sous-jacent
func compare(a, b any) int {
	switch av := a.(type) {
	case nil:
		if b == nil {
			return 0
		}
		return -1
	case int:
		return compareFloat(float64(av), toFloat(b))
	case int64:
		return compareFloat(float64(av), toFloat(b))
	case float64:
		return compareFloat(av, toFloat(b))
	case string:
		bv := fmt.Sprint(b)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv, _ := b.(bool)
		switch {
		case !av && bv:
			return -1
		case av && !bv:
			return 1
		}
		return 0
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0
		}
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	default:
		return compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
