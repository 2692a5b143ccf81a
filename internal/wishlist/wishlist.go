// Package wishlist implémente la liste d'envies : un ensemble
// d'identifiants produit à unicité garantie. L'ordre d'insertion est
// conservé pour l'affichage mais n'est pas un invariant.
package wishlist

type Wishlist struct {
	ids   []string
	index map[string]struct{}
}

func New() *Wishlist {
	return &Wishlist{index: make(map[string]struct{})}
}

// FromIDs reconstruit la wishlist depuis son état persisté,
// en éliminant les doublons éventuels
func FromIDs(ids []string) *Wishlist {
	w := New()
	for _, id := range ids {
		w.Add(id)
	}
	return w
}

// IDs retourne les identifiants dans l'ordre d'insertion
func (w *Wishlist) IDs() []string {
	if w.ids == nil {
		return []string{}
	}
	return w.ids
}

// Add est idempotent
func (w *Wishlist) Add(productID string) {
	if productID == "" {
		return
	}
	if _, ok := w.index[productID]; ok {
		return
	}
	w.index[productID] = struct{}{}
	w.ids = append(w.ids, productID)
}

// Remove est idempotent (no-op si absent)
func (w *Wishlist) Remove(productID string) {
	if _, ok := w.index[productID]; !ok {
		return
	}
	delete(w.index, productID)
	kept := w.ids[:0]
	for _, id := range w.ids {
		if id != productID {
			kept = append(kept, id)
		}
	}
	w.ids = kept
}

// Toggle ajoute si absent, retire si présent. Retourne true si le
// produit est dans la liste après l'appel.
func (w *Wishlist) Toggle(productID string) bool {
	if w.Contains(productID) {
		w.Remove(productID)
		return false
	}
	w.Add(productID)
	return w.Contains(productID)
}

func (w *Wishlist) Clear() {
	w.ids = nil
	w.index = make(map[string]struct{})
}

func (w *Wishlist) Contains(productID string) bool {
	_, ok := w.index[productID]
	return ok
}

func (w *Wishlist) Size() int {
	return len(w.ids)
}
