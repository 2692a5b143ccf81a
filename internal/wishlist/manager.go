package wishlist

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"lumera_back_end/internal/storage"
)

const WishlistTTL = 30 * 24 * time.Hour // 30 jours, aligné sur le panier

// Manager persiste la wishlist sous forme de tableau JSON d'ids
type Manager struct {
	store *storage.Store
}

func NewManager(store *storage.Store) *Manager {
	return &Manager{store: store}
}

// Get charge la wishlist d'un utilisateur (vide si absente ou corrompue)
func (m *Manager) Get(ctx context.Context, userID string) *Wishlist {
	raw, ok := m.store.Load(ctx, storage.WishlistKey(userID))
	if !ok {
		return New()
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		log.Printf("⚠️ Wishlist illisible pour %s, réinitialisation", userID)
		m.store.Clear(ctx, storage.WishlistKey(userID))
		return New()
	}
	return FromIDs(ids)
}

// Save persiste la wishlist (tableau d'ids)
func (m *Manager) Save(ctx context.Context, userID string, w *Wishlist) {
	m.store.Save(ctx, storage.WishlistKey(userID), w.IDs(), WishlistTTL)
}

// Clear supprime la wishlist persistée
func (m *Manager) Clear(ctx context.Context, userID string) {
	m.store.Clear(ctx, storage.WishlistKey(userID))
}
