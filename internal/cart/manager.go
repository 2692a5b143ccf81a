package cart

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"lumera_back_end/internal/models"
	"lumera_back_end/internal/storage"

	"github.com/redis/go-redis/v9"
)

const CartTTL = 30 * 24 * time.Hour // 30 jours

// Manager lie le panier pur au store persistant : chargement au début
// de la requête, sauvegarde après chaque mutation, notification
// pub/sub pour la synchronisation temps réel.
type Manager struct {
	store *storage.Store
	rdb   *redis.Client
}

func NewManager(store *storage.Store, rdb *redis.Client) *Manager {
	return &Manager{store: store, rdb: rdb}
}

// Get charge le panier d'un utilisateur (vide si absent ou corrompu)
func (m *Manager) Get(ctx context.Context, userID string) *Cart {
	raw, ok := m.store.Load(ctx, storage.CartKey(userID))
	if !ok {
		return New()
	}

	var items []models.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("⚠️ Panier illisible pour %s, réinitialisation", userID)
		m.store.Clear(ctx, storage.CartKey(userID))
		return New()
	}
	return FromItems(items)
}

// Save persiste le panier et publie la notification de mise à jour
func (m *Manager) Save(ctx context.Context, userID string, c *Cart) {
	m.store.Save(ctx, storage.CartKey(userID), c.Items(), CartTTL)
	m.rdb.Publish(ctx, storage.CartKey(userID), "updated")
}

// Clear vide et supprime le panier persisté
func (m *Manager) Clear(ctx context.Context, userID string) {
	m.store.Clear(ctx, storage.CartKey(userID))
	m.rdb.Publish(ctx, storage.CartKey(userID), "cleared")
}
