// Package storage encapsule la persistance de l'état client
// (panier, wishlist, session) dans Redis. Chaque clé est sauvegardée
// indépendamment : il n'y a aucune garantie transactionnelle entre
// deux clés, chacune étant reconstructible côté backend.
package storage

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// SchemaVersion est la version de l'enveloppe {"v":1,"data":...}.
// Les valeurs historiques sans enveloppe restent lisibles.
const SchemaVersion = 1

const (
	cartKeyPrefix     = "cart:"
	wishlistKeyPrefix = "wishlist:"
	sessionKeyPrefix  = "session:"
)

func CartKey(userID string) string     { return cartKeyPrefix + userID }
func WishlistKey(userID string) string { return wishlistKeyPrefix + userID }
func SessionKey(userID string) string  { return sessionKeyPrefix + userID }

type envelope struct {
	V    int             `json:"v"`
	Data json.RawMessage `json:"data"`
}

type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Load récupère la valeur stockée sous une clé. Un contenu corrompu
// est auto-réparé : la clé est supprimée et la valeur traitée comme
// absente, jamais remontée en erreur à l'appelant.
func (s *Store) Load(ctx context.Context, key string) (json.RawMessage, bool) {
	data, err := s.rdb.Get(ctx, key).Result()
	if err != nil || data == "" {
		return nil, false
	}

	raw := []byte(data)
	if !json.Valid(raw) {
		log.Printf("⚠️ Contenu corrompu pour la clé %s, suppression", key)
		s.rdb.Del(ctx, key)
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.V >= SchemaVersion && env.Data != nil {
		return env.Data, true
	}

	// Valeur historique sans enveloppe (rétrocompatibilité)
	return raw, true
}

// Save écrit la valeur sous enveloppe versionnée. L'écriture est
// "fire-and-forget" côté mutation : l'erreur est loguée, pas propagée.
func (s *Store) Save(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("⚠️ Erreur sérialisation pour la clé %s: %v", key, err)
		return err
	}

	env, err := json.Marshal(envelope{V: SchemaVersion, Data: data})
	if err != nil {
		return err
	}

	if err := s.rdb.Set(ctx, key, env, ttl).Err(); err != nil {
		log.Printf("⚠️ Erreur sauvegarde pour la clé %s: %v", key, err)
		return err
	}
	return nil
}

// Clear supprime la clé (no-op si absente)
func (s *Store) Clear(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
