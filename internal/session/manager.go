package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"lumera_back_end/internal/cart"
	"lumera_back_end/internal/models"
	"lumera_back_end/internal/storage"
	"lumera_back_end/internal/utils"
	"lumera_back_end/internal/wishlist"
)

const SessionTTL = 24 * time.Hour // aligné sur l'expiration du JWT

var ErrInvalidCredentials = errors.New("email ou mot de passe incorrect")

// UserStore est le collaborateur qui fait foi pour les comptes.
// La session ne fabrique jamais d'identité : un email inconnu ou un
// mot de passe invalide est un échec d'authentification.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Update(ctx context.Context, user models.User) error
}

// persistedSession est la forme stockée sous la clé session:<userID>
type persistedSession struct {
	User  Session `json:"user"`
	Token string  `json:"token"`
}

type Manager struct {
	store     *storage.Store
	users     UserStore
	carts     *cart.Manager
	wishlists *wishlist.Manager
}

func NewManager(store *storage.Store, users UserStore, carts *cart.Manager, wishlists *wishlist.Manager) *Manager {
	return &Manager{store: store, users: users, carts: carts, wishlists: wishlists}
}

// Login vérifie les identifiants auprès du UserStore et ouvre une
// session neuve (l'éventuelle session précédente est écrasée en bloc)
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, string, error) {
	user, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}

	sess := &Session{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: time.Now(),
	}

	m.store.Save(ctx, storage.SessionKey(user.ID), persistedSession{User: *sess, Token: token}, SessionTTL)
	log.Printf("🔓 Session ouverte pour %s", user.Email)

	return sess, token, nil
}

// Open persiste une session déjà authentifiée (inscription, OAuth)
func (m *Manager) Open(ctx context.Context, user models.User, token string) *Session {
	sess := &Session{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: time.Now(),
	}
	m.store.Save(ctx, storage.SessionKey(user.ID), persistedSession{User: *sess, Token: token}, SessionTTL)
	return sess
}

// Current recharge la session persistée (absente si corrompue ou expirée)
func (m *Manager) Current(ctx context.Context, userID string) (*Session, bool) {
	raw, ok := m.store.Load(ctx, storage.SessionKey(userID))
	if !ok {
		return nil, false
	}

	var ps persistedSession
	if err := json.Unmarshal(raw, &ps); err != nil {
		m.store.Clear(ctx, storage.SessionKey(userID))
		return nil, false
	}
	return &ps.User, true
}

// Logout est une remise à zéro totale de l'état client : session,
// panier et wishlist sont effacés ensemble. C'est la seule opération
// qui traverse les trois conteneurs.
func (m *Manager) Logout(ctx context.Context, userID string) {
	m.store.Clear(ctx, storage.SessionKey(userID))
	m.carts.Clear(ctx, userID)
	m.wishlists.Clear(ctx, userID)
	log.Printf("🔒 Session, panier et wishlist effacés pour %s", userID)
}

// Updates décrit une mise à jour partielle du profil
type Updates struct {
	Name *string `json:"name,omitempty"`
}

// UpdateUser fusionne les champs fournis dans la session courante,
// répercute en base et re-persiste la session
func (m *Manager) UpdateUser(ctx context.Context, userID string, updates Updates) (*Session, error) {
	raw, ok := m.store.Load(ctx, storage.SessionKey(userID))
	if !ok {
		return nil, errors.New("aucune session active")
	}

	var ps persistedSession
	if err := json.Unmarshal(raw, &ps); err != nil {
		m.store.Clear(ctx, storage.SessionKey(userID))
		return nil, errors.New("session illisible")
	}

	if updates.Name != nil {
		ps.User.Name = *updates.Name
	}

	if err := m.users.Update(ctx, models.User{
		ID:    ps.User.UserID,
		Email: ps.User.Email,
		Name:  ps.User.Name,
		Role:  ps.User.Role,
	}); err != nil {
		return nil, err
	}

	m.store.Save(ctx, storage.SessionKey(userID), ps, SessionTTL)
	return &ps.User, nil
}
