package session

import (
	"context"
	"errors"
	"testing"

	"lumera_back_end/internal/cart"
	"lumera_back_end/internal/models"
	"lumera_back_end/internal/storage"
	"lumera_back_end/internal/utils"
	"lumera_back_end/internal/wishlist"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserStore sert de source de vérité en mémoire pour les comptes
type fakeUserStore struct {
	byEmail map[string]models.User
	updated []models.User
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return models.User{}, errors.New("utilisateur introuvable")
	}
	return user, nil
}

func (f *fakeUserStore) Update(ctx context.Context, user models.User) error {
	f.updated = append(f.updated, user)
	return nil
}

func newTestManager(t *testing.T, users UserStore) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := storage.New(rdb)
	carts := cart.NewManager(store, rdb)
	wishlists := wishlist.NewManager(store)
	return NewManager(store, users, carts, wishlists), mr
}

func testUser(t *testing.T, password string) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return models.User{
		ID:       "u1",
		Email:    "alice@lumera.shop",
		Name:     "Alice",
		Password: hash,
		Role:     models.RoleCustomer,
	}
}

func TestLoginSuccess(t *testing.T) {
	user := testUser(t, "motdepasse")
	m, mr := newTestManager(t, &fakeUserStore{byEmail: map[string]models.User{user.Email: user}})

	sess, token, err := m.Login(context.Background(), user.Email, "motdepasse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, user.Email, sess.Email)
	assert.Equal(t, models.RoleCustomer, sess.Role)

	// La session est persistée et rechargeable
	assert.True(t, mr.Exists(storage.SessionKey("u1")))
	current, ok := m.Current(context.Background(), "u1")
	require.True(t, ok)
	assert.Equal(t, sess.Email, current.Email)
}

func TestLoginUnknownEmail(t *testing.T) {
	m, _ := newTestManager(t, &fakeUserStore{byEmail: map[string]models.User{}})

	_, _, err := m.Login(context.Background(), "inconnu@lumera.shop", "motdepasse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	user := testUser(t, "motdepasse")
	m, _ := newTestManager(t, &fakeUserStore{byEmail: map[string]models.User{user.Email: user}})

	_, _, err := m.Login(context.Background(), user.Email, "mauvais")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginOverwritesPreviousSession(t *testing.T) {
	user := testUser(t, "motdepasse")
	m, _ := newTestManager(t, &fakeUserStore{byEmail: map[string]models.User{user.Email: user}})
	ctx := context.Background()

	first, _, err := m.Login(ctx, user.Email, "motdepasse")
	require.NoError(t, err)
	second, _, err := m.Login(ctx, user.Email, "motdepasse")
	require.NoError(t, err)

	current, ok := m.Current(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, second.CreatedAt.Unix(), current.CreatedAt.Unix())
	assert.False(t, current.CreatedAt.Before(first.CreatedAt))
}

func TestLogoutClearsEverything(t *testing.T) {
	user := testUser(t, "motdepasse")
	m, mr := newTestManager(t, &fakeUserStore{byEmail: map[string]models.User{user.Email: user}})
	ctx := context.Background()

	_, _, err := m.Login(ctx, user.Email, "motdepasse")
	require.NoError(t, err)
	require.NoError(t, mr.Set(storage.CartKey("u1"), `{"v":1,"data":[]}`))
	require.NoError(t, mr.Set(storage.WishlistKey("u1"), `{"v":1,"data":["p1"]}`))

	m.Logout(ctx, "u1")

	assert.False(t, mr.Exists(storage.SessionKey("u1")))
	assert.False(t, mr.Exists(storage.CartKey("u1")))
	assert.False(t, mr.Exists(storage.WishlistKey("u1")))

	_, ok := m.Current(ctx, "u1")
	assert.False(t, ok)
}

func TestUpdateUserMergesAndPersists(t *testing.T) {
	user := testUser(t, "motdepasse")
	store := &fakeUserStore{byEmail: map[string]models.User{user.Email: user}}
	m, _ := newTestManager(t, store)
	ctx := context.Background()

	_, _, err := m.Login(ctx, user.Email, "motdepasse")
	require.NoError(t, err)

	newName := "Alice Martin"
	sess, err := m.UpdateUser(ctx, "u1", Updates{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Alice Martin", sess.Name)

	// Répercuté en base
	require.Len(t, store.updated, 1)
	assert.Equal(t, "Alice Martin", store.updated[0].Name)

	// Et visible après rechargement
	current, ok := m.Current(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, "Alice Martin", current.Name)
}

func TestUpdateUserWithoutSession(t *testing.T) {
	m, _ := newTestManager(t, &fakeUserStore{byEmail: map[string]models.User{}})

	name := "Alice"
	_, err := m.UpdateUser(context.Background(), "u1", Updates{Name: &name})
	assert.Error(t, err)
}

func TestCorruptSessionTreatedAsAbsent(t *testing.T) {
	m, mr := newTestManager(t, &fakeUserStore{byEmail: map[string]models.User{}})
	ctx := context.Background()

	require.NoError(t, mr.Set(storage.SessionKey("u1"), `{"v":1,"data":"pas un objet"}`))

	_, ok := m.Current(ctx, "u1")
	assert.False(t, ok)
	assert.False(t, mr.Exists(storage.SessionKey("u1")))
}

func TestHasPermission(t *testing.T) {
	admin := &Session{UserID: "u1", Role: models.RoleAdmin}
	customer := &Session{UserID: "u2", Role: models.RoleCustomer}
	var anonymous *Session

	// Hiérarchie : admin satisfait toute exigence
	assert.True(t, admin.HasPermission(models.RoleAdmin))
	assert.True(t, admin.HasPermission(models.RoleCustomer))

	assert.True(t, customer.HasPermission(models.RoleCustomer))
	assert.False(t, customer.HasPermission(models.RoleAdmin))

	assert.False(t, anonymous.HasPermission(models.RoleCustomer))
	assert.False(t, anonymous.IsAuthenticated())
	assert.True(t, admin.IsAdmin())
	assert.True(t, customer.IsUser())
}
