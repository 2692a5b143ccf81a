package services

import (
	"context"
	"errors"
	"time"

	"lumera_back_end/internal/cache"
	"lumera_back_end/internal/database"
	"lumera_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("utilisateur introuvable")

// ScyllaUserStore fait foi pour les comptes : lookup par email via la
// table users_by_email puis fetch dans users.
type ScyllaUserStore struct{}

func NewScyllaUserStore() *ScyllaUserStore {
	return &ScyllaUserStore{}
}

// FindByEmail résout l'email vers un user_id puis charge l'utilisateur
func (s *ScyllaUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var userID gocql.UUID
	if err := database.GetPreparedGetUserByEmail().Bind(email).WithContext(ctx).Scan(&userID); err != nil {
		if err == gocql.ErrNotFound {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return s.FindByID(ctx, userID.String())
}

// FindByID charge un utilisateur par son user_id
func (s *ScyllaUserStore) FindByID(ctx context.Context, userID string) (models.User, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return models.User{}, ErrUserNotFound
	}

	var (
		email, password, name, role, provider, providerID string
		createdAt                                         time.Time
	)
	err = database.GetPreparedGetUserByID().Bind(gocql.UUID(uid)).WithContext(ctx).Scan(
		&email, &password, &name, &role, &provider, &providerID, &createdAt)
	if err != nil {
		if err == gocql.ErrNotFound {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	return models.User{
		ID:         userID,
		Email:      email,
		Password:   password,
		Name:       name,
		Role:       role,
		Provider:   provider,
		ProviderID: providerID,
		CreatedAt:  &createdAt,
	}, nil
}

// Create insère l'utilisateur et son entrée de lookup par email
func (s *ScyllaUserStore) Create(ctx context.Context, user models.User) error {
	uid, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	now := time.Now()

	if err := database.GetPreparedInsertUser().Bind(
		gocql.UUID(uid), user.Email, user.Password, user.Name,
		user.Role, user.Provider, user.ProviderID, now, now,
	).WithContext(ctx).Exec(); err != nil {
		return err
	}

	return database.GetPreparedInsertUserByEmail().Bind(user.Email, gocql.UUID(uid)).WithContext(ctx).Exec()
}

// Update répercute les champs modifiables et invalide le cache
func (s *ScyllaUserStore) Update(ctx context.Context, user models.User) error {
	uid, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}

	if err := database.GetPreparedUpdateUser().Bind(
		user.Name, user.Role, time.Now(), gocql.UUID(uid),
	).WithContext(ctx).Exec(); err != nil {
		return err
	}

	cache.InvalidateUserCache(user.ID)
	return nil
}

// Delete supprime l'utilisateur et son entrée de lookup
func (s *ScyllaUserStore) Delete(ctx context.Context, userID, email string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	if err := session.Query("DELETE FROM users WHERE user_id = ?", gocql.UUID(uid)).WithContext(ctx).Exec(); err != nil {
		return err
	}
	if err := session.Query("DELETE FROM users_by_email WHERE email = ?", email).WithContext(ctx).Exec(); err != nil {
		return err
	}

	cache.InvalidateUserCache(userID)
	return nil
}
