package store

import (
	"context" // Request contexts
	"errors"  // Error matching
	"fmt"     // Error wrapping

	"hospital_insights/internal/domain" // Importing domain models
	"hospital_insights/internal/utils"  // Password hashing

	"gorm.io/gorm" // GORM ORM library
)

// CredentialStore keeps usernames and password digests in the relational store.
type CredentialStore struct {
	db *gorm.DB
}

// NewCredentialStore wraps the process-wide GORM pool.
func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// ProfileChange is a rename and/or password change. Empty fields are
// left untouched.
type ProfileChange struct {
	Username string
	Password string
}

// Register creates an account. The username must not exist yet (exact match).
func (s *CredentialStore) Register(ctx context.Context, username, password string) (*domain.User, error) {
	verr := &domain.ValidationError{}
	if username == "" {
		verr.Add("username", "Username is required.")
	}
	checkPasswordLength(verr, password)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.findByUsername(ctx, s.db, username); err == nil {
		return nil, fmt.Errorf("register %q: %w", username, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	digest, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{Username: username, Password: digest}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("register %q: %w", username, domain.ErrConflict) // Lost a race with another sign-up
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Verify checks a password against the latest stored digest. An unknown
// username and a wrong password both report false.
func (s *CredentialStore) Verify(ctx context.Context, username, password string) (*domain.User, bool) {
	user, err := s.findByUsername(ctx, s.db, username)
	if err != nil {
		return nil, false
	}
	if !utils.CheckPassword(password, user.Password) {
		return nil, false
	}
	return user, true
}

// FindByID loads an account by primary key.
func (s *CredentialStore) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword replaces the digest after checking the current password.
func (s *CredentialStore) UpdatePassword(ctx context.Context, id uint, current, next string) error {
	if next == "" {
		verr := &domain.ValidationError{}
		verr.Add("password", "Password is required.")
		return verr
	}
	_, err := s.UpdateProfile(ctx, id, current, ProfileChange{Password: next})
	return err
}

// UpdateUsername renames the account after checking the current password.
func (s *CredentialStore) UpdateUsername(ctx context.Context, id uint, current, next string) error {
	_, err := s.UpdateProfile(ctx, id, current, ProfileChange{Username: next})
	return err
}

// UpdateProfile applies a rename and a password change together after
// checking the current password. Either both are stored or neither is.
func (s *CredentialStore) UpdateProfile(ctx context.Context, id uint, current string, change ProfileChange) (*domain.User, error) {
	user, err := s.authorize(ctx, id, current)
	if err != nil {
		return nil, err
	}

	verr := &domain.ValidationError{}
	if change.Password != "" {
		checkPasswordLength(verr, change.Password)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if change.Username != "" && change.Username != user.Username {
		updates["username"] = change.Username
	}
	if change.Password != "" {
		digest, err := utils.HashPassword(change.Password) // Hash before the transaction opens
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password"] = digest
	}
	if len(updates) == 0 {
		return user, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if name, ok := updates["username"].(string); ok {
			other, err := s.findByUsername(ctx, tx, name)
			if err == nil && other.ID != user.ID {
				return fmt.Errorf("rename to %q: %w", name, domain.ErrConflict)
			} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
		if err := tx.Model(&domain.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("rename to %q: %w", change.Username, domain.ErrConflict)
			}
			return fmt.Errorf("update user %d: %w", user.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if name, ok := updates["username"].(string); ok {
		user.Username = name
	}
	if digest, ok := updates["password"].(string); ok {
		user.Password = digest
	}
	return user, nil
}

// checkPasswordLength rejects input bcrypt cannot hash
func checkPasswordLength(verr *domain.ValidationError, password string) {
	if len(password) > utils.MaxPasswordBytes {
		verr.Add("password", fmt.Sprintf("Password must be at most %d bytes.", utils.MaxPasswordBytes))
	}
}

func (s *CredentialStore) authorize(ctx context.Context, id uint, current string) (*domain.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(current, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *CredentialStore) findByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
