package store

import (
	"context"
	"strings"
	"testing"

	"hospital_insights/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStore_RegisterAndVerify(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(newDB(t))

	user, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret1", user.Password)

	got, ok := s.Verify(ctx, "alice", "secret1")
	require.True(t, ok)
	assert.Equal(t, user.ID, got.ID)

	_, ok = s.Verify(ctx, "alice", "wrong")
	assert.False(t, ok)
	_, ok = s.Verify(ctx, "bob", "secret1")
	assert.False(t, ok, "unknown user looks like a bad password")
}

func TestCredentialStore_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(newDB(t))

	_, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "another")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, ok := s.Verify(ctx, "alice", "secret1")
	assert.True(t, ok, "first registration stays valid")
	_, ok = s.Verify(ctx, "alice", "another")
	assert.False(t, ok)
}

func TestCredentialStore_UsernameIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(newDB(t))

	_, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	_, err = s.Register(ctx, "Alice", "secret2")
	require.NoError(t, err)

	_, ok := s.Verify(ctx, "Alice", "secret1")
	assert.False(t, ok)
}

func TestCredentialStore_EmptyUsername(t *testing.T) {
	s := NewCredentialStore(newDB(t))

	_, err := s.Register(context.Background(), "", "secret1")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCredentialStore_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(newDB(t))
	user, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	err = s.UpdatePassword(ctx, user.ID, "wrong", "secret2")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, ok := s.Verify(ctx, "alice", "secret1")
	assert.True(t, ok)

	require.NoError(t, s.UpdatePassword(ctx, user.ID, "secret1", "secret2"))
	_, ok = s.Verify(ctx, "alice", "secret2")
	assert.True(t, ok)
	_, ok = s.Verify(ctx, "alice", "secret1")
	assert.False(t, ok, "only the latest digest matches")
}

func TestCredentialStore_UpdateUsername(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(newDB(t))
	alice, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	_, err = s.Register(ctx, "bob", "secret2")
	require.NoError(t, err)

	err = s.UpdateUsername(ctx, alice.ID, "secret1", "bob")
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = s.UpdateUsername(ctx, alice.ID, "wrong", "carol")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.NoError(t, s.UpdateUsername(ctx, alice.ID, "secret1", "alice"), "keeping the same name is fine")
	require.NoError(t, s.UpdateUsername(ctx, alice.ID, "secret1", "carol"))

	got, err := s.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", got.Username)
	_, ok := s.Verify(ctx, "carol", "secret1")
	assert.True(t, ok)
}

func TestCredentialStore_FindByIDMissing(t *testing.T) {
	s := NewCredentialStore(newDB(t))

	_, err := s.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCredentialStore_PasswordByteLimit(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(newDB(t))

	_, err := s.Register(ctx, "bob", strings.Repeat("a", 73))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.Register(ctx, "bob", strings.Repeat("é", 40)) // 40 runes, 80 bytes
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.Register(ctx, "bob", strings.Repeat("a", 72))
	require.NoError(t, err)
	_, ok := s.Verify(ctx, "bob", strings.Repeat("a", 72))
	assert.True(t, ok)
}

func TestCredentialStore_UpdateProfileIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(newDB(t))
	alice, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	_, err = s.UpdateProfile(ctx, alice.ID, "secret1", ProfileChange{Username: "alice2", Password: strings.Repeat("é", 40)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username, "a rejected password leaves the name alone")
	_, ok := s.Verify(ctx, "alice", "secret1")
	assert.True(t, ok)

	updated, err := s.UpdateProfile(ctx, alice.ID, "secret1", ProfileChange{Username: "alice2", Password: "secret2"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	_, ok = s.Verify(ctx, "alice2", "secret2")
	assert.True(t, ok)
	_, ok = s.Verify(ctx, "alice", "secret1")
	assert.False(t, ok)
}

func TestCredentialStore_UpdateProfileConflictChangesNothing(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(newDB(t))
	alice, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	_, err = s.Register(ctx, "bob", "secret2")
	require.NoError(t, err)

	_, err = s.UpdateProfile(ctx, alice.ID, "secret1", ProfileChange{Username: "bob", Password: "secret3"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, ok := s.Verify(ctx, "alice", "secret1")
	assert.True(t, ok, "the password change rolled back with the rename")
}
