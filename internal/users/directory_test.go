// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opsboard/opsboard/internal/db"
	"github.com/opsboard/opsboard/internal/model"
	"github.com/opsboard/opsboard/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	dir, _ := newTestDirectory(t, Options{})
	ctx := context.Background()

	u, err := dir.Register(ctx, "  alice ", security.FromString("s3cret"), "admin")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name)
	assert.Equal(t, "admin", u.Role)
	assert.Equal(t, string(security.SchemeBcrypt), u.HashScheme)
	assert.NotEqual(t, "s3cret", u.SecretHash)
	assert.Positive(t, u.ID)

	got, err := dir.Authenticate(ctx, "alice", security.FromString("s3cret"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "admin", got.Role)

	got, err = dir.Authenticate(ctx, "alice", security.FromString("wrong"))
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = dir.Authenticate(ctx, "nobody", security.FromString("s3cret"))
	require.NoError(t, err)
	assert.Nil(t, got, "unknown and wrong secret must look the same")
}

func TestRegisterDuplicateLeavesOriginal(t *testing.T) {
	dir, _ := newTestDirectory(t, Options{})
	ctx := context.Background()

	_, err := dir.Register(ctx, "alice", security.FromString("first"), "")
	require.NoError(t, err)

	_, err = dir.Register(ctx, "alice", security.FromString("second"), "admin")
	require.ErrorIs(t, err, ErrUserExists)
	assert.ErrorIs(t, err, db.ErrDuplicate)

	got, err := dir.Authenticate(ctx, "alice", security.FromString("first"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.DefaultRole, got.Role)
}

func TestRegisterMapsConstraintViolation(t *testing.T) {
	store := &fakeStore{
		addUser: func(*model.User) (int64, error) { return 0, db.ErrDuplicate },
	}
	dir := NewDirectory(store, newTestCredentials(), Options{Logger: quiet})

	_, err := dir.Register(context.Background(), "alice", security.FromString("pw"), "")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterValidation(t *testing.T) {
	dir, _ := newTestDirectory(t, Options{
		MinSecretLength: DefaultMinSecretLength,
		MaxSecretLength: DefaultMaxSecretLength,
	})
	ctx := context.Background()

	badNames := []string{"", "   ", "al", "a,b", "two words", "bob_smith", "x.y", strings.Repeat("n", 21)}
	for _, name := range badNames {
		_, err := dir.Register(ctx, name, security.FromString("longenough"), "")
		assert.ErrorIs(t, err, ErrInvalidUser, "name %q", name)
	}
	for _, secret := range []string{"", "abcde", strings.Repeat("s", 51)} {
		_, err := dir.Register(ctx, "alice", security.FromString(secret), "")
		assert.ErrorIs(t, err, ErrInvalidUser, "secret of %d bytes", len(secret))
	}

	_, err := dir.Register(ctx, "bob", security.FromString("abcdef"), "")
	assert.NoError(t, err, "three character name and six byte secret")
	_, err = dir.Register(ctx, "Alice2026", security.FromString(strings.Repeat("s", 50)), "")
	assert.NoError(t, err)
	_, err = dir.Register(ctx, strings.Repeat("n", 20), security.FromString("abcdef"), "")
	assert.NoError(t, err)

	_, err = dir.Rehash(ctx, "bob", security.FromString("short"))
	assert.ErrorIs(t, err, ErrInvalidUser)
}

func TestSecretOverBcryptLimitIsInvalid(t *testing.T) {
	dir, _ := newTestDirectory(t, Options{MaxSecretLength: 500})
	ctx := context.Background()

	_, err := dir.Register(ctx, "carol", security.FromString(strings.Repeat("x", security.MaxSecretBytes+1)), "")
	require.ErrorIs(t, err, ErrInvalidUser)

	_, err = dir.Register(ctx, "carol", security.FromString(strings.Repeat("x", security.MaxSecretBytes)), "")
	require.NoError(t, err)
	n, err := dir.Rehash(ctx, "carol", security.FromString(strings.Repeat("y", 80)))
	assert.ErrorIs(t, err, ErrInvalidUser)
	assert.Zero(t, n)
}

func TestValidateSecretBounds(t *testing.T) {
	assert.NoError(t, ValidateSecret(security.FromString(""), 0, 0))
	assert.NoError(t, ValidateSecret(security.FromString(strings.Repeat("x", 72)), 0, 0))
	assert.ErrorIs(t, ValidateSecret(security.FromString(strings.Repeat("x", 73)), 0, 0), ErrInvalidUser)
	assert.ErrorIs(t, ValidateSecret(security.FromString("abc"), 4, 10), ErrInvalidUser)
	assert.ErrorIs(t, ValidateSecret(security.FromString("abcdefghijk"), 4, 10), ErrInvalidUser)
	assert.NoError(t, ValidateSecret(security.FromString("abcd"), 4, 10))
}

func TestAuthenticatePropagatesStoreErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	store := &fakeStore{getUser: func(string) (*model.User, error) { return nil, boom }}
	dir := NewDirectory(store, newTestCredentials(), Options{Logger: quiet})

	u, err := dir.Authenticate(context.Background(), "alice", security.FromString("pw"))
	assert.Nil(t, u)
	assert.ErrorIs(t, err, boom)
}

func TestSetRoleRemoveAndList(t *testing.T) {
	dir, _ := newTestDirectory(t, Options{})
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := dir.Register(ctx, name, security.FromString("pw"), "")
		require.NoError(t, err)
	}

	n, err := dir.SetRole(ctx, "alice", "admin")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = dir.SetRole(ctx, "ghost", "admin")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
	for _, role := range []string{"", "   "} {
		n, err = dir.SetRole(ctx, "alice", role)
		assert.ErrorIs(t, err, ErrInvalidUser, "role %q", role)
		assert.Zero(t, n)
	}

	u, err := dir.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)
	u, err = dir.Lookup(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, u)

	n, err = dir.Remove(ctx, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = dir.Remove(ctx, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	all, err := dir.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "carol", all[0].Name)
	assert.Equal(t, "alice", all[1].Name)
	assert.Equal(t, "admin", all[1].Role)
}

func TestLegacyHashUpgradedOnLogin(t *testing.T) {
	dir, store := newTestDirectory(t, Options{UpgradeLegacyHashes: true})
	ctx := context.Background()

	legacy, _ := security.SHA256Hasher{}.Hash("oldpw")
	_, err := dir.RegisterHashed(ctx, "dave", legacy, security.SchemeSHA256, "")
	require.NoError(t, err)

	u, err := dir.Authenticate(ctx, "dave", security.FromString("oldpw"))
	require.NoError(t, err)
	require.NotNil(t, u)

	stored, err := store.GetUserByName(ctx, "dave")
	require.NoError(t, err)
	assert.Equal(t, string(security.SchemeBcrypt), stored.HashScheme)
	assert.True(t, security.LooksLikeBcrypt(stored.SecretHash))

	u, err = dir.Authenticate(ctx, "dave", security.FromString("oldpw"))
	require.NoError(t, err)
	assert.NotNil(t, u, "upgraded credential must still authenticate")
}

func TestLegacyHashKeptWhenUpgradeDisabled(t *testing.T) {
	dir, store := newTestDirectory(t, Options{UpgradeLegacyHashes: false})
	ctx := context.Background()

	legacy, _ := security.SHA256Hasher{}.Hash("oldpw")
	_, err := dir.RegisterHashed(ctx, "erin", legacy, security.SchemeSHA256, "")
	require.NoError(t, err)

	u, err := dir.Authenticate(ctx, "erin", security.FromString("oldpw"))
	require.NoError(t, err)
	require.NotNil(t, u)

	stored, _ := store.GetUserByName(ctx, "erin")
	assert.Equal(t, string(security.SchemeSHA256), stored.HashScheme)
	assert.Equal(t, legacy, stored.SecretHash)
}

func TestRegisterHashedRejectsBadInput(t *testing.T) {
	dir, _ := newTestDirectory(t, Options{})
	ctx := context.Background()

	_, err := dir.RegisterHashed(ctx, "frank", "", security.SchemeBcrypt, "")
	assert.ErrorIs(t, err, ErrInvalidUser)
	_, err = dir.RegisterHashed(ctx, "frank", "abc", "md5", "")
	assert.ErrorIs(t, err, ErrInvalidUser)
}

func TestRehash(t *testing.T) {
	dir, _ := newTestDirectory(t, Options{})
	ctx := context.Background()

	_, err := dir.Register(ctx, "gina", security.FromString("before"), "")
	require.NoError(t, err)

	n, err := dir.Rehash(ctx, "gina", security.FromString("after"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	u, _ := dir.Authenticate(ctx, "gina", security.FromString("before"))
	assert.Nil(t, u)
	u, _ = dir.Authenticate(ctx, "gina", security.FromString("after"))
	assert.NotNil(t, u)

	n, err = dir.Rehash(ctx, "ghost", security.FromString("x"))
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}
