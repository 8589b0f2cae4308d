// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package users

import (
	"context"
	"testing"

	"github.com/opsboard/opsboard/internal/db"
	"github.com/opsboard/opsboard/internal/model"
	"github.com/opsboard/opsboard/internal/security"
	"github.com/opsboard/opsboard/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

var quiet = testutil.Quiet

func newTestCredentials() *security.Credentials {
	return security.NewCredentials(security.BcryptHasher{Cost: bcrypt.MinCost}, quiet)
}

func newTestStore(t *testing.T) *db.BunStore { return testutil.NewStore(t) }

func newTestDirectory(t *testing.T, opts Options) (*Directory, *db.BunStore) {
	t.Helper()
	s := newTestStore(t)
	if opts.Logger == nil {
		opts.Logger = quiet
	}
	return NewDirectory(s, newTestCredentials(), opts), s
}

// fakeStore lets tests force store responses the real engine cannot easily
// produce on demand.
type fakeStore struct {
	getUser func(name string) (*model.User, error)
	addUser func(u *model.User) (int64, error)
}

func (f *fakeStore) GetUserByName(_ context.Context, name string) (*model.User, error) {
	if f.getUser != nil {
		return f.getUser(name)
	}
	return nil, nil
}

func (f *fakeStore) AddUser(_ context.Context, u *model.User) (int64, error) {
	if f.addUser != nil {
		return f.addUser(u)
	}
	u.ID = 1
	return 1, nil
}

func (f *fakeStore) UpdateUserRole(context.Context, string, string) (int64, error) { return 0, nil }

func (f *fakeStore) UpdateUserSecret(context.Context, string, string, string) (int64, error) {
	return 0, nil
}

func (f *fakeStore) DeleteUser(context.Context, string) (int64, error) { return 0, nil }

func (f *fakeStore) GetAllUsers(context.Context) ([]model.UserSummary, error) { return nil, nil }
