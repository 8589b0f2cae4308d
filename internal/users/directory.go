// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// Package users provisions and authenticates opsboard users.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/opsboard/opsboard/internal/db"
	"github.com/opsboard/opsboard/internal/logging"
	"github.com/opsboard/opsboard/internal/model"
	"github.com/opsboard/opsboard/internal/security"
)

// ErrUserExists is returned when registering a name that is already taken.
// It wraps db.ErrDuplicate.
var ErrUserExists = fmt.Errorf("user already exists: %w", db.ErrDuplicate)

// Store is the slice of db.Store the directory needs.
type Store interface {
	GetUserByName(ctx context.Context, name string) (*model.User, error)
	AddUser(ctx context.Context, u *model.User) (int64, error)
	UpdateUserRole(ctx context.Context, name, role string) (int64, error)
	UpdateUserSecret(ctx context.Context, name, hash, scheme string) (int64, error)
	DeleteUser(ctx context.Context, name string) (int64, error)
	GetAllUsers(ctx context.Context) ([]model.UserSummary, error)
}

// Options tunes a Directory.
type Options struct {
	// MinSecretLength rejects shorter secrets on Register and Rehash. Zero
	// disables it.
	MinSecretLength int
	// MaxSecretLength rejects longer secrets. Zero or anything above
	// security.MaxSecretBytes means security.MaxSecretBytes.
	MaxSecretLength int
	// UpgradeLegacyHashes re-hashes non-primary credentials after a
	// successful login.
	UpgradeLegacyHashes bool
	Logger              *clog.Logger
}

// Directory registers, authenticates and administers users.
type Directory struct {
	store Store
	creds *security.Credentials
	opts  Options
	log   *clog.Logger
}

// NewDirectory wires a Directory over store.
func NewDirectory(store Store, creds *security.Credentials, opts Options) *Directory {
	return &Directory{
		store: store,
		creds: creds,
		opts:  opts,
		log:   logging.Or(opts.Logger),
	}
}

// Register hashes secret with the primary scheme and stores a new user.
// An existing name yields ErrUserExists and nothing is written.
func (d *Directory) Register(ctx context.Context, name string, secret security.Secret, role string) (*model.User, error) {
	name, role = normalize(name, role)
	if err := validateIdentity(name, role); err != nil {
		return nil, err
	}
	if err := ValidateSecret(secret, d.opts.MinSecretLength, d.opts.MaxSecretLength); err != nil {
		return nil, err
	}
	if err := d.ensureAbsent(ctx, name); err != nil {
		return nil, err
	}
	hash, scheme, err := d.creds.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash secret for %q: %w", name, err)
	}
	return d.insert(ctx, name, hash, scheme, role)
}

// RegisterHashed stores an already hashed credential verbatim.
func (d *Directory) RegisterHashed(ctx context.Context, name, hash string, scheme security.Scheme, role string) (*model.User, error) {
	name, role = normalize(name, role)
	if err := validateIdentity(name, role); err != nil {
		return nil, err
	}
	if _, err := security.ParseScheme(string(scheme)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}
	if strings.TrimSpace(hash) == "" {
		return nil, fmt.Errorf("%w: empty hash", ErrInvalidUser)
	}
	if err := d.ensureAbsent(ctx, name); err != nil {
		return nil, err
	}
	return d.insert(ctx, name, hash, scheme, role)
}

func (d *Directory) ensureAbsent(ctx context.Context, name string) error {
	existing, err := d.store.GetUserByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserExists
	}
	return nil
}

func (d *Directory) insert(ctx context.Context, name, hash string, scheme security.Scheme, role string) (*model.User, error) {
	u := &model.User{Name: name, SecretHash: hash, HashScheme: string(scheme), Role: role}
	if _, err := d.store.AddUser(ctx, u); err != nil {
		// The unique constraint wins any race the pre-check lost.
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	d.log.Info("registered user", "name", name, "role", role, "scheme", scheme)
	return u, nil
}

// Authenticate returns the user when secret matches, and (nil, nil) for an
// unknown name or a wrong secret alike. Errors mean the store failed.
func (d *Directory) Authenticate(ctx context.Context, name string, secret security.Secret) (*model.User, error) {
	name = strings.TrimSpace(name)
	u, err := d.store.GetUserByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if u == nil {
		d.creds.VerifyDummy(secret)
		return nil, nil
	}
	scheme := security.Scheme(u.HashScheme)
	if !d.creds.Verify(secret, u.SecretHash, scheme) {
		d.log.Debug("authentication failed", "name", name)
		return nil, nil
	}
	if d.opts.UpgradeLegacyHashes && d.creds.NeedsUpgrade(scheme) {
		d.rehash(ctx, u, secret)
	}
	return u, nil
}

// rehash replaces a legacy credential with a primary-scheme hash. Failures are
// logged; the login itself already succeeded.
func (d *Directory) rehash(ctx context.Context, u *model.User, secret security.Secret) {
	hash, scheme, err := d.creds.Hash(secret)
	if err != nil {
		d.log.Warn("could not re-hash legacy credential", "name", u.Name, "err", err)
		return
	}
	if _, err := d.store.UpdateUserSecret(ctx, u.Name, hash, string(scheme)); err != nil {
		d.log.Warn("could not store upgraded credential", "name", u.Name, "err", err)
		return
	}
	d.log.Info("upgraded legacy credential", "name", u.Name, "from", u.HashScheme, "to", scheme)
	u.SecretHash, u.HashScheme = hash, string(scheme)
}

// Rehash stores a fresh primary-scheme hash of secret for the named user and
// returns the rows affected.
func (d *Directory) Rehash(ctx context.Context, name string, secret security.Secret) (int64, error) {
	if err := ValidateSecret(secret, d.opts.MinSecretLength, d.opts.MaxSecretLength); err != nil {
		return 0, err
	}
	hash, scheme, err := d.creds.Hash(secret)
	if err != nil {
		return 0, fmt.Errorf("hash secret for %q: %w", name, err)
	}
	return d.store.UpdateUserSecret(ctx, strings.TrimSpace(name), hash, string(scheme))
}

// Lookup returns the named user, or (nil, nil) when absent.
func (d *Directory) Lookup(ctx context.Context, name string) (*model.User, error) {
	return d.store.GetUserByName(ctx, strings.TrimSpace(name))
}

// SetRole changes the role of the named user and returns the rows affected.
// Unlike Register, an empty role is rejected rather than defaulted.
func (d *Directory) SetRole(ctx context.Context, name, role string) (int64, error) {
	if strings.TrimSpace(role) == "" {
		return 0, fmt.Errorf("%w: role is required", ErrInvalidUser)
	}
	name, role = normalize(name, role)
	if err := validateIdentity(name, role); err != nil {
		return 0, err
	}
	return d.store.UpdateUserRole(ctx, name, role)
}

// Remove deletes the named user and returns the rows affected. Removing an
// absent user is not an error.
func (d *Directory) Remove(ctx context.Context, name string) (int64, error) {
	return d.store.DeleteUser(ctx, strings.TrimSpace(name))
}

// ListAll returns every user by ascending id, without credentials.
func (d *Directory) ListAll(ctx context.Context) ([]model.UserSummary, error) {
	return d.store.GetAllUsers(ctx)
}
