// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// Package security turns plaintext secrets into stored hashes and verifies
// them again. Every stored hash carries a Scheme tag; verification dispatches
// on that tag and never guesses the algorithm from the hash text.
package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Scheme names the algorithm that produced a stored hash.
type Scheme string

const (
	// SchemeBcrypt is the salted, adaptive default.
	SchemeBcrypt Scheme = "bcrypt"
	// SchemeSHA256 is an unsalted hex digest kept for legacy credentials.
	SchemeSHA256 Scheme = "sha256"
)

// MaxSecretBytes is the longest secret bcrypt accepts.
const MaxSecretBytes = 72

// ErrUnknownScheme is returned for scheme names no hasher is registered for.
var ErrUnknownScheme = errors.New("unknown hash scheme")

// ParseScheme validates a scheme name from config or storage.
func ParseScheme(name string) (Scheme, error) {
	switch s := Scheme(strings.ToLower(strings.TrimSpace(name))); s {
	case SchemeBcrypt, SchemeSHA256:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
}

// Hasher produces and checks hashes for one scheme.
type Hasher interface {
	Scheme() Scheme
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
}

// BcryptHasher hashes with bcrypt. Two hashes of the same secret differ.
type BcryptHasher struct {
	// Cost is the bcrypt work factor; zero means bcrypt.DefaultCost.
	Cost int
}

func (BcryptHasher) Scheme() Scheme { return SchemeBcrypt }

func (h BcryptHasher) Hash(secret string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(out), nil
}

func (BcryptHasher) Verify(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// SHA256Hasher stores the hex SHA-256 digest. It is unsalted and only kept to
// read credentials written by older deployments.
type SHA256Hasher struct{}

func (SHA256Hasher) Scheme() Scheme { return SchemeSHA256 }

func (SHA256Hasher) Hash(secret string) (string, error) {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(secret, hash string) bool {
	want, _ := h.Hash(secret)
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(hash))) == 1
}

// NewHasher builds the hasher for scheme. cost only applies to bcrypt.
func NewHasher(scheme Scheme, cost int) (Hasher, error) {
	switch scheme {
	case SchemeBcrypt:
		if cost != 0 && (cost < bcrypt.MinCost || cost > bcrypt.MaxCost) {
			return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
		}
		return BcryptHasher{Cost: cost}, nil
	case SchemeSHA256:
		return SHA256Hasher{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// LooksLikeBcrypt reports whether s parses as a bcrypt hash. It is only meant
// for recognizing pre-hashed import data that carries no scheme tag.
func LooksLikeBcrypt(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
