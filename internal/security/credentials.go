// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"sync"

	clog "github.com/charmbracelet/log"
	"github.com/opsboard/opsboard/internal/logging"
)

// Credentials hashes new secrets with a primary scheme and verifies stored
// hashes with whichever scheme they are tagged with.
type Credentials struct {
	primary   Hasher
	verifiers map[Scheme]Hasher

	dummyOnce sync.Once
	dummy     string
}

// NewCredentials returns a Credentials hashing with primary. Verifiers for
// every known scheme are always registered. A sha256 primary is honoured but
// logged as a warning.
func NewCredentials(primary Hasher, logger *clog.Logger) *Credentials {
	if primary == nil {
		primary = BcryptHasher{}
	}
	c := &Credentials{
		primary: primary,
		verifiers: map[Scheme]Hasher{
			SchemeBcrypt: BcryptHasher{},
			SchemeSHA256: SHA256Hasher{},
		},
	}
	c.verifiers[primary.Scheme()] = primary
	if primary.Scheme() == SchemeSHA256 {
		logging.Or(logger).Warn("new credentials will be hashed with unsalted sha256; set security.hash_scheme to bcrypt")
	}
	return c
}

// Primary returns the scheme used for new hashes.
func (c *Credentials) Primary() Scheme { return c.primary.Scheme() }

// Hash hashes secret with the primary scheme.
func (c *Credentials) Hash(secret Secret) (string, Scheme, error) {
	h, err := c.primary.Hash(secret.Reveal())
	if err != nil {
		return "", "", err
	}
	return h, c.primary.Scheme(), nil
}

// Verify checks secret against hash using the hasher for scheme. Unknown
// schemes never verify.
func (c *Credentials) Verify(secret Secret, hash string, scheme Scheme) bool {
	h, ok := c.verifiers[scheme]
	if !ok {
		return false
	}
	return h.Verify(secret.Reveal(), hash)
}

// NeedsUpgrade reports whether a hash stored under scheme should be replaced
// by a primary-scheme hash.
func (c *Credentials) NeedsUpgrade(scheme Scheme) bool {
	return scheme != c.primary.Scheme()
}

// VerifyDummy runs one primary-scheme verification against a fixed hash so
// that rejecting an unknown user costs about as much as a wrong secret.
func (c *Credentials) VerifyDummy(secret Secret) {
	c.dummyOnce.Do(func() {
		c.dummy, _ = c.primary.Hash("opsboard-dummy-credential")
	})
	_ = c.primary.Verify(secret.Reveal(), c.dummy)
}
