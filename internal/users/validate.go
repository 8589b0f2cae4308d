// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package users

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/opsboard/opsboard/internal/model"
	"github.com/opsboard/opsboard/internal/security"
)

var (
	// ErrInvalidUser is returned when a name, role or secret fails validation.
	ErrInvalidUser = errors.New("invalid user")

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Secret length bounds applied when no policy is configured.
const (
	DefaultMinSecretLength = 6
	DefaultMaxSecretLength = 50
)

// registration is the validated shape of a new user. Names are 3 to 20 ASCII
// letters or digits so they survive the migration file format.
type registration struct {
	Name string `validate:"required,min=3,max=20,alphanum"`
	Role string `validate:"required,max=32,excludesall=0x2C"`
}

// normalize trims name and role and applies the default role.
func normalize(name, role string) (string, string) {
	name = strings.TrimSpace(name)
	role = strings.TrimSpace(role)
	if role == "" {
		role = model.DefaultRole
	}
	return name, role
}

func validateIdentity(name, role string) error {
	if err := validate.Struct(registration{Name: name, Role: role}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s fails %q", ErrInvalidUser, strings.ToLower(fe.Field()), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}
	return nil
}

// ValidateSecret enforces the secret length policy in bytes. A minimum of
// zero disables the lower bound. The upper bound never exceeds
// security.MaxSecretBytes; zero selects that limit.
func ValidateSecret(secret security.Secret, minLength, maxLength int) error {
	if maxLength <= 0 || maxLength > security.MaxSecretBytes {
		maxLength = security.MaxSecretBytes
	}
	switch n := secret.Len(); {
	case minLength > 0 && n < minLength:
		return fmt.Errorf("%w: secret shorter than %d bytes", ErrInvalidUser, minLength)
	case n > maxLength:
		return fmt.Errorf("%w: secret longer than %d bytes", ErrInvalidUser, maxLength)
	}
	return nil
}
