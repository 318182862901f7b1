// Copyright (c) 2026 Linkgrove. All rights reserved.
// Author: eng@linkgrove.app

package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkgrove/linkgrove/internal/platform/apperr"
)

/*
TestUniqueConflict verifies that a unique-violation racing past the
service's pre-checks maps to the same 409 the pre-checks produce, and that
every other storage error passes through untouched.
*/
func TestUniqueConflict(t *testing.T) {
	violation := func(constraint string) error {
		return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraint}
	}

	tests := []struct {
		name    string
		err     error
		message string // Empty means no conflict mapping expected.
	}{
		{"email constraint", violation("users_email_key"), "Email is already registered"},
		{"username constraint", violation("users_username_key"), "Username is already taken"},
		{"default profile slug constraint", violation("profiles_slug_key"), "Username is already taken"},
		{"wrapped violation", fmt.Errorf("tx failed: %w", violation("users_email_key")), "Email is already registered"},
		{"unknown constraint", violation("some_other_key"), ""},
		{"foreign key violation", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, ""},
		{"plain error", errors.New("connection reset"), ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			mapped := uniqueConflict(test.err)

			if test.message == "" {
				assert.Nil(t, mapped)
				return
			}

			appError := apperr.As(mapped)
			require.NotNil(t, appError)
			assert.Equal(t, "CONFLICT", appError.Code)
			assert.Equal(t, test.message, appError.Message)
		})
	}
}
