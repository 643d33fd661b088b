package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCredentials(t *testing.T) {
	cases := []struct {
		email    string
		username string
		password string
		ok       bool
	}{
		{"user@example.com", "tester", "secret123", true},
		{"user@example.com", "josé_12", "secret123", true},
		{"bad", "tester", "secret123", false},
		{"user@example.com", "x", "secret123", false},
		{"user@example.com", "with space", "secret123", false},
		{"user@example.com", "tester", "123", false},
		{"user@example.com", "tester", strings.Repeat("a", 73), false},
	}
	for i, c := range cases {
		err := ValidateCredentials(c.email, c.username, c.password)
		if c.ok && err != nil {
			t.Fatalf("case %d expected ok, got err: %v", i, err)
		}
		if !c.ok {
			require.ErrorIs(t, err, ErrInvalidInput, "case %d", i)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("super-secret")
	require.NoError(t, err)

	require.NoError(t, CheckPasswordHash(hash, "super-secret"))
	require.Error(t, CheckPasswordHash(hash, "wrong"))
}
