package helpers

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRevocations struct {
	mu  sync.Mutex
	ids map[string]time.Time
}

func (m *memoryRevocations) Revoke(id string, until time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ids == nil {
		m.ids = make(map[string]time.Time)
	}
	m.ids[id] = until
}

func (m *memoryRevocations) IsRevoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[id]
	return ok
}

func TestCreateToken(t *testing.T) {
	sessions, err := NewSessions("secret", time.Hour, nil)
	require.NoError(t, err)

	jwt, expires, err := sessions.CreateToken("user-1")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	jwtCheck := regexp.MustCompile(`(^[A-Za-z0-9-_]*\.[A-Za-z0-9-_]*\.[A-Za-z0-9-_]*$)`)
	if !jwtCheck.MatchString(jwt) {
		t.Fatalf(`CreateToken("user-1") = %q, want match for %#q, nil`, jwt, jwtCheck)
	}
}

func TestCheckToken(t *testing.T) {
	sessions, err := NewSessions("secret", time.Hour, nil)
	require.NoError(t, err)

	token, _, err := sessions.CreateToken("user-1")
	require.NoError(t, err)

	claims, err := sessions.CheckToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.NotEmpty(t, claims.ID)

	claims, err = sessions.CheckToken("Bearer " + token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
}

func TestCheckTokenRejects(t *testing.T) {
	sessions, err := NewSessions("secret", time.Hour, nil)
	require.NoError(t, err)
	other, err := NewSessions("another secret", time.Hour, nil)
	require.NoError(t, err)

	token, _, err := other.CreateToken("user-1")
	require.NoError(t, err)

	_, err = sessions.CheckToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = sessions.CheckToken("")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = sessions.CheckToken("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestCheckTokenExpired(t *testing.T) {
	sessions, err := NewSessions("secret", time.Hour, nil)
	require.NoError(t, err)

	sessions.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := sessions.CreateToken("user-1")
	require.NoError(t, err)

	sessions.now = time.Now
	_, err = sessions.CheckToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeToken(t *testing.T) {
	revocations := &memoryRevocations{}
	sessions, err := NewSessions("secret", time.Hour, revocations)
	require.NoError(t, err)

	token, _, err := sessions.CreateToken("user-1")
	require.NoError(t, err)

	claims, err := sessions.CheckToken(token)
	require.NoError(t, err)

	sessions.Revoke(claims)
	_, err = sessions.CheckToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	fresh, _, err := sessions.CreateToken("user-1")
	require.NoError(t, err)
	_, err = sessions.CheckToken(fresh)
	require.NoError(t, err)
}
