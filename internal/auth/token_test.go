package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-orders/internal/auth"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("secret-secret-secret-secret-secret", time.Minute)
	actor := valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleFreelancer}

	token, err := tm.IssueAccess(actor)
	require.NoError(t, err)

	got, err := tm.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := auth.NewTokenManager("secret-a", time.Minute)
	actor := valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleClient}

	foreign, err := auth.NewTokenManager("secret-b", time.Minute).IssueAccess(actor)
	require.NoError(t, err)
	_, err = tm.ParseAccess(foreign)
	assert.Error(t, err)

	expired, err := auth.NewTokenManager("secret-a", -time.Minute).IssueAccess(actor)
	require.NoError(t, err)
	_, err = tm.ParseAccess(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  actor.UserID.String(),
		"role": "superuser",
		"exp":  time.Now().Add(time.Minute).Unix(),
	})
	raw, err := badRole.SignedString([]byte("secret-a"))
	require.NoError(t, err)
	_, err = tm.ParseAccess(raw)
	assert.Error(t, err)

	_, err = tm.ParseAccess("not-a-token")
	assert.Error(t, err)
}
