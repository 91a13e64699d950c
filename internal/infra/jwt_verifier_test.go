package infra

import (
	"context"
	"testing"
	"time"

	"farmconnect/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims idTokenClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() idTokenClaims {
	return idTokenClaims{
		Email: "abebe@example.et",
		Name:  "Abebe",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "fb-uid-1",
			Issuer:    "farmconnect-test",
			Audience:  jwt.ClaimStrings{"farmconnect"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestJWTVerifier_Verify(t *testing.T) {
	v := NewJWTVerifier(testSecret, "farmconnect-test", "farmconnect")

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantUID string
		wantErr bool
	}{
		{
			name: "valid token",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())
			},
			wantUID: "fb-uid-1",
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims())
			},
			wantErr: true,
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				c := validClaims()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: true,
		},
		{
			name: "wrong audience",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Audience = jwt.ClaimStrings{"someone-else"}
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: true,
		},
		{
			name: "missing subject",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Subject = ""
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), c)
			},
			wantErr: true,
		},
		{
			name: "disallowed algorithm",
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())
			},
			wantErr: true,
		},
		{
			name:    "garbage",
			token:   func(*testing.T) string { return "not-a-jwt" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := v.Verify(context.Background(), tt.token(t))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnauthenticated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUID, id.UID)
			assert.Equal(t, "abebe@example.et", id.Email)
			assert.Equal(t, "Abebe", id.Name)
		})
	}
}
