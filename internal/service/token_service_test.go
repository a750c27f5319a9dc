package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-key-for-unit-tests"

func signOperatorToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func operatorClaims(role string, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  "op-42",
		"role": role,
		"iss":  "vishwas-dashboard",
		"iat":  time.Now().Unix(),
		"exp":  exp.Unix(),
	}
}

func TestJWTTokenService_Validate(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, "vishwas-dashboard")
	tok := signOperatorToken(t, testJWTSecret, operatorClaims("operator", time.Now().Add(time.Hour)))

	claims, err := svc.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "op-42", claims.OperatorID)
	assert.Equal(t, "operator", claims.Role)
}

func TestJWTTokenService_Rejects(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, "vishwas-dashboard")

	noExp := operatorClaims("operator", time.Now())
	delete(noExp, "exp")

	wrongIssuer := operatorClaims("operator", time.Now().Add(time.Hour))
	wrongIssuer["iss"] = "someone-else"

	tests := []struct {
		name  string
		token string
	}{
		{"expired", signOperatorToken(t, testJWTSecret, operatorClaims("operator", time.Now().Add(-time.Hour)))},
		{"wrong secret", signOperatorToken(t, "other-secret", operatorClaims("operator", time.Now().Add(time.Hour)))},
		{"shopkeeper role", signOperatorToken(t, testJWTSecret, operatorClaims("shopkeeper", time.Now().Add(time.Hour)))},
		{"missing exp", signOperatorToken(t, testJWTSecret, noExp)},
		{"wrong issuer", signOperatorToken(t, testJWTSecret, wrongIssuer)},
		{"garbage", "not.a.valid.jwt"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			assert.Error(t, err)
		})
	}
}
