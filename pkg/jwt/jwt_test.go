package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignYVerify(t *testing.T) {
	s := NewSigner("secreto", "pintureria-api", time.Hour)

	tok, err := s.Sign("u1", "bodeguero")
	require.NoError(t, err)

	claims, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "bodeguero", claims.Role)
	assert.Equal(t, "pintureria-api", claims.Issuer)
}

func TestVerify_Rechazos(t *testing.T) {
	s := NewSigner("secreto", "pintureria-api", time.Hour)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	vencido := NewSigner("secreto", "pintureria-api", time.Hour)
	vencido.now = func() time.Time { return fixed.Add(-2 * time.Hour) }
	tokVencido, err := vencido.Sign("u1", "admin")
	require.NoError(t, err)
	s.now = func() time.Time { return fixed }

	tokEmisor, err := NewSigner("secreto", "otra-app", time.Hour).Sign("u1", "admin")
	require.NoError(t, err)

	// HS512 con el mismo secreto: el algoritmo no está permitido
	tokHS512, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "pintureria-api",
			ExpiresAt: gojwt.NewNumericDate(fixed.Add(time.Hour)),
		},
		UserID: "u1", Role: "admin",
	}).SignedString([]byte("secreto"))
	require.NoError(t, err)

	// sin vencimiento
	tokSinExp, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Issuer: "pintureria-api"},
		UserID:           "u1", Role: "admin",
	}).SignedString([]byte("secreto"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"vencido":         tokVencido,
		"otro emisor":     tokEmisor,
		"algoritmo HS512": tokHS512,
		"sin vencimiento": tokSinExp,
		"basura":          "no.es.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestSecretVacio(t *testing.T) {
	s := NewSigner("", "pintureria-api", time.Hour)

	_, err := s.Sign("u1", "admin")
	assert.Error(t, err)
	_, err = s.Verify("x.y.z")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
