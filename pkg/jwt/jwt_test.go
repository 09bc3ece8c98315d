package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partnerhub/pkg/jwt"
)

var subject = jwt.Subject{UserID: "u-1", TelegramID: 1001, Role: "owner"}

func TestIssueVerify_DevuelveLosClaims(t *testing.T) {
	iss := jwt.NewIssuer("secreto", "partnerhub", 5*time.Minute)

	tok, err := iss.Issue(subject)
	require.NoError(t, err)

	claims, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, int64(1001), claims.TelegramID)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, "1001", claims.Subject)
	assert.Equal(t, "partnerhub", claims.Issuer)
}

func TestVerify_TokenExpirado(t *testing.T) {
	iss := jwt.NewIssuer("secreto", "partnerhub", time.Minute)
	old := iss.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })

	tok, err := old.Issue(subject)
	require.NoError(t, err)
	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestVerify_OtroSecretOEmisor(t *testing.T) {
	tok, err := jwt.NewIssuer("secreto", "partnerhub", time.Minute).Issue(subject)
	require.NoError(t, err)

	_, err = jwt.NewIssuer("otro", "partnerhub", time.Minute).Verify(tok)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	_, err = jwt.NewIssuer("secreto", "otro-servicio", time.Minute).Verify(tok)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestVerify_AlgoritmoNone_Rechazado(t *testing.T) {
	unsigned := gojwt.NewWithClaims(gojwt.SigningMethodNone, jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Issuer: "partnerhub", ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour))},
		TelegramID:       1001,
		Role:             "owner",
	})
	tok, err := unsigned.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwt.NewIssuer("secreto", "partnerhub", time.Minute).Verify(tok)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestIssue_SinSecret(t *testing.T) {
	_, err := jwt.NewIssuer("", "partnerhub", time.Minute).Issue(subject)
	assert.ErrorIs(t, err, jwt.ErrNoSecret)
}

func TestNewIssuer_TTLPorDefecto(t *testing.T) {
	assert.Equal(t, time.Hour, jwt.NewIssuer("s", "", 0).TTL())
}
