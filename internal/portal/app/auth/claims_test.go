package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classbook/internal/portal/app/auth"
)

func TestInspectToken(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    42,
		"token_type": "access",
		"iat":        now.Add(-time.Hour).Unix(),
		"exp":        now.Add(-time.Minute).Unix(),
	}).SignedString([]byte("any-key"))
	require.NoError(t, err)

	info, err := auth.InspectToken(raw, now)
	require.NoError(t, err)
	assert.Equal(t, "42", info.UserID)
	assert.Equal(t, "access", info.TokenType)
	assert.True(t, info.Expired)
	assert.Equal(t, now.Add(-time.Minute).Unix(), info.ExpiresAt.Unix())

	info, err = auth.InspectToken(raw, now.Add(-2*time.Minute))
	require.NoError(t, err)
	assert.False(t, info.Expired)

	_, err = auth.InspectToken("not-a-jwt", now)
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, auth.OutcomeOK, auth.Classify(nil))
	assert.Equal(t, "auth_error", auth.OutcomeAuthError.String())
	assert.Equal(t, auth.ActionDemote, auth.DemoteOnAnyFailure(auth.OutcomeNetworkError))
	assert.Equal(t, auth.ActionKeepTokens, auth.KeepTokensOnNetworkError(auth.OutcomeNetworkError))
	assert.Equal(t, auth.ActionDemote, auth.KeepTokensOnNetworkError(auth.OutcomeAuthError))
}
