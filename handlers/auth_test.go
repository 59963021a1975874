package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensegate/models"
	"licensegate/utils"
)

func TestExchangeToken(t *testing.T) {
	hash, err := utils.HashAPIKey("test-api-key")
	require.NoError(t, err)

	handler := NewAuthHandler(hash, time.Hour)

	rec := postJSON(t, handler.ExchangeToken, "/api/admin/token", models.TokenRequest{
		APIKey: "test-api-key",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.Equal(t, "success", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	// 발급된 토큰은 검증을 통과해야 한다
	claims, err := utils.ValidateServiceToken(token)
	require.NoError(t, err)
	assert.Equal(t, "issuer-api", claims.Subject)
}

func TestExchangeTokenInvalidKey(t *testing.T) {
	hash, err := utils.HashAPIKey("test-api-key")
	require.NoError(t, err)

	handler := NewAuthHandler(hash, time.Hour)

	rec := postJSON(t, handler.ExchangeToken, "/api/admin/token", models.TokenRequest{
		APIKey: "wrong-key",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "error", resp.Status)
}
