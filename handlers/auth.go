package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"licensegate/logger"
	"licensegate/models"
	"licensegate/utils"
)

// AuthHandler는 관리 API 키를 베어러 토큰으로 교환하는 요청을 처리한다.
type AuthHandler struct {
	apiKeyHash string
	tokenTTL   time.Duration
}

// NewAuthHandler는 인증 핸들러를 생성한다.
// apiKeyHash는 argon2id로 해싱된 관리 API 키입니다.
func NewAuthHandler(apiKeyHash string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		apiKeyHash: apiKeyHash,
		tokenTTL:   tokenTTL,
	}
}

// ExchangeToken API 키를 베어러 토큰으로 교환
// @Summary 토큰 발급
// @Description 관리 API 키를 검증하고 베어러 토큰을 발급합니다
// @Tags 인증
// @Accept json
// @Produce json
// @Param request body models.TokenRequest true "API 키"
// @Success 200 {object} models.APIResponse{data=models.TokenResponse} "발급 성공"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 401 {object} models.APIResponse "인증 실패"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/token [post]
func (h *AuthHandler) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	requestID := r.Context().Value("request_id")

	var req models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid token request body")

		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	if !utils.VerifyAPIKey(h.apiKeyHash, req.APIKey) {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
		}).Warn("Token exchange failed - invalid API key")

		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid credentials", nil))
		return
	}

	token, expiresAt, err := utils.GenerateServiceToken("issuer-api", h.tokenTTL)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate service token")

		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to generate token", err))
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
	}).Info("Service token issued")

	response := models.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}
	json.NewEncoder(w).Encode(models.SuccessResponse("Token issued", response))
}
