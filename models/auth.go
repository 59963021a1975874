package models

// TokenRequest 발급 API 토큰 교환 요청
type TokenRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// TokenResponse 발급 API 토큰 교환 응답
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // unix timestamp
}
