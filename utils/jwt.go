package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret = []byte("your-secret-key-change-this-in-production")

// SetJWTSecret 서명 키를 설정합니다. 기동 시 설정 로드 후 한 번 호출됩니다.
// 빈 값은 무시되어 기본 키가 유지됩니다.
func SetJWTSecret(secret string) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
}

// ServiceClaims 발급 API용 베어러 토큰 클레임
type ServiceClaims struct {
	Subject string `json:"subject"`
	jwt.RegisteredClaims
}

// GenerateServiceToken 발급 API용 베어러 토큰 생성
func GenerateServiceToken(subject string, ttl time.Duration) (string, int64, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	expirationTime := time.Now().Add(ttl)

	claims := &ServiceClaims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		return "", 0, err
	}

	return tokenString, expirationTime.Unix(), nil
}

// ValidateServiceToken 베어러 토큰 검증
func ValidateServiceToken(tokenString string) (*ServiceClaims, error) {
	claims := &ServiceClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
