package models

import (
	"strings"
	"time"
)

// PolicyKind 상수
const (
	PolicyAlways   = "always"
	PolicyInterval = "interval"
)

// ValidityPolicy 라이선스 유효기간 정책
// Always는 만료 없음, Interval은 활성화 시점부터 Days일 동안 유효합니다.
type ValidityPolicy struct {
	Kind string `json:"kind"`
	Days int    `json:"days,omitempty"`
}

// Valid 정책 값 검증
func (p ValidityPolicy) Valid() bool {
	switch p.Kind {
	case PolicyAlways:
		return p.Days == 0
	case PolicyInterval:
		return p.Days > 0
	}
	return false
}

// ExpiryFrom 활성화 시점 기준 만료 시각 계산 (Always면 nil)
func (p ValidityPolicy) ExpiryFrom(activatedAt time.Time) *time.Time {
	if p.Kind != PolicyInterval {
		return nil
	}
	t := activatedAt.Add(time.Duration(p.Days) * 24 * time.Hour)
	return &t
}

// License 라이선스 정보
type License struct {
	ID            string         `json:"id" db:"id"`
	LicenseKey    string         `json:"license_key" db:"license_key"`
	ApplicationID string         `json:"application_id" db:"application_id"`
	Policy        ValidityPolicy `json:"policy"`
	Consumed      bool           `json:"consumed" db:"consumed"`
	ConsumedAt    *string        `json:"consumed_at,omitempty" db:"consumed_at"`
	CreatedAt     string         `json:"created_at" db:"created_at"`
}

// MaskKey 목록/상세 조회 시 키 마스킹
// 키는 발급 응답에서 한 번만 평문으로 노출됩니다.
func (l *License) MaskKey() {
	key := l.LicenseKey
	if len(key) <= 8 {
		l.LicenseKey = strings.Repeat("*", len(key))
		return
	}
	l.LicenseKey = key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

// IssueLicenseRequest 라이선스 발급 요청
type IssueLicenseRequest struct {
	ApplicationID string         `json:"application_id" binding:"required"`
	Policy        ValidityPolicy `json:"policy" binding:"required"`
}

// IssueBatchRequest 라이선스 일괄 발급 요청
type IssueBatchRequest struct {
	ApplicationID string         `json:"application_id" binding:"required"`
	Policy        ValidityPolicy `json:"policy" binding:"required"`
	Count         int            `json:"count" binding:"required,min=1"`
}
