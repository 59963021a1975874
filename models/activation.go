package models

// Activation 디바이스 활성화 기록
// 생성 이후 수정되지 않으며, 활성/만료 여부는 조회 시점에 계산됩니다.
type Activation struct {
	ID            string  `json:"id" db:"id"`
	LicenseID     string  `json:"license_id" db:"license_id"`
	ApplicationID string  `json:"application_id" db:"application_id"`
	Fingerprint   string  `json:"fingerprint" db:"fingerprint"`
	ActivatedAt   string  `json:"activated_at" db:"activated_at"`
	ExpiresAt     *string `json:"expires_at" db:"expires_at"` // nil이면 만료 없음
}

// ActivationStatus 엔타이틀먼트 조회 결과
type ActivationStatus struct {
	IsActive    bool    `json:"is_active"`
	ActivatedAt *string `json:"activated_at"`
	ExpiresAt   *string `json:"expires_at"`
}

// ActivationAction 감사 로그 액션 상수
const (
	ActivationActionBound      = "bound"
	ActivationActionSuperseded = "superseded"
)

// ActivateRequest 라이선스 활성화 요청
type ActivateRequest struct {
	LicenseKey    string `json:"license_key" binding:"required"`
	ApplicationID string `json:"application_id" binding:"required"`
	Fingerprint   string `json:"fingerprint" binding:"required"`
}

// StatusRequest 엔타이틀먼트 조회 요청
type StatusRequest struct {
	ApplicationID string `json:"application_id" binding:"required"`
	Fingerprint   string `json:"fingerprint" binding:"required"`
}
