package models

// Application 애플리케이션 정보
// 라이선스 키는 하나의 애플리케이션에 대해서만 유효합니다.
type Application struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Status      string `json:"status" db:"status"` // active, inactive
	CreatedAt   string `json:"created_at" db:"created_at"`
	UpdatedAt   string `json:"updated_at" db:"updated_at"`
}

// ApplicationStatus 상태 상수
const (
	ApplicationStatusActive   = "active"
	ApplicationStatusInactive = "inactive"
)

// CreateApplicationRequest 애플리케이션 등록 요청
type CreateApplicationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}
