package utils

import (
	"licensegate/database"
	"licensegate/logger"
)

// LogActivationActivity 활성화 감사 로그 기록 헬퍼
// 본 기록은 best-effort이며 실패해도 요청 처리에는 영향을 주지 않습니다.
func LogActivationActivity(activationID, licenseID, applicationID, action, details string) {
	query := `INSERT INTO activation_audit_logs (activation_id, license_id, application_id, action, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := database.DB.Exec(query, activationID, licenseID, applicationID, action, details, FormatDateTimeForDB(NowUTC()))
	if err != nil {
		logger.Error("Failed to log activation activity: %v", err)
	}
}
