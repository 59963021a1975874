package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"licensegate/database"
	"licensegate/models"
	"licensegate/utils"
)

// GetDashboardStats 대시보드 통계
// @Summary 대시보드 통계
// @Description 애플리케이션/라이선스/활성화 집계를 조회합니다
// @Tags 대시보드
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "조회 성공"
// @Failure 401 {object} models.APIResponse "인증 필요"
// @Router /api/admin/dashboard/stats [get]
func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]interface{})

	var totalApplications, totalLicenses, consumedLicenses int
	database.DB.QueryRow("SELECT COUNT(*) FROM applications").Scan(&totalApplications)
	database.DB.QueryRow("SELECT COUNT(*) FROM licenses").Scan(&totalLicenses)
	database.DB.QueryRow("SELECT COUNT(*) FROM licenses WHERE consumed = 1").Scan(&consumedLicenses)

	// 활성 디바이스: 만료 시각이 없거나 아직 도래하지 않은 활성화
	nowStr := utils.FormatDateTimeForDB(utils.NowUTC())
	var activeDevices int
	database.DB.QueryRow(
		"SELECT COUNT(*) FROM activations WHERE expires_at IS NULL OR expires_at > ?",
		nowStr,
	).Scan(&activeDevices)

	stats["total_applications"] = totalApplications
	stats["total_licenses"] = totalLicenses
	stats["consumed_licenses"] = consumedLicenses
	stats["available_licenses"] = totalLicenses - consumedLicenses
	stats["active_devices"] = activeDevices

	json.NewEncoder(w).Encode(models.SuccessResponse("Dashboard stats retrieved", stats))
}

// GetRecentActivities 최근 활성화 활동 내역
// @Summary 최근 활동 내역
// @Description 최근 활성화 감사 로그를 최신순으로 조회합니다
// @Tags 대시보드
// @Produce json
// @Security BearerAuth
// @Param action query string false "액션 필터 (bound, superseded)"
// @Param limit query int false "최대 개수 (기본 20, 최대 100)"
// @Success 200 {object} models.APIResponse "조회 성공"
// @Failure 401 {object} models.APIResponse "인증 필요"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/dashboard/activities [get]
func GetRecentActivities(w http.ResponseWriter, r *http.Request) {
	qAction := r.URL.Query().Get("action")
	qLimit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			qLimit = n
		}
	}

	query := `SELECT al.action, al.details, al.created_at, al.activation_id, al.license_id, a.name
		FROM activation_audit_logs al
		LEFT JOIN applications a ON al.application_id = a.id`
	args := []interface{}{}
	if qAction != "" {
		query += " WHERE al.action = ?"
		args = append(args, qAction)
	}
	query += " ORDER BY al.created_at DESC, al.id DESC LIMIT ?"
	args = append(args, qLimit)

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to query activities", err))
		return
	}
	defer rows.Close()

	activities := []map[string]interface{}{}
	for rows.Next() {
		var action, details, createdAt, activationID, licenseID string
		var appName sql.NullString
		if err := rows.Scan(&action, &details, &createdAt, &activationID, &licenseID, &appName); err != nil {
			continue
		}

		item := map[string]interface{}{
			"action":        action,
			"details":       details,
			"created_at":    createdAt,
			"activation_id": activationID,
			"license_id":    licenseID,
		}
		if appName.Valid {
			item["application_name"] = appName.String
		}
		activities = append(activities, item)
	}

	json.NewEncoder(w).Encode(models.SuccessResponse("Recent activities retrieved", activities))
}
