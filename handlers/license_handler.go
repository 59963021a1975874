package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"licensegate/logger"
	"licensegate/models"
	"licensegate/services"
)

// LicenseHandler는 라이선스 발급 관련 HTTP 요청을 처리한다.
type LicenseHandler struct {
	service services.LicenseService
}

// NewLicenseHandler는 라이선스 핸들러를 생성한다.
func NewLicenseHandler(service services.LicenseService) *LicenseHandler {
	return &LicenseHandler{service: service}
}

// Issue 라이선스 발급
// @Summary 라이선스 발급
// @Description 지정한 애플리케이션에 대한 라이선스 키를 한 건 발급합니다. 키 평문은 이 응답에서만 노출됩니다.
// @Tags 라이선스
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.IssueLicenseRequest true "발급 정보"
// @Success 201 {object} models.APIResponse{data=models.License} "발급 성공"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 401 {object} models.APIResponse "인증 필요"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/licenses [post]
func (h *LicenseHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req models.IssueLicenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	license, err := h.service.Issue(r.Context(), req.ApplicationID, req.Policy)
	if err != nil {
		h.writeIssueError(w, req.ApplicationID, err)
		return
	}

	logger.WithFields(map[string]interface{}{
		"license_id":     license.ID,
		"application_id": license.ApplicationID,
	}).Info("License issued")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.SuccessResponse("License issued successfully", license))
}

// IssueBatch 라이선스 일괄 발급
// @Summary 라이선스 일괄 발급
// @Description 동일 애플리케이션/정책으로 여러 라이선스를 발급합니다. 전부 성공하거나 전부 실패합니다.
// @Tags 라이선스
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.IssueBatchRequest true "일괄 발급 정보"
// @Success 201 {object} models.APIResponse{data=[]models.License} "발급 성공"
// @Failure 400 {object} models.APIResponse "잘못된 요청 또는 수량 초과"
// @Failure 401 {object} models.APIResponse "인증 필요"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/licenses/batch [post]
func (h *LicenseHandler) IssueBatch(w http.ResponseWriter, r *http.Request) {
	var req models.IssueBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	licenses, err := h.service.IssueBatch(r.Context(), req.ApplicationID, req.Policy, req.Count)
	if err != nil {
		if errors.Is(err, services.ErrBatchTooLarge) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.ErrorResponse("Batch size exceeds the configured maximum", nil))
			return
		}
		h.writeIssueError(w, req.ApplicationID, err)
		return
	}

	logger.WithFields(map[string]interface{}{
		"application_id": req.ApplicationID,
		"count":          len(licenses),
	}).Info("License batch issued")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.SuccessResponse("Licenses issued successfully", licenses))
}

// writeIssueError 발급 공통 에러를 HTTP 상태로 변환
func (h *LicenseHandler) writeIssueError(w http.ResponseWriter, applicationID string, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidApplication):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Application not found or inactive", nil))
	case errors.Is(err, services.ErrInvalidPolicy):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid validity policy", nil))
	case errors.Is(err, services.ErrInvalidRequest):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request", nil))
	default:
		logger.WithFields(map[string]interface{}{
			"error":          err.Error(),
			"application_id": applicationID,
		}).Error("Failed to issue license")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to issue license", err))
	}
}

// List 라이선스 목록 조회
// @Summary 라이선스 목록 조회
// @Description 라이선스 목록을 조회합니다. 키는 마스킹되어 반환됩니다.
// @Tags 라이선스
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param application_id query string false "애플리케이션 ID 필터"
// @Param consumed query string false "소비 여부 필터 (true, false)"
// @Success 200 {object} models.APIResponse{data=[]models.License} "조회 성공"
// @Failure 401 {object} models.APIResponse "인증 필요"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/licenses [get]
func (h *LicenseHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := services.LicenseFilter{
		ApplicationID: r.URL.Query().Get("application_id"),
	}
	if v := r.URL.Query().Get("consumed"); v != "" {
		consumed := strings.EqualFold(v, "true")
		filter.Consumed = &consumed
	}

	licenses, err := h.service.List(r.Context(), filter)
	if err != nil {
		logger.Error("Failed to query licenses: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to query licenses", err))
		return
	}

	for i := range licenses {
		licenses[i].MaskKey()
	}

	logger.Info("Retrieved %d licenses", len(licenses))
	json.NewEncoder(w).Encode(models.SuccessResponse("Licenses retrieved", licenses))
}

// Get 라이선스 상세 조회
// @Summary 라이선스 상세 조회
// @Description 특정 라이선스의 상세 정보를 조회합니다. 키는 마스킹되어 반환됩니다.
// @Tags 라이선스
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id query string true "라이선스 ID"
// @Success 200 {object} models.APIResponse{data=models.License} "조회 성공"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 404 {object} models.APIResponse "라이선스 없음"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/licenses/ [get]
func (h *LicenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathOrQueryID(r)
	if strings.TrimSpace(id) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("License ID is required", nil))
		return
	}

	license, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrLicenseNotFound) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(models.ErrorResponse("License not found", nil))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to retrieve license", err))
		return
	}

	license.MaskKey()
	json.NewEncoder(w).Encode(models.SuccessResponse("License retrieved", license))
}
