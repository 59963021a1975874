package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"licensegate/logger"
	"licensegate/models"
	"licensegate/services"
)

// ActivationHandler는 클라이언트 활성화/상태 조회 요청을 처리한다.
type ActivationHandler struct {
	service services.ActivationService
}

// NewActivationHandler는 활성화 핸들러를 생성한다.
func NewActivationHandler(service services.ActivationService) *ActivationHandler {
	return &ActivationHandler{service: service}
}

// Activate 라이선스 활성화
// @Summary 라이선스 활성화
// @Description 라이선스 키를 디바이스에 바인딩합니다. 키는 정확히 한 번만 소비됩니다.
// @Tags 활성화
// @Accept json
// @Produce json
// @Param request body models.ActivateRequest true "활성화 정보"
// @Success 201 {object} models.APIResponse{data=models.Activation} "활성화 성공"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 403 {object} models.APIResponse "애플리케이션 불일치"
// @Failure 404 {object} models.APIResponse "라이선스 없음"
// @Failure 409 {object} models.APIResponse "이미 소비된 키 또는 이미 활성화된 디바이스"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/license/activate [post]
func (h *ActivationHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req models.ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	activation, err := h.service.Activate(r.Context(), req.LicenseKey, req.ApplicationID, req.Fingerprint)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.ErrorResponse("License key, application ID and fingerprint are required", nil))
		case errors.Is(err, services.ErrLicenseNotFound):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(models.ErrorResponse("License not found", nil))
		case errors.Is(err, services.ErrApplicationMismatch):
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(models.ErrorResponse("License does not belong to this application", nil))
		case errors.Is(err, services.ErrLicenseAlreadyConsumed):
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(models.ErrorResponse("License key already consumed", nil))
		case errors.Is(err, services.ErrDeviceAlreadyActivated):
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(models.ErrorResponse("Device already activated", nil))
		default:
			logger.WithFields(map[string]interface{}{
				"error":          err.Error(),
				"application_id": req.ApplicationID,
			}).Error("Failed to activate license")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(models.ErrorResponse("Failed to activate license", err))
		}
		return
	}

	logger.WithFields(map[string]interface{}{
		"activation_id":  activation.ID,
		"license_id":     activation.LicenseID,
		"application_id": activation.ApplicationID,
	}).Info("License activated")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.SuccessResponse("License activated successfully", activation))
}

// CheckStatus 엔타이틀먼트 조회
// @Summary 엔타이틀먼트 조회
// @Description 디바이스의 활성화 상태를 조회합니다. 읽기 전용이며 어떤 상태도 변경하지 않습니다.
// @Tags 활성화
// @Accept json
// @Produce json
// @Param request body models.StatusRequest true "조회 정보"
// @Success 200 {object} models.APIResponse{data=models.ActivationStatus} "조회 성공"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/license/status [post]
func (h *ActivationHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	var req models.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	status, err := h.service.CheckStatus(r.Context(), req.ApplicationID, req.Fingerprint)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.ErrorResponse("Application ID and fingerprint are required", nil))
			return
		}
		logger.WithFields(map[string]interface{}{
			"error":          err.Error(),
			"application_id": req.ApplicationID,
		}).Error("Failed to check activation status")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to check activation status", err))
		return
	}

	json.NewEncoder(w).Encode(models.SuccessResponse("Status retrieved", status))
}
