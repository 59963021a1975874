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

// ApplicationHandler는 애플리케이션 관련 HTTP 요청을 처리한다.
type ApplicationHandler struct {
	service services.ApplicationService
}

// NewApplicationHandler는 애플리케이션 핸들러를 생성한다.
func NewApplicationHandler(service services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Create 애플리케이션 등록
// @Summary 애플리케이션 등록
// @Description 새로운 애플리케이션을 등록합니다
// @Tags 애플리케이션
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateApplicationRequest true "애플리케이션 정보"
// @Success 201 {object} models.APIResponse{data=models.Application} "등록 성공"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 401 {object} models.APIResponse "인증 필요"
// @Failure 409 {object} models.APIResponse "중복 애플리케이션명"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/applications [post]
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Application name is required", nil))
		return
	}

	app, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNameConflict) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(models.ErrorResponse("이미 존재하는 애플리케이션명입니다", nil))
			return
		}
		logger.WithFields(map[string]interface{}{"error": err.Error(), "name": req.Name}).Error("Failed to create application")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to create application", err))
		return
	}

	logger.WithFields(map[string]interface{}{
		"application_id": app.ID,
		"name":           app.Name,
	}).Info("Application created")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.SuccessResponse("Application created successfully", app))
}

// List 애플리케이션 목록 조회
// @Summary 애플리케이션 목록 조회
// @Description 모든 애플리케이션 목록을 조회합니다
// @Tags 애플리케이션
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Application} "조회 성공"
// @Failure 401 {object} models.APIResponse "인증 필요"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/applications [get]
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.service.List(r.Context())
	if err != nil {
		logger.Error("Failed to query applications: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to query applications", err))
		return
	}

	logger.Info("Retrieved %d applications", len(apps))
	json.NewEncoder(w).Encode(models.SuccessResponse("Applications retrieved", apps))
}

// Get 애플리케이션 상세 조회
// @Summary 애플리케이션 상세 조회
// @Description 특정 애플리케이션의 상세 정보를 조회합니다
// @Tags 애플리케이션
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id query string true "애플리케이션 ID"
// @Success 200 {object} models.APIResponse{data=models.Application} "조회 성공"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Failure 404 {object} models.APIResponse "애플리케이션 없음"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/applications/ [get]
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathOrQueryID(r)
	if strings.TrimSpace(id) == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Application ID is required", nil))
		return
	}

	app, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(models.ErrorResponse("Application not found", nil))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to retrieve application", err))
		return
	}

	json.NewEncoder(w).Encode(models.SuccessResponse("Application retrieved", app))
}
