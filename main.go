package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"licensegate/config"
	"licensegate/database"
	_ "licensegate/docs" // Swagger 문서
	"licensegate/handlers"
	"licensegate/logger"
	"licensegate/middleware"
	"licensegate/scheduler"
	"licensegate/services"
	"licensegate/utils"

	httpSwagger "github.com/swaggo/http-swagger"
)

var (
	authHTTPHandler        *handlers.AuthHandler
	applicationHTTPHandler *handlers.ApplicationHandler
	licenseHTTPHandler     *handlers.LicenseHandler
	activationHTTPHandler  *handlers.ActivationHandler
)

// @title License Gate API
// @version 1.0
// @description 라이선스 발급 및 디바이스 활성화 서버

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT 토큰을 입력하세요. 형식: Bearer {token}

func main() {
	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	// 로거 초기화
	logConfig := logger.Config{
		Level:    logger.ParseLevel(cfg.Logging.Level),
		LogDir:   cfg.Logging.Dir,
		MaxSize:  cfg.Logging.MaxSize,
		MaxAge:   cfg.Logging.MaxAge,
		UseColor: cfg.Logging.UseColor,
	}

	if err := logger.Initialize(logConfig); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}

	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Info("🚀 License Gate Server Starting")
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	// 데이터베이스 초기화
	if err := database.Initialize(cfg.Database.Type, cfg.Database.DSN); err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// 토큰 서명 키는 .env를 포함한 설정 로드 이후에 주입
	utils.SetJWTSecret(cfg.Auth.JWTSecret)

	// 관리 API 키는 해시만 메모리에 유지
	apiKeyHash, err := utils.HashAPIKey(cfg.Auth.AdminAPIKey)
	if err != nil {
		logger.Fatal("Failed to hash admin API key: %v", err)
	}

	// 서비스 계층 초기화
	sqlExecutor := services.NewSQLExecutor(database.DB)
	applicationService := services.NewApplicationService(sqlExecutor)
	licenseService := services.NewLicenseService(sqlExecutor, cfg.Licensing.MaxBatchSize)
	activationService := services.NewActivationService(sqlExecutor)

	authHTTPHandler = handlers.NewAuthHandler(apiKeyHash, cfg.Auth.TokenTTL)
	applicationHTTPHandler = handlers.NewApplicationHandler(applicationService)
	licenseHTTPHandler = handlers.NewLicenseHandler(licenseService)
	activationHTTPHandler = handlers.NewActivationHandler(activationService)

	// 스케줄러 시작 (감사 로그 보존 기간 관리)
	scheduler.StartScheduler(cfg.Licensing.AuditRetentionDays)

	// 라우터 설정
	mux := http.NewServeMux()

	// Swagger 문서
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Public 엔드포인트
	mux.HandleFunc("/", homeHandler)
	mux.HandleFunc("/health", healthHandler)

	// 인증 API (발급 API 키 → 베어러 토큰)
	mux.HandleFunc("/api/admin/token",
		middleware.ChainMiddleware(
			tokenHandler,
			middleware.LoggingMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	// 애플리케이션 관리 API (인증 필요)
	mux.HandleFunc("/api/admin/applications",
		middleware.ChainMiddleware(
			applicationHandler,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/admin/applications/",
		middleware.ChainMiddleware(
			applicationDetailHandler,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	// 라이선스 발급 API (인증 필요)
	mux.HandleFunc("/api/admin/licenses",
		middleware.ChainMiddleware(
			licenseHandler,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/admin/licenses/batch",
		middleware.ChainMiddleware(
			licenseBatchHandler,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/admin/licenses/",
		middleware.ChainMiddleware(
			licenseDetailHandler,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	// 대시보드 API (인증 필요)
	mux.HandleFunc("/api/admin/dashboard/stats",
		middleware.ChainMiddleware(
			handlers.GetDashboardStats,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/admin/dashboard/activities",
		middleware.ChainMiddleware(
			handlers.GetRecentActivities,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	// 클라이언트 API (인증 불필요)
	mux.HandleFunc("/api/license/activate",
		middleware.ChainMiddleware(
			activateHandler,
			middleware.LoggingMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/license/status",
		middleware.ChainMiddleware(
			statusHandler,
			middleware.LoggingMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	// 서버 설정
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         port,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown 설정
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Warn("Received shutdown signal")

		// 진행 중인 요청이 끝날 때까지 대기 후 종료
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error: %v", err)
		}
	}()

	logger.Info("Server listening on http://localhost%s", port)
	logger.Info("Swagger UI: http://localhost%s/swagger/index.html", port)
	logger.Info("Log directory: %s", cfg.Logging.Dir)
	logger.Info("Database: %s - %s", cfg.Database.Type, cfg.Database.DSN)
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed to start: %v", err)
	}
	logger.Info("Server stopped")
}

// homeHandler 루트 핸들러
func homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"success","message":"License Gate Server","version":"1.0.0"}`))
}

// healthHandler 헬스체크 핸들러
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"success","message":"Server is healthy"}`))
}

// tokenHandler 토큰 교환 핸들러
func tokenHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		authHTTPHandler.ExchangeToken(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// applicationHandler 애플리케이션 목록/등록 핸들러
func applicationHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		applicationHTTPHandler.List(w, r)
	case http.MethodPost:
		applicationHTTPHandler.Create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// applicationDetailHandler 애플리케이션 상세 핸들러
func applicationDetailHandler(w http.ResponseWriter, r *http.Request) {
	r = withPathID(r, "/api/admin/applications/")

	switch r.Method {
	case http.MethodGet:
		applicationHTTPHandler.Get(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// licenseHandler 라이선스 목록/발급 핸들러
func licenseHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		licenseHTTPHandler.List(w, r)
	case http.MethodPost:
		licenseHTTPHandler.Issue(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// licenseBatchHandler 라이선스 일괄 발급 핸들러
func licenseBatchHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		licenseHTTPHandler.IssueBatch(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// licenseDetailHandler 라이선스 상세 핸들러
func licenseDetailHandler(w http.ResponseWriter, r *http.Request) {
	r = withPathID(r, "/api/admin/licenses/")

	switch r.Method {
	case http.MethodGet:
		licenseHTTPHandler.Get(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// activateHandler 라이선스 활성화 핸들러
func activateHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		activationHTTPHandler.Activate(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// statusHandler 엔타이틀먼트 조회 핸들러
func statusHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		activationHTTPHandler.CheckStatus(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// withPathID 경로 마지막 세그먼트를 context에 저장 (PathValue 대신 사용)
func withPathID(r *http.Request, prefix string) *http.Request {
	path := strings.TrimPrefix(r.URL.Path, prefix)
	path = strings.Trim(path, "/")
	if path == "" || strings.Contains(path, "/") {
		return r
	}
	ctx := context.WithValue(r.Context(), "path_id", path)
	return r.WithContext(ctx)
}
