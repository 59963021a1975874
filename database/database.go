package database

import (
	"database/sql"
	"fmt"
	"strings"

	"licensegate/logger"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

var DB *sql.DB
var dbType string // 데이터베이스 타입 저장

// Initialize 데이터베이스 초기화
// t: "sqlite" 또는 "mysql"
// dsn: SQLite 파일 경로 또는 MySQL DSN
func Initialize(t, dsn string) error {
	var err error

	// 기본값 설정
	if t == "" {
		t = "sqlite"
	}
	if dsn == "" && t == "sqlite" {
		dsn = "./licensegate.db"
	}

	dbType = t

	DB, err = sql.Open(dbType, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// 연결 테스트
	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if dbType == "sqlite" {
		// SQLite는 단일 라이터이므로 커넥션을 1개로 제한해
		// 바인딩 트랜잭션들이 busy 에러 대신 직렬화되도록 합니다.
		DB.SetMaxOpenConns(1)

		if _, err := DB.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		if _, err := DB.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			return fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}

	// 테이블 생성
	if err := createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info("Database initialized successfully")
	return nil
}

// createTables 테이블 생성
// licenses.license_key와 activations(application_id, fingerprint)의
// 유니크 제약이 정확히 한 번 소비 보장의 토대입니다.
func createTables() error {
	tableSuffix := ""
	auditIDColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if dbType == "mysql" {
		tableSuffix = " CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"
		auditIDColumn = "id BIGINT AUTO_INCREMENT PRIMARY KEY"
	}

	statements := []string{
		// 애플리케이션 테이블
		`CREATE TABLE IF NOT EXISTS applications (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) UNIQUE NOT NULL,
			description TEXT,
			status VARCHAR(50) NOT NULL DEFAULT 'active',
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)` + tableSuffix,

		// 라이선스 테이블
		`CREATE TABLE IF NOT EXISTS licenses (
			id VARCHAR(50) PRIMARY KEY,
			license_key VARCHAR(255) UNIQUE NOT NULL,
			application_id VARCHAR(50) NOT NULL,
			policy_kind VARCHAR(20) NOT NULL,
			policy_days INT NOT NULL DEFAULT 0,
			consumed INT NOT NULL DEFAULT 0,
			consumed_at VARCHAR(50),
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			FOREIGN KEY (application_id) REFERENCES applications(id)
		)` + tableSuffix,

		// 활성화 테이블
		`CREATE TABLE IF NOT EXISTS activations (
			id VARCHAR(50) PRIMARY KEY,
			license_id VARCHAR(50) UNIQUE NOT NULL,
			application_id VARCHAR(50) NOT NULL,
			fingerprint VARCHAR(255) NOT NULL,
			activated_at VARCHAR(50) NOT NULL DEFAULT '',
			expires_at VARCHAR(50),
			FOREIGN KEY (license_id) REFERENCES licenses(id),
			CONSTRAINT uq_activation_device UNIQUE (application_id, fingerprint)
		)` + tableSuffix,

		// 활성화 감사 로그 테이블
		`CREATE TABLE IF NOT EXISTS activation_audit_logs (
			` + auditIDColumn + `,
			activation_id VARCHAR(50) NOT NULL,
			license_id VARCHAR(50) NOT NULL,
			application_id VARCHAR(50) NOT NULL,
			action VARCHAR(100) NOT NULL,
			details TEXT,
			created_at VARCHAR(50) NOT NULL DEFAULT ''
		)` + tableSuffix,

		// 인덱스 생성
		`CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(status)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_application ON licenses(application_id)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_consumed ON licenses(consumed)`,
		`CREATE INDEX IF NOT EXISTS idx_activations_license ON activations(license_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_activation ON activation_audit_logs(activation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_created ON activation_audit_logs(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			// MySQL은 CREATE INDEX IF NOT EXISTS를 지원하지 않는 버전이 있어
			// 이미 존재하는 인덱스 오류는 무시합니다.
			if strings.Contains(err.Error(), "already exists") ||
				strings.Contains(err.Error(), "Duplicate key name") {
				continue
			}
			return fmt.Errorf("failed to execute SQL: %w", err)
		}
	}

	return nil
}

// Close 데이터베이스 연결 종료
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
