package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"licensegate/models"
	"licensegate/utils"
)

var (
	// ErrInvalidApplication은 애플리케이션이 없거나 비활성일 때 반환됩니다.
	ErrInvalidApplication = errors.New("application not found or inactive")
	// ErrInvalidPolicy는 유효기간 정책 값이 잘못되었을 때 반환됩니다.
	ErrInvalidPolicy = errors.New("invalid validity policy")
	// ErrBatchTooLarge는 일괄 발급 수량이 설정된 최대치를 초과할 때 반환됩니다.
	ErrBatchTooLarge = errors.New("batch size exceeds the configured maximum")
	// ErrLicenseNotFound는 라이선스가 존재하지 않을 때 반환됩니다.
	ErrLicenseNotFound = errors.New("license not found")
)

// keyGenerationAttempts 키 충돌 시 단일 키에 대한 재생성 횟수 상한.
// 128비트 엔트로피에서 충돌은 사실상 없지만 유니크 제약 위반은 반드시 처리합니다.
const keyGenerationAttempts = 5

// LicenseFilter는 라이선스 목록 조회 필터입니다.
type LicenseFilter struct {
	ApplicationID string
	Consumed      *bool
}

// LicenseService는 라이선스 발급 비즈니스 로직을 정의합니다.
type LicenseService interface {
	Issue(ctx context.Context, applicationID string, policy models.ValidityPolicy) (models.License, error)
	IssueBatch(ctx context.Context, applicationID string, policy models.ValidityPolicy, count int) ([]models.License, error)
	List(ctx context.Context, filter LicenseFilter) ([]models.License, error)
	Get(ctx context.Context, id string) (models.License, error)
}

type licenseService struct {
	db           SQLExecutor
	maxBatchSize int
}

// NewLicenseService는 LicenseService 구현체를 생성합니다.
func NewLicenseService(db SQLExecutor, maxBatchSize int) LicenseService {
	return &licenseService{db: db, maxBatchSize: maxBatchSize}
}

func (s *licenseService) Issue(ctx context.Context, applicationID string, policy models.ValidityPolicy) (models.License, error) {
	if err := s.validateIssueInput(ctx, applicationID, policy); err != nil {
		return models.License{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.License{}, err
	}
	defer tx.Rollback()

	license, err := insertLicense(ctx, tx, applicationID, policy)
	if err != nil {
		return models.License{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.License{}, err
	}
	return license, nil
}

func (s *licenseService) IssueBatch(ctx context.Context, applicationID string, policy models.ValidityPolicy, count int) ([]models.License, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be positive", ErrInvalidRequest)
	}
	if count > s.maxBatchSize {
		return nil, ErrBatchTooLarge
	}
	if err := s.validateIssueInput(ctx, applicationID, policy); err != nil {
		return nil, err
	}

	// 일괄 발급은 전부 성공하거나 전부 실패합니다. 부분 발급을 허용하면
	// 호출자가 누락과 실패를 구분할 수 없습니다.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	licenses := make([]models.License, 0, count)
	for i := 0; i < count; i++ {
		license, err := insertLicense(ctx, tx, applicationID, policy)
		if err != nil {
			return nil, err
		}
		licenses = append(licenses, license)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return licenses, nil
}

// validateIssueInput 정책 값과 애플리케이션 상태를 검증합니다.
func (s *licenseService) validateIssueInput(ctx context.Context, applicationID string, policy models.ValidityPolicy) error {
	if !policy.Valid() {
		return ErrInvalidPolicy
	}

	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return ErrInvalidApplication
	}

	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM applications WHERE id = ? AND status = ?",
		applicationID, models.ApplicationStatusActive,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return ErrInvalidApplication
	}
	return err
}

// insertLicense 새 라이선스 한 건을 삽입합니다.
// 키 유니크 제약 위반 시 해당 키만 재생성하며, 요청된 수량을 조용히 건너뛰지 않습니다.
func insertLicense(ctx context.Context, tx *sql.Tx, applicationID string, policy models.ValidityPolicy) (models.License, error) {
	id, err := utils.GenerateID("lic")
	if err != nil {
		return models.License{}, err
	}

	now := utils.FormatDateTimeForDB(utils.NowUTC())

	for attempt := 0; attempt < keyGenerationAttempts; attempt++ {
		key, err := utils.GenerateLicenseKey()
		if err != nil {
			return models.License{}, err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO licenses (id, license_key, application_id, policy_kind, policy_days, consumed, created_at)
			VALUES (?, ?, ?, ?, ?, 0, ?)`,
			id, key, applicationID, policy.Kind, policy.Days, now,
		)
		if err == nil {
			return models.License{
				ID:            id,
				LicenseKey:    key,
				ApplicationID: applicationID,
				Policy:        policy,
				Consumed:      false,
				CreatedAt:     now,
			}, nil
		}
		if !isDuplicateKeyError(err) {
			return models.License{}, err
		}
	}

	return models.License{}, errors.New("failed to generate a unique license key")
}

func (s *licenseService) List(ctx context.Context, filter LicenseFilter) ([]models.License, error) {
	query := `SELECT id, license_key, application_id, policy_kind, policy_days, consumed, consumed_at, created_at
		FROM licenses WHERE 1=1`
	args := make([]any, 0)

	if strings.TrimSpace(filter.ApplicationID) != "" {
		query += " AND application_id = ?"
		args = append(args, filter.ApplicationID)
	}
	if filter.Consumed != nil {
		query += " AND consumed = ?"
		if *filter.Consumed {
			args = append(args, 1)
		} else {
			args = append(args, 0)
		}
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	licenses := make([]models.License, 0)
	for rows.Next() {
		license, err := scanLicense(rows)
		if err != nil {
			return nil, err
		}
		licenses = append(licenses, license)
	}

	return licenses, rows.Err()
}

func (s *licenseService) Get(ctx context.Context, id string) (models.License, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, license_key, application_id, policy_kind, policy_days, consumed, consumed_at, created_at
		FROM licenses WHERE id = ?`,
		id,
	)

	license, err := scanLicenseRow(row)
	if err == sql.ErrNoRows {
		return models.License{}, ErrLicenseNotFound
	}
	if err != nil {
		return models.License{}, err
	}
	return license, nil
}

func scanLicense(rows *sql.Rows) (models.License, error) {
	var (
		license    models.License
		consumed   int
		consumedAt sql.NullString
	)
	err := rows.Scan(
		&license.ID, &license.LicenseKey, &license.ApplicationID,
		&license.Policy.Kind, &license.Policy.Days,
		&consumed, &consumedAt, &license.CreatedAt,
	)
	if err != nil {
		return models.License{}, err
	}
	license.Consumed = consumed != 0
	if consumedAt.Valid {
		license.ConsumedAt = &consumedAt.String
	}
	return license, nil
}

func scanLicenseRow(row *sql.Row) (models.License, error) {
	var (
		license    models.License
		consumed   int
		consumedAt sql.NullString
	)
	err := row.Scan(
		&license.ID, &license.LicenseKey, &license.ApplicationID,
		&license.Policy.Kind, &license.Policy.Days,
		&consumed, &consumedAt, &license.CreatedAt,
	)
	if err != nil {
		return models.License{}, err
	}
	license.Consumed = consumed != 0
	if consumedAt.Valid {
		license.ConsumedAt = &consumedAt.String
	}
	return license, nil
}
