package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"licensegate/models"
	"licensegate/utils"
)

var (
	// ErrInvalidRequest는 필수 입력이 비어 있을 때 저장소 접근 전에 반환됩니다.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrApplicationMismatch는 라이선스가 다른 애플리케이션 소속일 때 반환됩니다.
	ErrApplicationMismatch = errors.New("license does not belong to this application")
	// ErrLicenseAlreadyConsumed는 이미 소비된 키로 활성화를 시도할 때 반환됩니다.
	ErrLicenseAlreadyConsumed = errors.New("license key already consumed")
	// ErrDeviceAlreadyActivated는 디바이스에 이미 유효한 활성화가 있을 때 반환됩니다.
	ErrDeviceAlreadyActivated = errors.New("device already activated")
)

// ActivationService는 활성화 바인딩과 엔타이틀먼트 검증 로직을 정의합니다.
//
// Activate는 라이선스 키를 정확히 한 번만 소비합니다. 동일 키로 경쟁하는
// 호출 중 정확히 하나만 성공하고 나머지는 ErrLicenseAlreadyConsumed를,
// 동일 (애플리케이션, 핑거프린트)로 경쟁하는 호출은 하나만 성공하고
// 나머지는 ErrDeviceAlreadyActivated를 받습니다.
type ActivationService interface {
	Activate(ctx context.Context, licenseKey, applicationID, fingerprint string) (models.Activation, error)
	CheckStatus(ctx context.Context, applicationID, fingerprint string) (models.ActivationStatus, error)
}

type activationService struct {
	db  SQLExecutor
	now func() time.Time
}

// NewActivationService는 ActivationService 구현체를 생성합니다.
func NewActivationService(db SQLExecutor) ActivationService {
	return &activationService{db: db, now: utils.NowUTC}
}

func (s *activationService) Activate(ctx context.Context, licenseKey, applicationID, fingerprint string) (models.Activation, error) {
	licenseKey = strings.TrimSpace(licenseKey)
	applicationID = strings.TrimSpace(applicationID)
	fingerprint = strings.TrimSpace(fingerprint)
	if licenseKey == "" || applicationID == "" || fingerprint == "" {
		return models.Activation{}, ErrInvalidRequest
	}

	// 일시적 충돌은 한 번만 재시도하고, 두 번째 실패는 그대로 반환해
	// 지연 시간을 제한합니다.
	activation, superseded, err := s.activateOnce(ctx, licenseKey, applicationID, fingerprint)
	if err != nil && isTransientError(err) {
		activation, superseded, err = s.activateOnce(ctx, licenseKey, applicationID, fingerprint)
	}
	if err != nil {
		return models.Activation{}, err
	}

	if superseded != "" {
		utils.LogActivationActivity(superseded, activation.LicenseID, applicationID,
			models.ActivationActionSuperseded, "Expired activation superseded by renewal")
	}
	utils.LogActivationActivity(activation.ID, activation.LicenseID, applicationID,
		models.ActivationActionBound, "License key bound to device")

	return activation, nil
}

// activateOnce 바인딩 알고리즘 전체를 단일 트랜잭션으로 실행합니다.
// 반환값 supersededID는 갱신으로 대체된 만료 활성화의 ID입니다 (없으면 빈 문자열).
func (s *activationService) activateOnce(ctx context.Context, licenseKey, applicationID, fingerprint string) (models.Activation, string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Activation{}, "", err
	}
	defer tx.Rollback()

	// 1. 키로 라이선스 조회
	var (
		license  models.License
		consumed int
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, application_id, policy_kind, policy_days, consumed
		FROM licenses WHERE license_key = ?`,
		licenseKey,
	).Scan(&license.ID, &license.ApplicationID, &license.Policy.Kind, &license.Policy.Days, &consumed)
	if err == sql.ErrNoRows {
		return models.Activation{}, "", ErrLicenseNotFound
	}
	if err != nil {
		return models.Activation{}, "", err
	}

	// 2. 애플리케이션 일치 확인
	if license.ApplicationID != applicationID {
		return models.Activation{}, "", ErrApplicationMismatch
	}

	// 3. 소비 여부 확인
	if consumed != 0 {
		return models.Activation{}, "", ErrLicenseAlreadyConsumed
	}

	now := s.now()

	// 4. 동일 디바이스의 기존 활성화 확인.
	// 유효하면 거부하고, 만료된 활성화는 갱신으로 대체합니다.
	supersededID := ""
	var (
		existingID        string
		existingExpiresAt sql.NullString
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, expires_at FROM activations
		WHERE application_id = ? AND fingerprint = ?`,
		applicationID, fingerprint,
	).Scan(&existingID, &existingExpiresAt)
	if err != nil && err != sql.ErrNoRows {
		return models.Activation{}, "", err
	}
	if err == nil {
		active, parseErr := isActiveAt(existingExpiresAt, now)
		if parseErr != nil {
			return models.Activation{}, "", parseErr
		}
		if active {
			return models.Activation{}, "", ErrDeviceAlreadyActivated
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM activations WHERE id = ?", existingID); err != nil {
			return models.Activation{}, "", err
		}
		supersededID = existingID
	}

	// 5. 만료 시각은 바인딩 시점에 한 번만 계산되어 불변으로 저장됩니다.
	var expiresAt *string
	if expiry := license.Policy.ExpiryFrom(now); expiry != nil {
		formatted := utils.FormatDateTimeForDB(*expiry)
		expiresAt = &formatted
	}

	// 6. 소비 플래그 compare-and-set. 영향받은 행이 없으면 경쟁에서
	// 다른 호출이 먼저 소비한 것입니다.
	nowStr := utils.FormatDateTimeForDB(now)
	result, err := tx.ExecContext(ctx,
		"UPDATE licenses SET consumed = 1, consumed_at = ? WHERE id = ? AND consumed = 0",
		nowStr, license.ID,
	)
	if err != nil {
		return models.Activation{}, "", err
	}
	if affected, err := result.RowsAffected(); err != nil {
		return models.Activation{}, "", err
	} else if affected == 0 {
		return models.Activation{}, "", ErrLicenseAlreadyConsumed
	}

	activationID, err := utils.GenerateID("act")
	if err != nil {
		return models.Activation{}, "", err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO activations (id, license_id, application_id, fingerprint, activated_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		activationID, license.ID, applicationID, fingerprint, nowStr, expiresAt,
	)
	if err != nil {
		// 유니크 제약 위반은 같은 디바이스로 경쟁한 다른 호출이 먼저
		// 바인딩을 커밋했다는 뜻입니다. 이 시도의 소비는 롤백됩니다.
		if isDuplicateKeyError(err) {
			return models.Activation{}, "", ErrDeviceAlreadyActivated
		}
		return models.Activation{}, "", err
	}

	if err := tx.Commit(); err != nil {
		return models.Activation{}, "", err
	}

	return models.Activation{
		ID:            activationID,
		LicenseID:     license.ID,
		ApplicationID: applicationID,
		Fingerprint:   fingerprint,
		ActivatedAt:   nowStr,
		ExpiresAt:     expiresAt,
	}, supersededID, nil
}

// CheckStatus 엔타이틀먼트를 조회합니다. 읽기 전용이며 어떤 상태도 변경하지 않습니다.
// 활성화된 적 없는 디바이스는 에러가 아니라 비활성 결과입니다.
func (s *activationService) CheckStatus(ctx context.Context, applicationID, fingerprint string) (models.ActivationStatus, error) {
	applicationID = strings.TrimSpace(applicationID)
	fingerprint = strings.TrimSpace(fingerprint)
	if applicationID == "" || fingerprint == "" {
		return models.ActivationStatus{}, ErrInvalidRequest
	}

	var (
		activatedAt string
		expiresAt   sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT activated_at, expires_at FROM activations
		WHERE application_id = ? AND fingerprint = ?`,
		applicationID, fingerprint,
	).Scan(&activatedAt, &expiresAt)
	if err == sql.ErrNoRows {
		return models.ActivationStatus{IsActive: false}, nil
	}
	if err != nil {
		return models.ActivationStatus{}, err
	}

	active, err := isActiveAt(expiresAt, s.now())
	if err != nil {
		return models.ActivationStatus{}, err
	}

	status := models.ActivationStatus{
		IsActive:    active,
		ActivatedAt: &activatedAt,
	}
	if expiresAt.Valid {
		status.ExpiresAt = &expiresAt.String
	}
	return status, nil
}

// isActiveAt 만료 시각 기준 활성 여부. 경계는 배타적이어서 만료 시각
// 정각에는 이미 비활성입니다.
func isActiveAt(expiresAt sql.NullString, now time.Time) (bool, error) {
	if !expiresAt.Valid || expiresAt.String == "" {
		return true, nil
	}
	expiry, err := utils.ParseDBDate(expiresAt.String)
	if err != nil {
		return false, fmt.Errorf("malformed expires_at: %w", err)
	}
	return now.Before(expiry), nil
}
