package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensegate/models"
	"licensegate/utils"
)

// newActivationServiceAt 고정 시각으로 동작하는 서비스 생성
func newActivationServiceAt(db SQLExecutor, at time.Time) *activationService {
	return &activationService{
		db:  db,
		now: func() time.Time { return at },
	}
}

func issueTestLicense(t *testing.T, db SQLExecutor, appID string, policy models.ValidityPolicy) models.License {
	t.Helper()

	license, err := NewLicenseService(db, 1000).Issue(context.Background(), appID, policy)
	require.NoError(t, err)
	return license
}

func TestActivateBindsLicense(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	license := issueTestLicense(t, db, "app-1", models.ValidityPolicy{Kind: models.PolicyAlways})

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newActivationServiceAt(db, t0)

	activation, err := svc.Activate(context.Background(), license.LicenseKey, "app-1", "device-1")
	require.NoError(t, err)
	assert.Equal(t, license.ID, activation.LicenseID)
	assert.Equal(t, "device-1", activation.Fingerprint)
	assert.Equal(t, utils.FormatDateTimeForDB(t0), activation.ActivatedAt)
	assert.Nil(t, activation.ExpiresAt, "always policy has no expiry")

	// 키가 소비 상태로 전환되었는지 확인
	got, err := NewLicenseService(db, 1000).Get(context.Background(), license.ID)
	require.NoError(t, err)
	assert.True(t, got.Consumed)
	require.NotNil(t, got.ConsumedAt)
	assert.Equal(t, utils.FormatDateTimeForDB(t0), *got.ConsumedAt)

	status, err := svc.CheckStatus(context.Background(), "app-1", "device-1")
	require.NoError(t, err)
	assert.True(t, status.IsActive)
	require.NotNil(t, status.ActivatedAt)
	assert.Equal(t, activation.ActivatedAt, *status.ActivatedAt)
	assert.Nil(t, status.ExpiresAt)
}

func TestActivateIntervalExpiryBoundary(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	license := issueTestLicense(t, db, "app-1",
		models.ValidityPolicy{Kind: models.PolicyInterval, Days: 30})

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newActivationServiceAt(db, t0)

	activation, err := svc.Activate(context.Background(), license.LicenseKey, "app-1", "device-1")
	require.NoError(t, err)

	expiry := t0.Add(30 * 24 * time.Hour)
	require.NotNil(t, activation.ExpiresAt)
	assert.Equal(t, utils.FormatDateTimeForDB(expiry), *activation.ExpiresAt)

	// 만료 1초 전: 유효
	svc.now = func() time.Time { return expiry.Add(-time.Second) }
	status, err := svc.CheckStatus(context.Background(), "app-1", "device-1")
	require.NoError(t, err)
	assert.True(t, status.IsActive)

	// 만료 시각 정각: 이미 비활성 (경계는 배타적)
	svc.now = func() time.Time { return expiry }
	status, err = svc.CheckStatus(context.Background(), "app-1", "device-1")
	require.NoError(t, err)
	assert.False(t, status.IsActive)
	require.NotNil(t, status.ExpiresAt)
	assert.Equal(t, utils.FormatDateTimeForDB(expiry), *status.ExpiresAt)
}

func TestActivateUnknownKey(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	svc := newActivationServiceAt(db, utils.NowUTC())

	_, err := svc.Activate(context.Background(), "AAAA-BBBB-CCCC-DDDD-EEEE-FFFF-0000-1111", "app-1", "device-1")
	assert.ErrorIs(t, err, ErrLicenseNotFound)
}

func TestActivateApplicationMismatch(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	createTestApplication(t, db, "app-2", models.ApplicationStatusActive)
	license := issueTestLicense(t, db, "app-1", models.ValidityPolicy{Kind: models.PolicyAlways})

	svc := newActivationServiceAt(db, utils.NowUTC())

	_, err := svc.Activate(context.Background(), license.LicenseKey, "app-2", "device-1")
	assert.ErrorIs(t, err, ErrApplicationMismatch)

	// 거부된 시도는 키를 소비하지 않는다
	got, err := NewLicenseService(db, 1000).Get(context.Background(), license.ID)
	require.NoError(t, err)
	assert.False(t, got.Consumed)
}

func TestActivateAlreadyConsumed(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	license := issueTestLicense(t, db, "app-1", models.ValidityPolicy{Kind: models.PolicyAlways})

	svc := newActivationServiceAt(db, utils.NowUTC())

	_, err := svc.Activate(context.Background(), license.LicenseKey, "app-1", "device-1")
	require.NoError(t, err)

	_, err = svc.Activate(context.Background(), license.LicenseKey, "app-1", "device-2")
	assert.ErrorIs(t, err, ErrLicenseAlreadyConsumed)
}

func TestActivateDeviceAlreadyActivated(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	first := issueTestLicense(t, db, "app-1", models.ValidityPolicy{Kind: models.PolicyAlways})
	second := issueTestLicense(t, db, "app-1", models.ValidityPolicy{Kind: models.PolicyAlways})

	svc := newActivationServiceAt(db, utils.NowUTC())

	_, err := svc.Activate(context.Background(), first.LicenseKey, "app-1", "device-1")
	require.NoError(t, err)

	_, err = svc.Activate(context.Background(), second.LicenseKey, "app-1", "device-1")
	assert.ErrorIs(t, err, ErrDeviceAlreadyActivated)

	// 거부된 두 번째 키는 소비되지 않는다
	got, err := NewLicenseService(db, 1000).Get(context.Background(), second.ID)
	require.NoError(t, err)
	assert.False(t, got.Consumed)
}

func TestActivateRenewalAfterExpiry(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	first := issueTestLicense(t, db, "app-1",
		models.ValidityPolicy{Kind: models.PolicyInterval, Days: 1})
	second := issueTestLicense(t, db, "app-1",
		models.ValidityPolicy{Kind: models.PolicyInterval, Days: 30})

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newActivationServiceAt(db, t0)

	_, err := svc.Activate(context.Background(), first.LicenseKey, "app-1", "device-1")
	require.NoError(t, err)

	// 만료 전 갱신 시도는 거부된다
	svc.now = func() time.Time { return t0.Add(12 * time.Hour) }
	_, err = svc.Activate(context.Background(), second.LicenseKey, "app-1", "device-1")
	assert.ErrorIs(t, err, ErrDeviceAlreadyActivated)

	// 만료 후에는 새 키로 갱신할 수 있다
	renewedAt := t0.Add(25 * time.Hour)
	svc.now = func() time.Time { return renewedAt }
	activation, err := svc.Activate(context.Background(), second.LicenseKey, "app-1", "device-1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, activation.LicenseID)

	status, err := svc.CheckStatus(context.Background(), "app-1", "device-1")
	require.NoError(t, err)
	assert.True(t, status.IsActive)
	require.NotNil(t, status.ActivatedAt)
	assert.Equal(t, utils.FormatDateTimeForDB(renewedAt), *status.ActivatedAt)

	// 디바이스당 활성화 기록은 한 건만 유지된다
	var count int
	err = db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM activations WHERE application_id = ? AND fingerprint = ?",
		"app-1", "device-1",
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// 만료된 첫 키는 여전히 소비 상태다
	got, err := NewLicenseService(db, 1000).Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, got.Consumed)
}

func TestActivateConcurrentSameKey(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	license := issueTestLicense(t, db, "app-1", models.ValidityPolicy{Kind: models.PolicyAlways})

	svc := newActivationServiceAt(db, utils.NowUTC())

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = svc.Activate(context.Background(),
				license.LicenseKey, "app-1", string(rune('a'+n))+"-device")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrLicenseAlreadyConsumed)
	}
	assert.Equal(t, 1, succeeded, "exactly one caller must win the key")

	var activations int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM activations WHERE license_id = ?", license.ID,
	).Scan(&activations)
	require.NoError(t, err)
	assert.Equal(t, 1, activations)
}

func TestActivateConcurrentSameDevice(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)

	licenseService := NewLicenseService(db, 1000)
	const callers = 8
	licenses := make([]models.License, callers)
	for i := range licenses {
		license, err := licenseService.Issue(context.Background(), "app-1",
			models.ValidityPolicy{Kind: models.PolicyAlways})
		require.NoError(t, err)
		licenses[i] = license
	}

	svc := newActivationServiceAt(db, utils.NowUTC())

	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = svc.Activate(context.Background(),
				licenses[n].LicenseKey, "app-1", "device-1")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrDeviceAlreadyActivated)
	}
	assert.Equal(t, 1, succeeded, "exactly one caller must win the device")

	// 패자들의 키는 소비되지 않고 남아야 한다
	var consumed int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM licenses WHERE consumed = 1").Scan(&consumed)
	require.NoError(t, err)
	assert.Equal(t, 1, consumed)

	var activations int
	err = db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM activations WHERE application_id = ? AND fingerprint = ?",
		"app-1", "device-1",
	).Scan(&activations)
	require.NoError(t, err)
	assert.Equal(t, 1, activations)
}

func TestActivateEmptyFields(t *testing.T) {
	db := setupTestDB(t)
	svc := newActivationServiceAt(db, utils.NowUTC())

	_, err := svc.Activate(context.Background(), "", "app-1", "device-1")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = svc.Activate(context.Background(), "KEY", "", "device-1")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = svc.Activate(context.Background(), "KEY", "app-1", "   ")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCheckStatusUnknownDevice(t *testing.T) {
	db := setupTestDB(t)
	svc := newActivationServiceAt(db, utils.NowUTC())

	status, err := svc.CheckStatus(context.Background(), "app-1", "never-seen")
	require.NoError(t, err)
	assert.False(t, status.IsActive)
	assert.Nil(t, status.ActivatedAt)
	assert.Nil(t, status.ExpiresAt)
}

func TestCheckStatusEmptyFields(t *testing.T) {
	db := setupTestDB(t)
	svc := newActivationServiceAt(db, utils.NowUTC())

	_, err := svc.CheckStatus(context.Background(), "", "device-1")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = svc.CheckStatus(context.Background(), "app-1", "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
