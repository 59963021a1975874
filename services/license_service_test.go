package services

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensegate/database"
	"licensegate/models"
	"licensegate/utils"
)

func setupTestDB(t *testing.T) SQLExecutor {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "licensegate_test.db")
	require.NoError(t, database.Initialize("sqlite", dbPath))
	t.Cleanup(func() { database.Close() })

	return NewSQLExecutor(database.DB)
}

func createTestApplication(t *testing.T, db SQLExecutor, id, status string) {
	t.Helper()

	now := utils.FormatDateTimeForDB(utils.NowUTC())
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO applications (id, name, description, status, created_at, updated_at)
		VALUES (?, ?, '', ?, ?, ?)`,
		id, "app-"+id, status, now, now,
	)
	require.NoError(t, err)
}

var licenseKeyPattern = regexp.MustCompile(`^([0-9A-F]{4}-){7}[0-9A-F]{4}$`)

func TestIssueLicense(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	svc := NewLicenseService(db, 1000)

	license, err := svc.Issue(context.Background(), "app-1", models.ValidityPolicy{Kind: models.PolicyAlways})
	require.NoError(t, err)

	assert.Regexp(t, licenseKeyPattern, license.LicenseKey)
	assert.Equal(t, "app-1", license.ApplicationID)
	assert.False(t, license.Consumed)
	assert.Nil(t, license.ConsumedAt)

	got, err := svc.Get(context.Background(), license.ID)
	require.NoError(t, err)
	assert.Equal(t, license.LicenseKey, got.LicenseKey)
	assert.Equal(t, models.PolicyAlways, got.Policy.Kind)
}

func TestIssueLicenseInvalidPolicy(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	svc := NewLicenseService(db, 1000)

	cases := []models.ValidityPolicy{
		{Kind: models.PolicyInterval, Days: 0},
		{Kind: models.PolicyInterval, Days: -3},
		{Kind: models.PolicyAlways, Days: 7},
		{Kind: "bogus"},
		{},
	}
	for _, policy := range cases {
		_, err := svc.Issue(context.Background(), "app-1", policy)
		assert.ErrorIs(t, err, ErrInvalidPolicy)
	}
}

func TestIssueLicenseInvalidApplication(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-off", models.ApplicationStatusInactive)
	svc := NewLicenseService(db, 1000)

	_, err := svc.Issue(context.Background(), "no-such-app", models.ValidityPolicy{Kind: models.PolicyAlways})
	assert.ErrorIs(t, err, ErrInvalidApplication)

	// 비활성 애플리케이션도 발급 불가
	_, err = svc.Issue(context.Background(), "app-off", models.ValidityPolicy{Kind: models.PolicyAlways})
	assert.ErrorIs(t, err, ErrInvalidApplication)
}

func TestIssueBatchDistinctKeys(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	svc := NewLicenseService(db, 1000)

	const count = 1000
	licenses, err := svc.IssueBatch(context.Background(), "app-1",
		models.ValidityPolicy{Kind: models.PolicyInterval, Days: 30}, count)
	require.NoError(t, err)
	require.Len(t, licenses, count)

	keys := make(map[string]bool, count)
	for _, license := range licenses {
		assert.Regexp(t, licenseKeyPattern, license.LicenseKey)
		keys[license.LicenseKey] = true
	}
	assert.Len(t, keys, count, "all keys in a batch must be distinct")

	var persisted int
	err = db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM licenses WHERE application_id = ?", "app-1",
	).Scan(&persisted)
	require.NoError(t, err)
	assert.Equal(t, count, persisted)
}

func TestIssueBatchTooLarge(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	svc := NewLicenseService(db, 10)

	_, err := svc.IssueBatch(context.Background(), "app-1",
		models.ValidityPolicy{Kind: models.PolicyAlways}, 11)
	assert.ErrorIs(t, err, ErrBatchTooLarge)

	// 전부 아니면 전무: 실패한 일괄 발급은 아무것도 남기지 않는다
	var persisted int
	err = db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM licenses").Scan(&persisted)
	require.NoError(t, err)
	assert.Zero(t, persisted)
}

func TestIssueBatchInvalidCount(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	svc := NewLicenseService(db, 1000)

	_, err := svc.IssueBatch(context.Background(), "app-1",
		models.ValidityPolicy{Kind: models.PolicyAlways}, 0)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestListLicensesFilter(t *testing.T) {
	db := setupTestDB(t)
	createTestApplication(t, db, "app-1", models.ApplicationStatusActive)
	createTestApplication(t, db, "app-2", models.ApplicationStatusActive)
	svc := NewLicenseService(db, 1000)

	first, err := svc.Issue(context.Background(), "app-1", models.ValidityPolicy{Kind: models.PolicyAlways})
	require.NoError(t, err)
	_, err = svc.Issue(context.Background(), "app-2", models.ValidityPolicy{Kind: models.PolicyAlways})
	require.NoError(t, err)

	// 한 건을 소비 상태로 전환
	_, err = db.ExecContext(context.Background(),
		"UPDATE licenses SET consumed = 1, consumed_at = ? WHERE id = ?",
		utils.FormatDateTimeForDB(utils.NowUTC()), first.ID,
	)
	require.NoError(t, err)

	byApp, err := svc.List(context.Background(), LicenseFilter{ApplicationID: "app-1"})
	require.NoError(t, err)
	require.Len(t, byApp, 1)
	assert.Equal(t, first.ID, byApp[0].ID)

	consumed := true
	byConsumed, err := svc.List(context.Background(), LicenseFilter{Consumed: &consumed})
	require.NoError(t, err)
	require.Len(t, byConsumed, 1)
	assert.True(t, byConsumed[0].Consumed)
	assert.NotNil(t, byConsumed[0].ConsumedAt)
}

func TestGetLicenseNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewLicenseService(db, 1000)

	_, err := svc.Get(context.Background(), "lic-missing")
	assert.ErrorIs(t, err, ErrLicenseNotFound)
}
