package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensegate/models"
	"licensegate/services"
)

func TestIssueLicenseEndpoint(t *testing.T) {
	db := setupHandlerTest(t)
	createHandlerTestApplication(t, db, "app-1")

	handler := NewLicenseHandler(services.NewLicenseService(db, 1000))

	rec := postJSON(t, handler.Issue, "/api/admin/licenses", models.IssueLicenseRequest{
		ApplicationID: "app-1",
		Policy:        models.ValidityPolicy{Kind: models.PolicyInterval, Days: 30},
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeResponse(t, rec)
	require.Equal(t, "success", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var license models.License
	require.NoError(t, json.Unmarshal(data, &license))

	// 발급 응답에서는 키가 마스킹 없이 평문으로 반환된다
	assert.NotContains(t, license.LicenseKey, "*")
	assert.Equal(t, models.PolicyInterval, license.Policy.Kind)
}

func TestIssueLicenseEndpointBadRequests(t *testing.T) {
	db := setupHandlerTest(t)
	createHandlerTestApplication(t, db, "app-1")

	handler := NewLicenseHandler(services.NewLicenseService(db, 1000))

	// 잘못된 정책
	rec := postJSON(t, handler.Issue, "/api/admin/licenses", models.IssueLicenseRequest{
		ApplicationID: "app-1",
		Policy:        models.ValidityPolicy{Kind: models.PolicyInterval},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 존재하지 않는 애플리케이션
	rec = postJSON(t, handler.Issue, "/api/admin/licenses", models.IssueLicenseRequest{
		ApplicationID: "no-such-app",
		Policy:        models.ValidityPolicy{Kind: models.PolicyAlways},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIssueBatchEndpointTooLarge(t *testing.T) {
	db := setupHandlerTest(t)
	createHandlerTestApplication(t, db, "app-1")

	handler := NewLicenseHandler(services.NewLicenseService(db, 5))

	rec := postJSON(t, handler.IssueBatch, "/api/admin/licenses/batch", models.IssueBatchRequest{
		ApplicationID: "app-1",
		Policy:        models.ValidityPolicy{Kind: models.PolicyAlways},
		Count:         6,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListLicensesEndpointMasksKeys(t *testing.T) {
	db := setupHandlerTest(t)
	createHandlerTestApplication(t, db, "app-1")

	licenseService := services.NewLicenseService(db, 1000)
	handler := NewLicenseHandler(licenseService)

	rec := postJSON(t, handler.IssueBatch, "/api/admin/licenses/batch", models.IssueBatchRequest{
		ApplicationID: "app-1",
		Policy:        models.ValidityPolicy{Kind: models.PolicyAlways},
		Count:         3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/licenses?application_id=app-1", nil)
	listRec := httptest.NewRecorder()
	handler.List(listRec, req)
	require.Equal(t, http.StatusOK, listRec.Code)

	resp := decodeResponse(t, listRec)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var licenses []models.License
	require.NoError(t, json.Unmarshal(data, &licenses))
	require.Len(t, licenses, 3)
	for _, license := range licenses {
		assert.True(t, strings.Contains(license.LicenseKey, "*"), "listed keys must be masked")
	}
}

func TestGetLicenseEndpointNotFound(t *testing.T) {
	db := setupHandlerTest(t)
	handler := NewLicenseHandler(services.NewLicenseService(db, 1000))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/licenses/?id=lic-missing", nil)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
