package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internship-registry-server/models"
)

func adminCompanyRouter(user *models.User) *gin.Engine {
	r := gin.New()
	admin := r.Group("/admin")
	admin.Use(authAs(user))
	RegisterAdminCompanyRoutes(admin)
	return r
}

func TestApproveCompanySetsFlag(t *testing.T) {
	mock, cleanup := setupTestDB(t)
	defer cleanup()

	router := adminCompanyRouter(testUser(1, "admin", true))

	mock.ExpectQuery(`SELECT .* FROM "companies"`).
		WillReturnRows(companyRows().AddRow(5, "Acme", nil, "Tehran", "Tehran", "St 1", false, 4))
	mock.ExpectQuery(`SELECT .* FROM "company_images"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "image_path"}))
	mock.ExpectExec(`UPDATE "companies"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/admin/companies/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Company models.Company `json:"company"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Company.IsVerified)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveCompanyIdempotent(t *testing.T) {
	mock, cleanup := setupTestDB(t)
	defer cleanup()

	router := adminCompanyRouter(testUser(1, "admin", true))

	// Already approved: the handler must not issue an UPDATE
	mock.ExpectQuery(`SELECT .* FROM "companies"`).
		WillReturnRows(companyRows().AddRow(5, "Acme", nil, "Tehran", "Tehran", "St 1", true, 4))
	mock.ExpectQuery(`SELECT .* FROM "company_images"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "image_path"}))

	req := httptest.NewRequest(http.MethodPost, "/admin/companies/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveCompanyNotFound(t *testing.T) {
	mock, cleanup := setupTestDB(t)
	defer cleanup()

	router := adminCompanyRouter(testUser(1, "admin", true))

	mock.ExpectQuery(`SELECT .* FROM "companies"`).
		WillReturnError(errRecordNotFound())

	req := httptest.NewRequest(http.MethodPost, "/admin/companies/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApproveCompanyRequiresAdmin(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	router := adminCompanyRouter(testUser(2, "student", false))

	req := httptest.NewRequest(http.MethodPost, "/admin/companies/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateCompanyNeverTouchesApproval(t *testing.T) {
	mock, cleanup := setupTestDB(t)
	defer cleanup()

	router := adminCompanyRouter(testUser(1, "admin", true))

	mock.ExpectQuery(`SELECT .* FROM "companies"`).
		WillReturnRows(companyRows().AddRow(5, "Acme", nil, "Tehran", "Tehran", "St 1", false, 4))
	mock.ExpectQuery(`SELECT .* FROM "company_images"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "image_path"}))
	// Uniqueness check for the new name
	mock.ExpectQuery(`SELECT .* FROM "companies"`).
		WillReturnError(errRecordNotFound())
	mock.ExpectExec(`UPDATE "companies"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body, _ := json.Marshal(gin.H{"name": "Acme Robotics"})
	req := httptest.NewRequest(http.MethodPut, "/admin/companies/5", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Company models.Company `json:"company"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Acme Robotics", resp.Company.Name)
	assert.False(t, resp.Company.IsVerified)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCompanyDuplicateName(t *testing.T) {
	mock, cleanup := setupTestDB(t)
	defer cleanup()

	router := adminCompanyRouter(testUser(1, "admin", true))

	mock.ExpectQuery(`SELECT .* FROM "companies"`).
		WillReturnRows(companyRows().AddRow(5, "Acme", nil, "Tehran", "Tehran", "St 1", false, 4))
	mock.ExpectQuery(`SELECT .* FROM "company_images"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "image_path"}))
	// Another company already holds the name
	mock.ExpectQuery(`SELECT .* FROM "companies"`).
		WillReturnRows(companyRows().AddRow(6, "Globex", nil, "Tehran", "Tehran", "St 2", true, 4))

	body, _ := json.Marshal(gin.H{"name": "Globex"})
	req := httptest.NewRequest(http.MethodPut, "/admin/companies/5", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "name")
}

func TestDeleteCompany(t *testing.T) {
	mock, cleanup := setupTestDB(t)
	defer cleanup()

	router := adminCompanyRouter(testUser(1, "admin", true))

	mock.ExpectQuery(`SELECT .* FROM "companies"`).
		WillReturnRows(companyRows().AddRow(5, "Acme", nil, "Tehran", "Tehran", "St 1", true, 4))
	mock.ExpectExec(`DELETE FROM "companies"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodDelete, "/admin/companies/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
