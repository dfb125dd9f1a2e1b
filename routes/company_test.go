package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internship-registry-server/models"
)

func companyRouter(user *models.User) *gin.Engine {
	r := gin.New()
	r.POST("/companyRegister", authAs(user), submitCompany)
	r.GET("/companies", listApprovedCompanies)
	r.GET("/company/:id", getCompany)
	return r
}

func companyForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestSubmitCompanyDuplicateName(t *testing.T) {
	mock, cleanup := setupTestDB(t)
	defer cleanup()

	router := companyRouter(testUser(5, "sara", false))

	mock.ExpectQuery(`SELECT .* FROM "companies"`).
		WillReturnRows(companyRows().AddRow(1, "Acme", nil, "Tehran", "Tehran", "St 1", true, 2))

	buf, contentType := companyForm(t, map[string]string{
		"name":     "Acme",
		"province": "Tehran",
		"city":     "Tehran",
		"address":  "St 1",
	})
	req := httptest.NewRequest(http.MethodPost, "/companyRegister", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "name")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitCompanyMissingFields(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	router := companyRouter(testUser(5, "sara", false))

	buf, contentType := companyForm(t, map[string]string{"name": "Acme"})
	req := httptest.NewRequest(http.MethodPost, "/companyRegister", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "province")
	assert.Contains(t, resp.Errors, "city")
	assert.Contains(t, resp.Errors, "address")
}

func TestSubmitCompanyCreatesPending(t *testing.T) {
	mock, cleanup := setupTestDB(t)
	defer cleanup()

	router := companyRouter(testUser(5, "sara", false))

	// Name free
	mock.ExpectQuery(`SELECT .* FROM "companies"`).
		WillReturnError(errRecordNotFound())
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "companies"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()

	buf, contentType := companyForm(t, map[string]string{
		"name":     "Acme",
		"province": "Tehran",
		"city":     "Tehran",
		"address":  "St 1",
	})
	req := httptest.NewRequest(http.MethodPost, "/companyRegister", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Company models.Company `json:"company"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Acme", resp.Company.Name)
	assert.False(t, resp.Company.IsVerified)
	require.NotNil(t, resp.Company.IntroducedBy)
	assert.Equal(t, uint(5), *resp.Company.IntroducedBy)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListApprovedCompaniesWithAverages(t *testing.T) {
	mock, cleanup := setupTestDB(t)
	defer cleanup()

	router := companyRouter(testUser(1, "any", false))

	mock.ExpectQuery(`SELECT .* FROM "companies"`).
		WillReturnRows(companyRows().
			AddRow(1, "Acme", nil, "Tehran", "Tehran", "St 1", true, nil).
			AddRow(2, "Globex", nil, "Shiraz", "Shiraz", "St 2", true, nil))
	mock.ExpectQuery(`SELECT .* FROM "company_images"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "image_path"}).
			AddRow(1, 1, "https://img.test/a.jpg"))
	// Rating averages grouped by company; Globex has no ratings
	mock.ExpectQuery(`SELECT company_id, AVG\(rating\)`).
		WillReturnRows(sqlmock.NewRows([]string{"company_id", "average"}).AddRow(1, 3.0))

	req := httptest.NewRequest(http.MethodGet, "/companies", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Companies []models.CompanyResponse `json:"companies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Companies, 2)
	assert.Equal(t, 3.0, resp.Companies[0].AverageRating)
	assert.Equal(t, 0.0, resp.Companies[1].AverageRating)
	assert.Len(t, resp.Companies[0].Images, 1)
	assert.Empty(t, resp.Companies[1].Images)
}

func TestGetCompanyNotFound(t *testing.T) {
	mock, cleanup := setupTestDB(t)
	defer cleanup()

	router := companyRouter(testUser(1, "any", false))

	mock.ExpectQuery(`SELECT .* FROM "companies"`).
		WillReturnError(errRecordNotFound())

	req := httptest.NewRequest(http.MethodGet, "/company/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
