package routes

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"internship-registry-server/database"
	"internship-registry-server/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB swaps the global connection for a sqlmock-backed one and
// returns the mock plus a restore func.
func setupTestDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	previous := database.DB
	database.DB = gdb

	return mock, func() {
		database.DB = previous
		db.Close()
	}
}

// authAs injects an already-authenticated user, standing in for the JWT
// middleware so handler tests need no tokens.
func authAs(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

func testUser(id uint, username string, admin bool) *models.User {
	return &models.User{
		ID:       id,
		Username: username,
		Mobile:   "09120000000",
		IsAdmin:  admin,
	}
}

func companyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "province", "city", "address",
		"is_verified", "introduced_by",
	})
}

func ratingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "company_id", "rating", "message"})
}

func errRecordNotFound() error {
	return gorm.ErrRecordNotFound
}
