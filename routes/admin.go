package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"internship-registry-server/database"
	"internship-registry-server/middleware"
	"internship-registry-server/models"
	"internship-registry-server/utils"
)

// AdminAuthMiddleware verifies the authenticated user holds the admin flag.
// The flag is read from the database on every request so a revoked admin
// loses access immediately, not at token expiry.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		if !user.IsAdministrator() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Set("user", &user)
		c.Next()
	}
}

// requireAdmin is the capability check every admin handler calls before
// touching state. It answers the principal when the caller is an admin and
// writes the 403 itself otherwise.
func requireAdmin(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}
	if !user.IsAdministrator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return nil, false
	}
	return user, true
}

// RegisterAdminRoutes registers the admin user-management and dashboard routes
func RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/users", listUsers)
	admin.GET("/users/:id", getUser)
	admin.POST("/users/:id", updateUser)
	admin.DELETE("/users/:id", deleteUser)
	admin.GET("/dashboard/stats", dashboardStats)
}

// listUsers returns every registered user
func listUsers(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	var users []models.User
	if err := database.DB.Order("created_at desc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// getUser returns a single user with the companies they introduced
func getUser(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var user models.User
	if err := database.DB.Preload("Companies").First(&user, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// updateUser applies an admin edit to a user's profile or admin flag
func updateUser(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var req models.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ValidationErrors(err)})
		return
	}

	if req.Username != nil {
		var existing models.User
		if err := database.DB.Where("username = ? AND id <> ?", *req.Username, user.ID).
			First(&existing).Error; err == nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": utils.FieldError("username", "The username has already been taken."),
			})
			return
		}
		user.Username = *req.Username
	}
	if req.Img != nil {
		user.Img = req.Img
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	log.Printf("✅ User %d updated by admin %d", user.ID, admin.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

// deleteUser removes a user. Their ratings and reactions go with them;
// companies they introduced survive with the introducer reference nulled.
func deleteUser(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.ID == admin.ID {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": utils.FieldError("id", "You cannot delete your own account."),
		})
		return
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	log.Printf("✅ User %d deleted by admin %d", user.ID, admin.ID)

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// dashboardStats returns the counters shown on the admin dashboard
func dashboardStats(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	var pendingCompanies, approvedCompanies, totalUsers, totalRatings int64

	counts := []error{
		database.DB.Model(&models.Company{}).Where("is_verified = ?", false).Count(&pendingCompanies).Error,
		database.DB.Model(&models.Company{}).Where("is_verified = ?", true).Count(&approvedCompanies).Error,
		database.DB.Model(&models.User{}).Count(&totalUsers).Error,
		database.DB.Model(&models.Rating{}).Count(&totalRatings).Error,
	}
	for _, err := range counts {
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"pending_companies":  pendingCompanies,
			"approved_companies": approvedCompanies,
			"total_users":        totalUsers,
			"total_ratings":      totalRatings,
		},
	})
}
