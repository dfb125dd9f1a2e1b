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

// RegisterRatingRoutes registers the rating and comment routes
func RegisterRatingRoutes(router *gin.Engine) {
	router.POST("/RatingAndComments", middleware.AuthMiddleware(), submitRating)
	router.GET("/company/:id/comments", listCompanyRatings)
}

// RegisterAdminRatingRoutes registers the admin-side rating moderation routes
func RegisterAdminRatingRoutes(admin *gin.RouterGroup) {
	admin.GET("/ratings", listAllRatings)
	admin.PUT("/ratings/:id", updateRating)
	admin.DELETE("/ratings/:id", deleteRating)
}

// submitRating records a new rating by the authenticated user. Ratings are
// append-only: rating the same company again adds another row, and every
// row counts toward the average.
func submitRating(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.RatingCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ValidationErrors(err)})
		return
	}

	var company models.Company
	if err := database.DB.First(&company, req.CompanyID).Error; err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": utils.FieldError("company_id", "The selected company does not exist."),
		})
		return
	}

	rating := models.Rating{
		UserID:    user.ID,
		CompanyID: req.CompanyID,
		Rating:    req.Rating,
		Message:   req.Message,
	}

	if err := database.DB.Create(&rating).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit rating"})
		return
	}

	log.Printf("✅ Rating %d (score=%d) submitted for company %d by user %d",
		rating.ID, rating.Rating, rating.CompanyID, user.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Rating submitted successfully",
		"rating":  toRatingResponse(&rating, user),
	})
}

// listCompanyRatings returns a company's ratings oldest first, each joined
// with the rater's public fields.
func listCompanyRatings(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var ratings []models.Rating
	if err := database.DB.
		Preload("User").
		Where("company_id = ?", uint(id)).
		Order("created_at asc").
		Find(&ratings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
		return
	}

	out := make([]models.RatingResponse, 0, len(ratings))
	for i := range ratings {
		out = append(out, toRatingResponse(&ratings[i], &ratings[i].User))
	}

	c.JSON(http.StatusOK, out)
}

// listAllRatings returns every rating newest first for the admin view
func listAllRatings(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	var ratings []models.Rating
	if err := database.DB.
		Preload("User").
		Preload("Company").
		Order("created_at desc").
		Find(&ratings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

// updateRating applies an admin correction to a rating's score or message
func updateRating(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
		return
	}

	var rating models.Rating
	if err := database.DB.First(&rating, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
		return
	}

	var req models.RatingUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ValidationErrors(err)})
		return
	}

	if req.Rating != nil {
		rating.Rating = *req.Rating
	}
	if req.Message != nil {
		rating.Message = req.Message
	}

	if err := database.DB.Save(&rating).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rating"})
		return
	}

	log.Printf("✅ Rating %d updated by admin %d", rating.ID, admin.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Rating updated successfully",
		"rating":  rating,
	})
}

// deleteRating removes a rating and its reactions
func deleteRating(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
		return
	}

	var rating models.Rating
	if err := database.DB.First(&rating, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
		return
	}

	if err := database.DB.Delete(&rating).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rating"})
		return
	}

	log.Printf("✅ Rating %d deleted by admin %d", rating.ID, admin.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Rating deleted successfully"})
}

func toRatingResponse(rating *models.Rating, user *models.User) models.RatingResponse {
	return models.RatingResponse{
		ID:        rating.ID,
		UserID:    rating.UserID,
		CompanyID: rating.CompanyID,
		Rating:    rating.Rating,
		Message:   rating.Message,
		User:      user.Public(),
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}
