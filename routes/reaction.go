package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"internship-registry-server/database"
	"internship-registry-server/middleware"
	"internship-registry-server/models"
	"internship-registry-server/utils"
)

// RegisterReactionRoutes registers the like/dislike routes
func RegisterReactionRoutes(router *gin.Engine) {
	router.POST("/commentReaction", middleware.AuthMiddleware(), react)
	router.POST("/deleteReaction", middleware.AuthMiddleware(), unreact)
	router.GET("/comments/:ratingId/reactions/:userId", reactionTally)
}

// react records a like or dislike on someone else's rating. One row per
// (user, rating): reacting again overwrites the previous value.
func react(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.ReactionCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ValidationErrors(err)})
		return
	}

	var rating models.Rating
	if err := database.DB.First(&rating, req.RatingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
		return
	}

	if rating.UserID == user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot react to your own rating"})
		return
	}

	var reaction models.CommentReaction
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND rating_id = ?", user.ID, req.RatingID).
			First(&reaction).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			reaction = models.CommentReaction{
				UserID:   user.ID,
				RatingID: req.RatingID,
				IsLike:   *req.IsLike,
			}
			return tx.Create(&reaction).Error
		}
		if err != nil {
			return err
		}
		reaction.IsLike = *req.IsLike
		return tx.Save(&reaction).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save reaction"})
		return
	}

	log.Printf("✅ Reaction saved: user=%d rating=%d is_like=%v", user.ID, req.RatingID, reaction.IsLike)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Reaction saved",
		"reaction": reaction,
	})
}

// unreact removes the caller's reaction from a rating
func unreact(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.ReactionDelete
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ValidationErrors(err)})
		return
	}

	var reaction models.CommentReaction
	if err := database.DB.Where("user_id = ? AND rating_id = ?", user.ID, req.RatingID).
		First(&reaction).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reaction not found"})
		return
	}

	if err := database.DB.Delete(&reaction).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reaction removed"})
}

// reactionTally returns the like/dislike counts for a rating plus the
// given viewer's own reaction, if any.
func reactionTally(c *gin.Context) {
	ratingID, err := strconv.ParseUint(c.Param("ratingId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
		return
	}
	viewerID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var tally models.ReactionTally
	if err := database.DB.Model(&models.CommentReaction{}).
		Where("rating_id = ? AND is_like = ?", uint(ratingID), true).
		Count(&tally.Likes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reactions"})
		return
	}
	if err := database.DB.Model(&models.CommentReaction{}).
		Where("rating_id = ? AND is_like = ?", uint(ratingID), false).
		Count(&tally.Dislikes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reactions"})
		return
	}

	var viewerReaction models.CommentReaction
	err = database.DB.Where("rating_id = ? AND user_id = ?", uint(ratingID), uint(viewerID)).
		First(&viewerReaction).Error
	if err == nil {
		value := "dislike"
		if viewerReaction.IsLike {
			value = "like"
		}
		tally.UserReaction = &value
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reactions"})
		return
	}

	c.JSON(http.StatusOK, tally)
}
