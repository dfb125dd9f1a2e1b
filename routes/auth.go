package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"internship-registry-server/database"
	"internship-registry-server/middleware"
	"internship-registry-server/models"
	"internship-registry-server/services"
	"internship-registry-server/utils"
)

var jwtService = services.NewJWTService()

// RegisterRequest represents the registration form
type RegisterRequest struct {
	Username string `form:"username" binding:"required,min=3,max=50"`
	Mobile   string `form:"mobile" binding:"required"`
	Password string `form:"password" binding:"required,min=8"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.Engine) {
	router.POST("/register", middleware.AuthRateLimitMiddleware(), register)
	router.POST("/login", middleware.AuthRateLimitMiddleware(), login)
	router.POST("/refresh", refreshToken)
	router.POST("/logout", middleware.AuthMiddleware(), logout)
	router.GET("/profile", middleware.AuthMiddleware(), getProfile)
	router.GET("/users", middleware.AuthMiddleware(), listOtherUsers)
}

// register handles user registration with an optional avatar upload
func register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ValidationErrors(err)})
		return
	}

	mobile := utils.FormatMobile(req.Mobile)
	if !utils.ValidateMobile(mobile) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": utils.FieldError("mobile", "The mobile field must be a valid 09xxxxxxxxx number."),
		})
		return
	}

	if ok, reasons := middleware.ValidatePasswordStrength(req.Password); !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": utils.FieldError("password", reasons[0]),
		})
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": utils.FieldError("username", "The username has already been taken."),
		})
		return
	}
	if err := database.DB.Where("mobile = ?", mobile).First(&existing).Error; err == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": utils.FieldError("mobile", "The mobile has already been taken."),
		})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	user := models.User{
		Username:     req.Username,
		Mobile:       mobile,
		PasswordHash: hashedPassword,
	}

	// Optional avatar image
	if header, err := c.FormFile("img"); err == nil && header != nil {
		if !services.ValidateImageFile(header) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": utils.FieldError("img", "The img must be an image no larger than 5MB."),
			})
			return
		}
		media, err := services.NewMediaService()
		if err != nil {
			log.Printf("❌ Media service unavailable: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload is not available"})
			return
		}
		url, err := media.UploadImage(c.Request.Context(), header, "avatars")
		if err != nil {
			log.Printf("❌ Avatar upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
		user.Img = &url
	}

	if err := database.DB.Create(&user).Error; err != nil {
		// A concurrent registration can slip past the pre-checks; the
		// unique indexes catch it and it surfaces as a field error.
		if isUniqueViolation(err) {
			field := "username"
			if strings.Contains(err.Error(), "mobile") {
				field = "mobile"
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": utils.FieldError(field, "The "+field+" has already been taken."),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user account"})
		return
	}

	tokens, err := jwtService.GenerateTokenPair(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	log.Printf("✅ User registered: %s (ID=%d)", user.Username, user.ID)

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "User registered successfully",
		"data": gin.H{
			"user":          user,
			"token":         tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"expires_in":    tokens.ExpiresIn,
		},
	})
}

// login handles user authentication
func login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ValidationErrors(err)})
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	tokens, err := jwtService.GenerateTokenPair(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Authentication successful",
		"data": gin.H{
			"user":          user,
			"is_admin":      user.IsAdmin,
			"token":         tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"expires_in":    tokens.ExpiresIn,
		},
	})
}

// refreshToken exchanges a refresh token for a new access token
func refreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ValidationErrors(err)})
		return
	}

	tokens, err := jwtService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token is invalid or expired"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Token refreshed successfully",
		"token":         tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

// logout revokes the caller's refresh tokens
func logout(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := jwtService.RevokeAllUserTokens(user.ID); err != nil {
		log.Printf("⚠️ Failed to revoke tokens for user %d: %v", user.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful",
		"success": true,
	})
}

// getProfile returns the current authenticated user's profile
func getProfile(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// listOtherUsers returns every user except the caller, for starting chats
func listOtherUsers(c *gin.Context) {
	current, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var users []models.User
	if err := database.DB.Where("id <> ?", current.ID).Order("username asc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	publicUsers := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		publicUsers = append(publicUsers, u.Public())
	}

	c.JSON(http.StatusOK, gin.H{"users": publicUsers})
}
