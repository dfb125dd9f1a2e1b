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
	"internship-registry-server/services"
	"internship-registry-server/utils"
)

// RegisterCompanyRoutes registers the public company registry routes
func RegisterCompanyRoutes(router *gin.Engine) {
	router.POST("/companyRegister", middleware.AuthMiddleware(), submitCompany)
	router.GET("/companies", listApprovedCompanies)
	router.GET("/company/:id", getCompany)
	router.GET("/users/:id/companies", middleware.AuthMiddleware(), listUserCompanies)
}

// submitCompany handles a new company submission with attached images.
// The company enters the registry unapproved and stays off the public
// listing until an admin approves it.
func submitCompany(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.CompanyCreate
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ValidationErrors(err)})
		return
	}

	var existing models.Company
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": utils.FieldError("name", "The name has already been taken."),
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	headers := form.File["images[]"]
	if len(headers) == 0 {
		headers = form.File["images"]
	}
	for _, h := range headers {
		if !services.ValidateImageFile(h) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": utils.FieldError("images", "Each image must be a jpg, png or webp no larger than 5MB."),
			})
			return
		}
	}

	// Upload before the DB write; an orphaned file on a later failure is
	// acceptable, a company row without its images is not.
	var imagePaths []string
	if len(headers) > 0 {
		media, err := services.NewMediaService()
		if err != nil {
			log.Printf("❌ Media service unavailable: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload is not available"})
			return
		}
		for _, h := range headers {
			url, err := media.UploadImage(c.Request.Context(), h, "companies")
			if err != nil {
				log.Printf("❌ Company image upload failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
				return
			}
			imagePaths = append(imagePaths, url)
		}
	}

	company := models.Company{
		Name:         req.Name,
		Province:     req.Province,
		City:         req.City,
		Address:      req.Address,
		IntroducedBy: &user.ID,
	}
	if req.Description != "" {
		company.Description = &req.Description
	}

	// Company and image rows land together or not at all,
	// preserving submission order.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		for _, path := range imagePaths {
			image := models.CompanyImage{
				CompanyID: company.ID,
				ImagePath: path,
			}
			if err := tx.Create(&image).Error; err != nil {
				return err
			}
			company.Images = append(company.Images, image)
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": utils.FieldError("name", "The name has already been taken."),
			})
			return
		}
		log.Printf("❌ Company submission failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register company"})
		return
	}

	log.Printf("✅ Company submitted: %s (ID=%d) by user %d", company.Name, company.ID, user.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Company registered successfully",
		"company": company,
	})
}

// listApprovedCompanies returns the public catalog of approved companies
func listApprovedCompanies(c *gin.Context) {
	var companies []models.Company
	if err := database.DB.
		Preload("Images").
		Preload("Introducer").
		Where("is_verified = ?", true).
		Order("created_at desc").
		Find(&companies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch companies"})
		return
	}

	averages, err := companyAverages(companyIDs(companies))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute ratings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"companies": companyResponses(companies, averages),
	})
}

// getCompany returns a single company with images, introducer and average
func getCompany(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var company models.Company
	if err := database.DB.
		Preload("Images").
		Preload("Introducer").
		First(&company, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	averages, err := companyAverages([]uint{company.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute ratings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company": toCompanyResponse(&company, averages[company.ID]),
	})
}

// listUserCompanies returns every company a given user introduced,
// including ones still pending approval.
func listUserCompanies(c *gin.Context) {
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

	var companies []models.Company
	if err := database.DB.
		Preload("Images").
		Preload("Introducer").
		Where("introduced_by = ?", user.ID).
		Order("created_at desc").
		Find(&companies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch companies"})
		return
	}

	averages, err := companyAverages(companyIDs(companies))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute ratings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"companies": companyResponses(companies, averages),
	})
}

// companyAverages computes average_rating per company in one grouped query.
// Companies with no ratings simply do not appear in the map and read as 0.
func companyAverages(ids []uint) (map[uint]float64, error) {
	averages := make(map[uint]float64)
	if len(ids) == 0 {
		return averages, nil
	}

	rows := []struct {
		CompanyID uint
		Average   float64
	}{}
	if err := database.DB.
		Model(&models.Rating{}).
		Select("company_id, AVG(rating) as average").
		Where("company_id IN ?", ids).
		Group("company_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		averages[row.CompanyID] = row.Average
	}
	return averages, nil
}

func companyIDs(companies []models.Company) []uint {
	ids := make([]uint, 0, len(companies))
	for _, company := range companies {
		ids = append(ids, company.ID)
	}
	return ids
}

func companyResponses(companies []models.Company, averages map[uint]float64) []models.CompanyResponse {
	out := make([]models.CompanyResponse, 0, len(companies))
	for i := range companies {
		out = append(out, toCompanyResponse(&companies[i], averages[companies[i].ID]))
	}
	return out
}

func toCompanyResponse(company *models.Company, average float64) models.CompanyResponse {
	resp := models.CompanyResponse{
		ID:            company.ID,
		Name:          company.Name,
		Description:   company.Description,
		Province:      company.Province,
		City:          company.City,
		Address:       company.Address,
		IsVerified:    company.IsVerified,
		IntroducedBy:  company.IntroducedBy,
		Images:        company.Images,
		AverageRating: average,
		CreatedAt:     company.CreatedAt,
		UpdatedAt:     company.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []models.CompanyImage{}
	}
	if company.Introducer != nil {
		public := company.Introducer.Public()
		resp.Introducer = &public
	}
	return resp
}

// isUniqueViolation reports whether the error is a Postgres unique
// constraint violation, so concurrent duplicate submissions surface as
// validation failures instead of opaque 500s.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	type coder interface{ SQLState() string }
	var pgErr coder
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
