package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"internship-registry-server/database"
	"internship-registry-server/models"
	"internship-registry-server/utils"
)

// RegisterAdminCompanyRoutes registers the moderation routes
func RegisterAdminCompanyRoutes(admin *gin.RouterGroup) {
	admin.GET("/companies/unverified", listPendingCompanies)
	admin.GET("/companies/verified", listVerifiedCompanies)
	admin.POST("/companies/:id", approveCompany)
	admin.PUT("/companies/:id", updateCompany)
	admin.DELETE("/companies/:id", deleteCompany)
}

// listPendingCompanies returns companies awaiting approval, newest first
func listPendingCompanies(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	listCompaniesByVerification(c, false)
}

// listVerifiedCompanies returns approved companies for the admin view
func listVerifiedCompanies(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	listCompaniesByVerification(c, true)
}

func listCompaniesByVerification(c *gin.Context, verified bool) {
	var companies []models.Company
	if err := database.DB.
		Preload("Images").
		Preload("Introducer").
		Where("is_verified = ?", verified).
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

// approveCompany moves a company from pending to approved. The transition
// is one-directional and idempotent: approving an approved company is a
// no-op success, and no other field changes here.
func approveCompany(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var company models.Company
	if err := database.DB.Preload("Images").First(&company, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	if !company.IsVerified {
		if err := database.DB.Model(&company).Update("is_verified", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve company"})
			return
		}
		company.IsVerified = true
		log.Printf("✅ Company %d approved by admin %d", company.ID, admin.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Company approved",
		"company": company,
	})
}

// updateCompany applies an admin field edit. The approval flag is out of
// reach here; it only moves through approveCompany.
func updateCompany(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var company models.Company
	if err := database.DB.Preload("Images").First(&company, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var req models.CompanyUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": utils.ValidationErrors(err)})
		return
	}

	if req.Name != nil {
		var existing models.Company
		if err := database.DB.Where("name = ? AND id <> ?", *req.Name, company.ID).
			First(&existing).Error; err == nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": utils.FieldError("name", "The name has already been taken."),
			})
			return
		}
		company.Name = *req.Name
	}
	if req.Province != nil {
		company.Province = *req.Province
	}
	if req.City != nil {
		company.City = *req.City
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	if req.Description != nil {
		company.Description = req.Description
	}

	if err := database.DB.Save(&company).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"errors": utils.FieldError("name", "The name has already been taken."),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update company"})
		return
	}

	log.Printf("✅ Company %d updated by admin %d", company.ID, admin.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Company updated successfully",
		"company": company,
	})
}

// deleteCompany removes a company along with its images and ratings
func deleteCompany(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var company models.Company
	if err := database.DB.First(&company, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	if err := database.DB.Delete(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete company"})
		return
	}

	log.Printf("✅ Company %d deleted by admin %d", company.ID, admin.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}
