package models

import (
	"time"
)

// Company represents an internship-hosting company submitted by a user.
// It stays hidden from the public listing until an admin approves it.
type Company struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Description  *string   `json:"description" gorm:"type:text"`
	Province     string    `json:"province" gorm:"type:text"`
	City         string    `json:"city" gorm:"type:text"`
	Address      string    `json:"address" gorm:"type:text"`
	IsVerified   bool      `json:"is_verified" gorm:"default:false"`
	IntroducedBy *uint     `json:"introduced_by" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Images     []CompanyImage `json:"images" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	Introducer *User          `json:"-" gorm:"foreignKey:IntroducedBy;constraint:OnDelete:SET NULL"`
	Ratings    []Rating       `json:"ratings,omitempty" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}

// CompanyImage is an image attached to a company submission. The row stores
// only the externally served path; binary content lives in Cloudinary.
type CompanyImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CompanyID uint      `json:"company_id" gorm:"not null;index"`
	ImagePath string    `json:"image_path" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Company model
func (Company) TableName() string {
	return "companies"
}

// TableName specifies the table name for the CompanyImage model
func (CompanyImage) TableName() string {
	return "company_images"
}

// CompanyCreate represents the company registration form fields
type CompanyCreate struct {
	Name        string `form:"name" binding:"required"`
	Province    string `form:"province" binding:"required"`
	City        string `form:"city" binding:"required"`
	Address     string `form:"address" binding:"required"`
	Description string `form:"description"`
}

// CompanyUpdate represents the admin-facing field update payload.
// The approval flag is deliberately absent; it only moves through approve.
type CompanyUpdate struct {
	Name        *string `json:"name"`
	Province    *string `json:"province"`
	City        *string `json:"city"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

// CompanyResponse is a company joined with its images, introducer public
// fields and the read-time rating aggregate.
type CompanyResponse struct {
	ID            uint           `json:"id"`
	Name          string         `json:"name"`
	Description   *string        `json:"description"`
	Province      string         `json:"province"`
	City          string         `json:"city"`
	Address       string         `json:"address"`
	IsVerified    bool           `json:"is_verified"`
	IntroducedBy  *uint          `json:"introduced_by"`
	Introducer    *PublicUser    `json:"introduced_by_user,omitempty"`
	Images        []CompanyImage `json:"images"`
	AverageRating float64        `json:"average_rating"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
