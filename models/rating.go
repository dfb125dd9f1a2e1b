package models

import (
	"time"
)

// Rating represents a score and optional comment a user leaves on a company.
// A user may rate the same company more than once; every row counts toward
// the company's average.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CompanyID uint      `json:"company_id" gorm:"not null;index"`
	Company   Company   `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Rating    int       `json:"rating" gorm:"type:int;not null;check:rating >= 1 AND rating <= 5"`
	Message   *string   `json:"message" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Reactions []CommentReaction `json:"reactions,omitempty" gorm:"foreignKey:RatingID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Rating model
func (Rating) TableName() string {
	return "ratings"
}

// RatingCreate represents the request structure for submitting a rating
type RatingCreate struct {
	CompanyID uint    `json:"company_id" binding:"required"`
	Rating    int     `json:"rating" binding:"required,min=1,max=5"`
	Message   *string `json:"message"`
}

// RatingUpdate represents the admin correction payload
type RatingUpdate struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Message *string `json:"message"`
}

// RatingResponse is a rating joined with its author's public fields
type RatingResponse struct {
	ID        uint       `json:"id"`
	UserID    uint       `json:"user_id"`
	CompanyID uint       `json:"company_id"`
	Rating    int        `json:"rating"`
	Message   *string    `json:"message"`
	User      PublicUser `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
