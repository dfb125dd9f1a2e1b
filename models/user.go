package models

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:255;uniqueIndex;not null"`
	Mobile       string    `json:"mobile" gorm:"size:20;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Img          *string   `json:"img" gorm:"size:255"`
	IsAdmin      bool      `json:"is_admin" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Companies []Company `json:"companies,omitempty" gorm:"foreignKey:IntroducedBy"`
	Ratings   []Rating  `json:"ratings,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// PublicUser is the subset of user fields safe to embed in other responses
type PublicUser struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Img      *string `json:"img"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// Public returns the user's public fields
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Img:      u.Img,
	}
}

// IsAdministrator checks whether the user holds the admin flag
func (u *User) IsAdministrator() bool {
	return u.IsAdmin
}

// UserUpdate is the admin-facing update payload
type UserUpdate struct {
	Username *string `json:"username"`
	Img      *string `json:"img"`
	IsAdmin  *bool   `json:"is_admin"`
}
