package models

import (
	"time"
)

// CommentReaction is a like or dislike a user puts on someone else's rating.
// The composite unique index keeps the pair (user, rating) down to one row;
// writes go through upsert so a second reaction overwrites the first.
type CommentReaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_rating"`
	RatingID  uint      `json:"rating_id" gorm:"not null;uniqueIndex:idx_user_rating"`
	IsLike    bool      `json:"is_like" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the CommentReaction model
func (CommentReaction) TableName() string {
	return "comment_reactions"
}

// ReactionCreate represents the request structure for reacting to a rating
type ReactionCreate struct {
	RatingID uint  `json:"rating_id" binding:"required"`
	IsLike   *bool `json:"is_like" binding:"required"`
}

// ReactionDelete represents the request structure for removing a reaction
type ReactionDelete struct {
	RatingID uint `json:"rating_id" binding:"required"`
}

// ReactionTally is the per-rating like/dislike summary for one viewer
type ReactionTally struct {
	Likes        int64   `json:"likes"`
	Dislikes     int64   `json:"dislikes"`
	UserReaction *string `json:"user_reaction"`
}
