package model

import "time"

// Reaction is a user's single reaction to a post. The composite unique index
// on (post_id, user_id) is what makes concurrent first-time reactions collapse
// into one row instead of two.
type Reaction struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	PostID       uint      `json:"post" gorm:"not null;uniqueIndex:idx_post_user"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_post_user"`
	ReactionType string    `json:"reaction_type" gorm:"size:32;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
