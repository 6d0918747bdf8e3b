package model

import "time"

// Post is authored feed content. Content must pass the moderation filter on
// create and update.
type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	ImageURL    string    `json:"image,omitempty" gorm:"size:512"`
	ImageObject string    `json:"-" gorm:"size:512"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
