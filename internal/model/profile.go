package model

import "time"

// Profile carries the campus attributes of a user. NIM is the immutable
// student number and doubles as a business key.
//
// EmailVerificationToken holds the single active verification token, cleared
// once consumed. ConsumedToken keeps the token that completed verification so
// a repeated verify call with the same link stays idempotent; a token rotated
// away by a resend is recorded nowhere and therefore rejected.
type Profile struct {
	ID                     uint      `json:"-" gorm:"primaryKey"`
	UserID                 uint      `json:"-" gorm:"uniqueIndex;not null"`
	NIM                    string    `json:"nim" gorm:"uniqueIndex;size:20;not null"`
	FullName               string    `json:"full_name" gorm:"size:100;not null"`
	PhoneNumber            string    `json:"phone_number,omitempty" gorm:"size:15"`
	Jurusan                string    `json:"jurusan" gorm:"size:100;not null"`
	Angkatan               int       `json:"angkatan" gorm:"not null"`
	IsEmailVerified        bool      `json:"is_email_verified" gorm:"default:false"`
	EmailVerificationToken *string   `json:"-" gorm:"uniqueIndex;size:255"`
	ConsumedToken          *string   `json:"-" gorm:"size:255"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
