package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	BaseUUIDModel
	FirstName    string     `gorm:"type:text"               json:"firstName"`
	LastName     string     `gorm:"type:text"               json:"lastName"`
	FullName     string     `gorm:"type:text"               json:"fullName"`
	DisplayName  string     `gorm:"type:text"               json:"displayName"`
	Email        string     `gorm:"type:text;uniqueIndex"   json:"email"`
	PasswordHash string     `gorm:"type:text"               json:"-"`
	IsActive     bool       `gorm:"type:bool;default:true"  json:"isActive"`
	AutoPlanWeek bool       `gorm:"type:bool;default:false" json:"autoPlanWeek"`
	LastLoginAt  *time.Time `gorm:"type:timestamp"          json:"lastLoginAt,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	fullName := u.FirstName + " " + u.LastName
	u.FullName = fullName
	if u.DisplayName == "" {
		u.DisplayName = fullName
	}
	return nil
}

// UserProfile represents public user profile information
type UserProfile struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	FullName     string     `json:"fullName"`
	DisplayName  string     `json:"displayName"`
	Email        string     `json:"email"`
	IsActive     bool       `json:"isActive"`
	AutoPlanWeek bool       `json:"autoPlanWeek"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:           u.ID.String(),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		FullName:     u.FullName,
		DisplayName:  u.DisplayName,
		Email:        u.Email,
		IsActive:     u.IsActive,
		AutoPlanWeek: u.AutoPlanWeek,
		LastLoginAt:  u.LastLoginAt,
	}
}
