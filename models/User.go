package models

import "time"

// User represents a player of the pool
type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Username     string      `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	Email        string      `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"type:varchar(256);not null" json:"-"`
	DisplayName  *string     `gorm:"type:varchar(100)" json:"display_name"`
	TotalPoints  int         `gorm:"not null;default:0" json:"total_points"`
	IsAdmin      bool        `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Picks        []*Pick     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"picks,omitempty"`
	Tiebreaker   *Tiebreaker `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"tiebreaker,omitempty"`
}

// GetDisplayName returns the display name, or the username when none is set
func (u *User) GetDisplayName() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}
