package models

import "time"

// Pick represents a user's selection of a country. Tier is copied from the
// country when the pick is made.
type Pick struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:unique_user_country_pick" json:"user_id"`
	CountryID    uint      `gorm:"not null;uniqueIndex:unique_user_country_pick;index" json:"country_id"`
	Tier         int       `gorm:"not null" json:"tier"`
	PointsEarned int       `gorm:"not null;default:0" json:"points_earned"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	User         *User     `gorm:"foreignKey:UserID" json:"-"`
	Country      *Country  `gorm:"foreignKey:CountryID" json:"country,omitempty"`
}
