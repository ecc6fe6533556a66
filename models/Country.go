package models

import "time"

// Country represents a selectable country and its current medal counts
type Country struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Code               string    `gorm:"type:varchar(3);uniqueIndex;not null" json:"code"`
	Name               string    `gorm:"type:varchar(100);not null" json:"name"`
	Tier               int       `gorm:"not null;index" json:"tier"`
	HasMedaledRecently bool      `gorm:"not null;column:has_medaled_2010_2022" json:"has_medaled_recently"`
	IsActive           bool      `gorm:"not null" json:"is_active"`
	GoldCount          int       `gorm:"not null;default:0" json:"gold"`
	SilverCount        int       `gorm:"not null;default:0" json:"silver"`
	BronzeCount        int       `gorm:"not null;default:0" json:"bronze"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	Picks              []*Pick   `gorm:"foreignKey:CountryID" json:"-"`
}

// TotalMedals returns the sum of all medal counts
func (c *Country) TotalMedals() int {
	return c.GoldCount + c.SilverCount + c.BronzeCount
}
