package models

import "time"

// Tiebreaker holds a user's guess of the reference country's final medals
type Tiebreaker struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"-"`
	Gold      int       `gorm:"not null;column:usa_gold" json:"gold"`
	Silver    int       `gorm:"not null;column:usa_silver" json:"silver"`
	Bronze    int       `gorm:"not null;column:usa_bronze" json:"bronze"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
