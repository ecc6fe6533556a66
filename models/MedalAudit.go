package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedalAudit records one change of a country's medal counts
type MedalAudit struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CountryID    uint      `gorm:"not null;index" json:"country_id"`
	UpdatedByID  *uint     `gorm:"index" json:"updated_by_id"`
	Source       string    `gorm:"type:varchar(50);not null" json:"source"`
	GoldBefore   int       `gorm:"not null" json:"gold_before"`
	SilverBefore int       `gorm:"not null" json:"silver_before"`
	BronzeBefore int       `gorm:"not null" json:"bronze_before"`
	GoldAfter    int       `gorm:"not null" json:"gold_after"`
	SilverAfter  int       `gorm:"not null" json:"silver_after"`
	BronzeAfter  int       `gorm:"not null" json:"bronze_after"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	Country      *Country  `gorm:"foreignKey:CountryID" json:"country,omitempty"`
	UpdatedBy    *User     `gorm:"foreignKey:UpdatedByID" json:"updated_by,omitempty"`
}

// BeforeCreate assigns the audit ID so it works on every dialect
func (a *MedalAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
