package models

import "time"

// GameState tracks the progress of the pool. There is a single row; services
// load it explicitly instead of keeping it in memory.
type GameState struct {
	ID                 uint       `gorm:"primaryKey" json:"-"`
	MedalsUpdatedAt    *time.Time `json:"medals_updated_at"`
	ScoresCalculatedAt *time.Time `json:"scores_calculated_at"`
	IsComplete         bool       `gorm:"not null;default:false" json:"is_complete"`
	WinnerIDs          string     `gorm:"type:varchar(100)" json:"winner_ids"` // comma-separated when co-champions
}
