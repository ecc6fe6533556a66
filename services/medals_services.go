package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"olympool/app"
	"olympool/metrics"
	"olympool/models"
	"olympool/scoring"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Medal update sources recorded in the audit log
const (
	SourceAdminForm = "admin_form"
	SourceCLI       = "cli"
)

// Constants for medal update messages
const (
	ErrMedalDecrease  = "Medal counts cannot decrease unless corrections are explicitly allowed."
	MsgNoMedalChanges = "No changes detected for this country."
	ErrMedalUpdate    = "Failed to update medals"
)

var errMedalsUnchanged = errors.New("medals unchanged")

// MedalUpdate is an admin's request to set a country's medal counts
type MedalUpdate struct {
	CountryID     uint
	Medals        scoring.Medals
	AllowDecrease bool
	UpdatedByID   *uint
	Source        string
}

// MedalUpdateResult reports what UpdateMedals did
type MedalUpdateResult struct {
	Country *models.Country    `json:"country"`
	Changed bool               `json:"changed"`
	Message string             `json:"message"`
	Audit   *models.MedalAudit `json:"audit,omitempty"`
}

// UpdateMedals sets a country's medal counts and rescores everyone. The
// audit row, the new counts, the game state stamps and every score are
// written in one transaction; on failure nothing changes.
func UpdateMedals(ctx context.Context, a *app.App, in MedalUpdate) (*MedalUpdateResult, error) {
	var errs []string
	for _, m := range []struct {
		label string
		value int
	}{{"Gold", in.Medals.Gold}, {"Silver", in.Medals.Silver}, {"Bronze", in.Medals.Bronze}} {
		if m.value < 0 {
			errs = append(errs, fmt.Sprintf("%s must be zero or greater.", m.label))
		}
	}
	if len(errs) > 0 {
		metrics.MedalUpdates.WithLabelValues("rejected").Inc()
		return nil, &ValidationError{Messages: errs}
	}

	source := in.Source
	if source == "" {
		source = SourceAdminForm
	}
	after := in.Medals
	now := a.Now()
	startTime := time.Now()

	var (
		country models.Country
		before  scoring.Medals
		audit   models.MedalAudit
	)
	err := a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&country, in.CountryID).Error; err != nil {
			if isNotFound(err) {
				return notFound("country")
			}
			return fmt.Errorf("load country: %w", err)
		}

		before = medalsOf(&country)
		if !in.AllowDecrease && (after.Gold < before.Gold || after.Silver < before.Silver || after.Bronze < before.Bronze) {
			return &StateError{Message: ErrMedalDecrease}
		}
		if before == after {
			return errMedalsUnchanged
		}

		audit = models.MedalAudit{
			CountryID:    country.ID,
			UpdatedByID:  in.UpdatedByID,
			Source:       source,
			GoldBefore:   before.Gold,
			SilverBefore: before.Silver,
			BronzeBefore: before.Bronze,
			GoldAfter:    after.Gold,
			SilverAfter:  after.Silver,
			BronzeAfter:  after.Bronze,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return fmt.Errorf("insert audit: %w", err)
		}
		err := tx.Model(&country).Updates(map[string]interface{}{
			"gold_count":   after.Gold,
			"silver_count": after.Silver,
			"bronze_count": after.Bronze,
			"updated_at":   now,
		}).Error
		if err != nil {
			return fmt.Errorf("update country: %w", err)
		}
		if err := stampGameState(tx, "medals_updated_at", now); err != nil {
			return err
		}
		return RecalculateAllScores(ctx, tx, a.Game, now)
	})

	var stateErr *StateError
	switch {
	case errors.Is(err, errMedalsUnchanged):
		metrics.MedalUpdates.WithLabelValues("unchanged").Inc()
		return &MedalUpdateResult{Country: &country, Changed: false, Message: MsgNoMedalChanges}, nil
	case errors.Is(err, ErrNotFound), errors.As(err, &stateErr):
		metrics.MedalUpdates.WithLabelValues("rejected").Inc()
		return nil, err
	case err != nil:
		metrics.MedalUpdates.WithLabelValues("failed").Inc()
		a.Log.Error("Medal update rolled back", "country_id", in.CountryID, "error", err)
		return nil, &PersistenceError{Op: ErrMedalUpdate, Err: err}
	}
	metrics.RecordDBOperation("update", "countries", startTime)
	metrics.MedalUpdates.WithLabelValues("applied").Inc()

	country.GoldCount, country.SilverCount, country.BronzeCount = after.Gold, after.Silver, after.Bronze
	country.UpdatedAt = now
	a.Log.Info("Medals updated",
		"country", country.Code,
		"before", before,
		"after", after,
		"source", source,
	)

	afterScoresChanged(ctx, a)
	if a.Hub != nil {
		a.Hub.Broadcast("medals", medalsPayload(&country))
	}

	return &MedalUpdateResult{
		Country: &country,
		Changed: true,
		Message: fmt.Sprintf("Updated medals for %s and recalculated scores.", country.Name),
		Audit:   &audit,
	}, nil
}

// MedalAuditLog returns the newest audit entries first
func MedalAuditLog(ctx context.Context, db *gorm.DB, countryID uint, limit int) ([]models.MedalAudit, error) {
	q := db.WithContext(ctx).Preload("Country").Preload("UpdatedBy").Order("created_at DESC")
	if countryID != 0 {
		q = q.Where("country_id = ?", countryID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var entries []models.MedalAudit
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load medal audit: %w", err)
	}
	return entries, nil
}

// IsNotFound reports whether err means the requested record does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func medalsPayload(c *models.Country) map[string]interface{} {
	return map[string]interface{}{
		"country_id": c.ID,
		"code":       c.Code,
		"gold":       c.GoldCount,
		"silver":     c.SilverCount,
		"bronze":     c.BronzeCount,
	}
}
