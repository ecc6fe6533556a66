package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"olympool/app"
	"olympool/config"
	"olympool/metrics"
	"olympool/models"
	"olympool/scoring"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDeadlinePassed is reported for any pick change after the deadline
const ErrDeadlinePassed = "The pick deadline has passed."

// TierPicks is one tier of a user's entry
type TierPicks struct {
	config.Tier
	Picks []*models.Pick `json:"picks"`
}

// PickSet is a user's complete entry, grouped by tier
type PickSet struct {
	UserID      uint            `json:"user_id"`
	Tiers       []TierPicks     `json:"tiers"`
	Tiebreaker  *scoring.Medals `json:"tiebreaker"`
	TotalPoints int             `json:"total_points"`
	PickCount   int             `json:"pick_count"`
	Complete    bool            `json:"complete"`
}

// ValidatePicks checks a submission of country IDs keyed by tier. After the
// deadline it only reports the deadline; otherwise every problem found is
// reported.
func ValidatePicks(ctx context.Context, db *gorm.DB, game *config.Game, now time.Time, userID uint, picks map[int][]uint) (bool, []string) {
	if game.PicksLocked(now) {
		return false, []string{ErrDeadlinePassed}
	}

	var errs []string
	for _, n := range game.TierNumbers() {
		tier := game.Tiers[n]
		if got := len(picks[n]); got != tier.Picks {
			errs = append(errs, fmt.Sprintf("Tier %d (%s) requires %d pick(s), got %d.", n, tier.Name, tier.Picks, got))
		}
	}

	submitted := submittedTiers(picks)
	for _, n := range submitted {
		if _, ok := game.Tiers[n]; !ok {
			errs = append(errs, fmt.Sprintf("Tier %d is not a valid tier.", n))
		}
	}

	var ids []uint
	for _, n := range submitted {
		ids = append(ids, picks[n]...)
	}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			errs = append(errs, "Each country can only be selected once.")
			break
		}
		seen[id] = true
	}

	countries, err := countriesByID(ctx, db, ids)
	if err != nil {
		return false, append(errs, "Unable to verify the selected countries.")
	}

	for _, id := range ids {
		c, ok := countries[id]
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("Invalid country ID: %d", id))
		case !c.IsActive:
			errs = append(errs, fmt.Sprintf("%s is not available for selection.", c.Name))
		}
	}

	for _, n := range submitted {
		for _, id := range picks[n] {
			if c, ok := countries[id]; ok && c.Tier != n {
				errs = append(errs, fmt.Sprintf("%s is not in Tier %d.", c.Name, n))
			}
		}
	}

	return len(errs) == 0, errs
}

// SubmitPicks replaces the user's picks and tiebreaker guess. Nothing is
// written unless the whole submission is valid.
func SubmitPicks(ctx context.Context, a *app.App, userID uint, picks map[int][]uint, guess scoring.Medals) (*PickSet, error) {
	now := a.Now()
	if a.Game.PicksLocked(now) {
		metrics.PickSubmissions.WithLabelValues("locked").Inc()
		return nil, &StateError{Message: ErrDeadlinePassed}
	}

	ok, errs := ValidatePicks(ctx, a.DB, a.Game, now, userID, picks)
	if guess.Gold < 0 || guess.Silver < 0 || guess.Bronze < 0 {
		ok = false
		errs = append(errs, "Tiebreaker guesses must be zero or greater.")
	}
	if !ok {
		metrics.PickSubmissions.WithLabelValues("invalid").Inc()
		return nil, &ValidationError{Messages: errs}
	}

	var ids []uint
	for _, n := range submittedTiers(picks) {
		ids = append(ids, picks[n]...)
	}

	startTime := time.Now()
	err := a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		countries, err := countriesByID(ctx, tx, ids)
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.Pick{}).Error; err != nil {
			return fmt.Errorf("delete picks: %w", err)
		}

		total := 0
		newPicks := make([]models.Pick, 0, len(ids))
		for _, n := range submittedTiers(picks) {
			for _, id := range picks[n] {
				c := countries[id]
				points := scoring.PickPoints(medalsOf(c), c.Tier, a.Game)
				total += points
				newPicks = append(newPicks, models.Pick{UserID: userID, CountryID: id, Tier: n, PointsEarned: points})
			}
		}
		if len(newPicks) > 0 {
			if err := tx.Create(&newPicks).Error; err != nil {
				return fmt.Errorf("insert picks: %w", err)
			}
		}

		tiebreaker := models.Tiebreaker{UserID: userID, Gold: guess.Gold, Silver: guess.Silver, Bronze: guess.Bronze}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"usa_gold", "usa_silver", "usa_bronze", "updated_at"}),
		}).Create(&tiebreaker).Error
		if err != nil {
			return fmt.Errorf("save tiebreaker: %w", err)
		}

		return tx.Model(&models.User{}).Where("id = ?", userID).Update("total_points", total).Error
	})
	if err != nil {
		metrics.PickSubmissions.WithLabelValues("failed").Inc()
		a.Log.Error("Failed to save picks", "user_id", userID, "error", err)
		return nil, &PersistenceError{Op: "Failed to save picks", Err: err}
	}
	metrics.RecordDBOperation("replace", "picks", startTime)
	metrics.PickSubmissions.WithLabelValues("saved").Inc()
	a.Log.Info("Picks saved", "user_id", userID, "count", len(ids))

	return UserPicks(ctx, a.DB, a.Game, userID)
}

// UserPicks loads a user's entry grouped by tier
func UserPicks(ctx context.Context, db *gorm.DB, game *config.Game, userID uint) (*PickSet, error) {
	db = db.WithContext(ctx)

	var user models.User
	if err := db.Preload("Tiebreaker").First(&user, userID).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var picks []*models.Pick
	if err := db.Preload("Country").Where("user_id = ?", userID).Order("tier, id").Find(&picks).Error; err != nil {
		return nil, fmt.Errorf("failed to load picks: %w", err)
	}

	set := &PickSet{
		UserID:      userID,
		TotalPoints: user.TotalPoints,
		PickCount:   len(picks),
	}
	if user.Tiebreaker != nil {
		set.Tiebreaker = &scoring.Medals{Gold: user.Tiebreaker.Gold, Silver: user.Tiebreaker.Silver, Bronze: user.Tiebreaker.Bronze}
	}

	byID := make(map[uint]*models.Pick, len(picks))
	flat := make([]scoring.Pick, 0, len(picks))
	for _, p := range picks {
		byID[p.ID] = p
		flat = append(flat, scoring.Pick{ID: p.ID, UserID: p.UserID, CountryID: p.CountryID, Tier: p.Tier})
	}
	grouped := scoring.GroupByTier(flat, game)
	for _, n := range game.TierNumbers() {
		tp := TierPicks{Tier: game.Tiers[n], Picks: []*models.Pick{}}
		for _, p := range grouped[n] {
			tp.Picks = append(tp.Picks, byID[p.ID])
		}
		set.Tiers = append(set.Tiers, tp)
	}

	set.Complete = set.PickCount == game.TotalPicks() && set.Tiebreaker != nil
	return set, nil
}

func countriesByID(ctx context.Context, db *gorm.DB, ids []uint) (map[uint]*models.Country, error) {
	out := make(map[uint]*models.Country, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var countries []*models.Country
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	for _, c := range countries {
		out[c.ID] = c
	}
	return out, nil
}

// submittedTiers returns the tier keys of a submission in ascending order
func submittedTiers(picks map[int][]uint) []int {
	tiers := make([]int, 0, len(picks))
	for n := range picks {
		tiers = append(tiers, n)
	}
	slices.Sort(tiers)
	return tiers
}
