package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"olympool/app"
	"olympool/config"
	"olympool/models"
	"olympool/reference"
	"olympool/scoring"

	"gorm.io/gorm"
)

// MedalTableCacheKey is the cache entry holding the medal table
const MedalTableCacheKey = "medals:v1"

// MedalLeadersLimit is the size of the medal leaders list
const MedalLeadersLimit = 5

// CountryView is a country with its display helpers and tier data
type CountryView struct {
	models.Country
	TierName    string `json:"tier_name"`
	Multiplier  int    `json:"multiplier"`
	FlagEmoji   string `json:"flag_emoji"`
	FlagClass   string `json:"flag_class"`
	FlagURL     string `json:"flag_url"`
	TotalMedals int    `json:"total"`
}

// TierCountries is one tier of the country browser
type TierCountries struct {
	config.Tier
	Countries []CountryView `json:"countries"`
}

// CountryDetail is a country with its points breakdown and, once picks are
// locked, the users who picked it
type CountryDetail struct {
	CountryView
	Breakdown scoring.Breakdown `json:"breakdown"`
	PickedBy  []UserSummary     `json:"picked_by"`
}

// MedalRow is one line of the medal table
type MedalRow struct {
	ID     uint   `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Gold   int    `json:"gold"`
	Silver int    `json:"silver"`
	Bronze int    `json:"bronze"`
	Total  int    `json:"total"`
	Flag   string `json:"flag_emoji"`
}

// MedalTable lists the countries that won at least one medal
type MedalTable struct {
	Medals      []MedalRow `json:"medals"`
	LastUpdated *time.Time `json:"last_updated"`
}

// NewCountryView decorates a country for display
func NewCountryView(c models.Country, game *config.Game) CountryView {
	return CountryView{
		Country:     c,
		TierName:    game.TierName(c.Tier),
		Multiplier:  game.Multiplier(c.Tier),
		FlagEmoji:   reference.FlagEmoji(c.Code),
		FlagClass:   reference.FlagClass(c.Code),
		FlagURL:     reference.FlagImageURL(c.Code),
		TotalMedals: c.TotalMedals(),
	}
}

// CountriesByTier returns the active countries of every tier ordered by name
func CountriesByTier(ctx context.Context, db *gorm.DB, game *config.Game) ([]TierCountries, error) {
	var countries []models.Country
	if err := db.WithContext(ctx).Where("is_active = ?", true).Order("tier, name").Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("failed to load countries: %w", err)
	}

	byTier := make(map[int][]CountryView)
	for _, c := range countries {
		byTier[c.Tier] = append(byTier[c.Tier], NewCountryView(c, game))
	}

	out := make([]TierCountries, 0, len(game.Tiers))
	for _, n := range game.TierNumbers() {
		views := byTier[n]
		if views == nil {
			views = []CountryView{}
		}
		out = append(out, TierCountries{Tier: game.Tiers[n], Countries: views})
	}
	return out, nil
}

// GetCountryDetail loads one country. PickedBy is only filled when locked.
func GetCountryDetail(ctx context.Context, db *gorm.DB, game *config.Game, countryID uint, locked bool) (*CountryDetail, error) {
	db = db.WithContext(ctx)

	var country models.Country
	if err := db.First(&country, countryID).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("country")
		}
		return nil, fmt.Errorf("failed to load country: %w", err)
	}

	detail := &CountryDetail{
		CountryView: NewCountryView(country, game),
		Breakdown:   scoring.BreakdownFor(medalsOf(&country), country.Tier, game),
		PickedBy:    []UserSummary{},
	}
	if !locked {
		return detail, nil
	}

	var users []models.User
	err := db.Where("id IN (?)", db.Model(&models.Pick{}).Select("user_id").Where("country_id = ?", countryID)).
		Order("LOWER(username)").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pickers: %w", err)
	}
	for _, u := range users {
		detail.PickedBy = append(detail.PickedBy, UserSummary{ID: u.ID, Username: u.Username, DisplayName: u.GetDisplayName()})
	}
	return detail, nil
}

// MedalLeaders returns the countries with medals ordered by gold, silver,
// then bronze, limited to limit rows when limit > 0
func MedalLeaders(ctx context.Context, db *gorm.DB, limit int) ([]MedalRow, error) {
	q := db.WithContext(ctx).
		Where("gold_count + silver_count + bronze_count > 0").
		Order("gold_count DESC, silver_count DESC, bronze_count DESC, name")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var countries []models.Country
	if err := q.Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("failed to load medal table: %w", err)
	}

	rows := make([]MedalRow, 0, len(countries))
	for _, c := range countries {
		rows = append(rows, MedalRow{
			ID:     c.ID,
			Code:   c.Code,
			Name:   c.Name,
			Gold:   c.GoldCount,
			Silver: c.SilverCount,
			Bronze: c.BronzeCount,
			Total:  c.TotalMedals(),
			Flag:   reference.FlagEmoji(c.Code),
		})
	}
	return rows, nil
}

// GetMedalTable returns every medal-winning country and the time medals
// last changed, from cache when possible
func GetMedalTable(ctx context.Context, a *app.App) (*MedalTable, error) {
	var table MedalTable
	if found, _ := a.Cache.Get(ctx, MedalTableCacheKey, &table); found {
		return &table, nil
	}

	rows, err := MedalLeaders(ctx, a.DB, 0)
	if err != nil {
		return nil, err
	}
	state, err := GameStateFor(ctx, a.DB)
	if err != nil {
		return nil, err
	}

	table = MedalTable{Medals: rows, LastUpdated: state.MedalsUpdatedAt}
	if err := a.Cache.Set(ctx, MedalTableCacheKey, table); err != nil {
		a.Log.Warn("Medal table cache write failed", "error", err)
	}
	return &table, nil
}

// GetCountryByCode looks a country up by its IOC code, ignoring case
func GetCountryByCode(ctx context.Context, db *gorm.DB, code string) (*models.Country, error) {
	var country models.Country
	if err := db.WithContext(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&country).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("country")
		}
		return nil, fmt.Errorf("failed to load country: %w", err)
	}
	return &country, nil
}
