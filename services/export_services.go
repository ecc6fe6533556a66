package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"olympool/app"
	"olympool/models"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the admin export
const (
	SheetLeaderboard = "Leaderboard"
	SheetPicks       = "Picks"
	SheetMedals      = "Medals"
)

// ImportResult reports what a user import did
type ImportResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// ExportWorkbook builds an XLSX workbook with the leaderboard, every pick
// and the medal table. The caller must close the returned file.
func ExportWorkbook(ctx context.Context, a *app.App) (*excelize.File, error) {
	entries, err := BuildLeaderboard(ctx, a.DB, a.Game)
	if err != nil {
		return nil, err
	}
	medals, err := MedalLeaders(ctx, a.DB, 0)
	if err != nil {
		return nil, err
	}

	var picks []models.Pick
	err = a.DB.WithContext(ctx).
		Preload("User").
		Preload("Country").
		Order("user_id, tier, id").
		Find(&picks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load picks: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetLeaderboard); err != nil {
		f.Close()
		return nil, err
	}

	rows := [][]interface{}{{"Rank", "Name", "Points", "Gold guess", "Silver guess", "Bronze guess"}}
	for _, e := range entries {
		row := []interface{}{e.Rank, e.DisplayName, e.Points, "", "", ""}
		if e.Guess != nil {
			row[3], row[4], row[5] = e.Guess.Gold, e.Guess.Silver, e.Guess.Bronze
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, SheetLeaderboard, rows); err != nil {
		f.Close()
		return nil, err
	}

	rows = [][]interface{}{{"User", "Tier", "Country", "Code", "Gold", "Silver", "Bronze", "Multiplier", "Points"}}
	for _, p := range picks {
		if p.User == nil || p.Country == nil {
			continue
		}
		rows = append(rows, []interface{}{
			p.User.GetDisplayName(), p.Tier, p.Country.Name, p.Country.Code,
			p.Country.GoldCount, p.Country.SilverCount, p.Country.BronzeCount,
			a.Game.Multiplier(p.Country.Tier), p.PointsEarned,
		})
	}
	if err := writeSheet(f, SheetPicks, rows); err != nil {
		f.Close()
		return nil, err
	}

	rows = [][]interface{}{{"Country", "Code", "Gold", "Silver", "Bronze", "Total"}}
	for _, m := range medals {
		rows = append(rows, []interface{}{m.Name, m.Code, m.Gold, m.Silver, m.Bronze, m.Total})
	}
	if err := writeSheet(f, SheetMedals, rows); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// ImportUsers creates accounts from the rows of every sheet of an XLSX file.
// The header row must name a username and an email column; display name is
// optional. Existing usernames or emails are skipped. Every created account
// gets the given password.
func ImportUsers(ctx context.Context, a *app.App, r io.Reader, password string) (*ImportResult, error) {
	xlsx, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ValidationError{Messages: []string{"Failed to parse XLSX file: " + err.Error()}}
	}
	defer xlsx.Close()

	result := &ImportResult{Created: []string{}, Skipped: []string{}}
	for _, sheetName := range xlsx.GetSheetList() {
		rows, err := xlsx.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
		}
		// At least header and one data row
		if len(rows) < 2 {
			continue
		}

		usernameIdx, emailIdx, nameIdx := -1, -1, -1
		for i, cell := range rows[0] {
			switch strings.ToLower(strings.TrimSpace(cell)) {
			case "username", "user", "login":
				usernameIdx = i
			case "email", "e-mail":
				emailIdx = i
			case "display name", "display_name", "name":
				nameIdx = i
			}
		}
		if usernameIdx == -1 || emailIdx == -1 {
			continue
		}

		for _, row := range rows[1:] {
			if len(row) <= max(usernameIdx, emailIdx) || strings.TrimSpace(row[usernameIdx]) == "" {
				continue
			}
			in := RegisterInput{
				Username:        row[usernameIdx],
				Email:           row[emailIdx],
				Password:        password,
				ConfirmPassword: password,
			}
			if nameIdx != -1 && len(row) > nameIdx {
				in.DisplayName = row[nameIdx]
			}

			user, err := RegisterUser(ctx, a.DB, in)
			if err != nil {
				a.Log.Info("Skipping imported user", "username", in.Username, "reason", err)
				result.Skipped = append(result.Skipped, strings.TrimSpace(in.Username))
				continue
			}
			result.Created = append(result.Created, user.Username)
		}
	}

	a.Log.Info("Users imported", "created", len(result.Created), "skipped", len(result.Skipped))
	return result, nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return err
		}
	}
	return nil
}
