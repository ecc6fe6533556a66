// Package app bundles the dependencies shared by services and handlers.
package app

import (
	"log/slog"
	"os"
	"time"

	"olympool/config"
	"olympool/database"
	"olympool/realtime"

	"gorm.io/gorm"
)

// App holds the long-lived dependencies of the service
type App struct {
	Cfg   *config.Config
	Game  *config.Game
	DB    *gorm.DB
	Cache *database.Cache
	Hub   *realtime.Hub
	Log   *slog.Logger

	// Clock returns the current time. Tests replace it to move around the pick deadline.
	Clock func() time.Time
}

// New wires an App from already opened resources
func New(cfg *config.Config, game *config.Game, db *gorm.DB, cache *database.Cache, hub *realtime.Hub, log *slog.Logger) *App {
	return &App{
		Cfg:   cfg,
		Game:  game,
		DB:    db,
		Cache: cache,
		Hub:   hub,
		Log:   log,
		Clock: game.Now,
	}
}

// Now returns the current time in the game's timezone
func (a *App) Now() time.Time {
	if a.Clock == nil {
		return a.Game.Now()
	}
	return a.Clock().In(a.Game.Location)
}

// PicksLocked reports whether the pick deadline has passed
func (a *App) PicksLocked() bool {
	return a.Game.PicksLocked(a.Now())
}

// NewLogger builds the process logger from the log settings
func NewLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
