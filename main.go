package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"olympool/app"
	"olympool/config"
	"olympool/database"
	"olympool/middleware"
	"olympool/realtime"
	"olympool/reference"
	v1 "olympool/routes/v1"
	"olympool/scoring"
	"olympool/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
)

// @title Olympics Pool API
// @version 1.0
// @description Fantasy pool for the Winter Olympics: picks by tier, medal scoring and a leaderboard.
// @BasePath /api/v1
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	cliApp := &cli.App{
		Name:  "olympool",
		Usage: "Olympics fantasy pool server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"CONFIG_FILE"},
				Value:   "config.yaml",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:   "init-db",
				Usage:  "create tables, seed countries and the default admin",
				Action: initDB,
			},
			{
				Name:  "seed",
				Usage: "load the reference countries",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "reset", Usage: "deactivate countries missing from the reference set"},
				},
				Action: seed,
			},
			{
				Name:  "create-admin",
				Usage: "create an admin account or promote an existing user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: createAdmin,
			},
			{
				Name:   "calculate-scores",
				Usage:  "recalculate every pick and user total",
				Action: calculateScores,
			},
			{
				Name:  "set-medals",
				Usage: "set a country's medal counts and rescore",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "country", Usage: "IOC code", Required: true},
					&cli.IntFlag{Name: "gold"},
					&cli.IntFlag{Name: "silver"},
					&cli.IntFlag{Name: "bronze"},
					&cli.BoolFlag{Name: "allow-decrease"},
				},
				Action: setMedals,
			},
			{
				Name:   "countries",
				Usage:  "list the reference countries by tier",
				Action: listCountries,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// bootstrap loads configuration and opens the database and cache
func bootstrap(c *cli.Context) (*app.App, func(), error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	game, err := config.LoadGame()
	if err != nil {
		return nil, nil, err
	}
	logger := app.NewLogger(cfg.Log)

	db, err := database.Open(cfg, game)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	cache, err := database.NewCache(c.Context, cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, caching disabled", "error", err)
		cache = nil
	}

	a := app.New(cfg, game, db, cache, nil, logger)
	cleanup := func() {
		cache.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return a, cleanup, nil
}

func serve(c *cli.Context) error {
	a, cleanup, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Populate(ctx, a.DB, a.Cfg, a.Log); err != nil {
		return err
	}

	a.Hub = realtime.NewHub(a.Log.With("component", "realtime"))
	go a.Hub.Run(ctx)
	go middleware.UpdateSystemMetrics(ctx, 15*time.Second)

	gin.SetMode(a.Cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.Cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: !allowsAnyOrigin(a.Cfg.Server.AllowedOrigins),
		MaxAge:           12 * time.Hour,
	}))
	v1.Register(r, a)

	srv := &http.Server{
		Addr:              ":" + a.Cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("Server running", "port", a.Cfg.Server.Port, "deadline", a.Game.PickDeadline)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func initDB(c *cli.Context) error {
	a, cleanup, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := database.Populate(c.Context, a.DB, a.Cfg, a.Log); err != nil {
		return err
	}
	fmt.Println("Database initialized.")
	return nil
}

func seed(c *cli.Context) error {
	a, cleanup, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := services.SeedCountries(c.Context, a.DB, a.Game, c.Bool("reset"))
	if err != nil {
		return err
	}
	a.Cache.Invalidate(c.Context, services.MedalTableCacheKey)

	fmt.Printf("Added %d countries, updated %d. %d in total.\n", summary.Added, summary.Updated, summary.Total)
	for _, n := range a.Game.TierNumbers() {
		fmt.Printf("  Tier %d (%s): %d\n", n, a.Game.TierName(n), summary.ByTier[n])
	}
	return nil
}

func createAdmin(c *cli.Context) error {
	a, cleanup, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer cleanup()

	user, err := services.CreateAdmin(c.Context, a.DB, c.String("username"), c.String("email"), c.String("password"))
	if err != nil {
		return err
	}
	fmt.Printf("Admin %s ready (id %d).\n", user.Username, user.ID)
	return nil
}

func calculateScores(c *cli.Context) error {
	a, cleanup, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := services.RecalculateScores(c.Context, a); err != nil {
		return err
	}
	fmt.Println("Scores recalculated.")
	return nil
}

func setMedals(c *cli.Context) error {
	a, cleanup, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer cleanup()

	country, err := services.GetCountryByCode(c.Context, a.DB, c.String("country"))
	if err != nil {
		return err
	}
	result, err := services.UpdateMedals(c.Context, a, services.MedalUpdate{
		CountryID:     country.ID,
		Medals:        scoring.Medals{Gold: c.Int("gold"), Silver: c.Int("silver"), Bronze: c.Int("bronze")},
		AllowDecrease: c.Bool("allow-decrease"),
		Source:        services.SourceCLI,
	})
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	return nil
}

func listCountries(c *cli.Context) error {
	game := config.DefaultGame()
	for _, n := range game.TierNumbers() {
		countries := reference.CountriesInTier(n)
		fmt.Printf("Tier %d: %s (x%d, %d picks, %d countries)\n",
			n, game.TierName(n), game.Multiplier(n), game.Tiers[n].Picks, len(countries))
		for _, country := range countries {
			marker := ""
			if !country.HasMedaled {
				marker = " (no medal 2010-2022)"
			}
			fmt.Printf("  %s %s %s%s\n", reference.FlagEmoji(country.Code), country.Code, country.Name, marker)
		}
	}
	return nil
}
