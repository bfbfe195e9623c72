package main

import (
	"log"

	"github.com/ArjunMehta-11/stumps/config"
	_ "github.com/ArjunMehta-11/stumps/docs"
	"github.com/ArjunMehta-11/stumps/internal/match"
	"github.com/ArjunMehta-11/stumps/internal/scoring"
	"github.com/ArjunMehta-11/stumps/internal/team"
	"github.com/ArjunMehta-11/stumps/internal/user"
	"github.com/ArjunMehta-11/stumps/routes"
)

// @title Stumps REST API
// @version 1.0
// @description Live cricket match scoring server 🏏
// @host localhost:8088
// @BasePath /api
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{},
		&team.Team{}, &team.Player{},
		&match.Match{},
		&scoring.LiveScorecard{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	r := routes.SetupRoutes()

	// Use port from loaded configuration
	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
