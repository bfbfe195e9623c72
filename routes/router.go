package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ArjunMehta-11/stumps/config"
	"github.com/ArjunMehta-11/stumps/internal/auth"
	"github.com/ArjunMehta-11/stumps/internal/live"
	"github.com/ArjunMehta-11/stumps/internal/match"
	"github.com/ArjunMehta-11/stumps/internal/scoring"
	"github.com/ArjunMehta-11/stumps/internal/team"
)

func SetupRoutes() *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default()) // allows all origins, GET/POST/PUT

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name": "stumps",
			"docs": "/swagger/index.html",
		})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	db := config.DB
	appConfig := config.GetConfig()

	teamRepo := team.NewGormTeamRepository(db)
	matchRepo := match.NewGormMatchRepository(db)

	hub := live.NewHub()
	go hub.Run()

	registry := scoring.NewRegistry(scoring.NewGormMatchStore(db), hub)
	roster := scoring.NewGormRosterProvider(db)

	// API routes
	api := r.Group("/api")
	auth.RegisterAuthRoutes(api.Group("/auth"), db, appConfig)
	team.TeamRoutes(api, db, appConfig, teamRepo)
	match.MatchRoutes(api, db, appConfig, matchRepo, teamRepo)
	scoring.ScoringRoutes(api, db, appConfig, registry, roster, matchRepo)
	live.LiveRoutes(api, hub)

	return r
}
