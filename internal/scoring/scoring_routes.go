package scoring

import (
	"github.com/ArjunMehta-11/stumps/config"
	"github.com/ArjunMehta-11/stumps/internal/match"
	mw "github.com/ArjunMehta-11/stumps/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ScoringRoutes sets up all live-scoring routes.
func ScoringRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, registry *Registry, roster RosterProvider, matchRepo match.MatchRepository) {
	controller := NewScoringController(registry, roster, matchRepo)

	// Public reads
	public := router.Group("/matches/:id/scoring")
	{
		public.GET("/scorecard", controller.GetScorecard)
		public.GET("/live", controller.GetLiveScore)
	}

	// Scoring events, restricted to the match creator
	events := router.Group("/matches/:id/scoring")
	events.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		events.POST("/start", controller.StartScoring)
		events.POST("/runs", controller.RecordRuns)
		events.POST("/extras", controller.RecordExtra)
		events.POST("/wickets", controller.RecordWicket)
		events.POST("/next-bowler", controller.SelectNextBowler)
		events.POST("/next-batter", controller.SelectNextBatter)
		events.POST("/second-innings", controller.SetupSecondInnings)
	}
}
