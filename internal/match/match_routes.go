package match

import (
	"github.com/ArjunMehta-11/stumps/config"
	mw "github.com/ArjunMehta-11/stumps/internal/middleware"
	"github.com/ArjunMehta-11/stumps/internal/team"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MatchRoutes sets up all match-related routes.
func MatchRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, repo MatchRepository, teamRepo team.TeamRepository) {
	matchController := NewMatchController(repo, teamRepo, appConfig.Scoring.DefaultOvers)

	// Public reads
	public := router.Group("/matches")
	{
		public.GET("", matchController.GetMatches)
		public.GET("/:id", matchController.GetMatchByID)
	}

	// Authenticated lifecycle management
	authRoutes := router.Group("/matches")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authRoutes.POST("", matchController.CreateMatch)
		authRoutes.POST("/:id/toss", matchController.RecordToss)
		authRoutes.POST("/:id/abandon", matchController.AbandonMatch)
	}
}
