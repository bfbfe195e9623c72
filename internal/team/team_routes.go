package team

import (
	"github.com/ArjunMehta-11/stumps/config"
	mw "github.com/ArjunMehta-11/stumps/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TeamRoutes sets up all team-related routes.
func TeamRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, repo TeamRepository) {
	teamController := NewTeamController(repo)

	// Public reads
	public := router.Group("/teams")
	{
		public.GET("", teamController.GetTeams)
		public.GET("/:id", teamController.GetTeamByID)
	}

	// Authenticated squad management
	authRoutes := router.Group("/teams")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authRoutes.POST("", teamController.CreateTeam)
		authRoutes.POST("/:id/players", teamController.AddPlayer)
		authRoutes.DELETE("/:id/players/:playerId", teamController.RemovePlayer)
	}
}
