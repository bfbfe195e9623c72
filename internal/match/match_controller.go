package match

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ArjunMehta-11/stumps/internal/middleware"
	"github.com/ArjunMehta-11/stumps/internal/team"
	"github.com/ArjunMehta-11/stumps/pkg/responses"
	"github.com/gin-gonic/gin"
)

// MatchController handles match-related HTTP requests.
type MatchController struct {
	repo         MatchRepository
	teamRepo     team.TeamRepository
	defaultOvers int
}

// NewMatchController creates a new match controller.
func NewMatchController(repo MatchRepository, teamRepo team.TeamRepository, defaultOvers int) *MatchController {
	return &MatchController{
		repo:         repo,
		teamRepo:     teamRepo,
		defaultOvers: defaultOvers,
	}
}

// --- DTOs for requests ---

// CreateMatchRequest defines the request payload for creating a match.
type CreateMatchRequest struct {
	Title           string    `json:"title" binding:"required,min=3,max=200"`
	HomeTeamID      uint      `json:"home_team_id" binding:"required"`
	AwayTeamID      uint      `json:"away_team_id" binding:"required"`
	OversPerInnings int       `json:"overs_per_innings" binding:"omitempty,min=1,max=50"`
	VenueName       string    `json:"venue_name,omitempty"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
}

// TossRequest defines the request payload for recording the toss.
type TossRequest struct {
	TossWinnerTeamID uint   `json:"toss_winner_team_id" binding:"required"`
	Decision         string `json:"decision" binding:"required,oneof=bat bowl"`
}

// CreateMatch handles the creation of a new match.
func (mc *MatchController) CreateMatch(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	if req.HomeTeamID == req.AwayTeamID {
		responses.ErrorResponse(c, http.StatusBadRequest, "A team cannot play against itself")
		return
	}

	for _, teamID := range []uint{req.HomeTeamID, req.AwayTeamID} {
		t, err := mc.teamRepo.GetTeamByID(teamID)
		if err != nil {
			responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to validate team: "+err.Error())
			return
		}
		if t == nil {
			responses.ErrorResponse(c, http.StatusBadRequest, "Team not found")
			return
		}
	}

	overs := req.OversPerInnings
	if overs == 0 {
		overs = mc.defaultOvers
	}

	match := Match{
		Title:           req.Title,
		CreatedByUserID: userID,
		HomeTeamID:      req.HomeTeamID,
		AwayTeamID:      req.AwayTeamID,
		OversPerInnings: overs,
		VenueName:       req.VenueName,
		ScheduledAt:     req.ScheduledAt,
		Status:          StatusMatchUpcoming,
	}

	if err := mc.repo.CreateMatch(&match); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to create match: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Match created successfully",
		"match":   match,
	})
}

// GetMatchByID retrieves a specific match by ID.
func (mc *MatchController) GetMatchByID(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid match ID")
		return
	}

	match, err := mc.repo.GetMatchByID(uint(id))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch match: "+err.Error())
		return
	}

	if match == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Match not found")
		return
	}

	responses.SuccessResponse(c, http.StatusOK, match)
}

// GetMatches retrieves matches based on filters.
func (mc *MatchController) GetMatches(c *gin.Context) {
	status := c.Query("status")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	filters := make(map[string]interface{})
	if status != "" {
		filters["status"] = status
	}

	matches, total, err := mc.repo.GetMatches(filters, page, pageSize)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch matches: "+err.Error())
		return
	}

	responses.PaginatedResponse(c, http.StatusOK, matches, page, pageSize, total)
}

// RecordToss records the toss outcome for a match.
func (mc *MatchController) RecordToss(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid match ID")
		return
	}

	match, err := mc.repo.GetMatchByID(uint(id))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch match: "+err.Error())
		return
	}
	if match == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Match not found")
		return
	}

	if match.CreatedByUserID != userID {
		responses.ErrorResponse(c, http.StatusForbidden, "Only the match creator can record the toss")
		return
	}

	if match.Status != StatusMatchUpcoming && match.Status != StatusMatchPreToss {
		responses.ErrorResponse(c, http.StatusBadRequest, "Toss cannot be recorded in the match's current state")
		return
	}

	var req TossRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	if req.TossWinnerTeamID != match.HomeTeamID && req.TossWinnerTeamID != match.AwayTeamID {
		responses.ErrorResponse(c, http.StatusBadRequest, "Toss winner must be one of the participating teams")
		return
	}

	if err := mc.repo.SetToss(match.ID, req.TossWinnerTeamID, req.Decision); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to record toss: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Toss recorded successfully",
	})
}

// AbandonMatch marks a match as abandoned (e.g. rain).
func (mc *MatchController) AbandonMatch(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid match ID")
		return
	}

	match, err := mc.repo.GetMatchByID(uint(id))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch match: "+err.Error())
		return
	}
	if match == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Match not found")
		return
	}

	if match.CreatedByUserID != userID {
		responses.ErrorResponse(c, http.StatusForbidden, "Only the match creator can abandon the match")
		return
	}

	if match.Status == StatusMatchCompleted || match.Status == StatusMatchAbandoned {
		responses.ErrorResponse(c, http.StatusBadRequest, "Match cannot be abandoned in its current state")
		return
	}

	if err := mc.repo.UpdateMatchStatus(match.ID, StatusMatchAbandoned); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to abandon match: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Match abandoned",
	})
}
