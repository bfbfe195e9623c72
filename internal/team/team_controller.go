package team

import (
	"net/http"
	"strconv"

	"github.com/ArjunMehta-11/stumps/internal/middleware"
	"github.com/ArjunMehta-11/stumps/pkg/responses"
	"github.com/gin-gonic/gin"
)

// TeamController handles team-related HTTP requests.
type TeamController struct {
	repo TeamRepository
}

// NewTeamController creates a new team controller.
func NewTeamController(repo TeamRepository) *TeamController {
	return &TeamController{repo: repo}
}

// --- DTOs for requests ---

// CreateTeamRequest defines the request payload for creating a team.
type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Logo        string `json:"logo,omitempty"`
}

// AddPlayerRequest defines the request payload for adding a player to a squad.
type AddPlayerRequest struct {
	Name           string `json:"name" binding:"required,min=2,max=100"`
	BattingOrder   int    `json:"batting_order" binding:"omitempty,min=1,max=11"`
	BowlingOrder   int    `json:"bowling_order" binding:"omitempty,min=1,max=11"`
	IsWicketKeeper bool   `json:"is_wicket_keeper"`
	IsCaptain      bool   `json:"is_captain"`
}

// CreateTeam handles the creation of a new team.
func (tc *TeamController) CreateTeam(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	team := Team{
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
		CreatedByID: userID,
	}

	if err := tc.repo.CreateTeam(&team); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to create team: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Team created successfully",
		"team":    team,
	})
}

// GetTeamByID retrieves a specific team with its players.
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid team ID")
		return
	}

	team, err := tc.repo.GetTeamByID(uint(id))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch team: "+err.Error())
		return
	}

	if team == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Team not found")
		return
	}

	responses.SuccessResponse(c, http.StatusOK, team)
}

// GetTeams retrieves teams with pagination.
func (tc *TeamController) GetTeams(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	teams, total, err := tc.repo.GetTeams(page, pageSize)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch teams: "+err.Error())
		return
	}

	responses.PaginatedResponse(c, http.StatusOK, teams, page, pageSize, total)
}

// AddPlayer adds a player to a team's squad.
func (tc *TeamController) AddPlayer(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	idStr := c.Param("id")
	teamID, err := strconv.Atoi(idStr)
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid team ID")
		return
	}

	isCreator, err := tc.repo.IsUserTeamCreator(uint(teamID), userID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to check team ownership: "+err.Error())
		return
	}
	if !isCreator {
		responses.ErrorResponse(c, http.StatusForbidden, "Only the team creator can manage the squad")
		return
	}

	var req AddPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	players, err := tc.repo.GetTeamPlayers(uint(teamID))
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch squad: "+err.Error())
		return
	}
	for _, p := range players {
		if p.Name == req.Name {
			responses.ErrorResponse(c, http.StatusConflict, "A player with this name is already in the squad")
			return
		}
	}

	player := Player{
		TeamID:         uint(teamID),
		Name:           req.Name,
		BattingOrder:   req.BattingOrder,
		BowlingOrder:   req.BowlingOrder,
		IsWicketKeeper: req.IsWicketKeeper,
		IsCaptain:      req.IsCaptain,
	}

	if err := tc.repo.AddPlayer(&player); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to add player: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Player added successfully",
		"player":  player,
	})
}

// RemovePlayer removes a player from a team's squad.
func (tc *TeamController) RemovePlayer(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid team ID")
		return
	}
	playerID, err := strconv.Atoi(c.Param("playerId"))
	if err != nil {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid player ID")
		return
	}

	isCreator, err := tc.repo.IsUserTeamCreator(uint(teamID), userID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to check team ownership: "+err.Error())
		return
	}
	if !isCreator {
		responses.ErrorResponse(c, http.StatusForbidden, "Only the team creator can manage the squad")
		return
	}

	if err := tc.repo.RemovePlayer(uint(playerID)); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to remove player: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Player removed successfully",
	})
}
