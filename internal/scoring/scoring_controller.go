package scoring

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ArjunMehta-11/stumps/internal/match"
	"github.com/ArjunMehta-11/stumps/internal/middleware"
	"github.com/ArjunMehta-11/stumps/pkg/responses"
	"github.com/gin-gonic/gin"
)

// ScoringController handles live-scoring HTTP requests
type ScoringController struct {
	registry  *Registry
	roster    RosterProvider
	matchRepo match.MatchRepository
}

// NewScoringController creates a new scoring controller
func NewScoringController(registry *Registry, roster RosterProvider, matchRepo match.MatchRepository) *ScoringController {
	return &ScoringController{
		registry:  registry,
		roster:    roster,
		matchRepo: matchRepo,
	}
}

// --- DTOs for requests ---

// StartScoringRequest optionally overrides the opening players; defaults
// come from the team rosters.
type StartScoringRequest struct {
	Striker    string `json:"striker,omitempty"`
	NonStriker string `json:"non_striker,omitempty"`
	Bowler     string `json:"bowler,omitempty"`
}

// RecordRunsRequest defines the request payload for a ball hit for runs
type RecordRunsRequest struct {
	Runs *int `json:"runs" binding:"required,min=0,max=6"`
}

// RecordExtraRequest defines the request payload for a wide, no-ball, bye or leg-bye
type RecordExtraRequest struct {
	Kind ExtraKind `json:"kind" binding:"required,oneof=wide no_ball bye leg_bye"`
	Runs int       `json:"runs" binding:"min=0,max=7"`
}

// SelectBowlerRequest defines the request payload for the next-over bowler
type SelectBowlerRequest struct {
	Bowler string `json:"bowler" binding:"required"`
}

// SelectBatterRequest defines the request payload for the incoming batter
type SelectBatterRequest struct {
	Batter string `json:"batter" binding:"required"`
}

// SecondInningsRequest defines the request payload for the chase setup
type SecondInningsRequest struct {
	Striker    string `json:"striker" binding:"required"`
	NonStriker string `json:"non_striker" binding:"required"`
	Bowler     string `json:"bowler" binding:"required"`
}

func parseMatchID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid match ID")
		return 0, false
	}
	return uint(id), true
}

// authorizeScorer loads the match and checks the caller created it. Only the
// match creator may push scoring events.
func (sc *ScoringController) authorizeScorer(c *gin.Context, matchID uint) (*match.Match, bool) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	m, err := sc.matchRepo.GetMatchByID(matchID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch match: "+err.Error())
		return nil, false
	}
	if m == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Match not found")
		return nil, false
	}
	if m.CreatedByUserID != userID {
		responses.ErrorResponse(c, http.StatusForbidden, "Only the match creator can score this match")
		return nil, false
	}
	return m, true
}

// StartScoring godoc
// @Summary Start live scoring for a match
// @Description Builds the scoring state for a match whose toss is done and marks it live
// @Tags scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param request body StartScoringRequest false "Opening player overrides"
// @Security BearerAuth
// @Success 201 {object} ScoreUpdatePayload
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /matches/{id}/scoring/start [post]
func (sc *ScoringController) StartScoring(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	m, ok := sc.authorizeScorer(c, matchID)
	if !ok {
		return
	}
	if m.Status != match.StatusMatchTossDone {
		responses.ErrorResponse(c, http.StatusBadRequest, "Toss must be recorded before scoring can start")
		return
	}

	var req StartScoringRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.ValidationErrorResponse(c, err)
			return
		}
	}

	battingID := m.BattingFirstTeamID()
	battingName, fieldingName := m.HomeTeam.Name, m.AwayTeam.Name
	fieldingID := m.AwayTeamID
	if battingID == m.AwayTeamID {
		battingName, fieldingName = m.AwayTeam.Name, m.HomeTeam.Name
		fieldingID = m.HomeTeamID
	}

	ctx := c.Request.Context()
	battingSquad, err := sc.roster.BattingRoster(ctx, battingID, battingName)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to load batting roster: "+err.Error())
		return
	}
	fieldingSquad, err := sc.roster.FieldingRoster(ctx, fieldingID, fieldingName)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to load fielding roster: "+err.Error())
		return
	}

	cfg := MatchConfig{
		MatchID:    matchID,
		Team1:      battingName,
		Team2:      fieldingName,
		Team1Squad: battingSquad,
		Team2Squad: fieldingSquad,
		TotalOvers: m.OversPerInnings,
		Striker:    req.Striker,
		NonStriker: req.NonStriker,
		Bowler:     req.Bowler,
	}
	if cfg.Striker == "" && len(battingSquad) > 0 {
		cfg.Striker = battingSquad[0]
	}
	if cfg.NonStriker == "" && len(battingSquad) > 1 {
		cfg.NonStriker = battingSquad[1]
	}
	if cfg.Bowler == "" && len(fieldingSquad) > 0 {
		cfg.Bowler = fieldingSquad[0]
	}

	eng, err := sc.registry.Start(cfg)
	if err != nil {
		if errors.Is(err, ErrMatchAlreadyLive) {
			responses.ErrorResponse(c, http.StatusConflict, "Scoring has already started for this match")
			return
		}
		if IsInvalidEvent(err) {
			responses.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to start scoring: "+err.Error())
		return
	}

	if err := sc.matchRepo.MarkLive(matchID); err != nil {
		sc.registry.Remove(matchID)
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to mark match live: "+err.Error())
		return
	}

	payload := eng.Payload()
	responses.SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "Scoring started",
		"score":   payload,
	})
}

// engineFor looks up the live engine, restoring from the snapshot store when
// needed.
func (sc *ScoringController) engineFor(c *gin.Context, matchID uint) (*Engine, bool) {
	eng, err := sc.registry.Get(c.Request.Context(), matchID)
	if err != nil {
		if errors.Is(err, ErrMatchNotLive) {
			responses.ErrorResponse(c, http.StatusNotFound, "Match is not being scored")
			return nil, false
		}
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to load match state: "+err.Error())
		return nil, false
	}
	return eng, true
}

// applyAndRespond pushes one event through the engine and writes the HTTP
// response, finalizing the match record when the event ends the match.
func (sc *ScoringController) applyAndRespond(c *gin.Context, matchID uint, apply func(*Engine) (*ScoreUpdatePayload, error)) {
	eng, ok := sc.engineFor(c, matchID)
	if !ok {
		return
	}

	payload, err := apply(eng)
	if err != nil {
		if IsInvalidEvent(err) {
			responses.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to apply event: "+err.Error())
		return
	}

	if payload.Completed {
		if err := sc.matchRepo.CompleteMatch(matchID, payload.Result); err != nil {
			responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to record result: "+err.Error())
			return
		}
	}

	responses.SuccessResponse(c, http.StatusOK, gin.H{"score": payload})
}

// RecordRuns godoc
// @Summary Score a ball hit for runs
// @Tags scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param request body RecordRunsRequest true "Runs off the bat"
// @Security BearerAuth
// @Success 200 {object} ScoreUpdatePayload
// @Failure 400 {object} map[string]interface{}
// @Router /matches/{id}/scoring/runs [post]
func (sc *ScoringController) RecordRuns(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	if _, ok := sc.authorizeScorer(c, matchID); !ok {
		return
	}

	var req RecordRunsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	sc.applyAndRespond(c, matchID, func(eng *Engine) (*ScoreUpdatePayload, error) {
		return eng.RecordRuns(*req.Runs)
	})
}

// RecordExtra godoc
// @Summary Score a wide, no-ball, bye or leg-bye
// @Tags scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param request body RecordExtraRequest true "Extra delivery"
// @Security BearerAuth
// @Success 200 {object} ScoreUpdatePayload
// @Failure 400 {object} map[string]interface{}
// @Router /matches/{id}/scoring/extras [post]
func (sc *ScoringController) RecordExtra(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	if _, ok := sc.authorizeScorer(c, matchID); !ok {
		return
	}

	var req RecordExtraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	sc.applyAndRespond(c, matchID, func(eng *Engine) (*ScoreUpdatePayload, error) {
		return eng.RecordExtra(req.Kind, req.Runs)
	})
}

// RecordWicket godoc
// @Summary Score a dismissal
// @Tags scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param request body WicketParams true "Dismissal details"
// @Security BearerAuth
// @Success 200 {object} ScoreUpdatePayload
// @Failure 400 {object} map[string]interface{}
// @Router /matches/{id}/scoring/wickets [post]
func (sc *ScoringController) RecordWicket(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	if _, ok := sc.authorizeScorer(c, matchID); !ok {
		return
	}

	var req WicketParams
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	sc.applyAndRespond(c, matchID, func(eng *Engine) (*ScoreUpdatePayload, error) {
		return eng.RecordWicket(req)
	})
}

// SelectNextBowler godoc
// @Summary Supply the bowler for the next over
// @Tags scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param request body SelectBowlerRequest true "Next bowler"
// @Security BearerAuth
// @Success 200 {object} ScoreUpdatePayload
// @Failure 400 {object} map[string]interface{}
// @Router /matches/{id}/scoring/next-bowler [post]
func (sc *ScoringController) SelectNextBowler(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	if _, ok := sc.authorizeScorer(c, matchID); !ok {
		return
	}

	var req SelectBowlerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	sc.applyAndRespond(c, matchID, func(eng *Engine) (*ScoreUpdatePayload, error) {
		return eng.SelectNextBowler(req.Bowler)
	})
}

// SelectNextBatter godoc
// @Summary Supply the incoming batter after a dismissal
// @Tags scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param request body SelectBatterRequest true "Incoming batter"
// @Security BearerAuth
// @Success 200 {object} ScoreUpdatePayload
// @Failure 400 {object} map[string]interface{}
// @Router /matches/{id}/scoring/next-batter [post]
func (sc *ScoringController) SelectNextBatter(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	if _, ok := sc.authorizeScorer(c, matchID); !ok {
		return
	}

	var req SelectBatterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	sc.applyAndRespond(c, matchID, func(eng *Engine) (*ScoreUpdatePayload, error) {
		return eng.SelectNextBatter(req.Batter)
	})
}

// SetupSecondInnings godoc
// @Summary Supply the chasing side's openers and opening bowler
// @Tags scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param request body SecondInningsRequest true "Second innings setup"
// @Security BearerAuth
// @Success 200 {object} ScoreUpdatePayload
// @Failure 400 {object} map[string]interface{}
// @Router /matches/{id}/scoring/second-innings [post]
func (sc *ScoringController) SetupSecondInnings(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	if _, ok := sc.authorizeScorer(c, matchID); !ok {
		return
	}

	var req SecondInningsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	sc.applyAndRespond(c, matchID, func(eng *Engine) (*ScoreUpdatePayload, error) {
		return eng.SetupSecondInnings(req.Striker, req.NonStriker, req.Bowler)
	})
}

// GetScorecard godoc
// @Summary Get the full scorecard for a match
// @Tags scoring
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} Scorecard
// @Failure 404 {object} map[string]interface{}
// @Router /matches/{id}/scoring/scorecard [get]
func (sc *ScoringController) GetScorecard(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	eng, ok := sc.engineFor(c, matchID)
	if !ok {
		return
	}
	responses.SuccessResponse(c, http.StatusOK, eng.Scorecard())
}

// GetLiveScore godoc
// @Summary Get the current live-score payload for a match
// @Tags scoring
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} ScoreUpdatePayload
// @Failure 404 {object} map[string]interface{}
// @Router /matches/{id}/scoring/live [get]
func (sc *ScoringController) GetLiveScore(c *gin.Context) {
	matchID, ok := parseMatchID(c)
	if !ok {
		return
	}
	eng, ok := sc.engineFor(c, matchID)
	if !ok {
		return
	}
	responses.SuccessResponse(c, http.StatusOK, eng.Payload())
}
