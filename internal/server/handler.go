package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	roomdb "github.com/impostor-games/impostor/internal/database/room/database"
	"github.com/impostor-games/impostor/internal/impostor/game"
	"github.com/impostor-games/impostor/internal/logging"
)

func NewHandler(manager *game.Manager, debug bool) *Handler {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	h := &Handler{manager: manager}
	h.routes(debug)
	return h
}

type Handler struct {
	manager *game.Manager
	engine  *gin.Engine
}

func (h *Handler) Engine() *gin.Engine {
	return h.engine
}

func (h *Handler) routes(debug bool) {
	engine := gin.New()
	engine.Use(gin.Recovery())
	if debug {
		engine.Use(gin.Logger())
	}

	engine.GET("/health", h.health)

	api := engine.Group("/api")
	api.POST("/rooms", h.createRoom)

	rooms := api.Group("/rooms/:code")
	rooms.GET("", h.getRoom)
	rooms.GET("/subscribe", h.subscribe)
	rooms.POST("/join", h.join)
	rooms.POST("/start", h.start)
	rooms.POST("/reset", h.reset)
	rooms.POST("/remove", h.remove)
	rooms.POST("/heartbeat", h.heartbeat)
	rooms.POST("/vote-request", h.requestVote)
	rooms.POST("/vote", h.submitVote)
	rooms.POST("/vote/end", h.forceEndVoting)

	h.engine = engine
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) createRoom(c *gin.Context) {
	room, err := h.manager.CreateRoom(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"room": room})
}

func (h *Handler) getRoom(c *gin.Context) {
	room, err := h.manager.Store().Fetch(c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

func (h *Handler) join(c *gin.Context) {
	var input struct {
		PlayerID string `json:"playerId"`
		Name     string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	room, player, err := h.manager.Join(c.Request.Context(), c.Param("code"), input.PlayerID, input.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room, "player": player})
}

func (h *Handler) start(c *gin.Context) {
	var input struct {
		Theme        string `json:"theme" binding:"required"`
		NumImpostors int    `json:"numImpostors"`
		MaxGuesses   int    `json:"maxGuesses"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if input.NumImpostors == 0 {
		input.NumImpostors = 1
	}
	if input.MaxGuesses == 0 {
		input.MaxGuesses = 1
	}

	room, err := h.manager.StartRound(c.Request.Context(), c.Param("code"), input.Theme, input.NumImpostors, input.MaxGuesses)
	if err != nil {
		h.fail(c, err)
		return
	}

	// started:true is the success-path navigation signal: clients move
	// to the game view only when they see it
	c.JSON(http.StatusOK, gin.H{"room": room, "started": true})
}

func (h *Handler) reset(c *gin.Context) {
	room, err := h.manager.ResetRound(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

func (h *Handler) remove(c *gin.Context) {
	var input struct {
		CallerID string `json:"callerId" binding:"required"`
		PlayerID string `json:"playerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	room, err := h.manager.Remove(c.Request.Context(), c.Param("code"), input.CallerID, input.PlayerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if room == nil {
		c.JSON(http.StatusOK, gin.H{"deleted": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

func (h *Handler) heartbeat(c *gin.Context) {
	var input struct {
		PlayerID string `json:"playerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	room, err := h.manager.Heartbeat(c.Request.Context(), c.Param("code"), input.PlayerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

func (h *Handler) requestVote(c *gin.Context) {
	var input struct {
		PlayerID string `json:"playerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	room, err := h.manager.RequestVote(c.Request.Context(), c.Param("code"), input.PlayerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

func (h *Handler) submitVote(c *gin.Context) {
	var input struct {
		VoterID  string `json:"voterId" binding:"required"`
		TargetID string `json:"targetId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	room, err := h.manager.SubmitVote(c.Request.Context(), c.Param("code"), input.VoterID, input.TargetID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

func (h *Handler) forceEndVoting(c *gin.Context) {
	var input struct {
		HostID string `json:"hostId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	room, err := h.manager.ForceEndVoting(c.Request.Context(), c.Param("code"), input.HostID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

// fail maps the game error taxonomy onto HTTP statuses. Validation
// errors carry their user-facing message; internal errors do not leak
// details.
func (h *Handler) fail(c *gin.Context, err error) {
	logger := logging.FromContext(c.Request.Context()).Named("server.handler")

	switch {
	case errors.Is(err, game.ErrRoomNotFound), errors.Is(err, roomdb.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": game.ErrRoomNotFound.Error()})
	case errors.Is(err, game.ErrNotHost):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrOracle):
		logger.Errorf("oracle failure: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": game.ErrOracle.Error()})
	case errors.Is(err, game.ErrInvariant):
		logger.Errorf("invariant violation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	case errors.Is(err, game.ErrPlayerNotFound),
		errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, game.ErrImpostorCount),
		errors.Is(err, game.ErrThemeRequired),
		errors.Is(err, game.ErrLeaveDuringGame),
		errors.Is(err, game.ErrVoterEliminated),
		errors.Is(err, game.ErrTargetEliminated),
		errors.Is(err, game.ErrAlreadyRequested),
		errors.Is(err, game.ErrNotPlaying),
		errors.Is(err, game.ErrNotVoting),
		errors.Is(err, game.ErrNoBallots):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Errorf("unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
