package controller

import (
	"ctchen222/Tic-Tac-Toe-Client/internal/api/response"
	"ctchen222/Tic-Tac-Toe-Client/internal/api/service"
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"ctchen222/Tic-Tac-Toe-Client/internal/repository"
	"ctchen222/Tic-Tac-Toe-Client/pkg/proto"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ReasonIllegalMove = "Illegal move"
	ReasonGameOver    = "Game is already over"
)

// GameController handles game-related HTTP requests.
type GameController struct {
	gameService service.GameService
}

// NewGameController creates a new GameController.
func NewGameController(gameService service.GameService) *GameController {
	return &GameController{
		gameService: gameService,
	}
}

// CreateGame handles POST /game.
func (gc *GameController) CreateGame(c *gin.Context) {
	s, err := gc.gameService.Create(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to create game", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "failed to create game")
		return
	}
	response.StateResponse(c, http.StatusOK, s)
}

// GetGame handles GET /game/:id.
func (gc *GameController) GetGame(c *gin.Context) {
	s, err := gc.gameService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.storageError(c, err)
		return
	}
	response.StateResponse(c, http.StatusOK, s)
}

// MakeMove handles POST /move. Illegal moves are answered with valid=false.
func (gc *GameController) MakeMove(c *gin.Context) {
	var req proto.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	s, err := gc.gameService.Move(c.Request.Context(), req.GameID, *req.Row, *req.Col)
	switch {
	case err == nil:
		response.MoveAccepted(c, s)
	case errors.Is(err, game.ErrGameFinished):
		response.MoveRejected(c, ReasonGameOver)
	case errors.Is(err, game.ErrCellOccupied),
		errors.Is(err, game.ErrInvalidCell),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, service.ErrBotsTurn):
		response.MoveRejected(c, ReasonIllegalMove)
	default:
		gc.storageError(c, err)
	}
}

// Health handles GET /healthz.
func (gc *GameController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (gc *GameController) storageError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrGameNotFound) {
		response.ErrorResponse(c, http.StatusNotFound, "game not found")
		return
	}
	slog.ErrorContext(c.Request.Context(), "Game storage failure", "error", err)
	response.ErrorResponse(c, http.StatusInternalServerError, "internal error")
}
