package response

import (
	"ctchen222/Tic-Tac-Toe-Client/internal/game"
	"ctchen222/Tic-Tac-Toe-Client/pkg/proto"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StateResponse writes a full game state, id included.
func StateResponse(c *gin.Context, code int, s *game.State) {
	c.JSON(code, proto.FromState(s, true))
}

// MoveAccepted writes the result of a legal move. The nested state has no id.
func MoveAccepted(c *gin.Context, s *game.State) {
	c.JSON(http.StatusOK, proto.MoveResponse{
		Valid: true,
		State: proto.FromState(s, false),
	})
}

// MoveRejected reports an illegal move. It is a normal 200 response.
func MoveRejected(c *gin.Context, reason string) {
	c.JSON(http.StatusOK, proto.MoveResponse{
		Valid: false,
		Error: reason,
	})
}

func ErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, proto.ErrorMessage{Error: message})
}
