package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-history/internal/session"
)

const (
	actionGameNew     = "game:new"
	actionGameState   = "game:state"
	actionGameMove    = "game:move"
	actionGameJump    = "game:jump"
	actionGameReverse = "game:reverse"
	actionGameEnd     = "game:end"
	actionError       = "error"
)

type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	GameID string `json:"game_id,omitempty"`
	Cell   *int   `json:"cell,omitempty"`
	Step   *int   `json:"step,omitempty"`
}

type ResponsePayload struct {
	GameID string        `json:"game_id,omitempty"`
	Game   *session.View `json:"game,omitempty"`
	Error  string        `json:"error,omitempty"`
}
