package game

import (
	"time"

	"migration/internal/engine"
)

type CreateGameRequest struct {
	Size       int    `json:"size"`
	Difficulty string `json:"difficulty"`
}

type CreateGameResponse struct {
	GameID string `json:"game_id"`
}

type GameState struct {
	GameID        string  `json:"game_id"`
	Size          int     `json:"size"`
	Difficulty    int     `json:"difficulty"`
	CurrentPlayer int     `json:"current_player"`
	Board         [][]int `json:"board"`
	GameOver      bool    `json:"game_over"`
	Winner        int     `json:"winner"`
}

type CellResponse struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Value int `json:"value"`
}

type SaveRequest struct {
	Filename string `json:"filename"`
}

type LoadRequest struct {
	Filename   string `json:"filename"`
	Difficulty string `json:"difficulty"`
}

type RestoreRequest struct {
	Difficulty string `json:"difficulty"`
}

// GameRecord is a finished game as kept in the archive.
type GameRecord struct {
	ID         string    `json:"id" bson:"_id"`
	Size       int       `json:"size" bson:"size"`
	Difficulty int       `json:"difficulty" bson:"difficulty"`
	Winner     int       `json:"winner" bson:"winner"`
	FinalBoard string    `json:"final_board" bson:"final_board"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	FinishedAt time.Time `json:"finished_at" bson:"finished_at"`
}

// StreamMessage is exchanged over the game websocket. Clients send
// {"type":"move","move":{...}} or {"type":"bot"}; the server answers with
// {"type":"state",...} or {"type":"error",...}.
type StreamMessage struct {
	Type  string       `json:"type"`
	Move  *engine.Move `json:"move,omitempty"`
	State *GameState   `json:"state,omitempty"`
	Error string       `json:"error,omitempty"`
}

const (
	StreamMove  = "move"
	StreamBot   = "bot"
	StreamState = "state"
	StreamError = "error"
)

type BotMoveResponse struct {
	Move  engine.Move `json:"move"`
	State GameState   `json:"state"`
}

type SaveResponse struct {
	Path string `json:"path"`
}
