package domain

import "migration/internal/engine"

// EngineMoveRequest asks for player two's move on an arbitrary position.
// Board is indexed [x][y], as in the save format.
type EngineMoveRequest struct {
	Board      [][]int `json:"board"`
	Depth      int     `json:"depth,omitempty"`
	Difficulty string  `json:"difficulty,omitempty"`
}

type EngineMoveResponse struct {
	Move   engine.Move `json:"move"`
	NoMove bool        `json:"no_move"`
	Engine string      `json:"engine"`
}
