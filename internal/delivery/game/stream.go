package game

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"migration/internal/domain/game"
	"migration/internal/engine"
)

// HandleStream plays a game over a websocket. Every client message gets at
// least one reply; after a human move that hands the turn to player two the
// bot answers in a second state message.
func (g *GameHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	ctx := r.Context()

	state, err := g.gameUC.State(ctx, gameID)
	if err != nil {
		g.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Errorf("upgrade error: %v", err)
		return
	}
	defer conn.Close()

	g.log.Infof("stream opened for game %s", gameID)
	if err := conn.WriteJSON(stateMessage(state)); err != nil {
		return
	}

	for {
		var msg game.StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.log.Errorf("game %s: read error: %v", gameID, err)
			}
			return
		}

		var replies []game.StreamMessage
		switch msg.Type {
		case game.StreamMove:
			if msg.Move == nil {
				replies = append(replies, errorMessage("move is missing"))
				break
			}
			state, err := g.gameUC.ApplyMove(ctx, gameID, *msg.Move)
			if err != nil {
				replies = append(replies, errorMessage(err.Error()))
				break
			}
			replies = append(replies, stateMessage(state))
			if !state.GameOver && state.CurrentPlayer == int(engine.PlayerTwo) {
				replies = append(replies, g.botReply(r, gameID))
			}
		case game.StreamBot:
			replies = append(replies, g.botReply(r, gameID))
		default:
			replies = append(replies, errorMessage("unknown message type "+msg.Type))
		}

		for _, reply := range replies {
			if err := conn.WriteJSON(reply); err != nil {
				g.log.Errorf("game %s: write error: %v", gameID, err)
				return
			}
		}
	}
}

func (g *GameHandler) botReply(r *http.Request, gameID string) game.StreamMessage {
	move, state, err := g.gameUC.RunBot(r.Context(), gameID)
	if err != nil {
		return errorMessage(err.Error())
	}
	msg := stateMessage(state)
	msg.Move = &move
	return msg
}

func stateMessage(state game.GameState) game.StreamMessage {
	return game.StreamMessage{Type: game.StreamState, State: &state}
}

func errorMessage(text string) game.StreamMessage {
	return game.StreamMessage{Type: game.StreamError, Error: text}
}
