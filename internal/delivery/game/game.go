package game

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"migration/internal/bootstrap"
	"migration/internal/domain/game"
	"migration/internal/engine"
	"migration/internal/httpresponse"
	gameuc "migration/internal/usecase/game"
	"migration/internal/utils"
)

type GameHandler struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewGameHandler(cfg bootstrap.Config, log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *GameHandler {
	return &GameHandler{
		cfg:    cfg,
		log:    log,
		gameUC: gameUC,
	}
}

func (g *GameHandler) Routes(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Post("/", g.HandleNewGame)
		r.Post("/load", g.HandleLoadGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", g.HandleGetState)
			r.Delete("/", g.HandleDestroyGame)
			r.Get("/cell", g.HandleGetCell)
			r.Post("/moves", g.HandleApplyMove)
			r.Get("/bot-move", g.HandleBotMove)
			r.Post("/bot-move", g.HandleRunBot)
			r.Post("/save", g.HandleSaveGame)
			r.Post("/restore", g.HandleRestoreGame)
			r.Get("/ws", g.HandleStream)
		})
	})
	r.Get("/archive/{id}", g.HandleGetArchived)
}

func (g *GameHandler) writeError(w http.ResponseWriter, err error) {
	if httpresponse.StatusFor(err) == http.StatusInternalServerError {
		g.log.Error(err)
	} else {
		g.log.Debug(err)
	}
	httpresponse.WriteError(w, err)
}

func (g *GameHandler) badRequest(w http.ResponseWriter, err error) {
	g.log.Debugf("bad request: %v", err)
	httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, httpresponse.ErrorResponse{ErrorDescription: err.Error()})
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req game.CreateGameRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.badRequest(w, err)
		return
	}

	gameID, err := g.gameUC.CreateGame(r.Context(), req.Size, req.Difficulty)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, game.CreateGameResponse{GameID: gameID})
}

func (g *GameHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := g.gameUC.State(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (g *GameHandler) HandleGetCell(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.URL.Query().Get("x"))
	y, errY := strconv.Atoi(r.URL.Query().Get("y"))
	if errX != nil || errY != nil {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, httpresponse.ErrorResponse{ErrorDescription: "x and y must be integers"})
		return
	}

	value, err := g.gameUC.Cell(r.Context(), chi.URLParam(r, "id"), x, y)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.CellResponse{X: x, Y: y, Value: value})
}

// HandleApplyMove answers with the resulting state; an illegal move leaves it unchanged.
func (g *GameHandler) HandleApplyMove(w http.ResponseWriter, r *http.Request) {
	var move engine.Move
	if err := utils.DecodeJSONRequest(r, &move); err != nil {
		g.badRequest(w, err)
		return
	}

	state, err := g.gameUC.ApplyMove(r.Context(), chi.URLParam(r, "id"), move)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (g *GameHandler) HandleBotMove(w http.ResponseWriter, r *http.Request) {
	move, err := g.gameUC.BotMove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, move)
}

func (g *GameHandler) HandleRunBot(w http.ResponseWriter, r *http.Request) {
	move, state, err := g.gameUC.RunBot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.BotMoveResponse{Move: move, State: state})
}

func (g *GameHandler) HandleSaveGame(w http.ResponseWriter, r *http.Request) {
	var req game.SaveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.badRequest(w, err)
		return
	}

	path, err := g.gameUC.SaveGame(r.Context(), chi.URLParam(r, "id"), req.Filename)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.SaveResponse{Path: path})
}

func (g *GameHandler) HandleLoadGame(w http.ResponseWriter, r *http.Request) {
	var req game.LoadRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.badRequest(w, err)
		return
	}

	gameID, err := g.gameUC.LoadGame(r.Context(), req.Filename, req.Difficulty)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, game.CreateGameResponse{GameID: gameID})
}

func (g *GameHandler) HandleRestoreGame(w http.ResponseWriter, r *http.Request) {
	var req game.RestoreRequest
	if r.ContentLength != 0 {
		if err := utils.DecodeJSONRequest(r, &req); err != nil {
			g.badRequest(w, err)
			return
		}
	}

	state, err := g.gameUC.RestoreGame(r.Context(), chi.URLParam(r, "id"), req.Difficulty)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (g *GameHandler) HandleDestroyGame(w http.ResponseWriter, r *http.Request) {
	if err := g.gameUC.DestroyGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		g.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *GameHandler) HandleGetArchived(w http.ResponseWriter, r *http.Request) {
	record, err := g.gameUC.ArchivedGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, record)
}
