package engine

import (
	"net/http"

	"go.uber.org/zap"

	"migration/internal/bootstrap"
	"migration/internal/domain"
	"migration/internal/httpresponse"
	engineUC "migration/internal/usecase/engine"
	"migration/internal/utils"
)

type EngineHandler struct {
	cfg      bootstrap.Config
	log      *zap.SugaredLogger
	engineUC *engineUC.EngineUseCase
}

func NewEngineHandler(cfg bootstrap.Config, log *zap.SugaredLogger, uc *engineUC.EngineUseCase) *EngineHandler {
	return &EngineHandler{
		cfg:      cfg,
		log:      log,
		engineUC: uc,
	}
}

// HandleGenerateMove computes player two's move for the posted board without
// creating a game.
func (e *EngineHandler) HandleGenerateMove(w http.ResponseWriter, r *http.Request) {
	var req domain.EngineMoveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	resp, err := e.engineUC.DecideMove(r.Context(), req)
	if err != nil {
		e.log.Errorf("failed to generate bot move: %v", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}
