// internal/handlers/challenge_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"tile_captcha/internal/model"
	"tile_captcha/internal/service"
	"tile_captcha/internal/webutil"
)

// ChallengeHandler はプレイヤー向けのエンドポイントです。正解タイルは返しません。
type ChallengeHandler struct {
	service service.ChallengeService
	logger  *slog.Logger
}

func NewChallengeHandler(s service.ChallengeService, logger *slog.Logger) *ChallengeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChallengeHandler{service: s, logger: logger}
}

func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetChallenge"))

	weekday, err := webutil.OptionalIntQuery(r, "weekday")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	puzzle, fallback, err := h.service.TodaysPuzzle(r.Context(), weekday)
	if err != nil {
		logger.Warn("No challenge to serve", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.NewChallengeResponse(puzzle, fallback), logger)
}

func (h *ChallengeHandler) PostVerify(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostVerify"))

	id, err := webutil.IntURLParam(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.VerifyRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	ok, err := h.service.Verify(r.Context(), id, req.SelectedTiles)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.VerifyResponse{Success: ok}, logger)
}
