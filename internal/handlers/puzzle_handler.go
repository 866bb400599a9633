// internal/handlers/puzzle_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"tile_captcha/internal/model"
	"tile_captcha/internal/service"
	"tile_captcha/internal/webutil"
)

type PuzzleHandler struct {
	service service.PuzzleService
	logger  *slog.Logger
}

func NewPuzzleHandler(s service.PuzzleService, logger *slog.Logger) *PuzzleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PuzzleHandler{
		service: s,
		logger:  logger,
	}
}

// GetPuzzles はパズルの一覧を曜日順で返します。
// ?weekday=N が指定された場合はその曜日の1件だけを返します。
func (h *PuzzleHandler) GetPuzzles(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetPuzzles"))

	weekday, err := webutil.OptionalIntQuery(r, "weekday")
	if err != nil {
		logger.Warn("Invalid weekday query", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if weekday != nil {
		puzzle, err := h.service.GetPuzzleByWeekday(r.Context(), *weekday)
		if err != nil {
			logger.Warn("Error getting puzzle by weekday", slog.Int("weekday", *weekday), slog.Any("error", err))
			webutil.HandleError(w, logger, err)
			return
		}
		webutil.RespondWithJSON(w, http.StatusOK, model.NewPuzzleResponse(puzzle), logger)
		return
	}

	puzzles, err := h.service.ListPuzzles(r.Context())
	if err != nil {
		logger.Error("Error listing puzzles in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Puzzles listed successfully", slog.Int("count", len(puzzles)))
	webutil.RespondWithJSON(w, http.StatusOK, model.NewPuzzleResponses(puzzles), logger)
}

// GetPuzzle は id で1件取得します。
func (h *PuzzleHandler) GetPuzzle(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetPuzzle"))

	id, err := webutil.IntURLParam(r, "id")
	if err != nil {
		logger.Warn("Invalid puzzle ID in URL", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	puzzle, err := h.service.GetPuzzle(r.Context(), id)
	if err != nil {
		logger.Warn("Error getting puzzle", slog.Int("puzzle_id", id), slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.NewPuzzleResponse(puzzle), logger)
}

// PostPuzzle は曜日単位でパズルを作成または上書きします。
func (h *PuzzleHandler) PostPuzzle(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostPuzzle"))

	var req model.PostPuzzleRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	puzzle, err := h.service.UpsertPuzzle(r.Context(), &req)
	if err != nil {
		logger.Error("Error upserting puzzle in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Puzzle saved successfully", slog.Int("puzzle_id", puzzle.ID), slog.Int("weekday", puzzle.Weekday))
	webutil.RespondWithJSON(w, http.StatusOK, model.NewPuzzleResponse(puzzle), logger)
}

// PutPuzzle は画像・説明・正解タイルを置き換えます。曜日は変わりません。
func (h *PuzzleHandler) PutPuzzle(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutPuzzle"))

	id, err := webutil.IntURLParam(r, "id")
	if err != nil {
		logger.Warn("Invalid puzzle ID in URL", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.Int("puzzle_id", id))

	var req model.PutPuzzleRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	puzzle, err := h.service.UpdatePuzzle(r.Context(), id, &req)
	if err != nil {
		logger.Warn("Error updating puzzle in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Puzzle updated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, model.NewPuzzleResponse(puzzle), logger)
}

// DeletePuzzle はパズルを削除します。存在しない id は 404 です。
func (h *PuzzleHandler) DeletePuzzle(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeletePuzzle"))

	id, err := webutil.IntURLParam(r, "id")
	if err != nil {
		logger.Warn("Invalid puzzle ID in URL", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.DeletePuzzle(r.Context(), id); err != nil {
		logger.Warn("Error deleting puzzle in service", slog.Int("puzzle_id", id), slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Puzzle deleted successfully", slog.Int("puzzle_id", id))
	webutil.RespondWithJSON(w, http.StatusOK, model.DeleteResponse{Success: true}, logger)
}
