//go:generate mockery --name PuzzleService --output ./mocks --outpkg mocks --case=underscore --structname MockPuzzleService
package service

import (
	"context"
	"errors"
	"fmt"

	"tile_captcha/internal/middleware"
	"tile_captcha/internal/model"
	"tile_captcha/internal/repository"
	"tile_captcha/internal/tilegrid"

	"gorm.io/gorm"
)

type PuzzleService interface {
	ListPuzzles(ctx context.Context) ([]*model.Puzzle, error)
	GetPuzzle(ctx context.Context, id int) (*model.Puzzle, error)
	GetPuzzleByWeekday(ctx context.Context, weekday int) (*model.Puzzle, error)
	// UpsertPuzzle は同じ曜日のパズルがあれば上書き、なければ作成します。
	UpsertPuzzle(ctx context.Context, req *model.PostPuzzleRequest) (*model.Puzzle, error)
	UpdatePuzzle(ctx context.Context, id int, req *model.PutPuzzleRequest) (*model.Puzzle, error)
	DeletePuzzle(ctx context.Context, id int) error
}

type puzzleService struct {
	db   *gorm.DB // トランザクション用にDB接続を持つ
	repo repository.PuzzleRepository
}

func NewPuzzleService(db *gorm.DB, repo repository.PuzzleRepository) PuzzleService {
	return &puzzleService{
		db:   db,
		repo: repo,
	}
}

func errPuzzleNotFound() error {
	return model.NewAppError("PUZZLE_NOT_FOUND", "Puzzle not found", "", model.ErrNotFound)
}

func errPuzzleNotFoundForDay() error {
	return model.NewAppError("PUZZLE_NOT_FOUND", "Puzzle not found for this day", "", model.ErrNotFound)
}

// storeError はDBやストレージの失敗を 500 用のエラーに包みます。元のエラーも errors.Is で辿れます。
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrInternalServer, err)
}

// validatePuzzleFields はリクエストのタグ検証を通った後の、ドメインとしての検証です。
func validatePuzzleFields(imageURL, description string, tiles []int) error {
	if imageURL == "" {
		return model.NewAppError("VALIDATION_ERROR", "Image URL is required.", "imageUrl", model.ErrInvalidInput)
	}
	if description == "" {
		return model.NewAppError("VALIDATION_ERROR", "Target description is required.", "targetDescription", model.ErrInvalidInput)
	}
	if err := tilegrid.Validate(tiles); err != nil {
		return model.NewAppError("VALIDATION_ERROR", "Correct tiles are invalid: "+err.Error(), "correctTiles", model.ErrInvalidInput)
	}
	return nil
}

func validateWeekday(weekday int) error {
	if weekday < 0 || weekday > 6 {
		return model.NewAppError("VALIDATION_ERROR", "Weekday must be between 0 and 6.", "weekday", model.ErrInvalidInput)
	}
	return nil
}

func (s *puzzleService) ListPuzzles(ctx context.Context) ([]*model.Puzzle, error) {
	puzzles, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, storeError("puzzleService.ListPuzzles", err)
	}
	if puzzles == nil {
		puzzles = []*model.Puzzle{}
	}
	return puzzles, nil
}

func (s *puzzleService) GetPuzzle(ctx context.Context, id int) (*model.Puzzle, error) {
	puzzle, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errPuzzleNotFound()
		}
		return nil, storeError("puzzleService.GetPuzzle", err)
	}
	return puzzle, nil
}

func (s *puzzleService) GetPuzzleByWeekday(ctx context.Context, weekday int) (*model.Puzzle, error) {
	if err := validateWeekday(weekday); err != nil {
		return nil, err
	}
	puzzle, err := s.repo.FindByWeekday(ctx, s.db, weekday)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errPuzzleNotFoundForDay()
		}
		return nil, storeError("puzzleService.GetPuzzleByWeekday", err)
	}
	return puzzle, nil
}

func (s *puzzleService) UpsertPuzzle(ctx context.Context, req *model.PostPuzzleRequest) (*model.Puzzle, error) {
	logger := middleware.GetLogger(ctx)
	if req.Weekday == nil {
		return nil, model.NewAppError("VALIDATION_ERROR", "Weekday is required.", "weekday", model.ErrInvalidInput)
	}
	if err := validateWeekday(*req.Weekday); err != nil {
		return nil, err
	}
	if err := validatePuzzleFields(req.ImageURL, req.TargetDescription, req.CorrectTiles); err != nil {
		return nil, err
	}

	var result *model.Puzzle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		puzzle := &model.Puzzle{
			Weekday:           *req.Weekday,
			ImageURL:          req.ImageURL,
			TargetDescription: req.TargetDescription,
			CorrectTiles:      append([]int(nil), req.CorrectTiles...),
		}
		if err := s.repo.UpsertByWeekday(ctx, tx, puzzle); err != nil {
			return err
		}
		// 上書きの場合は id と created_at が既存の行の値になるので読み直す
		stored, err := s.repo.FindByWeekday(ctx, tx, *req.Weekday)
		if err != nil {
			return err
		}
		result = stored
		return nil
	})
	if err != nil {
		logger.Error("Transaction failed for UpsertPuzzle", "error", err, "weekday", *req.Weekday)
		return nil, storeError("puzzleService.UpsertPuzzle", err)
	}

	logger.Info("Puzzle upserted", "puzzle_id", result.ID, "weekday", result.Weekday)
	return result, nil
}

func (s *puzzleService) UpdatePuzzle(ctx context.Context, id int, req *model.PutPuzzleRequest) (*model.Puzzle, error) {
	logger := middleware.GetLogger(ctx)
	if err := validatePuzzleFields(req.ImageURL, req.TargetDescription, req.CorrectTiles); err != nil {
		return nil, err
	}

	var result *model.Puzzle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.repo.FindByID(ctx, tx, id); err != nil {
			return err
		}
		update := &repository.PuzzleUpdate{
			ImageURL:          req.ImageURL,
			TargetDescription: req.TargetDescription,
			CorrectTiles:      append([]int(nil), req.CorrectTiles...),
		}
		if err := s.repo.Update(ctx, tx, id, update); err != nil {
			return err
		}
		updated, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errPuzzleNotFound()
		}
		logger.Error("Transaction failed for UpdatePuzzle", "error", err, "puzzle_id", id)
		return nil, storeError("puzzleService.UpdatePuzzle", err)
	}

	logger.Info("Puzzle updated", "puzzle_id", id, "weekday", result.Weekday)
	return result, nil
}

func (s *puzzleService) DeletePuzzle(ctx context.Context, id int) error {
	logger := middleware.GetLogger(ctx)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.repo.FindByID(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return errPuzzleNotFound()
		}
		logger.Error("Transaction failed for DeletePuzzle", "error", err, "puzzle_id", id)
		return storeError("puzzleService.DeletePuzzle", err)
	}
	logger.Info("Puzzle deleted", "puzzle_id", id)
	return nil
}
