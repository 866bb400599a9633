//go:generate mockery --name PuzzleRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"tile_captcha/internal/middleware"
	"tile_captcha/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PuzzleUpdate は PUT で置き換える項目です。曜日は含みません。
type PuzzleUpdate struct {
	ImageURL          string
	TargetDescription string
	CorrectTiles      []int
}

type PuzzleRepository interface {
	// UpsertByWeekday は曜日が重複した場合に画像・説明・正解タイルを上書きします。
	// id と created_at は既存の値が残ります。
	UpsertByWeekday(ctx context.Context, tx *gorm.DB, puzzle *model.Puzzle) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*model.Puzzle, error)
	FindByWeekday(ctx context.Context, db *gorm.DB, weekday int) (*model.Puzzle, error)
	List(ctx context.Context, db *gorm.DB) ([]*model.Puzzle, error)
	Update(ctx context.Context, tx *gorm.DB, id int, update *PuzzleUpdate) error
	Delete(ctx context.Context, tx *gorm.DB, id int) error
}

type gormPuzzleRepository struct{}

func NewGormPuzzleRepository() PuzzleRepository {
	return &gormPuzzleRepository{}
}

func (r *gormPuzzleRepository) UpsertByWeekday(ctx context.Context, tx *gorm.DB, puzzle *model.Puzzle) error {
	logger := middleware.GetLogger(ctx)
	// INSERT .. ON CONFLICT (weekday) DO UPDATE で同じ曜日の重複を防ぐ
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "weekday"}},
		DoUpdates: clause.AssignmentColumns([]string{"image_url", "target_description", "correct_tiles"}),
	}).Create(puzzle)
	if result.Error != nil {
		logger.Error("Error upserting puzzle in DB",
			"error", result.Error,
			"weekday", puzzle.Weekday,
		)
		return fmt.Errorf("gormPuzzleRepository.UpsertByWeekday: %w", result.Error)
	}
	return nil
}

func (r *gormPuzzleRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*model.Puzzle, error) {
	logger := middleware.GetLogger(ctx)
	var puzzle model.Puzzle
	result := db.WithContext(ctx).Where("id = ?", id).First(&puzzle)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding puzzle by ID in DB", "error", result.Error, "puzzle_id", id)
		return nil, fmt.Errorf("gormPuzzleRepository.FindByID: %w", result.Error)
	}
	return &puzzle, nil
}

func (r *gormPuzzleRepository) FindByWeekday(ctx context.Context, db *gorm.DB, weekday int) (*model.Puzzle, error) {
	logger := middleware.GetLogger(ctx)
	var puzzle model.Puzzle
	result := db.WithContext(ctx).Where("weekday = ?", weekday).First(&puzzle)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding puzzle by weekday in DB", "error", result.Error, "weekday", weekday)
		return nil, fmt.Errorf("gormPuzzleRepository.FindByWeekday: %w", result.Error)
	}
	return &puzzle, nil
}

func (r *gormPuzzleRepository) List(ctx context.Context, db *gorm.DB) ([]*model.Puzzle, error) {
	logger := middleware.GetLogger(ctx)
	var puzzles []*model.Puzzle
	result := db.WithContext(ctx).Order("weekday ASC").Find(&puzzles)
	if result.Error != nil {
		logger.Error("Error listing puzzles in DB", "error", result.Error)
		return nil, fmt.Errorf("gormPuzzleRepository.List: %w", result.Error)
	}
	return puzzles, nil
}

func (r *gormPuzzleRepository) Update(ctx context.Context, tx *gorm.DB, id int, update *PuzzleUpdate) error {
	logger := middleware.GetLogger(ctx)
	updates := map[string]interface{}{
		"image_url":          update.ImageURL,
		"target_description": update.TargetDescription,
		"correct_tiles":      datatypes.JSONSlice[int](update.CorrectTiles),
	}
	result := tx.WithContext(ctx).Model(&model.Puzzle{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating puzzle in DB", "error", result.Error, "puzzle_id", id)
		return fmt.Errorf("gormPuzzleRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormPuzzleRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Delete(&model.Puzzle{}, id)
	if result.Error != nil {
		logger.Error("Error deleting puzzle in DB", "error", result.Error, "puzzle_id", id)
		return fmt.Errorf("gormPuzzleRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
