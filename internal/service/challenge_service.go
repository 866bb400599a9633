//go:generate mockery --name ChallengeService --output ./mocks --outpkg mocks --case=underscore --structname MockChallengeService
package service

import (
	"context"
	"errors"
	"time"

	"tile_captcha/internal/middleware"
	"tile_captcha/internal/model"
	"tile_captcha/internal/repository"
	"tile_captcha/internal/tilegrid"

	"gorm.io/gorm"
)

// ChallengeService はプレイヤー向けに今日のパズルを選び、回答を判定します。
type ChallengeService interface {
	// TodaysPuzzle は weekday が nil ならサーバーの時計で曜日を決めます。
	// その曜日のパズルがなければ一覧の先頭を返し、fallback を true にします。
	TodaysPuzzle(ctx context.Context, weekday *int) (puzzle *model.Puzzle, fallback bool, err error)
	Verify(ctx context.Context, id int, selected []int) (bool, error)
}

type challengeService struct {
	db   *gorm.DB
	repo repository.PuzzleRepository
	loc  *time.Location
	now  func() time.Time
}

func NewChallengeService(db *gorm.DB, repo repository.PuzzleRepository, loc *time.Location, now func() time.Time) ChallengeService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &challengeService{db: db, repo: repo, loc: loc, now: now}
}

func errNoPuzzleAvailable() error {
	return model.NewAppError("NO_PUZZLE_AVAILABLE", "No Puzzle Available", "", model.ErrNoPuzzleAvailable)
}

func (s *challengeService) TodaysPuzzle(ctx context.Context, weekday *int) (*model.Puzzle, bool, error) {
	logger := middleware.GetLogger(ctx)

	day := int(s.now().In(s.loc).Weekday())
	if weekday != nil {
		if err := validateWeekday(*weekday); err != nil {
			return nil, false, err
		}
		day = *weekday
	}

	puzzle, err := s.repo.FindByWeekday(ctx, s.db, day)
	if err == nil {
		return puzzle, false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, false, storeError("challengeService.TodaysPuzzle", err)
	}

	// 今日の分がなければ、どれか1つを出す
	puzzles, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, false, storeError("challengeService.TodaysPuzzle", err)
	}
	if len(puzzles) == 0 {
		return nil, false, errNoPuzzleAvailable()
	}
	logger.Info("No puzzle for the day, falling back", "weekday", day, "fallback_weekday", puzzles[0].Weekday)
	return puzzles[0], true, nil
}

func (s *challengeService) Verify(ctx context.Context, id int, selected []int) (bool, error) {
	logger := middleware.GetLogger(ctx)
	puzzle, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, errPuzzleNotFound()
		}
		return false, storeError("challengeService.Verify", err)
	}
	ok := tilegrid.Matches(selected, puzzle.CorrectTiles)
	logger.Info("Challenge verified", "puzzle_id", id, "success", ok, "selected_count", len(selected))
	return ok, nil
}
