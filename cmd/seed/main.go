// seed は1週間分のサンプルパズルを登録します。既にある曜日は -force を付けない限りそのままです。
//
//	go run ./cmd/seed -db sqlite://tile_captcha.db -days 1,3,5
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"tile_captcha/internal/config"
	"tile_captcha/internal/logging"
	"tile_captcha/internal/middleware"
	"tile_captcha/internal/model"
	"tile_captcha/internal/repository"
	"tile_captcha/internal/service"
)

// samples は曜日ごとのサンプルです (index = weekday)。
var samples = [7]struct {
	image  string
	target string
	tiles  []int
}{
	{"https://images.example.com/captcha/sunday-crosswalk.jpg", "crosswalks", []int{3, 4, 5}},
	{"https://images.example.com/captcha/monday-buses.jpg", "buses", []int{0, 1}},
	{"https://images.example.com/captcha/tuesday-bicycles.jpg", "bicycles", []int{2, 5, 8}},
	{"https://images.example.com/captcha/wednesday-lights.jpg", "traffic lights", []int{0, 4, 8}},
	{"https://images.example.com/captcha/thursday-hydrants.jpg", "fire hydrants", []int{6, 7}},
	{"https://images.example.com/captcha/friday-boats.jpg", "boats", []int{1, 4, 7}},
	{"https://images.example.com/captcha/saturday-cats.jpg", "cats", []int{2}},
}

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run は終了コードを返します。os.Exit は main だけで呼ぶので、defer で DB やログファイルが閉じられます。
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbURL := fs.String("db", "", "database URL (default: config database.url)")
	days := fs.String("days", "0,1,2,3,4,5,6", "weekdays to seed, comma separated")
	force := fs.Bool("force", false, "overwrite weekdays that already have a puzzle")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	weekdays, err := parseDays(*days)
	if err != nil {
		fmt.Fprintf(stderr, "invalid -days: %v\n", err)
		return exitUsage
	}

	if err := config.LoadConfig("../configs"); err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return exitError
	}
	logger, closer := logging.New(config.Cfg.Log, os.Getenv("APP_ENV"), stderr)
	if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	url := config.Cfg.Database.URL
	if *dbURL != "" {
		url = *dbURL
	}
	db, err := repository.NewDB(url, logger)
	if err != nil {
		logger.Error("Error connecting to database", slog.Any("error", err))
		return exitError
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := repository.Migrate(db); err != nil {
		logger.Error("Error migrating database", slog.Any("error", err))
		return exitError
	}

	ctx := middleware.WithLogger(context.Background(), logger)
	svc := service.NewPuzzleService(db, repository.NewGormPuzzleRepository())
	if err := seedPuzzles(ctx, svc, weekdays, *force, stdout); err != nil {
		logger.Error("Error seeding puzzles", slog.Any("error", err))
		return exitError
	}
	return exitOK
}

// seedPuzzles は weekdays の順にサンプルを登録します。最初のエラーで止まります。
func seedPuzzles(ctx context.Context, svc service.PuzzleService, weekdays []int, force bool, out io.Writer) error {
	for _, w := range weekdays {
		if !force {
			existing, err := svc.GetPuzzleByWeekday(ctx, w)
			if err == nil {
				fmt.Fprintf(out, "skip weekday=%d id=%d (exists)\n", w, existing.ID)
				continue
			}
			if !errors.Is(err, model.ErrNotFound) {
				return fmt.Errorf("check weekday %d: %w", w, err)
			}
		}
		s := samples[w]
		p, err := svc.UpsertPuzzle(ctx, &model.PostPuzzleRequest{
			Weekday:           &w,
			ImageURL:          s.image,
			TargetDescription: s.target,
			CorrectTiles:      s.tiles,
		})
		if err != nil {
			return fmt.Errorf("seed weekday %d: %w", w, err)
		}
		fmt.Fprintf(out, "seeded weekday=%d id=%d target=%q tiles=%v\n", p.Weekday, p.ID, p.TargetDescription, []int(p.CorrectTiles))
	}
	return nil
}

func parseDays(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		w, err := strconv.Atoi(part)
		if err != nil || w < 0 || w > 6 {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		out = append(out, w)
	}
	return out, nil
}
