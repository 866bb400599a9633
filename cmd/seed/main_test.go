package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tile_captcha/internal/model"
	"tile_captcha/internal/service/mocks"
	"tile_captcha/internal/tilegrid"
)

func TestParseDays(t *testing.T) {
	days, err := parseDays("1, 3,5")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, days)

	_, err = parseDays("7")
	assert.Error(t, err)
	_, err = parseDays("mon")
	assert.Error(t, err)
}

func TestSamplesAreValid(t *testing.T) {
	for w, s := range samples {
		assert.NoError(t, tilegrid.Validate(s.tiles), "weekday %d", w)
		assert.NotEmpty(t, s.target)
	}
}

func TestRun(t *testing.T) {
	t.Run("正常系: 登録済みの曜日は2回目にスキップする", func(t *testing.T) {
		dbURL := "sqlite://" + filepath.Join(t.TempDir(), "seed.db")

		var out, errOut bytes.Buffer
		require.Equal(t, exitOK, run([]string{"-db", dbURL, "-days", "1,3"}, &out, &errOut), errOut.String())
		assert.Contains(t, out.String(), "seeded weekday=1")
		assert.Contains(t, out.String(), "seeded weekday=3")

		out.Reset()
		require.Equal(t, exitOK, run([]string{"-db", dbURL, "-days", "3"}, &out, &errOut), errOut.String())
		assert.Contains(t, out.String(), "skip weekday=3")
	})

	t.Run("異常系: 曜日の指定が不正なら使い方エラー", func(t *testing.T) {
		var out, errOut bytes.Buffer
		assert.Equal(t, exitUsage, run([]string{"-days", "9"}, &out, &errOut))
		assert.Contains(t, errOut.String(), "invalid -days")
	})

	t.Run("異常系: 未知のフラグ", func(t *testing.T) {
		var out, errOut bytes.Buffer
		assert.Equal(t, exitUsage, run([]string{"-nope"}, &out, &errOut))
	})
}

func TestSeedPuzzles(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: -force なら既存の曜日も上書きする", func(t *testing.T) {
		svc := mocks.NewMockPuzzleService(t)
		svc.On("UpsertPuzzle", ctx, mock.AnythingOfType("*model.PostPuzzleRequest")).
			Return(&model.Puzzle{ID: 4, Weekday: 2, TargetDescription: "bicycles", CorrectTiles: []int{2, 5, 8}}, nil).Once()

		var out bytes.Buffer
		require.NoError(t, seedPuzzles(ctx, svc, []int{2}, true, &out))
		assert.Contains(t, out.String(), "seeded weekday=2 id=4")
	})

	t.Run("異常系: 確認時のDBエラーで止まる", func(t *testing.T) {
		errDB := errors.New("connection refused")
		svc := mocks.NewMockPuzzleService(t)
		svc.On("GetPuzzleByWeekday", ctx, 0).Return(nil, errDB).Once()

		var out bytes.Buffer
		err := seedPuzzles(ctx, svc, []int{0, 1}, false, &out)
		assert.ErrorIs(t, err, errDB)
		assert.Empty(t, out.String())
	})
}
