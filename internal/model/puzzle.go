// internal/model/puzzle.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

// Puzzle は曜日ごとに1件だけ存在するパズルです。
// DB のカラム名は snake_case (image_url など)、API では camelCase に変換して返します。
type Puzzle struct {
	ID                int                      `gorm:"primaryKey;autoIncrement"`
	CreatedAt         time.Time                `gorm:"not null"`
	Weekday           int                      `gorm:"not null;uniqueIndex:uq_puzzles_weekday"` // 0=日曜 .. 6=土曜
	ImageURL          string                   `gorm:"column:image_url;not null"`
	TargetDescription string                   `gorm:"not null"`
	CorrectTiles      datatypes.JSONSlice[int] `gorm:"not null"`
}

func (Puzzle) TableName() string {
	return "puzzles"
}

// パズル作成リクエストDTO (曜日単位の upsert)
type PostPuzzleRequest struct {
	Weekday           *int   `json:"weekday" validate:"required,min=0,max=6"`
	ImageURL          string `json:"imageUrl" validate:"required,url"`
	TargetDescription string `json:"targetDescription" validate:"required"`
	CorrectTiles      []int  `json:"correctTiles" validate:"required,min=1,max=9,unique,dive,min=0,max=8"`
}

// パズル更新（全体）リクエストDTO。曜日は変更できないため受け取っても無視します。
type PutPuzzleRequest struct {
	Weekday           *int   `json:"weekday,omitempty" validate:"-"`
	ImageURL          string `json:"imageUrl" validate:"required,url"`
	TargetDescription string `json:"targetDescription" validate:"required"`
	CorrectTiles      []int  `json:"correctTiles" validate:"required,min=1,max=9,unique,dive,min=0,max=8"`
}

// PuzzleResponse はクライアントに返すパズル情報です (camelCase)
type PuzzleResponse struct {
	ID                int       `json:"id"`
	CreatedAt         time.Time `json:"createdAt"`
	Weekday           int       `json:"weekday"`
	ImageURL          string    `json:"imageUrl"`
	TargetDescription string    `json:"targetDescription"`
	CorrectTiles      []int     `json:"correctTiles"`
}

func NewPuzzleResponse(p *Puzzle) *PuzzleResponse {
	tiles := make([]int, len(p.CorrectTiles))
	copy(tiles, p.CorrectTiles)
	return &PuzzleResponse{
		ID:                p.ID,
		CreatedAt:         p.CreatedAt,
		Weekday:           p.Weekday,
		ImageURL:          p.ImageURL,
		TargetDescription: p.TargetDescription,
		CorrectTiles:      tiles,
	}
}

func NewPuzzleResponses(puzzles []*Puzzle) []*PuzzleResponse {
	out := make([]*PuzzleResponse, 0, len(puzzles))
	for _, p := range puzzles {
		out = append(out, NewPuzzleResponse(p))
	}
	return out
}

// DeleteResponse は削除成功時のレスポンス
type DeleteResponse struct {
	Success bool `json:"success"`
}
