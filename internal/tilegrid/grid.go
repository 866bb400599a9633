// Package tilegrid は 3x3 のタイルグリッドを扱います。
// 選択状態は順序を持たない集合で、管理画面とプレイヤー画面の両方で共有されます。
package tilegrid

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	Size      = 3
	TileCount = Size * Size
)

var (
	ErrEmptySelection = errors.New("at least one tile must be selected")
	ErrTileOutOfRange = errors.New("tile index out of range")
	ErrDuplicateTile  = errors.New("duplicate tile index")
)

// Validate はタイル番号のリストが 空でない・重複なし・0〜8 の範囲内 であることを確認します。
func Validate(tiles []int) error {
	if len(tiles) == 0 {
		return ErrEmptySelection
	}
	seen := make(map[int]struct{}, len(tiles))
	for _, t := range tiles {
		if t < 0 || t >= TileCount {
			return fmt.Errorf("%w: %d", ErrTileOutOfRange, t)
		}
		if _, ok := seen[t]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateTile, t)
		}
		seen[t] = struct{}{}
	}
	return nil
}

// Selection はタイル番号の集合です。ゼロ値は空の選択として使えます。
type Selection struct {
	tiles map[int]struct{}
}

// NewSelection は範囲外の値を無視して集合を作ります。
func NewSelection(tiles ...int) Selection {
	s := Selection{tiles: make(map[int]struct{}, len(tiles))}
	for _, t := range tiles {
		if t >= 0 && t < TileCount {
			s.tiles[t] = struct{}{}
		}
	}
	return s
}

// Toggle は選択を反転し、反転後に選択されていれば true を返します。
func (s *Selection) Toggle(i int) (bool, error) {
	if i < 0 || i >= TileCount {
		return false, fmt.Errorf("%w: %d", ErrTileOutOfRange, i)
	}
	if s.tiles == nil {
		s.tiles = make(map[int]struct{})
	}
	if _, ok := s.tiles[i]; ok {
		delete(s.tiles, i)
		return false, nil
	}
	s.tiles[i] = struct{}{}
	return true, nil
}

func (s Selection) Contains(i int) bool {
	_, ok := s.tiles[i]
	return ok
}

func (s Selection) Len() int {
	return len(s.tiles)
}

// Tiles は昇順に並べたタイル番号を返します。
func (s Selection) Tiles() []int {
	out := make([]int, 0, len(s.tiles))
	for t := range s.tiles {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}

// Equal は要素が同じであれば順序に関係なく true を返します。
func (s Selection) Equal(other Selection) bool {
	if len(s.tiles) != len(other.tiles) {
		return false
	}
	for t := range s.tiles {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

// Matches は提出されたタイルと正解タイルを集合として比較します。
// 提出側の重複は集合化で吸収されますが、範囲外の値があれば不一致です。
func Matches(selected, correct []int) bool {
	for _, t := range selected {
		if t < 0 || t >= TileCount {
			return false
		}
	}
	return NewSelection(selected...).Equal(NewSelection(correct...))
}

// Tile は元画像のどの領域を表示するかを表します。
type Tile struct {
	Index   int
	Row     int
	Col     int
	OffsetX int // パーセント (CSS の object-position と同じ符号)
	OffsetY int
}

// Crop はタイル i の切り出し位置を返します。画像は常に全体を取得し、表示側で切り出します。
func Crop(i int) (Tile, error) {
	if i < 0 || i >= TileCount {
		return Tile{}, fmt.Errorf("%w: %d", ErrTileOutOfRange, i)
	}
	row, col := i/Size, i%Size
	return Tile{
		Index:   i,
		Row:     row,
		Col:     col,
		OffsetX: col * -100,
		OffsetY: row * -100,
	}, nil
}

// Render は CLI 用に選択状態を文字で描画します。
//
//	[0] [x] [2]
//	[3] [4] [5]
//	[x] [7] [8]
func Render(s Selection) string {
	var b strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			i := row*Size + col
			if col > 0 {
				b.WriteByte(' ')
			}
			if s.Contains(i) {
				b.WriteString("[x]")
			} else {
				fmt.Fprintf(&b, "[%d]", i)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
