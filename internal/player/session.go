// Package player はプレイヤー画面の流れ (今日のパズルを取得して回答する) を実装します。
package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tile_captcha/internal/admin"
	"tile_captcha/internal/client"
	"tile_captcha/internal/model"
	"tile_captcha/internal/tilegrid"
)

type State int

const (
	StateLoading State = iota
	StateReady
	StateNoPuzzle
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateNoPuzzle:
		return "no-puzzle"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	NoPuzzleMessage  = "No Puzzle Available"
	IncorrectMessage = "Incorrect selection. Please try again."
	SuccessMessage   = "Success! You've completed the CAPTCHA."
	OverlayDuration  = 5 * time.Second
)

var ErrNotReady = errors.New("no puzzle is loaded")

// API はセッションが使うサーバー操作です。*client.Client が実装します。
type API interface {
	GetPuzzleByWeekday(ctx context.Context, weekday int) (*model.PuzzleResponse, error)
	ListPuzzles(ctx context.Context) ([]model.PuzzleResponse, error)
}

// Overlay は正解時に表示する成功メッセージです。
type Overlay struct {
	Message  string
	OpenedAt time.Time
}

type Session struct {
	api API
	now func() time.Time

	state    State
	puzzle   *model.PuzzleResponse
	fallback bool
	grid     *tilegrid.Grid
	attempts int
	overlay  *Overlay
	notices  []admin.Notice
}

// NewSession はセッションを作ります。now が nil の場合は time.Now を使います。
func NewSession(api API, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{api: api, now: now, state: StateLoading}
}

func (s *Session) State() State {
	return s.state
}

// Puzzle は表示中のパズルです。StateReady でなければ nil です。
func (s *Session) Puzzle() *model.PuzzleResponse {
	return s.puzzle
}

// IsFallback は今日の曜日のパズルがなく、一覧の先頭を代わりに出していることを示します。
func (s *Session) IsFallback() bool {
	return s.fallback
}

func (s *Session) Grid() *tilegrid.Grid {
	return s.grid
}

func (s *Session) Attempts() int {
	return s.attempts
}

// Notices は溜まった通知を返して空にします。
func (s *Session) Notices() []admin.Notice {
	out := s.notices
	s.notices = nil
	return out
}

// Message は画面に出す見出しです。
func (s *Session) Message() string {
	switch s.state {
	case StateLoading:
		return "Loading..."
	case StateNoPuzzle:
		return NoPuzzleMessage
	default:
		return s.grid.Prompt() + " " + s.puzzle.TargetDescription
	}
}

// Load は今日の曜日のパズルを取得します。見つからなければ一覧の先頭を使い、
// それもなければ StateNoPuzzle で終わります。
func (s *Session) Load(ctx context.Context) error {
	s.state = StateLoading
	weekday := int(s.now().Weekday())

	p, err := s.api.GetPuzzleByWeekday(ctx, weekday)
	fallback := false
	if err != nil {
		if !client.IsNotFound(err) {
			return s.noPuzzle(err)
		}
		list, listErr := s.api.ListPuzzles(ctx)
		if listErr != nil {
			return s.noPuzzle(listErr)
		}
		if len(list) == 0 {
			s.state = StateNoPuzzle
			return nil
		}
		p = &list[0]
		fallback = true
	}

	s.puzzle = p
	s.fallback = fallback
	s.grid = tilegrid.NewGrid(p.ImageURL, p.TargetDescription, tilegrid.ModePlayer, nil, nil)
	s.attempts = 0
	s.overlay = nil
	s.state = StateReady
	return nil
}

func (s *Session) noPuzzle(err error) error {
	s.puzzle = nil
	s.grid = nil
	s.state = StateNoPuzzle
	s.notices = append(s.notices, admin.Notice{Level: admin.LevelError, Message: client.Message(err)})
	return err
}

// Toggle はタイルの選択を反転します。サーバーには何も送りません。
func (s *Session) Toggle(i int) error {
	if s.state != StateReady {
		return ErrNotReady
	}
	return s.grid.Toggle(i)
}

// Verify は現在の選択を正解と比較します。回数制限はありません。
func (s *Session) Verify() (bool, error) {
	if s.state != StateReady {
		return false, ErrNotReady
	}
	s.attempts++
	selected := s.grid.Submit()
	if !tilegrid.Matches(selected, s.puzzle.CorrectTiles) {
		s.notices = append(s.notices, admin.Notice{Level: admin.LevelError, Message: IncorrectMessage})
		return false, nil
	}
	s.overlay = &Overlay{Message: SuccessMessage, OpenedAt: s.now()}
	return true, nil
}

// Overlay は表示中の成功オーバーレイを返します。開いてから OverlayDuration 経つと閉じます。
func (s *Session) Overlay() *Overlay {
	if s.overlay == nil {
		return nil
	}
	if s.now().Sub(s.overlay.OpenedAt) >= OverlayDuration {
		s.overlay = nil
		return nil
	}
	o := *s.overlay
	return &o
}

func (s *Session) DismissOverlay() {
	s.overlay = nil
}
