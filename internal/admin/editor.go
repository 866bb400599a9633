// Package admin は管理画面の編集フローを状態機械として実装します。
// 曜日ごとに1件のパズルを作成・編集・削除できます。
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"tile_captcha/internal/client"
	"tile_captcha/internal/config"
	"tile_captcha/internal/model"
	"tile_captcha/internal/tilegrid"
)

type State int

const (
	StateIdle State = iota
	StateEditingNew
	StateEditingExisting
	StateUploadingImage
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditingNew:
		return "editing-new"
	case StateEditingExisting:
		return "editing-existing"
	case StateUploadingImage:
		return "uploading-image"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrNotEditing     = errors.New("no puzzle is being edited")
	ErrInvalidWeekday = errors.New("weekday must be between 0 and 6")
	ErrUnknownPuzzle  = errors.New("puzzle is not in the list")
	ErrIncomplete     = errors.New("please fill in all fields and select at least one correct tile")
	ErrFileTooLarge   = errors.New("file too large")
	ErrNoConfirm      = errors.New("delete requires a confirmation callback")
)

// Weekdays は 0=日曜 から始まる曜日名です。
var Weekdays = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// API は Editor が使うサーバー操作です。*client.Client が実装します。
type API interface {
	ListPuzzles(ctx context.Context) ([]model.PuzzleResponse, error)
	SavePuzzle(ctx context.Context, req *model.PostPuzzleRequest) (*model.PuzzleResponse, error)
	UpdatePuzzle(ctx context.Context, id int, req *model.PutPuzzleRequest) (*model.PuzzleResponse, error)
	DeletePuzzle(ctx context.Context, id int) error
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (*model.UploadResponse, error)
}

// Draft は編集中のフォームの内容です。ID が 0 なら新規作成です。
type Draft struct {
	ID                int
	Weekday           int
	ImageURL          string
	TargetDescription string
	CorrectTiles      []int
}

type Editor struct {
	api            API
	maxUploadBytes int64

	state     State
	editState State // アップロード完了後に戻る状態
	puzzles   []model.PuzzleResponse
	draft     Draft
	grid      *tilegrid.Grid
	notices   []Notice
}

func NewEditor(api API, maxUploadBytes int64) *Editor {
	if maxUploadBytes <= 0 {
		maxUploadBytes = config.DefaultMaxUploadBytes
	}
	return &Editor{api: api, maxUploadBytes: maxUploadBytes}
}

func (e *Editor) State() State {
	return e.state
}

// Puzzles は読み込み済みのパズル一覧 (曜日順) です。
func (e *Editor) Puzzles() []model.PuzzleResponse {
	out := make([]model.PuzzleResponse, len(e.puzzles))
	copy(out, e.puzzles)
	return out
}

func (e *Editor) Draft() Draft {
	d := e.draft
	d.CorrectTiles = append([]int(nil), e.draft.CorrectTiles...)
	return d
}

// Grid は編集中のタイルグリッドです。編集中でなければ nil です。
func (e *Editor) Grid() *tilegrid.Grid {
	return e.grid
}

// Notices は溜まった通知を返して空にします。
func (e *Editor) Notices() []Notice {
	out := e.notices
	e.notices = nil
	return out
}

func (e *Editor) notify(level Level, msg string) {
	e.notices = append(e.notices, Notice{Level: level, Message: msg})
}

func (e *Editor) editing() bool {
	return e.state == StateEditingNew || e.state == StateEditingExisting
}

// Load はパズル一覧を取得します。失敗した場合は一覧を空にして通知します。
func (e *Editor) Load(ctx context.Context) error {
	puzzles, err := e.api.ListPuzzles(ctx)
	if err != nil {
		e.puzzles = nil
		e.notify(LevelError, "Failed to load puzzles")
		return err
	}
	sort.SliceStable(puzzles, func(i, j int) bool { return puzzles[i].Weekday < puzzles[j].Weekday })
	e.puzzles = puzzles
	return nil
}

func (e *Editor) findByWeekday(weekday int) (model.PuzzleResponse, bool) {
	for _, p := range e.puzzles {
		if p.Weekday == weekday {
			return p, true
		}
	}
	return model.PuzzleResponse{}, false
}

func (e *Editor) findByID(id int) (model.PuzzleResponse, bool) {
	for _, p := range e.puzzles {
		if p.ID == id {
			return p, true
		}
	}
	return model.PuzzleResponse{}, false
}

// SelectWeekday は曜日を選びます。その曜日のパズルがあれば編集、なければ新規作成になります。
func (e *Editor) SelectWeekday(weekday int) error {
	if weekday < 0 || weekday > 6 {
		e.notify(LevelError, ErrInvalidWeekday.Error())
		return ErrInvalidWeekday
	}
	if p, ok := e.findByWeekday(weekday); ok {
		e.startEditing(StateEditingExisting, p)
		return nil
	}
	e.draft = Draft{Weekday: weekday}
	e.state = StateEditingNew
	e.resetGrid()
	return nil
}

// Edit は一覧にあるパズルをフォームに読み込みます。
func (e *Editor) Edit(id int) error {
	p, ok := e.findByID(id)
	if !ok {
		e.notify(LevelError, ErrUnknownPuzzle.Error())
		return ErrUnknownPuzzle
	}
	e.startEditing(StateEditingExisting, p)
	return nil
}

func (e *Editor) startEditing(state State, p model.PuzzleResponse) {
	e.draft = Draft{
		ID:                p.ID,
		Weekday:           p.Weekday,
		ImageURL:          p.ImageURL,
		TargetDescription: p.TargetDescription,
		CorrectTiles:      append([]int(nil), p.CorrectTiles...),
	}
	e.state = state
	e.resetGrid()
}

// resetGrid は管理モードのグリッドを作り直します。トグルのたびに下書きへ反映されます。
func (e *Editor) resetGrid() {
	e.grid = tilegrid.NewGrid(e.draft.ImageURL, e.draft.TargetDescription, tilegrid.ModeAdmin, e.draft.CorrectTiles,
		func(tiles []int) { e.draft.CorrectTiles = tiles })
}

func (e *Editor) SetDescription(desc string) error {
	if !e.editing() {
		return ErrNotEditing
	}
	e.draft.TargetDescription = desc
	e.grid.TargetDescription = desc
	return nil
}

func (e *Editor) SetImageURL(url string) error {
	if !e.editing() {
		return ErrNotEditing
	}
	e.draft.ImageURL = url
	e.grid.ImageURL = url
	return nil
}

func (e *Editor) ToggleTile(i int) error {
	if !e.editing() {
		return ErrNotEditing
	}
	if err := e.grid.Toggle(i); err != nil {
		e.notify(LevelError, err.Error())
		return err
	}
	return nil
}

// ChooseFile は画像をアップロードし、成功すれば下書きの画像URLを差し替えます。
// 失敗しても編集状態はそのまま残ります。
func (e *Editor) ChooseFile(ctx context.Context, filename string, size int64, contentType string, body io.Reader) error {
	if !e.editing() {
		return ErrNotEditing
	}
	if size > e.maxUploadBytes {
		e.notify(LevelError, fmt.Sprintf("File size must be less than %dMB", e.maxUploadBytes>>20))
		return ErrFileTooLarge
	}

	e.editState = e.state
	e.state = StateUploadingImage
	defer func() { e.state = e.editState }()

	resp, err := e.api.Upload(ctx, filename, contentType, body)
	if err != nil {
		e.notify(LevelError, "Upload failed: "+client.Message(err))
		return err
	}
	if resp.URL == "" {
		e.notify(LevelError, "Failed to get public URL")
		return errors.New("upload response has no url")
	}

	e.draft.ImageURL = resp.URL
	e.grid.ImageURL = resp.URL
	e.notify(LevelSuccess, "Image uploaded successfully")
	return nil
}

// Save は下書きを保存します。既存のパズル (または一覧に同じ曜日がある場合) は PUT、それ以外は POST です。
// 成功すると一覧を読み直して Idle に戻ります。
func (e *Editor) Save(ctx context.Context) error {
	if !e.editing() {
		return ErrNotEditing
	}
	d := e.draft
	if d.ImageURL == "" || d.TargetDescription == "" || len(d.CorrectTiles) == 0 {
		e.notify(LevelError, "Please fill in all fields and select at least one correct tile")
		return ErrIncomplete
	}

	targetID := d.ID
	if targetID == 0 {
		if p, ok := e.findByWeekday(d.Weekday); ok {
			targetID = p.ID
		}
	}

	var err error
	if targetID != 0 {
		_, err = e.api.UpdatePuzzle(ctx, targetID, &model.PutPuzzleRequest{
			ImageURL:          d.ImageURL,
			TargetDescription: d.TargetDescription,
			CorrectTiles:      append([]int(nil), d.CorrectTiles...),
		})
		if err == nil {
			e.notify(LevelSuccess, "Puzzle updated successfully")
		}
	} else {
		weekday := d.Weekday
		_, err = e.api.SavePuzzle(ctx, &model.PostPuzzleRequest{
			Weekday:           &weekday,
			ImageURL:          d.ImageURL,
			TargetDescription: d.TargetDescription,
			CorrectTiles:      append([]int(nil), d.CorrectTiles...),
		})
		if err == nil {
			e.notify(LevelSuccess, "Puzzle created successfully")
		}
	}
	if err != nil {
		e.notify(LevelError, "Error saving puzzle: "+client.Message(err))
		return err
	}

	// 一覧の再取得に失敗しても保存自体は成功している
	_ = e.Load(ctx)
	e.Cancel()
	return nil
}

// Cancel は下書きを破棄して Idle に戻ります。
func (e *Editor) Cancel() {
	e.state = StateIdle
	e.draft = Draft{}
	e.grid = nil
}

// Delete は confirm が true を返した場合だけ削除します。
// confirm は必須で、nil なら何もせず ErrNoConfirm を返します。確認を省くなら常に true を返す関数を渡します。
// 成功すると一覧からも取り除きます。
func (e *Editor) Delete(ctx context.Context, id int, confirm func(model.PuzzleResponse) bool) error {
	if confirm == nil {
		return ErrNoConfirm
	}
	p, ok := e.findByID(id)
	if !ok {
		e.notify(LevelError, ErrUnknownPuzzle.Error())
		return ErrUnknownPuzzle
	}
	if !confirm(p) {
		return nil
	}
	if err := e.api.DeletePuzzle(ctx, id); err != nil {
		e.notify(LevelError, "Error deleting puzzle")
		return err
	}

	kept := e.puzzles[:0]
	for _, q := range e.puzzles {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	e.puzzles = kept
	if e.draft.ID == id {
		e.Cancel()
	}
	e.notify(LevelSuccess, "Puzzle deleted successfully")
	return nil
}
