package admin

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"tile_captcha/internal/client"
	"tile_captcha/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI はメモリ上でサーバーの振る舞いを真似します。
type fakeAPI struct {
	puzzles   []model.PuzzleResponse
	nextID    int
	listErr   error
	saveErr   error
	deleteErr error
	uploadErr error

	posts   []*model.PostPuzzleRequest
	puts    map[int]*model.PutPuzzleRequest
	uploads []string
}

func newFakeAPI(puzzles ...model.PuzzleResponse) *fakeAPI {
	return &fakeAPI{puzzles: puzzles, nextID: 100, puts: map[int]*model.PutPuzzleRequest{}}
}

func (f *fakeAPI) ListPuzzles(ctx context.Context) ([]model.PuzzleResponse, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.PuzzleResponse(nil), f.puzzles...), nil
}

func (f *fakeAPI) SavePuzzle(ctx context.Context, req *model.PostPuzzleRequest) (*model.PuzzleResponse, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.posts = append(f.posts, req)
	f.nextID++
	p := model.PuzzleResponse{ID: f.nextID, Weekday: *req.Weekday, ImageURL: req.ImageURL, TargetDescription: req.TargetDescription, CorrectTiles: req.CorrectTiles}
	f.puzzles = append(f.puzzles, p)
	return &p, nil
}

func (f *fakeAPI) UpdatePuzzle(ctx context.Context, id int, req *model.PutPuzzleRequest) (*model.PuzzleResponse, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.puts[id] = req
	for i := range f.puzzles {
		if f.puzzles[i].ID == id {
			f.puzzles[i].ImageURL = req.ImageURL
			f.puzzles[i].TargetDescription = req.TargetDescription
			f.puzzles[i].CorrectTiles = req.CorrectTiles
			p := f.puzzles[i]
			return &p, nil
		}
	}
	return nil, &client.NetworkError{Op: "UpdatePuzzle", Err: &client.APIError{StatusCode: 404, Message: "Puzzle not found"}}
}

func (f *fakeAPI) DeletePuzzle(ctx context.Context, id int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.puzzles {
		if f.puzzles[i].ID == id {
			f.puzzles = append(f.puzzles[:i], f.puzzles[i+1:]...)
			return nil
		}
	}
	return &client.NetworkError{Op: "DeletePuzzle", Err: &client.APIError{StatusCode: 404}}
}

func (f *fakeAPI) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*model.UploadResponse, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads = append(f.uploads, filename)
	return &model.UploadResponse{Path: "uploads/abc.png", URL: "https://cdn.example.com/uploads/abc.png"}, nil
}

func existing() model.PuzzleResponse {
	return model.PuzzleResponse{ID: 1, Weekday: 2, ImageURL: "https://example.com/a.png", TargetDescription: "cats", CorrectTiles: []int{0, 1}}
}

func TestEditor_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 曜日順に並べる", func(t *testing.T) {
		api := newFakeAPI(model.PuzzleResponse{ID: 2, Weekday: 5}, model.PuzzleResponse{ID: 3, Weekday: 1})
		e := NewEditor(api, 0)
		require.NoError(t, e.Load(ctx))
		list := e.Puzzles()
		require.Len(t, list, 2)
		assert.Equal(t, 1, list[0].Weekday)
		assert.Equal(t, StateIdle, e.State())
	})

	t.Run("異常系: 失敗したら空の一覧と通知", func(t *testing.T) {
		api := newFakeAPI(existing())
		api.listErr = errors.New("connection refused")
		e := NewEditor(api, 0)
		assert.Error(t, e.Load(ctx))
		assert.Empty(t, e.Puzzles())
		assert.Equal(t, []Notice{{Level: LevelError, Message: "Failed to load puzzles"}}, e.Notices())
		assert.Empty(t, e.Notices(), "通知は取り出すと消える")
	})
}

func TestEditor_SelectWeekday(t *testing.T) {
	ctx := context.Background()
	e := NewEditor(newFakeAPI(existing()), 0)
	require.NoError(t, e.Load(ctx))

	require.NoError(t, e.SelectWeekday(4))
	assert.Equal(t, StateEditingNew, e.State())
	assert.Equal(t, Draft{Weekday: 4}, e.Draft())

	require.NoError(t, e.SelectWeekday(2))
	assert.Equal(t, StateEditingExisting, e.State())
	d := e.Draft()
	assert.Equal(t, 1, d.ID)
	assert.Equal(t, "cats", d.TargetDescription)
	assert.Equal(t, []int{0, 1}, d.CorrectTiles)
	assert.True(t, e.Grid().Selection().Contains(1))

	assert.ErrorIs(t, e.SelectWeekday(7), ErrInvalidWeekday)
}

func TestEditor_CreateNew(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	e := NewEditor(api, 0)
	require.NoError(t, e.Load(ctx))

	require.NoError(t, e.SelectWeekday(3))
	require.NoError(t, e.SetImageURL("https://example.com/b.png"))
	require.NoError(t, e.SetDescription("traffic lights"))

	// 管理モードはトグルのたびに下書きへ反映
	require.NoError(t, e.ToggleTile(8))
	require.NoError(t, e.ToggleTile(0))
	require.NoError(t, e.ToggleTile(4))
	assert.Equal(t, []int{0, 4, 8}, e.Draft().CorrectTiles)

	require.NoError(t, e.Save(ctx))
	require.Len(t, api.posts, 1)
	assert.Equal(t, 3, *api.posts[0].Weekday)
	assert.Equal(t, []int{0, 4, 8}, api.posts[0].CorrectTiles)

	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, Draft{}, e.Draft())
	assert.Len(t, e.Puzzles(), 1, "保存後に一覧を読み直す")
	assert.Contains(t, e.Notices(), Notice{Level: LevelSuccess, Message: "Puzzle created successfully"})
}

func TestEditor_EditExisting(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI(existing())
	e := NewEditor(api, 0)
	require.NoError(t, e.Load(ctx))

	require.NoError(t, e.Edit(1))
	assert.Equal(t, StateEditingExisting, e.State())

	// [0,1] → [2,3]
	for _, i := range []int{0, 1, 2, 3} {
		require.NoError(t, e.ToggleTile(i))
	}
	assert.Equal(t, []int{2, 3}, e.Draft().CorrectTiles)

	require.NoError(t, e.Save(ctx))
	require.Contains(t, api.puts, 1)
	assert.Equal(t, []int{2, 3}, api.puts[1].CorrectTiles)
	assert.Empty(t, api.posts)
	assert.Equal(t, []int{2, 3}, e.Puzzles()[0].CorrectTiles)
}

func TestEditor_SaveNewOnTakenWeekdayUsesPut(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	e := NewEditor(api, 0)
	require.NoError(t, e.Load(ctx))
	require.NoError(t, e.SelectWeekday(2))

	// 選択後に別の管理者が同じ曜日を作成した
	api.puzzles = append(api.puzzles, existing())
	require.NoError(t, e.Load(ctx))

	require.NoError(t, e.SetImageURL("https://example.com/c.png"))
	require.NoError(t, e.SetDescription("boats"))
	require.NoError(t, e.ToggleTile(5))
	require.NoError(t, e.Save(ctx))

	assert.Empty(t, api.posts)
	assert.Contains(t, api.puts, 1)
}

func TestEditor_SaveValidation(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	e := NewEditor(api, 0)
	require.NoError(t, e.SelectWeekday(0))
	require.NoError(t, e.SetImageURL("https://example.com/a.png"))
	require.NoError(t, e.SetDescription("cats"))

	assert.ErrorIs(t, e.Save(ctx), ErrIncomplete)
	assert.Equal(t, StateEditingNew, e.State())
	assert.Empty(t, api.posts)
	assert.Equal(t, []Notice{{Level: LevelError, Message: "Please fill in all fields and select at least one correct tile"}}, e.Notices())
}

func TestEditor_SaveFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.saveErr = &client.NetworkError{Op: "SavePuzzle", Err: &client.APIError{StatusCode: 500, Message: "An internal server error occurred."}}
	e := NewEditor(api, 0)
	require.NoError(t, e.SelectWeekday(0))
	require.NoError(t, e.SetImageURL("https://example.com/a.png"))
	require.NoError(t, e.SetDescription("cats"))
	require.NoError(t, e.ToggleTile(1))

	assert.Error(t, e.Save(ctx))
	assert.Equal(t, StateEditingNew, e.State())
	assert.Equal(t, "cats", e.Draft().TargetDescription)
	notices := e.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, LevelError, notices[0].Level)
	assert.Contains(t, notices[0].Message, "An internal server error occurred.")
}

func TestEditor_ChooseFile(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: URL を差し替えて編集状態に戻る", func(t *testing.T) {
		api := newFakeAPI(existing())
		e := NewEditor(api, 10<<20)
		require.NoError(t, e.Load(ctx))
		require.NoError(t, e.Edit(1))

		require.NoError(t, e.ChooseFile(ctx, "cat.png", 3, "image/png", strings.NewReader("png")))
		assert.Equal(t, StateEditingExisting, e.State())
		assert.Equal(t, "https://cdn.example.com/uploads/abc.png", e.Draft().ImageURL)
		assert.Equal(t, "https://cdn.example.com/uploads/abc.png", e.Grid().ImageURL)
		assert.Equal(t, []Notice{{Level: LevelSuccess, Message: "Image uploaded successfully"}}, e.Notices())
	})

	t.Run("異常系: 10MB を超えるファイルは送信しない", func(t *testing.T) {
		api := newFakeAPI()
		e := NewEditor(api, 10<<20)
		require.NoError(t, e.SelectWeekday(1))

		err := e.ChooseFile(ctx, "big.png", 10<<20+1, "image/png", strings.NewReader(""))
		assert.ErrorIs(t, err, ErrFileTooLarge)
		assert.Empty(t, api.uploads)
		assert.Equal(t, StateEditingNew, e.State())
		assert.Equal(t, []Notice{{Level: LevelError, Message: "File size must be less than 10MB"}}, e.Notices())
	})

	t.Run("異常系: アップロード失敗でも状態は戻る", func(t *testing.T) {
		api := newFakeAPI()
		api.uploadErr = errors.New("dial tcp: connection refused")
		e := NewEditor(api, 0)
		require.NoError(t, e.SelectWeekday(1))

		assert.Error(t, e.ChooseFile(ctx, "cat.png", 3, "image/png", strings.NewReader("png")))
		assert.Equal(t, StateEditingNew, e.State())
		assert.Empty(t, e.Draft().ImageURL)
		notices := e.Notices()
		require.Len(t, notices, 1)
		assert.Contains(t, notices[0].Message, "Upload failed")
	})

	t.Run("異常系: 編集中でなければ使えない", func(t *testing.T) {
		e := NewEditor(newFakeAPI(), 0)
		assert.ErrorIs(t, e.ChooseFile(ctx, "cat.png", 3, "image/png", strings.NewReader("png")), ErrNotEditing)
	})
}

func TestEditor_Cancel(t *testing.T) {
	e := NewEditor(newFakeAPI(), 0)
	require.NoError(t, e.SelectWeekday(1))
	require.NoError(t, e.SetDescription("cats"))
	e.Cancel()
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, Draft{}, e.Draft())
	assert.ErrorIs(t, e.SetDescription("dogs"), ErrNotEditing)
	assert.ErrorIs(t, e.ToggleTile(1), ErrNotEditing)
}

func TestEditor_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 確認後に削除して一覧から消す", func(t *testing.T) {
		api := newFakeAPI(existing(), model.PuzzleResponse{ID: 2, Weekday: 4})
		e := NewEditor(api, 0)
		require.NoError(t, e.Load(ctx))

		var asked model.PuzzleResponse
		require.NoError(t, e.Delete(ctx, 1, func(p model.PuzzleResponse) bool { asked = p; return true }))
		assert.Equal(t, 1, asked.ID)
		require.Len(t, e.Puzzles(), 1)
		assert.Equal(t, 2, e.Puzzles()[0].ID)
		assert.Equal(t, []Notice{{Level: LevelSuccess, Message: "Puzzle deleted successfully"}}, e.Notices())
	})

	t.Run("正常系: 確認で拒否したら何もしない", func(t *testing.T) {
		api := newFakeAPI(existing())
		e := NewEditor(api, 0)
		require.NoError(t, e.Load(ctx))
		require.NoError(t, e.Delete(ctx, 1, func(model.PuzzleResponse) bool { return false }))
		assert.Len(t, e.Puzzles(), 1)
		assert.Len(t, api.puzzles, 1)
	})

	t.Run("異常系: サーバーエラーは通知", func(t *testing.T) {
		api := newFakeAPI(existing())
		api.deleteErr = errors.New("timeout")
		e := NewEditor(api, 0)
		require.NoError(t, e.Load(ctx))
		assert.Error(t, e.Delete(ctx, 1, func(model.PuzzleResponse) bool { return true }))
		assert.Len(t, e.Puzzles(), 1)
		assert.Equal(t, []Notice{{Level: LevelError, Message: "Error deleting puzzle"}}, e.Notices())
	})

	t.Run("異常系: 確認関数がなければ削除しない", func(t *testing.T) {
		api := newFakeAPI(existing())
		e := NewEditor(api, 0)
		require.NoError(t, e.Load(ctx))
		assert.ErrorIs(t, e.Delete(ctx, 1, nil), ErrNoConfirm)
		assert.Len(t, e.Puzzles(), 1)
		assert.Len(t, api.puzzles, 1)
		assert.Empty(t, e.Notices())
	})
}
