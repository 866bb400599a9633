// internal/handlers/puzzle_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tile_captcha/internal/handlers"
	"tile_captcha/internal/model"
	"tile_captcha/internal/service/mocks"
)

func newPuzzleRouter(svc *mocks.MockPuzzleService) *chi.Mux {
	h := handlers.NewPuzzleHandler(svc, testLogger)
	r := chi.NewRouter()
	r.Get("/api/v1/puzzles", h.GetPuzzles)
	r.Get("/api/v1/puzzles/{id}", h.GetPuzzle)
	r.Post("/api/v1/puzzles", h.PostPuzzle)
	r.Put("/api/v1/puzzles/{id}", h.PutPuzzle)
	r.Delete("/api/v1/puzzles/{id}", h.DeletePuzzle)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func testPuzzle() *model.Puzzle {
	return &model.Puzzle{
		ID:                1,
		CreatedAt:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Weekday:           3,
		ImageURL:          "https://example.com/cat.png",
		TargetDescription: "cats",
		CorrectTiles:      []int{0, 4, 8},
	}
}

func TestPuzzleHandler_GetPuzzles(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(svc *mocks.MockPuzzleService)
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name: "正常系: 一覧を camelCase で返す",
			path: "/api/v1/puzzles",
			setupMock: func(svc *mocks.MockPuzzleService) {
				svc.On("ListPuzzles", mock.Anything).Return([]*model.Puzzle{testPuzzle()}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var raw []map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &raw))
				require.Len(t, raw, 1)
				assert.Contains(t, raw[0], "imageUrl")
				assert.Contains(t, raw[0], "targetDescription")
				assert.Contains(t, raw[0], "correctTiles")
				assert.Contains(t, raw[0], "createdAt")
				assert.NotContains(t, raw[0], "image_url")
			},
		},
		{
			name: "正常系: 空なら空配列",
			path: "/api/v1/puzzles",
			setupMock: func(svc *mocks.MockPuzzleService) {
				svc.On("ListPuzzles", mock.Anything).Return([]*model.Puzzle{}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, "[]", string(body))
			},
		},
		{
			name: "正常系: 曜日で1件",
			path: "/api/v1/puzzles?weekday=3",
			setupMock: func(svc *mocks.MockPuzzleService) {
				svc.On("GetPuzzleByWeekday", mock.Anything, 3).Return(testPuzzle(), nil).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var resp model.PuzzleResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, 3, resp.Weekday)
				assert.Equal(t, []int{0, 4, 8}, resp.CorrectTiles)
			},
		},
		{
			name: "異常系: 曜日に該当なし",
			path: "/api/v1/puzzles?weekday=2",
			setupMock: func(svc *mocks.MockPuzzleService) {
				svc.On("GetPuzzleByWeekday", mock.Anything, 2).
					Return(nil, model.NewAppError("PUZZLE_NOT_FOUND", "Puzzle not found for this day", "", model.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			check: func(t *testing.T, body []byte) {
				verifyErrorResponse(t, body, "PUZZLE_NOT_FOUND", "Puzzle not found for this day")
			},
		},
		{
			name:           "異常系: 曜日が数値でない",
			path:           "/api/v1/puzzles?weekday=monday",
			setupMock:      func(svc *mocks.MockPuzzleService) {},
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, body []byte) {
				verifyErrorResponse(t, body, "INVALID_QUERY_PARAM", "weekday")
			},
		},
		{
			name: "異常系: サービスの内部エラー",
			path: "/api/v1/puzzles",
			setupMock: func(svc *mocks.MockPuzzleService) {
				svc.On("ListPuzzles", mock.Anything).Return(nil, model.ErrInternalServer).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body []byte) {
				verifyErrorResponse(t, body, "INTERNAL_SERVER_ERROR", "")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockPuzzleService(t)
			tc.setupMock(svc)

			rr := doJSON(t, newPuzzleRouter(svc), http.MethodGet, tc.path, nil)
			assert.Equal(t, tc.expectedStatus, rr.Code)
			tc.check(t, rr.Body.Bytes())
		})
	}
}

func TestPuzzleHandler_GetPuzzle(t *testing.T) {
	t.Run("正常系", func(t *testing.T) {
		svc := mocks.NewMockPuzzleService(t)
		svc.On("GetPuzzle", mock.Anything, 1).Return(testPuzzle(), nil).Once()
		rr := doJSON(t, newPuzzleRouter(svc), http.MethodGet, "/api/v1/puzzles/1", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("異常系: 数値でないID", func(t *testing.T) {
		svc := mocks.NewMockPuzzleService(t)
		rr := doJSON(t, newPuzzleRouter(svc), http.MethodGet, "/api/v1/puzzles/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		verifyErrorResponse(t, rr.Body.Bytes(), "INVALID_URL_PARAM", "")
	})

	t.Run("異常系: 存在しない", func(t *testing.T) {
		svc := mocks.NewMockPuzzleService(t)
		svc.On("GetPuzzle", mock.Anything, 9).
			Return(nil, model.NewAppError("PUZZLE_NOT_FOUND", "Puzzle not found", "", model.ErrNotFound)).Once()
		rr := doJSON(t, newPuzzleRouter(svc), http.MethodGet, "/api/v1/puzzles/9", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		verifyErrorResponse(t, rr.Body.Bytes(), "PUZZLE_NOT_FOUND", "Puzzle not found")
	})
}

func TestPuzzleHandler_PostPuzzle(t *testing.T) {
	validBody := map[string]interface{}{
		"weekday":           3,
		"imageUrl":          "https://example.com/cat.png",
		"targetDescription": "cats",
		"correctTiles":      []int{0, 4, 8},
	}
	without := func(key string) map[string]interface{} {
		m := map[string]interface{}{}
		for k, v := range validBody {
			if k != key {
				m[k] = v
			}
		}
		return m
	}
	with := func(key string, value interface{}) map[string]interface{} {
		m := without(key)
		m[key] = value
		return m
	}

	tests := []struct {
		name           string
		body           interface{}
		setupMock      func(svc *mocks.MockPuzzleService)
		expectedStatus int
		expectedField  string
	}{
		{
			name: "正常系: 保存した行を返す",
			body: validBody,
			setupMock: func(svc *mocks.MockPuzzleService) {
				svc.On("UpsertPuzzle", mock.Anything, mock.MatchedBy(func(req *model.PostPuzzleRequest) bool {
					return req.Weekday != nil && *req.Weekday == 3 && len(req.CorrectTiles) == 3
				})).Return(testPuzzle(), nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "正常系: 曜日0 (日曜) は有効",
			body: with("weekday", 0),
			setupMock: func(svc *mocks.MockPuzzleService) {
				p := testPuzzle()
				p.Weekday = 0
				svc.On("UpsertPuzzle", mock.Anything, mock.AnythingOfType("*model.PostPuzzleRequest")).Return(p, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{name: "異常系: 曜日なし", body: without("weekday"), setupMock: func(*mocks.MockPuzzleService) {}, expectedStatus: http.StatusBadRequest, expectedField: "weekday"},
		{name: "異常系: 曜日が範囲外", body: with("weekday", 7), setupMock: func(*mocks.MockPuzzleService) {}, expectedStatus: http.StatusBadRequest, expectedField: "weekday"},
		{name: "異常系: 画像URLなし", body: without("imageUrl"), setupMock: func(*mocks.MockPuzzleService) {}, expectedStatus: http.StatusBadRequest, expectedField: "imageUrl"},
		{name: "異常系: 画像URLが相対パス", body: with("imageUrl", "cat.png"), setupMock: func(*mocks.MockPuzzleService) {}, expectedStatus: http.StatusBadRequest, expectedField: "imageUrl"},
		{name: "異常系: 説明なし", body: without("targetDescription"), setupMock: func(*mocks.MockPuzzleService) {}, expectedStatus: http.StatusBadRequest, expectedField: "targetDescription"},
		{name: "異常系: 正解タイルなし", body: without("correctTiles"), setupMock: func(*mocks.MockPuzzleService) {}, expectedStatus: http.StatusBadRequest, expectedField: "correctTiles"},
		{name: "異常系: 正解タイルが空", body: with("correctTiles", []int{}), setupMock: func(*mocks.MockPuzzleService) {}, expectedStatus: http.StatusBadRequest, expectedField: "correctTiles"},
		{name: "異常系: 正解タイルが重複", body: with("correctTiles", []int{1, 1}), setupMock: func(*mocks.MockPuzzleService) {}, expectedStatus: http.StatusBadRequest, expectedField: "correctTiles"},
		{name: "異常系: 正解タイルが範囲外", body: with("correctTiles", []int{0, 9}), setupMock: func(*mocks.MockPuzzleService) {}, expectedStatus: http.StatusBadRequest, expectedField: "correctTiles[1]"},
		{name: "異常系: JSONでない", body: "{not json", setupMock: func(*mocks.MockPuzzleService) {}, expectedStatus: http.StatusBadRequest},
		{name: "異常系: 未知のフィールド", body: with("image_url", "https://example.com/a.png"), setupMock: func(*mocks.MockPuzzleService) {}, expectedStatus: http.StatusBadRequest},
		{
			name: "異常系: サービスの内部エラー",
			body: validBody,
			setupMock: func(svc *mocks.MockPuzzleService) {
				svc.On("UpsertPuzzle", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewMockPuzzleService(t)
			tc.setupMock(svc)

			rr := doJSON(t, newPuzzleRouter(svc), http.MethodPost, "/api/v1/puzzles", tc.body)
			assert.Equal(t, tc.expectedStatus, rr.Code, rr.Body.String())

			if tc.expectedField != "" {
				var errResp model.APIErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errResp))
				assert.Equal(t, "VALIDATION_ERROR", errResp.Error.Code)
				assert.Equal(t, tc.expectedField, errResp.Error.Field)
				assert.NotEmpty(t, errResp.Error.Message)
			}
		})
	}
}

func TestPuzzleHandler_PutPuzzle(t *testing.T) {
	body := map[string]interface{}{
		"weekday":           6,
		"imageUrl":          "https://example.com/dog.png",
		"targetDescription": "dogs",
		"correctTiles":      []int{2, 3},
	}

	t.Run("正常系: weekday キーは受け付けて無視", func(t *testing.T) {
		svc := mocks.NewMockPuzzleService(t)
		updated := testPuzzle()
		updated.CorrectTiles = []int{2, 3}
		svc.On("UpdatePuzzle", mock.Anything, 1, mock.AnythingOfType("*model.PutPuzzleRequest")).Return(updated, nil).Once()

		rr := doJSON(t, newPuzzleRouter(svc), http.MethodPut, "/api/v1/puzzles/1", body)
		assert.Equal(t, http.StatusOK, rr.Code)
		var resp model.PuzzleResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 3, resp.Weekday)
		assert.Equal(t, []int{2, 3}, resp.CorrectTiles)
	})

	t.Run("異常系: 存在しないID", func(t *testing.T) {
		svc := mocks.NewMockPuzzleService(t)
		svc.On("UpdatePuzzle", mock.Anything, 9, mock.Anything).
			Return(nil, model.NewAppError("PUZZLE_NOT_FOUND", "Puzzle not found", "", model.ErrNotFound)).Once()
		rr := doJSON(t, newPuzzleRouter(svc), http.MethodPut, "/api/v1/puzzles/9", body)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("異常系: 正解タイルが空", func(t *testing.T) {
		svc := mocks.NewMockPuzzleService(t)
		bad := map[string]interface{}{
			"imageUrl":          "https://example.com/dog.png",
			"targetDescription": "dogs",
			"correctTiles":      []int{},
		}
		rr := doJSON(t, newPuzzleRouter(svc), http.MethodPut, "/api/v1/puzzles/1", bad)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestPuzzleHandler_DeletePuzzle(t *testing.T) {
	t.Run("正常系", func(t *testing.T) {
		svc := mocks.NewMockPuzzleService(t)
		svc.On("DeletePuzzle", mock.Anything, 1).Return(nil).Once()
		rr := doJSON(t, newPuzzleRouter(svc), http.MethodDelete, "/api/v1/puzzles/1", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"success":true}`, rr.Body.String())
	})

	t.Run("異常系: 存在しないIDは 404", func(t *testing.T) {
		svc := mocks.NewMockPuzzleService(t)
		svc.On("DeletePuzzle", mock.Anything, 42).
			Return(model.NewAppError("PUZZLE_NOT_FOUND", "Puzzle not found", "", model.ErrNotFound)).Once()
		rr := doJSON(t, newPuzzleRouter(svc), http.MethodDelete, "/api/v1/puzzles/42", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		verifyErrorResponse(t, rr.Body.Bytes(), "PUZZLE_NOT_FOUND", "Puzzle not found")
	})
}
