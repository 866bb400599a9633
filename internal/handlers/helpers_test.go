// helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tile_captcha/internal/config"
	"tile_captcha/internal/handlers"
	"tile_captcha/internal/model"
	"tile_captcha/internal/repository"
	"tile_captcha/internal/service"
	"tile_captcha/internal/storage"
)

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// sendRequest はHTTPリクエストを送信し、ステータスコードを検証してボディを返します。
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails, expectedCode int) []byte {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")
	if reqBodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")
	assert.Equal(t, expectedCode, resp.StatusCode, "Status code mismatch: %s", string(respBodyBytes))

	return respBodyBytes
}

// verifyErrorResponse はエラーレスポンスのコードとメッセージを検証します。
func verifyErrorResponse(t *testing.T, bodyBytes []byte, expectedCode, expectedMsgPart string) {
	t.Helper()
	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(bodyBytes, &errResp), "raw body: %s", string(bodyBytes))
	if expectedCode != "" {
		assert.Equal(t, expectedCode, errResp.Error.Code)
	}
	if expectedMsgPart != "" {
		assert.Contains(t, errResp.Error.Message, expectedMsgPart)
	}
}

// clearTable は指定されたモデルのテーブルデータをクリアします。
func clearTable(t *testing.T, db *gorm.DB, modelInstance interface{}) {
	t.Helper()
	err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(modelInstance).Error
	require.NoError(t, err, "Failed to clear table for model %T", modelInstance)
}

// newTestServer は本番と同じルーターを sqlite と一時ディレクトリのストレージで組み立てます。
func newTestServer(t *testing.T, mutate func(cfg *config.Config)) *httptest.Server {
	t.Helper()
	clearTable(t, testDB, &model.Puzzle{})

	cfg := config.Default()
	cfg.Storage.Local.Dir = t.TempDir()
	if mutate != nil {
		mutate(&cfg)
	}

	store, err := storage.NewLocalStore(cfg.Storage.Local.Dir, "http://media.test/media/")
	require.NoError(t, err)

	repo := repository.NewGormPuzzleRepository()
	// 2024-01-03 (水曜) に固定
	now := func() time.Time { return time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC) }

	rt := &handlers.Router{
		Config:    &cfg,
		DB:        testDB,
		Logger:    testLogger,
		Puzzle:    handlers.NewPuzzleHandler(service.NewPuzzleService(testDB, repo), testLogger),
		Upload:    handlers.NewUploadHandler(service.NewUploadService(store, cfg.Storage.MaxUploadBytes), cfg.Storage.MaxUploadBytes, testLogger),
		Challenge: handlers.NewChallengeHandler(service.NewChallengeService(testDB, repo, time.UTC, now), testLogger),
		MediaDir:  cfg.Storage.Local.Dir,
	}
	server := httptest.NewServer(rt.Handler())
	t.Cleanup(server.Close)
	return server
}

func intPtr(i int) *int {
	return &i
}
