// Package client は tile_captcha API の HTTP クライアントです。
// 管理画面 (admin) とプレイヤー画面 (player) はこのクライアント経由でサーバーにアクセスします。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tile_captcha/internal/model"
)

// APIError はサーバーがエラーレスポンスを返したことを表します。
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// NetworkError はAPI呼び出しの失敗です。接続できなかった場合と、
// サーバーがエラーを返した場合 (Err が *APIError) の両方を含みます。
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNotFound はサーバーが 404 を返したかどうかを判定します。
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Message はユーザーに見せるためのメッセージを返します。
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken は管理者用の Bearer トークンを設定します。
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New はクライアントを作ります。baseURL は "http://localhost:8080" のようにスキームから指定します。
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListPuzzles(ctx context.Context) ([]model.PuzzleResponse, error) {
	var out []model.PuzzleResponse
	if err := c.do(ctx, "ListPuzzles", http.MethodGet, "/api/v1/puzzles", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPuzzle(ctx context.Context, id int) (*model.PuzzleResponse, error) {
	var out model.PuzzleResponse
	if err := c.do(ctx, "GetPuzzle", http.MethodGet, "/api/v1/puzzles/"+strconv.Itoa(id), nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPuzzleByWeekday(ctx context.Context, weekday int) (*model.PuzzleResponse, error) {
	var out model.PuzzleResponse
	path := "/api/v1/puzzles?weekday=" + url.QueryEscape(strconv.Itoa(weekday))
	if err := c.do(ctx, "GetPuzzleByWeekday", http.MethodGet, path, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SavePuzzle は POST で曜日単位の作成/上書きをします。
func (c *Client) SavePuzzle(ctx context.Context, req *model.PostPuzzleRequest) (*model.PuzzleResponse, error) {
	var out model.PuzzleResponse
	if err := c.doJSON(ctx, "SavePuzzle", http.MethodPost, "/api/v1/puzzles", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePuzzle(ctx context.Context, id int, req *model.PutPuzzleRequest) (*model.PuzzleResponse, error) {
	var out model.PuzzleResponse
	if err := c.doJSON(ctx, "UpdatePuzzle", http.MethodPut, "/api/v1/puzzles/"+strconv.Itoa(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePuzzle(ctx context.Context, id int) error {
	var out model.DeleteResponse
	return c.do(ctx, "DeletePuzzle", http.MethodDelete, "/api/v1/puzzles/"+strconv.Itoa(id), nil, "", &out)
}

// Upload は画像を multipart で送信します。
func (c *Client) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*model.UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, &NetworkError{Op: "Upload", Err: err}
	}
	if _, err := io.Copy(part, body); err != nil {
		return nil, &NetworkError{Op: "Upload", Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &NetworkError{Op: "Upload", Err: err}
	}

	var out model.UploadResponse
	if err := c.do(ctx, "Upload", http.MethodPost, "/api/v1/uploads", &buf, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Challenge はプレイヤー向けの今日のパズルを取得します (正解は含まれません)。
func (c *Client) Challenge(ctx context.Context, weekday *int) (*model.ChallengeResponse, error) {
	path := "/api/v1/challenge"
	if weekday != nil {
		path += "?weekday=" + strconv.Itoa(*weekday)
	}
	var out model.ChallengeResponse
	if err := c.do(ctx, "Challenge", http.MethodGet, path, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Verify(ctx context.Context, id int, selected []int) (bool, error) {
	var out model.VerifyResponse
	req := model.VerifyRequest{SelectedTiles: selected}
	if err := c.doJSON(ctx, "Verify", http.MethodPost, "/api/v1/challenge/"+strconv.Itoa(id)+"/verify", req, &out); err != nil {
		return false, err
	}
	return out.Success, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	return c.do(ctx, op, method, path, bytes.NewReader(b), "application/json", out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp model.APIErrorResponse
		if json.Unmarshal(data, &errResp) == nil {
			apiErr.Code = errResp.Error.Code
			apiErr.Message = errResp.Error.Message
			apiErr.Field = errResp.Error.Field
		}
		return &NetworkError{Op: op, Err: apiErr}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
