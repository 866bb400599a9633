// internal/model/challenge.go
package model

// ChallengeResponse はプレイヤーに見せるパズル情報です。正解タイルは含めません。
type ChallengeResponse struct {
	ID                int    `json:"id"`
	Weekday           int    `json:"weekday"`
	ImageURL          string `json:"imageUrl"`
	TargetDescription string `json:"targetDescription"`
	// IsFallback は今日の曜日のパズルがなく、別の曜日のパズルを返したことを示します。
	IsFallback bool `json:"isFallback"`
}

func NewChallengeResponse(p *Puzzle, fallback bool) *ChallengeResponse {
	return &ChallengeResponse{
		ID:                p.ID,
		Weekday:           p.Weekday,
		ImageURL:          p.ImageURL,
		TargetDescription: p.TargetDescription,
		IsFallback:        fallback,
	}
}

// VerifyRequest は回答送信リクエストのDTO
type VerifyRequest struct {
	SelectedTiles []int `json:"selectedTiles" validate:"required"`
}

type VerifyResponse struct {
	Success bool `json:"success"`
}
