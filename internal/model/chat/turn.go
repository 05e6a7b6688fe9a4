package chat

import (
	"time"

	"github.com/soumya28022005/face-ditection-ai/internal/model/emotion"
)

// Turn persists one analyzed exchange: the user's words, the generated
// reply, and the flattened comparison that produced it. Past turns are
// never mutated.
type Turn struct {
	ID         string             `json:"id"`
	SessionID  string             `json:"sessionId"`
	UserText   string             `json:"userText"`
	AIResponse string             `json:"aiResponse"`
	Text       emotion.Reading    `json:"textEmotion"`
	Face       *emotion.Reading   `json:"faceEmotion,omitempty"`
	Analysis   emotion.Comparison `json:"analysis"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// DailySummary 按日聚合的粗粒度情绪计数，anxious 并入 sad 列。
type DailySummary struct {
	Day     string `json:"day"` // YYYY-MM-DD (UTC)
	Happy   int    `json:"happy"`
	Sad     int    `json:"sad"`
	Angry   int    `json:"angry"`
	Neutral int    `json:"neutral"`
}
