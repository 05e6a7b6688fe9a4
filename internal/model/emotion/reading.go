package emotion

import (
	"strings"
	"time"
)

// Label 表示系统支持的情绪标签。
type Label string

const (
	Happy   Label = "happy"
	Sad     Label = "sad"
	Angry   Label = "angry"
	Anxious Label = "anxious"
	Neutral Label = "neutral"
)

// Canonical lists every label the pipeline understands, in the order the
// text analyzer scans them when breaking ties.
var Canonical = []Label{Happy, Sad, Angry, Anxious, Neutral}

// ParseLabel normalizes a raw classifier label. Unknown labels are rejected
// so malformed readings never reach the comparison core.
func ParseLabel(raw string) (Label, bool) {
	switch Label(strings.ToLower(strings.TrimSpace(raw))) {
	case Happy:
		return Happy, true
	case Sad:
		return Sad, true
	case Angry:
		return Angry, true
	case Anxious:
		return Anxious, true
	case Neutral:
		return Neutral, true
	default:
		return "", false
	}
}

// IsCanonical reports whether the label is one of the five known labels.
func (l Label) IsCanonical() bool {
	_, ok := ParseLabel(string(l))
	return ok
}

// Reading 一次情绪观测结果，来源可以是文本分析或外部表情分类器。
// 创建后不可修改。
type Reading struct {
	Emotion    Label     `json:"emotion"`
	Confidence int       `json:"confidence"` // 0..100
	Dismissive bool      `json:"isDismissive,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitempty"`
}

// Comparison is the derived judgment over a face reading and a text reading.
// It is computed per message exchange and consumed immediately; it is never
// stored as its own row.
type Comparison struct {
	Match              bool     `json:"match"`
	Mismatch           bool     `json:"mismatch"`
	ConcerningMismatch bool     `json:"concerningMismatch"`
	HidingFeelings     bool     `json:"hidingFeelings"`
	PrimaryEmotion     Label    `json:"primaryEmotion"`
	Confidence         int      `json:"confidence"`
	Severity           int      `json:"severity"` // 0..10
	FaceEmotion        *Reading `json:"faceEmotion,omitempty"`
	TextEmotion        *Reading `json:"textEmotion,omitempty"`
}
