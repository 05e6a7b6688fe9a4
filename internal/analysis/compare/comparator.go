package compare

import (
	"github.com/soumya28022005/face-ditection-ai/internal/model/emotion"
)

// pair keys the severity and concern tables by (face, text) emotion.
type pair struct {
	Face emotion.Label
	Text emotion.Label
}

// 各种表情/文本组合的基础严重度，未列出的错配组合使用 defaultSeverity。
var severityTable = map[pair]int{
	{emotion.Sad, emotion.Happy}:     9,
	{emotion.Angry, emotion.Happy}:   9,
	{emotion.Sad, emotion.Neutral}:   7,
	{emotion.Angry, emotion.Neutral}: 7,
	{emotion.Sad, emotion.Angry}:     5,
	{emotion.Angry, emotion.Sad}:     5,
	{emotion.Happy, emotion.Sad}:     6,
	{emotion.Happy, emotion.Angry}:   6,
	{emotion.Neutral, emotion.Sad}:   3,
	{emotion.Neutral, emotion.Angry}: 3,
}

const defaultSeverity = 2

// concerningPairs marks the emotionally significant mismatches: a negative
// face paired with neutral/positive words, or sad/angry crossed with each
// other.
var concerningPairs = map[pair]bool{
	{emotion.Sad, emotion.Neutral}:   true,
	{emotion.Sad, emotion.Happy}:     true,
	{emotion.Angry, emotion.Neutral}: true,
	{emotion.Angry, emotion.Happy}:   true,
	{emotion.Sad, emotion.Angry}:     true,
	{emotion.Angry, emotion.Sad}:     true,
}

// Compare 将表情观测与文本观测合并为一次匹配/错配判定。
// face 为 nil（或标签不可识别）时只信任文本；错配时表情优先于自述文字，
// 这是刻意的设计偏置而非对称融合。
func Compare(face *emotion.Reading, text emotion.Reading) emotion.Comparison {
	if face == nil || !face.Emotion.IsCanonical() {
		return emotion.Comparison{
			Match:          true,
			PrimaryEmotion: text.Emotion,
			Confidence:     text.Confidence,
			TextEmotion:    &text,
		}
	}

	if face.Emotion == text.Emotion {
		confidence := face.Confidence
		if text.Confidence < confidence {
			confidence = text.Confidence
		}
		return emotion.Comparison{
			Match:          true,
			PrimaryEmotion: face.Emotion,
			Confidence:     confidence,
			FaceEmotion:    face,
			TextEmotion:    &text,
		}
	}

	key := pair{Face: face.Emotion, Text: text.Emotion}
	hiding := text.Dismissive && (face.Emotion == emotion.Sad || face.Emotion == emotion.Angry)

	return emotion.Comparison{
		Mismatch:           true,
		ConcerningMismatch: concerningPairs[key],
		HidingFeelings:     hiding,
		PrimaryEmotion:     face.Emotion,
		Confidence:         face.Confidence,
		Severity:           severity(key, face.Confidence),
		FaceEmotion:        face,
		TextEmotion:        &text,
	}
}

func severity(key pair, faceConfidence int) int {
	base, ok := severityTable[key]
	if !ok {
		base = defaultSeverity
	}
	if faceConfidence > 80 {
		base++
	}
	if base > 10 {
		base = 10
	}
	return base
}
