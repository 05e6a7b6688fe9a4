package respond

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/soumya28022005/face-ditection-ai/internal/model/emotion"
)

// Selector picks an empathetic reply template for a comparison result. The
// randomness source is injected so tests can pin the pick; the contract is
// which pool a reply is drawn from, not the literal string.
type Selector struct {
	intn func(n int) int
}

// NewSelector 创建模板选择器。intn 为 nil 时使用时间种子的默认随机源。
func NewSelector(intn func(n int) int) *Selector {
	if intn == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		intn = rng.Intn
	}
	return &Selector{intn: intn}
}

// Generate 根据比较结果选择回复：优先处理“隐藏感受”，其次处理值得关注的
// 错配，否则按主导情绪从对齐池中取。负面主导情绪额外附加一句支持性收尾。
func (s *Selector) Generate(userText string, text emotion.Reading, face *emotion.Reading, cmp emotion.Comparison) string {
	var response string
	switch {
	case cmp.HidingFeelings:
		response = s.pick(s.dismissivePool(face))
	case cmp.ConcerningMismatch:
		response = s.concernResponse(face, text, cmp)
	default:
		response = s.pick(s.alignedPool(cmp.PrimaryEmotion))
	}

	switch cmp.PrimaryEmotion {
	case emotion.Sad, emotion.Angry, emotion.Anxious:
		response += " " + s.pick(closures)
	}
	return response
}

func (s *Selector) dismissivePool(face *emotion.Reading) []string {
	if face != nil {
		if pool, ok := dismissiveTemplates[face.Emotion]; ok {
			return pool
		}
	}
	return dismissiveTemplates[emotion.Sad]
}

func (s *Selector) alignedPool(primary emotion.Label) []string {
	if pool, ok := alignedTemplates[primary]; ok {
		return pool
	}
	return alignedTemplates[emotion.Neutral]
}

func (s *Selector) concernResponse(face *emotion.Reading, text emotion.Reading, cmp emotion.Comparison) string {
	openers := gentleOpeners
	if cmp.Severity >= 7 {
		openers = directOpeners
	}

	faceLabel := cmp.PrimaryEmotion
	if face != nil {
		faceLabel = face.Emotion
	}

	var body string
	if phrase, ok := pairPhrases[facePair{Face: faceLabel, Text: text.Emotion}]; ok {
		body = phrase.Concern + " " + phrase.Suggestion
	} else {
		body = fmt.Sprintf("your expression reads %s while your words sound %s, and that gap is worth a second look.",
			faceLabel, text.Emotion)
	}

	return s.pick(openers) + " " + body + " " + s.pick(closingQuestions)
}

func (s *Selector) pick(pool []string) string {
	return pool[s.intn(len(pool))]
}
