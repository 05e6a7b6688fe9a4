package text

import (
	"math"
	"strings"

	"github.com/soumya28022005/face-ditection-ai/internal/model/emotion"
)

// Result 给出文本情绪识别结果以及各情绪的原始得分。
type Result struct {
	Emotion    emotion.Label             `json:"emotion"`
	Confidence int                       `json:"confidence"`
	Dismissive bool                      `json:"isDismissive"`
	Scores     map[emotion.Label]float64 `json:"allScores,omitempty"`
}

var keywordBuckets = map[emotion.Label][]string{
	emotion.Happy: {
		"happy", "glad", "great", "good", "fine", "joy", "joyful", "excited", "wonderful",
		"amazing", "awesome", "love", "fantastic", "cheerful", "delighted", "thrilled",
		"content", "grateful", "proud", "better", "relieved",
	},
	emotion.Sad: {
		"sad", "unhappy", "down", "depressed", "miserable", "crying", "cry", "cried",
		"lonely", "heartbroken", "hopeless", "gloomy", "hurt", "grief", "empty",
		"terrible", "awful", "lost", "tired", "exhausted",
	},
	emotion.Angry: {
		"angry", "mad", "furious", "annoyed", "irritated", "frustrated", "rage", "hate",
		"pissed", "outraged", "livid", "resentful", "fed", "unfair", "sick",
	},
	emotion.Anxious: {
		"anxious", "nervous", "worried", "worry", "scared", "afraid", "stressed",
		"overwhelmed", "panic", "panicking", "uneasy", "tense", "fearful", "restless",
		"dread", "terrified",
	},
	emotion.Neutral: {
		"normal", "average", "regular", "meh", "usual", "nothing", "ordinary",
	},
}

var intensifierBuckets = map[emotion.Label][]string{
	emotion.Happy:   {"so", "very", "really", "extremely", "incredibly", "super"},
	emotion.Sad:     {"so", "very", "really", "deeply", "extremely", "utterly"},
	emotion.Angry:   {"so", "very", "really", "totally", "extremely", "absolutely"},
	emotion.Anxious: {"so", "very", "really", "extremely", "constantly", "incredibly"},
	emotion.Neutral: {"just", "pretty"},
}

var negationWords = []string{
	"not", "no", "never", "don't", "dont", "can't", "cant", "isn't", "isnt",
	"won't", "wont", "didn't", "didnt", "wasn't", "wasnt", "ain't", "aint",
}

// 常见的敷衍表达，命中任意一条即视为在回避真实感受。
var dismissivePhrases = []string{
	"i'm fine", "im fine", "i am fine",
	"i'm okay", "im okay", "i am okay", "i'm ok", "im ok",
	"it's nothing", "its nothing", "nothing's wrong", "nothing is wrong",
	"don't worry", "dont worry", "no big deal", "doesn't matter", "doesnt matter",
	"forget it", "never mind", "nevermind", "whatever", "all good",
}

// Analyze 根据关键词、否定词与程度副词对一段文本打分，返回主导情绪。
// 空白文本直接返回 neutral/0，不做分词。
func Analyze(input string) Result {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Result{Emotion: emotion.Neutral, Scores: emptyScores()}
	}

	scores := scoreTokens(tokenize(normalized))

	best := emotion.Neutral
	bestScore := 0.0
	total := 0.0
	for _, label := range emotion.Canonical {
		total += scores[label]
		// 严格大于：得分相同时保留先扫描到的情绪。
		if scores[label] > bestScore {
			bestScore = scores[label]
			best = label
		}
	}

	confidence := 0
	if bestScore > 0 && total > 0 {
		confidence = int(math.Round(100 * bestScore / total))
		if confidence > 100 {
			confidence = 100
		}
	} else {
		best = emotion.Neutral
	}

	return Result{
		Emotion:    best,
		Confidence: confidence,
		Dismissive: containsDismissivePhrase(normalized),
		Scores:     scores,
	}
}

// SentimentScore collapses the per-emotion scores into a single value in
// [-1, 1]: positive weight from happy, negative from sad/angry/anxious.
// Returns 0 when the text carries no scored keywords.
func SentimentScore(input string) float64 {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return 0
	}

	scores := scoreTokens(tokenize(normalized))
	total := 0.0
	for _, label := range emotion.Canonical {
		total += scores[label]
	}
	if total == 0 {
		return 0
	}

	negative := scores[emotion.Sad] + scores[emotion.Angry] + scores[emotion.Anxious]
	return (scores[emotion.Happy] - negative) / total
}

// scoreTokens runs the keyword scan. A negation word within the previous two
// tokens flips the increment to -0.5 (and is consumed); an intensifier
// immediately before a keyword multiplies it by 1.5. Scores are floored at
// zero after the scan: negative contributions suppress, they never win.
func scoreTokens(tokens []string) map[emotion.Label]float64 {
	scores := emptyScores()

	negationSeen := false
	negationPos := 0
	for i, token := range tokens {
		if containsWord(negationWords, token) {
			negationSeen = true
			negationPos = i
			continue
		}

		for _, label := range emotion.Canonical {
			if !containsWord(keywordBuckets[label], token) {
				continue
			}

			increment := 1.0
			if i > 0 && containsWord(intensifierBuckets[label], tokens[i-1]) {
				increment *= 1.5
			}
			if negationSeen && i-negationPos <= 2 {
				increment *= -0.5
				negationSeen = false
			}
			scores[label] += increment
		}
	}

	for _, label := range emotion.Canonical {
		if scores[label] < 0 {
			scores[label] = 0
		}
	}
	return scores
}

func tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.Trim(field, ".,!?;:\"()[]")
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func containsDismissivePhrase(normalized string) bool {
	for _, phrase := range dismissivePhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

func containsWord(list []string, token string) bool {
	for _, word := range list {
		if word == token {
			return true
		}
	}
	return false
}

func emptyScores() map[emotion.Label]float64 {
	scores := make(map[emotion.Label]float64, len(emotion.Canonical))
	for _, label := range emotion.Canonical {
		scores[label] = 0
	}
	return scores
}
