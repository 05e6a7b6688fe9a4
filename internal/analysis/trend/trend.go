package trend

import (
	"fmt"
	"math"

	"github.com/soumya28022005/face-ditection-ai/internal/model/emotion"
)

const (
	// PatternInsufficient is returned for histories shorter than 3 readings.
	PatternInsufficient = "insufficient_data"

	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// dominanceOrder breaks ties when two emotions share the highest count.
// 注意与文本分析的扫描顺序不同：neutral 排在 anxious 之前。
var dominanceOrder = []emotion.Label{
	emotion.Happy, emotion.Sad, emotion.Angry, emotion.Neutral, emotion.Anxious,
}

// PatternReport summarizes the dominant emotion across a history window.
type PatternReport struct {
	Pattern             string                `json:"pattern"`
	DominancePercentage int                   `json:"dominancePercentage"`
	Trend               string                `json:"trend,omitempty"`
	Concern             bool                  `json:"concern"`
	EmotionBreakdown    map[emotion.Label]int `json:"emotionBreakdown,omitempty"`
	TotalEntries        int                   `json:"totalEntries"`
}

// VolatilityReport measures how often the emotion flips between adjacent
// readings.
type VolatilityReport struct {
	Volatility int    `json:"volatility"` // 0..100
	Stable     bool   `json:"stable"`
	Message    string `json:"message,omitempty"`
}

// Recommendation is a single suggested follow-up derived from the reports.
type Recommendation struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// DetectPattern 统计历史情绪分布，给出主导情绪、占比与趋势。
// 少于 3 条记录时返回 insufficient_data；非法标签直接忽略。
func DetectPattern(history []emotion.Reading) PatternReport {
	if len(history) < 3 {
		return PatternReport{
			Pattern:      PatternInsufficient,
			TotalEntries: len(history),
		}
	}

	breakdown := make(map[emotion.Label]int, len(dominanceOrder))
	for _, reading := range history {
		if reading.Emotion.IsCanonical() {
			breakdown[reading.Emotion]++
		}
	}

	dominant := emotion.Neutral
	dominantCount := 0
	for _, label := range dominanceOrder {
		if breakdown[label] > dominantCount {
			dominantCount = breakdown[label]
			dominant = label
		}
	}

	dominance := 0
	if dominantCount > 0 {
		dominance = int(math.Round(100 * float64(dominantCount) / float64(len(history))))
	}

	concern := (dominant == emotion.Sad && dominance > 60) ||
		(dominant == emotion.Angry && dominance > 50) ||
		(dominant == emotion.Anxious && dominance > 60)

	return PatternReport{
		Pattern:             string(dominant),
		DominancePercentage: dominance,
		Trend:               detectTrend(history),
		Concern:             concern,
		EmotionBreakdown:    breakdown,
		TotalEntries:        len(history),
	}
}

// detectTrend compares happy counts in the last five readings against the
// up-to-five readings immediately before them. The ±1 band keeps single
// outliers from flipping the trend.
func detectTrend(history []emotion.Reading) string {
	recentStart := len(history) - 5
	if recentStart < 0 {
		recentStart = 0
	}

	older := history[:recentStart]
	if len(older) > 5 {
		older = older[:5]
	}

	recentPositive := countHappy(history[recentStart:])
	olderPositive := countHappy(older)

	switch {
	case recentPositive > olderPositive+1:
		return TrendImproving
	case recentPositive < olderPositive-1:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func countHappy(readings []emotion.Reading) int {
	count := 0
	for _, reading := range readings {
		if reading.Emotion == emotion.Happy {
			count++
		}
	}
	return count
}

// Volatility 计算相邻记录情绪变化的频率，作为情绪波动度。
func Volatility(history []emotion.Reading) VolatilityReport {
	if len(history) < 2 {
		return VolatilityReport{Volatility: 0, Stable: true}
	}

	changes := 0
	for i := 1; i < len(history); i++ {
		if history[i].Emotion != history[i-1].Emotion {
			changes++
		}
	}

	volatility := int(math.Round(100 * float64(changes) / float64(len(history)-1)))

	var message string
	switch {
	case volatility < 30:
		message = "Your emotions have been quite stable."
	case volatility < 60:
		message = "You've had some ups and downs."
	default:
		message = "Your emotions have gone through a lot of changes."
	}

	return VolatilityReport{
		Volatility: volatility,
		Stable:     volatility < 40,
		Message:    message,
	}
}

// SuggestInterventions 根据模式与波动度产出建议清单。
// 规则彼此独立、按固定顺序检查，输出顺序即检查顺序。
func SuggestInterventions(pattern PatternReport, volatility VolatilityReport) []Recommendation {
	recommendations := make([]Recommendation, 0, 4)

	if pattern.Concern && pattern.Pattern == string(emotion.Sad) {
		recommendations = append(recommendations, Recommendation{
			Type:    "professional_help",
			Message: "You've been feeling down a lot lately. Talking to a counselor or therapist could really help.",
		})
	}
	if pattern.Concern && pattern.Pattern == string(emotion.Angry) {
		recommendations = append(recommendations, Recommendation{
			Type:    "stress_management",
			Message: "There's been a lot of frustration recently. Short breaks, exercise, or breathing exercises can take the edge off.",
		})
	}
	if pattern.Concern && pattern.Pattern == string(emotion.Anxious) {
		recommendations = append(recommendations, Recommendation{
			Type:    "anxiety_support",
			Message: "Worry has been showing up often. Grounding techniques or writing worries down may make them feel smaller.",
		})
	}
	if volatility.Volatility > 70 {
		recommendations = append(recommendations, Recommendation{
			Type:    "emotional_regulation",
			Message: "Your feelings have been swinging quickly. A steady routine and regular sleep can help even things out.",
		})
	}
	if pattern.Trend == TrendDeclining {
		recommendations = append(recommendations, Recommendation{
			Type:    "check_in",
			Message: "Things seem a bit heavier than they were. Checking in with someone you trust could be worthwhile.",
		})
	}

	return recommendations
}

// Insight 将模式、波动与趋势拼成一段自然语言总结。
func Insight(history []emotion.Reading) string {
	if len(history) == 0 {
		return "Not enough data yet to notice any emotional patterns. Keep chatting and I'll learn as we go."
	}

	pattern := DetectPattern(history)
	if pattern.Pattern == PatternInsufficient {
		return "I'm still getting to know your emotional patterns. A few more check-ins and I'll have a clearer picture."
	}

	volatility := Volatility(history)

	insight := fmt.Sprintf("Over your last %d check-ins you've mostly seemed %s (%d%% of the time).",
		pattern.TotalEntries, pattern.Pattern, pattern.DominancePercentage)
	if volatility.Message != "" {
		insight += " " + volatility.Message
	}

	switch pattern.Trend {
	case TrendImproving:
		insight += " Things seem to be looking up lately."
	case TrendDeclining:
		insight += " Recent messages look a little heavier than before."
	case TrendStable:
		insight += " Overall things have been holding fairly steady."
	}

	if pattern.Concern {
		insight += " It might be worth giving yourself some extra care right now."
	}

	return insight
}
