package respond

import "github.com/soumya28022005/face-ditection-ai/internal/model/emotion"

type facePair struct {
	Face emotion.Label
	Text emotion.Label
}

type concernPhrase struct {
	Concern    string
	Suggestion string
}

// dismissiveTemplates 针对“嘴上说没事、表情却不对”的情况，按表情情绪分池。
var dismissiveTemplates = map[emotion.Label][]string{
	emotion.Sad: {
		"You say you're fine, but your face tells me there might be more going on. I'm here if you want to talk about it.",
		"Sometimes \"fine\" carries a lot of weight. It's okay to not be okay.",
		"I hear the words, but your expression looks a little heavy. Want to unpack it together?",
		"It's alright to drop the brave face here. What's really on your mind?",
	},
	emotion.Angry: {
		"You're brushing it off, but you look pretty frustrated. What happened?",
		"Saying it's nothing doesn't make the frustration go away. I'm listening if you want to vent.",
		"Your face says something's bothering you. You don't have to hold it in.",
		"It's okay to admit something got under your skin. What's going on?",
	},
}

// alignedTemplates 表情与文字一致（或只有文本）时的回复池，按主导情绪分池。
var alignedTemplates = map[emotion.Label][]string{
	emotion.Happy: {
		"That's wonderful to hear! What's been the best part of it?",
		"I love that energy! Tell me more about what's making you smile.",
		"You sound genuinely happy, and it shows. What happened?",
	},
	emotion.Sad: {
		"That sounds really hard. I'm sorry you're going through this.",
		"It makes sense to feel down about that. Do you want to talk it through?",
		"I can tell this is weighing on you. What's been the hardest part?",
	},
	emotion.Angry: {
		"That sounds genuinely frustrating. What set it off?",
		"It's fair to be upset about that. Do you want to vent for a bit?",
		"Anger usually points at something that matters to you. What's underneath it?",
	},
	emotion.Anxious: {
		"That sounds stressful. What's worrying you the most right now?",
		"Worry can be exhausting. Want to sort out what's in your control and what isn't?",
		"It's understandable to feel on edge about that. What would help you feel steadier?",
	},
	emotion.Neutral: {
		"Thanks for sharing that. How has the rest of your day been?",
		"Got it. Is there anything on your mind you'd like to dig into?",
		"I'm listening. What else is going on with you?",
	},
}

var gentleOpeners = []string{
	"I might be reading too much into it, but",
	"Gently checking in —",
	"I could be wrong, but",
}

var directOpeners = []string{
	"I have to be honest with you:",
	"I don't want to gloss over this —",
	"Let me say this plainly:",
}

// pairPhrases 针对每一种值得关注的表情-文本组合给出关切与建议。
var pairPhrases = map[facePair]concernPhrase{
	{emotion.Sad, emotion.Happy}: {
		Concern:    "your words are upbeat, but your expression looks really sad.",
		Suggestion: "Putting on a cheerful front takes energy; you can set it down here.",
	},
	{emotion.Angry, emotion.Happy}: {
		Concern:    "you sound positive, but your face looks genuinely upset.",
		Suggestion: "If something is bothering you, naming it often helps more than smiling past it.",
	},
	{emotion.Sad, emotion.Neutral}: {
		Concern:    "your message reads matter-of-fact, but there's sadness in your expression.",
		Suggestion: "You don't have to keep things flat for my sake.",
	},
	{emotion.Angry, emotion.Neutral}: {
		Concern:    "your words are calm, but your face shows real frustration.",
		Suggestion: "It's safe to say what's actually annoying you.",
	},
	{emotion.Sad, emotion.Angry}: {
		Concern:    "your words sound angry, but underneath your expression looks more hurt than mad.",
		Suggestion: "Sometimes anger is the easier feeling to show; the sadness deserves attention too.",
	},
	{emotion.Angry, emotion.Sad}: {
		Concern:    "you're describing sadness, but your face shows a lot of frustration.",
		Suggestion: "Both feelings can be true at once; we can look at either one.",
	},
}

var closingQuestions = []string{
	"What's really going on?",
	"Do you want to talk about it?",
	"How are you actually feeling right now?",
}

// closures 针对负面主导情绪附加的一句支持性收尾。
var closures = []string{
	"Whatever it is, you don't have to face it alone.",
	"Take all the time you need.",
	"I'm here with you.",
}
