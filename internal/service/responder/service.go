package responder

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/soumya28022005/face-ditection-ai/internal/model/chat"
	"github.com/soumya28022005/face-ditection-ai/internal/model/emotion"
	"github.com/soumya28022005/face-ditection-ai/internal/respond"
)

// Config 控制回复润色服务的行为。
type Config struct {
	Enabled      bool
	HistoryLimit int
}

// Service 在模板回复之上可选地用大模型做一次润色。模板选择器是唯一的
// 正确性来源：链路不可用或失败时总是回退到模板结果。
type Service struct {
	enabled      bool
	chain        compose.Runnable[map[string]any, *schema.Message]
	selector     *respond.Selector
	historyLimit int
}

// NewService 创建回复服务。chatModel 为 nil 或未启用时仅使用模板选择器。
func NewService(ctx context.Context, chatModel model.ChatModel, selector *respond.Selector, cfg Config) (*Service, error) {
	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = 6
	}

	svc := &Service{
		enabled:      cfg.Enabled && chatModel != nil,
		selector:     selector,
		historyLimit: historyLimit,
	}

	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(polishSystemPrompt),
		schema.UserMessage(polishUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile responder chain: %w", err)
	}

	svc.chain = runnable
	return svc, nil
}

// Enabled 返回是否启用了大模型润色。
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.chain != nil
}

// Generate produces the reply for one analyzed exchange. The template draft
// is always computed first; the chain only rewrites it when available.
func (s *Service) Generate(ctx context.Context, userText string, text emotion.Reading, face *emotion.Reading, cmp emotion.Comparison, history []chat.Turn) string {
	draft := s.selector.Generate(userText, text, face, cmp)
	if !s.Enabled() {
		return draft
	}

	input := map[string]any{
		"analysis":     summarizeComparison(text, face, cmp),
		"history":      formatHistory(history, s.historyLimit),
		"user_message": strings.TrimSpace(userText),
		"draft":        draft,
	}

	msg, err := s.chain.Invoke(ctx, input)
	if err != nil {
		log.Printf("[responder] chain invoke failed, using template: %v", err)
		return draft
	}
	if msg == nil {
		return draft
	}

	reply := strings.TrimSpace(msg.Content)
	if reply == "" {
		return draft
	}
	return reply
}

func summarizeComparison(text emotion.Reading, face *emotion.Reading, cmp emotion.Comparison) string {
	sections := []string{
		fmt.Sprintf("text emotion: %s (confidence %d)", text.Emotion, text.Confidence),
	}
	if face != nil {
		sections = append(sections, fmt.Sprintf("face emotion: %s (confidence %d)", face.Emotion, face.Confidence))
	} else {
		sections = append(sections, "face emotion: unavailable")
	}
	if cmp.Mismatch {
		sections = append(sections, fmt.Sprintf("mismatch, severity %d/10", cmp.Severity))
	} else {
		sections = append(sections, "face and words agree")
	}
	if cmp.HidingFeelings {
		sections = append(sections, "the user appears to be downplaying how they feel")
	}
	return strings.Join(sections, " | ")
}

func formatHistory(turns []chat.Turn, limit int) string {
	if len(turns) == 0 {
		return "no previous exchanges"
	}
	if limit < 1 {
		limit = 1
	}
	start := len(turns) - limit
	if start < 0 {
		start = 0
	}

	var builder strings.Builder
	for i := start; i < len(turns); i++ {
		turn := turns[i]
		userText := strings.TrimSpace(turn.UserText)
		if userText == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("user: ")
		builder.WriteString(userText)
		builder.WriteString("\nassistant: ")
		builder.WriteString(strings.TrimSpace(turn.AIResponse))
	}
	if builder.Len() == 0 {
		return "no previous exchanges"
	}
	return builder.String()
}

const polishSystemPrompt = "You are an empathetic chat companion. You receive an emotional analysis of the user's latest message (their typed words compared against their facial expression), a short conversation history, and a drafted reply. Rewrite the draft so it flows naturally in context while keeping its emotional intent: acknowledge hidden feelings gently, never dismiss what the face shows, and keep it to at most three sentences. Return only the reply text with no extra commentary."

const polishUserPrompt = "Emotional analysis:\n{analysis}\n\nRecent conversation:\n{history}\n\nUser's latest message:\n{user_message}\n\nDrafted reply:\n{draft}\n\nRewrite the drafted reply."
