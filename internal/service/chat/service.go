package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soumya28022005/face-ditection-ai/internal/analysis/compare"
	textanalysis "github.com/soumya28022005/face-ditection-ai/internal/analysis/text"
	"github.com/soumya28022005/face-ditection-ai/internal/model/chat"
	"github.com/soumya28022005/face-ditection-ai/internal/model/emotion"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message text is required")
)

// Responder produces the empathetic reply for an analyzed exchange.
type Responder interface {
	Generate(ctx context.Context, userText string, text emotion.Reading, face *emotion.Reading, cmp emotion.Comparison, history []chat.Turn) string
}

// Store persists conversation turns and the per-day emotion counters.
type Store interface {
	SaveTurn(ctx context.Context, turn chat.Turn) error
	ListTurns(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error)
	IncrementDaily(ctx context.Context, day string, label emotion.Label) error
	GetDailySummary(ctx context.Context, day string) (chat.DailySummary, error)
}

// FaceSource supplies the freshest face reading for a session, if any.
type FaceSource interface {
	Latest(sessionID string) (emotion.Reading, bool)
}

// Exchange is the result of one processed message.
type Exchange struct {
	Reply    string             `json:"response"`
	Text     emotion.Reading    `json:"textEmotion"`
	Analysis emotion.Comparison `json:"analysis"`
	Turn     chat.Turn          `json:"-"`
}

// Service encapsulates conversation state and runs the per-message pipeline:
// analyze text, compare against the face reading, select a reply, persist.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]chat.Session
	histories map[string][]emotion.Reading

	store     Store
	responder Responder
	faces     FaceSource
	now       func() time.Time
}

// NewService 创建会话服务。store 与 faces 允许为 nil（仅内存、无表情来源）。
func NewService(store Store, responder Responder, faces FaceSource) *Service {
	return &Service{
		sessions:  make(map[string]chat.Session),
		histories: make(map[string][]emotion.Reading),
		store:     store,
		responder: responder,
		faces:     faces,
		now:       time.Now,
	}
}

// CreateSession provisions an anonymous conversation.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.histories[session.ID] = make([]emotion.Reading, 0, 16)
	s.mu.Unlock()

	return session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// ProcessMessage runs the full pipeline for one user message. An explicit
// face reading wins over the tracker; with neither, the comparator trusts
// the text alone. Persistence is best-effort: the reply still flows when the
// store is down, the failure is only logged.
func (s *Service) ProcessMessage(ctx context.Context, sessionID, userText string, faceReading *emotion.Reading) (Exchange, error) {
	if strings.TrimSpace(userText) == "" {
		return Exchange{}, ErrEmptyMessage
	}
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return Exchange{}, err
	}

	if faceReading == nil && s.faces != nil {
		if latest, ok := s.faces.Latest(sessionID); ok {
			faceReading = &latest
		}
	}

	now := s.now().UTC()
	scored := textanalysis.Analyze(userText)
	textReading := emotion.Reading{
		Emotion:    scored.Emotion,
		Confidence: scored.Confidence,
		Dismissive: scored.Dismissive,
		Timestamp:  now,
	}

	comparison := compare.Compare(faceReading, textReading)

	var recentTurns []chat.Turn
	if s.store != nil {
		turns, err := s.store.ListTurns(ctx, sessionID, 10)
		if err != nil {
			log.Printf("[chat] load recent turns failed: %v", err)
		} else {
			recentTurns = turns
		}
	}

	reply := s.responder.Generate(ctx, userText, textReading, faceReading, comparison, recentTurns)

	turn := chat.Turn{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		UserText:   userText,
		AIResponse: reply,
		Text:       textReading,
		Face:       faceReading,
		Analysis:   comparison,
		CreatedAt:  now,
	}

	if s.store != nil {
		if err := s.store.SaveTurn(ctx, turn); err != nil {
			log.Printf("[chat] save turn failed: %v", err)
		}
		day := now.Format("2006-01-02")
		if err := s.store.IncrementDaily(ctx, day, coarseLabel(comparison.PrimaryEmotion)); err != nil {
			log.Printf("[chat] increment daily counter failed: %v", err)
		}
	}

	s.appendReading(sessionID, emotion.Reading{
		Emotion:    comparison.PrimaryEmotion,
		Confidence: comparison.Confidence,
		Timestamp:  now,
	})

	return Exchange{Reply: reply, Text: textReading, Analysis: comparison, Turn: turn}, nil
}

// EmotionHistory returns a snapshot of the session's fused readings, oldest
// first. The trend analyzer operates on this snapshot.
func (s *Service) EmotionHistory(_ context.Context, sessionID string) ([]emotion.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.histories[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]emotion.Reading, len(history))
	copy(copied, history)
	return copied, nil
}

// Transcript returns persisted turns for the session.
func (s *Service) Transcript(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListTurns(ctx, sessionID, limit)
}

// DailySummary returns the coarse per-day counters for a calendar date.
func (s *Service) DailySummary(ctx context.Context, day string) (chat.DailySummary, error) {
	if s.store == nil {
		return chat.DailySummary{Day: day}, nil
	}
	return s.store.GetDailySummary(ctx, day)
}

func (s *Service) appendReading(sessionID string, reading emotion.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return
	}
	s.histories[sessionID] = append(s.histories[sessionID], reading)
}

// coarseLabel maps the five canonical labels onto the four daily-summary
// columns. Anxious counts toward the sad column.
func coarseLabel(label emotion.Label) emotion.Label {
	if label == emotion.Anxious {
		return emotion.Sad
	}
	return label
}
