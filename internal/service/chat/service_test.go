package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soumya28022005/face-ditection-ai/internal/model/chat"
	"github.com/soumya28022005/face-ditection-ai/internal/model/emotion"
	"github.com/soumya28022005/face-ditection-ai/internal/respond"
	chatservice "github.com/soumya28022005/face-ditection-ai/internal/service/chat"
)

// memoryStore is an in-memory Store for pipeline tests.
type memoryStore struct {
	turns    map[string][]chat.Turn
	counters map[string]map[emotion.Label]int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		turns:    make(map[string][]chat.Turn),
		counters: make(map[string]map[emotion.Label]int),
	}
}

func (s *memoryStore) SaveTurn(_ context.Context, turn chat.Turn) error {
	s.turns[turn.SessionID] = append(s.turns[turn.SessionID], turn)
	return nil
}

func (s *memoryStore) ListTurns(_ context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	turns := s.turns[sessionID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	copied := make([]chat.Turn, len(turns))
	copy(copied, turns)
	return copied, nil
}

func (s *memoryStore) IncrementDaily(_ context.Context, day string, label emotion.Label) error {
	if s.counters[day] == nil {
		s.counters[day] = make(map[emotion.Label]int)
	}
	s.counters[day][label]++
	return nil
}

func (s *memoryStore) GetDailySummary(_ context.Context, day string) (chat.DailySummary, error) {
	counters := s.counters[day]
	return chat.DailySummary{
		Day:     day,
		Happy:   counters[emotion.Happy],
		Sad:     counters[emotion.Sad],
		Angry:   counters[emotion.Angry],
		Neutral: counters[emotion.Neutral],
	}, nil
}

// templateResponder adapts the selector to the Responder interface with a
// pinned rng.
type templateResponder struct {
	selector *respond.Selector
}

func (r *templateResponder) Generate(_ context.Context, userText string, text emotion.Reading, face *emotion.Reading, cmp emotion.Comparison, _ []chat.Turn) string {
	return r.selector.Generate(userText, text, face, cmp)
}

type stubFaces struct {
	reading *emotion.Reading
}

func (s stubFaces) Latest(string) (emotion.Reading, bool) {
	if s.reading == nil {
		return emotion.Reading{}, false
	}
	return *s.reading, true
}

func newTestService(store chatservice.Store, faces chatservice.FaceSource) *chatservice.Service {
	responder := &templateResponder{selector: respond.NewSelector(func(int) int { return 0 })}
	return chatservice.NewService(store, responder, faces)
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

func TestProcessMessageHidingFeelings(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	face := &emotion.Reading{Emotion: emotion.Sad, Confidence: 90}
	exchange, err := svc.ProcessMessage(ctx, session.ID, "I'm fine", face)
	if err != nil {
		t.Fatalf("ProcessMessage err: %v", err)
	}

	analysis := exchange.Analysis
	if !analysis.Mismatch {
		t.Fatal("expected a mismatch")
	}
	if !analysis.HidingFeelings {
		t.Fatal("expected hidingFeelings for dismissive words over a sad face")
	}
	if analysis.PrimaryEmotion != emotion.Sad {
		t.Fatalf("expected primary sad, got %s", analysis.PrimaryEmotion)
	}
	if analysis.Severity != 10 {
		t.Fatalf("expected severity 10, got %d", analysis.Severity)
	}
	if exchange.Reply == "" {
		t.Fatal("expected a non-empty reply")
	}

	if len(store.turns[session.ID]) != 1 {
		t.Fatalf("expected 1 persisted turn, got %d", len(store.turns[session.ID]))
	}
	if store.counters[today()][emotion.Sad] != 1 {
		t.Fatalf("expected one sad increment, got %+v", store.counters[today()])
	}
}

func TestProcessMessageTextOnly(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx)
	exchange, err := svc.ProcessMessage(ctx, session.ID, "I am so happy today!", nil)
	if err != nil {
		t.Fatalf("ProcessMessage err: %v", err)
	}

	if exchange.Text.Emotion != emotion.Happy {
		t.Fatalf("expected happy text emotion, got %s", exchange.Text.Emotion)
	}
	if exchange.Text.Confidence <= 0 {
		t.Fatalf("expected positive text confidence, got %d", exchange.Text.Confidence)
	}
	if !exchange.Analysis.Match {
		t.Fatal("expected a match on the text-only path")
	}
	if exchange.Analysis.PrimaryEmotion != emotion.Happy {
		t.Fatalf("expected primary happy, got %s", exchange.Analysis.PrimaryEmotion)
	}
	if store.counters[today()][emotion.Happy] != 1 {
		t.Fatalf("expected one happy increment, got %+v", store.counters[today()])
	}
}

func TestProcessMessageAnxiousFoldsIntoSadCounter(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, nil)
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx)
	exchange, err := svc.ProcessMessage(ctx, session.ID, "I am so anxious about tomorrow", nil)
	if err != nil {
		t.Fatalf("ProcessMessage err: %v", err)
	}

	if exchange.Analysis.PrimaryEmotion != emotion.Anxious {
		t.Fatalf("expected primary anxious, got %s", exchange.Analysis.PrimaryEmotion)
	}
	if store.counters[today()][emotion.Sad] != 1 {
		t.Fatalf("expected the anxious message counted under sad, got %+v", store.counters[today()])
	}
}

func TestProcessMessageUsesTrackerReading(t *testing.T) {
	store := newMemoryStore()
	faceReading := &emotion.Reading{Emotion: emotion.Sad, Confidence: 85, Timestamp: time.Now()}
	svc := newTestService(store, stubFaces{reading: faceReading})
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx)
	exchange, err := svc.ProcessMessage(ctx, session.ID, "I'm fine", nil)
	if err != nil {
		t.Fatalf("ProcessMessage err: %v", err)
	}

	if !exchange.Analysis.Mismatch {
		t.Fatal("expected the tracker reading to drive a mismatch")
	}
	if exchange.Analysis.PrimaryEmotion != emotion.Sad {
		t.Fatalf("expected primary sad from the tracker, got %s", exchange.Analysis.PrimaryEmotion)
	}
}

func TestProcessMessageEmptyText(t *testing.T) {
	svc := newTestService(newMemoryStore(), nil)
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx)
	if _, err := svc.ProcessMessage(ctx, session.ID, "   ", nil); !errors.Is(err, chatservice.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestProcessMessageUnknownSession(t *testing.T) {
	svc := newTestService(newMemoryStore(), nil)

	if _, err := svc.ProcessMessage(context.Background(), "missing", "hello", nil); !errors.Is(err, chatservice.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestEmotionHistoryAccumulates(t *testing.T) {
	svc := newTestService(newMemoryStore(), nil)
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx)
	if _, err := svc.ProcessMessage(ctx, session.ID, "I am happy", nil); err != nil {
		t.Fatalf("ProcessMessage err: %v", err)
	}
	if _, err := svc.ProcessMessage(ctx, session.ID, "now I am sad", nil); err != nil {
		t.Fatalf("ProcessMessage err: %v", err)
	}

	history, err := svc.EmotionHistory(ctx, session.ID)
	if err != nil {
		t.Fatalf("EmotionHistory err: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(history))
	}
	if history[0].Emotion != emotion.Happy || history[1].Emotion != emotion.Sad {
		t.Fatalf("unexpected history order: %+v", history)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	svc := newTestService(newMemoryStore(), nil)
	if _, err := svc.GetSession(context.Background(), "missing"); !errors.Is(err, chatservice.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
