package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/soumya28022005/face-ditection-ai/internal/model/chat"
	"github.com/soumya28022005/face-ditection-ai/internal/model/emotion"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleTurn(id, sessionID string, createdAt time.Time) chat.Turn {
	return chat.Turn{
		ID:         id,
		SessionID:  sessionID,
		UserText:   "I'm fine",
		AIResponse: "You say you're fine, but your expression tells me there might be more going on.",
		Text: emotion.Reading{
			Emotion:    emotion.Happy,
			Confidence: 100,
			Dismissive: true,
			Timestamp:  createdAt,
		},
		Face: &emotion.Reading{
			Emotion:    emotion.Sad,
			Confidence: 90,
			Timestamp:  createdAt,
		},
		Analysis: emotion.Comparison{
			Mismatch:           true,
			ConcerningMismatch: true,
			HidingFeelings:     true,
			PrimaryEmotion:     emotion.Sad,
			Severity:           10,
		},
		CreatedAt: createdAt,
	}
}

func TestSaveAndListTurns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	if err := store.SaveTurn(ctx, sampleTurn("turn-1", "session-1", base)); err != nil {
		t.Fatalf("SaveTurn err: %v", err)
	}

	turns, err := store.ListTurns(ctx, "session-1", 0)
	if err != nil {
		t.Fatalf("ListTurns err: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}

	got := turns[0]
	if got.UserText != "I'm fine" {
		t.Fatalf("unexpected user text: %q", got.UserText)
	}
	if !got.Text.Dismissive {
		t.Fatal("expected the dismissive flag to survive the roundtrip")
	}
	if got.Face == nil || got.Face.Emotion != emotion.Sad || got.Face.Confidence != 90 {
		t.Fatalf("unexpected face reading: %+v", got.Face)
	}
	if got.Analysis.Match || !got.Analysis.Mismatch {
		t.Fatal("expected mismatch flags to survive the roundtrip")
	}
	if !got.Analysis.HidingFeelings || got.Analysis.Severity != 10 {
		t.Fatalf("unexpected analysis: %+v", got.Analysis)
	}
	if got.Analysis.PrimaryEmotion != emotion.Sad {
		t.Fatalf("unexpected primary emotion: %s", got.Analysis.PrimaryEmotion)
	}
}

func TestListTurnsWithoutFaceReading(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	turn := sampleTurn("turn-1", "session-1", time.Now().UTC())
	turn.Face = nil
	turn.Analysis = emotion.Comparison{Match: true, PrimaryEmotion: emotion.Happy, Confidence: 100}

	if err := store.SaveTurn(ctx, turn); err != nil {
		t.Fatalf("SaveTurn err: %v", err)
	}

	turns, err := store.ListTurns(ctx, "session-1", 0)
	if err != nil {
		t.Fatalf("ListTurns err: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if turns[0].Face != nil {
		t.Fatalf("expected no face reading, got %+v", turns[0].Face)
	}
	if !turns[0].Analysis.Match {
		t.Fatal("expected the match flag to survive the roundtrip")
	}
}

func TestListTurnsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		turn := sampleTurn(string(rune('a'+i)), "session-1", base.Add(time.Duration(i)*time.Minute))
		if err := store.SaveTurn(ctx, turn); err != nil {
			t.Fatalf("SaveTurn err: %v", err)
		}
	}
	// Another session must not leak into the listing.
	if err := store.SaveTurn(ctx, sampleTurn("other", "session-2", base)); err != nil {
		t.Fatalf("SaveTurn err: %v", err)
	}

	turns, err := store.ListTurns(ctx, "session-1", 0)
	if err != nil {
		t.Fatalf("ListTurns err: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	for i := 1; i < len(turns); i++ {
		if turns[i].CreatedAt.Before(turns[i-1].CreatedAt) {
			t.Fatal("expected turns ordered oldest first")
		}
	}

	limited, err := store.ListTurns(ctx, "session-1", 2)
	if err != nil {
		t.Fatalf("ListTurns err: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 turns with limit, got %d", len(limited))
	}
	// A limited listing keeps the newest turns, still oldest first.
	if limited[0].ID != "b" || limited[1].ID != "c" {
		t.Fatalf("expected the newest turns b, c; got %s, %s", limited[0].ID, limited[1].ID)
	}
}

func TestListTurnsLimitKeepsMostRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		turn := sampleTurn(string(rune('a'+i)), "session-1", base.Add(time.Duration(i)*time.Minute))
		if err := store.SaveTurn(ctx, turn); err != nil {
			t.Fatalf("SaveTurn err: %v", err)
		}
	}

	turns, err := store.ListTurns(ctx, "session-1", 10)
	if err != nil {
		t.Fatalf("ListTurns err: %v", err)
	}
	if len(turns) != 10 {
		t.Fatalf("expected 10 turns, got %d", len(turns))
	}
	if turns[0].ID != "c" {
		t.Fatalf("expected the two oldest turns dropped, window starts at %s", turns[0].ID)
	}
	if turns[len(turns)-1].ID != "l" {
		t.Fatalf("expected the newest turn last, got %s", turns[len(turns)-1].ID)
	}
}

func TestIncrementDailyUpsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	day := "2026-08-27"

	if err := store.IncrementDaily(ctx, day, emotion.Sad); err != nil {
		t.Fatalf("IncrementDaily err: %v", err)
	}
	if err := store.IncrementDaily(ctx, day, emotion.Sad); err != nil {
		t.Fatalf("IncrementDaily err: %v", err)
	}
	if err := store.IncrementDaily(ctx, day, emotion.Happy); err != nil {
		t.Fatalf("IncrementDaily err: %v", err)
	}

	summary, err := store.GetDailySummary(ctx, day)
	if err != nil {
		t.Fatalf("GetDailySummary err: %v", err)
	}
	if summary.Sad != 2 || summary.Happy != 1 || summary.Angry != 0 || summary.Neutral != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestIncrementDailyRejectsUnmappedLabel(t *testing.T) {
	store := openTestStore(t)

	if err := store.IncrementDaily(context.Background(), "2026-08-27", emotion.Anxious); err == nil {
		t.Fatal("expected an error for a label with no summary column")
	}
}

func TestGetDailySummaryUnseenDay(t *testing.T) {
	store := openTestStore(t)

	summary, err := store.GetDailySummary(context.Background(), "1999-01-01")
	if err != nil {
		t.Fatalf("GetDailySummary err: %v", err)
	}
	if summary.Day != "1999-01-01" {
		t.Fatalf("unexpected day: %s", summary.Day)
	}
	if summary.Happy != 0 || summary.Sad != 0 || summary.Angry != 0 || summary.Neutral != 0 {
		t.Fatalf("expected zero counters, got %+v", summary)
	}
}
