package face

import (
	"errors"
	"testing"
	"time"

	"github.com/soumya28022005/face-ditection-ai/internal/model/emotion"
)

func TestTrackerUpdateAndLatest(t *testing.T) {
	tracker := NewTracker(time.Second)

	reading, err := tracker.Update("session-1", "sad", 90)
	if err != nil {
		t.Fatalf("Update err: %v", err)
	}
	if reading.Emotion != emotion.Sad || reading.Confidence != 90 {
		t.Fatalf("unexpected stored reading: %+v", reading)
	}

	latest, ok := tracker.Latest("session-1")
	if !ok {
		t.Fatal("expected a fresh reading")
	}
	if latest.Emotion != emotion.Sad {
		t.Fatalf("unexpected latest emotion: %s", latest.Emotion)
	}
}

func TestTrackerNormalizesLabels(t *testing.T) {
	tracker := NewTracker(time.Second)

	reading, err := tracker.Update("session-1", "  HAPPY ", 40)
	if err != nil {
		t.Fatalf("Update err: %v", err)
	}
	if reading.Emotion != emotion.Happy {
		t.Fatalf("expected normalized happy, got %s", reading.Emotion)
	}
}

func TestTrackerRejectsUnknownLabel(t *testing.T) {
	tracker := NewTracker(time.Second)

	if _, err := tracker.Update("session-1", "confused", 50); !errors.Is(err, ErrUnknownEmotion) {
		t.Fatalf("expected ErrUnknownEmotion, got %v", err)
	}
	if _, ok := tracker.Latest("session-1"); ok {
		t.Fatal("rejected readings must not be stored")
	}
}

func TestTrackerRejectsConfidenceOutOfRange(t *testing.T) {
	tracker := NewTracker(time.Second)

	for _, confidence := range []int{-1, 101, 150} {
		if _, err := tracker.Update("session-1", "happy", confidence); !errors.Is(err, ErrConfidenceOutRange) {
			t.Fatalf("expected ErrConfidenceOutRange for %d, got %v", confidence, err)
		}
	}
}

func TestTrackerStaleReadingNotServed(t *testing.T) {
	tracker := NewTracker(30 * time.Millisecond)

	if _, err := tracker.Update("session-1", "angry", 80); err != nil {
		t.Fatalf("Update err: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if _, ok := tracker.Latest("session-1"); ok {
		t.Fatal("expected the stale reading to be withheld")
	}
}

func TestTrackerForget(t *testing.T) {
	tracker := NewTracker(time.Second)

	if _, err := tracker.Update("session-1", "neutral", 60); err != nil {
		t.Fatalf("Update err: %v", err)
	}
	tracker.Forget("session-1")

	if _, ok := tracker.Latest("session-1"); ok {
		t.Fatal("expected no reading after Forget")
	}
}

func TestTrackerUnknownSession(t *testing.T) {
	tracker := NewTracker(time.Second)
	if _, ok := tracker.Latest("missing"); ok {
		t.Fatal("expected no reading for an unknown session")
	}
}
