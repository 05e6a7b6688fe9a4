package face

import (
	"errors"
	"sync"
	"time"

	"github.com/soumya28022005/face-ditection-ai/internal/model/emotion"
)

var (
	ErrUnknownEmotion     = errors.New("unknown emotion label")
	ErrConfidenceOutRange = errors.New("confidence must be between 0 and 100")
)

const defaultStaleAfter = 3 * time.Second

// Tracker keeps the most recent face reading per session. The external
// classifier pushes readings every few hundred milliseconds; a reading is
// only served while it is fresh, so a closed webcam quietly degrades to the
// text-only path.
type Tracker struct {
	mu         sync.RWMutex
	latest     map[string]emotion.Reading
	staleAfter time.Duration
	now        func() time.Time
}

// NewTracker 创建表情观测缓存。staleAfter 为 0 时使用默认过期窗口。
func NewTracker(staleAfter time.Duration) *Tracker {
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	return &Tracker{
		latest:     make(map[string]emotion.Reading),
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Update validates and stores a pushed reading. Unknown labels and
// out-of-range confidences are rejected at this boundary so the comparison
// core only ever sees canonical readings.
func (t *Tracker) Update(sessionID, rawEmotion string, confidence int) (emotion.Reading, error) {
	label, ok := emotion.ParseLabel(rawEmotion)
	if !ok {
		return emotion.Reading{}, ErrUnknownEmotion
	}
	if confidence < 0 || confidence > 100 {
		return emotion.Reading{}, ErrConfidenceOutRange
	}

	reading := emotion.Reading{
		Emotion:    label,
		Confidence: confidence,
		Timestamp:  t.now().UTC(),
	}

	t.mu.Lock()
	t.latest[sessionID] = reading
	t.mu.Unlock()

	return reading, nil
}

// Latest returns the stored reading for the session if it is still fresh.
func (t *Tracker) Latest(sessionID string) (emotion.Reading, bool) {
	t.mu.RLock()
	reading, ok := t.latest[sessionID]
	t.mu.RUnlock()

	if !ok || t.now().Sub(reading.Timestamp) > t.staleAfter {
		return emotion.Reading{}, false
	}
	return reading, true
}

// Forget drops the stored reading for a session.
func (t *Tracker) Forget(sessionID string) {
	t.mu.Lock()
	delete(t.latest, sessionID)
	t.mu.Unlock()
}
