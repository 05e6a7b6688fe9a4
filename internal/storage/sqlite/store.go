package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/soumya28022005/face-ditection-ai/internal/model/chat"
	"github.com/soumya28022005/face-ditection-ai/internal/model/emotion"
)

// Store persists conversation turns and daily emotion counters in SQLite.
type Store struct {
	db *sql.DB
}

// Open 打开（必要时创建）数据库文件并执行迁移。
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite works best with a single writer connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS conversation_turns (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			user_text TEXT NOT NULL,
			ai_response TEXT NOT NULL,
			text_emotion TEXT NOT NULL,
			text_confidence INTEGER NOT NULL,
			text_dismissive INTEGER NOT NULL DEFAULT 0,
			face_emotion TEXT,
			face_confidence INTEGER,
			is_match INTEGER NOT NULL,
			concerning_mismatch INTEGER NOT NULL,
			hiding_feelings INTEGER NOT NULL,
			primary_emotion TEXT NOT NULL,
			severity INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_session ON conversation_turns(session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS daily_summary (
			day TEXT PRIMARY KEY,
			happy INTEGER NOT NULL DEFAULT 0,
			sad INTEGER NOT NULL DEFAULT 0,
			angry INTEGER NOT NULL DEFAULT 0,
			neutral INTEGER NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range migrations {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}
	return nil
}

// SaveTurn inserts one analyzed exchange as flat columns.
func (s *Store) SaveTurn(ctx context.Context, turn chat.Turn) error {
	faceEmotion := sql.NullString{}
	faceConfidence := sql.NullInt64{}
	if turn.Face != nil {
		faceEmotion = sql.NullString{String: string(turn.Face.Emotion), Valid: true}
		faceConfidence = sql.NullInt64{Int64: int64(turn.Face.Confidence), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversation_turns (
			id, session_id, user_text, ai_response,
			text_emotion, text_confidence, text_dismissive,
			face_emotion, face_confidence,
			is_match, concerning_mismatch, hiding_feelings, primary_emotion, severity,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		turn.ID, turn.SessionID, turn.UserText, turn.AIResponse,
		string(turn.Text.Emotion), turn.Text.Confidence, boolToInt(turn.Text.Dismissive),
		faceEmotion, faceConfidence,
		boolToInt(turn.Analysis.Match), boolToInt(turn.Analysis.ConcerningMismatch),
		boolToInt(turn.Analysis.HidingFeelings), string(turn.Analysis.PrimaryEmotion),
		turn.Analysis.Severity, turn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

// ListTurns returns the session's turns, oldest first. limit <= 0 means all;
// a positive limit keeps the most recent N turns, still in chronological
// order.
func (s *Store) ListTurns(ctx context.Context, sessionID string, limit int) ([]chat.Turn, error) {
	if limit <= 0 {
		limit = -1
	}

	// 先按时间倒序截取最近的 N 条，再翻回正序输出。
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, user_text, ai_response,
			text_emotion, text_confidence, text_dismissive,
			face_emotion, face_confidence,
			is_match, concerning_mismatch, hiding_feelings, primary_emotion, severity,
			created_at
		FROM (
			SELECT * FROM conversation_turns
			WHERE session_id = ?
			ORDER BY created_at DESC
			LIMIT ?
		)
		ORDER BY created_at ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []chat.Turn
	for rows.Next() {
		var (
			turn           chat.Turn
			textEmotion    string
			textDismissive int
			faceEmotion    sql.NullString
			faceConfidence sql.NullInt64
			match          int
			concerning     int
			hiding         int
			primary        string
			createdAt      time.Time
		)
		if err := rows.Scan(
			&turn.ID, &turn.SessionID, &turn.UserText, &turn.AIResponse,
			&textEmotion, &turn.Text.Confidence, &textDismissive,
			&faceEmotion, &faceConfidence,
			&match, &concerning, &hiding, &primary, &turn.Analysis.Severity,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}

		turn.Text.Emotion = emotion.Label(textEmotion)
		turn.Text.Dismissive = textDismissive != 0
		turn.Text.Timestamp = createdAt
		if faceEmotion.Valid {
			turn.Face = &emotion.Reading{
				Emotion:    emotion.Label(faceEmotion.String),
				Confidence: int(faceConfidence.Int64),
				Timestamp:  createdAt,
			}
		}
		turn.Analysis.Match = match != 0
		turn.Analysis.Mismatch = match == 0
		turn.Analysis.ConcerningMismatch = concerning != 0
		turn.Analysis.HidingFeelings = hiding != 0
		turn.Analysis.PrimaryEmotion = emotion.Label(primary)
		turn.CreatedAt = createdAt

		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}
	return turns, nil
}

// IncrementDaily bumps one coarse counter for the given day, creating the
// row on first use. Exactly one increment per analyzed message.
func (s *Store) IncrementDaily(ctx context.Context, day string, label emotion.Label) error {
	column, ok := summaryColumn(label)
	if !ok {
		return fmt.Errorf("no daily summary column for emotion %q", label)
	}

	query := fmt.Sprintf(
		`INSERT INTO daily_summary (day, %s) VALUES (?, 1)
		ON CONFLICT(day) DO UPDATE SET %s = %s + 1`,
		column, column, column,
	)
	if _, err := s.db.ExecContext(ctx, query, day); err != nil {
		return fmt.Errorf("increment daily counter: %w", err)
	}
	return nil
}

// GetDailySummary returns the counters for a day; an unseen day yields zeros.
func (s *Store) GetDailySummary(ctx context.Context, day string) (chat.DailySummary, error) {
	summary := chat.DailySummary{Day: day}
	err := s.db.QueryRowContext(ctx,
		`SELECT happy, sad, angry, neutral FROM daily_summary WHERE day = ?`, day,
	).Scan(&summary.Happy, &summary.Sad, &summary.Angry, &summary.Neutral)
	if err == sql.ErrNoRows {
		return summary, nil
	}
	if err != nil {
		return chat.DailySummary{}, fmt.Errorf("get daily summary: %w", err)
	}
	return summary, nil
}

// summaryColumn maps a coarse label onto its fixed column name. The label is
// never interpolated into SQL directly.
func summaryColumn(label emotion.Label) (string, bool) {
	switch label {
	case emotion.Happy:
		return "happy", true
	case emotion.Sad:
		return "sad", true
	case emotion.Angry:
		return "angry", true
	case emotion.Neutral:
		return "neutral", true
	default:
		return "", false
	}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
