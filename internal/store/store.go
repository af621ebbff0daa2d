// Package store persists flashcards, mentor state and note analyses in a
// local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eoinhurrell/mindmeld/internal/model"
)

// Memory opens a private in-memory database
const Memory = ":memory:"

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS flashcards (
	id TEXT PRIMARY KEY,
	note_id TEXT NOT NULL,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	hint TEXT NOT NULL DEFAULT '',
	difficulty INTEGER NOT NULL,
	learned INTEGER NOT NULL DEFAULT 0,
	last_reviewed TEXT,
	review_count INTEGER NOT NULL DEFAULT 0,
	mastery_level INTEGER NOT NULL DEFAULT 0,
	next_review_due TEXT NOT NULL,
	category TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_flashcards_note ON flashcards(note_id);
CREATE INDEX IF NOT EXISTS idx_flashcards_due ON flashcards(next_review_due);

CREATE TABLE IF NOT EXISTS mentor_state (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	data TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
	note_id TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	data TEXT NOT NULL
);
`

// Store is a SQLite-backed repository
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and applies the schema
func Open(ctx context.Context, path string) (*Store, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection serialises writers and keeps an in-memory database alive.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("configuring database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Path is the database location
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

const upsertFlashcard = `
INSERT INTO flashcards (id, note_id, question, answer, hint, difficulty, learned,
	last_reviewed, review_count, mastery_level, next_review_due, category, tags)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	note_id = excluded.note_id,
	question = excluded.question,
	answer = excluded.answer,
	hint = excluded.hint,
	difficulty = excluded.difficulty,
	learned = excluded.learned,
	last_reviewed = excluded.last_reviewed,
	review_count = excluded.review_count,
	mastery_level = excluded.mastery_level,
	next_review_due = excluded.next_review_due,
	category = excluded.category,
	tags = excluded.tags`

const selectFlashcards = `
SELECT id, note_id, question, answer, hint, difficulty, learned, last_reviewed,
	review_count, mastery_level, next_review_due, category, tags
FROM flashcards`

// SaveFlashcards inserts or updates cards in one transaction
func (s *Store) SaveFlashcards(ctx context.Context, cards []model.Flashcard) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return upsertCards(ctx, tx, cards)
	})
}

// ReplaceNoteFlashcards swaps every card of noteID for cards
func (s *Store) ReplaceNoteFlashcards(ctx context.Context, noteID string, cards []model.Flashcard) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM flashcards WHERE note_id = ?", noteID); err != nil {
			return fmt.Errorf("deleting flashcards: %w", err)
		}
		return upsertCards(ctx, tx, cards)
	})
}

// DeleteNoteFlashcards removes the cards generated from noteID and reports
// how many were deleted
func (s *Store) DeleteNoteFlashcards(ctx context.Context, noteID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM flashcards WHERE note_id = ?", noteID)
	if err != nil {
		return 0, fmt.Errorf("deleting flashcards: %w", err)
	}
	return res.RowsAffected()
}

// Flashcards returns every card, soonest due first
func (s *Store) Flashcards(ctx context.Context) ([]model.Flashcard, error) {
	rows, err := s.db.QueryContext(ctx, selectFlashcards+" ORDER BY next_review_due, id")
	if err != nil {
		return nil, fmt.Errorf("querying flashcards: %w", err)
	}
	defer rows.Close()

	cards := []model.Flashcard{}
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading flashcards: %w", err)
	}
	return cards, nil
}

// Flashcard loads one card by id
func (s *Store) Flashcard(ctx context.Context, id string) (model.Flashcard, error) {
	row := s.db.QueryRowContext(ctx, selectFlashcards+" WHERE id = ?", id)
	c, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Flashcard{}, fmt.Errorf("flashcard %q: %w", id, ErrNotFound)
	}
	return c, err
}

// LoadState returns the saved mentor state, or a fresh one
func (s *Store) LoadState(ctx context.Context) (model.MentorState, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM mentor_state WHERE id = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewMentorState(), nil
	}
	if err != nil {
		return model.MentorState{}, fmt.Errorf("loading mentor state: %w", err)
	}

	state := model.NewMentorState()
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return model.MentorState{}, fmt.Errorf("decoding mentor state: %w", err)
	}
	return state, nil
}

// SaveState replaces the saved mentor state
func (s *Store) SaveState(ctx context.Context, state model.MentorState, now time.Time) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding mentor state: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO mentor_state (id, data, updated_at) VALUES (1, ?, ?)
ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data), formatTime(now))
	if err != nil {
		return fmt.Errorf("saving mentor state: %w", err)
	}
	return nil
}

// SaveAnalysis records the analysis of a note's content under its hash
func (s *Store) SaveAnalysis(ctx context.Context, noteID, contentHash string, a model.ContentAnalysis) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding analysis: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO analyses (note_id, content_hash, data) VALUES (?, ?, ?)
ON CONFLICT(note_id) DO UPDATE SET content_hash = excluded.content_hash, data = excluded.data`,
		noteID, contentHash, string(data))
	if err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}
	return nil
}

// Analysis returns the stored analysis of noteID. ok is false when none is
// stored or the content has changed since.
func (s *Store) Analysis(ctx context.Context, noteID, contentHash string) (model.ContentAnalysis, bool, error) {
	var hash, data string
	err := s.db.QueryRowContext(ctx, "SELECT content_hash, data FROM analyses WHERE note_id = ?", noteID).Scan(&hash, &data)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && hash != contentHash) {
		return model.ContentAnalysis{}, false, nil
	}
	if err != nil {
		return model.ContentAnalysis{}, false, fmt.Errorf("loading analysis: %w", err)
	}

	var a model.ContentAnalysis
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return model.ContentAnalysis{}, false, fmt.Errorf("decoding analysis: %w", err)
	}
	return a, true, nil
}

// DeleteNote removes everything derived from noteID
func (s *Store) DeleteNote(ctx context.Context, noteID string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{
			"DELETE FROM flashcards WHERE note_id = ?",
			"DELETE FROM analyses WHERE note_id = ?",
		} {
			if _, err := tx.ExecContext(ctx, q, noteID); err != nil {
				return fmt.Errorf("deleting note data: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func upsertCards(ctx context.Context, tx *sql.Tx, cards []model.Flashcard) error {
	stmt, err := tx.PrepareContext(ctx, upsertFlashcard)
	if err != nil {
		return fmt.Errorf("preparing flashcard insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cards {
		tags, err := json.Marshal(nonNil(c.Tags))
		if err != nil {
			return fmt.Errorf("encoding tags: %w", err)
		}
		var lastReviewed sql.NullString
		if c.LastReviewed != nil {
			lastReviewed = sql.NullString{String: formatTime(*c.LastReviewed), Valid: true}
		}
		_, err = stmt.ExecContext(ctx,
			c.ID, c.NoteID, c.Question, c.Answer, c.Hint, c.Difficulty, c.Learned,
			lastReviewed, c.ReviewCount, c.MasteryLevel, formatTime(c.NextReviewDue),
			string(c.Category), string(tags))
		if err != nil {
			return fmt.Errorf("saving flashcard %s: %w", c.ID, err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row scanner) (model.Flashcard, error) {
	var (
		c            model.Flashcard
		lastReviewed sql.NullString
		due          string
		category     string
		tags         string
	)
	err := row.Scan(&c.ID, &c.NoteID, &c.Question, &c.Answer, &c.Hint, &c.Difficulty, &c.Learned,
		&lastReviewed, &c.ReviewCount, &c.MasteryLevel, &due, &category, &tags)
	if errors.Is(err, sql.ErrNoRows) {
		return c, err
	}
	if err != nil {
		return c, fmt.Errorf("scanning flashcard: %w", err)
	}

	if c.NextReviewDue, err = parseTime(due); err != nil {
		return c, err
	}
	if lastReviewed.Valid {
		t, err := parseTime(lastReviewed.String)
		if err != nil {
			return c, err
		}
		c.LastReviewed = &t
	}
	c.Category = model.Category(category)
	if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
		return c, fmt.Errorf("decoding tags: %w", err)
	}
	return c, nil
}

// Times are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored time %q: %w", s, err)
	}
	return t, nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
