package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxQuestionScore is the highest score a single answer can receive.
const MaxQuestionScore = 10

// evaluationErrorMarker is the score text written for answers whose evaluation failed.
const evaluationErrorMarker = "Error in evaluation"

// ScoreEntry is the graded outcome of one question.
type ScoreEntry struct {
	Question string
	Answer   string
	// Score holds the raw text returned by the model, or "0" for an unanswered question.
	Score string
	// Failed marks an entry whose evaluation call failed.
	Failed bool
}

// Points returns the numeric contribution of the entry to the total score:
// the leading whitespace-delimited token of Score when it is made of ASCII
// digits only, otherwise zero. A digit token too large for an int counts as
// MaxQuestionScore.
func (e ScoreEntry) Points() int {
	if e.Failed {
		return 0
	}

	fields := strings.Fields(e.Score)
	if len(fields) == 0 || !isDigits(fields[0]) {
		return 0
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return MaxQuestionScore
	}
	return n
}

// DisplayScore is the score as presented and persisted.
func (e ScoreEntry) DisplayScore() string {
	if e.Failed {
		return evaluationErrorMarker
	}
	return e.Score
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// ScoreResult maps question text to its answer and score, in question order.
// Adding a question that is already present replaces the earlier entry in place.
type ScoreResult struct {
	entries []ScoreEntry
}

// Add records an entry.
func (r *ScoreResult) Add(e ScoreEntry) {
	for i := range r.entries {
		if r.entries[i].Question == e.Question {
			r.entries[i] = e
			return
		}
	}
	r.entries = append(r.entries, e)
}

// Entries returns a copy of the entries in insertion order.
func (r ScoreResult) Entries() []ScoreEntry {
	out := make([]ScoreEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Get looks up the entry for a question.
func (r ScoreResult) Get(question string) (ScoreEntry, bool) {
	for _, e := range r.entries {
		if e.Question == question {
			return e, true
		}
	}
	return ScoreEntry{}, false
}

// Len returns the number of entries.
func (r ScoreResult) Len() int {
	return len(r.entries)
}

// Total sums the points of all entries.
func (r ScoreResult) Total() int {
	total := 0
	for _, e := range r.entries {
		total += e.Points()
	}
	return total
}

type scoreValue struct {
	Answer string `json:"answer"`
	Score  string `json:"score"`
}

// MarshalJSON writes the result as an object keyed by question text,
// preserving question order.
func (r ScoreResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Question)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(scoreValue{Answer: e.Answer, Score: e.DisplayScore()})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form written by MarshalJSON.
func (r *ScoreResult) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		r.entries = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("score result: expected object, got %v", tok)
	}

	r.entries = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		question, ok := tok.(string)
		if !ok {
			return fmt.Errorf("score result: expected question key, got %v", tok)
		}

		var v scoreValue
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("score result: question %q: %w", question, err)
		}

		entry := ScoreEntry{Question: question, Answer: v.Answer, Score: v.Score}
		if v.Score == evaluationErrorMarker {
			entry.Score = ""
			entry.Failed = true
		}
		r.Add(entry)
	}

	_, err = dec.Token()
	return err
}

// ApplicationRecord is the finished, scored application of one candidate session.
type ApplicationRecord struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key" json:"application_id"`
	SessionID   string      `gorm:"type:text;index" json:"session_id"`
	JobID       string      `gorm:"type:text;index;not null" json:"selected_job"`
	Results     ScoreResult `gorm:"type:jsonb;serializer:json" json:"results"`
	TotalScore  int         `gorm:"not null" json:"total_score"`
	MaxScore    int         `gorm:"not null" json:"max_score"`
	SubmittedAt time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"submitted_at"`
}

func (ApplicationRecord) TableName() string {
	return "applications"
}

// NewApplicationRecord builds a record and computes its totals.
func NewApplicationRecord(sessionID, jobID string, results ScoreResult) *ApplicationRecord {
	return &ApplicationRecord{
		ID:          uuid.New(),
		SessionID:   sessionID,
		JobID:       jobID,
		Results:     results,
		TotalScore:  results.Total(),
		MaxScore:    results.Len() * MaxQuestionScore,
		SubmittedAt: time.Now(),
	}
}

// Summary renders the total the way it is shown to candidates.
func (r *ApplicationRecord) Summary() string {
	return fmt.Sprintf("Total Score: %d/%d", r.TotalScore, r.MaxScore)
}
