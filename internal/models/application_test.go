package models

import (
	"encoding/json"
	"testing"
)

func TestScoreResultTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scores []string
		failed map[int]bool
		expect int
	}{
		{
			name:   "mixed scores",
			scores: []string{"7", "Error in evaluation", "10 - solid answer", ""},
			expect: 17,
		},
		{
			name:   "failed entries contribute nothing",
			scores: []string{"8", "9"},
			failed: map[int]bool{1: true},
			expect: 8,
		},
		{
			name:   "leading token must be digits only",
			scores: []string{"7/10", "  6  ", "-3", "score: 5"},
			expect: 6,
		},
		{
			name:   "overflowing digits count as the maximum",
			scores: []string{"99999999999999999999", "3"},
			expect: MaxQuestionScore + 3,
		},
		{
			name:   "empty result",
			expect: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var r ScoreResult
			for i, s := range tt.scores {
				r.Add(ScoreEntry{Question: string(rune('a' + i)), Score: s, Failed: tt.failed[i]})
			}

			if got := r.Total(); got != tt.expect {
				t.Fatalf("expected total %d, got %d", tt.expect, got)
			}
		})
	}
}

func TestScoreResultCollapsesDuplicateQuestions(t *testing.T) {
	var r ScoreResult
	r.Add(ScoreEntry{Question: "q1", Answer: "first", Score: "3"})
	r.Add(ScoreEntry{Question: "q2", Answer: "other", Score: "4"})
	r.Add(ScoreEntry{Question: "q1", Answer: "second", Score: "9"})

	if r.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", r.Len())
	}

	entries := r.Entries()
	if entries[0].Question != "q1" || entries[0].Answer != "second" {
		t.Fatalf("expected q1 to be replaced in place, got %+v", entries[0])
	}
}

func TestScoreResultJSONKeepsOrder(t *testing.T) {
	var r ScoreResult
	r.Add(ScoreEntry{Question: "Why Go?", Answer: "Simplicity", Score: "8"})
	r.Add(ScoreEntry{Question: "Explain SQL joins", Answer: "", Score: "0"})
	r.Add(ScoreEntry{Question: "Docker layers?", Answer: "cache", Failed: true})

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	expected := `{"Why Go?":{"answer":"Simplicity","score":"8"},"Explain SQL joins":{"answer":"","score":"0"},"Docker layers?":{"answer":"cache","score":"Error in evaluation"}}`
	if string(data) != expected {
		t.Fatalf("unexpected json:\n%s", data)
	}

	var decoded ScoreResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	entries := decoded.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Question != "Why Go?" || entries[2].Question != "Docker layers?" {
		t.Fatalf("order not preserved: %+v", entries)
	}
	if !entries[2].Failed {
		t.Fatalf("expected failed marker to be restored")
	}
}

func TestNewApplicationRecordComputesTotals(t *testing.T) {
	var r ScoreResult
	for i, s := range []string{"6", "8", "7", "9", "10"} {
		r.Add(ScoreEntry{Question: string(rune('A' + i)), Answer: "x", Score: s})
	}

	record := NewApplicationRecord("session-1", "job_1234abcd", r)

	if record.TotalScore != 40 {
		t.Fatalf("expected total 40, got %d", record.TotalScore)
	}
	if record.MaxScore != 50 {
		t.Fatalf("expected max 50, got %d", record.MaxScore)
	}
	if record.JobID != "job_1234abcd" {
		t.Fatalf("unexpected job id %q", record.JobID)
	}
}
