package models

import (
	"encoding/json"
	"testing"
)

func TestSessionRecord_DecodesGeneratorFeed(t *testing.T) {
	raw := []byte(`{
		"date": "2025-11-02 08:00:00",
		"record_id": "20251102_080000",
		"count": 2,
		"questions": [
			{"number": "LCR 031", "title": "LRU 缓存", "difficulty": "medium", "file": "q/1.html"},
			{"number": 42, "title": "Trapping Rain Water", "difficulty": "Hard", "file": "q/2.html"}
		]
	}`)

	var r SessionRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Timestamp != "2025-11-02 08:00:00" {
		t.Errorf("Expected timestamp from date key, got %q", r.Timestamp)
	}
	if r.Date() != "2025-11-02" || r.ClockTime() != "08:00:00" {
		t.Errorf("Unexpected date/time split: %q / %q", r.Date(), r.ClockTime())
	}
	if len(r.Questions) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(r.Questions))
	}
	if r.Questions[0].Number != "LCR 031" || r.Questions[1].Number != "42" {
		t.Errorf("Unexpected numbers: %q, %q", r.Questions[0].Number, r.Questions[1].Number)
	}
	if r.Questions[1].Difficulty != DifficultyHard {
		t.Errorf("Expected hard, got %s", r.Questions[1].Difficulty)
	}
}

func TestSessionRecord_EarlySchemaWithoutQuestions(t *testing.T) {
	var r SessionRecord
	if err := json.Unmarshal([]byte(`{"date":"2025-10-01 21:30:00","file":"20251001.html","count":3}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Questions == nil || len(r.Questions) != 0 {
		t.Errorf("Expected empty questions, got %#v", r.Questions)
	}
	if r.Count != 3 {
		t.Errorf("Expected count 3 to survive without questions, got %d", r.Count)
	}
}

func TestSessionRecord_TimestampKeyWins(t *testing.T) {
	var r SessionRecord
	if err := json.Unmarshal([]byte(`{"timestamp":"2025-01-02 03:04:05","date":"ignored","count":-4}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Timestamp != "2025-01-02 03:04:05" {
		t.Errorf("Expected timestamp key to win, got %q", r.Timestamp)
	}
	if r.Count != 0 {
		t.Errorf("Expected negative count to clamp to 0, got %d", r.Count)
	}
}

func TestSessionRecord_DateWithoutSpace(t *testing.T) {
	r := SessionRecord{Timestamp: "garbage"}
	if r.Date() != "garbage" {
		t.Errorf("Expected whole string as date, got %q", r.Date())
	}
	if r.ClockTime() != "" {
		t.Errorf("Expected empty clock time, got %q", r.ClockTime())
	}
}

func TestDifficulty_UnmarshalNeverFails(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Difficulty
	}{
		{"easy", `"easy"`, DifficultyEasy},
		{"chinese medium", `"中等"`, DifficultyMedium},
		{"upper hard", `"HARD"`, DifficultyHard},
		{"unrecognised", `"extreme"`, DifficultyUnknown},
		{"number", `3`, DifficultyUnknown},
		{"null", `null`, DifficultyUnknown},
		{"object", `{"level":"easy"}`, DifficultyUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var d Difficulty
			if err := json.Unmarshal([]byte(tc.raw), &d); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if d != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, d)
			}
		})
	}
}

func TestDifficulty_MissingFieldIsUnknown(t *testing.T) {
	var q QuestionSummary
	if err := json.Unmarshal([]byte(`{"number":1,"title":"Two Sum"}`), &q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Difficulty != DifficultyUnknown || q.Difficulty.Label() != "Unknown" {
		t.Errorf("Expected unknown difficulty, got %s (%s)", q.Difficulty, q.Difficulty.Label())
	}

	out, _ := json.Marshal(q)
	var back map[string]interface{}
	json.Unmarshal(out, &back)
	if back["difficulty"] != "unknown" {
		t.Errorf("Expected difficulty to encode as \"unknown\", got %v", back["difficulty"])
	}
}

func TestDetectDifficulty(t *testing.T) {
	if DetectDifficulty("难度：简单") != DifficultyEasy {
		t.Errorf("Expected easy from chinese label")
	}
	if DetectDifficulty("Difficulty: Medium") != DifficultyMedium {
		t.Errorf("Expected medium")
	}
	if DetectDifficulty("no label here") != DifficultyUnknown {
		t.Errorf("Expected unknown")
	}
}
