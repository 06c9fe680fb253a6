// Package normalize repairs externally sourced attempt data before the
// analytics aggregator runs over it. Historical attempts arrive from the
// persistence layer as loosely shaped documents: fields go missing, time
// totals show up in milliseconds, cached summaries go stale. This layer
// fills structurally valid defaults, re-derives summaries from the raw
// answer array, and refuses to proceed on recognizably corrupt records.
package normalize

import (
	"fmt"
	"strconv"

	"attempt-service/internal/models"
	"attempt-service/internal/scoring"
)

// MalformedAttemptDataError marks upstream data too corrupt to repair. It
// propagates to the caller verbatim so the UI can show an explicit data
// error instead of a wrong score.
type MalformedAttemptDataError struct {
	Reason string
}

func (e *MalformedAttemptDataError) Error() string {
	return "malformed attempt data: " + e.Reason
}

// Config controls the unit-repair heuristic. Attempt-level time totals
// above MaxPlausibleSeconds are assumed to be milliseconds and divided by
// 1000; no real attempt runs longer than a few hours.
type Config struct {
	MaxPlausibleSeconds float64
}

func DefaultConfig() Config {
	return Config{MaxPlausibleSeconds: 10800}
}

// Seconds repairs a duration that may have arrived in milliseconds.
func Seconds(v float64, cfg Config) float64 {
	if v > cfg.MaxPlausibleSeconds {
		return v / 1000
	}
	if v < 0 {
		return 0
	}
	return v
}

// AttemptFromDocument rebuilds an Attempt value from a decoded document
// (JSON or BSON). Missing sub-objects get structurally valid defaults; a
// missing marking scheme falls back to the platform default; a missing or
// inconsistent score summary is re-derived from the raw answers rather
// than trusted.
func AttemptFromDocument(doc map[string]any, cfg Config) (*models.Attempt, error) {
	if doc == nil {
		return nil, &MalformedAttemptDataError{Reason: "nil attempt document"}
	}

	a := &models.Attempt{
		ID:     asString(doc["id"]),
		ExamID: asString(doc["exam_id"]),
		UserID: asString(doc["user_id"]),
		Status: asString(doc["status"]),
	}
	if a.ID == "" {
		a.ID = asString(doc["_id"])
	}

	questions, err := questionEntries(doc["questions"], cfg)
	if err != nil {
		return nil, err
	}
	a.Questions = questions

	if duration, ok := asFloat(doc["total_duration_seconds"]); ok {
		a.TotalDurationSeconds = Seconds(duration, cfg)
	}
	if remaining, ok := asFloat(doc["remaining_seconds"]); ok {
		a.RemainingSeconds = Seconds(remaining, cfg)
	}
	if a.RemainingSeconds > a.TotalDurationSeconds {
		a.RemainingSeconds = a.TotalDurationSeconds
	}

	a.MarkingScheme = markingScheme(doc["marking_scheme"])
	a.CompletionType = asString(doc["completion_type"])

	if a.Status == "" {
		// Historical documents predate the status field; anything fetched
		// for review is a finished attempt.
		a.Status = models.AttemptCompleted
	}

	if idx, ok := asFloat(doc["active_question_index"]); ok {
		i := int(idx)
		if i >= 0 && i < len(a.Questions) {
			a.ActiveQuestionIndex = i
		}
	}

	if a.Status == models.AttemptCompleted {
		score := rescue(doc["score"], cfg)
		if score == nil || !summaryConsistent(*score, len(a.Questions)) {
			derived := scoring.Score(a.Questions, a.MarkingScheme, a.TotalDurationSeconds, a.RemainingSeconds)
			score = &derived
		}
		a.Score = score
	}
	return a, nil
}

// CheckRecordShape rejects records whose keys are purely numeric-indexed,
// the signature of an upstream serializer flattening an object into its
// array form. Such a record cannot be mapped back to named fields.
func CheckRecordShape(record map[string]any) error {
	if len(record) == 0 {
		return nil
	}
	for key := range record {
		if _, err := strconv.Atoi(key); err != nil {
			return nil
		}
	}
	return &MalformedAttemptDataError{Reason: "question record uses numeric-indexed keys instead of named fields"}
}

func questionEntries(raw any, cfg Config) ([]models.AttemptQuestion, error) {
	if raw == nil {
		return []models.AttemptQuestion{}, nil
	}
	list, ok := asSlice(raw)
	if !ok {
		return nil, &MalformedAttemptDataError{Reason: "questions is not a list"}
	}

	out := make([]models.AttemptQuestion, 0, len(list))
	for i, item := range list {
		record, ok := asMap(item)
		if !ok {
			return nil, &MalformedAttemptDataError{Reason: fmt.Sprintf("question record %d is not an object", i)}
		}
		if err := CheckRecordShape(record); err != nil {
			return nil, err
		}

		var aq models.AttemptQuestion
		if qm, ok := asMap(record["question"]); ok {
			if err := CheckRecordShape(qm); err != nil {
				return nil, err
			}
			aq.Question = question(qm)
		} else {
			// Flat records carry the question fields at the top level.
			aq.Question = question(record)
		}
		if sm, ok := asMap(record["state"]); ok {
			aq.State = questionState(sm, cfg)
		}
		out = append(out, aq)
	}
	return out, nil
}

func question(m map[string]any) models.Question {
	q := models.Question{
		ID:         asString(m["id"]),
		Content:    asString(m["content"]),
		Type:       asString(m["type"]),
		Subject:    asString(m["subject"]),
		Difficulty: asString(m["difficulty"]),
		ExamType:   asString(m["exam_type"]),
	}
	if q.ID == "" {
		q.ID = asString(m["_id"])
	}
	if v, ok := asFloat(m["correct_option"]); ok {
		idx := int(v)
		q.CorrectOption = &idx
	}
	if list, ok := asSlice(m["correct_options"]); ok {
		for _, item := range list {
			if v, ok := asFloat(item); ok {
				q.CorrectOptions = append(q.CorrectOptions, int(v))
			}
		}
	}
	if nm, ok := asMap(m["numerical_answer"]); ok {
		na := &models.NumericalAnswer{Unit: asString(nm["unit"])}
		if v, ok := asFloat(nm["exact_value"]); ok {
			na.ExactValue = v
		}
		if v, ok := asFloat(nm["range_min"]); ok {
			na.RangeMin = &v
		}
		if v, ok := asFloat(nm["range_max"]); ok {
			na.RangeMax = &v
		}
		q.NumericalAnswer = na
	}
	return q
}

func questionState(m map[string]any, cfg Config) models.QuestionState {
	st := models.QuestionState{}
	if v, ok := asFloat(m["selected_value"]); ok {
		st.SelectedValue = &v
	} else if v, ok := asFloat(m["selected_option"]); ok {
		st.SelectedValue = &v
	}
	if list, ok := asSlice(m["selected_options"]); ok {
		for _, item := range list {
			if v, ok := asFloat(item); ok {
				st.SelectedOptions = append(st.SelectedOptions, int(v))
			}
		}
	}
	st.IsMarked, _ = m["is_marked"].(bool)
	st.IsVisited, _ = m["is_visited"].(bool)
	if v, ok := asFloat(m["time_taken_seconds"]); ok {
		st.TimeTakenSeconds = Seconds(v, cfg)
	}
	if st.Answered() {
		st.IsVisited = true
	}
	return st
}

func markingScheme(raw any) models.MarkingScheme {
	m, ok := asMap(raw)
	if !ok {
		return models.DefaultMarkingScheme()
	}
	scheme := models.DefaultMarkingScheme()
	if v, ok := asFloat(m["correct"]); ok {
		scheme.Correct = v
	}
	if v, ok := asFloat(m["incorrect"]); ok {
		scheme.Incorrect = v
	}
	if v, ok := asFloat(m["unattempted"]); ok {
		scheme.Unattempted = v
	}
	return scheme
}

func rescue(raw any, cfg Config) *models.ScoreResult {
	m, ok := asMap(raw)
	if !ok {
		return nil
	}
	s := models.ScoreResult{}
	if v, ok := asFloat(m["raw_score"]); ok {
		s.RawScore = v
	}
	if v, ok := asFloat(m["correct_count"]); ok {
		s.CorrectCount = int(v)
	}
	if v, ok := asFloat(m["incorrect_count"]); ok {
		s.IncorrectCount = int(v)
	}
	if v, ok := asFloat(m["unattempted_count"]); ok {
		s.UnattemptedCount = int(v)
	}
	if v, ok := asFloat(m["accuracy_percent"]); ok {
		s.AccuracyPercent = v
	}
	if v, ok := asFloat(m["time_taken_seconds"]); ok {
		s.TimeTakenSeconds = Seconds(v, cfg)
	}
	return &s
}

// summaryConsistent checks the cached summary against the raw answer
// array; a summary whose counts do not cover the paper is stale.
func summaryConsistent(s models.ScoreResult, totalQuestions int) bool {
	if totalQuestions == 0 {
		return true
	}
	return s.CorrectCount+s.IncorrectCount+s.UnattemptedCount == totalQuestions
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	default:
		return nil, false
	}
}
