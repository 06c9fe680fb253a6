package models

import "time"

// MarkingScheme holds the per-outcome point values used at submission.
type MarkingScheme struct {
	Correct     float64 `bson:"correct" json:"correct"`
	Incorrect   float64 `bson:"incorrect" json:"incorrect"`
	Unattempted float64 `bson:"unattempted" json:"unattempted"`
}

// DefaultMarkingScheme matches the common +4/-1/0 exam convention and is
// applied when an exam document carries no scheme of its own.
func DefaultMarkingScheme() MarkingScheme {
	return MarkingScheme{Correct: 4, Incorrect: -1, Unattempted: 0}
}

// Exam is the test definition that seeds attempts: which questions, how
// long, and how answers are marked.
type Exam struct {
	ID                   string        `bson:"_id,omitempty" json:"id"`
	Title                string        `bson:"title" json:"title"`
	Description          string        `bson:"description" json:"description"`
	ExamType             string        `bson:"exam_type" json:"exam_type"`
	QuestionIDs          []string      `bson:"question_ids" json:"question_ids"`
	TotalDurationSeconds float64       `bson:"total_duration_seconds" json:"total_duration_seconds"`
	MarkingScheme        MarkingScheme `bson:"marking_scheme" json:"marking_scheme"`
	Status               string        `bson:"status" json:"status"`
	CreatedAt            time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time     `bson:"updated_at" json:"updated_at"`
}
