package models

import "time"

// Attempt lifecycle. Once an attempt is completed it never leaves that
// state; every later mutation is a no-op.
const (
	AttemptNotStarted = "not_started"
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
)

// How an attempt reached the completed state.
const (
	CompletionManual      = "manual"
	CompletionTimeExpired = "time_expired"
)

// Display status derived from QuestionState. Never stored.
const (
	StatusNotVisited        = "not_visited"
	StatusNotAnswered       = "not_answered"
	StatusAnswered          = "answered"
	StatusMarkedForReview   = "marked_for_review"
	StatusAnsweredAndMarked = "answered_and_marked"
)

// QuestionState is the per-question interaction state owned by the attempt
// store while the attempt is live. SelectedValue carries the chosen option
// index for choice questions and the entered value for numerical ones; nil
// means unattempted. SelectedOptions is used only by multi-choice questions.
type QuestionState struct {
	SelectedValue    *float64 `bson:"selected_value" json:"selected_value"`
	SelectedOptions  []int    `bson:"selected_options,omitempty" json:"selected_options,omitempty"`
	IsMarked         bool     `bson:"is_marked" json:"is_marked"`
	IsVisited        bool     `bson:"is_visited" json:"is_visited"`
	TimeTakenSeconds float64  `bson:"time_taken_seconds" json:"time_taken_seconds"`
}

// Answered reports whether the student currently has a selection in place.
func (s QuestionState) Answered() bool {
	return s.SelectedValue != nil || len(s.SelectedOptions) > 0
}

// AttemptQuestion pairs a question with the student's interaction state.
type AttemptQuestion struct {
	Question Question      `bson:"question" json:"question"`
	State    QuestionState `bson:"state" json:"state"`
}

// ScoreResult is produced exactly once, at the in_progress -> completed
// transition, and is immutable afterwards.
type ScoreResult struct {
	RawScore         float64 `bson:"raw_score" json:"raw_score"`
	CorrectCount     int     `bson:"correct_count" json:"correct_count"`
	IncorrectCount   int     `bson:"incorrect_count" json:"incorrect_count"`
	UnattemptedCount int     `bson:"unattempted_count" json:"unattempted_count"`
	AccuracyPercent  float64 `bson:"accuracy_percent" json:"accuracy_percent"`
	TimeTakenSeconds float64 `bson:"time_taken_seconds" json:"time_taken_seconds"`
}

// Attempt is one student's run through an exam, from start to submission.
// ActiveQuestionIndex is always a valid index into Questions unless the
// attempt has zero questions.
type Attempt struct {
	ID                   string            `bson:"_id,omitempty" json:"id"`
	ExamID               string            `bson:"exam_id" json:"exam_id"`
	UserID               string            `bson:"user_id" json:"user_id"`
	Questions            []AttemptQuestion `bson:"questions" json:"questions"`
	ActiveQuestionIndex  int               `bson:"active_question_index" json:"active_question_index"`
	TotalDurationSeconds float64           `bson:"total_duration_seconds" json:"total_duration_seconds"`
	RemainingSeconds     float64           `bson:"remaining_seconds" json:"remaining_seconds"`
	MarkingScheme        MarkingScheme     `bson:"marking_scheme" json:"marking_scheme"`
	Status               string            `bson:"status" json:"status"`
	CompletionType       string            `bson:"completion_type,omitempty" json:"completion_type,omitempty"`
	Score                *ScoreResult      `bson:"score,omitempty" json:"score,omitempty"`
	StartedAt            *time.Time        `bson:"started_at,omitempty" json:"started_at,omitempty"`
	CompletedAt          *time.Time        `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt            time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time         `bson:"updated_at" json:"updated_at"`
}
