package models

import "time"

// TestInfo echoes the exam definition the attempt ran under.
type TestInfo struct {
	ExamID               string        `bson:"exam_id" json:"examId"`
	Title                string        `bson:"title" json:"title"`
	ExamType             string        `bson:"exam_type" json:"examType"`
	TotalQuestions       int           `bson:"total_questions" json:"totalQuestions"`
	TotalDurationSeconds float64       `bson:"total_duration_seconds" json:"totalDurationSeconds"`
	MarkingScheme        MarkingScheme `bson:"marking_scheme" json:"markingScheme"`
}

// Performance is the scored outcome plus the attempted split.
type Performance struct {
	RawScore         float64 `bson:"raw_score" json:"rawScore"`
	MaxScore         float64 `bson:"max_score" json:"maxScore"`
	CorrectCount     int     `bson:"correct_count" json:"correctCount"`
	IncorrectCount   int     `bson:"incorrect_count" json:"incorrectCount"`
	UnattemptedCount int     `bson:"unattempted_count" json:"unattemptedCount"`
	AttemptedCount   int     `bson:"attempted_count" json:"attemptedCount"`
	AccuracyPercent  float64 `bson:"accuracy_percent" json:"accuracyPercent"`
	TimeTakenSeconds float64 `bson:"time_taken_seconds" json:"timeTakenSeconds"`
}

// AnswerRecord is one question's final state as shown on the review screen.
type AnswerRecord struct {
	QuestionID       string   `bson:"question_id" json:"questionId"`
	Subject          string   `bson:"subject" json:"subject"`
	SelectedValue    *float64 `bson:"selected_value" json:"selectedValue"`
	SelectedOptions  []int    `bson:"selected_options,omitempty" json:"selectedOptions,omitempty"`
	Outcome          string   `bson:"outcome" json:"outcome"`
	PointsEarned     float64  `bson:"points_earned" json:"pointsEarned"`
	TimeTakenSeconds float64  `bson:"time_taken_seconds" json:"timeTakenSeconds"`
	WasMarked        bool     `bson:"was_marked" json:"wasMarked"`
	WasVisited       bool     `bson:"was_visited" json:"wasVisited"`
}

// SubjectMetrics aggregates performance for one subject. TimeEstimated is
// set when per-subject time was unavailable and the total was distributed
// proportionally by question count instead.
type SubjectMetrics struct {
	Total                  int     `bson:"total" json:"total"`
	Attempted              int     `bson:"attempted" json:"attempted"`
	Correct                int     `bson:"correct" json:"correct"`
	Accuracy               float64 `bson:"accuracy" json:"accuracy"`
	TimeSpentSeconds       float64 `bson:"time_spent_seconds" json:"timeSpentSeconds"`
	AverageTimePerQuestion float64 `bson:"avg_time_per_question" json:"averageTimePerQuestion"`
	TimeEstimated          bool    `bson:"time_estimated" json:"timeEstimated"`
}

// TimeBucket is one band of the per-question time distribution. Share is
// the bucket's fraction of attempted questions.
type TimeBucket struct {
	Count int     `bson:"count" json:"count"`
	Share float64 `bson:"share" json:"share"`
}

type TimeDistribution struct {
	Quick    TimeBucket `bson:"quick" json:"quick"`
	Moderate TimeBucket `bson:"moderate" json:"moderate"`
	Lengthy  TimeBucket `bson:"lengthy" json:"lengthy"`
}

type TimeAnalytics struct {
	TotalTimeSeconds       float64          `bson:"total_time_seconds" json:"totalTimeSeconds"`
	AverageTimePerQuestion float64          `bson:"avg_time_per_question" json:"averageTimePerQuestion"`
	MedianTimePerQuestion  float64          `bson:"median_time_per_question" json:"medianTimePerQuestion"`
	TimeStdDevSeconds      float64          `bson:"time_std_dev_seconds" json:"timeStdDevSeconds"`
	Distribution           TimeDistribution `bson:"distribution" json:"distribution"`
}

// StrategyMetrics summarizes how the student worked through the paper.
// PaceConsistency is the coefficient of variation of per-question time
// (lower means steadier pacing).
type StrategyMetrics struct {
	QuestionsMarked    int     `bson:"questions_marked" json:"questionsMarked"`
	QuestionsRevisited int     `bson:"questions_revisited" json:"questionsRevisited"`
	TotalRevisits      int     `bson:"total_revisits" json:"totalRevisits"`
	AnswerChanges      int     `bson:"answer_changes" json:"answerChanges"`
	PaceConsistency    float64 `bson:"pace_consistency" json:"paceConsistency"`
}

type CompletionMetrics struct {
	TotalQuestions  int     `bson:"total_questions" json:"totalQuestions"`
	Attempted       int     `bson:"attempted" json:"attempted"`
	CompletionRate  float64 `bson:"completion_rate" json:"completionRate"`
	CompletionType  string  `bson:"completion_type" json:"completionType"`
	TimeUsedPercent float64 `bson:"time_used_percent" json:"timeUsedPercent"`
}

// Error pattern labels. These are heuristic attributions, not ground truth.
const (
	ErrorPatternConceptual     = "conceptual"
	ErrorPatternCalculation    = "calculation"
	ErrorPatternTimeManagement = "time_management"
	ErrorPatternCareless       = "careless"
)

type ErrorPattern struct {
	QuestionID       string  `bson:"question_id" json:"questionId"`
	Subject          string  `bson:"subject" json:"subject"`
	Pattern          string  `bson:"pattern" json:"pattern"`
	TimeTakenSeconds float64 `bson:"time_taken_seconds" json:"timeTakenSeconds"`
}

type ErrorAnalytics struct {
	TotalIncorrect int            `bson:"total_incorrect" json:"totalIncorrect"`
	Patterns       []ErrorPattern `bson:"patterns" json:"patterns"`
	PatternCounts  map[string]int `bson:"pattern_counts" json:"patternCounts"`
	Heuristic      bool           `bson:"heuristic" json:"heuristic"`
	Note           string         `bson:"note" json:"note"`
}

// ConfidenceBuckets groups question IDs by answering behavior.
type ConfidenceBuckets struct {
	QuickAnswers     []string `bson:"quick_answers" json:"quickAnswers"`
	LongDeliberation []string `bson:"long_deliberation" json:"longDeliberation"`
	MultipleRevision []string `bson:"multiple_revisions" json:"multipleRevisions"`
}

type BehavioralAnalytics struct {
	RevisitCounts      map[string]int     `bson:"revisit_counts" json:"revisitCounts"`
	HesitationSeconds  map[string]float64 `bson:"hesitation_seconds" json:"hesitationSeconds"`
	AnswerChangeCounts map[string]int     `bson:"answer_change_counts" json:"answerChangeCounts"`
	Confidence         ConfidenceBuckets  `bson:"confidence" json:"confidence"`
}

// NavigationEntry is one visit interval, replayed from the interaction log.
type NavigationEntry struct {
	QuestionID      string  `bson:"question_id" json:"questionId"`
	TimestampEnter  int64   `bson:"timestamp_enter" json:"timestampEnter"`
	TimestampLeave  int64   `bson:"timestamp_leave" json:"timestampLeave"`
	Action          string  `bson:"action" json:"action"`
	DurationSeconds float64 `bson:"duration_seconds" json:"durationSeconds"`
}

// AnalyticsSnapshot is everything the aggregator derives. It is recomputed
// on demand from the attempt plus the interaction log and is never a source
// of truth on its own.
type AnalyticsSnapshot struct {
	SubjectWise         map[string]SubjectMetrics `bson:"subject_wise" json:"subjectWise"`
	TimeAnalytics       TimeAnalytics             `bson:"time_analytics" json:"timeAnalytics"`
	StrategyMetrics     StrategyMetrics           `bson:"strategy_metrics" json:"strategyMetrics"`
	CompletionMetrics   CompletionMetrics         `bson:"completion_metrics" json:"completionMetrics"`
	ErrorAnalytics      ErrorAnalytics            `bson:"error_analytics" json:"errorAnalytics"`
	BehavioralAnalytics BehavioralAnalytics       `bson:"behavioral_analytics" json:"behavioralAnalytics"`
	NavigationHistory   []NavigationEntry         `bson:"navigation_history" json:"navigationHistory"`
}

// AttemptReport is the wire payload handed to the persistence layer after
// submission. Top-level JSON keys are fixed; the results screen renders
// this object directly.
type AttemptReport struct {
	ID                  string                    `bson:"_id,omitempty" json:"id"`
	AttemptID           string                    `bson:"attempt_id" json:"attemptId"`
	UserID              string                    `bson:"user_id" json:"userId"`
	TestInfo            TestInfo                  `bson:"test_info" json:"testInfo"`
	Performance         Performance               `bson:"performance" json:"performance"`
	Answers             []AnswerRecord            `bson:"answers" json:"answers"`
	SubjectWise         map[string]SubjectMetrics `bson:"subject_wise" json:"subjectWise"`
	TimeAnalytics       TimeAnalytics             `bson:"time_analytics" json:"timeAnalytics"`
	StrategyMetrics     StrategyMetrics           `bson:"strategy_metrics" json:"strategyMetrics"`
	CompletionMetrics   CompletionMetrics         `bson:"completion_metrics" json:"completionMetrics"`
	ErrorAnalytics      ErrorAnalytics            `bson:"error_analytics" json:"errorAnalytics"`
	BehavioralAnalytics BehavioralAnalytics       `bson:"behavioral_analytics" json:"behavioralAnalytics"`
	NavigationHistory   []NavigationEntry         `bson:"navigation_history" json:"navigationHistory"`
	CreatedAt           time.Time                 `bson:"created_at" json:"createdAt"`
}
