package analytics

import (
	"math"
	"reflect"
	"testing"

	"attempt-service/internal/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// question builds a single-choice question whose correct option is 0.
func question(id, subject string) models.Question {
	return models.Question{
		ID:            id,
		Subject:       subject,
		Type:          models.QuestionTypeSingleChoice,
		CorrectOption: iptr(0),
	}
}

func answeredState(selected, timeTaken float64) models.QuestionState {
	return models.QuestionState{
		SelectedValue:    fptr(selected),
		IsVisited:        true,
		TimeTakenSeconds: timeTaken,
	}
}

func completedAttempt(questions []models.AttemptQuestion, timeTaken float64) models.Attempt {
	return models.Attempt{
		ID:                   "a1",
		Questions:            questions,
		TotalDurationSeconds: 600,
		MarkingScheme:        models.DefaultMarkingScheme(),
		Status:               models.AttemptCompleted,
		CompletionType:       models.CompletionManual,
		Score:                &models.ScoreResult{TimeTakenSeconds: timeTaken},
	}
}

func TestSubjectTimeProportionalFallback(t *testing.T) {
	// 6 mathematics and 4 physics questions with no recorded per-question
	// time; the 100s attempt total should split 60/40 and be flagged.
	var questions []models.AttemptQuestion
	for i := 0; i < 6; i++ {
		questions = append(questions, models.AttemptQuestion{Question: question("m", "mathematics")})
	}
	for i := 0; i < 4; i++ {
		questions = append(questions, models.AttemptQuestion{Question: question("p", "physics")})
	}
	a := completedAttempt(questions, 100)

	snap := NewAggregator(nil).Snapshot(a, nil)

	math := snap.SubjectWise["mathematics"]
	physics := snap.SubjectWise["physics"]
	if !almostEqual(math.TimeSpentSeconds, 60) {
		t.Errorf("mathematics TimeSpentSeconds = %v, want 60", math.TimeSpentSeconds)
	}
	if !almostEqual(physics.TimeSpentSeconds, 40) {
		t.Errorf("physics TimeSpentSeconds = %v, want 40", physics.TimeSpentSeconds)
	}
	if !math.TimeEstimated || !physics.TimeEstimated {
		t.Error("estimated subject times must be flagged TimeEstimated")
	}
}

func TestSubjectTimeRecordedNotFlagged(t *testing.T) {
	questions := []models.AttemptQuestion{
		{Question: question("q1", "chemistry"), State: answeredState(0, 45)},
		{Question: question("q2", "chemistry"), State: answeredState(1, 55)},
	}
	a := completedAttempt(questions, 100)

	snap := NewAggregator(nil).Snapshot(a, nil)

	m := snap.SubjectWise["chemistry"]
	if !almostEqual(m.TimeSpentSeconds, 100) {
		t.Errorf("TimeSpentSeconds = %v, want recorded 100", m.TimeSpentSeconds)
	}
	if m.TimeEstimated {
		t.Error("recorded time must not be flagged estimated")
	}
	if m.Attempted != 2 || m.Correct != 1 {
		t.Errorf("attempted/correct = %d/%d, want 2/1", m.Attempted, m.Correct)
	}
	if !almostEqual(m.Accuracy, 0.5) {
		t.Errorf("Accuracy = %v, want 0.5", m.Accuracy)
	}
}

func TestTimeDistributionBuckets(t *testing.T) {
	questions := []models.AttemptQuestion{
		{Question: question("q1", "s"), State: answeredState(0, 10)},  // quick
		{Question: question("q2", "s"), State: answeredState(0, 30)},  // moderate (boundary)
		{Question: question("q3", "s"), State: answeredState(0, 60)},  // moderate
		{Question: question("q4", "s"), State: answeredState(0, 120)}, // moderate (boundary)
		{Question: question("q5", "s"), State: answeredState(0, 200)}, // lengthy
		{Question: question("q6", "s"), State: models.QuestionState{IsVisited: true, TimeTakenSeconds: 500}},
	}
	a := completedAttempt(questions, 420)

	snap := NewAggregator(nil).Snapshot(a, nil)
	d := snap.TimeAnalytics.Distribution

	if d.Quick.Count != 1 || d.Moderate.Count != 3 || d.Lengthy.Count != 1 {
		t.Errorf("bucket counts = %d/%d/%d, want 1/3/1", d.Quick.Count, d.Moderate.Count, d.Lengthy.Count)
	}
	// Shares are over attempted questions only; the unanswered q6 is excluded.
	if !almostEqual(d.Quick.Share, 0.2) || !almostEqual(d.Moderate.Share, 0.6) || !almostEqual(d.Lengthy.Share, 0.2) {
		t.Errorf("bucket shares = %v/%v/%v, want 0.2/0.6/0.2", d.Quick.Share, d.Moderate.Share, d.Lengthy.Share)
	}
	if !almostEqual(d.Quick.Share+d.Moderate.Share+d.Lengthy.Share, 1) {
		t.Error("bucket shares must sum to 1")
	}
	if !almostEqual(snap.TimeAnalytics.AverageTimePerQuestion, 84) {
		t.Errorf("AverageTimePerQuestion = %v, want 84", snap.TimeAnalytics.AverageTimePerQuestion)
	}
	if !almostEqual(snap.TimeAnalytics.MedianTimePerQuestion, 60) {
		t.Errorf("MedianTimePerQuestion = %v, want 60", snap.TimeAnalytics.MedianTimePerQuestion)
	}
}

func TestSnapshotIdempotent(t *testing.T) {
	questions := []models.AttemptQuestion{
		{Question: question("q1", "mathematics"), State: answeredState(0, 40)},
		{Question: question("q2", "physics"), State: answeredState(1, 90)},
		{Question: question("q3", "physics"), State: models.QuestionState{IsVisited: true}},
	}
	a := completedAttempt(questions, 130)
	events := []models.InteractionEvent{
		{QuestionID: "q2", TimestampEnter: 5000, TimestampLeave: 9000, Action: models.ActionVisit},
		{QuestionID: "q1", TimestampEnter: 1000, TimestampLeave: 4000, Action: models.ActionVisit},
		{QuestionID: "q1", TimestampEnter: 3000, TimestampLeave: 3000, Action: models.ActionAnswer},
	}
	eventsBefore := append([]models.InteractionEvent(nil), events...)

	g := NewAggregator(nil)
	first := g.Snapshot(a, events)
	second := g.Snapshot(a, events)

	if !reflect.DeepEqual(first, second) {
		t.Error("aggregating the same inputs twice must yield identical snapshots")
	}
	if !reflect.DeepEqual(events, eventsBefore) {
		t.Error("aggregation must not reorder or mutate the input event log")
	}

	// Navigation history follows enter timestamps, not arrival order.
	if len(first.NavigationHistory) != 3 || first.NavigationHistory[0].QuestionID != "q1" {
		t.Errorf("NavigationHistory = %+v, want q1 first", first.NavigationHistory)
	}
}

func TestBehavioralFromEventLog(t *testing.T) {
	questions := []models.AttemptQuestion{
		{Question: question("q1", "s"), State: answeredState(0, 20)},
		{Question: question("q2", "s"), State: answeredState(1, 90)},
	}
	a := completedAttempt(questions, 110)
	events := []models.InteractionEvent{
		// q1: one visit, answered 4s in, never touched again.
		{QuestionID: "q1", TimestampEnter: 1000, Action: models.ActionVisit},
		{QuestionID: "q1", TimestampEnter: 5000, Action: models.ActionAnswer},
		// q2: two visits, answer changed twice.
		{QuestionID: "q2", TimestampEnter: 10000, Action: models.ActionVisit},
		{QuestionID: "q2", TimestampEnter: 20000, Action: models.ActionAnswer},
		{QuestionID: "q2", TimestampEnter: 30000, Action: models.ActionVisit},
		{QuestionID: "q2", TimestampEnter: 31000, Action: models.ActionAnswer},
		{QuestionID: "q2", TimestampEnter: 32000, Action: models.ActionAnswer},
	}

	snap := NewAggregator(nil).Snapshot(a, events)
	b := snap.BehavioralAnalytics

	if b.RevisitCounts["q1"] != 0 || b.RevisitCounts["q2"] != 1 {
		t.Errorf("RevisitCounts = %v, want q1:0 q2:1", b.RevisitCounts)
	}
	if b.AnswerChangeCounts["q1"] != 0 || b.AnswerChangeCounts["q2"] != 2 {
		t.Errorf("AnswerChangeCounts = %v, want q1:0 q2:2", b.AnswerChangeCounts)
	}
	if !almostEqual(b.HesitationSeconds["q1"], 4) || !almostEqual(b.HesitationSeconds["q2"], 10) {
		t.Errorf("HesitationSeconds = %v, want q1:4 q2:10", b.HesitationSeconds)
	}
	if !reflect.DeepEqual(b.Confidence.QuickAnswers, []string{"q1"}) {
		t.Errorf("QuickAnswers = %v, want [q1]", b.Confidence.QuickAnswers)
	}
	if !reflect.DeepEqual(b.Confidence.MultipleRevision, []string{"q2"}) {
		t.Errorf("MultipleRevision = %v, want [q2]", b.Confidence.MultipleRevision)
	}

	if snap.StrategyMetrics.QuestionsRevisited != 1 || snap.StrategyMetrics.TotalRevisits != 1 {
		t.Errorf("revisit strategy = %+v", snap.StrategyMetrics)
	}
	if snap.StrategyMetrics.AnswerChanges != 2 {
		t.Errorf("AnswerChanges = %d, want 2", snap.StrategyMetrics.AnswerChanges)
	}
}

func TestErrorPatternAttribution(t *testing.T) {
	// Subject average is (60+5+200)/3 = 88.33s. The 5s wrong answer falls
	// under a third of that (careless); the 200s one exceeds double it
	// (time management).
	questions := []models.AttemptQuestion{
		{Question: question("q1", "mathematics"), State: answeredState(0, 60)}, // correct
		{Question: question("q2", "mathematics"), State: answeredState(1, 5)},
		{Question: question("q3", "mathematics"), State: answeredState(1, 200)},
	}
	a := completedAttempt(questions, 265)

	snap := NewAggregator(nil).Snapshot(a, nil)
	ea := snap.ErrorAnalytics

	if ea.TotalIncorrect != 2 {
		t.Fatalf("TotalIncorrect = %d, want 2", ea.TotalIncorrect)
	}
	if !ea.Heuristic || ea.Note == "" {
		t.Error("error analytics must be flagged heuristic with an explanatory note")
	}
	if ea.PatternCounts[models.ErrorPatternCareless] != 1 {
		t.Errorf("careless count = %d, want 1", ea.PatternCounts[models.ErrorPatternCareless])
	}
	if ea.PatternCounts[models.ErrorPatternTimeManagement] != 1 {
		t.Errorf("time_management count = %d, want 1", ea.PatternCounts[models.ErrorPatternTimeManagement])
	}
}

func TestErrorPatternTypeFallback(t *testing.T) {
	numerical := models.Question{
		ID:              "n1",
		Subject:         "physics",
		Type:            models.QuestionTypeNumerical,
		NumericalAnswer: &models.NumericalAnswer{ExactValue: 5},
	}
	questions := []models.AttemptQuestion{
		{Question: numerical, State: answeredState(7, 60)},
		{Question: question("c1", "physics"), State: answeredState(1, 60)},
	}
	a := completedAttempt(questions, 120)

	ea := NewAggregator(nil).Snapshot(a, nil).ErrorAnalytics

	if ea.PatternCounts[models.ErrorPatternCalculation] != 1 {
		t.Errorf("calculation count = %d, want 1", ea.PatternCounts[models.ErrorPatternCalculation])
	}
	if ea.PatternCounts[models.ErrorPatternConceptual] != 1 {
		t.Errorf("conceptual count = %d, want 1", ea.PatternCounts[models.ErrorPatternConceptual])
	}
}

func TestCompletionMetrics(t *testing.T) {
	questions := []models.AttemptQuestion{
		{Question: question("q1", "s"), State: answeredState(0, 100)},
		{Question: question("q2", "s"), State: models.QuestionState{IsVisited: true}},
	}
	a := completedAttempt(questions, 700) // more than the 600s duration
	a.CompletionType = models.CompletionTimeExpired

	cm := NewAggregator(nil).Snapshot(a, nil).CompletionMetrics

	if !almostEqual(cm.CompletionRate, 0.5) {
		t.Errorf("CompletionRate = %v, want 0.5", cm.CompletionRate)
	}
	if cm.TimeUsedPercent != 100 {
		t.Errorf("TimeUsedPercent = %v, want clamp to 100", cm.TimeUsedPercent)
	}
	if cm.CompletionType != models.CompletionTimeExpired {
		t.Errorf("CompletionType = %v", cm.CompletionType)
	}
}
