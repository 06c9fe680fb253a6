package attempt

import (
	"errors"
	"reflect"
	"testing"

	"attempt-service/internal/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func newAttempt(n int) *models.Attempt {
	questions := make([]models.AttemptQuestion, n)
	for i := range questions {
		questions[i] = models.AttemptQuestion{
			Question: models.Question{
				Type:          models.QuestionTypeSingleChoice,
				CorrectOption: iptr(0),
			},
		}
	}
	return &models.Attempt{
		ID:                   "a1",
		Questions:            questions,
		TotalDurationSeconds: 600,
		MarkingScheme:        models.MarkingScheme{Correct: 4, Incorrect: -1, Unattempted: 0},
		Status:               models.AttemptNotStarted,
	}
}

func TestStart(t *testing.T) {
	a := newAttempt(3)
	Start(a)

	if a.Status != models.AttemptInProgress {
		t.Errorf("Status = %v, want in_progress", a.Status)
	}
	if a.RemainingSeconds != 600 {
		t.Errorf("RemainingSeconds = %v, want seeded from duration", a.RemainingSeconds)
	}
	if !a.Questions[0].State.IsVisited {
		t.Error("first question should be visited on start")
	}
	if a.StartedAt == nil {
		t.Error("StartedAt should be set")
	}

	// Starting again must not reset the clock.
	a.RemainingSeconds = 100
	Start(a)
	if a.RemainingSeconds != 100 {
		t.Error("second Start should be a no-op")
	}
}

func TestNavigateTo(t *testing.T) {
	a := newAttempt(3)
	Start(a)

	if err := NavigateTo(a, 2); err != nil {
		t.Fatalf("NavigateTo(2) error: %v", err)
	}
	if a.ActiveQuestionIndex != 2 || !a.Questions[2].State.IsVisited {
		t.Error("navigation should move the active index and mark visited")
	}

	tests := []struct {
		name  string
		index int
	}{
		{"negative index", -1},
		{"index equals count", 3},
		{"far out of range", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NavigateTo(a, tt.index)
			var oor *OutOfRangeError
			if !errors.As(err, &oor) {
				t.Fatalf("NavigateTo(%d) error = %v, want OutOfRangeError", tt.index, err)
			}
			if oor.Index != tt.index || oor.Count != 3 {
				t.Errorf("OutOfRangeError = %+v, want index %d count 3", oor, tt.index)
			}
		})
	}
}

func TestNavigateZeroQuestions(t *testing.T) {
	a := newAttempt(0)
	Start(a)
	var oor *OutOfRangeError
	if err := NavigateTo(a, 0); !errors.As(err, &oor) {
		t.Fatalf("NavigateTo on empty paper error = %v, want OutOfRangeError", err)
	}
}

func TestRecordAnswerAndClear(t *testing.T) {
	a := newAttempt(2)
	Start(a)

	if err := RecordAnswer(a, 1, fptr(2)); err != nil {
		t.Fatalf("RecordAnswer error: %v", err)
	}
	st := a.Questions[1].State
	if st.SelectedValue == nil || *st.SelectedValue != 2 {
		t.Errorf("SelectedValue = %v, want 2", st.SelectedValue)
	}
	if !st.IsVisited {
		t.Error("answering should mark the question visited")
	}

	if err := RecordAnswer(a, 1, nil); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	st = a.Questions[1].State
	if st.SelectedValue != nil {
		t.Error("clear should remove the selection")
	}
	if !st.IsVisited {
		t.Error("cleared question must stay visited")
	}
	if st.Answered() {
		t.Error("cleared question must count as unattempted")
	}
}

func TestRecordMultiAnswer(t *testing.T) {
	a := newAttempt(1)
	a.Questions[0].Question.Type = models.QuestionTypeMultiChoice
	a.Questions[0].Question.CorrectOptions = []int{0, 1}
	Start(a)

	if err := RecordMultiAnswer(a, 0, []int{1, 0}); err != nil {
		t.Fatalf("RecordMultiAnswer error: %v", err)
	}
	if !reflect.DeepEqual(a.Questions[0].State.SelectedOptions, []int{1, 0}) {
		t.Errorf("SelectedOptions = %v", a.Questions[0].State.SelectedOptions)
	}

	if err := RecordMultiAnswer(a, 0, nil); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	if a.Questions[0].State.Answered() {
		t.Error("empty option set should clear the answer")
	}
}

func TestToggleMark(t *testing.T) {
	a := newAttempt(1)
	Start(a)

	ToggleMark(a, 0)
	if !a.Questions[0].State.IsMarked {
		t.Error("first toggle should mark")
	}
	ToggleMark(a, 0)
	if a.Questions[0].State.IsMarked {
		t.Error("second toggle should unmark")
	}
}

func TestAccrueTime(t *testing.T) {
	a := newAttempt(1)
	Start(a)

	if err := AccrueTime(a, 0, 12.5); err != nil {
		t.Fatalf("AccrueTime error: %v", err)
	}
	if err := AccrueTime(a, 0, 7.5); err != nil {
		t.Fatalf("AccrueTime error: %v", err)
	}
	if got := a.Questions[0].State.TimeTakenSeconds; got != 20 {
		t.Errorf("TimeTakenSeconds = %v, want 20", got)
	}

	if err := AccrueTime(a, 0, -1); !errors.Is(err, ErrNegativeTimeDelta) {
		t.Errorf("negative delta error = %v, want ErrNegativeTimeDelta", err)
	}
	if got := a.Questions[0].State.TimeTakenSeconds; got != 20 {
		t.Errorf("rejected delta must not be applied, got %v", got)
	}
}

func TestTickAutoSubmitsExactlyOnce(t *testing.T) {
	a := newAttempt(2)
	a.TotalDurationSeconds = 10
	Start(a)
	RecordAnswer(a, 0, fptr(0))

	if submitted := Tick(a, 9); submitted {
		t.Fatal("tick with time remaining should not submit")
	}
	if submitted := Tick(a, 5); !submitted {
		t.Fatal("tick past zero should auto-submit")
	}
	if a.Status != models.AttemptCompleted {
		t.Errorf("Status = %v, want completed", a.Status)
	}
	if a.CompletionType != models.CompletionTimeExpired {
		t.Errorf("CompletionType = %v, want time_expired", a.CompletionType)
	}
	if a.RemainingSeconds != 0 {
		t.Errorf("RemainingSeconds = %v, want clamped to 0", a.RemainingSeconds)
	}

	score := *a.Score
	if submitted := Tick(a, 5); submitted {
		t.Error("further ticks on a completed attempt must not submit again")
	}
	if *a.Score != score {
		t.Error("further ticks must not change the score")
	}
}

func TestSubmitIdempotent(t *testing.T) {
	a := newAttempt(3)
	Start(a)
	RecordAnswer(a, 0, fptr(0)) // correct
	RecordAnswer(a, 1, fptr(2)) // incorrect
	Tick(a, 200)

	first := Submit(a, models.CompletionManual)
	if first.RawScore != 3 {
		t.Errorf("RawScore = %v, want 3", first.RawScore)
	}
	if a.CompletionType != models.CompletionManual {
		t.Errorf("CompletionType = %v, want manual", a.CompletionType)
	}

	second := Submit(a, models.CompletionManual)
	if second != first {
		t.Errorf("re-submit returned %+v, want stored %+v", second, first)
	}
}

func TestSubmitNotStarted(t *testing.T) {
	a := newAttempt(2)
	result := Submit(a, models.CompletionManual)
	if result != (models.ScoreResult{}) {
		t.Errorf("submitting a not_started attempt scored %+v, want zero", result)
	}
	if a.Status != models.AttemptNotStarted {
		t.Errorf("Status = %v, should stay not_started", a.Status)
	}
}

func TestCompletedAttemptIsFrozen(t *testing.T) {
	a := newAttempt(2)
	Start(a)
	RecordAnswer(a, 0, fptr(0))
	Submit(a, models.CompletionManual)

	before := *a
	before.Questions = append([]models.AttemptQuestion(nil), a.Questions...)

	if err := NavigateTo(a, 1); err != nil {
		t.Errorf("post-submit NavigateTo error = %v, want silent no-op", err)
	}
	RecordAnswer(a, 1, fptr(1))
	RecordMultiAnswer(a, 1, []int{0})
	ToggleMark(a, 0)
	AccrueTime(a, 0, 30)
	Tick(a, 100)
	Submit(a, models.CompletionTimeExpired)

	if !reflect.DeepEqual(before, *a) {
		t.Error("mutations after completion must leave the attempt unchanged")
	}
}

func TestDisplayStatus(t *testing.T) {
	tests := []struct {
		name  string
		state models.QuestionState
		want  string
	}{
		{"untouched", models.QuestionState{}, models.StatusNotVisited},
		{"visited only", models.QuestionState{IsVisited: true}, models.StatusNotAnswered},
		{"answered", models.QuestionState{SelectedValue: fptr(1), IsVisited: true}, models.StatusAnswered},
		{"marked only", models.QuestionState{IsMarked: true, IsVisited: true}, models.StatusMarkedForReview},
		{"answered and marked", models.QuestionState{SelectedValue: fptr(1), IsMarked: true, IsVisited: true}, models.StatusAnsweredAndMarked},
		{"multi answered", models.QuestionState{SelectedOptions: []int{0}, IsVisited: true}, models.StatusAnswered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayStatus(tt.state); got != tt.want {
				t.Errorf("DisplayStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}
