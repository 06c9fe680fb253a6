// Package attempt is the in-progress attempt state store: it owns the
// per-question interaction state and the attempt lifecycle
// (not_started -> in_progress -> completed). Every operation applies a
// transition to the attempt record passed in; none of them block. Once an
// attempt is completed the record is frozen and every mutation becomes a
// deliberate no-op.
package attempt

import (
	"time"

	"attempt-service/internal/models"
	"attempt-service/internal/scoring"
)

// Start moves a fresh attempt into in_progress and seeds the clock from
// the exam duration. Starting anything but a not_started attempt is a
// no-op.
func Start(a *models.Attempt) {
	if a.Status != models.AttemptNotStarted {
		return
	}
	a.Status = models.AttemptInProgress
	a.RemainingSeconds = a.TotalDurationSeconds
	now := time.Now()
	a.StartedAt = &now
	a.ActiveQuestionIndex = 0
	if len(a.Questions) > 0 {
		a.Questions[0].State.IsVisited = true
	}
}

// NavigateTo makes the question at index the active one and marks it
// visited. The caller is responsible for flushing time accrual for the
// previously active question first (see AccrueTime). Invalid targets fail
// with OutOfRangeError while the attempt is live.
func NavigateTo(a *models.Attempt, index int) error {
	if a.Status == models.AttemptCompleted {
		return nil
	}
	if index < 0 || index >= len(a.Questions) {
		return &OutOfRangeError{Index: index, Count: len(a.Questions)}
	}
	a.ActiveQuestionIndex = index
	a.Questions[index].State.IsVisited = true
	return nil
}

// RecordAnswer sets the student's current selection. A nil value clears
// the answer; the question stays visited, which is the only trace that
// distinguishes a cleared answer from one never given. Only valid while
// the attempt is in progress.
func RecordAnswer(a *models.Attempt, index int, value *float64) error {
	if a.Status != models.AttemptInProgress {
		return nil
	}
	if index < 0 || index >= len(a.Questions) {
		return &OutOfRangeError{Index: index, Count: len(a.Questions)}
	}
	st := &a.Questions[index].State
	st.SelectedValue = value
	if value == nil {
		st.SelectedOptions = nil
	}
	st.IsVisited = true
	return nil
}

// RecordMultiAnswer sets the selected option set for a multi-choice
// question. An empty set clears the answer.
func RecordMultiAnswer(a *models.Attempt, index int, options []int) error {
	if a.Status != models.AttemptInProgress {
		return nil
	}
	if index < 0 || index >= len(a.Questions) {
		return &OutOfRangeError{Index: index, Count: len(a.Questions)}
	}
	st := &a.Questions[index].State
	if len(options) == 0 {
		st.SelectedOptions = nil
		st.SelectedValue = nil
	} else {
		st.SelectedOptions = append([]int(nil), options...)
	}
	st.IsVisited = true
	return nil
}

// ToggleMark flips the marked-for-review flag. Marking is independent of
// the answered state.
func ToggleMark(a *models.Attempt, index int) error {
	if a.Status != models.AttemptInProgress {
		return nil
	}
	if index < 0 || index >= len(a.Questions) {
		return &OutOfRangeError{Index: index, Count: len(a.Questions)}
	}
	a.Questions[index].State.IsMarked = !a.Questions[index].State.IsMarked
	return nil
}

// AccrueTime adds active time to one question's counter. Deltas must be
// non-negative; a negative delta is an error, never silently applied.
func AccrueTime(a *models.Attempt, index int, deltaSeconds float64) error {
	if a.Status != models.AttemptInProgress {
		return nil
	}
	if index < 0 || index >= len(a.Questions) {
		return &OutOfRangeError{Index: index, Count: len(a.Questions)}
	}
	if deltaSeconds < 0 {
		return ErrNegativeTimeDelta
	}
	a.Questions[index].State.TimeTakenSeconds += deltaSeconds
	return nil
}

// Tick advances the attempt clock. When the clock reaches zero the attempt
// is force-submitted with whatever answer state exists at that instant;
// expiry is a normal completion, not an error. Returns true on the tick
// that performed the auto-submit. Further ticks on a completed attempt are
// no-ops.
func Tick(a *models.Attempt, deltaSeconds float64) bool {
	if a.Status != models.AttemptInProgress {
		return false
	}
	if deltaSeconds < 0 {
		deltaSeconds = 0
	}
	a.RemainingSeconds -= deltaSeconds
	if a.RemainingSeconds > 0 {
		return false
	}
	a.RemainingSeconds = 0
	Submit(a, models.CompletionTimeExpired)
	return true
}

// Submit completes the attempt and computes its score exactly once.
// Submitting an already-completed attempt returns the stored ScoreResult
// unchanged, so a manual submit racing a timer expiry observes the same
// value instead of re-scoring.
func Submit(a *models.Attempt, completionType string) models.ScoreResult {
	if a.Status == models.AttemptCompleted {
		if a.Score != nil {
			return *a.Score
		}
		return models.ScoreResult{}
	}
	if a.Status == models.AttemptNotStarted {
		return models.ScoreResult{}
	}

	result := scoring.Score(a.Questions, a.MarkingScheme, a.TotalDurationSeconds, a.RemainingSeconds)
	a.Score = &result
	a.Status = models.AttemptCompleted
	a.CompletionType = completionType
	now := time.Now()
	a.CompletedAt = &now
	return result
}

// DisplayStatus derives the panel state for one question. It is computed,
// never stored.
func DisplayStatus(st models.QuestionState) string {
	answered := st.Answered()
	switch {
	case answered && st.IsMarked:
		return models.StatusAnsweredAndMarked
	case st.IsMarked:
		return models.StatusMarkedForReview
	case answered:
		return models.StatusAnswered
	case st.IsVisited:
		return models.StatusNotAnswered
	default:
		return models.StatusNotVisited
	}
}
