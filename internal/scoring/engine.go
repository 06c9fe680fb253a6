package scoring

import (
	"math"

	"attempt-service/internal/models"
)

// Outcome is the exclusive classification of one question at submission.
type Outcome string

const (
	OutcomeCorrect     Outcome = "correct"
	OutcomeIncorrect   Outcome = "incorrect"
	OutcomeUnattempted Outcome = "unattempted"
)

const floatTolerance = 1e-9

// Classify buckets a question into exactly one outcome. Precedence: no
// selection means unattempted; a selection matching the answer key means
// correct; anything else selected means incorrect. A missing answer key
// never promotes a selection to correct.
func Classify(q models.Question, st models.QuestionState) Outcome {
	if !st.Answered() {
		return OutcomeUnattempted
	}

	switch q.Type {
	case models.QuestionTypeMultiChoice:
		if equalOptionSets(selectedSet(st), q.CorrectOptions) {
			return OutcomeCorrect
		}
	case models.QuestionTypeNumerical:
		if st.SelectedValue != nil && numericallyCorrect(q.NumericalAnswer, *st.SelectedValue) {
			return OutcomeCorrect
		}
	default:
		if q.CorrectOption != nil && st.SelectedValue != nil &&
			*st.SelectedValue == float64(*q.CorrectOption) {
			return OutcomeCorrect
		}
	}
	return OutcomeIncorrect
}

// PointsFor maps an outcome to its marking-scheme value.
func PointsFor(o Outcome, scheme models.MarkingScheme) float64 {
	switch o {
	case OutcomeCorrect:
		return scheme.Correct
	case OutcomeIncorrect:
		return scheme.Incorrect
	default:
		return scheme.Unattempted
	}
}

// Score computes the final result for a finished attempt. It is pure:
// identical inputs always yield an identical result. An attempt with zero
// questions produces the all-zero degenerate result rather than dividing
// by zero.
func Score(questions []models.AttemptQuestion, scheme models.MarkingScheme, totalDurationSeconds, remainingSeconds float64) models.ScoreResult {
	result := models.ScoreResult{}
	if len(questions) == 0 {
		return result
	}

	for _, aq := range questions {
		switch Classify(aq.Question, aq.State) {
		case OutcomeCorrect:
			result.CorrectCount++
		case OutcomeIncorrect:
			result.IncorrectCount++
		default:
			result.UnattemptedCount++
		}
	}

	result.RawScore = float64(result.CorrectCount)*scheme.Correct +
		float64(result.IncorrectCount)*scheme.Incorrect +
		float64(result.UnattemptedCount)*scheme.Unattempted

	attempted := result.CorrectCount + result.IncorrectCount
	if attempted > 0 {
		result.AccuracyPercent = float64(result.CorrectCount) / float64(attempted) * 100
	}

	result.TimeTakenSeconds = totalDurationSeconds - remainingSeconds
	if result.TimeTakenSeconds < 0 {
		result.TimeTakenSeconds = 0
	}
	return result
}

// MaxScore is the ceiling the marking scheme allows for the paper.
func MaxScore(questionCount int, scheme models.MarkingScheme) float64 {
	return float64(questionCount) * scheme.Correct
}

func numericallyCorrect(spec *models.NumericalAnswer, value float64) bool {
	if spec == nil {
		return false
	}
	if spec.RangeMin != nil && spec.RangeMax != nil {
		return value >= *spec.RangeMin && value <= *spec.RangeMax
	}
	return math.Abs(value-spec.ExactValue) <= floatTolerance
}

func selectedSet(st models.QuestionState) []int {
	if len(st.SelectedOptions) > 0 {
		return st.SelectedOptions
	}
	if st.SelectedValue != nil {
		return []int{int(*st.SelectedValue)}
	}
	return nil
}

func equalOptionSets(a, b []int) bool {
	if len(b) == 0 {
		return false
	}
	seen := make(map[int]struct{}, len(a))
	for _, v := range a {
		seen[v] = struct{}{}
	}
	if len(seen) != len(uniq(b)) {
		return false
	}
	for _, v := range b {
		if _, ok := seen[v]; !ok {
			return false
		}
	}
	return true
}

func uniq(in []int) []int {
	set := make(map[int]struct{}, len(in))
	out := in[:0:0]
	for _, v := range in {
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
