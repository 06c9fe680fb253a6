package analytics

import (
	"attempt-service/internal/models"
	"attempt-service/internal/scoring"
)

const errorPatternNote = "Patterns are heuristic attributions from timing signals, not verified diagnoses."

// errorAnalytics attributes each incorrect answer to one pattern. Rule:
// careless when time spent was under CarelessFraction of the subject
// average; time_management when it was over TimeManagementMultiple times
// the subject average; otherwise calculation for numerical questions and
// conceptual for the rest.
func (g *Aggregator) errorAnalytics(a models.Attempt, subjects map[string]models.SubjectMetrics) models.ErrorAnalytics {
	ea := models.ErrorAnalytics{
		Patterns:      []models.ErrorPattern{},
		PatternCounts: map[string]int{},
		Heuristic:     true,
		Note:          errorPatternNote,
	}

	for _, aq := range a.Questions {
		if scoring.Classify(aq.Question, aq.State) != scoring.OutcomeIncorrect {
			continue
		}
		ea.TotalIncorrect++

		t := aq.State.TimeTakenSeconds
		subjectAvg := subjects[aq.Question.Subject].AverageTimePerQuestion

		pattern := models.ErrorPatternConceptual
		switch {
		case subjectAvg > 0 && t < g.cfg.CarelessFraction*subjectAvg:
			pattern = models.ErrorPatternCareless
		case subjectAvg > 0 && t > g.cfg.TimeManagementMultiple*subjectAvg:
			pattern = models.ErrorPatternTimeManagement
		case aq.Question.Type == models.QuestionTypeNumerical:
			pattern = models.ErrorPatternCalculation
		}

		ea.Patterns = append(ea.Patterns, models.ErrorPattern{
			QuestionID:       aq.Question.ID,
			Subject:          aq.Question.Subject,
			Pattern:          pattern,
			TimeTakenSeconds: t,
		})
		ea.PatternCounts[pattern]++
	}
	return ea
}
