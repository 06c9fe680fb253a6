package normalize

import "attempt-service/internal/models"

// Report makes a fetched report structurally complete in place so the
// results screen never dereferences a missing sub-object, and re-derives
// the performance summary from the raw answer array when the stored one
// is absent or stale.
func Report(rep *models.AttemptReport, cfg Config) {
	if rep == nil {
		return
	}

	if rep.Answers == nil {
		rep.Answers = []models.AnswerRecord{}
	}
	if rep.SubjectWise == nil {
		rep.SubjectWise = map[string]models.SubjectMetrics{}
	}
	if rep.NavigationHistory == nil {
		rep.NavigationHistory = []models.NavigationEntry{}
	}
	if rep.ErrorAnalytics.Patterns == nil {
		rep.ErrorAnalytics.Patterns = []models.ErrorPattern{}
	}
	if rep.ErrorAnalytics.PatternCounts == nil {
		rep.ErrorAnalytics.PatternCounts = map[string]int{}
	}
	if rep.BehavioralAnalytics.RevisitCounts == nil {
		rep.BehavioralAnalytics.RevisitCounts = map[string]int{}
	}
	if rep.BehavioralAnalytics.HesitationSeconds == nil {
		rep.BehavioralAnalytics.HesitationSeconds = map[string]float64{}
	}
	if rep.BehavioralAnalytics.AnswerChangeCounts == nil {
		rep.BehavioralAnalytics.AnswerChangeCounts = map[string]int{}
	}
	if rep.BehavioralAnalytics.Confidence.QuickAnswers == nil {
		rep.BehavioralAnalytics.Confidence.QuickAnswers = []string{}
	}
	if rep.BehavioralAnalytics.Confidence.LongDeliberation == nil {
		rep.BehavioralAnalytics.Confidence.LongDeliberation = []string{}
	}
	if rep.BehavioralAnalytics.Confidence.MultipleRevision == nil {
		rep.BehavioralAnalytics.Confidence.MultipleRevision = []string{}
	}

	rep.Performance.TimeTakenSeconds = Seconds(rep.Performance.TimeTakenSeconds, cfg)
	rep.TimeAnalytics.TotalTimeSeconds = Seconds(rep.TimeAnalytics.TotalTimeSeconds, cfg)
	for i := range rep.Answers {
		rep.Answers[i].TimeTakenSeconds = Seconds(rep.Answers[i].TimeTakenSeconds, cfg)
	}

	counted := rep.Performance.CorrectCount + rep.Performance.IncorrectCount + rep.Performance.UnattemptedCount
	if counted != len(rep.Answers) && len(rep.Answers) > 0 {
		rederivePerformance(rep)
	}
}

func rederivePerformance(rep *models.AttemptReport) {
	p := &rep.Performance
	p.CorrectCount = 0
	p.IncorrectCount = 0
	p.UnattemptedCount = 0
	p.RawScore = 0
	for _, ans := range rep.Answers {
		switch ans.Outcome {
		case "correct":
			p.CorrectCount++
		case "incorrect":
			p.IncorrectCount++
		default:
			p.UnattemptedCount++
		}
		p.RawScore += ans.PointsEarned
	}
	p.AttemptedCount = p.CorrectCount + p.IncorrectCount
	if p.AttemptedCount > 0 {
		p.AccuracyPercent = float64(p.CorrectCount) / float64(p.AttemptedCount) * 100
	} else {
		p.AccuracyPercent = 0
	}
	rep.CompletionMetrics.TotalQuestions = len(rep.Answers)
	rep.CompletionMetrics.Attempted = p.AttemptedCount
	if len(rep.Answers) > 0 {
		rep.CompletionMetrics.CompletionRate = float64(p.AttemptedCount) / float64(len(rep.Answers))
	}
}
