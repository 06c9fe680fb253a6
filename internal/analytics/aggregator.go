// Package analytics derives the post-attempt views from a completed
// attempt plus the externally captured interaction log. Every output is a
// pure function of those inputs: aggregating the same attempt twice yields
// an identical snapshot, and nothing here mutates the attempt or the log.
package analytics

import (
	"sort"

	"github.com/montanaflynn/stats"

	"attempt-service/internal/models"
	"attempt-service/internal/scoring"
)

type Aggregator struct {
	cfg Config
}

// NewAggregator creates an aggregator; a nil config selects the defaults.
func NewAggregator(cfg *Config) *Aggregator {
	if cfg == nil {
		d := DefaultConfig()
		cfg = &d
	}
	return &Aggregator{cfg: *cfg}
}

// Snapshot recomputes the full analytics view. Safe to call concurrently
// on snapshots of the same attempt; there is no shared mutable state.
func (g *Aggregator) Snapshot(a models.Attempt, events []models.InteractionEvent) models.AnalyticsSnapshot {
	ordered := orderedEvents(events)
	totalTime := attemptTimeTaken(a)

	subjects := g.subjectMetrics(a, totalTime)
	behavioral := g.behavioral(a, ordered)

	return models.AnalyticsSnapshot{
		SubjectWise:         subjects,
		TimeAnalytics:       g.timeAnalytics(a, totalTime),
		StrategyMetrics:     g.strategy(a, behavioral),
		CompletionMetrics:   g.completion(a, totalTime),
		ErrorAnalytics:      g.errorAnalytics(a, subjects),
		BehavioralAnalytics: behavioral,
		NavigationHistory:   navigationHistory(ordered),
	}
}

// subjectMetrics aggregates per subject. When no per-question time was
// recorded at all, the attempt total is distributed proportionally by each
// subject's share of the question count and flagged as estimated.
func (g *Aggregator) subjectMetrics(a models.Attempt, totalTime float64) map[string]models.SubjectMetrics {
	out := make(map[string]models.SubjectMetrics)
	recordedTotal := 0.0
	for _, aq := range a.Questions {
		recordedTotal += aq.State.TimeTakenSeconds
	}
	estimate := recordedTotal <= 0 && totalTime > 0 && len(a.Questions) > 0

	for _, aq := range a.Questions {
		m := out[aq.Question.Subject]
		m.Total++
		if aq.State.Answered() {
			m.Attempted++
		}
		if scoring.Classify(aq.Question, aq.State) == scoring.OutcomeCorrect {
			m.Correct++
		}
		if !estimate {
			m.TimeSpentSeconds += aq.State.TimeTakenSeconds
		}
		out[aq.Question.Subject] = m
	}

	for subject, m := range out {
		if estimate {
			m.TimeSpentSeconds = totalTime * float64(m.Total) / float64(len(a.Questions))
			m.TimeEstimated = true
		}
		if m.Attempted > 0 {
			m.Accuracy = float64(m.Correct) / float64(m.Attempted)
			m.AverageTimePerQuestion = m.TimeSpentSeconds / float64(m.Attempted)
		}
		out[subject] = m
	}
	return out
}

func (g *Aggregator) timeAnalytics(a models.Attempt, totalTime float64) models.TimeAnalytics {
	ta := models.TimeAnalytics{TotalTimeSeconds: totalTime}

	var attemptedTimes []float64
	attempted := 0
	for _, aq := range a.Questions {
		if !aq.State.Answered() {
			continue
		}
		attempted++
		t := aq.State.TimeTakenSeconds
		attemptedTimes = append(attemptedTimes, t)
		switch {
		case t < g.cfg.QuickTimeSeconds:
			ta.Distribution.Quick.Count++
		case t > g.cfg.LengthyTimeSeconds:
			ta.Distribution.Lengthy.Count++
		default:
			ta.Distribution.Moderate.Count++
		}
	}

	if attempted > 0 {
		ta.Distribution.Quick.Share = float64(ta.Distribution.Quick.Count) / float64(attempted)
		ta.Distribution.Moderate.Share = float64(ta.Distribution.Moderate.Count) / float64(attempted)
		ta.Distribution.Lengthy.Share = float64(ta.Distribution.Lengthy.Count) / float64(attempted)

		ta.AverageTimePerQuestion, _ = stats.Mean(attemptedTimes)
		ta.MedianTimePerQuestion, _ = stats.Median(attemptedTimes)
		ta.TimeStdDevSeconds, _ = stats.StandardDeviation(attemptedTimes)
	}
	return ta
}

func (g *Aggregator) strategy(a models.Attempt, b models.BehavioralAnalytics) models.StrategyMetrics {
	sm := models.StrategyMetrics{}
	var times []float64
	for _, aq := range a.Questions {
		if aq.State.IsMarked {
			sm.QuestionsMarked++
		}
		if aq.State.TimeTakenSeconds > 0 {
			times = append(times, aq.State.TimeTakenSeconds)
		}
	}
	for _, n := range b.RevisitCounts {
		if n > 0 {
			sm.QuestionsRevisited++
			sm.TotalRevisits += n
		}
	}
	for _, n := range b.AnswerChangeCounts {
		sm.AnswerChanges += n
	}
	if len(times) > 0 {
		mean, _ := stats.Mean(times)
		if mean > 0 {
			sd, _ := stats.StandardDeviation(times)
			sm.PaceConsistency = sd / mean
		}
	}
	return sm
}

func (g *Aggregator) completion(a models.Attempt, totalTime float64) models.CompletionMetrics {
	cm := models.CompletionMetrics{
		TotalQuestions: len(a.Questions),
		CompletionType: a.CompletionType,
	}
	for _, aq := range a.Questions {
		if aq.State.Answered() {
			cm.Attempted++
		}
	}
	if cm.TotalQuestions > 0 {
		cm.CompletionRate = float64(cm.Attempted) / float64(cm.TotalQuestions)
	}
	if a.TotalDurationSeconds > 0 {
		pct := totalTime / a.TotalDurationSeconds * 100
		if pct > 100 {
			pct = 100
		}
		if pct < 0 {
			pct = 0
		}
		cm.TimeUsedPercent = pct
	}
	return cm
}

func navigationHistory(events []models.InteractionEvent) []models.NavigationEntry {
	out := make([]models.NavigationEntry, 0, len(events))
	for _, ev := range events {
		duration := float64(ev.TimestampLeave-ev.TimestampEnter) / 1000
		if duration < 0 {
			duration = 0
		}
		out = append(out, models.NavigationEntry{
			QuestionID:      ev.QuestionID,
			TimestampEnter:  ev.TimestampEnter,
			TimestampLeave:  ev.TimestampLeave,
			Action:          ev.Action,
			DurationSeconds: duration,
		})
	}
	return out
}

// orderedEvents sorts a copy of the log by enter timestamp. The input
// slice is externally owned and never touched.
func orderedEvents(events []models.InteractionEvent) []models.InteractionEvent {
	ordered := append([]models.InteractionEvent(nil), events...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TimestampEnter < ordered[j].TimestampEnter
	})
	return ordered
}

func attemptTimeTaken(a models.Attempt) float64 {
	if a.Score != nil {
		return a.Score.TimeTakenSeconds
	}
	t := a.TotalDurationSeconds - a.RemainingSeconds
	if t < 0 {
		t = 0
	}
	return t
}
